package cli

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/image/draw"

	"github.com/mhuebner/videowall/pkg/canvas"
	"github.com/mhuebner/videowall/pkg/playback"
	"github.com/mhuebner/videowall/pkg/source"
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// playOpts holds the command-line flags for the play command.
type playOpts struct {
	scenePath string // optional scene file; fresh plan otherwise
	media     string // media directory with frame files
	width     int    // canvas width for fresh plans
	height    int    // canvas height for fresh plans
	min       int    // minimum container count for fresh plans
	max       int    // maximum container count for fresh plans
	seed      uint64 // layout seed for fresh plans
	fps       int    // playback frame rate
	decor     bool   // draw background ornaments
	telemetry bool   // draw telemetry captions
	workers   int    // compositing concurrency
}

// newPlayCmd creates the play command for previewing playback in the
// terminal. Frames are downscaled to the terminal size and drawn as
// half-block ANSI art.
func newPlayCmd(cfg Settings) *cobra.Command {
	opts := playOpts{
		media:     cfg.MediaDir,
		width:     cfg.Width,
		height:    cfg.Height,
		min:       cfg.MinContainers,
		max:       cfg.MaxContainers,
		seed:      cfg.Seed,
		fps:       cfg.FPS,
		decor:     cfg.Decor,
		telemetry: cfg.Telemetry,
		workers:   cfg.Workers,
	}

	cmd := &cobra.Command{
		Use:   "play [scene.json]",
		Short: "Preview playback as ANSI art in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.scenePath = args[0]
			}
			return runPlay(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.media, "media", "m", opts.media, "directory with frame files")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "canvas width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "canvas height in pixels")
	cmd.Flags().IntVar(&opts.min, "min", opts.min, "minimum container count")
	cmd.Flags().IntVar(&opts.max, "max", opts.max, "maximum container count")
	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "layout seed")
	cmd.Flags().IntVar(&opts.fps, "fps", opts.fps, "playback frame rate")
	cmd.Flags().BoolVar(&opts.decor, "decor", opts.decor, "draw background ornaments")
	cmd.Flags().BoolVar(&opts.telemetry, "telemetry", opts.telemetry, "draw telemetry captions")
	cmd.Flags().IntVar(&opts.workers, "workers", opts.workers, "compositing concurrency")

	return cmd
}

// runPlay builds the driver and hands control to the bubbletea program.
func runPlay(ctx context.Context, opts *playOpts) error {
	cv := canvas.Spec{Width: opts.width, Height: opts.height}
	s, err := loadOrPlanScene(ctx, opts.scenePath, cv, opts.min, opts.max, opts.seed)
	if err != nil {
		return err
	}

	src, err := openSource(opts.media, s)
	if err != nil {
		return err
	}
	defer src.Close()

	dopts := playback.Options{
		Workers:   opts.workers,
		Decor:     opts.decor,
		Telemetry: opts.telemetry,
		Logger:    loggerFromContext(ctx),
	}
	d, err := playback.New(s, src, dopts)
	if err != nil {
		return err
	}

	fps := opts.fps
	if fps < 1 {
		fps = 1
	}

	m := playModel{
		ctx:      ctx,
		driver:   d,
		src:      src,
		opts:     opts,
		dopts:    dopts,
		interval: time.Second / time.Duration(fps),
		termW:    80,
		termH:    24,
	}
	_, err = tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

// tickMsg requests the next frame.
type tickMsg time.Time

// replanMsg carries a freshly planned driver after the user pressed n.
type replanMsg struct {
	driver *playback.Driver
	seed   uint64
	err    error
}

// playModel is the bubbletea model for terminal playback.
type playModel struct {
	ctx    context.Context
	driver *playback.Driver
	src    source.Source
	opts   *playOpts
	dopts  playback.Options

	interval time.Duration
	termW    int
	termH    int
	view     string
	frames   int
	err      error
}

func (m playModel) Init() tea.Cmd {
	return m.tick()
}

func (m playModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "n":
			return m, m.replan()
		}

	case tea.WindowSizeMsg:
		m.termW = msg.Width
		m.termH = msg.Height

	case tickMsg:
		frame, err := m.driver.RenderFrame(m.ctx)
		if err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.view = ansiFrame(frame, m.termW, m.termH-1)
		m.frames++
		return m, m.tick()

	case replanMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.driver = msg.driver
		m.opts.seed = msg.seed
	}
	return m, nil
}

// replan builds a new driver for the next seed, keeping the frame source.
func (m playModel) replan() tea.Cmd {
	return func() tea.Msg {
		seed := m.opts.seed + 1
		cv := canvas.Spec{Width: m.opts.width, Height: m.opts.height}
		s, err := loadOrPlanScene(m.ctx, "", cv, m.opts.min, m.opts.max, seed)
		if err != nil {
			return replanMsg{err: err}
		}
		d, err := playback.New(s, m.src, m.dopts)
		if err != nil {
			return replanMsg{err: err}
		}
		return replanMsg{driver: d, seed: seed}
	}
}

func (m playModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("playback failed: %v", m.err)) + "\n"
	}

	var b strings.Builder
	b.WriteString(m.view)
	scn := m.driver.Scene()
	b.WriteString(statusStyle.Render(fmt.Sprintf(
		"seed %d  containers %d  frame %d   n new scene  q quit",
		scn.Seed, len(scn.Containers), m.frames)))
	return b.String()
}

// ansiFrame downscales frame to the terminal and renders it with half-block
// characters, packing two pixel rows into every text row via foreground and
// background colors.
func ansiFrame(frame *image.RGBA, cols, rows int) string {
	if cols < 1 || rows < 1 {
		return ""
	}

	small := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), frame, frame.Bounds(), draw.Src, nil)

	var b strings.Builder
	for y := 0; y < rows*2; y += 2 {
		for x := 0; x < cols; x++ {
			top := small.RGBAAt(x, y)
			bot := small.RGBAAt(x, y+1)
			fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				top.R, top.G, top.B, bot.R, bot.G, bot.B)
		}
		b.WriteString("\x1b[0m\n")
	}
	return b.String()
}
