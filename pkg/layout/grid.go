package layout

// cell is a position on the coarse placement grid.
type cell struct {
	col, row int
}

// occupancy is the coarse boolean placement grid used for collision
// bookkeeping while planning. It is scratch state: allocated per Plan call
// and discarded when the call returns.
type occupancy struct {
	cols, rows int
	used       []bool
}

func newOccupancy(cols, rows int) *occupancy {
	return &occupancy{cols: cols, rows: rows, used: make([]bool, cols*rows)}
}

func (o *occupancy) at(col, row int) bool {
	return o.used[row*o.cols+col]
}

// fits reports whether a span of w×h cells anchored at (col, row) lies
// inside the grid and touches no occupied cell.
func (o *occupancy) fits(col, row, w, h int) bool {
	if col < 0 || row < 0 || col+w > o.cols || row+h > o.rows {
		return false
	}
	for r := row; r < row+h; r++ {
		for c := col; c < col+w; c++ {
			if o.at(c, r) {
				return false
			}
		}
	}
	return true
}

// mark occupies the w×h span anchored at (col, row).
func (o *occupancy) mark(col, row, w, h int) {
	for r := row; r < row+h; r++ {
		for c := col; c < col+w; c++ {
			o.used[r*o.cols+c] = true
		}
	}
}

// candidates enumerates every anchor cell where a w×h span fits. The grid is
// small (at most a few dozen cells), so the exhaustive scan is cheap.
func (o *occupancy) candidates(w, h int) []cell {
	var out []cell
	for row := 0; row+h <= o.rows; row++ {
		for col := 0; col+w <= o.cols; col++ {
			if o.fits(col, row, w, h) {
				out = append(out, cell{col: col, row: row})
			}
		}
	}
	return out
}
