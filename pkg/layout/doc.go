// Package layout implements the container layout planner.
//
// Given a canvas and a requested container-count range, [Plan] synthesizes a
// set of non-overlapping container rectangles with varied aspect ratios and
// orientations. Placement runs over a coarse occupancy grid (independent of
// canvas resolution) with a bounded retry budget: when the budget is
// exhausted the planner returns fewer containers than requested rather than
// blocking or failing.
//
// The planner is deterministic for a given seed. All randomness flows from a
// single PCG generator created per call; the occupancy grid is scratch state
// local to the call and never shared.
//
// Planned containers record their geometry as fractions of the canvas plus a
// fixed pixel position, an orientation class, a rotation, and the cutout
// window used by the frame compositor's pre-crop. Containers never overlap at
// the coarse grid level; small pixel overlaps may occur from size jitter and
// are intended slack.
package layout
