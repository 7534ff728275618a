package transcript

import "math"

// MatchWindow is the outcome of a drift search: the window sizes on each side that best
// realign two transcripts at a pair of start positions.
type MatchWindow struct {
	Drift       float64
	LeftOffset  int
	RightOffset int
}

// Drift is the combined start and end time difference of two windows.
func Drift(left, right []Item) float64 {
	if len(left) == 0 || len(right) == 0 {
		return math.Inf(1)
	}
	startDrift := math.Abs(left[0].StartTime - right[0].StartTime)
	endDrift := math.Abs(left[len(left)-1].EndTime - right[len(right)-1].EndTime)
	return startDrift + endDrift
}

// FindBestWindow searches window sizes 1..maxWindow on each side, starting at leftStart
// and rightStart, for the pair with minimal drift. From (1,1) the search grows whichever
// side lowers drift the most and stops once neither growth strictly improves on the
// current window, so ties keep the smaller window. Growth stops as soon as either side
// reaches maxWindow.
//
// The table is filled from the largest windows down so every cell is computed once.
// ok is false when either start position is a side's final item or beyond it: with
// nothing after the mismatched word the streams cannot be realigned. Grown windows may
// still reach the final item of either side.
func FindBestWindow(left, right []Item, leftStart, rightStart, maxWindow int) (MatchWindow, bool) {
	if leftStart < 0 || rightStart < 0 || leftStart+1 >= len(left) || rightStart+1 >= len(right) {
		return MatchWindow{}, false
	}
	if maxWindow < 1 {
		maxWindow = 1
	}

	type cell struct {
		window MatchWindow
		ok     bool
	}
	// best[l][r] holds the result of the search rooted at window sizes (l, r).
	best := make([][]cell, maxWindow+2)
	for l := range best {
		best[l] = make([]cell, maxWindow+2)
	}

	fits := func(l, r int) bool {
		return leftStart+l <= len(left) && rightStart+r <= len(right)
	}

	for l := maxWindow; l >= 1; l-- {
		for r := maxWindow; r >= 1; r-- {
			if !fits(l, r) {
				continue
			}
			current := MatchWindow{
				Drift:       Drift(left[leftStart:leftStart+l], right[rightStart:rightStart+r]),
				LeftOffset:  l,
				RightOffset: r,
			}
			result := current

			if l < maxWindow && r < maxWindow {
				grownLeft := best[l+1][r]
				grownRight := best[l][r+1]

				switch {
				case grownLeft.ok && grownRight.ok:
					if grownLeft.window.Drift < grownRight.window.Drift && grownLeft.window.Drift < current.Drift {
						result = grownLeft.window
					} else if grownRight.window.Drift < current.Drift {
						result = grownRight.window
					}
				case grownLeft.ok:
					if grownLeft.window.Drift < current.Drift {
						result = grownLeft.window
					}
				case grownRight.ok:
					if grownRight.window.Drift < current.Drift {
						result = grownRight.window
					}
				}
			}

			best[l][r] = cell{window: result, ok: true}
		}
	}

	root := best[1][1]
	return root.window, root.ok
}
