package teams

// Adjacency returns the team reached from current by a discretised stick
// position (h, v), each in {-1, 0, 1} with +v pointing down.
type Adjacency func(current, h, v int) (dest int, ok bool)

// Grid2x2 lays four teams out as
//
//	0 1
//	2 3
//
// Horizontal input is considered before vertical input.
func Grid2x2(current, h, v int) (int, bool) {
	switch current {
	case 0:
		if h == 1 {
			return 1, true
		}
		if v == 1 {
			return 2, true
		}
	case 1:
		if h == -1 {
			return 0, true
		}
		if v == 1 {
			return 3, true
		}
	case 2:
		if h == 1 {
			return 3, true
		}
		if v == -1 {
			return 0, true
		}
	case 3:
		if h == -1 {
			return 2, true
		}
		if v == -1 {
			return 1, true
		}
	}
	return 0, false
}
