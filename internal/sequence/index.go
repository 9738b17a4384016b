package sequence

import "math"

// MapIndex converts normalized progress into a discrete item index.
// boundaries belong to the item starting there; progress 1 clamps to the last item.
// returns -1 when there are no items.
func MapIndex(progress float64, count int) int {
	if count <= 0 {
		return -1
	}
	if math.IsNaN(progress) || progress <= 0 {
		return 0
	}

	idx := int(math.Floor(progress * float64(count)))
	if idx > count-1 {
		return count - 1
	}
	return idx
}

// ProgressForIndex is the inverse used when repositioning the scroll offset
// after a direct navigation. it is undefined for a single item.
func ProgressForIndex(index int, count int) (float64, bool) {
	if count <= 1 {
		return 0, false
	}
	return clamp(float64(index)/float64(count-1), 0, 1), true
}

func clamp(val float64, min float64, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func clampIndex(idx int, count int) int {
	if idx < 0 {
		return 0
	}
	if idx > count-1 {
		return count - 1
	}
	return idx
}
