package set

// IsSet reports whether a, b and c form a set: for every attribute the three
// values are either all equal or all different.
func IsSet(a, b, c Card) bool {
	return attrOK(a.Color, b.Color, c.Color) &&
		attrOK(a.Number, b.Number, c.Number) &&
		attrOK(a.Shape, b.Shape, c.Shape) &&
		attrOK(a.Filling, b.Filling, c.Filling)
}

func attrOK(a, b, c Attr) bool {
	return a&b&c != 0 || a|b|c == allValues
}

// FindSet returns the indices of the first set among slots in lexicographic
// (i<j<k) order. Empty slots never take part.
func FindSet(slots []Slot) (i, j, k int, ok bool) {
	n := len(slots)
	for i = 0; i < n-2; i++ {
		a, okA := slots[i].Card()
		if !okA {
			continue
		}
		for j = i + 1; j < n-1; j++ {
			b, okB := slots[j].Card()
			if !okB {
				continue
			}
			for k = j + 1; k < n; k++ {
				c, okC := slots[k].Card()
				if okC && IsSet(a, b, c) {
					return i, j, k, true
				}
			}
		}
	}
	return 0, 0, 0, false
}

// CountSets returns the number of distinct sets among slots.
func CountSets(slots []Slot) int {
	total := 0
	EachSet(slots, func(_, _, _ int) {
		total++
	})
	return total
}

// EachSet calls fn with the indices of every set among slots, in
// lexicographic order.
func EachSet(slots []Slot, fn func(i, j, k int)) {
	n := len(slots)
	for i := 0; i < n-2; i++ {
		a, okA := slots[i].Card()
		if !okA {
			continue
		}
		for j := i + 1; j < n-1; j++ {
			b, okB := slots[j].Card()
			if !okB {
				continue
			}
			for k := j + 1; k < n; k++ {
				if c, okC := slots[k].Card(); okC && IsSet(a, b, c) {
					fn(i, j, k)
				}
			}
		}
	}
}
