package tree

// MapSlice applies fn to each element and returns the original slice when
// fn returned every element unchanged. The copy is allocated lazily on the
// first changed element.
func MapSlice[T comparable](items []T, fn func(int, T) T) []T {
	var out []T
	for i, item := range items {
		next := fn(i, item)
		if out == nil {
			if next == item {
				continue
			}
			out = make([]T, len(items))
			copy(out, items[:i])
		}
		out[i] = next
	}
	if out == nil {
		return items
	}
	return out
}

func sameSlice[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
