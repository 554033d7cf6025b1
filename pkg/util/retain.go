package util

// Retain keeps the items for which keep returns true, reusing the backing array of items. The
// vacated tail is zeroed so dropped pointers can be collected.
func Retain[T any](items []T, keep func(T) bool) []T {
	kept := items[:0]
	for _, item := range items {
		if keep(item) {
			kept = append(kept, item)
		}
	}
	clear(items[len(kept):])

	return kept
}
