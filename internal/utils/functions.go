package utils

// InArray reports whether needle occurs in haystack.
func InArray[T comparable](needle T, haystack []T) bool {
	for _, item := range haystack {
		if needle == item {
			return true
		}
	}
	return false
}
