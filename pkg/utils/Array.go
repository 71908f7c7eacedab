package utils

import "cmp"
import "slices"


func Map [T any, V any](array []T, transform func(T) V) []V {
	var mapped []V
	for _, elem := range array {
		mapped = append(mapped, transform(elem))
	}

	return mapped
}

/*
	Sorted Keys
		map iteration order is random, so anything that needs a deterministic walk over
		participants goes through here
*/

func SortedKeys [K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	slices.Sort(keys)
	return keys
}
