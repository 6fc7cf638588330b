package diff

// Keyed is implemented by every entity that can be matched across versions.
type Keyed interface {
	Key() string
}

// Pair is an entity present in both versions.
type Pair[T any] struct {
	Old T
	New T
}

// Matching partitions two collections of the same kind by identity key.
// Matched and Removed follow the order of the old collection, Added the order
// of the new one.
type Matching[T any] struct {
	Matched []Pair[T]
	Removed []T
	Added   []T
}

// Match joins old and new on Key. Keys are unique within each side, so the join
// is a plain equality lookup. There is no fuzzy or positional matching: a renamed
// entity shows up as one removal plus one addition.
func Match[T Keyed](old, new []T) Matching[T] {
	newByKey := make(map[string]int, len(new))
	for i, n := range new {
		newByKey[n.Key()] = i
	}

	var m Matching[T]
	matchedNew := make([]bool, len(new))

	for _, o := range old {
		j, ok := newByKey[o.Key()]
		if !ok {
			m.Removed = append(m.Removed, o)
			continue
		}
		m.Matched = append(m.Matched, Pair[T]{Old: o, New: new[j]})
		matchedNew[j] = true
	}

	for j, n := range new {
		if !matchedNew[j] {
			m.Added = append(m.Added, n)
		}
	}

	return m
}
