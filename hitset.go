package matchx

import (
	"iter"
	"slices"
	"strings"
)

// HitSet is an immutable, duplicate-free collection of hits for one field,
// iterated in Compare order. The zero value is an empty set.
type HitSet struct {
	hits []Hit
}

// NewHitSet builds a HitSet from hits in any order. Duplicates are dropped.
func NewHitSet(hits ...Hit) HitSet {
	var b hitSetBuilder
	for _, h := range hits {
		b.add(h)
	}
	return b.freeze()
}

// Len returns the number of distinct hits.
func (s HitSet) Len() int {
	return len(s.hits)
}

// Hits returns the hits in order. The returned slice is a copy.
func (s HitSet) Hits() []Hit {
	return slices.Clone(s.hits)
}

// All iterates the hits in order.
func (s HitSet) All() iter.Seq[Hit] {
	return slices.Values(s.hits)
}

// Contains reports whether h is in the set.
func (s HitSet) Contains(h Hit) bool {
	_, found := slices.BinarySearchFunc(s.hits, h, Compare)
	return found
}

// Union returns a new set holding the hits of both sets. Neither input is
// modified, and hits present in both appear once.
func (s HitSet) Union(other HitSet) HitSet {
	if len(other.hits) == 0 {
		return s
	}
	if len(s.hits) == 0 {
		return other
	}

	out := make([]Hit, 0, len(s.hits)+len(other.hits))
	i, j := 0, 0
	for i < len(s.hits) && j < len(other.hits) {
		switch c := Compare(s.hits[i], other.hits[j]); {
		case c < 0:
			out = append(out, s.hits[i])
			i++
		case c > 0:
			out = append(out, other.hits[j])
			j++
		default:
			out = append(out, s.hits[i])
			i++
			j++
		}
	}
	out = append(out, s.hits[i:]...)
	out = append(out, other.hits[j:]...)
	return HitSet{hits: out}
}

// Equal reports whether both sets hold the same hits.
func (s HitSet) Equal(other HitSet) bool {
	return slices.Equal(s.hits, other.hits)
}

func (s HitSet) String() string {
	parts := make([]string, len(s.hits))
	for i, h := range s.hits {
		parts[i] = h.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// hitSetBuilder accumulates hits into a sorted slice. It is local to a single
// construction and frozen into a HitSet before it escapes.
type hitSetBuilder struct {
	hits []Hit
}

func (b *hitSetBuilder) add(h Hit) {
	i, found := slices.BinarySearchFunc(b.hits, h, Compare)
	if found {
		return
	}
	b.hits = slices.Insert(b.hits, i, h)
}

func (b *hitSetBuilder) len() int {
	return len(b.hits)
}

func (b *hitSetBuilder) freeze() HitSet {
	s := HitSet{hits: b.hits}
	b.hits = nil
	return s
}
