package storage

import "sort"

// Element is a single member of a sorted set
type Element struct {
	Member string
	Score  float64
}

// less orders by score ascending, then by member
func less(a, b Element) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.Member < b.Member
}

// ZSet is a sorted set: a member index plus an ordered slice kept in sync with it
type ZSet struct {
	scores map[string]float64
	order  []Element
}

func NewSortedSet() *ZSet {
	return &ZSet{
		scores: make(map[string]float64),
	}
}

func (z *ZSet) Len() int {
	return len(z.order)
}

// Score returns the member's score and true if the member exists
func (z *ZSet) Score(member string) (float64, bool) {
	s, ok := z.scores[member]
	return s, ok
}

// Add inserts the member or updates its score. Returns true if the member is new
func (z *ZSet) Add(member string, score float64) bool {
	old, exists := z.scores[member]
	if exists {
		if old == score {
			return false
		}
		z.removeAt(z.position(Element{Member: member, Score: old}))
	}

	e := Element{Member: member, Score: score}
	i := z.position(e)
	z.order = append(z.order, Element{})
	copy(z.order[i+1:], z.order[i:])
	z.order[i] = e
	z.scores[member] = score

	return !exists
}

// Remove deletes the member. Returns true if it existed
func (z *ZSet) Remove(member string) bool {
	score, ok := z.scores[member]
	if !ok {
		return false
	}
	z.removeAt(z.position(Element{Member: member, Score: score}))
	delete(z.scores, member)
	return true
}

// Rank returns the zero-based position of the member in ascending order
func (z *ZSet) Rank(member string) (int, bool) {
	score, ok := z.scores[member]
	if !ok {
		return 0, false
	}
	return z.position(Element{Member: member, Score: score}), true
}

// Range returns the elements with min <= score <= max in ascending order
func (z *ZSet) Range(min, max float64) []Element {
	lo, hi := z.bounds(min, max)
	out := make([]Element, hi-lo)
	copy(out, z.order[lo:hi])
	return out
}

// Count returns the number of elements with min <= score <= max
func (z *ZSet) Count(min, max float64) int {
	lo, hi := z.bounds(min, max)
	return hi - lo
}

// RemoveRange deletes the elements with min <= score <= max and returns how many were removed
func (z *ZSet) RemoveRange(min, max float64) int {
	lo, hi := z.bounds(min, max)
	for _, e := range z.order[lo:hi] {
		delete(z.scores, e.Member)
	}
	z.order = append(z.order[:lo], z.order[hi:]...)
	return hi - lo
}

// Elements returns every element in ascending order
func (z *ZSet) Elements() []Element {
	out := make([]Element, len(z.order))
	copy(out, z.order)
	return out
}

// position returns the index where e is, or would be inserted
func (z *ZSet) position(e Element) int {
	return sort.Search(len(z.order), func(i int) bool {
		return !less(z.order[i], e)
	})
}

func (z *ZSet) removeAt(i int) {
	z.order = append(z.order[:i], z.order[i+1:]...)
}

// bounds returns the half-open index span of scores within [min, max]
func (z *ZSet) bounds(min, max float64) (int, int) {
	if min > max {
		return 0, 0
	}
	lo := sort.Search(len(z.order), func(i int) bool {
		return z.order[i].Score >= min
	})
	hi := sort.Search(len(z.order), func(i int) bool {
		return z.order[i].Score > max
	})
	return lo, hi
}
