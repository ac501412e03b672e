package database

import (
	"math"
	"sort"
	"strconv"

	"github.com/eternalApril/moonmock/internal/storage"
)

// Limit selects a window of a sorted result
type Limit struct {
	Offset int64
	Count  int64 // negative means up to the end
}

// SortOptions modify SORT. The zero value sorts numerically, ascending, without limit
type SortOptions struct {
	Desc  bool
	Alpha bool
	Limit *Limit
}

// Sort returns the elements of a list, set or sorted set ordered numerically,
// or lexically when Alpha is set
func (s *Session) Sort(key string, opts SortOptions) ([]string, error) {
	return exec(s, func(db storage.Storage) ([]string, error) {
		return sortElements(db, key, opts)
	})
}

// SortStore sorts like Sort and stores the result as a list at destination,
// replacing any value there. Returns the number of stored elements
func (s *Session) SortStore(key, destination string, opts SortOptions) (int64, error) {
	return exec(s, func(db storage.Storage) (int64, error) {
		sorted, err := sortElements(db, key, opts)
		if err != nil {
			return 0, err
		}

		db.Remove(destination)
		db.Put(destination, storage.NewList(sorted))
		return int64(len(sorted)), nil
	})
}

func sortElements(db storage.Storage, key string, opts SortOptions) ([]string, error) {
	elements, err := sortSource(db, key)
	if err != nil {
		return nil, err
	}

	if opts.Alpha {
		sort.SliceStable(elements, func(i, j int) bool {
			if opts.Desc {
				return elements[i] > elements[j]
			}
			return elements[i] < elements[j]
		})
	} else {
		scores := make([]float64, len(elements))
		for i, el := range elements {
			scores[i], err = strconv.ParseFloat(el, 64)
			if err != nil || math.IsNaN(scores[i]) {
				return nil, errSortNotNumber
			}
		}
		sort.Stable(byScore{elements: elements, scores: scores, desc: opts.Desc})
	}

	return applyLimit(elements, opts.Limit), nil
}

// sortSource copies the elements of the value at key. A missing key sorts as empty
func sortSource(db storage.Storage, key string) ([]string, error) {
	e, ok := db.Get(key)
	if !ok {
		return []string{}, nil
	}

	switch e.Type {
	case storage.TypeList:
		out := make([]string, len(e.List()))
		copy(out, e.List())
		return out, nil
	case storage.TypeSet:
		return setMembers(e.Set()), nil
	case storage.TypeZSet:
		els := e.ZSet().Elements()
		out := make([]string, len(els))
		for i, el := range els {
			out[i] = el.Member
		}
		return out, nil
	}

	return nil, ErrWrongType
}

func applyLimit(elements []string, limit *Limit) []string {
	if limit == nil {
		return elements
	}

	n := int64(len(elements))
	start := limit.Offset
	if start < 0 {
		start = 0
	}
	if start >= n {
		return []string{}
	}

	end := n
	if limit.Count >= 0 && limit.Count < n-start {
		end = start + limit.Count
	}
	return elements[start:end]
}

// byScore sorts elements by their parsed numeric values
type byScore struct {
	elements []string
	scores   []float64
	desc     bool
}

func (b byScore) Len() int {
	return len(b.elements)
}

func (b byScore) Less(i, j int) bool {
	if b.desc {
		return b.scores[i] > b.scores[j]
	}
	return b.scores[i] < b.scores[j]
}

func (b byScore) Swap(i, j int) {
	b.elements[i], b.elements[j] = b.elements[j], b.elements[i]
	b.scores[i], b.scores[j] = b.scores[j], b.scores[i]
}
