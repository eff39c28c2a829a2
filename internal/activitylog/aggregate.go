package activitylog

import "sort"

// TopN bounds the ranked aggregate lists.
const TopN = 10

// Rank is one entry of a ranked aggregate.
type Rank struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Counts tallies a view by kind.
type Counts struct {
	Total   int `json:"total"`
	Borrow  int `json:"borrow"`
	Return  int `json:"return"`
	Queue   int `json:"queue"`
	Read    int `json:"read"`
	Expired int `json:"expired"`
}

// Of returns the tally for a single kind.
func (c Counts) Of(kind Kind) int {
	switch kind {
	case KindBorrow:
		return c.Borrow
	case KindReturn:
		return c.Return
	case KindQueue:
		return c.Queue
	case KindRead:
		return c.Read
	case KindExpired:
		return c.Expired
	}
	return 0
}

// TopBorrowedBooks ranks book titles by number of borrow events.
func TopBorrowedBooks(view []Record) []Rank {
	return rankBorrows(view, func(r Record) string { return r.BookTitle })
}

// TopActiveBorrowers ranks actors by number of borrow events.
func TopActiveBorrowers(view []Record) []Rank {
	return rankBorrows(view, func(r Record) string { return r.Actor })
}

// rankBorrows keeps first-seen order among equal counts.
func rankBorrows(view []Record, key func(Record) string) []Rank {
	index := map[string]int{}
	ranks := make([]Rank, 0)

	for _, record := range view {
		if record.Kind != KindBorrow {
			continue
		}
		name := key(record)
		if pos, ok := index[name]; ok {
			ranks[pos].Count++
			continue
		}
		index[name] = len(ranks)
		ranks = append(ranks, Rank{Name: name, Count: 1})
	}

	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].Count > ranks[j].Count })

	if len(ranks) > TopN {
		ranks = ranks[:TopN]
	}
	return ranks
}

// CountByKind tallies every kind in the view.
func CountByKind(view []Record) Counts {
	counts := Counts{Total: len(view)}
	for _, record := range view {
		switch record.Kind {
		case KindBorrow:
			counts.Borrow++
		case KindReturn:
			counts.Return++
		case KindQueue:
			counts.Queue++
		case KindRead:
			counts.Read++
		case KindExpired:
			counts.Expired++
		}
	}
	return counts
}
