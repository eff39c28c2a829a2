// Package activitylog implements the library activity report pipeline:
// filtering, aggregation, sorting and pagination over a fixed record set.
package activitylog

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the wall-clock layout used for seeds, exports and detail views.
const TimestampLayout = "2006-01-02 15:04"

// Kind enumerates the library events captured in the activity log.
type Kind string

const (
	KindBorrow  Kind = "borrow"
	KindReturn  Kind = "return"
	KindQueue   Kind = "queue"
	KindRead    Kind = "read"
	KindExpired Kind = "expired"
)

// AllKinds lists every kind in display order.
var AllKinds = []Kind{KindBorrow, KindReturn, KindQueue, KindRead, KindExpired}

// ParseKind resolves a kind from user input, ignoring case and surrounding space.
func ParseKind(value string) (Kind, error) {
	candidate := Kind(strings.ToLower(strings.TrimSpace(value)))
	for _, kind := range AllKinds {
		if kind == candidate {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown activity kind %q", value)
}

// Label returns the upper-cased form used in exports and the detail view.
func (k Kind) Label() string {
	return strings.ToUpper(string(k))
}

// Record is a single logged library event. Records are values and are never mutated.
type Record struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Kind      Kind      `json:"kind"`
	BookTitle string    `json:"book_title"`
	Status    string    `json:"status"`
}

// FormattedTimestamp renders the record time in its own location.
func (r Record) FormattedTimestamp() string {
	return r.Timestamp.Format(TimestampLayout)
}

// KindSet is the multi-select of kinds. The zero value selects nothing.
type KindSet map[Kind]struct{}

// NewKindSet builds a set from the given kinds.
func NewKindSet(kinds ...Kind) KindSet {
	set := make(KindSet, len(kinds))
	for _, kind := range kinds {
		set[kind] = struct{}{}
	}
	return set
}

// AllKindSet selects every kind.
func AllKindSet() KindSet {
	return NewKindSet(AllKinds...)
}

// Has reports whether the kind is selected.
func (s KindSet) Has(kind Kind) bool {
	_, ok := s[kind]
	return ok
}

// Toggle adds the kind when absent and removes it otherwise.
func (s KindSet) Toggle(kind Kind) {
	if s.Has(kind) {
		delete(s, kind)
		return
	}
	s[kind] = struct{}{}
}

// Clone returns an independent copy.
func (s KindSet) Clone() KindSet {
	out := make(KindSet, len(s))
	for kind := range s {
		out[kind] = struct{}{}
	}
	return out
}

// Sorted lists the selected kinds in display order.
func (s KindSet) Sorted() []Kind {
	out := make([]Kind, 0, len(s))
	for _, kind := range AllKinds {
		if s.Has(kind) {
			out = append(out, kind)
		}
	}
	return out
}
