package activitylog

import (
	"fmt"
	"sort"
	"strings"
)

// Column identifies a sortable table column.
type Column string

const (
	ColumnTimestamp Column = "timestamp"
	ColumnActor     Column = "actor"
	ColumnKind      Column = "kind"
	ColumnBookTitle Column = "book"
	ColumnStatus    Column = "status"
)

// Direction is the sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortSpec is the active column and direction.
type SortSpec struct {
	Column    Column    `json:"column"`
	Direction Direction `json:"direction"`
}

// DefaultSort orders newest first.
func DefaultSort() SortSpec {
	return SortSpec{Column: ColumnTimestamp, Direction: Descending}
}

// ParseColumn resolves a column from user input.
func ParseColumn(value string) (Column, error) {
	switch Column(strings.ToLower(strings.TrimSpace(value))) {
	case ColumnTimestamp:
		return ColumnTimestamp, nil
	case ColumnActor:
		return ColumnActor, nil
	case ColumnKind:
		return ColumnKind, nil
	case ColumnBookTitle:
		return ColumnBookTitle, nil
	case ColumnStatus:
		return ColumnStatus, nil
	default:
		return "", fmt.Errorf("unknown sort column %q", value)
	}
}

// ParseDirection resolves a direction from user input.
func ParseDirection(value string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(value))) {
	case Ascending:
		return Ascending, nil
	case Descending:
		return Descending, nil
	default:
		return "", fmt.Errorf("unknown sort direction %q", value)
	}
}

// DefaultDirection is the direction a column starts with when first selected.
func DefaultDirection(column Column) Direction {
	if column == ColumnTimestamp {
		return Descending
	}
	return Ascending
}

// Toggle applies the header-click rule: the active column flips direction,
// any other column becomes active with its default direction.
func (s SortSpec) Toggle(column Column) SortSpec {
	if s.Column == column {
		if s.Direction == Ascending {
			return SortSpec{Column: column, Direction: Descending}
		}
		return SortSpec{Column: column, Direction: Ascending}
	}
	return SortSpec{Column: column, Direction: DefaultDirection(column)}
}

// Sort returns a stably ordered copy of the view.
func Sort(view []Record, spec SortSpec) []Record {
	out := make([]Record, len(view))
	copy(out, view)

	compare := comparator(spec.Column)
	sort.SliceStable(out, func(i, j int) bool {
		result := compare(out[i], out[j])
		if spec.Direction == Descending {
			result = -result
		}
		return result < 0
	})
	return out
}

func comparator(column Column) func(a, b Record) int {
	if column == ColumnTimestamp {
		return func(a, b Record) int { return a.Timestamp.Compare(b.Timestamp) }
	}
	return func(a, b Record) int {
		return strings.Compare(strings.ToLower(textValue(a, column)), strings.ToLower(textValue(b, column)))
	}
}

func textValue(record Record, column Column) string {
	switch column {
	case ColumnActor:
		return record.Actor
	case ColumnKind:
		return string(record.Kind)
	case ColumnBookTitle:
		return record.BookTitle
	case ColumnStatus:
		return record.Status
	}
	return ""
}
