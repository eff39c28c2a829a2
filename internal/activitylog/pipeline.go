package activitylog

import "time"

// Result carries every view derived from one pipeline run.
type Result struct {
	Filtered     []Record
	Sorted       []Record
	Page         Page
	TopBooks     []Rank
	TopBorrowers []Rank
	Counts       Counts
	Selected     *Record
}

// Run recomputes the whole report for the session. It does not modify the
// session; the clamped page number is reported in Result.Page.
func Run(records []Record, session *Session, now time.Time) Result {
	if session == nil {
		session = NewSession()
	}

	filtered := Filter(records, session.Criteria, now)
	sorted := Sort(filtered, session.Sort)

	result := Result{
		Filtered:     filtered,
		Sorted:       sorted,
		Page:         Paginate(sorted, session.Page),
		TopBooks:     TopBorrowedBooks(filtered),
		TopBorrowers: TopActiveBorrowers(filtered),
		Counts:       CountByKind(filtered),
	}

	if session.Selected != "" {
		if record, ok := FindByID(records, session.Selected); ok {
			result.Selected = &record
		}
	}

	return result
}

// FindByID looks a record up by transaction id.
func FindByID(records []Record, id string) (Record, bool) {
	for _, record := range records {
		if record.ID == id {
			return record, true
		}
	}
	return Record{}, false
}
