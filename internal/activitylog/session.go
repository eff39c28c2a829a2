package activitylog

// Session holds the state a single report viewer works with. It is owned by
// one caller at a time and passed explicitly into Run.
type Session struct {
	Criteria Criteria
	Sort     SortSpec
	Page     int
	Selected string
}

// NewSession starts with every kind selected, no date window and newest first.
func NewSession() *Session {
	return &Session{
		Criteria: Criteria{
			Period: PeriodAll,
			Kinds:  AllKindSet(),
		},
		Sort: DefaultSort(),
		Page: 1,
	}
}

// SetPeriod selects a named period.
func (s *Session) SetPeriod(period Period) {
	s.Criteria.Period = period
}

// SetRangeStart stores the custom range start and switches to the custom period.
func (s *Session) SetRangeStart(value string) {
	s.Criteria.RangeStart = value
	s.Criteria.Period = PeriodCustom
}

// SetRangeEnd stores the custom range end and switches to the custom period.
func (s *Session) SetRangeEnd(value string) {
	s.Criteria.RangeEnd = value
	s.Criteria.Period = PeriodCustom
}

// ToggleKind flips a single kind in the multi-select.
func (s *Session) ToggleKind(kind Kind) {
	if s.Criteria.Kinds == nil {
		s.Criteria.Kinds = KindSet{}
	}
	s.Criteria.Kinds.Toggle(kind)
}

// ToggleSort applies the header-click rule to the session sort.
func (s *Session) ToggleSort(column Column) {
	s.Sort = s.Sort.Toggle(column)
}

// SetPage records the requested page. Run clamps it against the current view.
func (s *Session) SetPage(page int) {
	s.Page = page
}

// Select marks a record for the detail view.
func (s *Session) Select(id string) {
	s.Selected = id
}

// ClearSelection closes the detail view.
func (s *Session) ClearSelection() {
	s.Selected = ""
}
