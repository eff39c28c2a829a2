package activitylog

import (
	"fmt"
	"time"
)

type seedRow struct {
	at     string
	actor  string
	kind   Kind
	book   string
	status string
	id     string
}

var seedRows = []seedRow{
	{"2025-03-21 10:32", "bud_s", KindBorrow, "Lukisan Senja", "Borrowed", "TRX-001"},
	{"2025-03-20 09:15", "aril_01", KindRead, "Dasar Basis Data", "Reading", "TRX-002"},
	{"2025-03-18 16:05", "cinta_n", KindQueue, "Dragon Ball Ultimate 02", "In Queue", "TRX-003"},
	{"2025-03-17 08:50", "rina", KindBorrow, "Dasar Basis Data", "Borrowed", "TRX-004"},
	{"2025-03-16 11:30", "rina", KindReturn, "Pemrograman Berbasis Web", "Returned", "TRX-005"},
	{"2025-03-10 19:20", "bud_s", KindReturn, "Pengantar Algoritma", "Returned", "TRX-006"},
	{"2025-03-08 13:40", "joko_w", KindExpired, "Pemrograman Berbasis Web", "Expired", "TRX-007"},
	{"2025-03-05 08:01", "cahya_d", KindBorrow, "Lukisan Senja", "Borrowed", "TRX-008"},
	{"2025-03-02 10:10", "kunti", KindBorrow, "Dragon Ball Ultimate 02", "Borrowed", "TRX-009"},
	{"2025-02-28 09:12", "bud_s", KindRead, "Dasar Basis Data", "Reading", "TRX-010"},
	{"2025-02-25 11:11", "rina", KindBorrow, "Pemrograman Berbasis Web", "Borrowed", "TRX-011"},
	{"2025-02-20 14:20", "aril_01", KindBorrow, "Lukisan Senja", "Borrowed", "TRX-012"},
}

// SeedRecords returns the bundled activity records with wall-clock times
// interpreted in loc (UTC when nil).
func SeedRecords(loc *time.Location) ([]Record, error) {
	if loc == nil {
		loc = time.UTC
	}

	records := make([]Record, 0, len(seedRows))
	for _, row := range seedRows {
		at, err := time.ParseInLocation(TimestampLayout, row.at, loc)
		if err != nil {
			return nil, fmt.Errorf("parse seed timestamp for %s: %w", row.id, err)
		}
		records = append(records, Record{
			ID:        row.id,
			Timestamp: at,
			Actor:     row.actor,
			Kind:      row.kind,
			BookTitle: row.book,
			Status:    row.status,
		})
	}
	return records, nil
}

// MustSeedRecords is SeedRecords for callers that treat a bad seed as fatal.
func MustSeedRecords(loc *time.Location) []Record {
	records, err := SeedRecords(loc)
	if err != nil {
		panic(err)
	}
	return records
}
