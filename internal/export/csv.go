// Package export renders the filtered activity view as downloadable reports.
package export

import (
	"io"
	"strings"

	"github.com/noah-isme/pustaka-activity-api/internal/activitylog"
)

const (
	// CSVFileName is the download name of the spreadsheet export.
	CSVFileName = "laporan-aktivitas-pustaka.csv"
	// CSVContentType is served with the spreadsheet export.
	CSVContentType = "text/csv; charset=utf-8"
)

// CSVHeader lists the spreadsheet columns in order.
var CSVHeader = []string{"Tanggal & Waktu", "User", "Aktivitas", "Judul Buku", "Status", "ID Transaksi"}

// WriteCSV writes the header and one row per record, in the given order.
// Book titles are always quoted; rows are separated by a bare newline with
// no trailing terminator.
func WriteCSV(w io.Writer, records []activitylog.Record) error {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(CSVHeader, ","))

	for _, record := range records {
		lines = append(lines, strings.Join([]string{
			record.FormattedTimestamp(),
			record.Actor,
			record.Kind.Label(),
			quote(record.BookTitle),
			record.Status,
			record.ID,
		}, ","))
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

func quote(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
