package export

import (
	"fmt"
	"html/template"
	"io"

	"github.com/noah-isme/pustaka-activity-api/internal/activitylog"
)

const (
	// ReportTitle heads the printable report.
	ReportTitle = "Laporan Aktivitas Pustaka"
	// ReportContentType is served with the printable report.
	ReportContentType = "text/html; charset=utf-8"
)

// Surface opens the destination of a printable report. It returns false when
// no destination is available, for example when a popup was blocked.
type Surface func() (io.Writer, bool)

// WriterSurface wraps an always-available writer.
func WriterSurface(w io.Writer) Surface {
	return func() (io.Writer, bool) {
		if w == nil {
			return nil, false
		}
		return w, true
	}
}

type reportRow struct {
	Timestamp string
	Actor     string
	Kind      string
	BookTitle string
	Status    string
	ID        string
}

type reportData struct {
	Title string
	Total int
	Rows  []reportRow
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>{{.Title}} – PDF</title>
    <style>
      body { font-family: system-ui, -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 20px; font-size: 12px; }
      h1 { font-size: 18px; }
      h2 { font-size: 14px; margin-top: 18px; }
      table { border-collapse: collapse; width: 100%; margin-top: 8px; }
      th, td { border: 1px solid #d1d5db; padding: 6px 8px; text-align: left; }
      th { background: #f3f4f6; }
      .meta { font-size: 11px; color: #4b5563; }
      @media print { body { margin: 0; } }
    </style>
  </head>
  <body>
    <h1>{{.Title}}</h1>
    <div class="meta">
      Dibangkitkan dari halaman Activity Log.<br/>
      Total aktivitas: {{.Total}}
    </div>
    <h2>Ringkasan Aktivitas</h2>
    <table>
      <thead>
        <tr>
          <th>Tanggal &amp; Waktu</th>
          <th>User</th>
          <th>Aktivitas</th>
          <th>Judul Buku</th>
          <th>Status</th>
          <th>ID</th>
        </tr>
      </thead>
      <tbody>
{{- range .Rows}}
        <tr>
          <td>{{.Timestamp}}</td>
          <td>{{.Actor}}</td>
          <td>{{.Kind}}</td>
          <td>{{.BookTitle}}</td>
          <td>{{.Status}}</td>
          <td>{{.ID}}</td>
        </tr>
{{- end}}
      </tbody>
    </table>
  </body>
</html>
`))

// WriteReport renders the printable report for the records in the given order.
func WriteReport(w io.Writer, records []activitylog.Record) error {
	data := reportData{
		Title: ReportTitle,
		Total: len(records),
		Rows:  make([]reportRow, 0, len(records)),
	}
	for _, record := range records {
		data.Rows = append(data.Rows, reportRow{
			Timestamp: record.FormattedTimestamp(),
			Actor:     record.Actor,
			Kind:      record.Kind.Label(),
			BookTitle: record.BookTitle,
			Status:    record.Status,
			ID:        record.ID,
		})
	}

	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render printable report: %w", err)
	}
	return nil
}

// PrintReport renders into the surface. When the surface cannot be opened it
// reports false without error so the caller can decide whether to tell the user.
func PrintReport(surface Surface, records []activitylog.Record) (bool, error) {
	if surface == nil {
		return false, nil
	}
	w, ok := surface()
	if !ok || w == nil {
		return false, nil
	}
	if err := WriteReport(w, records); err != nil {
		return false, err
	}
	return true, nil
}
