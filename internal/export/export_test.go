package export

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pustaka-activity-api/internal/activitylog"
)

func filteredSeed(t *testing.T) []activitylog.Record {
	t.Helper()
	records, err := activitylog.SeedRecords(time.UTC)
	require.NoError(t, err)

	session := activitylog.NewSession()
	session.Criteria.Kinds = activitylog.NewKindSet(activitylog.KindBorrow, activitylog.KindReturn)
	now := time.Date(2025, time.March, 21, 12, 0, 0, 0, time.UTC)
	return activitylog.Run(records, session, now).Sorted
}

func TestWriteCSV(t *testing.T) {
	view := filteredSeed(t)
	require.Len(t, view, 8)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, view))

	lines := strings.Split(buf.String(), "\n")
	require.Equal(t, "Tanggal & Waktu,User,Aktivitas,Judul Buku,Status,ID Transaksi", lines[0])
	require.Len(t, lines, len(view)+1)
	require.Equal(t, `2025-03-21 10:32,bud_s,BORROW,"Lukisan Senja",Borrowed,TRX-001`, lines[1])
	require.Equal(t, `2025-02-20 14:20,aril_01,BORROW,"Lukisan Senja",Borrowed,TRX-012`, lines[len(lines)-1])
	require.False(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestWriteCSVQuotesBookTitle(t *testing.T) {
	records := []activitylog.Record{{
		ID:        "TRX-100",
		Timestamp: time.Date(2025, time.April, 2, 7, 5, 0, 0, time.UTC),
		Actor:     "dewi",
		Kind:      activitylog.KindQueue,
		BookTitle: `Buku "Langka", Edisi 2`,
		Status:    "In Queue",
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))
	require.Equal(t,
		"Tanggal & Waktu,User,Aktivitas,Judul Buku,Status,ID Transaksi\n"+
			`2025-04-02 07:05,dewi,QUEUE,"Buku ""Langka"", Edisi 2",In Queue,TRX-100`,
		buf.String())
}

func TestWriteCSVEmptyView(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	require.Equal(t, strings.Join(CSVHeader, ","), buf.String())
}

func TestWriteReport(t *testing.T) {
	view := filteredSeed(t)

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, view))
	html := buf.String()

	require.Contains(t, html, "<h1>Laporan Aktivitas Pustaka</h1>")
	require.Contains(t, html, "Total aktivitas: 8")
	for _, column := range []string{"Tanggal &amp; Waktu", "User", "Aktivitas", "Judul Buku", "Status", "ID"} {
		require.Contains(t, html, "<th>"+column+"</th>")
	}
	require.Equal(t, len(view), strings.Count(html, "<tr>")-1)
	require.Less(t, strings.Index(html, "TRX-001"), strings.Index(html, "TRX-012"))
	require.Contains(t, html, "<td>RETURN</td>")
}

func TestWriteReportEscapesValues(t *testing.T) {
	records := []activitylog.Record{{
		ID:        "TRX-200",
		Actor:     "<script>alert(1)</script>",
		Kind:      activitylog.KindRead,
		BookTitle: "A & B",
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, records))
	require.NotContains(t, buf.String(), "<script>alert(1)</script>")
	require.Contains(t, buf.String(), "A &amp; B")
}

func TestPrintReportWithoutSurface(t *testing.T) {
	view := filteredSeed(t)

	blocked := Surface(func() (io.Writer, bool) { return nil, false })
	delivered, err := PrintReport(blocked, view)
	require.NoError(t, err)
	require.False(t, delivered)

	delivered, err = PrintReport(nil, view)
	require.NoError(t, err)
	require.False(t, delivered)

	delivered, err = PrintReport(WriterSurface(nil), view)
	require.NoError(t, err)
	require.False(t, delivered)

	var buf bytes.Buffer
	delivered, err = PrintReport(WriterSurface(&buf), view)
	require.NoError(t, err)
	require.True(t, delivered)
	require.Contains(t, buf.String(), ReportTitle)
}
