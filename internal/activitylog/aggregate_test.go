package activitylog

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTopBorrowedBooks(t *testing.T) {
	records := seed(t)

	criteria := allKinds()
	criteria.Kinds = NewKindSet(KindBorrow)
	view := Filter(records, criteria, referenceNow)

	top := TopBorrowedBooks(view)
	require.Equal(t, []Rank{
		{Name: "Lukisan Senja", Count: 3},
		{Name: "Dasar Basis Data", Count: 1},
		{Name: "Dragon Ball Ultimate 02", Count: 1},
		{Name: "Pemrograman Berbasis Web", Count: 1},
	}, top)

	// Non-borrow kinds in the view must not change the ranking.
	require.Equal(t, top, TopBorrowedBooks(records))
}

func TestTopActiveBorrowers(t *testing.T) {
	records := seed(t)

	top := TopActiveBorrowers(records)
	require.Equal(t, []Rank{
		{Name: "rina", Count: 2},
		{Name: "bud_s", Count: 1},
		{Name: "cahya_d", Count: 1},
		{Name: "kunti", Count: 1},
		{Name: "aril_01", Count: 1},
	}, top)
}

func TestTopListsIgnoreNonBorrowViews(t *testing.T) {
	records := seed(t)

	criteria := allKinds()
	criteria.Kinds = NewKindSet(KindRead, KindReturn)
	view := Filter(records, criteria, referenceNow)

	require.NotEmpty(t, view)
	require.Empty(t, TopBorrowedBooks(view))
	require.Empty(t, TopActiveBorrowers(view))
	require.NotNil(t, TopBorrowedBooks(view))
}

func TestTopListsTruncateToTen(t *testing.T) {
	base := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)
	view := make([]Record, 0, 14)
	for i := 0; i < 12; i++ {
		view = append(view, Record{
			ID:        fmt.Sprintf("B-%02d", i),
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Actor:     fmt.Sprintf("user-%02d", i),
			Kind:      KindBorrow,
			BookTitle: fmt.Sprintf("Book %02d", i),
		})
	}
	view = append(view,
		Record{ID: "B-x", Actor: "user-11", Kind: KindBorrow, BookTitle: "Book 11"},
		Record{ID: "B-y", Actor: "user-11", Kind: KindBorrow, BookTitle: "Book 11"},
	)

	books := TopBorrowedBooks(view)
	require.Len(t, books, TopN)
	require.Equal(t, Rank{Name: "Book 11", Count: 3}, books[0])
	require.Equal(t, "Book 00", books[1].Name)
	require.Equal(t, "Book 08", books[9].Name)

	users := TopActiveBorrowers(view)
	require.Len(t, users, TopN)
	require.Equal(t, "user-11", users[0].Name)
}

func TestAggregatesDoNotMutateView(t *testing.T) {
	records := seed(t)
	before := append([]Record(nil), records...)

	_ = TopBorrowedBooks(records)
	_ = TopActiveBorrowers(records)
	_ = CountByKind(records)

	require.Equal(t, before, records)
}

func TestCountByKind(t *testing.T) {
	records := seed(t)

	counts := CountByKind(records)
	require.Equal(t, Counts{Total: 12, Borrow: 6, Return: 2, Queue: 1, Read: 2, Expired: 1}, counts)
	require.Equal(t, 6, counts.Of(KindBorrow))
	require.Equal(t, 0, counts.Of(Kind("lost")))

	require.Equal(t, Counts{}, CountByKind(nil))
}
