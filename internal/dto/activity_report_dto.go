package dto

import (
	"time"

	"github.com/noah-isme/pustaka-activity-api/internal/activitylog"
)

// EmptyActivityMessage is shown when a report page has no rows.
const EmptyActivityMessage = "Tidak ada aktivitas untuk filter ini."

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// ActivityReportQuery carries the raw report filters from the query string.
type ActivityReportQuery struct {
	Period    string `query:"period" validate:"omitempty,oneof=all 7 30 custom"`
	Start     string `query:"start" validate:"omitempty,max=32"`
	End       string `query:"end" validate:"omitempty,max=32"`
	Kinds     string `query:"kinds" validate:"omitempty,max=128"`
	User      string `query:"user" validate:"omitempty,max=128"`
	Book      string `query:"book" validate:"omitempty,max=255"`
	Sort      string `query:"sort" validate:"omitempty,oneof=timestamp actor kind book status"`
	Direction string `query:"dir" validate:"omitempty,oneof=asc desc"`
	Toggle    string `query:"toggle" validate:"omitempty,oneof=timestamp actor kind book status"`
	Page      int    `query:"page"`

	// KindsProvided distinguishes an absent kinds parameter (all kinds) from
	// an empty one (no kinds).
	KindsProvided bool `query:"-"`
}

// ActivityRecordResponse serializes a single activity record.
type ActivityRecordResponse struct {
	ID         string    `json:"id"`
	Timestamp  string    `json:"timestamp"`
	OccurredAt time.Time `json:"occurred_at"`
	Actor      string    `json:"actor"`
	Kind       string    `json:"kind"`
	KindLabel  string    `json:"kind_label"`
	BookTitle  string    `json:"book_title"`
	Status     string    `json:"status"`
}

// NewActivityRecordResponse converts a report record into a DTO.
func NewActivityRecordResponse(record activitylog.Record) ActivityRecordResponse {
	return ActivityRecordResponse{
		ID:         record.ID,
		Timestamp:  record.FormattedTimestamp(),
		OccurredAt: record.Timestamp,
		Actor:      record.Actor,
		Kind:       string(record.Kind),
		KindLabel:  record.Kind.Label(),
		BookTitle:  record.BookTitle,
		Status:     record.Status,
	}
}

// NewActivityRecordResponseSlice converts report records into DTOs.
func NewActivityRecordResponseSlice(records []activitylog.Record) []ActivityRecordResponse {
	out := make([]ActivityRecordResponse, 0, len(records))
	for _, record := range records {
		out = append(out, NewActivityRecordResponse(record))
	}
	return out
}

// ActivityFiltersResponse echoes the filters the report was computed with.
type ActivityFiltersResponse struct {
	Period string   `json:"period"`
	Start  string   `json:"start,omitempty"`
	End    string   `json:"end,omitempty"`
	Kinds  []string `json:"kinds"`
	User   string   `json:"user,omitempty"`
	Book   string   `json:"book,omitempty"`
}

// ActivityReportResponse is the payload rendered by the activity log page.
type ActivityReportResponse struct {
	Items          []ActivityRecordResponse `json:"items"`
	Pagination     PaginationMeta           `json:"pagination"`
	Empty          bool                     `json:"empty"`
	EmptyMessage   string                   `json:"empty_message,omitempty"`
	TopBooks       []activitylog.Rank       `json:"top_books"`
	TopBorrowers   []activitylog.Rank       `json:"top_borrowers"`
	Counts         activitylog.Counts       `json:"counts"`
	Sort           activitylog.SortSpec     `json:"sort"`
	Filters        ActivityFiltersResponse  `json:"filters"`
	GeneratedAt    time.Time                `json:"generated_at"`
	SnapshotAgeSec int64                    `json:"snapshot_age_seconds"`
	CacheHit       bool                     `json:"cache_hit"`
}

// ActivityExport is a rendered export ready to be sent to the client.
type ActivityExport struct {
	FileName    string
	ContentType string
	Body        []byte
	Rows        int
}
