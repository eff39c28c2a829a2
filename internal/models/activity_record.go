package models

import (
	"time"

	"github.com/noah-isme/pustaka-activity-api/internal/activitylog"
)

// ActivityRecord is the stored form of a library activity log entry.
type ActivityRecord struct {
	ID         string    `gorm:"primaryKey;size:32" json:"id"`
	Position   int       `gorm:"not null;index" json:"position"`
	OccurredAt time.Time `gorm:"not null" json:"occurred_at"`
	Actor      string    `gorm:"size:64;not null" json:"actor"`
	Kind       string    `gorm:"size:16;not null" json:"kind"`
	BookTitle  string    `gorm:"size:255;not null" json:"book_title"`
	Status     string    `gorm:"size:32;not null" json:"status"`
}

// TableName pins the table name used for activity records.
func (ActivityRecord) TableName() string {
	return "activity_records"
}

// ToRecord converts the row into the report value type.
func (r ActivityRecord) ToRecord() activitylog.Record {
	return activitylog.Record{
		ID:        r.ID,
		Timestamp: r.OccurredAt,
		Actor:     r.Actor,
		Kind:      activitylog.Kind(r.Kind),
		BookTitle: r.BookTitle,
		Status:    r.Status,
	}
}

// NewActivityRecord converts a report value into a row at the given enumeration position.
func NewActivityRecord(record activitylog.Record, position int) ActivityRecord {
	return ActivityRecord{
		ID:         record.ID,
		Position:   position,
		OccurredAt: record.Timestamp,
		Actor:      record.Actor,
		Kind:       string(record.Kind),
		BookTitle:  record.BookTitle,
		Status:     record.Status,
	}
}
