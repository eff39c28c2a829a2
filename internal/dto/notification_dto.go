package dto

import "time"

// Notification types emitted by the report surface.
const (
	NotificationTypeExport  = "export"
	NotificationTypeRefresh = "refresh"
)

// NotificationCreateRequest describes a user-visible confirmation.
type NotificationCreateRequest struct {
	Type    string `json:"type" validate:"required,oneof=export refresh generic"`
	Message string `json:"message" validate:"required,max=500"`
}

// NotificationResponse is the serialized notification pushed to subscribers.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
