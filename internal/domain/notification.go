package domain

import "time"

// NotificationKind classifies a user-facing status message
type NotificationKind string

const (
	NotifyInfo    NotificationKind = "info"
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// Notification is a fire-and-forget status message for the user
type Notification struct {
	Kind   NotificationKind `json:"kind"`
	Title  string           `json:"title"`
	Detail string           `json:"detail"`
	Time   time.Time        `json:"time"`
}
