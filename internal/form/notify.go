package form

type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// Notification is a one-shot user message (a toast). It is delivered once
// through DrainNotifications.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Op      string           `json:"op"`
	Title   string           `json:"title"`
	Message string           `json:"message,omitempty"`
}

// Outcome is how an async operation's result was applied.
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeFailed    Outcome = "failed"
	OutcomeDiscarded Outcome = "discarded" // superseded by a newer image change
)

const (
	OpUpload = "upload"
	OpDelete = "delete"
	OpSubmit = "submit"
)
