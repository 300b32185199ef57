package tasks

import "github.com/google/uuid"

// Task type names. Handlers are registered against these in the worker mux.
const (
	TypeSendMany            = "notification:send_many"
	TypeProvisionMeeting    = "meeting:provision"
	TypeCancelMeeting       = "meeting:cancel"
	TypeGenerateFeedbackPDF = "feedback:generate_pdf"
)

// NotificationContext is one recipient's rendering context. A per-context
// subject/template overrides the payload defaults, mirroring how the fan-out
// sender treats heterogeneous recipient lists.
type NotificationContext struct {
	Email    string            `json:"email"`
	Name     string            `json:"name,omitempty"`
	Subject  string            `json:"subject,omitempty"`
	Template string            `json:"template,omitempty"`
	ReplyTo  string            `json:"reply_to,omitempty"`
	Data     map[string]string `json:"data,omitempty"`
}

type SendManyPayload struct {
	Contexts        []NotificationContext `json:"contexts"`
	DefaultSubject  string                `json:"default_subject"`
	DefaultTemplate string                `json:"default_template"`
}

type ProvisionMeetingPayload struct {
	InterviewID uuid.UUID `json:"interview_id"`
}

type CancelMeetingPayload struct {
	EventID string `json:"event_id"`
}

type GenerateFeedbackPDFPayload struct {
	InterviewID uuid.UUID `json:"interview_id"`
}
