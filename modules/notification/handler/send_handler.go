package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"hiringdesk/core/logger"
	"hiringdesk/core/tasks"
	"hiringdesk/externals/mail"
	"hiringdesk/modules/notification/entity"
	"hiringdesk/modules/notification/service"
	userrepo "hiringdesk/modules/user/repository"

	"github.com/hibiken/asynq"
)

// Email bodies by template name. Plain inline templates are enough for the
// transactional mail this system sends.
var bodyTemplates = map[string]*template.Template{
	"interview_invitation": template.Must(template.New("interview_invitation").Parse(
		`<p>Hi {{.name}},</p>
<p>You are invited to interview candidate <b>{{.candidate_name}}</b> on {{.scheduled_time}}.</p>
<p><a href="{{.accept_link}}">Accept</a> &nbsp; <a href="{{.reject_link}}">Decline</a></p>
<p>The first interviewer to accept gets the slot.</p>`)),
	"interview_confirmed": template.Must(template.New("interview_confirmed").Parse(
		`<p>Hi {{.name}},</p>
<p>The interview with <b>{{.candidate_name}}</b> is confirmed for {{.scheduled_time}}.</p>
{{if .meeting_link}}<p>Join: <a href="{{.meeting_link}}">{{.meeting_link}}</a></p>{{end}}`)),
	"feedback_submitted": template.Must(template.New("feedback_submitted").Parse(
		`<p>Hi {{.name}},</p>
<p>Interview feedback has been submitted. Overall remark: <b>{{.remark}}</b>.</p>`)),
	"payment_received": template.Must(template.New("payment_received").Parse(
		`<p>Hi {{.name}},</p>
<p>We received your payment of {{.amount}} for {{.billing_month}}. Thank you.</p>`)),
}

var inAppTypeByTemplate = map[string]string{
	"interview_invitation": entity.TypeInterviewInvitation,
	"interview_confirmed":  entity.TypeInterviewConfirmed,
	"feedback_submitted":   entity.TypeFeedbackSubmitted,
	"payment_received":     entity.TypePaymentReceived,
}

// SendHandler fans a queued notification out to every recipient: one email
// each, plus an in-app feed row for recipients with an account.
type SendHandler struct {
	mailer        mail.MailerInterface
	notifications service.NotificationServiceInterface
	users         userrepo.UserRepositoryInterface
}

func NewSendHandler(
	mailer mail.MailerInterface,
	notifications service.NotificationServiceInterface,
	users userrepo.UserRepositoryInterface,
) *SendHandler {
	return &SendHandler{
		mailer:        mailer,
		notifications: notifications,
		users:         users,
	}
}

// Register binds the fan-out task type onto the worker mux.
func (h *SendHandler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(tasks.TypeSendMany, h.ProcessSendMany)
}

// ProcessSendMany delivers one email per context. A failed recipient fails
// the task so the queue retries; already-delivered duplicates are acceptable
// for transactional mail.
func (h *SendHandler) ProcessSendMany(ctx context.Context, t *asynq.Task) error {
	var payload tasks.SendManyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal send payload: %w", err)
	}

	for _, recipient := range payload.Contexts {
		subject := recipient.Subject
		if subject == "" {
			subject = payload.DefaultSubject
		}
		templateName := recipient.Template
		if templateName == "" {
			templateName = payload.DefaultTemplate
		}

		body, err := h.renderBody(templateName, recipient)
		if err != nil {
			logger.Error("SendHandler:ProcessSendMany:Render",
				"template", templateName, "to", recipient.Email, "error", err)
			continue
		}

		err = h.mailer.Send(ctx, mail.Message{
			To:      recipient.Email,
			ToName:  recipient.Name,
			Subject: subject,
			Body:    body,
			ReplyTo: recipient.ReplyTo,
		})
		if err != nil {
			return fmt.Errorf("send to %s: %w", recipient.Email, err)
		}

		h.createFeedEntry(ctx, templateName, subject, recipient)
	}
	return nil
}

func (h *SendHandler) renderBody(templateName string, recipient tasks.NotificationContext) (string, error) {
	tmpl, ok := bodyTemplates[templateName]
	if !ok {
		return "", fmt.Errorf("unknown template %q", templateName)
	}

	data := map[string]string{"name": recipient.Name}
	for k, v := range recipient.Data {
		data[k] = v
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// createFeedEntry mirrors the email into the in-app feed. Recipients without
// an account (candidates) only get the email.
func (h *SendHandler) createFeedEntry(ctx context.Context, templateName, subject string, recipient tasks.NotificationContext) {
	user, err := h.users.GetByEmail(ctx, recipient.Email)
	if err != nil || user == nil {
		return
	}

	notifType, ok := inAppTypeByTemplate[templateName]
	if !ok {
		return
	}

	data := make(map[string]interface{}, len(recipient.Data))
	for k, v := range recipient.Data {
		data[k] = v
	}
	if err := h.notifications.CreateForUser(ctx, user.ID, notifType, subject, subject, data); err != nil {
		logger.Error("SendHandler:createFeedEntry", "user_id", user.ID, "error", err)
	}
}
