package tasks

import (
	"context"
	"encoding/json"
	"time"

	"hiringdesk/core/config"
	"hiringdesk/core/logger"

	"github.com/hibiken/asynq"
)

// Dispatcher enqueues background work. Side effects on the scheduling path
// (notifications, meeting provisioning, PDF generation) go through here and
// are only enqueued after the owning transaction has committed.
type Dispatcher interface {
	SendMany(ctx context.Context, payload SendManyPayload) error
	ProvisionMeeting(ctx context.Context, payload ProvisionMeetingPayload) error
	CancelMeeting(ctx context.Context, payload CancelMeetingPayload) error
	GenerateFeedbackPDF(ctx context.Context, payload GenerateFeedbackPDFPayload) error
}

type dispatcher struct {
	client *asynq.Client
}

func NewDispatcher(cfg config.RedisConfig) Dispatcher {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &dispatcher{client: client}
}

func (d *dispatcher) enqueue(ctx context.Context, typename string, payload any, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	info, err := d.client.EnqueueContext(ctx, asynq.NewTask(typename, data), opts...)
	if err != nil {
		logger.Error("Dispatcher:Enqueue:Error", "type", typename, "error", err)
		return err
	}
	logger.Info("Dispatcher:Enqueue:Success", "type", typename, "task_id", info.ID, "queue", info.Queue)
	return nil
}

func (d *dispatcher) SendMany(ctx context.Context, payload SendManyPayload) error {
	return d.enqueue(ctx, TypeSendMany, payload,
		asynq.MaxRetry(5), asynq.Timeout(time.Minute))
}

func (d *dispatcher) ProvisionMeeting(ctx context.Context, payload ProvisionMeetingPayload) error {
	return d.enqueue(ctx, TypeProvisionMeeting, payload,
		asynq.MaxRetry(3), asynq.Timeout(30*time.Second))
}

func (d *dispatcher) CancelMeeting(ctx context.Context, payload CancelMeetingPayload) error {
	return d.enqueue(ctx, TypeCancelMeeting, payload,
		asynq.MaxRetry(3), asynq.Timeout(30*time.Second))
}

func (d *dispatcher) GenerateFeedbackPDF(ctx context.Context, payload GenerateFeedbackPDFPayload) error {
	return d.enqueue(ctx, TypeGenerateFeedbackPDF, payload,
		asynq.MaxRetry(3), asynq.Timeout(2*time.Minute))
}
