package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"hiringdesk/core/config"
	"hiringdesk/core/constants"
	"hiringdesk/core/database"
	"hiringdesk/core/errors"
	"hiringdesk/core/logger"
	"hiringdesk/core/tasks"
	"hiringdesk/core/utils"
	"hiringdesk/externals/payment"
	billingentity "hiringdesk/modules/billing/entity"
	billingrepo "hiringdesk/modules/billing/repository"
	"hiringdesk/modules/payment/dto"
	"hiringdesk/modules/payment/entity"
	"hiringdesk/modules/payment/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// ReplayStore is the slice of the redis client the webhook replay guard
// uses.
type ReplayStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// PaymentService issues payment links for client billing records and settles
// them from gateway webhooks.
type PaymentService struct {
	db         database.IDatabase
	payments   repository.PaymentRepositoryInterface
	billing    billingrepo.BillingRepositoryInterface
	gateway    payment.GatewayInterface
	redis      ReplayStore
	dispatcher tasks.Dispatcher
}

type PaymentServiceInterface interface {
	CreateLink(ctx context.Context, req *dto.CreateLinkRequest) (*dto.LinkResponse, *errors.AppError)
	ApplyWebhook(ctx context.Context, timestamp, signature string, body []byte) *errors.AppError
	GetRecordPayments(ctx context.Context, recordPublicID uuid.UUID) ([]dto.PaymentResponse, *errors.AppError)
}

func NewPaymentService(
	db database.IDatabase,
	payments repository.PaymentRepositoryInterface,
	billing billingrepo.BillingRepositoryInterface,
	gateway payment.GatewayInterface,
	redisClient ReplayStore,
	dispatcher tasks.Dispatcher,
) PaymentServiceInterface {
	return &PaymentService{
		db:         db,
		payments:   payments,
		billing:    billing,
		gateway:    gateway,
		redis:      redisClient,
		dispatcher: dispatcher,
	}
}

// CreateLink returns a payment link for the record's outstanding amount. A
// pending link for the same amount is reused; a stale one is retired first.
func (s *PaymentService) CreateLink(ctx context.Context, req *dto.CreateLinkRequest) (*dto.LinkResponse, *errors.AppError) {
	publicID, err := uuid.Parse(req.RecordPublicID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid record_public_id", err)
	}

	record, err := s.billing.GetRecordByPublicID(ctx, publicID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load billing record", err)
	}
	if record == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Billing record not found", nil)
	}
	if record.RecordType != billingentity.RecordTypeClientBilling || record.ClientID == nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Payment links apply to client billing records only", nil)
	}
	if record.AmountDue <= 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Record has no outstanding amount", nil)
	}
	switch record.Status {
	case billingentity.RecordStatusPaid, billingentity.RecordStatusCancelled:
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Record is already settled", nil)
	}

	now := time.Now()
	pending, err := s.payments.LatestPendingByRecord(ctx, record.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check pending payments", err)
	}
	if pending != nil {
		if pending.Amount == record.AmountDue && !pending.Expired(now) {
			logger.Info("PaymentService:CreateLink:Reused", "record_id", record.ID, "link_id", pending.LinkID)
			return &dto.LinkResponse{
				LinkID:    pending.LinkID,
				LinkURL:   pending.LinkURL,
				Amount:    pending.AmountWithTax,
				AmountDue: record.AmountDue,
				ExpiresAt: pending.ExpiresAt,
				Reused:    true,
			}, nil
		}
		if err := s.payments.MarkInactive(ctx, pending.ID); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to retire stale payment link", err)
		}
	}

	client, err := s.billing.GetClientByID(ctx, *record.ClientID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load client", err)
	}
	if client == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Client not found", nil)
	}

	linkID := fmt.Sprintf("rec-%s-%s", record.PublicID.String()[:8], utils.GenerateID())

	cfg := config.Get()
	amountWithTax := record.AmountDue * (1 + cfg.Billing.TaxRate)
	expiresAt := now.Add(constants.PaymentLinkTTL)

	link, err := s.gateway.CreateLink(ctx, payment.LinkRequest{
		LinkID:        linkID,
		Amount:        amountWithTax,
		Currency:      "INR",
		Purpose:       fmt.Sprintf("Interview services, %s", record.BillingMonth.Format("January 2006")),
		CustomerName:  client.Name,
		CustomerEmail: client.BillingEmail,
		ExpiryTime:    expiresAt,
		NotifyURL:     cfg.Server.PublicBaseURL + "/api/v1/public/payments/webhook",
	})
	if err != nil {
		logger.Error("PaymentService:CreateLink:Gateway", "error", err)
		return nil, errors.NewAppError(errors.ErrGatewayUnavailable, "Payment gateway unavailable", err)
	}

	created, err := s.payments.Create(ctx, &entity.BillPayment{
		BillingRecordID: record.ID,
		LinkID:          link.LinkID,
		LinkURL:         link.LinkURL,
		Amount:          record.AmountDue,
		AmountWithTax:   amountWithTax,
		Status:          entity.StatusPending,
		ExpiresAt:       expiresAt,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to save payment link", err)
	}

	logger.Info("PaymentService:CreateLink:Created",
		"record_id", record.ID,
		"link_id", created.LinkID,
		"amount_with_tax", amountWithTax,
	)
	return &dto.LinkResponse{
		LinkID:    created.LinkID,
		LinkURL:   created.LinkURL,
		Amount:    created.AmountWithTax,
		AmountDue: record.AmountDue,
		ExpiresAt: created.ExpiresAt,
	}, nil
}

// ApplyWebhook settles a payment reported by the gateway. Replayed events
// are dropped by a Redis guard keyed on the body hash; unknown links are
// logged and ignored so the gateway stops retrying.
func (s *PaymentService) ApplyWebhook(ctx context.Context, timestamp, signature string, body []byte) *errors.AppError {
	if !s.gateway.VerifyWebhookSignature(timestamp, body, signature) {
		return errors.NewAppError(errors.ErrUnauthorized, "Invalid webhook signature", nil)
	}

	digest := sha256.Sum256(body)
	guardKey := "payments:webhook:" + hex.EncodeToString(digest[:])
	fresh, err := s.redis.SetNX(ctx, guardKey, 1, constants.WebhookReplayGuardTTL).Result()
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to check webhook replay guard", err)
	}
	if !fresh {
		logger.Info("PaymentService:ApplyWebhook:Replay", "key", guardKey)
		return nil
	}

	var event dto.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return errors.NewAppError(errors.ErrInvalidInput, "Malformed webhook body", err)
	}

	linkStatus, ok := entity.MapLinkStatus(event.Data.Link.LinkStatus)
	if !ok {
		logger.Error("PaymentService:ApplyWebhook:UnknownLinkStatus",
			"link_id", event.Data.Link.LinkID,
			"link_status", event.Data.Link.LinkStatus,
		)
		return nil
	}
	status, ok := entity.MapStatus(event.Data.Order.Transaction.TransactionStatus)
	if !ok {
		logger.Error("PaymentService:ApplyWebhook:UnknownStatus",
			"link_id", event.Data.Link.LinkID,
			"status", event.Data.Order.Transaction.TransactionStatus,
		)
		return nil
	}

	var settledRecord *billingentity.BillingRecord
	var settledAmount float64

	txErr := s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		stored, innerErr := s.payments.GetByLinkIDForUpdate(ctx, tx, event.Data.Link.LinkID)
		if innerErr != nil {
			return fmt.Errorf("load payment %s: %w", event.Data.Link.LinkID, innerErr)
		}
		if stored == nil {
			logger.Error("PaymentService:ApplyWebhook:UnknownLink", "link_id", event.Data.Link.LinkID)
			return nil
		}

		alreadySettled := stored.Status == entity.StatusSuccess
		stored.Status = status
		stored.LinkStatus = &linkStatus
		if id := event.Data.Order.Transaction.TransactionID; id != 0 {
			txnID := fmt.Sprintf("%d", id)
			stored.TransactionID = &txnID
		}
		if ts, parseErr := time.Parse(time.RFC3339, event.Data.Order.Transaction.TransactionTime); parseErr == nil {
			stored.PaymentTime = &ts
		}
		if innerErr := s.payments.ApplyWebhook(ctx, tx, stored); innerErr != nil {
			return fmt.Errorf("update payment %s: %w", stored.LinkID, innerErr)
		}

		if status != entity.StatusSuccess || linkStatus != entity.LinkStatusPaid || alreadySettled {
			return nil
		}

		record, innerErr := s.billing.GetRecordForUpdate(ctx, tx, stored.BillingRecordID)
		if innerErr != nil || record == nil {
			return fmt.Errorf("load record %s: %w", stored.BillingRecordID, innerErr)
		}

		// A payment made during the billing month itself is flagged so the
		// month-end close can tell it apart from a regular settlement.
		recordStatus := billingentity.RecordStatusPaid
		now := time.Now()
		if now.Year() == record.BillingMonth.Year() && now.Month() == record.BillingMonth.Month() {
			recordStatus = billingentity.RecordStatusMidMonthPayment
		}

		paidWithTax := event.Data.Link.LinkAmountPaid
		if paidWithTax == 0 {
			paidWithTax = stored.AmountWithTax
		}
		if innerErr := s.billing.ApplyRecordPayment(ctx, tx, record.ID, recordStatus, stored.Amount, paidWithTax); innerErr != nil {
			return fmt.Errorf("apply payment to record %s: %w", record.ID, innerErr)
		}

		if record.RecordType == billingentity.RecordTypeClientBilling && record.ClientID != nil {
			if innerErr := s.billing.MarkClientLogsPaid(ctx, tx, *record.ClientID, record.BillingMonth); innerErr != nil {
				return fmt.Errorf("settle logs for client %s: %w", *record.ClientID, innerErr)
			}
		}

		logger.Info("PaymentService:ApplyWebhook:Settled",
			"link_id", stored.LinkID,
			"record_id", record.ID,
			"record_status", recordStatus,
		)
		settledRecord = record
		settledAmount = paidWithTax
		return nil
	})
	if txErr != nil {
		// Release the guard so the gateway's retransmission gets another
		// settlement attempt instead of being dropped as a replay.
		if delErr := s.redis.Del(ctx, guardKey).Err(); delErr != nil {
			logger.Error("PaymentService:ApplyWebhook:ReleaseGuard", "key", guardKey, "error", delErr)
		}
		return errors.NewAppError(errors.ErrInternalServer, "Failed to apply webhook", txErr)
	}

	if settledRecord != nil {
		s.notifyPaymentReceived(ctx, settledRecord, settledAmount)
	}
	return nil
}

// notifyPaymentReceived emails the client a receipt. The settlement is
// already committed, so failures only log.
func (s *PaymentService) notifyPaymentReceived(ctx context.Context, record *billingentity.BillingRecord, paidWithTax float64) {
	if record.ClientID == nil {
		return
	}
	client, err := s.billing.GetClientByID(ctx, *record.ClientID)
	if err != nil || client == nil {
		logger.Error("PaymentService:notifyPaymentReceived:LookupClient",
			"client_id", *record.ClientID, "error", err)
		return
	}

	err = s.dispatcher.SendMany(ctx, tasks.SendManyPayload{
		Contexts: []tasks.NotificationContext{{
			Email: client.BillingEmail,
			Name:  client.Name,
			Data: map[string]string{
				"amount":        fmt.Sprintf("INR %.2f", paidWithTax),
				"billing_month": record.BillingMonth.Format("January 2006"),
			},
		}},
		DefaultSubject:  "Payment received for " + record.BillingMonth.Format("January 2006"),
		DefaultTemplate: "payment_received",
	})
	if err != nil {
		logger.Error("PaymentService:notifyPaymentReceived:Dispatch", "error", err)
	}
}

func (s *PaymentService) GetRecordPayments(ctx context.Context, recordPublicID uuid.UUID) ([]dto.PaymentResponse, *errors.AppError) {
	record, err := s.billing.GetRecordByPublicID(ctx, recordPublicID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load billing record", err)
	}
	if record == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Billing record not found", nil)
	}

	payments, err := s.payments.ListByRecord(ctx, record.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load payments", err)
	}
	return dto.ToPaymentResponses(payments), nil
}
