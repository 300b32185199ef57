package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"hiringdesk/core/config"
	"hiringdesk/core/logger"
)

const apiVersion = "2023-08-01"

// LinkRequest describes a payment link to create.
type LinkRequest struct {
	LinkID        string
	Amount        float64
	Currency      string
	Purpose       string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ExpiryTime    time.Time
	NotifyURL     string
}

// Link is a created payment link as the gateway reports it.
type Link struct {
	LinkID     string  `json:"link_id"`
	LinkURL    string  `json:"link_url"`
	LinkStatus string  `json:"link_status"`
	Amount     float64 `json:"link_amount"`
}

// GatewayInterface is the payment gateway surface the billing flow needs.
type GatewayInterface interface {
	CreateLink(ctx context.Context, req LinkRequest) (*Link, error)
	VerifyWebhookSignature(timestamp string, body []byte, signature string) bool
}

// Gateway is a Cashfree payment links client.
type Gateway struct {
	baseURL       string
	clientID      string
	clientSecret  string
	webhookSecret string
	httpClient    *http.Client
}

func NewGateway(cfg config.PaymentConfig) *Gateway {
	return &Gateway{
		baseURL:       cfg.BaseURL,
		clientID:      cfg.ClientID,
		clientSecret:  cfg.ClientSecret,
		webhookSecret: cfg.WebhookSecret,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

type linkRequestBody struct {
	LinkID          string          `json:"link_id"`
	LinkAmount      float64         `json:"link_amount"`
	LinkCurrency    string          `json:"link_currency"`
	LinkPurpose     string          `json:"link_purpose"`
	CustomerDetails customerDetails `json:"customer_details"`
	LinkExpiryTime  string          `json:"link_expiry_time,omitempty"`
	LinkNotify      linkNotify      `json:"link_notify"`
	LinkMeta        linkMeta        `json:"link_meta"`
}

type customerDetails struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
}

type linkNotify struct {
	SendEmail bool `json:"send_email"`
	SendSMS   bool `json:"send_sms"`
}

type linkMeta struct {
	NotifyURL string `json:"notify_url,omitempty"`
}

// CreateLink creates a hosted payment link.
func (g *Gateway) CreateLink(ctx context.Context, req LinkRequest) (*Link, error) {
	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	body := linkRequestBody{
		LinkID:       req.LinkID,
		LinkAmount:   req.Amount,
		LinkCurrency: currency,
		LinkPurpose:  req.Purpose,
		CustomerDetails: customerDetails{
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			CustomerPhone: req.CustomerPhone,
		},
		LinkNotify: linkNotify{SendEmail: true},
		LinkMeta:   linkMeta{NotifyURL: req.NotifyURL},
	}
	if !req.ExpiryTime.IsZero() {
		body.LinkExpiryTime = req.ExpiryTime.Format(time.RFC3339)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal link request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/links", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-version", apiVersion)
	httpReq.Header.Set("x-client-id", g.clientID)
	httpReq.Header.Set("x-client-secret", g.clientSecret)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("create payment link: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment gateway returned %d: %s", resp.StatusCode, string(respBody))
	}

	var link Link
	if err := json.Unmarshal(respBody, &link); err != nil {
		return nil, fmt.Errorf("decode payment link response: %w", err)
	}

	logger.Info("PaymentGateway:CreateLink:Created", "link_id", link.LinkID, "status", link.LinkStatus)
	return &link, nil
}

// VerifyWebhookSignature checks the gateway's HMAC over timestamp+body.
func (g *Gateway) VerifyWebhookSignature(timestamp string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
