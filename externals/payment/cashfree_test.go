package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hiringdesk/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	g := NewGateway(config.PaymentConfig{WebhookSecret: "whsec"})
	body := []byte(`{"type":"PAYMENT_LINK_EVENT"}`)
	timestamp := "1767000000"

	assert.True(t, g.VerifyWebhookSignature(timestamp, body, sign("whsec", timestamp, body)))
	assert.False(t, g.VerifyWebhookSignature(timestamp, body, sign("other", timestamp, body)))
	assert.False(t, g.VerifyWebhookSignature("1767000001", body, sign("whsec", timestamp, body)))
	assert.False(t, g.VerifyWebhookSignature(timestamp, append(body, 'x'), sign("whsec", timestamp, body)))
}

func TestCreateLink(t *testing.T) {
	var got linkRequestBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/links", r.URL.Path)
		assert.Equal(t, apiVersion, r.Header.Get("x-api-version"))
		assert.Equal(t, "cid", r.Header.Get("x-client-id"))
		assert.Equal(t, "secret", r.Header.Get("x-client-secret"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_ = json.NewEncoder(w).Encode(Link{
			LinkID:     got.LinkID,
			LinkURL:    "https://payments.example/l/abc",
			LinkStatus: "ACTIVE",
			Amount:     got.LinkAmount,
		})
	}))
	defer srv.Close()

	g := NewGateway(config.PaymentConfig{
		BaseURL:      srv.URL,
		ClientID:     "cid",
		ClientSecret: "secret",
	})

	link, err := g.CreateLink(t.Context(), LinkRequest{
		LinkID:        "rec-123",
		Amount:        5310,
		Purpose:       "Interview services, March 2026",
		CustomerName:  "Acme Corp",
		CustomerEmail: "billing@acme.example",
		ExpiryTime:    time.Date(2026, time.March, 17, 12, 0, 0, 0, time.UTC),
		NotifyURL:     "https://api.example/api/v1/public/payments/webhook",
	})
	require.NoError(t, err)

	assert.Equal(t, "rec-123", link.LinkID)
	assert.Equal(t, "https://payments.example/l/abc", link.LinkURL)
	assert.Equal(t, 5310.0, link.Amount)

	assert.Equal(t, "INR", got.LinkCurrency)
	assert.True(t, got.LinkNotify.SendEmail)
	assert.Equal(t, "https://api.example/api/v1/public/payments/webhook", got.LinkMeta.NotifyURL)
	assert.NotEmpty(t, got.LinkExpiryTime)
}

func TestCreateLinkGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"link_id already exists"}`, http.StatusConflict)
	}))
	defer srv.Close()

	g := NewGateway(config.PaymentConfig{BaseURL: srv.URL})
	_, err := g.CreateLink(t.Context(), LinkRequest{LinkID: "dup", Amount: 100})
	assert.Error(t, err)
}
