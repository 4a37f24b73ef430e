package hubtel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickiefender/campaign-website/internal/models"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want models.DonationStatus
	}{
		{"Success", models.StatusCompleted},
		{"Paid", models.StatusCompleted},
		{"Pending", models.StatusPending},
		{"Processing", models.StatusPending},
		{"Cancelled", models.StatusCancelled},
		{"Canceled", models.StatusCancelled},
		{"Failed", models.StatusFailed},
		{"Declined", models.StatusFailed},
		{"SomethingNew", models.StatusPending},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeStatus(tt.raw), "raw=%s", tt.raw)
	}
}

func TestInitialize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/items/initiate", r.URL.Path)

		id, secret, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "client-id", id)
		assert.Equal(t, "client-secret", secret)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "DON-AB12CD34-56789012", payload["clientReference"])
		assert.Equal(t, "merchant-1", payload["merchantAccountNumber"])
		assert.Equal(t, 500.0, payload["totalAmount"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"responseCode": "0000",
			"data": map[string]string{
				"checkoutUrl": "https://checkout.hubtel.com/xyz",
				"checkoutId":  "co-123",
			},
		})
	}))
	defer srv.Close()

	client := NewClient("client-id", "client-secret", "merchant-1", srv.URL)
	session, err := client.Initialize(context.Background(), InitializeRequest{
		Amount:          500,
		Description:     "Campaign Donation - Ama Mensah",
		ClientReference: "DON-AB12CD34-56789012",
		CustomerName:    "Ama Mensah",
		CustomerEmail:   "ama@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.hubtel.com/xyz", session.CheckoutURL)
	assert.Equal(t, "co-123", session.CheckoutID)
}

func TestInitializeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"responseCode": "4010",
			"message":      "invalid merchant account",
		})
	}))
	defer srv.Close()

	client := NewClient("client-id", "client-secret", "merchant-1", srv.URL)
	_, err := client.Initialize(context.Background(), InitializeRequest{Amount: 10, ClientReference: "DON-42-00000001"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid merchant account")
}

func TestInitializeMissingCredentials(t *testing.T) {
	client := NewClient("", "", "merchant-1", "http://unused.invalid")
	_, err := client.Initialize(context.Background(), InitializeRequest{Amount: 10})
	require.Error(t, err)
}

func TestVerifyStatus(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantSuccess bool
		wantStatus  models.DonationStatus
	}{
		{
			name: "paid transaction",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/items/status/DON-AB12CD34-56789012", r.URL.Path)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"responseCode": "0000",
					"data": map[string]interface{}{
						"status":        "Paid",
						"transactionId": "tx-1",
						"amount":        500.0,
					},
				})
			},
			wantSuccess: true,
			wantStatus:  models.StatusCompleted,
		},
		{
			name: "declined transaction",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]interface{}{
					"responseCode": "0000",
					"data":         map[string]interface{}{"status": "Declined"},
				})
			},
			wantSuccess: true,
			wantStatus:  models.StatusFailed,
		},
		{
			name: "gateway error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				json.NewEncoder(w).Encode(map[string]string{"message": "upstream unavailable"})
			},
			wantSuccess: false,
		},
		{
			name: "missing data payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]interface{}{"responseCode": "0000"})
			},
			wantSuccess: false,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
			wantSuccess: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := NewClient("client-id", "client-secret", "merchant-1", srv.URL)
			got := client.VerifyStatus(context.Background(), "DON-AB12CD34-56789012")
			assert.Equal(t, tt.wantSuccess, got.Success)
			if tt.wantSuccess {
				assert.Equal(t, tt.wantStatus, got.Status)
			} else {
				assert.NotEmpty(t, got.Message, "verification failures carry a descriptive message")
			}
		})
	}
}

func TestVerifyStatusNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient("client-id", "client-secret", "merchant-1", srv.URL)
	got := client.VerifyStatus(context.Background(), "DON-AB12CD34-56789012")
	assert.False(t, got.Success)
	assert.NotEmpty(t, got.Message)
}
