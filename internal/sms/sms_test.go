package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPhoneNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0241234567", "233241234567"},
		{"024 123 4567", "233241234567"},
		{"+233241234567", "233241234567"},
		{"233241234567", "233241234567"},
		{"241234567", "233241234567"},
		{"(024) 123-4567", "233241234567"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPhoneNumber(tt.in), "in=%s", tt.in)
	}
}

func TestGratitudeMessage(t *testing.T) {
	msg := GratitudeMessage("Ama Mensah", 500)
	assert.Contains(t, msg, "Dear Ama,")
	assert.Contains(t, msg, "GH¢500.00")

	msg = GratitudeMessage("", 25.5)
	assert.Contains(t, msg, "Dear Friend,")
}

func TestSend(t *testing.T) {
	var got sendPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, secret, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "sms-id", id)
		assert.Equal(t, "sms-secret", secret)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"MessageId": "m-1", "Status": "sent"})
	}))
	defer srv.Close()

	sender := NewSender("sms-id", "sms-secret", "DrDwamena", srv.URL)
	err := sender.SendGratitude(context.Background(), "Ama Mensah", "0241234567", 500)
	require.NoError(t, err)

	assert.Equal(t, "DrDwamena", got.From)
	assert.Equal(t, "233241234567", got.To)
	assert.True(t, got.RegisteredDelivery)
	assert.Contains(t, got.Content, "Dear Ama,")
}

func TestSendFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "bad credentials"})
	}))
	defer srv.Close()

	sender := NewSender("sms-id", "sms-secret", "DrDwamena", srv.URL)
	err := sender.Send(context.Background(), "0241234567", "hello")
	require.Error(t, err)

	unconfigured := NewSender("", "", "DrDwamena", srv.URL)
	assert.False(t, unconfigured.Configured())
	assert.Error(t, unconfigured.Send(context.Background(), "0241234567", "hello"))

	assert.Error(t, sender.Send(context.Background(), "", "hello"))
}
