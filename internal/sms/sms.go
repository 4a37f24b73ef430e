// Package sms sends thank-you messages to donors through the Hubtel
// SMS API. Sending is best-effort: a failed SMS is logged and dropped,
// it never touches the donation's payment status.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const countryCode = "233"

type Sender struct {
	clientID     string
	clientSecret string
	senderID     string
	baseURL      string
	httpClient   *http.Client
}

func NewSender(clientID, clientSecret, senderID, baseURL string) *Sender {
	return &Sender{
		clientID:     clientID,
		clientSecret: clientSecret,
		senderID:     senderID,
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether SMS credentials are present. When they are
// not, sends are skipped rather than erroring the caller.
func (s *Sender) Configured() bool {
	return s.clientID != "" && s.clientSecret != ""
}

// FormatPhoneNumber converts any local Ghana number format to the
// international form Hubtel requires: all non-digits stripped, a leading
// trunk 0 replaced with 233, and 233 prepended when absent.
func FormatPhoneNumber(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	if strings.HasPrefix(cleaned, "0") {
		cleaned = countryCode + cleaned[1:]
	}
	if !strings.HasPrefix(cleaned, countryCode) {
		cleaned = countryCode + cleaned
	}
	return cleaned
}

// GratitudeMessage builds the personalized thank-you text. Anonymous or
// missing names fall back to a generic salutation.
func GratitudeMessage(donorName string, amount float64) string {
	firstName := "Friend"
	if parts := strings.Fields(donorName); len(parts) > 0 {
		firstName = parts[0]
	}
	return fmt.Sprintf("Dear %s, thank you for your generous donation of GH¢%.2f to Dr. Dwamena's campaign. Tetelesai! NyameAye Awie!!", firstName, amount)
}

type sendPayload struct {
	From               string `json:"From"`
	To                 string `json:"To"`
	Content            string `json:"Content"`
	RegisteredDelivery bool   `json:"RegisteredDelivery"`
}

// SendGratitude sends the post-donation thank-you SMS.
func (s *Sender) SendGratitude(ctx context.Context, donorName, donorPhone string, amount float64) error {
	return s.Send(ctx, donorPhone, GratitudeMessage(donorName, amount))
}

// Send delivers a single SMS to the given phone number.
func (s *Sender) Send(ctx context.Context, phone, message string) error {
	if phone == "" {
		return fmt.Errorf("phone number is required")
	}
	if !s.Configured() {
		return fmt.Errorf("sms service not configured")
	}

	payload := sendPayload{
		From:               s.senderID,
		To:                 FormatPhoneNumber(phone),
		Content:            message,
		RegisteredDelivery: true,
	}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal sms payload: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create sms request: %v", err)
	}
	req.SetBasicAuth(s.clientID, s.clientSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("sms send failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		MessageID string `json:"MessageId"`
		Status    string `json:"Status"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		// 200 with an unparseable body still counts as sent
		log.Printf("SMS response not parseable, assuming sent: %v", err)
		return nil
	}

	log.Printf("SMS sent to %s: messageId=%s status=%s", payload.To, result.MessageID, result.Status)
	return nil
}
