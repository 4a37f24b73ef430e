// Package hubtel is the Hubtel payment gateway client: transaction
// initialization for the checkout redirect and the status lookup used
// by the reconciliation flow.
package hubtel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/mickiefender/campaign-website/internal/models"
)

const responseCodeOK = "0000"

type Client struct {
	clientID        string
	clientSecret    string
	merchantAccount string
	baseURL         string
	httpClient      *http.Client
}

// NewClient builds a gateway client from explicit credentials. The
// client is constructed once at startup and shared; it holds no mutable
// state beyond the underlying http.Client.
func NewClient(clientID, clientSecret, merchantAccount, baseURL string) *Client {
	return &Client{
		clientID:        clientID,
		clientSecret:    clientSecret,
		merchantAccount: merchantAccount,
		baseURL:         baseURL,
		httpClient:      &http.Client{Timeout: 10 * time.Second},
	}
}

// InitializeRequest carries everything Hubtel needs to open a checkout
// session for one donation attempt.
type InitializeRequest struct {
	Amount          float64
	Description     string
	CallbackURL     string
	ReturnURL       string
	CancellationURL string
	ClientReference string
	CustomerName    string
	CustomerEmail   string
	CustomerMsisdn  string
}

// CheckoutSession is the gateway's answer to a successful initialize.
type CheckoutSession struct {
	CheckoutURL string `json:"checkoutUrl"`
	CheckoutID  string `json:"checkoutId"`
}

// PaymentStatus is a status lookup normalized into the canonical
// vocabulary. Success=false means the gateway could not be asked
// (network failure, malformed payload), which callers must distinguish
// from "the gateway told us it failed".
type PaymentStatus struct {
	Success       bool
	Status        models.DonationStatus
	TransactionID string
	Amount        float64
	Message       string
	ResponseCode  string
}

type initiatePayload struct {
	TotalAmount           float64 `json:"totalAmount"`
	Description           string  `json:"description"`
	CallbackURL           string  `json:"callbackUrl"`
	ReturnURL             string  `json:"returnUrl"`
	CancellationURL       string  `json:"cancellationUrl"`
	MerchantAccountNumber string  `json:"merchantAccountNumber"`
	ClientReference       string  `json:"clientReference"`
	CustomerName          string  `json:"customerName"`
	CustomerEmail         string  `json:"customerEmail"`
	CustomerMsisdn        string  `json:"customerMsisdn"`
}

// Initialize opens a Hubtel checkout session and returns the URL the
// donor is redirected to.
func (c *Client) Initialize(ctx context.Context, req InitializeRequest) (*CheckoutSession, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return nil, fmt.Errorf("hubtel credentials not configured")
	}

	payload := initiatePayload{
		TotalAmount:           req.Amount,
		Description:           req.Description,
		CallbackURL:           req.CallbackURL,
		ReturnURL:             req.ReturnURL,
		CancellationURL:       req.CancellationURL,
		MerchantAccountNumber: c.merchantAccount,
		ClientReference:       req.ClientReference,
		CustomerName:          req.CustomerName,
		CustomerEmail:         req.CustomerEmail,
		CustomerMsisdn:        req.CustomerMsisdn,
	}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal initiate request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/items/initiate", bytes.NewBuffer(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create initiate request: %v", err)
	}
	httpReq.SetBasicAuth(c.clientID, c.clientSecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("hubtel initiate request failed: %v", err)
	}
	defer resp.Body.Close()

	var result struct {
		ResponseCode string          `json:"responseCode"`
		Message      string          `json:"message"`
		Data         CheckoutSession `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode initiate response: %v", err)
	}

	if resp.StatusCode != http.StatusOK || result.ResponseCode != responseCodeOK {
		log.Printf("Hubtel initiate rejected: status=%d responseCode=%s message=%s", resp.StatusCode, result.ResponseCode, result.Message)
		if result.Message == "" {
			result.Message = "failed to initialize payment"
		}
		return nil, fmt.Errorf("hubtel initiate rejected: %s", result.Message)
	}

	if result.Data.CheckoutURL == "" {
		return nil, fmt.Errorf("no checkout URL in hubtel response")
	}

	return &result.Data, nil
}

// VerifyStatus asks Hubtel for the state of the transaction behind a
// client reference. It never returns a Go error: transport and parse
// failures come back as Success=false so the caller can apply its own
// fallback policy. No retries here either; re-polling is the caller's
// decision.
func (c *Client) VerifyStatus(ctx context.Context, clientReference string) PaymentStatus {
	endpoint := c.baseURL + "/items/status/" + url.PathEscape(clientReference)
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return PaymentStatus{Success: false, Message: fmt.Sprintf("failed to create status request: %v", err)}
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PaymentStatus{Success: false, Message: fmt.Sprintf("hubtel status request failed: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return PaymentStatus{Success: false, Message: fmt.Sprintf("failed to read status response: %v", err)}
	}

	var result struct {
		ResponseCode string `json:"responseCode"`
		Message      string `json:"message"`
		Data         *struct {
			Status                string  `json:"status"`
			TransactionID         string  `json:"transactionId"`
			ExternalTransactionID string  `json:"externalTransactionId"`
			Amount                float64 `json:"amount"`
			AmountCharged         float64 `json:"amountCharged"`
			Description           string  `json:"description"`
			StatusMessage         string  `json:"statusMessage"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return PaymentStatus{Success: false, Message: fmt.Sprintf("failed to decode status response: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		msg := result.Message
		if msg == "" {
			msg = "failed to verify payment status"
		}
		log.Printf("Hubtel status lookup error for %s: status=%d responseCode=%s", clientReference, resp.StatusCode, result.ResponseCode)
		return PaymentStatus{Success: false, Message: msg, ResponseCode: result.ResponseCode}
	}

	if result.ResponseCode != responseCodeOK || result.Data == nil {
		return PaymentStatus{
			Success:      false,
			Message:      "unexpected response format from hubtel",
			ResponseCode: result.ResponseCode,
		}
	}

	data := result.Data
	status := PaymentStatus{
		Success:      true,
		Status:       NormalizeStatus(data.Status),
		ResponseCode: result.ResponseCode,
	}
	status.TransactionID = data.TransactionID
	if status.TransactionID == "" {
		status.TransactionID = data.ExternalTransactionID
	}
	status.Amount = data.Amount
	if status.Amount == 0 {
		status.Amount = data.AmountCharged
	}
	status.Message = data.Description
	if status.Message == "" {
		status.Message = data.StatusMessage
	}
	return status
}

// NormalizeStatus maps Hubtel's free-form status vocabulary onto the
// four canonical values. Unknown strings stay pending; a transaction we
// cannot classify is still in flight as far as reconciliation goes.
func NormalizeStatus(raw string) models.DonationStatus {
	switch raw {
	case "Success", "Paid":
		return models.StatusCompleted
	case "Pending", "Processing":
		return models.StatusPending
	case "Cancelled", "Canceled":
		return models.StatusCancelled
	case "Failed", "Declined":
		return models.StatusFailed
	default:
		return models.StatusPending
	}
}
