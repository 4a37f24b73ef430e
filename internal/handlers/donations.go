package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/mickiefender/campaign-website/internal/hubtel"
	"github.com/mickiefender/campaign-website/internal/models"
	"github.com/mickiefender/campaign-website/internal/reconcile"
	"github.com/mickiefender/campaign-website/internal/reference"
	"github.com/mickiefender/campaign-website/internal/store"
)

// DonationHandler owns the donation checkout flow: initialization plus
// the three reconciliation entry points (redirect callback, webhook,
// status poll). All three delegate to the shared orchestrator so the
// channels cannot drift apart in their transition logic.
type DonationHandler struct {
	donations   *store.DonationStore
	gateway     *hubtel.Client
	reconciler  *reconcile.Orchestrator
	appBaseURL  string
	frontendURL string
}

func NewDonationHandler(donations *store.DonationStore, gateway *hubtel.Client, reconciler *reconcile.Orchestrator, appBaseURL, frontendURL string) *DonationHandler {
	return &DonationHandler{
		donations:   donations,
		gateway:     gateway,
		reconciler:  reconciler,
		appBaseURL:  appBaseURL,
		frontendURL: frontendURL,
	}
}

type initializeRequest struct {
	Amount      float64 `json:"amount"`
	Email       string  `json:"email"`
	FullName    string  `json:"fullName"`
	Phone       string  `json:"phone"`
	IsAnonymous bool    `json:"isAnonymous"`
	Message     string  `json:"message"`
}

// Initialize creates the donation record in pending status, opens a
// Hubtel checkout session and hands the checkout URL back to the
// frontend. The client reference is generated here and stamped onto the
// donation as soon as the gateway accepts the initialization.
func (h *DonationHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	var req initializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}

	amount := decimal.NewFromFloat(req.Amount).Round(2)
	if !amount.IsPositive() {
		http.Error(w, `{"error":"Amount must be positive"}`, http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.FullName == "" {
		http.Error(w, `{"error":"Missing required fields"}`, http.StatusBadRequest)
		return
	}

	displayName := req.FullName
	if req.IsAnonymous {
		displayName = "Anonymous Donor"
	}

	donation := &models.Donation{
		FullName:    displayName,
		Email:       req.Email,
		Phone:       req.Phone,
		Amount:      amount.InexactFloat64(),
		IsAnonymous: req.IsAnonymous,
		Message:     req.Message,
	}
	donationID, err := h.donations.Create(r.Context(), donation)
	if err != nil {
		log.Printf("Failed to create donation: %v", err)
		http.Error(w, `{"error":"Failed to create donation"}`, http.StatusInternalServerError)
		return
	}

	clientReference := reference.Encode(donationID)

	description := "Campaign Donation - " + displayName
	session, err := h.gateway.Initialize(r.Context(), hubtel.InitializeRequest{
		Amount:          donation.Amount,
		Description:     description,
		CallbackURL:     h.appBaseURL + "/api/hubtel/webhook",
		ReturnURL:       h.appBaseURL + "/api/hubtel/callback?status=success&clientReference=" + url.QueryEscape(clientReference),
		CancellationURL: h.appBaseURL + "/api/hubtel/callback?status=cancelled&clientReference=" + url.QueryEscape(clientReference),
		ClientReference: clientReference,
		CustomerName:    req.FullName,
		CustomerEmail:   req.Email,
		CustomerMsisdn:  req.Phone,
	})
	if err != nil {
		log.Printf("Hubtel initialize failed for donation %s: %v", donationID, err)
		http.Error(w, fmt.Sprintf(`{"error":"Failed to initialize payment: %v"}`, err), http.StatusBadGateway)
		return
	}

	// Stamp the reference now that the gateway accepted it. The
	// donation is still pending, so this is a pending-over-pending
	// write through the same guarded transition.
	if _, _, err := h.donations.TransitionStatus(r.Context(), donationID, models.StatusPending, clientReference, ""); err != nil {
		log.Printf("Failed to stamp reference on donation %s: %v", donationID, err)
		http.Error(w, `{"error":"Failed to record transaction reference"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"checkoutUrl":     session.CheckoutURL,
		"clientReference": clientReference,
		"checkoutId":      session.CheckoutID,
	})
}

// Callback handles the browser redirect that follows the Hubtel
// checkout page. The outcome decides which frontend page the donor
// lands on; every branch resolves to a redirect, never an error page
// from this service.
func (h *DonationHandler) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	status := query.Get("status")
	clientReference := query.Get("clientReference")
	checkoutID := query.Get("checkoutId")

	log.Printf("Callback received: status=%s clientReference=%s checkoutId=%s", status, clientReference, checkoutID)

	if clientReference == "" {
		h.redirectDonate(w, r, "failed", url.Values{"error": {"missing_reference"}})
		return
	}
	if reference.Decode(clientReference) == "" {
		log.Printf("Invalid client reference format: %s", clientReference)
		h.redirectDonate(w, r, "failed", url.Values{"error": {"invalid_reference"}})
		return
	}

	hint := reconcile.HintNone
	switch status {
	case "success":
		hint = reconcile.HintSuccess
	case "cancelled", "canceled":
		hint = reconcile.HintCancelled
	}

	res := h.reconciler.Reconcile(r.Context(), clientReference, hint)

	switch res.Outcome {
	case reconcile.OutcomeCompleted:
		params := url.Values{"ref": {clientReference}}
		if res.Donation != nil {
			params.Set("amount", decimal.NewFromFloat(res.Donation.Amount).StringFixed(2))
		}
		h.redirectDonate(w, r, "success", params)
	case reconcile.OutcomePending:
		h.redirectDonate(w, r, "pending", url.Values{"ref": {clientReference}})
	case reconcile.OutcomeCancelled:
		h.redirectDonate(w, r, "cancelled", url.Values{"ref": {clientReference}})
	case reconcile.OutcomeNotFound:
		h.redirectDonate(w, r, "failed", url.Values{"error": {"donation_not_found"}})
	case reconcile.OutcomeError:
		h.redirectDonate(w, r, "failed", url.Values{"error": {"processing_error"}})
	default:
		params := url.Values{"ref": {clientReference}}
		if res.Message != "" {
			params.Set("reason", res.Message)
		}
		h.redirectDonate(w, r, "failed", params)
	}
}

// CallbackPost accepts the same callback parameters in a JSON body and
// re-routes them through the GET handler. Some gateway configurations
// POST the return call instead of redirecting.
func (h *DonationHandler) CallbackPost(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status          string `json:"status"`
		ClientReference string `json:"clientReference"`
		CheckoutID      string `json:"checkoutId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"Invalid callback data"}`, http.StatusBadRequest)
		return
	}

	params := url.Values{}
	if body.Status != "" {
		params.Set("status", body.Status)
	}
	if body.ClientReference != "" {
		params.Set("clientReference", body.ClientReference)
	}
	if body.CheckoutID != "" {
		params.Set("checkoutId", body.CheckoutID)
	}
	http.Redirect(w, r, h.appBaseURL+"/api/hubtel/callback?"+params.Encode(), http.StatusFound)
}

type webhookPayload struct {
	ResponseCode string `json:"ResponseCode"`
	Data         struct {
		ClientReference string  `json:"ClientReference"`
		TransactionID   string  `json:"TransactionId"`
		Amount          float64 `json:"Amount"`
		Status          string  `json:"Status"`
	} `json:"Data"`
}

// Webhook handles Hubtel's server-to-server payment notification. The
// response is 200 for every handled outcome, including unknown
// references, so the gateway does not keep retrying events we have
// already resolved.
func (h *DonationHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, `{"error":"Invalid webhook payload"}`, http.StatusBadRequest)
		return
	}

	if payload.ResponseCode != "0000" {
		log.Printf("Webhook with non-success response code: %s", payload.ResponseCode)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		return
	}

	clientReference := payload.Data.ClientReference
	if reference.Decode(clientReference) == "" {
		log.Printf("Webhook with invalid reference: %q", clientReference)
		http.Error(w, `{"error":"Invalid reference"}`, http.StatusBadRequest)
		return
	}

	hint := reconcile.HintNone
	if payload.Data.Status == "Success" || payload.Data.Status == "Paid" {
		hint = reconcile.HintSuccess
	}

	res := h.reconciler.Reconcile(r.Context(), clientReference, hint)
	log.Printf("Webhook reconciled %s: outcome=%s txn=%s", clientReference, res.Outcome, payload.Data.TransactionID)

	if res.Outcome == reconcile.OutcomeError {
		http.Error(w, `{"error":"Webhook processing error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Status is the client poll channel: the donate page asks for the
// current state of its reference while the donor waits.
func (h *DonationHandler) Status(w http.ResponseWriter, r *http.Request) {
	clientReference := mux.Vars(r)["reference"]
	if reference.Decode(clientReference) == "" {
		http.Error(w, `{"error":"Invalid reference"}`, http.StatusBadRequest)
		return
	}

	res := h.reconciler.Reconcile(r.Context(), clientReference, reconcile.HintNone)

	switch res.Outcome {
	case reconcile.OutcomeNotFound:
		http.Error(w, `{"error":"donation not found"}`, http.StatusNotFound)
	case reconcile.OutcomeError:
		http.Error(w, `{"error":"Failed to check payment status"}`, http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    string(res.Outcome),
			"reference": clientReference,
		})
	}
}

func (h *DonationHandler) redirectDonate(w http.ResponseWriter, r *http.Request, page string, params url.Values) {
	target := h.frontendURL + "/donate/" + page
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
