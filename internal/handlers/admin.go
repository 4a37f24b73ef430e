package handlers

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mickiefender/campaign-website/internal/models"
	"github.com/mickiefender/campaign-website/internal/store"
)

// AdminHandler serves the dashboard API: paginated listings of
// donations and volunteers, plus aggregate stats. Route registration
// wraps these in the session middleware.
type AdminHandler struct {
	donations  *store.DonationStore
	volunteers *store.VolunteerStore
	contacts   *store.ContactStore
}

func NewAdminHandler(donations *store.DonationStore, volunteers *store.VolunteerStore, contacts *store.ContactStore) *AdminHandler {
	return &AdminHandler{donations: donations, volunteers: volunteers, contacts: contacts}
}

// ListDonations returns a filtered, paginated donation listing.
func (h *AdminHandler) ListDonations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := queryInt(query.Get("page"), 1)
	limit := queryInt(query.Get("limit"), 10)

	donations, total, err := h.donations.List(r.Context(), store.ListOptions{
		Page:   page,
		Limit:  limit,
		Status: query.Get("status"),
		Search: query.Get("search"),
	})
	if err != nil {
		log.Printf("Failed to fetch donations: %v", err)
		http.Error(w, `{"error":"Failed to fetch donations"}`, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"donations": donations,
		"pagination": map[string]interface{}{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// UpdateDonationStatus is the manual admin override. It runs through
// the same guarded store transition as the payment channels, so even an
// operator cannot regress a completed donation.
func (h *AdminHandler) UpdateDonationStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.ID == "" || !models.DonationStatus(req.Status).Valid() {
		http.Error(w, `{"error":"id and a valid status are required"}`, http.StatusBadRequest)
		return
	}

	donation, applied, err := h.donations.TransitionStatus(r.Context(), req.ID, models.DonationStatus(req.Status), "", "manual admin override")
	if err != nil {
		log.Printf("Admin transition for donation %s failed: %v", req.ID, err)
		http.Error(w, `{"error":"Failed to update donation"}`, http.StatusInternalServerError)
		return
	}
	if !applied {
		current, err := h.donations.FindByID(r.Context(), req.ID)
		if err != nil || current == nil {
			http.Error(w, `{"error":"donation not found"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":    "donation is in a terminal state",
			"donation": current,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "donation": donation})
}

// ListVolunteers returns a filtered, paginated volunteer listing.
func (h *AdminHandler) ListVolunteers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := queryInt(query.Get("page"), 1)
	limit := queryInt(query.Get("limit"), 10)

	volunteers, total, err := h.volunteers.List(r.Context(), store.VolunteerListOptions{
		Page:   page,
		Limit:  limit,
		Region: query.Get("region"),
		Status: query.Get("status"),
	})
	if err != nil {
		log.Printf("Failed to fetch volunteers: %v", err)
		http.Error(w, `{"error":"Failed to fetch volunteers"}`, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"volunteers": volunteers,
		"pagination": map[string]interface{}{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// RegionStats returns volunteer counts grouped by region for the
// dashboard chart.
func (h *AdminHandler) RegionStats(w http.ResponseWriter, r *http.Request) {
	stats, total, err := h.volunteers.RegionStats(r.Context())
	if err != nil {
		log.Printf("Failed to fetch region stats: %v", err)
		http.Error(w, `{"error":"Failed to fetch region stats"}`, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"regionStats": stats,
		"total":       total,
	})
}

// Stats aggregates the dashboard headline numbers. Donation totals are
// summed with decimal arithmetic; a campaign's running total should not
// drift with float accumulation.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.donations.Summaries(r.Context())
	if err != nil {
		log.Printf("Failed to fetch donation summaries: %v", err)
		http.Error(w, `{"error":"Failed to fetch stats"}`, http.StatusInternalServerError)
		return
	}

	lastMonth := time.Now().AddDate(0, -1, 0)

	totalAmount := decimal.Zero
	completedAmount := decimal.Zero
	var completedCount, recentDonations int
	for _, s := range summaries {
		amount := decimal.NewFromFloat(s.Amount)
		totalAmount = totalAmount.Add(amount)
		if s.Status == models.StatusCompleted {
			completedAmount = completedAmount.Add(amount)
			completedCount++
		}
		if s.CreatedAt.After(lastMonth) {
			recentDonations++
		}
	}

	totalVolunteers, err := h.volunteers.Count(r.Context(), time.Time{})
	if err != nil {
		log.Printf("Failed to count volunteers: %v", err)
	}
	recentVolunteers, err := h.volunteers.Count(r.Context(), lastMonth)
	if err != nil {
		log.Printf("Failed to count recent volunteers: %v", err)
	}
	totalMessages, err := h.contacts.Count(r.Context(), time.Time{})
	if err != nil {
		log.Printf("Failed to count contact messages: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"donations": map[string]interface{}{
			"totalAmount":     totalAmount.StringFixed(2),
			"completedAmount": completedAmount.StringFixed(2),
			"completedCount":  completedCount,
			"totalDonors":     len(summaries),
			"trendPercent":    trendPercent(recentDonations, len(summaries)),
		},
		"volunteers": map[string]interface{}{
			"total":        totalVolunteers,
			"trendPercent": trendPercent(int(recentVolunteers), int(totalVolunteers)),
		},
		"messages": map[string]interface{}{
			"total": totalMessages,
		},
	})
}

func trendPercent(recent, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(recent) / float64(total) * 100))
}

func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
