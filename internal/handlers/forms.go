package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/mickiefender/campaign-website/internal/models"
	"github.com/mickiefender/campaign-website/internal/store"
)

// FormHandler covers the insert-only public forms: volunteer signup and
// contact messages.
type FormHandler struct {
	volunteers *store.VolunteerStore
	contacts   *store.ContactStore
}

func NewFormHandler(volunteers *store.VolunteerStore, contacts *store.ContactStore) *FormHandler {
	return &FormHandler{volunteers: volunteers, contacts: contacts}
}

type volunteerRequest struct {
	FullName     string          `json:"fullName"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	Region       string          `json:"region"`
	Address      string          `json:"address"`
	City         string          `json:"city"`
	Skills       json.RawMessage `json:"skills"`
	Availability string          `json:"availability"`
	Roles        []string        `json:"roles"`
}

// SubmitVolunteer records a volunteer signup. Skills arrive either as a
// comma-separated string or as an array, depending on which form
// version the frontend serves.
func (h *FormHandler) SubmitVolunteer(w http.ResponseWriter, r *http.Request) {
	var req volunteerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.FullName == "" || req.Email == "" {
		http.Error(w, `{"error":"Full name and email are required"}`, http.StatusBadRequest)
		return
	}

	volunteer := &models.Volunteer{
		FullName:        req.FullName,
		Email:           req.Email,
		Phone:           req.Phone,
		Region:          req.Region,
		Address:         req.Address,
		City:            req.City,
		Skills:          parseSkills(req.Skills),
		Availability:    req.Availability,
		InterestedRoles: req.Roles,
	}

	if _, err := h.volunteers.Create(r.Context(), volunteer); err != nil {
		log.Printf("Volunteer insert error: %v", err)
		http.Error(w, `{"error":"Failed to save volunteer"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// SubmitContact records a contact form message.
func (h *FormHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Subject  string `json:"subject"`
		Message  string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Message == "" {
		http.Error(w, `{"error":"Email and message are required"}`, http.StatusBadRequest)
		return
	}

	msg := &models.ContactMessage{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Subject:  req.Subject,
		Message:  req.Message,
	}
	if _, err := h.contacts.Create(r.Context(), msg); err != nil {
		log.Printf("Contact message insert error: %v", err)
		http.Error(w, `{"error":"Failed to save message"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func parseSkills(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var csv string
	if err := json.Unmarshal(raw, &csv); err != nil {
		return []string{}
	}
	skills := make([]string, 0)
	for _, s := range strings.Split(csv, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}
