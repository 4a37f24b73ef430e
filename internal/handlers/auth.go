package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"

	"github.com/mickiefender/campaign-website/internal/models"
	"github.com/mickiefender/campaign-website/internal/store"
)

const sessionCookie = "session"
const sessionTTL = 7 * 24 * time.Hour

// AuthHandler implements the admin session flow: bcrypt-checked login,
// JWT session cookie, and the one-time admin setup endpoint.
type AuthHandler struct {
	admins    *store.AdminStore
	jwtSecret []byte
	setupKey  string
}

func NewAuthHandler(admins *store.AdminStore, jwtSecret, setupKey string) *AuthHandler {
	return &AuthHandler{admins: admins, jwtSecret: []byte(jwtSecret), setupKey: setupKey}
}

// Login verifies admin credentials and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, `{"error":"Email and password are required"}`, http.StatusBadRequest)
		return
	}

	admin, err := h.admins.FindByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("Login lookup failed for %s: %v", req.Email, err)
		http.Error(w, `{"error":"Internal server error"}`, http.StatusInternalServerError)
		return
	}
	if admin == nil || bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		http.Error(w, `{"error":"Invalid email or password"}`, http.StatusUnauthorized)
		return
	}

	token, err := h.issueSession(admin)
	if err != nil {
		log.Printf("Failed to sign session token: %v", err)
		http.Error(w, `{"error":"Internal server error"}`, http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(sessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Login successful",
		"user":    map[string]string{"email": admin.Email, "role": admin.Role},
	})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// RegisterAdmin is the one-time setup endpoint: it requires the setup
// key and refuses once any admin account exists.
func (h *AuthHandler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		Name      string `json:"name"`
		SecretKey string `json:"secretKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.SecretKey != h.setupKey {
		http.Error(w, `{"error":"Invalid setup key"}`, http.StatusForbidden)
		return
	}

	count, err := h.admins.Count(r.Context())
	if err != nil {
		log.Printf("Failed to check existing admins: %v", err)
		http.Error(w, `{"error":"Failed to verify setup status"}`, http.StatusInternalServerError)
		return
	}
	if count > 0 {
		http.Error(w, `{"error":"Admin account already exists. Setup is complete."}`, http.StatusForbidden)
		return
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, `{"error":"Email and password are required"}`, http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, `{"error":"Internal server error"}`, http.StatusInternalServerError)
		return
	}

	name := req.Name
	if name == "" {
		name = "Admin"
	}
	id, err := h.admins.Create(r.Context(), &models.AdminUser{
		Email:        req.Email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         "admin",
	})
	if err != nil {
		log.Printf("Failed to create admin user: %v", err)
		http.Error(w, `{"error":"Failed to create admin user"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "id": id})
}

// CheckSetup reports whether the one-time admin setup has been done.
func (h *AuthHandler) CheckSetup(w http.ResponseWriter, r *http.Request) {
	count, err := h.admins.Count(r.Context())
	if err != nil {
		log.Printf("Failed to check admin setup: %v", err)
		http.Error(w, `{"error":"Failed to check admin setup status"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"setupComplete": count > 0,
		"adminCount":    count,
	})
}

// RequireSession guards the admin API. The session travels as an
// HS256-signed JWT in the session cookie.
func (h *AuthHandler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil || cookie.Value == "" {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}

		token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return h.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			http.Error(w, `{"error":"Invalid session"}`, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *AuthHandler) issueSession(admin *models.AdminUser) (string, error) {
	claims := jwt.MapClaims{
		"userId": admin.ID.Hex(),
		"email":  admin.Email,
		"role":   admin.Role,
		"iat":    time.Now().Unix(),
		"exp":    time.Now().Add(sessionTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}
