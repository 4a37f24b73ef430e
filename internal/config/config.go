package config

import (
	"fmt"
	"os"
	"strings"
)

const defaultHubtelBaseURL = "https://payproxyapi.hubtel.com"
const defaultHubtelSMSURL = "https://smsc.hubtel.com/v1/messages/send"
const defaultSMSSenderID = "DrDwamena"

// Config holds every credential and endpoint the service needs. It is
// built once in main and handed to constructors read-only; nothing else
// in the process reads the environment.
type Config struct {
	MongoURI      string
	DatabaseName  string
	Port          string
	AppBaseURL    string
	FrontendURL   string
	JWTSecret     string
	AdminSetupKey string

	HubtelClientID       string
	HubtelClientSecret   string
	HubtelMerchantNumber string
	HubtelBaseURL        string

	SMSClientID     string
	SMSClientSecret string
	SMSSenderID     string
	SMSBaseURL      string

	// TrustRedirectHint marks a donation completed on a success redirect
	// even when the gateway status lookup is unreachable. Weakens the
	// verified-only guarantee, see the reconcile package.
	TrustRedirectHint bool
}

// Load reads configuration from the environment. Only the Mongo URI is
// strictly required to boot; gateway credentials are validated by the
// components that use them.
func Load() (Config, error) {
	cfg := Config{
		MongoURI:      strings.TrimSpace(os.Getenv("MONGOURI")),
		DatabaseName:  envOr("MONGO_DATABASE", "campaigndb"),
		Port:          envOr("PORT", "8080"),
		AppBaseURL:    envOr("APP_BASE_URL", "http://localhost:8080"),
		FrontendURL:   envOr("FRONTEND_BASE_URL", "http://localhost:3000"),
		JWTSecret:     envOr("JWT_SECRET", "change-this-in-production"),
		AdminSetupKey: envOr("ADMIN_SETUP_KEY", "setup-admin-2024"),

		HubtelClientID:       strings.TrimSpace(os.Getenv("HUBTEL_CLIENT_ID")),
		HubtelClientSecret:   strings.TrimSpace(os.Getenv("HUBTEL_CLIENT_SECRET")),
		HubtelMerchantNumber: strings.TrimSpace(os.Getenv("HUBTEL_MERCHANT_ACCOUNT_NUMBER")),
		HubtelBaseURL:        envOr("HUBTEL_BASE_URL", defaultHubtelBaseURL),

		SMSClientID:     strings.TrimSpace(os.Getenv("HUBTEL_SMS_CLIENT_ID")),
		SMSClientSecret: strings.TrimSpace(os.Getenv("HUBTEL_SMS_CLIENT_SECRET")),
		SMSSenderID:     envOr("HUBTEL_SMS_SENDER_ID", defaultSMSSenderID),
		SMSBaseURL:      envOr("HUBTEL_SMS_URL", defaultHubtelSMSURL),

		TrustRedirectHint: envOr("TRUST_REDIRECT_HINT", "true") != "false",
	}

	if cfg.MongoURI == "" {
		return Config{}, fmt.Errorf("MONGOURI environment variable not set")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
