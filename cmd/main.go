package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mickiefender/campaign-website/internal/config"
	"github.com/mickiefender/campaign-website/internal/handlers"
	"github.com/mickiefender/campaign-website/internal/hubtel"
	"github.com/mickiefender/campaign-website/internal/reconcile"
	"github.com/mickiefender/campaign-website/internal/sms"
	"github.com/mickiefender/campaign-website/internal/store"
)

func main() {
	// Load .env
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env: %s", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Connect to MongoDB
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	log.Println("Successfully connected to MongoDB")

	db := client.Database(cfg.DatabaseName)

	// Stores
	donationStore := store.NewDonationStore(db)
	volunteerStore := store.NewVolunteerStore(db)
	contactStore := store.NewContactStore(db)
	adminStore := store.NewAdminStore(db)

	if err := donationStore.EnsureIndexes(ctx); err != nil {
		log.Printf("Warning: %v", err)
	}

	// External services
	gateway := hubtel.NewClient(cfg.HubtelClientID, cfg.HubtelClientSecret, cfg.HubtelMerchantNumber, cfg.HubtelBaseURL)
	smsSender := sms.NewSender(cfg.SMSClientID, cfg.SMSClientSecret, cfg.SMSSenderID, cfg.SMSBaseURL)
	if !smsSender.Configured() {
		log.Println("Warning: SMS credentials not configured, thank-you messages will be skipped")
	}

	// The one reconciliation orchestrator shared by all three channels
	reconciler := reconcile.New(donationStore, gateway, smsSender, cfg.TrustRedirectHint)

	// Handlers
	donationHandler := handlers.NewDonationHandler(donationStore, gateway, reconciler, cfg.AppBaseURL, cfg.FrontendURL)
	formHandler := handlers.NewFormHandler(volunteerStore, contactStore)
	authHandler := handlers.NewAuthHandler(adminStore, cfg.JWTSecret, cfg.AdminSetupKey)
	adminHandler := handlers.NewAdminHandler(donationStore, volunteerStore, contactStore)

	// Set up router
	router := mux.NewRouter()
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET", "HEAD")

	router.HandleFunc("/api/hubtel/initialize", donationHandler.Initialize).Methods("POST")
	router.HandleFunc("/api/hubtel/callback", donationHandler.Callback).Methods("GET")
	router.HandleFunc("/api/hubtel/callback", donationHandler.CallbackPost).Methods("POST")
	router.HandleFunc("/api/hubtel/webhook", donationHandler.Webhook).Methods("POST")
	router.HandleFunc("/api/hubtel/status/{reference}", donationHandler.Status).Methods("GET")

	router.HandleFunc("/api/volunteer", formHandler.SubmitVolunteer).Methods("POST")
	router.HandleFunc("/api/contact", formHandler.SubmitContact).Methods("POST")

	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	router.HandleFunc("/api/auth/logout", authHandler.Logout).Methods("POST")
	router.HandleFunc("/api/auth/register-admin", authHandler.RegisterAdmin).Methods("POST")
	router.HandleFunc("/api/admin/check-setup", authHandler.CheckSetup).Methods("GET")

	admin := router.PathPrefix("/api/admin").Subrouter()
	admin.Use(authHandler.RequireSession)
	admin.HandleFunc("/donations", adminHandler.ListDonations).Methods("GET")
	admin.HandleFunc("/donations", adminHandler.UpdateDonationStatus).Methods("PATCH")
	admin.HandleFunc("/volunteers", adminHandler.ListVolunteers).Methods("GET")
	admin.HandleFunc("/volunteers/region-stats", adminHandler.RegionStats).Methods("GET")
	admin.HandleFunc("/stats", adminHandler.Stats).Methods("GET")

	// Start server
	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	log.Printf("Server running on port %s", cfg.Port)
	log.Fatal(server.ListenAndServe())
}
