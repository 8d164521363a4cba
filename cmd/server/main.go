package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/munna7487/club-sphere-server/internal/auth"
	"github.com/munna7487/club-sphere-server/internal/config"
	"github.com/munna7487/club-sphere-server/internal/database"
	"github.com/munna7487/club-sphere-server/internal/gateway"
	"github.com/munna7487/club-sphere-server/internal/handlers"
	"github.com/munna7487/club-sphere-server/internal/notifier"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)
	defer database.Close(db)

	// Payment gateway
	stripeGateway := gateway.NewStripeGateway(cfg.StripeSecretKey)

	// Optional Discord ops notifications
	var opsNotifier notifier.Notifier
	if cfg.DiscordBotToken != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			log.Printf("Discord notifier not initialized: %v", err)
		} else {
			opsNotifier = notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID)
		}
	}

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, db)
	policy := auth.NewPolicy(db)

	h := handlers.Handlers{
		Auth:         authHandler,
		Clubs:        handlers.NewClubHandler(db, policy, opsNotifier),
		Events:       handlers.NewEventHandler(db, policy),
		Registration: handlers.NewRegistrationHandler(db),
		Checkout:     handlers.NewCheckoutHandler(db, stripeGateway, opsNotifier, cfg),
		Payments:     handlers.NewPaymentHandler(db, policy),
		Users:        handlers.NewUserHandler(db, policy),
		APIKeys:      handlers.NewAPIKeyHandler(db),
	}

	// Initialize Router
	r := chi.NewRouter()
	handlers.RegisterRoutes(r, h)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}
