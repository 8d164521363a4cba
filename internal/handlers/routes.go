package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/munna7487/club-sphere-server/internal/auth"
)

type Handlers struct {
	Auth         *auth.AuthHandler
	Clubs        *ClubHandler
	Events       *EventHandler
	Registration *RegistrationHandler
	Checkout     *CheckoutHandler
	Payments     *PaymentHandler
	Users        *UserHandler
	APIKeys      *APIKeyHandler
}

func RegisterRoutes(r *chi.Mux, h Handlers) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Resolve credentials for every route; operations requiring an identity
	// enforce it themselves.
	r.Use(h.Auth.AuthMiddleware)

	// Initialize Huma API
	config := huma.DefaultConfig("Club Sphere API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: "auth_token",
		},
		"apiKeyAuth": {
			Type: "apiKey",
			In:   "header",
			Name: "X-API-KEY",
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Auth routes
	r.Get("/auth/google/login", h.Auth.HandleLogin)
	r.Get("/auth/google/callback", h.Auth.HandleCallback)

	secured := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}, {"apiKeyAuth": {}}}
	}

	huma.Get(api, "/me", h.Auth.HandleMe, secured)

	// Clubs
	huma.Post(api, "/clubs", h.Clubs.HandleCreateClub, secured)
	huma.Get(api, "/clubs", h.Clubs.HandleListClubs)
	huma.Get(api, "/clubs/{id}", h.Clubs.HandleGetClub)
	huma.Delete(api, "/clubs/{id}", h.Clubs.HandleDeleteClub, secured)

	// Admin moderation
	huma.Patch(api, "/admin/clubs/approve/{id}", h.Clubs.HandleApproveClub, secured)
	huma.Delete(api, "/admin/clubs/reject/{id}", h.Clubs.HandleRejectClub, secured)
	huma.Get(api, "/admin/clubs/paid", h.Clubs.HandleListPaidClubs, secured)
	huma.Get(api, "/admin/users", h.Users.HandleListUsers, secured)
	huma.Patch(api, "/admin/users/{id}/role", h.Users.HandleChangeRole, secured)

	// Events
	huma.Post(api, "/events", h.Events.HandleCreateEvent, secured)
	huma.Get(api, "/events", h.Events.HandleListEvents)
	huma.Get(api, "/events/{id}", h.Events.HandleGetEvent)
	huma.Delete(api, "/events/{id}", h.Events.HandleDeleteEvent, secured)
	huma.Post(api, "/event-register-free", h.Registration.HandleRegisterFree, secured)

	// Checkout & reconciliation
	huma.Post(api, "/create-club-checkout-session", h.Checkout.HandleCreateClubCheckout)
	huma.Patch(api, "/club-payment-success", h.Checkout.HandleClubPaymentSuccess)
	huma.Post(api, "/create-event-payment", h.Checkout.HandleCreateEventCheckout, secured)
	huma.Patch(api, "/event-payment-success", h.Checkout.HandleEventPaymentSuccess, secured)

	// Ledger
	huma.Get(api, "/payments", h.Payments.HandleListPayments, secured)

	// API keys
	huma.Post(api, "/api-keys", h.APIKeys.HandleCreate, secured)
	huma.Get(api, "/api-keys", h.APIKeys.HandleList, secured)
	huma.Delete(api, "/api-keys/{id}", h.APIKeys.HandleDelete, secured)
}
