package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"timeshare/internal/access"
	"timeshare/internal/admin"
	"timeshare/internal/api"
	"timeshare/internal/booking"
	"timeshare/internal/dashboard"
	"timeshare/internal/feedback"
	"timeshare/internal/inventory"
	"timeshare/internal/listing"
	"timeshare/internal/offer"
	"timeshare/internal/portal"
	"timeshare/internal/pricing"
	"timeshare/internal/profile"
	"timeshare/internal/review"
	"timeshare/pkg/config"
)

type Dependencies struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Logger *slog.Logger

	// Mailer relays feedback reports.
	Mailer feedback.Mailer
	// Hotels answers hotel price lookups; PriceCache is optional.
	Hotels     pricing.HotelSearcher
	PriceCache pricing.Cache
}

func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	expose := !deps.Cfg.IsProd()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           600,
	}))
	r.Use(api.RequestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	profiles := profile.NewRepository(deps.DB)
	listings := listing.NewRepository(deps.DB)
	templates := inventory.NewRepository(deps.DB)
	portals := portal.NewRepository(deps.DB)
	offers := offer.NewRepository(deps.DB)
	bookings := booking.NewRepository(deps.DB)
	reviews := review.NewRepository(deps.DB)

	listingHandlers := listing.Handlers{
		Listings:     listings,
		Inventory:    templates,
		Portals:      portals,
		Profiles:     profiles,
		Logger:       logger,
		ExposeErrors: expose,
	}
	inventoryHandlers := inventory.Handlers{Templates: templates, Logger: logger, ExposeErrors: expose}
	portalHandlers := portal.Handlers{Portals: portals, Logger: logger, ExposeErrors: expose}
	offerHandlers := offer.Handlers{Offers: offers, Logger: logger, ExposeErrors: expose}
	bookingHandlers := booking.Handlers{
		DB:           deps.DB,
		Bookings:     bookings,
		Workflow:     &booking.Workflow{DB: deps.DB},
		Reviews:      reviews,
		Logger:       logger,
		ExposeErrors: expose,
	}
	reviewHandlers := review.Handlers{Bookings: bookings, Reviews: reviews, Logger: logger, ExposeErrors: expose}
	dashboardHandlers := dashboard.Handlers{
		Listings:     listings,
		Offers:       offers,
		Bookings:     bookings,
		Reviews:      reviews,
		Logger:       logger,
		ExposeErrors: expose,
	}
	adminHandlers := admin.Handlers{
		DB:           deps.DB,
		Bookings:     bookings,
		Lifecycle:    bookingHandlers,
		Profiles:     profiles,
		Logger:       logger,
		ExposeErrors: expose,
	}

	// Public JSON APIs used by the web app. These sit outside the page gate.
	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/feedback", feedback.Handler{
			Mailer: deps.Mailer,
			Config: deps.Cfg.Feedback,
			Logger: logger,
		})
		r.Method(http.MethodPost, "/hotel-pricing", pricing.Handler{
			Upstream: deps.Hotels,
			Cache:    deps.PriceCache,
			CacheTTL: deps.Cfg.Pricing.CacheTTL,
			Logger:   logger,
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(api.SessionAuth(deps.Cfg.Supabase, profiles, logger))
		r.Use(access.Gate)

		r.Get(access.LoginPath, sessionInfo)

		r.Get("/search", listingHandlers.Search)
		r.Get("/destinations", listingHandlers.Destinations)
		r.Get("/portals", portalHandlers.List)

		r.Post("/listings/new", listingHandlers.Create)
		r.Get("/listings/{id}", listingHandlers.Detail)
		r.Post("/listings/{id}/requests", offerHandlers.Request)

		r.Get("/dashboard", dashboardHandlers.Owner)
		r.Patch("/dashboard/listings/{id}/active", listingHandlers.SetActive)

		r.Get("/offers", offerHandlers.OwnerList)
		r.Post("/offers/{id}/accept", offerHandlers.Accept)
		r.Post("/offers/{id}/decline", offerHandlers.Decline)

		r.Get("/inventory", inventoryHandlers.List)
		r.Post("/inventory", inventoryHandlers.Create)
		r.Delete("/inventory/{id}", inventoryHandlers.Delete)

		r.Get("/trips", offerHandlers.Trips)

		r.Route("/bookings/{id}", func(r chi.Router) {
			r.Get("/", bookingHandlers.Detail)
			r.Post("/pay-first", bookingHandlers.PayFirst)
			r.Post("/pay-final", bookingHandlers.PayFinal)
			r.Post("/proof", bookingHandlers.SubmitProof)
			r.Post("/cancel", bookingHandlers.Cancel)
			r.Post("/reviews/user", reviewHandlers.CreateUserReview)
			r.Post("/reviews/resort", reviewHandlers.CreateResortReview)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/", adminHandlers.ListBookings)
			r.Get("/bookings", adminHandlers.ListBookings)
			r.Post("/bookings/{id}/verify", adminHandlers.VerifyBooking)
			r.Post("/bookings/{id}/refund", adminHandlers.RefundBooking)
			r.Get("/users", adminHandlers.ListUsers)
			r.Post("/users/{id}/status", adminHandlers.SetUserStatus)
			r.Get("/actions", adminHandlers.ListActions)
		})
	})

	return r
}

type sessionResponse struct {
	Authenticated bool                  `json:"authenticated"`
	UserID        string                `json:"userId,omitempty"`
	Role          profile.Role          `json:"role,omitempty"`
	AccountStatus profile.AccountStatus `json:"accountStatus,omitempty"`
	Blocked       string                `json:"blocked,omitempty"`
	Next          string                `json:"next,omitempty"`
	ServerTime    time.Time             `json:"serverTime"`
}

// sessionInfo backs the login page. The gate has already redirected anyone with a usable role,
// so this only answers for anonymous, role-less and blocked sessions.
func sessionInfo(w http.ResponseWriter, r *http.Request) {
	id := api.IdentityFromContext(r.Context())
	api.WriteJSON(w, http.StatusOK, sessionResponse{
		Authenticated: id.Authenticated(),
		UserID:        id.UserID,
		Role:          id.Role(),
		AccountStatus: id.AccountStatus(),
		Blocked:       r.URL.Query().Get("blocked"),
		Next:          r.URL.Query().Get("next"),
		ServerTime:    time.Now().UTC(),
	})
}
