package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/erazemk/maskarada/internal/events"
	"github.com/erazemk/maskarada/internal/model"
	"github.com/erazemk/maskarada/internal/ritual"
	"github.com/erazemk/maskarada/internal/store"
)

// Options configures the API router. Log, Events and Gate fall back to
// harmless defaults when nil.
type Options struct {
	DB           *sql.DB
	JWTSecret    string
	Log          *zap.Logger
	Events       events.Publisher
	Gate         *ritual.Gate
	CouponEffect store.CouponEffect
	CORSOrigins  []string
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(opts Options) http.Handler {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Events == nil {
		opts.Events = events.Nop{}
	}
	if opts.Gate == nil {
		opts.Gate = &ritual.Gate{DB: opts.DB, Config: ritual.DefaultConfig()}
	}

	b := base{DB: opts.DB, Log: opts.Log, Events: opts.Events}
	authHandler := &AuthHandler{base: b, JWTSecret: opts.JWTSecret}
	usersHandler := &UsersHandler{base: b}
	charactersHandler := &CharactersHandler{base: b}
	econHandler := &EconHandler{base: b}
	companiesHandler := &CompaniesHandler{base: b}
	containersHandler := &ContainersHandler{base: b}
	itemsHandler := &ItemsHandler{base: b}
	utilHandler := &UtilHandler{base: b, Gate: opts.Gate, CouponEffect: opts.CouponEffect}

	requireAdmin := RequireRole(model.RoleAdmin)
	requireStoryteller := RequireRole(model.RoleStoryteller)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(opts.Log))
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Public: login.
	r.Post("/api/auth/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(opts.JWTSecret, opts.DB, opts.Log))

		r.Put("/api/auth/password", authHandler.ChangePassword)
		r.Post("/api/auth/logout", authHandler.Logout)

		// Users (admin only).
		r.Route("/api/users", func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/", usersHandler.List)
			r.Post("/", usersHandler.Create)
			r.Get("/{id}", usersHandler.Get)
			r.Put("/{id}", usersHandler.Update)
			r.Put("/{id}/password", usersHandler.ResetPassword)
			r.Delete("/{id}", usersHandler.Delete)
		})

		// Characters: sheets are read by their players, written by storytellers.
		r.Route("/api/characters", func(r chi.Router) {
			r.Get("/", charactersHandler.List)
			r.Get("/{id}", charactersHandler.Get)
			r.Get("/{id}/accounts", charactersHandler.Accounts)
			r.Get("/{id}/items", charactersHandler.Items)
			r.Get("/{id}/portrait", charactersHandler.Portrait)

			r.Group(func(r chi.Router) {
				r.Use(requireStoryteller)
				r.Post("/", charactersHandler.Create)
				r.Put("/{id}", charactersHandler.Update)
				r.Put("/{id}/player", charactersHandler.Assign)
				r.Delete("/{id}", charactersHandler.Delete)
				r.Post("/{id}/traits", charactersHandler.AddTrait)
				r.Delete("/{id}/traits", charactersHandler.RemoveTrait)
			})
		})

		// Bank.
		r.Route("/api/econ", func(r chi.Router) {
			r.Post("/transfer", econHandler.Transfer)
			r.Get("/accounts/{id}", econHandler.GetAccount)
			r.Get("/accounts/{id}/transactions", econHandler.AccountTransactions)

			r.Group(func(r chi.Router) {
				r.Use(requireStoryteller)
				r.Post("/credit", econHandler.Credit)
				r.Post("/accounts", econHandler.CreateAccount)
				r.Get("/transactions", econHandler.ListTransactions)
			})
		})

		// Companies: read (all roles), write (storyteller+).
		r.Route("/api/companies", func(r chi.Router) {
			r.Get("/", companiesHandler.List)
			r.Get("/{id}", companiesHandler.Get)
			r.With(requireStoryteller).Post("/", companiesHandler.Create)
			r.With(requireStoryteller).Put("/{id}", companiesHandler.Update)
		})

		// Containers: read (all roles), write (storyteller+).
		r.Route("/api/containers", func(r chi.Router) {
			r.Get("/", containersHandler.List)
			r.Get("/{id}", containersHandler.Get)
			r.With(requireStoryteller).Post("/", containersHandler.Create)
			r.With(requireStoryteller).Put("/{id}", containersHandler.Update)
			r.With(requireStoryteller).Delete("/{id}", containersHandler.Delete)
		})

		// Items: custody moves (all roles), catalogue (storyteller+).
		r.Route("/api/items", func(r chi.Router) {
			r.Post("/take", itemsHandler.Take)
			r.Post("/put", itemsHandler.Put)
			r.Post("/give", itemsHandler.Give)
			r.Get("/{id}", itemsHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireStoryteller)
				r.Post("/", itemsHandler.Create)
				r.Put("/{id}", itemsHandler.Update)
				r.Delete("/{id}", itemsHandler.Delete)
				r.Get("/{id}/history", itemsHandler.History)
			})
		})
		r.Get("/api/item-types", itemsHandler.ListTypes)
		r.With(requireStoryteller).Post("/api/item-types", itemsHandler.CreateType)

		// Coupons and the heart of the city.
		r.Route("/api/util", func(r chi.Router) {
			r.Post("/coupon", utilHandler.ApplyCoupon)
			r.Get("/heart", utilHandler.GetHeart)
			r.Post("/heart", utilHandler.SetHeart)
			r.With(requireStoryteller).Get("/rites", utilHandler.Rites)
		})

		r.Route("/api/coupons", func(r chi.Router) {
			r.Use(requireStoryteller)
			r.Get("/", utilHandler.ListCoupons)
			r.Post("/", utilHandler.CreateCoupon)
			r.Get("/{id}/redemptions", utilHandler.Redemptions)
		})
	})

	return r
}
