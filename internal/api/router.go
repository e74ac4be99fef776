package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/handlers"
	custommiddleware "github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/middleware"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/config"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/service"
)

// Services bundles the service dependencies the router wires into handlers.
type Services struct {
	System       *service.SystemService
	Property     *service.PropertyService
	Statement    *service.StatementService
	Distribution *service.DistributionService
	Investment   *service.InvestmentService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		propertyHandler := handlers.NewPropertyHandler(svc.Property, svc.Statement)
		investmentHandler := handlers.NewInvestmentHandler(svc.Investment)
		statementHandler := handlers.NewStatementHandler(svc.Statement)
		distributionHandler := handlers.NewDistributionHandler(svc.Distribution)
		payoutHandler := handlers.NewPayoutHandler(svc.Distribution)
		userHandler := handlers.NewUserHandler(svc.Distribution)

		r.Route("/property", func(r chi.Router) {
			r.Get("/", propertyHandler.GetAllProperties)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(custommiddleware.AdminKeyMiddleware)
				r.Post("/", propertyHandler.CreateProperty)
				r.Post("/refresh-available-shares", propertyHandler.RefreshAvailableShares)
			})

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", propertyHandler.GetProperty)
				r.Get("/statements", propertyHandler.GetPropertyStatements)
				r.Get("/investments", investmentHandler.GetPropertyInvestments)
			})
		})

		r.Route("/investment", func(r chi.Router) {
			r.Post("/", investmentHandler.CreateInvestment)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", investmentHandler.GetInvestment)
				r.Post("/confirm", investmentHandler.Confirm)
				r.Post("/cancel", investmentHandler.Cancel)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(custommiddleware.AdminKeyMiddleware)
					r.Delete("/", investmentHandler.Delete)
				})
			})
		})

		r.Route("/statement", func(r chi.Router) {
			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(custommiddleware.AdminKeyMiddleware)
				r.Post("/", statementHandler.CreateStatement)
			})

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", statementHandler.GetStatement)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(custommiddleware.AdminKeyMiddleware)
					r.Put("/", statementHandler.UpdateStatement)
				})
			})
		})

		r.Route("/distribution", func(r chi.Router) {
			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(custommiddleware.AdminKeyMiddleware)
				r.Post("/", distributionHandler.CreateDistribution)
			})

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", distributionHandler.GetDistribution)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(custommiddleware.AdminKeyMiddleware)
					r.Post("/submit", distributionHandler.Submit)
					r.Post("/approve", distributionHandler.Approve)
					r.Post("/reject", distributionHandler.Reject)
					r.Post("/declare", distributionHandler.Declare)
					r.Post("/fix-unsold-shares", distributionHandler.FixUnsoldShares)
					r.Delete("/", distributionHandler.Delete)
				})
			})
		})

		// Admin only
		r.Route("/payout", func(r chi.Router) {
			r.Use(custommiddleware.AdminKeyMiddleware)
			r.Post("/import", payoutHandler.ImportPayoutUpdates)
		})

		r.Route("/user/{uuid}", func(r chi.Router) {
			r.Use(custommiddleware.ValidateUUIDMiddleware)
			r.Get("/distributions/monthly", userHandler.MonthlyDistributions)
			r.Get("/property/{propertyUuid}/distributions", userHandler.PropertyDistributions)
		})
	})

	return r
}
