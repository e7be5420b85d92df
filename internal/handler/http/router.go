package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/timesheet-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/jwt"
)

type RouterConfig struct {
	Env         string
	Version     string
	LogLevel    slog.Level
	CORSOrigins []string
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, authHandler AuthHandler, timesheetHandler TimesheetHandler, requestHandler RequestHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env == "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timesheet"),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	r.Use(middleware.Language)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService))
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/timesheet", func(r chi.Router) {
				r.Get("/weeks/{week}/users/{username}", timesheetHandler.GetUserWeek)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/weeks/{week}", timesheetHandler.GetWeeklyDashboard)
					r.Get("/weeks/{week}/export", timesheetHandler.ExportWeek)
					r.Put("/users/{username}/days/{date}", timesheetHandler.EditDay)
					r.Put("/users/{username}/schedule", timesheetHandler.UpdateSchedule)
				})
			})

			r.Route("/requests", func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Route("/vacations", func(r chi.Router) {
					r.Get("/", requestHandler.ListVacations)
					r.Get("/{id}", requestHandler.GetVacation)
					r.Post("/{id}/approve", requestHandler.ApproveVacation)
					r.Post("/{id}/deny", requestHandler.DenyVacation)
				})

				r.Route("/corrections", func(r chi.Router) {
					r.Get("/", requestHandler.ListCorrections)
					r.Get("/{id}", requestHandler.GetCorrection)
					r.Post("/{id}/approve", requestHandler.ApproveCorrection)
					r.Post("/{id}/deny", requestHandler.DenyCorrection)
				})
			})
		})
	})
	return r
}
