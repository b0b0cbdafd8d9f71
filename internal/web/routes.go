package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/face-attendance/internal/web/handlers"
	"github.com/kozaktomas/face-attendance/internal/web/middleware"
)

func (s *Server) setupRoutes(services Services) {
	// Create handlers
	registerHandler := handlers.NewRegisterHandler(services.Registration)
	verifyHandler := handlers.NewVerifyHandler(services.Verification)
	attendanceHandler := handlers.NewAttendanceHandler(services.Attendance)

	// Health check
	s.router.Get("/", handlers.HealthCheck)

	// Reads
	s.router.Get("/get_face/{faceId}", registerHandler.GetFace)
	s.router.Get("/attendance/records", attendanceHandler.Records)
	s.router.Get("/attendance/stats", attendanceHandler.Stats)

	// Mutating endpoints carry a per-client rate limit; each request runs
	// a recognition call, which is the expensive part of the system.
	limiter := middleware.NewRateLimiter(s.config.Server.RateLimitRPS, s.config.Server.RateLimitBurst)
	s.router.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)

		r.Post("/register", registerHandler.Register)
		r.Post("/verify", verifyHandler.Verify)
		r.Post("/attendance", attendanceHandler.Mark)
	})

	// Prometheus metrics
	if s.collector != nil {
		s.router.Get("/metrics", s.collector.Handler().ServeHTTP)
	}
}
