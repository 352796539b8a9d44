package server

import (
	"log"

	"maumjari-counsel-be/internal/bootstrap"
	"maumjari-counsel-be/internal/config"
	"maumjari-counsel-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB, room for knowledge documents
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.App.CorsAllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept",
		AllowMethods:  "GET, POST, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Type",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware(container.Logger))

	// Routes
	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("[INFO] Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

type routeRegistrar interface {
	RegisterRoutes(r fiber.Router)
}

// registerRoutes mounts every route at the root and again under /api.
func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	registrars := []routeRegistrar{
		c.CounselingController,
		c.ReportController,
		c.HistoryController,
		c.ChatHandler,
	}
	if c.KnowledgeController != nil {
		registrars = append(registrars, c.KnowledgeController)
	}

	api := app.Group("/api")
	for _, r := range registrars {
		r.RegisterRoutes(app)
		r.RegisterRoutes(api)
	}
}
