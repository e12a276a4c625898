package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/joeblew999/plat-toolbar/internal/api"
	"github.com/joeblew999/plat-toolbar/internal/api/editor"
	"github.com/joeblew999/plat-toolbar/internal/config"
	"github.com/joeblew999/plat-toolbar/internal/featuredb"
	"github.com/joeblew999/plat-toolbar/internal/logging"
	"github.com/joeblew999/plat-toolbar/internal/service"
	"github.com/joeblew999/plat-toolbar/internal/style"
	"github.com/joeblew999/plat-toolbar/internal/templates"
)

// Config holds the server configuration.
type Config struct {
	Host    string
	Port    string
	DataDir string // empty keeps everything in memory
	// Settings is the settings file. Defaults to DataDir/settings.yaml.
	Settings string
	Logger   *log.Logger
}

// Server is the toolbar HTTP server.
type Server struct {
	config   Config
	mux      *http.ServeMux
	humaAPI  huma.API
	db       *featuredb.DB
	services *api.Services
	renderer *templates.Renderer
	logger   *log.Logger
}

// New creates a new toolbar server.
func New(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	mux := http.NewServeMux()

	// Create Huma API with humago (pure stdlib) adapter
	humaConfig := huma.DefaultConfig("plat-toolbar API", api.Version)
	humaConfig.Info.Description = "Map toolbar API: draw layers, intersection cuts, feature styles and glyphs."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	// Disable $schema property in responses (cleaner JSON)
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}
	humaConfig.Transformers = append(humaConfig.Transformers, api.LinkTransformer())

	humaAPI := humago.New(mux, humaConfig)

	settingsPath := cfg.Settings
	if settingsPath == "" && cfg.DataDir != "" {
		settingsPath = filepath.Join(cfg.DataDir, "settings.yaml")
	}
	settings, err := config.NewStore(settingsPath)
	if err != nil {
		return nil, err
	}

	renderer, err := templates.New()
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	s := &Server{
		config:   cfg,
		mux:      mux,
		humaAPI:  humaAPI,
		renderer: renderer,
		logger:   logger,
	}

	// Persistent layers need DuckDB; without it the server still runs with
	// in-memory layers only.
	conn, err := featuredb.Open(featuredb.Config{DataDir: cfg.DataDir, DBName: "toolbar"})
	if err != nil {
		logger.Warn("feature database unavailable", "err", err)
	} else {
		s.db = conn
	}

	bus := service.NewEventBus()
	layerOpts := []service.Option{service.WithBus(bus), service.WithLogger(logger)}
	if s.db != nil {
		layerOpts = append(layerOpts, service.WithDatabase(s.db))
	}

	s.services = &api.Services{
		Layer:    service.NewLayerService(cfg.DataDir, layerOpts...),
		Settings: settings,
		Styles:   style.Init(settings.Get().Gate(), style.WithLogger(logger)),
		Bus:      bus,
	}
	settings.Subscribe(s.settingsChanged)

	s.routes()
	return s, nil
}

// settingsChanged re-gates the style cache. A theme switch invalidates
// every cached colour, so it clears the cache outright.
func (s *Server) settingsChanged(old, current config.Settings) {
	styles := s.services.Styles
	if old.Theme != current.Theme {
		styles.Clear()
	}
	styles.SetGate(current.Gate())
	s.logger.Info("settings updated", "theme", current.Theme,
		"labels", current.Labels.Enabled, "intersection", current.Intersection.Enabled)
	s.services.Bus.Publish(service.Event{Resource: service.ResourceSettings, Action: service.ActionUpdated})
}

// ServeHTTP implements http.Handler. Requests carry the server logger in
// their context.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r.WithContext(logging.WithLogger(r.Context(), s.logger)))
}

// OpenAPI returns the generated OpenAPI document.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

// Services returns the services behind the API.
func (s *Server) Services() *api.Services {
	return s.services
}

// Close closes server resources.
func (s *Server) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Server) routes() {
	// Register Huma REST API routes (OpenAPI-documented JSON endpoints)
	api.RegisterRoutes(s.humaAPI, s.services)
	api.NewInfoHandler(s.config.DataDir, s.db != nil).RegisterRoutes(s.humaAPI)

	// Register Editor SSE routes using Huma + Datastar SDK
	editor.NewEventHandler(s.services.Bus, s.services.Layer, s.renderer).RegisterRoutes(s.humaAPI)
	editor.NewDrawHandler(s.services.Layer, s.services.Settings, s.renderer).RegisterRoutes(s.humaAPI)

	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service": "plat-toolbar",
		"status":  "running",
	})
}
