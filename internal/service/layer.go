package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-toolbar/internal/feature"
	"github.com/joeblew999/plat-toolbar/internal/featuredb"
	"github.com/joeblew999/plat-toolbar/internal/logging"
	"github.com/joeblew999/plat-toolbar/internal/topology"
)

var (
	ErrLayerNotFound = errors.New("layer not found")
	ErrLayerExists   = errors.New("layer already exists")
	ErrNoDatabase    = errors.New("persistent layers need a database")
)

// LayerService manages draw layers and the features drawn on them.
type LayerService struct {
	dataDir string
	db      *featuredb.DB
	editor  *topology.Editor
	bus     *EventBus
	logger  *log.Logger

	mu      sync.RWMutex
	layers  map[string]LayerConfig
	sources map[string]FeatureSource
}

// Option configures a LayerService.
type Option func(*LayerService)

// WithDatabase backs persistent layers with db.
func WithDatabase(db *featuredb.DB) Option {
	return func(s *LayerService) { s.db = db }
}

// WithBus sets the bus edit events are published on.
func WithBus(b *EventBus) Option {
	return func(s *LayerService) { s.bus = b }
}

// WithLogger sets the service logger.
func WithLogger(l *log.Logger) Option {
	return func(s *LayerService) { s.logger = l }
}

// NewLayerService creates a layer service. Layer configurations are kept in
// dataDir/layers.json; an empty dataDir keeps them in memory only.
func NewLayerService(dataDir string, opts ...Option) *LayerService {
	s := &LayerService{
		dataDir: dataDir,
		bus:     DefaultBus,
		logger:  log.Default(),
		layers:  make(map[string]LayerConfig),
		sources: make(map[string]FeatureSource),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.editor = topology.NewEditor(topology.WithLogger(s.logger))
	s.loadFromDisk()
	return s
}

// List returns all layers sorted by ID.
func (s *LayerService) List(ctx context.Context) ([]LayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]LayerInfo, 0, len(s.layers))
	for id, cfg := range s.layers {
		features, err := s.sources[id].Features(ctx)
		if err != nil {
			return nil, fmt.Errorf("layer %s: %w", id, err)
		}
		result = append(result, LayerInfo{LayerConfig: cfg, Features: len(features)})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Get returns a layer by ID.
func (s *LayerService) Get(id string) (LayerConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	layer, ok := s.layers[id]
	return layer, ok
}

// Create adds a new layer.
func (s *LayerService) Create(layer LayerConfig) (LayerConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Generate ID from name if not provided
	if layer.ID == "" {
		layer.ID = generateID(layer.Name)
	}
	if layer.ID == "" {
		return LayerConfig{}, fmt.Errorf("layer name %q yields an empty id", layer.Name)
	}
	if _, exists := s.layers[layer.ID]; exists {
		return LayerConfig{}, fmt.Errorf("%w: %s", ErrLayerExists, layer.ID)
	}

	src, err := s.newSource(layer)
	if err != nil {
		return LayerConfig{}, err
	}
	s.layers[layer.ID] = layer
	s.sources[layer.ID] = src
	if err := s.saveToDisk(); err != nil {
		delete(s.layers, layer.ID)
		delete(s.sources, layer.ID)
		return LayerConfig{}, err
	}

	s.bus.Publish(Event{Resource: ResourceLayers, Action: ActionCreated, ID: layer.ID})
	return layer, nil
}

// Delete removes a layer and its features.
func (s *LayerService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	layer, exists := s.layers[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	if layer.Persistent && s.db != nil {
		if err := s.db.Layer(id).Drop(ctx); err != nil {
			return err
		}
	}

	delete(s.layers, id)
	delete(s.sources, id)
	if err := s.saveToDisk(); err != nil {
		return err
	}
	s.bus.Publish(Event{Resource: ResourceLayers, Action: ActionDeleted, ID: id})
	return nil
}

// Source returns the feature source of a layer.
func (s *LayerService) Source(id string) (FeatureSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src, ok := s.sources[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	return src, nil
}

// Features returns the features of a layer.
func (s *LayerService) Features(ctx context.Context, layerID string) ([]*feature.Feature, error) {
	src, err := s.Source(layerID)
	if err != nil {
		return nil, err
	}
	return src.Features(ctx)
}

// AddFeature stores f in a layer.
func (s *LayerService) AddFeature(ctx context.Context, layerID string, f *feature.Feature) error {
	src, err := s.Source(layerID)
	if err != nil {
		return err
	}
	if err := src.Put(ctx, f); err != nil {
		return err
	}
	s.bus.Publish(Event{Resource: ResourceFeatures, Action: ActionCreated, ID: f.ID(), Layer: layerID})
	return nil
}

// RemoveFeature deletes a feature from a layer.
func (s *LayerService) RemoveFeature(ctx context.Context, layerID, id string) error {
	src, err := s.Source(layerID)
	if err != nil {
		return err
	}
	if err := src.Delete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(Event{Resource: ResourceFeatures, Action: ActionDeleted, ID: id, Layer: layerID})
	return nil
}

// Cut inserts the outline of drawn as a hole into the eligible features of
// a layer it overlaps. Features listed in exclude are left alone.
func (s *LayerService) Cut(ctx context.Context, layerID string, drawn orb.Geometry, exclude ...string) (*topology.Result, error) {
	src, err := s.Source(layerID)
	if err != nil {
		return nil, err
	}

	timer := logging.Start(logging.FromContext(ctx))
	res, err := s.editor.ApplyIntersectionCut(ctx, drawn, src, topology.Exclude(exclude...))
	if err != nil {
		return nil, err
	}
	timer.Done("intersection cut", "layer", layerID, "edited", len(res.Edited), "failed", len(res.Failed))

	for _, f := range res.Edited {
		s.bus.Publish(Event{Resource: ResourceFeatures, Action: ActionCut, ID: f.ID(), Layer: layerID})
	}
	return res, nil
}

func (s *LayerService) newSource(layer LayerConfig) (FeatureSource, error) {
	if !layer.Persistent {
		return newMemorySource(), nil
	}
	if s.db == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoDatabase, layer.ID)
	}
	return s.db.Layer(layer.ID), nil
}

// configFile returns the path to the layers config file.
func (s *LayerService) configFile() string {
	return filepath.Join(s.dataDir, "layers.json")
}

// loadFromDisk loads layer configurations from disk. Persistent layers get
// their features back from the database; the others start empty.
func (s *LayerService) loadFromDisk() {
	if s.dataDir == "" {
		return
	}
	data, err := os.ReadFile(s.configFile())
	if err != nil {
		return // File doesn't exist yet, start empty
	}

	var layers map[string]LayerConfig
	if err := json.Unmarshal(data, &layers); err != nil {
		s.logger.Warn("ignoring layer config", "file", s.configFile(), "err", err)
		return
	}

	for id, layer := range layers {
		src, err := s.newSource(layer)
		if err != nil {
			s.logger.Warn("skipping layer", "layer", id, "err", err)
			continue
		}
		s.layers[id] = layer
		s.sources[id] = src
	}
}

// saveToDisk persists layer configurations to disk.
func (s *LayerService) saveToDisk() error {
	if s.dataDir == "" {
		return nil
	}
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s.layers, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.configFile(), data, 0644)
}

// generateID creates a URL-safe ID from a name.
func generateID(name string) string {
	id := strings.ToLower(name)
	id = strings.ReplaceAll(id, " ", "_")
	// Remove any characters that aren't alphanumeric or underscore
	var result strings.Builder
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			result.WriteRune(r)
		}
	}
	return result.String()
}
