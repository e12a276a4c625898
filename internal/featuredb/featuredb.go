// Package featuredb is a DuckDB-backed feature source. Features are stored
// per layer with their extent in plain columns, so overlap queries stay a
// bounding-box predicate.
package featuredb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/joeblew999/plat-toolbar/internal/feature"
	"github.com/joeblew999/plat-toolbar/internal/style"
)

const schema = `CREATE TABLE IF NOT EXISTS features (
	layer      VARCHAR NOT NULL,
	id         VARCHAR NOT NULL,
	type       VARCHAR,
	minx       DOUBLE,
	miny       DOUBLE,
	maxx       DOUBLE,
	maxy       DOUBLE,
	properties VARCHAR,
	geometry   VARCHAR,
	PRIMARY KEY (layer, id)
)`

// Config holds database configuration. An empty DataDir opens an in-memory
// database.
type Config struct {
	DataDir string
	DBName  string
}

// DB is a DuckDB database holding the features of any number of layers.
type DB struct {
	db *sql.DB
}

// Layer is the feature source for one layer of a DB.
type Layer struct {
	db   *sql.DB
	name string
}

// Open opens the database and creates the features table if needed.
func Open(cfg Config) (*DB, error) {
	dsn := ""
	if cfg.DataDir != "" {
		duckdbDir := filepath.Join(cfg.DataDir, "duckdb")
		if err := os.MkdirAll(duckdbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create duckdb directory: %w", err)
		}
		name := cfg.DBName
		if name == "" {
			name = "features"
		}
		dsn = filepath.Join(duckdbDir, name+".duckdb")
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening duckdb: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Layer returns the feature source for the named layer.
func (d *DB) Layer(name string) *Layer {
	return &Layer{db: d.db, name: name}
}

// Layers returns the names of all layers holding features.
func (d *DB) Layers(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT DISTINCT layer FROM features ORDER BY layer`)
	if err != nil {
		return nil, fmt.Errorf("listing layers: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Name returns the layer name.
func (l *Layer) Name() string {
	return l.name
}

// Put inserts f, replacing any stored feature with the same id.
func (l *Layer) Put(ctx context.Context, f *feature.Feature) error {
	props, err := json.Marshal(f.Properties())
	if err != nil {
		return fmt.Errorf("encoding properties: %w", err)
	}
	geom, b, err := encodeGeometry(f.Geometry())
	if err != nil {
		return err
	}

	_, err = l.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO features VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.name, f.ID(), string(f.Type()), b.minx, b.miny, b.maxx, b.maxy, string(props), geom)
	if err != nil {
		return fmt.Errorf("storing feature %s: %w", f.ID(), err)
	}
	return nil
}

// Get loads the feature with the given id.
func (l *Layer) Get(ctx context.Context, id string) (*feature.Feature, error) {
	row := l.db.QueryRowContext(ctx,
		`SELECT id, properties, geometry FROM features WHERE layer = ? AND id = ?`, l.name, id)
	f, err := scanFeature(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", feature.ErrNotFound, id)
	}
	return f, err
}

// Len returns the number of stored features.
func (l *Layer) Len(ctx context.Context) (int, error) {
	var n int
	if err := l.db.QueryRowContext(ctx, `SELECT count(*) FROM features WHERE layer = ?`, l.name).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting features: %w", err)
	}
	return n, nil
}

// ForEachFeatureIntersectingExtent calls fn, in id order, for every stored
// feature whose extent intersects extent. Each call gets a freshly decoded
// feature; rows are read completely before fn runs.
func (l *Layer) ForEachFeatureIntersectingExtent(ctx context.Context, extent orb.Bound, fn func(*feature.Feature)) error {
	matches, err := l.query(ctx,
		`SELECT id, properties, geometry FROM features
		 WHERE layer = ? AND minx <= ? AND maxx >= ? AND miny <= ? AND maxy >= ?
		 ORDER BY id`,
		l.name, extent.Max[0], extent.Min[0], extent.Max[1], extent.Min[1])
	if err != nil {
		return fmt.Errorf("querying extent: %w", err)
	}

	for _, f := range matches {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(f)
	}
	return nil
}

// SetGeometry stores g as f's geometry, then replaces it on f itself so
// listeners registered on f are notified.
func (l *Layer) SetGeometry(ctx context.Context, f *feature.Feature, g orb.Geometry) error {
	geom, b, err := encodeGeometry(g)
	if err != nil {
		return err
	}
	res, err := l.db.ExecContext(ctx,
		`UPDATE features SET minx = ?, miny = ?, maxx = ?, maxy = ?, geometry = ? WHERE layer = ? AND id = ?`,
		b.minx, b.miny, b.maxx, b.maxy, geom, l.name, f.ID())
	if err != nil {
		return fmt.Errorf("updating feature %s: %w", f.ID(), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", feature.ErrNotFound, f.ID())
	}

	f.SetGeometry(g)
	return nil
}

// Features returns every feature of the layer in id order.
func (l *Layer) Features(ctx context.Context) ([]*feature.Feature, error) {
	features, err := l.query(ctx,
		`SELECT id, properties, geometry FROM features WHERE layer = ? ORDER BY id`, l.name)
	if err != nil {
		return nil, fmt.Errorf("listing features: %w", err)
	}
	return features, nil
}

// Delete removes the feature with the given id.
func (l *Layer) Delete(ctx context.Context, id string) error {
	res, err := l.db.ExecContext(ctx, `DELETE FROM features WHERE layer = ? AND id = ?`, l.name, id)
	if err != nil {
		return fmt.Errorf("deleting feature %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", feature.ErrNotFound, id)
	}
	return nil
}

// Drop removes every feature of the layer.
func (l *Layer) Drop(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, `DELETE FROM features WHERE layer = ?`, l.name); err != nil {
		return fmt.Errorf("dropping layer %s: %w", l.name, err)
	}
	return nil
}

func (l *Layer) query(ctx context.Context, query string, args ...any) ([]*feature.Feature, error) {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var features []*feature.Feature
	for rows.Next() {
		f, err := scanFeature(rows)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFeature(s scanner) (*feature.Feature, error) {
	var (
		id    string
		props sql.NullString
		geom  sql.NullString
	)
	if err := s.Scan(&id, &props, &geom); err != nil {
		return nil, err
	}

	var p style.Properties
	if props.Valid && props.String != "" {
		if err := json.Unmarshal([]byte(props.String), &p); err != nil {
			return nil, fmt.Errorf("decoding properties of %s: %w", id, err)
		}
	}

	var g orb.Geometry
	if geom.Valid && geom.String != "" {
		gg, err := geojson.UnmarshalGeometry([]byte(geom.String))
		if err != nil {
			return nil, fmt.Errorf("decoding geometry of %s: %w", id, err)
		}
		g = gg.Geometry()
	}
	return feature.New(id, p, g), nil
}

// bbox holds nullable bounding-box columns. A feature without geometry has
// no bbox and never matches an overlap query.
type bbox struct {
	minx, miny, maxx, maxy sql.NullFloat64
}

func encodeGeometry(g orb.Geometry) (sql.NullString, bbox, error) {
	if g == nil {
		return sql.NullString{}, bbox{}, nil
	}
	data, err := geojson.NewGeometry(g).MarshalJSON()
	if err != nil {
		return sql.NullString{}, bbox{}, fmt.Errorf("encoding geometry: %w", err)
	}
	b := g.Bound()
	return sql.NullString{String: string(data), Valid: true}, bbox{
		minx: sql.NullFloat64{Float64: b.Min[0], Valid: true},
		miny: sql.NullFloat64{Float64: b.Min[1], Valid: true},
		maxx: sql.NullFloat64{Float64: b.Max[0], Valid: true},
		maxy: sql.NullFloat64{Float64: b.Max[1], Valid: true},
	}, nil
}
