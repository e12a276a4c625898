package style

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/joeblew999/plat-toolbar/internal/glyph"
)

// Label placement relative to the feature anchor, in pixels.
const (
	MarkerLabelOffsetY   = -30
	WindBarbLabelOffsetY = 30
)

// FallbackIcon is drawn when a marker names an icon the synthesizer does not
// know.
const FallbackIcon = "circle"

const ellipsis = "..."

// Cache memoizes style layers by the attribute values that affect their
// appearance. Entries are never invalidated individually; Clear drops them
// all.
type Cache struct {
	mu      sync.Mutex
	gate    Gate
	icons   map[string]*IconLayer
	circles map[string]*CircleLayer
	labels  map[string]*LabelLayer
	styles  map[string]*Style
	hits    uint64
	misses  uint64
	upper   cases.Caser
	logger  *log.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for cache lifecycle messages.
func WithLogger(l *log.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// NewCache creates an empty cache gated by g.
func NewCache(g Gate, opts ...Option) *Cache {
	c := &Cache{
		gate:   g,
		upper:  cases.Upper(language.Und),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.reset()
	return c
}

func (c *Cache) reset() {
	c.icons = make(map[string]*IconLayer)
	c.circles = make(map[string]*CircleLayer)
	c.labels = make(map[string]*LabelLayer)
	c.styles = make(map[string]*Style)
}

// Gate returns the label gate currently applied.
func (c *Cache) Gate() Gate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gate
}

// SetGate replaces the label gate. Any change clears the cache, since cached
// styles were built under the old gate.
func (c *Cache) SetGate(g Gate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if g == c.gate {
		return
	}
	c.gate = g
	c.clear()
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clear()
}

func (c *Cache) clear() {
	n := c.size()
	c.reset()
	c.logger.Debug("style cache cleared", "layers", n)
}

// Size returns the number of distinct cached layers, not styles. The first
// Resolve of a new marker can add up to three: icon, circle and label. See
// Stats.Styles for the number of cached styles.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size()
}

func (c *Cache) size() int {
	return len(c.icons) + len(c.circles) + len(c.labels)
}

// Stats is a snapshot of cache usage.
type Stats struct {
	Layers int    `json:"layers" doc:"Distinct cached layers"`
	Styles int    `json:"styles" doc:"Distinct cached layer lists"`
	Hits   uint64 `json:"hits" doc:"Resolve calls served from the cache"`
	Misses uint64 `json:"misses" doc:"Resolve calls that built a new layer list"`
}

// Stats returns current usage counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Layers: c.size(),
		Styles: len(c.styles),
		Hits:   c.hits,
		Misses: c.misses,
	}
}

// IconLayer returns the icon layer for the given attributes, creating it on
// first use. glyphSVG is treated as an opaque key component.
func (c *Cache) IconLayer(key string, rotation, width, height float64, fill, stroke string, strokeWidth float64, glyphSVG string) *IconLayer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.iconLayer(key, rotation, width, height, fill, stroke, strokeWidth, glyphSVG)
}

func (c *Cache) iconLayer(key string, rotation, width, height float64, fill, stroke string, strokeWidth float64, glyphSVG string) *IconLayer {
	k := iconKey(key, rotation, width, height, fill, stroke, strokeWidth, glyphSVG)
	if l, ok := c.icons[k]; ok {
		return l
	}
	l := &IconLayer{
		Key:         key,
		Rotation:    rotation,
		Width:       width,
		Height:      height,
		Fill:        fill,
		Stroke:      stroke,
		StrokeWidth: strokeWidth,
		Glyph:       glyphSVG,
	}
	c.icons[k] = l
	return l
}

// CircleLayer returns the marker background layer for the given attributes,
// creating it on first use.
func (c *Cache) CircleLayer(radius, strokeWidth float64, fill, stroke string) *CircleLayer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.circleLayer(radius, strokeWidth, fill, stroke)
}

func (c *Cache) circleLayer(radius, strokeWidth float64, fill, stroke string) *CircleLayer {
	k := circleKey(radius, strokeWidth, fill, stroke)
	if l, ok := c.circles[k]; ok {
		return l
	}
	l := &CircleLayer{Radius: radius, StrokeWidth: strokeWidth, Fill: fill, Stroke: stroke}
	c.circles[k] = l
	return l
}

// LabelLayer returns the label layer for the given attributes, creating it
// on first use. The upper-case and ellipsis transforms are applied to text
// before it becomes part of the key, so raw texts that render the same share
// one layer.
func (c *Cache) LabelLayer(text string, offsetY float64, upper bool, ellipsisAfter int, font, fill, stroke string, strokeWidth float64) *LabelLayer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.labelLayer(text, offsetY, upper, ellipsisAfter, font, fill, stroke, strokeWidth)
}

func (c *Cache) labelLayer(text string, offsetY float64, upper bool, ellipsisAfter int, font, fill, stroke string, strokeWidth float64) *LabelLayer {
	text = c.transformText(text, upper, ellipsisAfter)
	k := labelKey(text, offsetY, font, fill, stroke, strokeWidth)
	if l, ok := c.labels[k]; ok {
		return l
	}
	l := &LabelLayer{
		Text:        text,
		OffsetY:     offsetY,
		Font:        font,
		Fill:        fill,
		Stroke:      stroke,
		StrokeWidth: strokeWidth,
	}
	c.labels[k] = l
	return l
}

func (c *Cache) transformText(text string, upper bool, ellipsisAfter int) string {
	if upper {
		text = c.upper.String(text)
	}
	if ellipsisAfter > 0 {
		if r := []rune(text); len(r) > ellipsisAfter {
			text = string(r[:ellipsisAfter]) + ellipsis
		}
	}
	return text
}

// windBarbLabelOffset places the label on the side away from the barb's
// tail. Rotations in [90, 270] turn the tail downwards.
func windBarbLabelOffset(rotation float64) float64 {
	r := math.Mod(rotation, 360)
	if r < 0 {
		r += 360
	}
	if r >= 90 && r <= 270 {
		return -WindBarbLabelOffsetY
	}
	return WindBarbLabelOffsetY
}

func (c *Cache) synthesize(key string, icon Icon) string {
	a := glyph.Appearance{
		Width:       icon.Width,
		Height:      icon.Height,
		Fill:        icon.Fill,
		Stroke:      icon.Stroke,
		StrokeWidth: icon.StrokeWidth,
	}
	svg, err := glyph.Synthesize(key, a)
	if err != nil {
		c.logger.Warn("falling back to default icon", "icon", key, "err", err)
		svg, _ = glyph.Synthesize(FallbackIcon, a)
	}
	return svg
}
