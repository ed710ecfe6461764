package overlay

import (
	"log/slog"
	"sync"

	"github.com/zokrezyl/yetty/gpu"
)

// Scheduler owns the plugin registry, the custom-glyph registry, and
// the insertion-ordered list of live layers. It drives the per-frame
// update/render ordering and input routing described in the
// component's contract.
type Scheduler struct {
	mu sync.Mutex

	registry *Registry
	glyphs   *GlyphRegistry

	layers  []Layer
	nextID  int64
	screen  ScreenMode
	focused Layer
	failed  map[int64]bool

	log *slog.Logger
}

// NewScheduler creates a scheduler backed by the given plugin and
// custom-glyph registries.
func NewScheduler(registry *Registry, glyphs *GlyphRegistry, log *slog.Logger) *Scheduler {
	return &Scheduler{
		registry: registry,
		glyphs:   glyphs,
		failed:   make(map[int64]bool),
		log:      log,
	}
}

// AddLayer instantiates a layer from the named plugin at rect and adds
// it to the insertion-ordered list, invisible until the caller sets it
// visible.
func (s *Scheduler) AddLayer(pluginName string, rect CellRect, screen ScreenMode, payload any) (Layer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plugin, err := s.registry.Get(pluginName)
	if err != nil {
		return nil, err
	}
	s.nextID++
	layer, err := plugin.NewLayer(s.nextID, rect, screen, payload)
	if err != nil {
		return nil, err
	}
	s.layers = append(s.layers, layer)
	return layer, nil
}

// SetScreen switches the active screen mode (main/alternate); layers
// whose Screen() doesn't match are skipped by Render.
func (s *Scheduler) SetScreen(screen ScreenMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen = screen
}

// Update calls Update(dt) on every layer, then lazily creates or
// releases GPU resources for layers whose visibility changed,
// matching the lifecycle contract. A layer-local panic-free failure is
// logged once and the layer is marked failed, never retried.
func (s *Scheduler) Update(d *gpu.Device, dtSeconds float64) {
	s.mu.Lock()
	layers := append([]Layer(nil), s.layers...)
	s.mu.Unlock()

	for _, l := range layers {
		if s.isFailed(l.ID()) {
			continue
		}
		l.Update(dtSeconds)

		if l.Visible() {
			if err := l.EnsureGPUResources(d); err != nil {
				s.markFailed(l.ID(), err)
				continue
			}
		} else {
			if h, ok := l.(interface{ HasGPUResources() bool }); ok && !h.HasGPUResources() {
				continue
			}
			l.ReleaseGPUResources()
		}
	}
}

func (s *Scheduler) isFailed(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed[id]
}

func (s *Scheduler) markFailed(id int64, err error) {
	s.mu.Lock()
	already := s.failed[id]
	s.failed[id] = true
	s.mu.Unlock()
	if !already && s.log != nil {
		s.log.Warn("overlay layer failed", "layer_id", id, "error", err)
	}
}

// EnsureGlyphInstance lazily creates (and caches) the custom-glyph
// instance for codepoint if one isn't already live, so it subsequently
// appears in ActiveCodepoints. Callers scan the grid once per frame
// for codepoints in the registered PUA ranges and call this for each;
// codepoints outside any registered range are silently ignored.
func (s *Scheduler) EnsureGlyphInstance(codepoint rune) {
	_, _ = s.glyphs.Instance(codepoint)
}

// EnsureCustomGlyphResources calls EnsureGPUResources(target) on every
// active custom-glyph instance, lazily creating plugin-specific GPU
// state (e.g. a shared frame render target handle) before
// RenderCustomGlyphs draws them. Unlike ordinary layers, custom-glyph
// instances have no visibility-driven lifecycle to hook this into, so
// callers must invoke this once per frame before RenderCustomGlyphs.
func (s *Scheduler) EnsureCustomGlyphResources(target any) {
	for _, cp := range s.glyphs.ActiveCodepoints() {
		inst, err := s.glyphs.Instance(cp)
		if err != nil {
			continue
		}
		if err := inst.EnsureGPUResources(target); err != nil && s.log != nil {
			s.log.Warn("custom glyph resource setup failed", "codepoint", cp, "error", err)
		}
	}
}

// RenderCustomGlyphs draws all active custom-glyph layers whose cell
// is on screen, in the codepoint order of ActiveCodepoints. It must be
// called after the text grid draw and before RenderLayers, so custom
// glyphs sit beneath general overlay panels.
func (s *Scheduler) RenderCustomGlyphs(positions map[rune][2]int, cellW, cellH float32) {
	for _, cp := range s.glyphs.ActiveCodepoints() {
		pos, onScreen := positions[cp]
		if !onScreen {
			continue
		}
		inst, err := s.glyphs.Instance(cp)
		if err != nil {
			continue
		}
		_ = inst.Render(pos[0], pos[1], cellW, cellH)
	}
}

// RenderLayers draws overlay layers filtered by screen_type ==
// current_screen, in insertion order. Actual draw submission is
// plugin-specific; this orchestrates which layers participate.
func (s *Scheduler) RenderLayers(visit func(Layer) error) {
	s.mu.Lock()
	layers := append([]Layer(nil), s.layers...)
	screen := s.screen
	s.mu.Unlock()

	for _, l := range layers {
		if s.isFailed(l.ID()) || !l.Visible() || l.Screen() != screen {
			continue
		}
		if err := visit(l); err != nil {
			s.markFailed(l.ID(), err)
		}
	}
}

// HandlePointer performs a topmost-layer hit test restricted to
// layers whose cell rect contains (col, row); the first layer (in
// reverse insertion order, i.e. topmost) whose WantsMouse returns true
// receives the event. Returns true if some layer consumed it.
func (s *Scheduler) HandlePointer(col, row int, ev PointerEvent) bool {
	s.mu.Lock()
	layers := append([]Layer(nil), s.layers...)
	s.mu.Unlock()

	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		if s.isFailed(l.ID()) || !l.Visible() {
			continue
		}
		if !l.Rect().Contains(col, row) {
			continue
		}
		if !l.WantsMouse() {
			continue
		}
		return l.HandlePointer(ev)
	}
	return false
}

// HandleKey delivers ev to the focused layer, if any. Returns true if
// consumed; false means the caller should fall through to the
// external terminal.
func (s *Scheduler) HandleKey(ev KeyEvent) bool {
	s.mu.Lock()
	focused := s.focused
	s.mu.Unlock()
	if focused == nil || s.isFailed(focused.ID()) {
		return false
	}
	return focused.HandleKey(ev)
}

// SetFocus sets the layer receiving keyboard events.
func (s *Scheduler) SetFocus(l Layer) {
	s.mu.Lock()
	s.focused = l
	s.mu.Unlock()
}

// Layers returns a snapshot of the current layer list.
func (s *Scheduler) Layers() []Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Layer(nil), s.layers...)
}
