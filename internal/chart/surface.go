package chart

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"sync"
)

// ErrSlotBusy is returned when mounting into a slot whose previous handle
// has not been disposed.
var ErrSlotBusy = errors.New("chart: slot holds a live drawing")

// Surface is a caller-owned display area made of named slots. Each slot
// shows at most one drawing at a time; redrawing a slot means disposing
// its current Handle and mounting the new drawing.
type Surface struct {
	mu    sync.Mutex
	slots map[string]*Handle
	order []string
}

// Handle is the live attachment of a drawing to a surface slot.
type Handle struct {
	surface  *Surface
	slot     string
	drawing  Drawing
	disposed bool
}

func NewSurface() *Surface {
	return &Surface{slots: make(map[string]*Handle)}
}

// Mount attaches d to slot and returns the handle that owns it.
func (s *Surface) Mount(slot string, d Drawing) (*Handle, error) {
	if slot == "" {
		return nil, errors.New("chart: slot name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.slots[slot]; busy {
		return nil, fmt.Errorf("%w: %q", ErrSlotBusy, slot)
	}
	h := &Handle{surface: s, slot: slot, drawing: d}
	s.slots[slot] = h
	s.order = append(s.order, slot)
	return h, nil
}

func (h *Handle) Slot() string { return h.slot }

func (h *Handle) Drawing() Drawing { return h.drawing }

// Dispose detaches the drawing from its slot. Calling it again is a no-op.
func (h *Handle) Dispose() {
	s := h.surface
	s.mu.Lock()
	defer s.mu.Unlock()

	if h.disposed {
		return
	}
	h.disposed = true
	if s.slots[h.slot] != h {
		return
	}
	delete(s.slots, h.slot)
	for i, name := range s.order {
		if name == h.slot {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Mounted lists live slots in mount order.
func (s *Surface) Mounted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// Lookup returns the drawing currently shown in slot.
func (s *Surface) Lookup(slot string) (Drawing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.slots[slot]
	if !ok {
		return Drawing{}, false
	}
	return h.drawing, true
}

var pageTmpl = template.Must(template.New("surface").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{font-family:sans-serif;margin:2rem;color:#111827}
section{margin-bottom:2rem}
.chart{height:220px;max-width:640px}
.chart-placeholder{color:#d1d5db;font-style:italic}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Slots}}<section id="{{.ID}}"><h2>{{.ID}}</h2><div class="chart">{{.Markup}}</div></section>
{{end}}</body>
</html>
`))

type pageSlot struct {
	ID     string
	Markup template.HTML
}

// WriteHTML writes a standalone page containing every mounted slot.
func (s *Surface) WriteHTML(w io.Writer, title string) error {
	s.mu.Lock()
	slots := make([]pageSlot, 0, len(s.order))
	for _, name := range s.order {
		slots = append(slots, pageSlot{
			ID:     name,
			Markup: template.HTML(Markup(s.slots[name].drawing)),
		})
	}
	s.mu.Unlock()

	return pageTmpl.Execute(w, struct {
		Title string
		Slots []pageSlot
	}{Title: title, Slots: slots})
}
