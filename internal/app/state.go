// Package app provides application state, events, and lifecycle helpers.
package app

import (
	"fmt"
	goimage "image"
	"sync"

	"edge-locator/internal/hausdorff"
	"edge-locator/internal/imaging"
	"edge-locator/pkg/geometry"
)

// State holds the loaded images, their edge models, and the current placement
// of the needle over the haystack.
type State struct {
	mu sync.RWMutex

	// Source images
	NeedlePath   string
	HaystackPath string
	Needle       goimage.Image
	Haystack     goimage.Image

	// Edge extraction thresholds
	EdgeParams imaging.EdgeParams

	// Pose sweep settings
	SearchParams hausdorff.SearchParams

	// Edge models, rebuilt whenever an image or the thresholds change.
	// Nil until both images are loaded.
	Space *hausdorff.SearchSpace

	// Current placement and the symmetric distance at it
	Offset   geometry.PointInt
	Distance float64

	// Result of the last completed pose sweep, nil before the first one
	Match *hausdorff.MatchResult

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventNeedleLoaded EventType = iota
	EventHaystackLoaded
	EventModelsReady
	EventOffsetChanged
	EventSearchStarted
	EventSearchFinished
	EventStatus
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state with default parameters.
func NewState() *State {
	return &State{
		EdgeParams:   imaging.DefaultEdgeParams(),
		SearchParams: hausdorff.DefaultSearchParams(),
		listeners:    make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetStatus broadcasts a transient status message.
func (s *State) SetStatus(format string, args ...interface{}) {
	s.Emit(EventStatus, fmt.Sprintf(format, args...))
}

// LoadNeedle loads the template image whose edges are searched for.
func (s *State) LoadNeedle(path string) error {
	img, err := imaging.Load(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.Needle = img
	s.NeedlePath = path
	s.Space = nil
	s.Match = nil
	s.mu.Unlock()

	s.Emit(EventNeedleLoaded, path)
	return s.rebuildModels()
}

// LoadHaystack loads the scene image that is searched.
func (s *State) LoadHaystack(path string) error {
	img, err := imaging.Load(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.Haystack = img
	s.HaystackPath = path
	s.Space = nil
	s.Match = nil
	s.mu.Unlock()

	s.Emit(EventHaystackLoaded, path)
	return s.rebuildModels()
}

// SetEdgeParams changes the Canny thresholds and rebuilds the edge models.
func (s *State) SetEdgeParams(params imaging.EdgeParams) error {
	s.mu.Lock()
	s.EdgeParams = params
	s.mu.Unlock()
	return s.rebuildModels()
}

// rebuildModels recomputes both edge models once needle and haystack are
// present, and resets the placement to the origin.
func (s *State) rebuildModels() error {
	s.mu.RLock()
	needle := s.Needle
	haystack := s.Haystack
	params := s.EdgeParams
	s.mu.RUnlock()

	if needle == nil || haystack == nil {
		return nil
	}

	nb := needle.Bounds()
	hb := haystack.Bounds()
	if nb.Dx() > hb.Dx() || nb.Dy() > hb.Dy() {
		return fmt.Errorf("needle %dx%d does not fit inside haystack %dx%d",
			nb.Dx(), nb.Dy(), hb.Dx(), hb.Dy())
	}

	space, err := imaging.NewSearchSpace(needle, haystack, params)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.Space = &space
	s.mu.Unlock()

	s.SetOffset(geometry.PointInt{})
	s.Emit(EventModelsReady, nil)
	return nil
}

// PlacementRange returns the inclusive maximum offset at which the needle
// still fits inside the haystack. ok is false until models exist.
func (s *State) PlacementRange() (maxX, maxY int, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Space == nil {
		return 0, 0, false
	}
	maxX = s.Space.Haystack.Field.Width - s.Space.Needle.Edges.Width
	maxY = s.Space.Haystack.Field.Height - s.Space.Needle.Edges.Height
	return maxX, maxY, true
}

// SetOffset moves the needle placement, clamped to the valid range, and
// recomputes the symmetric distance there.
func (s *State) SetOffset(p geometry.PointInt) {
	s.mu.Lock()
	if s.Space != nil {
		maxX := s.Space.Haystack.Field.Width - s.Space.Needle.Edges.Width
		maxY := s.Space.Haystack.Field.Height - s.Space.Needle.Edges.Height
		p.X = clamp(p.X, 0, maxX)
		p.Y = clamp(p.Y, 0, maxY)
		s.Offset = p
		s.Distance = hausdorff.SymmetricDistance(*s.Space, p)
	} else {
		s.Offset = p
		s.Distance = 0
	}
	s.mu.Unlock()

	s.Emit(EventOffsetChanged, p)
}

// Placement returns the current offset and the distance at it.
func (s *State) Placement() (geometry.PointInt, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Offset, s.Distance
}

// ApplyMatch stores a completed pose sweep result and moves the placement to
// its winning offset.
func (s *State) ApplyMatch(m hausdorff.MatchResult) {
	s.mu.Lock()
	s.Match = &m
	s.mu.Unlock()

	s.SetOffset(m.Offset)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
