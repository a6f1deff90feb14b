package app

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"edge-locator/pkg/geometry"
)

// writeSquarePNG writes a white canvas with a centred black square, which
// gives the edge detector an unambiguous contour to find.
func writeSquarePNG(t *testing.T, path string, size int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	lo, hi := size/4, 3*size/4
	for y := lo; y < hi; y++ {
		for x := lo; x < hi; x++ {
			img.SetRGBA(x, y, color.RGBA{A: 255})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestStateLoadsImagesAndBuildsModels(t *testing.T) {
	dir := t.TempDir()
	needlePath := filepath.Join(dir, "needle.png")
	haystackPath := filepath.Join(dir, "haystack.png")
	writeSquarePNG(t, needlePath, 32)
	writeSquarePNG(t, haystackPath, 64)

	s := NewState()

	var needleEvents, haystackEvents, modelEvents int
	s.On(EventNeedleLoaded, func(interface{}) { needleEvents++ })
	s.On(EventHaystackLoaded, func(interface{}) { haystackEvents++ })
	s.On(EventModelsReady, func(interface{}) { modelEvents++ })

	if err := s.LoadNeedle(needlePath); err != nil {
		t.Fatalf("LoadNeedle: %v", err)
	}
	if _, _, ok := s.PlacementRange(); ok {
		t.Fatal("placement range available before haystack loaded")
	}
	if err := s.LoadHaystack(haystackPath); err != nil {
		t.Fatalf("LoadHaystack: %v", err)
	}

	if needleEvents != 1 || haystackEvents != 1 || modelEvents != 1 {
		t.Fatalf("events: needle=%d haystack=%d models=%d, want 1 each",
			needleEvents, haystackEvents, modelEvents)
	}

	maxX, maxY, ok := s.PlacementRange()
	if !ok || maxX != 32 || maxY != 32 {
		t.Fatalf("placement range: got (%d,%d,%v), want (32,32,true)", maxX, maxY, ok)
	}
}

func TestStateClampsOffset(t *testing.T) {
	dir := t.TempDir()
	needlePath := filepath.Join(dir, "needle.png")
	haystackPath := filepath.Join(dir, "haystack.png")
	writeSquarePNG(t, needlePath, 32)
	writeSquarePNG(t, haystackPath, 64)

	s := NewState()
	if err := s.LoadNeedle(needlePath); err != nil {
		t.Fatalf("LoadNeedle: %v", err)
	}
	if err := s.LoadHaystack(haystackPath); err != nil {
		t.Fatalf("LoadHaystack: %v", err)
	}

	s.SetOffset(geometry.PointInt{X: 100, Y: -5})
	offset, dist := s.Placement()
	if offset != (geometry.PointInt{X: 32, Y: 0}) {
		t.Fatalf("offset: got %v, want (32,0)", offset)
	}
	if dist < 0 {
		t.Fatalf("distance: got %v, want >= 0", dist)
	}
}

func TestStateRejectsOversizedNeedle(t *testing.T) {
	dir := t.TempDir()
	needlePath := filepath.Join(dir, "needle.png")
	haystackPath := filepath.Join(dir, "haystack.png")
	writeSquarePNG(t, needlePath, 64)
	writeSquarePNG(t, haystackPath, 32)

	s := NewState()
	if err := s.LoadNeedle(needlePath); err != nil {
		t.Fatalf("LoadNeedle: %v", err)
	}
	if err := s.LoadHaystack(haystackPath); err == nil {
		t.Fatal("expected error for needle larger than haystack")
	}
}

func TestStateEventBus(t *testing.T) {
	s := NewState()

	var got []string
	s.On(EventStatus, func(data interface{}) {
		got = append(got, data.(string))
	})
	s.On(EventStatus, func(data interface{}) {
		got = append(got, "second:"+data.(string))
	})

	s.SetStatus("step %d of %d", 1, 3)
	// No listener registered for this one; must be a no-op.
	s.Emit(EventSearchStarted, nil)

	want := []string{"step 1 of 3", "second:step 1 of 3"}
	if len(got) != len(want) {
		t.Fatalf("listener calls: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
