package viewer

import (
	"image"
	"image/color"
	"testing"
)

var testRed = color.RGBA{R: 255, A: 255}

func TestGetCharPattern(t *testing.T) {
	if getCharPattern('7') != digitPatterns[7] {
		t.Error("digit 7 pattern mismatch")
	}
	if getCharPattern('d') != letterPatterns['D'] {
		t.Error("lowercase must map to the uppercase pattern")
	}
	if getCharPattern('?') != ([5]uint8{}) {
		t.Error("unsupported character must give an empty pattern")
	}
	if getCharPattern('=') == ([5]uint8{}) {
		t.Error("readout symbol '=' has no pattern")
	}
	if getCharPattern('.') == ([5]uint8{}) {
		t.Error("readout symbol '.' has no pattern")
	}
}

func TestFillRect(t *testing.T) {
	out := image.NewRGBA(image.Rect(0, 0, 10, 10))
	fillRect(out, 2, 2, 4, 4, testRed)

	for y := 2; y <= 4; y++ {
		for x := 2; x <= 4; x++ {
			if out.RGBAAt(x, y) != testRed {
				t.Fatalf("pixel (%d,%d) not filled", x, y)
			}
		}
	}
	if out.RGBAAt(1, 1) == testRed || out.RGBAAt(5, 5) == testRed {
		t.Error("fill bled outside the rectangle")
	}
}

func TestFillRectClipsToBounds(t *testing.T) {
	out := image.NewRGBA(image.Rect(0, 0, 8, 8))
	fillRect(out, -5, -5, 20, 20, testRed)

	if out.RGBAAt(0, 0) != testRed || out.RGBAAt(7, 7) != testRed {
		t.Error("oversized fill must still cover the image")
	}
}

func TestDrawRing(t *testing.T) {
	out := image.NewRGBA(image.Rect(0, 0, 40, 40))
	drawRing(out, 20, 20, 5, 2, testRed)

	// On the radius, inside the band, and outside it.
	if out.RGBAAt(25, 20) != testRed {
		t.Error("pixel on the radius not drawn")
	}
	if out.RGBAAt(20, 20) == testRed {
		t.Error("ring filled its center")
	}
	if out.RGBAAt(28, 20) == testRed {
		t.Error("ring drew outside the radius")
	}
}

func TestDrawRingClipsToBounds(t *testing.T) {
	out := image.NewRGBA(image.Rect(0, 0, 10, 10))
	// Center outside the image; only the overlapping arc may be drawn.
	drawRing(out, -2, 5, 4, 2, testRed)

	found := false
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if out.RGBAAt(x, y) == testRed {
				found = true
			}
		}
	}
	if !found {
		t.Error("no arc pixels drawn for a partially visible ring")
	}
}

func TestDrawTextScaleOne(t *testing.T) {
	out := image.NewRGBA(image.Rect(0, 0, 10, 10))
	drawText(out, "1", 0, 0, 1, testRed)

	// Digit 1 at scale 1: top row lights only the middle column, bottom
	// row lights all three.
	if out.RGBAAt(1, 0) != testRed {
		t.Error("top middle pixel of '1' not set")
	}
	if out.RGBAAt(0, 0) == testRed {
		t.Error("top left pixel of '1' set")
	}
	for x := 0; x < 3; x++ {
		if out.RGBAAt(x, 4) != testRed {
			t.Errorf("bottom row pixel (%d,4) of '1' not set", x)
		}
	}
}

func TestDrawTextAdvancesPerCharacter(t *testing.T) {
	out := image.NewRGBA(image.Rect(0, 0, 30, 10))
	drawText(out, "11", 0, 0, 1, testRed)

	// Second character starts after 3 columns of glyph plus 1 of spacing.
	if out.RGBAAt(5, 0) != testRed {
		t.Error("second character not drawn at the advanced position")
	}
	if out.RGBAAt(3, 4) == testRed {
		t.Error("spacing column was drawn")
	}
}

func TestDrawTextScaling(t *testing.T) {
	out := image.NewRGBA(image.Rect(0, 0, 30, 30))
	drawText(out, "1", 0, 0, 3, testRed)

	// The middle column block of the top row covers x 3..5, y 0..2.
	for y := 0; y < 3; y++ {
		for x := 3; x < 6; x++ {
			if out.RGBAAt(x, y) != testRed {
				t.Fatalf("scaled block missing pixel (%d,%d)", x, y)
			}
		}
	}
}
