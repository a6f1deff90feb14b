package viewer

import (
	"fmt"
	"image"
	"image/color"

	"edge-locator/internal/app"
	"edge-locator/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	minZoom  = 0.25
	maxZoom  = 8.0
	zoomStep = 1.25
)

// Needle position marker, in image pixels.
const (
	markerRadius    = 20
	markerThickness = 3
)

// MatchCanvas displays the haystack with the needle superimposed at the
// current placement, a circle marker near the needle centre, and the
// distance readout.
type MatchCanvas struct {
	widget.BaseWidget

	state *app.State

	raster  *fynecanvas.Raster
	zoom    float64
	scroll  *container.Scroll
	content *dragLayer
	imgSize fyne.Size
}

// NewMatchCanvas creates a canvas bound to the application state.
func NewMatchCanvas(state *app.State) *MatchCanvas {
	mc := &MatchCanvas{
		state:   state,
		zoom:    1.0,
		imgSize: fyne.NewSize(400, 300),
	}

	mc.raster = fynecanvas.NewRaster(mc.draw)
	mc.raster.ScaleMode = fynecanvas.ImageScalePixels
	mc.raster.SetMinSize(mc.imgSize)

	// Wrap the raster so pointer gestures move the needle
	mc.content = newDragLayer(mc, mc.raster)

	mc.scroll = container.NewScroll(mc.content)
	mc.scroll.Direction = container.ScrollBoth

	mc.ExtendBaseWidget(mc)
	return mc
}

// Container returns the scrollable canvas for embedding in layouts.
func (mc *MatchCanvas) Container() fyne.CanvasObject {
	return mc.scroll
}

// SetZoom sets the zoom level.
func (mc *MatchCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	mc.zoom = zoom
	mc.UpdateContentSize()
}

// GetZoom returns the current zoom level.
func (mc *MatchCanvas) GetZoom() float64 {
	return mc.zoom
}

// ZoomIn increases the zoom level.
func (mc *MatchCanvas) ZoomIn() {
	mc.SetZoom(mc.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (mc *MatchCanvas) ZoomOut() {
	mc.SetZoom(mc.zoom / zoomStep)
}

// UpdateContentSize resizes the raster to the haystack dimensions at the
// current zoom. Call after loading an image or changing zoom.
func (mc *MatchCanvas) UpdateContentSize() {
	if mc.state.Haystack == nil {
		mc.imgSize = fyne.NewSize(400, 300)
	} else {
		b := mc.state.Haystack.Bounds()
		width := float32(float64(b.Dx()) * mc.zoom)
		height := float32(float64(b.Dy()) * mc.zoom)
		mc.imgSize = fyne.NewSize(width, height)
	}

	mc.raster.SetMinSize(mc.imgSize)
	mc.raster.Resize(mc.imgSize)
	if mc.content != nil {
		mc.content.Resize(mc.imgSize)
		mc.content.Refresh()
	}
	mc.raster.Refresh()
	if mc.scroll != nil {
		mc.scroll.Refresh()
	}
}

// Refresh redraws the raster.
func (mc *MatchCanvas) Refresh() {
	mc.raster.Refresh()
}

// placeAt converts a viewport position to image coordinates and moves the
// needle origin there. The state clamps to the valid placement range.
func (mc *MatchCanvas) placeAt(pos fyne.Position) {
	s := mc.state
	if s.Space == nil {
		return
	}

	// ev positions are relative to the viewport, add scroll offset for the
	// content position
	scrollOffset := mc.scroll.Offset
	imgX := float64(pos.X+scrollOffset.X) / mc.zoom
	imgY := float64(pos.Y+scrollOffset.Y) / mc.zoom

	s.SetOffset(geometry.PointInt{X: int(imgX), Y: int(imgY)})
}

// draw is the raster drawing function.
func (mc *MatchCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))

	// Fill with black background (set alpha channel)
	for i := 3; i < len(output.Pix); i += 4 {
		output.Pix[i] = 255
	}

	haystack := mc.state.Haystack
	if haystack == nil {
		return output
	}
	mc.compositeImage(output, haystack, 0, 0)

	needle := mc.state.Needle
	if needle == nil {
		return output
	}

	offset, dist := mc.state.Placement()
	mc.compositeImage(output, needle, float64(offset.X), float64(offset.Y))

	// Circle marker just up-left of the needle centre
	nb := needle.Bounds()
	cx := float64(offset.X+nb.Dx()/2-10) * mc.zoom
	cy := float64(offset.Y+nb.Dy()/2-10) * mc.zoom
	drawRing(output, cx, cy, markerRadius*mc.zoom, markerThickness,
		color.RGBA{R: 255, A: 255})

	// Distance readout box in the top-left corner of the view
	fillRect(output, 0, 0, 200, 30, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	drawText(output, fmt.Sprintf("DIST = %.2f", dist), 10, 8, 3, color.RGBA{A: 255})

	return output
}

// compositeImage draws src onto the output at the given image-space offset,
// scaled by the current zoom.
func (mc *MatchCanvas) compositeImage(output *image.RGBA, src image.Image, offsetX, offsetY float64) {
	srcBounds := src.Bounds()
	outBounds := output.Bounds()

	for y := outBounds.Min.Y; y < outBounds.Max.Y; y++ {
		for x := outBounds.Min.X; x < outBounds.Max.X; x++ {
			// Convert canvas coords to image coords (accounting for zoom
			// and offset)
			imgX := float64(x)/mc.zoom - offsetX
			imgY := float64(y)/mc.zoom - offsetY

			srcX := int(imgX) + srcBounds.Min.X
			srcY := int(imgY) + srcBounds.Min.Y

			if srcX < srcBounds.Min.X || srcX >= srcBounds.Max.X ||
				srcY < srcBounds.Min.Y || srcY >= srcBounds.Max.Y {
				continue
			}
			output.Set(x, y, src.At(srcX, srcY))
		}
	}
}

// CreateRenderer implements fyne.Widget.
func (mc *MatchCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &matchCanvasRenderer{canvas: mc}
}

type matchCanvasRenderer struct {
	canvas *MatchCanvas
}

func (r *matchCanvasRenderer) Layout(size fyne.Size) {
	if r.canvas.scroll != nil {
		r.canvas.scroll.Resize(size)
	}
}

func (r *matchCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *matchCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *matchCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *matchCanvasRenderer) Destroy() {}

// dragLayer wraps the raster to turn pointer gestures into needle moves.
type dragLayer struct {
	widget.BaseWidget
	canvas *MatchCanvas
	raster *fynecanvas.Raster
}

func newDragLayer(mc *MatchCanvas, raster *fynecanvas.Raster) *dragLayer {
	dl := &dragLayer{
		canvas: mc,
		raster: raster,
	}
	dl.ExtendBaseWidget(dl)
	return dl
}

func (dl *dragLayer) CreateRenderer() fyne.WidgetRenderer {
	return &dragLayerRenderer{layer: dl}
}

func (dl *dragLayer) MinSize() fyne.Size {
	return dl.raster.MinSize()
}

// Dragged moves the needle to the pointer.
func (dl *dragLayer) Dragged(ev *fyne.DragEvent) {
	dl.canvas.placeAt(ev.Position)
}

func (dl *dragLayer) DragEnd() {}

// Tapped jumps the needle to the clicked position.
func (dl *dragLayer) Tapped(ev *fyne.PointEvent) {
	// Workaround for Fyne bug: reject clicks outside widget bounds
	size := dl.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}
	dl.canvas.placeAt(ev.Position)
}

// Scrolled zooms with the mouse wheel.
func (dl *dragLayer) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		dl.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		dl.canvas.ZoomOut()
	}
}

type dragLayerRenderer struct {
	layer *dragLayer
}

func (r *dragLayerRenderer) Layout(size fyne.Size) {
	r.layer.raster.Resize(size)
}

func (r *dragLayerRenderer) MinSize() fyne.Size {
	return r.layer.raster.MinSize()
}

func (r *dragLayerRenderer) Refresh() {
	r.layer.raster.Refresh()
}

func (r *dragLayerRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.layer.raster}
}

func (r *dragLayerRenderer) Destroy() {}
