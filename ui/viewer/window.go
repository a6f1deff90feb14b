package viewer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"edge-locator/internal/app"
	"edge-locator/internal/hausdorff"
	"edge-locator/internal/imaging"
	"edge-locator/internal/report"
	"edge-locator/internal/version"
	"edge-locator/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// interactiveSearchStep is the initial step of the hierarchical translation
// search bound to the F key.
const interactiveSearchStep = 4

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff"}

// Window is the primary application window.
type Window struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	canvas    *MatchCanvas
	statusBar *widget.Label

	searchMu        sync.Mutex
	searching       bool
	cancelSearch    context.CancelFunc
	lastPoseElapsed float64
}

// New creates the main window.
func New(fyneApp fyne.App, state *app.State, preferences *prefs.Prefs) *Window {
	win := fyneApp.NewWindow("Edge Locator")

	w := &Window{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  preferences,
	}

	w.setupUI()
	w.setupMenus()
	w.setupEventHandlers()
	w.setupKeys()

	width := preferences.FloatWithFallback(prefs.KeyWindowWidth, 1024)
	height := preferences.FloatWithFallback(prefs.KeyWindowHeight, 768)
	w.Resize(fyne.NewSize(float32(width), float32(height)))
	w.SetCloseIntercept(w.shutdown)

	return w
}

// setupUI creates the main layout.
func (w *Window) setupUI() {
	w.canvas = NewMatchCanvas(w.state)
	w.statusBar = widget.NewLabel("Ready")

	toolbar := container.NewHBox(
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", w.canvas.ZoomOut),
		widget.NewButton("+", w.canvas.ZoomIn),
		widget.NewButton("1:1", func() { w.canvas.SetZoom(1.0) }),
	)

	content := container.NewBorder(
		toolbar,                          // top
		container.NewPadded(w.statusBar), // bottom
		nil,                              // left
		nil,                              // right
		w.canvas.Container(),             // center
	)

	w.SetContent(content)
}

// setupMenus creates the application menus.
func (w *Window) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Needle...", w.onOpenNeedle),
		fyne.NewMenuItem("Open Haystack...", w.onOpenHaystack),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Report...", w.onSaveReport),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", w.shutdown),
	)

	searchMenu := fyne.NewMenu("Search",
		fyne.NewMenuItem("Find Translation", w.onFindTranslation),
		fyne.NewMenuItem("Find Best Pose", w.onFindPose),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Cancel", w.onCancelSearch),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", w.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", w.canvas.ZoomOut),
		fyne.NewMenuItem("Actual Size", func() { w.canvas.SetZoom(1.0) }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", w.onAbout),
	)

	w.SetMainMenu(fyne.NewMainMenu(fileMenu, searchMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (w *Window) setupEventHandlers() {
	w.state.On(app.EventNeedleLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			w.updateStatus("Needle loaded: " + filepath.Base(path))
		}
	})

	w.state.On(app.EventHaystackLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			w.updateStatus("Haystack loaded: " + filepath.Base(path))
		}
	})

	w.state.On(app.EventModelsReady, func(interface{}) {
		w.canvas.UpdateContentSize()
		w.canvas.Refresh()
		w.refreshTitle()
	})

	w.state.On(app.EventOffsetChanged, func(interface{}) {
		w.canvas.Refresh()
	})

	w.state.On(app.EventStatus, func(data interface{}) {
		if msg, ok := data.(string); ok {
			w.updateStatus(msg)
		}
	})
}

// setupKeys binds the keyboard shortcuts: F searches translations, P runs
// the full pose sweep, Escape exits.
func (w *Window) setupKeys() {
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyF:
			w.onFindTranslation()
		case fyne.KeyP:
			w.onFindPose()
		case fyne.KeyEscape:
			w.shutdown()
		}
	})
}

// updateStatus updates the status bar text.
func (w *Window) updateStatus(text string) {
	w.statusBar.SetText(text)
}

func (w *Window) refreshTitle() {
	needle := filepath.Base(w.state.NeedlePath)
	haystack := filepath.Base(w.state.HaystackPath)
	w.SetTitle("Edge Locator - " + needle + " in " + haystack)
}

// shutdown persists the window geometry and quits.
func (w *Window) shutdown() {
	size := w.Canvas().Size()
	w.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	w.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	if err := w.prefs.Save(); err != nil {
		fmt.Printf("Failed to save preferences: %v\n", err)
	}
	w.app.Quit()
}

// lastDir returns the directory stored under the given preference key as a
// ListableURI, or nil.
func (w *Window) lastDir(key string) fyne.ListableURI {
	path := w.prefs.String(key)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

func (w *Window) onOpenNeedle() {
	w.openImage(prefs.KeyNeedleDir, w.state.LoadNeedle)
}

func (w *Window) onOpenHaystack() {
	w.openImage(prefs.KeyHaystackDir, w.state.LoadHaystack)
}

// openImage shows a file dialog and hands the chosen path to load.
func (w *Window) openImage(dirKey string, load func(string) error) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()

		w.prefs.SetString(dirKey, filepath.Dir(path))
		if err := w.prefs.Save(); err != nil {
			fmt.Printf("Failed to save preferences: %v\n", err)
		}

		if err := load(path); err != nil {
			dialog.ShowError(err, w.Window)
		}
	}, w.Window)

	fd.SetFilter(storage.NewExtensionFileFilter(imageExtensions))
	if loc := w.lastDir(dirKey); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// beginSearch marks a search as running. Returns false if one already is.
func (w *Window) beginSearch(cancel context.CancelFunc) bool {
	w.searchMu.Lock()
	defer w.searchMu.Unlock()
	if w.searching {
		return false
	}
	w.searching = true
	w.cancelSearch = cancel
	return true
}

func (w *Window) endSearch() {
	w.searchMu.Lock()
	w.searching = false
	w.cancelSearch = nil
	w.searchMu.Unlock()
}

func (w *Window) onCancelSearch() {
	w.searchMu.Lock()
	cancel := w.cancelSearch
	running := w.searching
	w.searchMu.Unlock()

	switch {
	case cancel != nil:
		cancel()
		w.updateStatus("Canceling search...")
	case running:
		w.updateStatus("This search cannot be canceled")
	default:
		w.updateStatus("No search running")
	}
}

// onFindTranslation runs the hierarchical translation search at the fixed
// pose in the background and moves the needle to the winner.
func (w *Window) onFindTranslation() {
	space := w.state.Space
	if space == nil {
		w.updateStatus("Load a needle and a haystack first")
		return
	}
	if !w.beginSearch(nil) {
		w.updateStatus("A search is already running")
		return
	}

	w.state.Emit(app.EventSearchStarted, "translation")
	w.updateStatus("Searching...")

	go func() {
		defer w.endSearch()

		start := time.Now()
		offset, dist := hausdorff.SearchHierarchical(*space, interactiveSearchStep)
		elapsed := time.Since(start).Seconds()

		fmt.Printf("found at (%d, %d)\n", offset.X, offset.Y)
		fmt.Printf("Search took %.2f secs\n", elapsed)

		w.state.SetOffset(offset)
		w.updateStatus(fmt.Sprintf("Found at (%d, %d), dist %.2f, %.2f secs",
			offset.X, offset.Y, dist, elapsed))
		w.state.Emit(app.EventSearchFinished, "translation")
	}()
}

// onFindPose runs the full rotation and scale sweep in the background.
func (w *Window) onFindPose() {
	space := w.state.Space
	if space == nil {
		w.updateStatus("Load a needle and a haystack first")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	if !w.beginSearch(cancel) {
		cancel()
		w.updateStatus("A search is already running")
		return
	}

	w.state.Emit(app.EventSearchStarted, "pose")
	w.updateStatus("Sweeping rotations and scales...")

	go func() {
		defer w.endSearch()

		start := time.Now()
		result, _, err := hausdorff.SearchPoses(ctx, *space, imaging.PoseTransformer{}, w.state.SearchParams)
		elapsed := time.Since(start).Seconds()

		if err != nil {
			if errors.Is(err, context.Canceled) {
				w.updateStatus("Search canceled")
			} else {
				w.updateStatus("Search failed: " + err.Error())
			}
			w.state.Emit(app.EventSearchFinished, "pose")
			return
		}

		fmt.Printf("found at (%d, %d)\n", result.Offset.X, result.Offset.Y)
		fmt.Printf("Search took %.2f secs\n", elapsed)

		w.searchMu.Lock()
		w.lastPoseElapsed = elapsed
		w.searchMu.Unlock()

		w.state.ApplyMatch(result)
		w.updateStatus(fmt.Sprintf("Best pose at (%d, %d), rotation %d°, scale %.2f, dist %.2f, %.2f secs",
			result.Offset.X, result.Offset.Y, result.Rotation, result.Scale, result.Distance, elapsed))
		w.state.Emit(app.EventSearchFinished, "pose")
	}()
}

// onSaveReport writes the last pose sweep result as a JSON report.
func (w *Window) onSaveReport() {
	match := w.state.Match
	if match == nil {
		w.updateStatus("No completed pose search to save")
		return
	}

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".json" {
			path += ".json"
		}

		doc := report.New(w.state.NeedlePath, w.state.HaystackPath)
		doc.EdgeParams = w.state.EdgeParams
		doc.SearchParams = w.state.SearchParams
		doc.Match = *match
		w.searchMu.Lock()
		doc.ElapsedSeconds = w.lastPoseElapsed
		w.searchMu.Unlock()
		if space := w.state.Space; space != nil {
			doc.NeedleFieldStats = hausdorff.FieldStats(space.Needle.Field)
			doc.HaystackFieldStats = hausdorff.FieldStats(space.Haystack.Field)
		}

		if err := doc.Save(path); err != nil {
			dialog.ShowError(err, w.Window)
			return
		}
		w.updateStatus("Report saved: " + path)
	}, w.Window)

	fd.SetFileName("match.json")
	fd.Show()
}

// NotifyNewBinary reacts to the hot reloader detecting a newer build on
// disk: restart immediately when the preference allows it, otherwise ask.
func (w *Window) NotifyNewBinary(reloader *app.HotReloader) {
	if reloader == nil {
		return
	}

	if w.prefs.Bool(prefs.KeyAutoRestart, false) {
		if err := reloader.Restart(); err != nil {
			w.updateStatus("Restart failed: " + err.Error())
		}
		return
	}

	dialog.NewConfirm("New build detected",
		"The binary on disk is newer than the running one. Restart now?",
		func(restart bool) {
			if restart {
				if err := reloader.Restart(); err != nil {
					dialog.ShowError(err, w.Window)
				}
			} else {
				// The watcher stops after firing; rearm it for the next build
				reloader.ResetBaseline()
				reloader.Start()
			}
		}, w.Window).Show()
}

func (w *Window) onAbout() {
	dialog.ShowInformation("About Edge Locator",
		fmt.Sprintf("Edge Locator %s\n\n"+
			"Finds a template image inside a larger scene by\n"+
			"comparing Canny edge maps with the Hausdorff distance.\n\n"+
			"Built: %s",
			version.String(), version.BuildTime),
		w.Window)
}
