// Package main provides the entry point for the edge locator application.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"edge-locator/internal/app"
	"edge-locator/internal/imaging"
	"edge-locator/internal/version"
	"edge-locator/ui/prefs"
	"edge-locator/ui/viewer"

	fyneapp "fyne.io/fyne/v2/app"
)

const appTitle = "Edge Locator"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s %s", appTitle, version.String())

	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <needle image> <haystack image>\n", os.Args[0])
		os.Exit(1)
	}
	needlePath := os.Args[1]
	haystackPath := os.Args[2]

	appState := app.NewState()
	appPrefs := prefs.Load()

	// Edge thresholds persist across runs
	appState.EdgeParams = imaging.EdgeParams{
		LowThreshold:  appPrefs.FloatWithFallback(prefs.KeyEdgeLow, appState.EdgeParams.LowThreshold),
		HighThreshold: appPrefs.FloatWithFallback(prefs.KeyEdgeHigh, appState.EdgeParams.HighThreshold),
	}

	fmt.Printf("Opening %s\n", haystackPath)
	if err := appState.LoadHaystack(haystackPath); err != nil {
		fmt.Fprintf(os.Stderr, "Could not open %s: %v\n", haystackPath, err)
		os.Exit(1)
	}
	fmt.Printf("Opening %s\n", needlePath)
	if err := appState.LoadNeedle(needlePath); err != nil {
		fmt.Fprintf(os.Stderr, "Could not open %s: %v\n", needlePath, err)
		os.Exit(1)
	}

	fyneApp := fyneapp.New()
	fyneApp.Settings().SetTheme(&app.LocatorTheme{})

	win := viewer.New(fyneApp, appState, appPrefs)

	setupHotReload(win, appPrefs)

	win.ShowAndRun()
}

// setupHotReload configures restart detection when the binary is recompiled.
func setupHotReload(win *viewer.Window, appPrefs *prefs.Prefs) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}

	log.Printf("Hot reload: watching %s (modified %s)",
		reloader.ExecPath(), reloader.StartupTime().Format("15:04:05"))

	reloader.OnTick(func() {
		if err := appPrefs.SaveIfChanged(); err != nil {
			log.Printf("Hot reload: preference autosave failed: %v", err)
		}
	})

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		win.NotifyNewBinary(reloader)
	})

	reloader.Start()
}
