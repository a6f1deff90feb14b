// Package report provides JSON persistence for completed search runs.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"edge-locator/internal/hausdorff"
	"edge-locator/internal/imaging"
)

// CurrentVersion is written to every new report.
const CurrentVersion = 1

// Document records one completed search: the inputs, the parameters used,
// the winning pose, and the distance field statistics of both images.
type Document struct {
	Version int       `json:"version"`
	Created time.Time `json:"created"`

	// Input image paths as given on the command line
	NeedlePath   string `json:"needle"`
	HaystackPath string `json:"haystack"`

	EdgeParams   imaging.EdgeParams     `json:"edge_params"`
	SearchParams hausdorff.SearchParams `json:"search_params"`

	Match          hausdorff.MatchResult `json:"match"`
	ElapsedSeconds float64               `json:"elapsed_seconds"`

	NeedleFieldStats   hausdorff.Stats `json:"needle_field_stats"`
	HaystackFieldStats hausdorff.Stats `json:"haystack_field_stats"`
}

// New creates a report for a completed run.
func New(needlePath, haystackPath string) *Document {
	return &Document{
		Version:      CurrentVersion,
		Created:      time.Now(),
		NeedlePath:   needlePath,
		HaystackPath: haystackPath,
	}
}

// Load reads a report from a JSON file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	if doc.Version > CurrentVersion {
		return nil, fmt.Errorf("report version %d is newer than supported version %d",
			doc.Version, CurrentVersion)
	}

	return &doc, nil
}

// Save writes the report to a file as indented JSON.
func (d *Document) Save(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
