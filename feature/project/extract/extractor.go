package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/napcet/3mf-reader/core/archive"
	"github.com/napcet/3mf-reader/feature/project/gcode"
	"github.com/napcet/3mf-reader/feature/project/models"

	"go.uber.org/zap"
)

// ErrNotContainer indicates the given path does not carry the .3mf extension.
var ErrNotContainer = errors.New("file must have a .3mf extension")

// Options tunes one extraction run. The zero value is usable.
type Options struct {
	// GCodePath pins the machine-control file explicitly, skipping the
	// candidate resolver.
	GCodePath string

	// Chooser disambiguates when the resolver finds multiple candidates.
	// Nil leaves ambiguity unresolved (statistics absent).
	Chooser gcode.Chooser

	// Palette and ColorDistanceThreshold tune approximate color naming.
	// Zero values select the package defaults.
	Palette                []PaletteColor
	ColorDistanceThreshold int

	// Logger receives degraded-data diagnostics. Nil disables them.
	Logger *zap.Logger
}

// Extractor extracts one ProjectSummary from a container and its correlated
// G-code stream. One extractor serves one container path; concurrent batch
// processing is the caller's concern, the extractor holds no shared state.
type Extractor struct {
	path      string
	opts      Options
	log       *zap.Logger
	palette   []PaletteColor
	threshold int
}

// New creates an extractor for the container at path.
func New(path string, opts Options) *Extractor {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	palette := opts.Palette
	if palette == nil {
		palette = DefaultPalette
	}
	threshold := opts.ColorDistanceThreshold
	if threshold <= 0 {
		threshold = DefaultColorDistanceThreshold
	}
	return &Extractor{path: path, opts: opts, log: log, palette: palette, threshold: threshold}
}

// Extract runs the full extraction and reconciliation.
//
// Only fatal input errors (missing file, not a container) abort the run.
// Every optional input degrades locally: missing XML/JSON entries produce
// defaults, and a missing, ambiguous, or unreadable G-code stream leaves the
// statistics absent with IsSliced false.
func (e *Extractor) Extract() (*models.ProjectSummary, error) {
	if !strings.EqualFold(filepath.Ext(e.path), ".3mf") {
		return nil, fmt.Errorf("%w: %s", ErrNotContainer, e.path)
	}

	gcodePath, stats := e.scanGCode()

	container, err := archive.Open(e.path)
	if err != nil {
		return nil, err
	}
	defer container.Close()

	modelDoc := loadModelDocument(container, e.log)
	raw := loadProjectSettings(container, e.log)
	settingsDoc := loadSettingsDocument(container, e.log)
	plateDocs := loadPlateDocuments(container, e.log)

	filaments := buildFilaments(raw, e.palette, e.threshold)
	overlayUsage(filaments, stats)

	summary := &models.ProjectSummary{
		Title:          e.title(modelDoc),
		SourceFile:     filepath.Base(e.path),
		ExtractionDate: time.Now(),
		Application:    e.application(modelDoc, stats),
		PrinterModel:   raw.First("printer_model", "Unknown"),
		NozzleDiameter: raw.Float("nozzle_diameter", defaultNozzle),
		Filaments:      filaments,
		Objects:        buildObjects(settingsDoc),
		Plates:         buildPlates(plateDocs, settingsDoc, raw),
		Settings:       buildPrintSettings(raw),
		Statistics:     buildStatistics(stats),
		IsSliced:       stats != nil,
	}
	if gcodePath != "" {
		summary.GCodeFile = filepath.Base(gcodePath)
	}

	return summary, nil
}

// scanGCode resolves and scans the correlated machine-control stream.
// Failure here never fails extraction; it only costs the statistics.
func (e *Extractor) scanGCode() (string, *gcode.Statistics) {
	path := e.opts.GCodePath
	if path == "" {
		candidates, err := gcode.FindCandidates(filepath.Dir(e.path))
		if err != nil {
			e.log.Warn("gcode candidate listing failed", zap.Error(err))
			return "", nil
		}
		resolved, ok := gcode.Resolve(e.path, candidates, e.opts.Chooser)
		if !ok {
			if len(candidates) > 1 {
				e.log.Info("multiple gcode candidates unresolved, statistics unavailable",
					zap.Int("candidates", len(candidates)))
			}
			return "", nil
		}
		path = resolved
	}

	stats, err := gcode.ScanFile(path)
	if err != nil {
		e.log.Warn("gcode scan failed, statistics unavailable",
			zap.String("gcode", path), zap.Error(err))
		return "", nil
	}

	e.log.Debug("gcode scan complete",
		zap.String("gcode", path), zap.String("generator", stats.Generator))
	return path, stats
}

// title resolves the project title from the model metadata, falling back to
// the container filename.
func (e *Extractor) title(doc *modelDocument) string {
	if title := strings.TrimSpace(doc.MetadataValue("Title")); title != "" {
		return title
	}
	base := filepath.Base(e.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// application resolves the producing tool label. The G-code generator string
// wins over the container's declared metadata: forked slicers are known to
// inherit the upstream name in the 3MF metadata.
func (e *Extractor) application(doc *modelDocument, stats *gcode.Statistics) string {
	app := doc.MetadataValue("Application")
	if app == "" {
		app = "Unknown"
	}
	if stats != nil && stats.Generator != "" {
		app = stats.Generator
	}
	return app
}
