package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/napcet/3mf-reader/feature/project/models"
)

// Options tunes report rendering.
type Options struct {
	// Currency is the symbol prefixed to cost values. Defaults to "$".
	Currency string
}

// Generator renders a compact Markdown report (about one page) from a
// project summary.
type Generator struct {
	summary  *models.ProjectSummary
	currency string
}

// NewGenerator creates a report generator for the given summary.
func NewGenerator(summary *models.ProjectSummary, opts Options) *Generator {
	currency := opts.Currency
	if currency == "" {
		currency = "$"
	}
	return &Generator{summary: summary, currency: currency}
}

// Generate returns the full Markdown document.
func (g *Generator) Generate() string {
	sections := []string{
		g.header(),
		g.printSummary(),
		g.materialsTable(),
		g.printSettings(),
		g.objectsList(),
		g.footer(),
	}

	var nonEmpty []string
	for _, s := range sections {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	return strings.Join(nonEmpty, "\n")
}

// Save writes the report into outputDir, deriving the filename from the
// project title. It returns the written path.
func (g *Generator) Save(outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(outputDir, SafeFilename(g.summary.Title)+".md")
	if err := os.WriteFile(path, []byte(g.Generate()), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func (g *Generator) header() string {
	s := g.summary
	return strings.Join([]string{
		fmt.Sprintf("# %s", s.Title),
		"",
		fmt.Sprintf("**Printer:** %s  ", s.PrinterModel),
		fmt.Sprintf("**Nozzle:** %vmm  ", s.NozzleDiameter),
		fmt.Sprintf("**Slicer:** %s  ", s.Application),
		fmt.Sprintf("**Report date:** %s", s.ExtractionDate.Format("2006-01-02 15:04")),
		"",
	}, "\n")
}

func (g *Generator) printSummary() string {
	stats := g.summary.Statistics
	if stats == nil {
		return "> *No G-code file found. Time and cost estimates are unavailable.*\n"
	}

	return strings.Join([]string{
		"## Print Summary",
		"",
		"| Metric | Value |",
		"|--------|-------|",
		fmt.Sprintf("| **Estimated time** | %s |", stats.FormatTime()),
		fmt.Sprintf("| **Total weight** | %.1fg |", stats.TotalWeightGrams),
		fmt.Sprintf("| **Filament** | %.2fm |", stats.TotalFilamentMeters),
		fmt.Sprintf("| **Estimated cost** | %s%.2f |", g.currency, stats.TotalCost),
		fmt.Sprintf("| **Layers** | %d |", stats.TotalLayers),
		fmt.Sprintf("| **Max height** | %.2fmm |", stats.MaxZHeight),
		"",
	}, "\n")
}

func (g *Generator) materialsTable() string {
	// Prefer filaments with actual usage; fall back to the configured,
	// assigned filaments (capped to keep the report at one page).
	var active []models.Filament
	for _, f := range g.summary.Filaments {
		if f.UsedGrams != nil && *f.UsedGrams > 0 {
			active = append(active, f)
		}
	}
	if len(active) == 0 {
		active = g.summary.ActiveFilaments()
		if len(active) > 4 {
			active = active[:4]
		}
	}
	if len(active) == 0 {
		return ""
	}

	lines := []string{
		"## Materials",
		"",
		"| Slot | Type | Color | Weight | Cost |",
		"|:----:|------|-------|-------:|-----:|",
	}
	for _, f := range active {
		weight := "-"
		if f.UsedGrams != nil {
			weight = fmt.Sprintf("%.1fg", *f.UsedGrams)
		}
		cost := "-"
		if f.EstimatedCost != nil {
			cost = fmt.Sprintf("%s%.2f", g.currency, *f.EstimatedCost)
		}
		lines = append(lines, fmt.Sprintf("| %d | %s | %s | %s | %s |",
			f.Slot, f.Type, colorDisplay(f), weight, cost))
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (g *Generator) printSettings() string {
	s := g.summary.Settings

	lines := []string{
		"## Settings",
		"",
		"### Quality",
		"",
		"| Parameter | Value |",
		"|-----------|-------|",
		fmt.Sprintf("| Layer height | %vmm |", s.LayerHeight),
		fmt.Sprintf("| First layer | %vmm |", s.InitialLayerHeight),
		fmt.Sprintf("| Walls | %d |", s.WallLoops),
		fmt.Sprintf("| Top/Bottom | %d/%d layers |", s.TopShellLayers, s.BottomShellLayers),
		fmt.Sprintf("| Infill | %s (%s) |", s.InfillDensity, s.InfillPattern),
	}
	if s.LineWidth != nil {
		lines = append(lines, fmt.Sprintf("| Line width | %vmm |", *s.LineWidth))
	}
	if s.SeamPosition != "" {
		lines = append(lines, fmt.Sprintf("| Seam position | %s |", s.SeamPosition))
	}
	lines = append(lines, "")

	speeds := [][2]any{
		{"Outer wall", s.OuterWallSpeed},
		{"Inner wall", s.InnerWallSpeed},
		{"Infill", s.InfillSpeed},
		{"Top surface", s.TopSurfaceSpeed},
		{"First layer", s.InitialLayerSpeed},
		{"Travel", s.TravelSpeed},
	}
	var speedRows []string
	for _, row := range speeds {
		if v, ok := row[1].(*int); ok && v != nil {
			speedRows = append(speedRows, fmt.Sprintf("| %s | %d mm/s |", row[0], *v))
		}
	}
	if len(speedRows) > 0 {
		lines = append(lines, "### Speeds", "", "| Parameter | Value |", "|-----------|-------|")
		lines = append(lines, speedRows...)
		lines = append(lines, "")
	}

	if s.DefaultAcceleration != nil || s.OuterWallAcceleration != nil {
		lines = append(lines, "### Acceleration", "", "| Parameter | Value |", "|-----------|-------|")
		if s.DefaultAcceleration != nil {
			lines = append(lines, fmt.Sprintf("| Default | %d mm/s² |", *s.DefaultAcceleration))
		}
		if s.OuterWallAcceleration != nil {
			lines = append(lines, fmt.Sprintf("| Outer wall | %d mm/s² |", *s.OuterWallAcceleration))
		}
		lines = append(lines, "")
	}

	lines = append(lines,
		"### Temperatures",
		"",
		"| Parameter | Value |",
		"|-----------|-------|",
		fmt.Sprintf("| Nozzle | %d°C |", s.NozzleTemp),
	)
	if s.NozzleTempInitial != s.NozzleTemp {
		lines = append(lines, fmt.Sprintf("| Nozzle (first layer) | %d°C |", s.NozzleTempInitial))
	}
	lines = append(lines, fmt.Sprintf("| Bed | %d°C (%s) |", s.BedTemp, s.BedType), "")

	if s.RetractionLength != nil || s.ZHop != nil {
		lines = append(lines, "### Retraction", "", "| Parameter | Value |", "|-----------|-------|")
		if s.RetractionLength != nil {
			lines = append(lines, fmt.Sprintf("| Distance | %vmm |", *s.RetractionLength))
		}
		if s.RetractionSpeed != nil {
			lines = append(lines, fmt.Sprintf("| Speed | %d mm/s |", *s.RetractionSpeed))
		}
		if s.ZHop != nil {
			info := fmt.Sprintf("%vmm", *s.ZHop)
			if s.ZHopType != "" {
				info += fmt.Sprintf(" (%s)", s.ZHopType)
			}
			lines = append(lines, fmt.Sprintf("| Z-hop | %s |", info))
		}
		lines = append(lines, "")
	}

	if s.FanMaxSpeed != nil {
		lines = append(lines, "### Cooling", "", "| Parameter | Value |", "|-----------|-------|")
		if s.FanMinSpeed != nil && *s.FanMinSpeed != *s.FanMaxSpeed {
			lines = append(lines, fmt.Sprintf("| Fan min | %d%% |", *s.FanMinSpeed))
			lines = append(lines, fmt.Sprintf("| Fan max | %d%% |", *s.FanMaxSpeed))
		} else {
			lines = append(lines, fmt.Sprintf("| Fan speed | %d%% |", *s.FanMaxSpeed))
		}
		lines = append(lines, "")
	}

	var features []string
	if s.SupportEnabled {
		label := s.SupportType
		if label == "" {
			label = "enabled"
		}
		features = append(features, fmt.Sprintf("- Support: %s", label))
	}
	if s.BrimType != "" {
		brim := fmt.Sprintf("- Brim: %s", s.BrimType)
		if s.BrimWidth != nil {
			brim += fmt.Sprintf(" (%vmm)", *s.BrimWidth)
		}
		features = append(features, brim)
	} else if s.SkirtLoops != nil && *s.SkirtLoops > 0 {
		features = append(features, fmt.Sprintf("- Skirt (%d loops)", *s.SkirtLoops))
	}
	if s.IroningEnabled {
		features = append(features, "- Ironing enabled")
	}
	if s.FuzzySkin != "" {
		features = append(features, fmt.Sprintf("- Fuzzy skin: %s", s.FuzzySkin))
	}
	if len(features) > 0 {
		lines = append(lines, "### Special Features", "")
		lines = append(lines, features...)
		if !s.SupportEnabled {
			lines = append(lines, "- Support disabled")
		}
		lines = append(lines, "")
	} else {
		lines = append(lines, "- Support disabled", "")
	}

	return strings.Join(lines, "\n")
}

func (g *Generator) objectsList() string {
	objects := g.summary.Objects
	if len(objects) == 0 {
		return ""
	}

	lines := []string{"## Objects", ""}
	for _, obj := range objects {
		info := ""
		for _, f := range g.summary.Filaments {
			if f.Slot == obj.Extruder {
				info = fmt.Sprintf(" (%s)", f.Type)
				break
			}
		}
		lines = append(lines, fmt.Sprintf("- **%s** — Extruder %d%s", obj.Name, obj.Extruder, info))
	}
	lines = append(lines, "",
		fmt.Sprintf("*Total: %d object(s) on %d plate(s)*", len(objects), g.summary.TotalPlates()), "")
	return strings.Join(lines, "\n")
}

func (g *Generator) footer() string {
	s := g.summary
	lines := []string{
		"---",
		"",
		fmt.Sprintf("**Project:** `%s`  ", s.SourceFile),
	}
	if s.GCodeFile != "" {
		lines = append(lines, fmt.Sprintf("**G-code:** `%s`  ", s.GCodeFile))
	}
	lines = append(lines, fmt.Sprintf("**Generated at:** %s", s.ExtractionDate.Format("2006-01-02 15:04")))
	return strings.Join(lines, "\n")
}

func colorDisplay(f models.Filament) string {
	if f.ColorName != "" {
		return fmt.Sprintf("%s (%s)", f.ColorName, f.Color)
	}
	return f.Color
}

// SafeFilename strips characters that are invalid in filenames.
func SafeFilename(name string) string {
	const invalid = `<>:"/\|?*`
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalid, r) {
			return '_'
		}
		return r
	}, name)
	return strings.TrimSpace(cleaned)
}
