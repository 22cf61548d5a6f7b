package report_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/napcet/3mf-reader/feature/project/models"
	"github.com/napcet/3mf-reader/feature/project/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }

func slicedSummary() *models.ProjectSummary {
	return &models.ProjectSummary{
		Title:          "Benchy",
		SourceFile:     "benchy.3mf",
		GCodeFile:      "benchy.gcode",
		ExtractionDate: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		Application:    "OrcaSlicer 2.2.0",
		PrinterModel:   "Bambu Lab P1S",
		NozzleDiameter: 0.4,
		Filaments: []models.Filament{
			{Slot: 1, Type: "PLA", Color: "#FFFFFF", ColorName: "White",
				UsedGrams: ptrF(15.2), EstimatedCost: ptrF(0.30)},
			{Slot: 2, Type: "PETG", Color: "#FF0000", ColorName: "Red"},
		},
		Objects: []models.GeometryObject{
			{ID: 2, Name: "Hull", Extruder: 1},
		},
		Plates: []models.Plate{{ID: 1, Name: "Plate 1", BedType: "textured_plate"}},
		Settings: models.PrintSettings{
			LayerHeight: 0.2, InitialLayerHeight: 0.2,
			WallLoops: 2, TopShellLayers: 4, BottomShellLayers: 3,
			InfillDensity: "15%", InfillPattern: "grid",
			NozzleTemp: 220, NozzleTempInitial: 220, BedTemp: 55,
			BedType:     "Textured PEI Plate",
			TravelSpeed: ptrI(350),
		},
		Statistics: &models.PrintStatistics{
			TotalPrintTimeSeconds: 7565,
			TotalPrintTimeStr:     "2h 6m 5s",
			TotalWeightGrams:      15.2,
			TotalFilamentMeters:   5.12,
			TotalCost:             0.30,
			TotalLayers:           120,
			MaxZHeight:            48.0,
		},
		IsSliced: true,
	}
}

func TestGenerate_WithStatistics(t *testing.T) {
	md := report.NewGenerator(slicedSummary(), report.Options{}).Generate()

	assert.Contains(t, md, "# Benchy")
	assert.Contains(t, md, "**Slicer:** OrcaSlicer 2.2.0")
	assert.Contains(t, md, "## Print Summary")
	assert.Contains(t, md, "| **Estimated time** | 2h 6m 5s |")
	assert.Contains(t, md, "| **Total weight** | 15.2g |")
	assert.Contains(t, md, "| **Estimated cost** | $0.30 |")
	assert.Contains(t, md, "## Materials")
	// Only the used filament shows up.
	assert.Contains(t, md, "| 1 | PLA | White (#FFFFFF) | 15.2g | $0.30 |")
	assert.NotContains(t, md, "| 2 | PETG |")
	assert.Contains(t, md, "| Travel | 350 mm/s |")
	assert.Contains(t, md, "| Bed | 55°C (Textured PEI Plate) |")
	assert.Contains(t, md, "- Support disabled")
	assert.Contains(t, md, "**G-code:** `benchy.gcode`")
}

func TestGenerate_WithoutStatistics(t *testing.T) {
	summary := slicedSummary()
	summary.Statistics = nil
	summary.GCodeFile = ""
	summary.IsSliced = false
	summary.Filaments[0].UsedGrams = nil
	summary.Filaments[0].EstimatedCost = nil

	md := report.NewGenerator(summary, report.Options{}).Generate()

	assert.NotContains(t, md, "## Print Summary")
	assert.Contains(t, md, "No G-code file found")
	assert.NotContains(t, md, "**G-code:**")
	// Configured filaments still listed, with dashes for usage.
	assert.Contains(t, md, "| 1 | PLA | White (#FFFFFF) | - | - |")
}

func TestGenerate_CustomCurrency(t *testing.T) {
	md := report.NewGenerator(slicedSummary(), report.Options{Currency: "R$"}).Generate()
	assert.Contains(t, md, "| **Estimated cost** | R$0.30 |")
}

func TestSave_DerivesFilenameFromTitle(t *testing.T) {
	summary := slicedSummary()
	summary.Title = `Benchy: the "classic"`

	dir := t.TempDir()
	path, err := report.NewGenerator(summary, report.Options{}).Save(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, `Benchy_ the _classic_.md`), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Benchy"))
}

func TestSafeFilename(t *testing.T) {
	assert.Equal(t, "a_b_c", report.SafeFilename(`a/b\c`))
	assert.Equal(t, "plain", report.SafeFilename("plain"))
	assert.Equal(t, "spaced", report.SafeFilename("  spaced  "))
}
