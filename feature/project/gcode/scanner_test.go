package gcode_test

import (
	"strings"
	"testing"

	"github.com/napcet/3mf-reader/feature/project/gcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orcaSample = `; HEADER_BLOCK_START
; generated by OrcaSlicer 2.2.0 on 2024-09-14 at 10:22:31
; total layer number: 250
; max_z_height: 50.00
G90
G1 X10 Y10 E0.5
; filament used [mm] = 19823.44,1032.10
; filament used [g] = 59.11,3.08
; filament cost = 1.18,0.06
; total filament used [g] : 62.19
; total filament cost : 1.24
; estimated printing time (normal mode) = 2h 6m 5s
`

func TestScan_OrcaAnnotations(t *testing.T) {
	stats, err := gcode.Scan(strings.NewReader(orcaSample))
	require.NoError(t, err)

	assert.Equal(t, "OrcaSlicer 2.2.0", stats.Generator)
	assert.Equal(t, "2h 6m 5s", stats.EstimatedTimeStr)
	assert.Equal(t, 2*3600+6*60+5, stats.EstimatedTimeSeconds)

	assert.Equal(t, map[int]float64{1: 19823.44, 2: 1032.10}, stats.LengthPerSlot)
	assert.Equal(t, map[int]float64{1: 59.11, 2: 3.08}, stats.WeightPerSlot)
	assert.Equal(t, map[int]float64{1: 1.18, 2: 0.06}, stats.CostPerSlot)

	assert.Equal(t, 62.19, stats.TotalWeightGrams)
	assert.Equal(t, 1.24, stats.TotalCost)
	assert.Equal(t, 250, stats.TotalLayers)
	assert.Equal(t, 50.0, stats.MaxZHeight)
}

func TestScan_MarlinDialect(t *testing.T) {
	sample := ";TIME:7565\n;LAYER_COUNT:120\nG28\n"

	stats, err := gcode.Scan(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, 7565, stats.EstimatedTimeSeconds)
	assert.Empty(t, stats.EstimatedTimeStr)
	assert.Equal(t, 120, stats.TotalLayers)
}

func TestScan_MalformedTokenLeavesOnlyThatFieldUnset(t *testing.T) {
	sample := strings.Join([]string{
		"; filament used [g] = 59.11,oops,3.08",
		"; total filament used [g] : not-a-number",
		"; total layer number: 250",
	}, "\n")

	stats, err := gcode.Scan(strings.NewReader(sample))
	require.NoError(t, err)

	// Slot 2 is skipped, its neighbors survive.
	assert.Equal(t, map[int]float64{1: 59.11, 3: 3.08}, stats.WeightPerSlot)
	// The malformed total stays at zero value.
	assert.Zero(t, stats.TotalWeightGrams)
	// Later recognized lines are unaffected.
	assert.Equal(t, 250, stats.TotalLayers)
}

func TestScan_ThousandsSeparators(t *testing.T) {
	sample := "; total filament used [mm] : 1,234.56\n"

	stats, err := gcode.Scan(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, 1234.56, stats.TotalLengthMM)
}

func TestScan_UnrecognizedAnnotationsIgnored(t *testing.T) {
	sample := strings.Join([]string{
		"; some future annotation = 42",
		"; WIPE_TOWER: yes",
		"; total layer number: 10",
	}, "\n")

	stats, err := gcode.Scan(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, 10, stats.TotalLayers)
}

func TestScan_ExtraWhitespaceAndCase(t *testing.T) {
	sample := ";   Total Layer Number :   33  \n"

	stats, err := gcode.Scan(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, 33, stats.TotalLayers)
}

func TestScanFile_Missing(t *testing.T) {
	_, err := gcode.ScanFile("/nonexistent/file.gcode")
	assert.ErrorIs(t, err, gcode.ErrStreamRead)
}

func TestParseDurationVariants(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		seconds int
		str     string
	}{
		{"HoursMinutesSeconds", "; estimated printing time (normal mode) = 2h 6m 5s", 7565, "2h 6m 5s"},
		{"Days", "; estimated printing time (normal mode) = 1d 2h 3m 4s", 93784, "1d 2h 3m 4s"},
		{"MinutesOnly", "; estimated printing time (normal mode) = 45m", 2700, "45m"},
		{"ModelPrintingTime", "; model printing time: 1h 2m; total estimated time: 1h 10m", 3720, "1h 2m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := gcode.Scan(strings.NewReader(tt.line + "\n"))
			require.NoError(t, err)
			assert.Equal(t, tt.seconds, stats.EstimatedTimeSeconds)
			assert.Equal(t, tt.str, stats.EstimatedTimeStr)
		})
	}
}
