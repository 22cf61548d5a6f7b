package models

import (
	"fmt"
	"time"
)

// Filament describes one material slot of the project. Usage fields are nil
// unless the G-code scan produced a match for the slot; nil means "unknown",
// zero would mean "used none".
type Filament struct {
	// Slot is the 1-based material/extruder channel index.
	Slot int `json:"slot"`
	// Type is the material label (PLA, PETG, ABS, ...).
	Type string `json:"type"`
	// Color is the hex color string, e.g. "#FFFFFF".
	Color string `json:"color"`
	// ColorName is the approximate named color derived from Color.
	ColorName string `json:"color_name,omitempty"`
	// Vendor is the filament manufacturer label.
	Vendor string `json:"vendor"`
	// Density is the material density in g/cm³.
	Density float64 `json:"density"`
	// CostPerKg is the declared material cost per kilogram.
	CostPerKg float64 `json:"cost_per_kg"`

	// UsedGrams is the sliced mass for this slot, if known.
	UsedGrams *float64 `json:"used_grams,omitempty"`
	// UsedMeters is the sliced filament length for this slot, if known.
	UsedMeters *float64 `json:"used_meters,omitempty"`
	// EstimatedCost is the sliced cost for this slot, if known.
	EstimatedCost *float64 `json:"estimated_cost,omitempty"`
}

// GeometryObject is one object placed in the project. Built once during
// extraction and immutable afterwards.
type GeometryObject struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Extruder    int      `json:"extruder"`
	LayerHeight *float64 `json:"layer_height,omitempty"`
	SourceFile  string   `json:"source_file,omitempty"`
}

// Plate is one build-bed instance. Prediction fields are present only when
// plate-level slicing metadata existed in the container.
type Plate struct {
	ID             int              `json:"id"`
	Name           string           `json:"name"`
	BedType        string           `json:"bed_type"`
	NozzleDiameter float64          `json:"nozzle_diameter"`
	IsSequential   bool             `json:"is_sequential"`
	Objects        []GeometryObject `json:"objects,omitempty"`

	PrintTimeSeconds *int     `json:"print_time_seconds,omitempty"`
	WeightGrams      *float64 `json:"weight_grams,omitempty"`
}

// PrintSettings is the flat set of quality/speed/temperature/adhesion
// parameters resolved from the raw settings. The mandatory subset (layer
// heights, walls, shells, temperatures, bed type) always carries a default;
// the rest is nil/zero when the producing tool did not declare it.
type PrintSettings struct {
	LayerHeight        float64 `json:"layer_height"`
	InitialLayerHeight float64 `json:"initial_layer_height"`
	WallLoops          int     `json:"wall_loops"`
	TopShellLayers     int     `json:"top_shell_layers"`
	BottomShellLayers  int     `json:"bottom_shell_layers"`
	InfillDensity      string  `json:"infill_density"`
	InfillPattern      string  `json:"infill_pattern"`

	NozzleTemp        int    `json:"nozzle_temp"`
	NozzleTempInitial int    `json:"nozzle_temp_initial"`
	BedTemp           int    `json:"bed_temp"`
	BedType           string `json:"bed_type"`

	// Speeds in mm/s.
	OuterWallSpeed    *int `json:"outer_wall_speed,omitempty"`
	InnerWallSpeed    *int `json:"inner_wall_speed,omitempty"`
	InfillSpeed       *int `json:"infill_speed,omitempty"`
	TravelSpeed       *int `json:"travel_speed,omitempty"`
	InitialLayerSpeed *int `json:"initial_layer_speed,omitempty"`
	TopSurfaceSpeed   *int `json:"top_surface_speed,omitempty"`

	// Accelerations in mm/s².
	DefaultAcceleration   *int `json:"default_acceleration,omitempty"`
	OuterWallAcceleration *int `json:"outer_wall_acceleration,omitempty"`
	InnerWallAcceleration *int `json:"inner_wall_acceleration,omitempty"`

	// Line widths in mm.
	LineWidth          *float64 `json:"line_width,omitempty"`
	OuterWallLineWidth *float64 `json:"outer_wall_line_width,omitempty"`
	InnerWallLineWidth *float64 `json:"inner_wall_line_width,omitempty"`
	InfillLineWidth    *float64 `json:"infill_line_width,omitempty"`

	// Retraction.
	RetractionLength *float64 `json:"retraction_length,omitempty"`
	RetractionSpeed  *int     `json:"retraction_speed,omitempty"`
	ZHop             *float64 `json:"z_hop,omitempty"`
	ZHopType         string   `json:"z_hop_type,omitempty"`

	// Cooling, percent fan speed.
	FanMinSpeed *int `json:"fan_min_speed,omitempty"`
	FanMaxSpeed *int `json:"fan_max_speed,omitempty"`

	SeamPosition string `json:"seam_position,omitempty"`

	// Bed adhesion.
	BrimType   string   `json:"brim_type,omitempty"`
	BrimWidth  *float64 `json:"brim_width,omitempty"`
	SkirtLoops *int     `json:"skirt_loops,omitempty"`

	SupportEnabled bool   `json:"support_enabled"`
	SupportType    string `json:"support_type,omitempty"`

	IroningEnabled bool   `json:"ironing_enabled"`
	FuzzySkin      string `json:"fuzzy_skin,omitempty"`
}

// PrintStatistics is the aggregate outcome scanned from the G-code stream.
type PrintStatistics struct {
	TotalPrintTimeSeconds int     `json:"total_print_time_seconds"`
	TotalPrintTimeStr     string  `json:"total_print_time_str,omitempty"`
	TotalWeightGrams      float64 `json:"total_weight_grams"`
	TotalFilamentMeters   float64 `json:"total_filament_meters"`
	TotalCost             float64 `json:"total_cost"`
	TotalLayers           int     `json:"total_layers"`
	MaxZHeight            float64 `json:"max_z_height"`
}

// FormatTime returns the slicer's own formatted duration when present,
// otherwise a compact rendering derived from the seconds value.
func (s PrintStatistics) FormatTime() string {
	if s.TotalPrintTimeStr != "" {
		return s.TotalPrintTimeStr
	}
	hours := s.TotalPrintTimeSeconds / 3600
	minutes := (s.TotalPrintTimeSeconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// ProjectSummary is the root aggregate produced by one extraction run.
// It exclusively owns all nested entities and is immutable once returned.
type ProjectSummary struct {
	Title          string    `json:"title"`
	SourceFile     string    `json:"source_file"`
	GCodeFile      string    `json:"gcode_file,omitempty"`
	ExtractionDate time.Time `json:"extraction_date"`

	Application    string  `json:"application"`
	PrinterModel   string  `json:"printer_model"`
	NozzleDiameter float64 `json:"nozzle_diameter"`

	Filaments []Filament       `json:"filaments"`
	Objects   []GeometryObject `json:"objects"`
	Plates    []Plate          `json:"plates"`

	Settings   PrintSettings    `json:"settings"`
	Statistics *PrintStatistics `json:"statistics,omitempty"`
	IsSliced   bool             `json:"is_sliced"`
}

// TotalPlates returns the number of plates in the project.
func (s *ProjectSummary) TotalPlates() int { return len(s.Plates) }

// TotalObjects returns the number of geometry objects in the project.
func (s *ProjectSummary) TotalObjects() int { return len(s.Objects) }

// ActiveFilaments returns only the filaments assigned to at least one object.
func (s *ProjectSummary) ActiveFilaments() []Filament {
	used := make(map[int]struct{}, len(s.Objects))
	for _, obj := range s.Objects {
		used[obj.Extruder] = struct{}{}
	}

	var active []Filament
	for _, f := range s.Filaments {
		if _, ok := used[f.Slot]; ok {
			active = append(active, f)
		}
	}
	return active
}
