package extract

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/napcet/3mf-reader/core/utils"
	"github.com/napcet/3mf-reader/feature/project/gcode"
	"github.com/napcet/3mf-reader/feature/project/models"
)

// Declared defaults for missing per-slot sequence entries.
const (
	defaultFilamentType  = "Unknown"
	defaultFilamentColor = "#808080"
	defaultVendor        = "Unknown"
	defaultDensity       = 1.24
	defaultNozzle        = 0.4
)

// buildFilaments builds the filament list purely from the raw per-slot
// sequences. The slot count is max(types, colors, 1) so slot 1 always exists,
// which is what lets object extruder assignment default to it safely.
func buildFilaments(raw models.RawSettings, palette []PaletteColor, threshold int) []models.Filament {
	types := raw.Get("filament_type")
	colors := raw.Get("filament_colour")

	count := types.Len()
	if colors.Len() > count {
		count = colors.Len()
	}
	if count < 1 {
		count = 1
	}

	filaments := make([]models.Filament, 0, count)
	for i := 0; i < count; i++ {
		color := raw.SlotValue("filament_colour", i, defaultFilamentColor)
		filaments = append(filaments, models.Filament{
			Slot:      i + 1,
			Type:      raw.SlotValue("filament_type", i, defaultFilamentType),
			Color:     color,
			ColorName: ColorName(color, palette, threshold),
			Vendor:    raw.SlotValue("filament_vendor", i, defaultVendor),
			Density:   utils.ToFloat(raw.SlotValue("filament_density", i, ""), defaultDensity),
			CostPerKg: utils.ToFloat(raw.SlotValue("filament_cost", i, ""), 0),
		})
	}
	return filaments
}

// overlayUsage augments filaments with per-slot scan aggregates. Slots with
// no scan match keep nil usage fields: nil means unknown, zero would claim
// the slot was present and unused.
func overlayUsage(filaments []models.Filament, stats *gcode.Statistics) {
	if stats == nil {
		return
	}
	for i := range filaments {
		slot := filaments[i].Slot
		if grams, ok := stats.WeightPerSlot[slot]; ok {
			filaments[i].UsedGrams = &grams
		}
		if mm, ok := stats.LengthPerSlot[slot]; ok {
			meters := mm / 1000.0
			filaments[i].UsedMeters = &meters
		}
		if cost, ok := stats.CostPerSlot[slot]; ok {
			filaments[i].EstimatedCost = &cost
		}
	}
}

// buildObjects builds geometry objects from the declared XML object list.
// Missing metadata defaults the name to empty and the extruder to slot 1.
func buildObjects(doc *settingsDocument) []models.GeometryObject {
	if doc == nil {
		return nil
	}

	objects := make([]models.GeometryObject, 0, len(doc.Objects))
	for _, elem := range doc.Objects {
		obj := models.GeometryObject{
			ID:       utils.ToInt(elem.ID, 0),
			Name:     metaValue(elem.Metadata, "name"),
			Extruder: 1,
		}
		if v := metaValue(elem.Metadata, "extruder"); v != "" {
			obj.Extruder = utils.ToInt(v, 1)
		}
		if v := metaValue(elem.Metadata, "source_file"); v != "" {
			obj.SourceFile = filepath.Base(v)
		}
		objects = append(objects, obj)
	}
	return objects
}

// buildPlates builds plates from per-plate JSON documents when any exist.
// Otherwise exactly one synthetic plate is produced from the project-wide
// settings plus the first <plate> element, falling back to pure defaults.
func buildPlates(plateDocs []plateDocument, doc *settingsDocument, raw models.RawSettings) []models.Plate {
	plates := make([]models.Plate, 0, len(plateDocs))
	for _, p := range plateDocs {
		plate := models.Plate{
			ID:             p.id,
			Name:           fmt.Sprintf("Plate %d", p.id),
			BedType:        utils.ToString(orDefault(p.field("bed_type"), "unknown")),
			NozzleDiameter: utils.ToFloat(p.field("nozzle_diameter"), defaultNozzle),
			IsSequential:   utils.ToBool(p.field("is_seq_print")),
			Objects:        plateObjects(p),
		}
		if v := p.field("prediction"); v != nil {
			secs := utils.ToInt(v, 0)
			plate.PrintTimeSeconds = &secs
		}
		if v := p.field("weight"); v != nil {
			grams := utils.ToFloat(v, 0)
			plate.WeightGrams = &grams
		}
		plates = append(plates, plate)
	}
	sort.Slice(plates, func(i, j int) bool { return plates[i].ID < plates[j].ID })

	if len(plates) > 0 {
		return plates
	}

	// Synthetic default plate.
	id := 1
	if doc != nil && len(doc.Plates) > 0 {
		if v := metaValue(doc.Plates[0].Metadata, "plater_id"); v != "" {
			id = utils.ToInt(v, 1)
		}
	}
	return []models.Plate{{
		ID:             id,
		Name:           fmt.Sprintf("Plate %d", id),
		BedType:        raw.First("curr_bed_type", "unknown"),
		NozzleDiameter: raw.Float("nozzle_diameter", defaultNozzle),
		IsSequential:   raw.First("print_sequence", "") == "by object",
	}}
}

// bedTempKey selects the bed-temperature setting key from the bed-type
// label. First matching substring wins; no match falls through to the hot
// plate key.
func bedTempKey(bedType string) string {
	label := strings.ToLower(bedType)
	switch {
	case strings.Contains(label, "cool"):
		return "cool_plate_temp"
	case strings.Contains(label, "textured"):
		return "textured_plate_temp"
	case strings.Contains(label, "eng"):
		return "eng_plate_temp"
	default:
		return "hot_plate_temp"
	}
}

// buildPrintSettings resolves the flat print settings. The mandatory subset
// always carries a default; optional parameters stay nil when undeclared or
// zero, matching how slicers use zero for "feature off".
func buildPrintSettings(raw models.RawSettings) models.PrintSettings {
	bedType := raw.First("curr_bed_type", "High Temp Plate")

	s := models.PrintSettings{
		LayerHeight:        raw.Float("layer_height", 0.2),
		InitialLayerHeight: raw.Float("initial_layer_print_height", 0.2),
		WallLoops:          raw.Int("wall_loops", 2),
		TopShellLayers:     raw.Int("top_shell_layers", 4),
		BottomShellLayers:  raw.Int("bottom_shell_layers", 3),
		InfillDensity:      raw.First("sparse_infill_density", "15%"),
		InfillPattern:      raw.First("sparse_infill_pattern", "grid"),
		NozzleTemp:         raw.Int("nozzle_temperature", 200),
		NozzleTempInitial:  raw.Int("nozzle_temperature_initial_layer", 200),
		BedTemp:            raw.Int(bedTempKey(bedType), 60),
		BedType:            bedType,
	}

	s.OuterWallSpeed = optInt(raw, "outer_wall_speed")
	s.InnerWallSpeed = optInt(raw, "inner_wall_speed")
	s.InfillSpeed = optInt(raw, "sparse_infill_speed")
	s.TravelSpeed = optInt(raw, "travel_speed")
	s.InitialLayerSpeed = optInt(raw, "initial_layer_speed")
	s.TopSurfaceSpeed = optInt(raw, "top_surface_speed")

	s.DefaultAcceleration = optInt(raw, "default_acceleration")
	s.OuterWallAcceleration = optInt(raw, "outer_wall_acceleration")
	s.InnerWallAcceleration = optInt(raw, "inner_wall_acceleration")

	s.LineWidth = optFloat(raw, "line_width")
	s.OuterWallLineWidth = optFloat(raw, "outer_wall_line_width")
	s.InnerWallLineWidth = optFloat(raw, "inner_wall_line_width")
	s.InfillLineWidth = optFloat(raw, "sparse_infill_line_width")

	s.RetractionLength = optFloat(raw, "retraction_length")
	s.RetractionSpeed = optInt(raw, "retraction_speed")
	s.ZHop = optFloat(raw, "z_hop")
	s.ZHopType = raw.First("z_hop_types", "")

	s.FanMinSpeed = optInt(raw, "fan_min_speed")
	s.FanMaxSpeed = optInt(raw, "fan_max_speed")

	s.SeamPosition = raw.First("seam_position", "")

	s.BrimType = raw.First("brim_type", "")
	s.BrimWidth = optFloat(raw, "brim_width")
	s.SkirtLoops = optInt(raw, "skirt_loops")

	s.SupportEnabled = raw.Get("enable_support").AsBool()
	if s.SupportEnabled {
		s.SupportType = raw.First("support_type", "")
	}

	ironing := raw.First("ironing_type", "")
	s.IroningEnabled = ironing != "" && ironing != "no ironing"

	fuzzy := raw.First("fuzzy_skin", "")
	if fuzzy != "" && fuzzy != "none" {
		s.FuzzySkin = fuzzy
	}

	return s
}

// buildStatistics maps scanner output onto the statistics record.
// Length converts from millimeters to meters.
func buildStatistics(stats *gcode.Statistics) *models.PrintStatistics {
	if stats == nil {
		return nil
	}
	return &models.PrintStatistics{
		TotalPrintTimeSeconds: stats.EstimatedTimeSeconds,
		TotalPrintTimeStr:     stats.EstimatedTimeStr,
		TotalWeightGrams:      stats.TotalWeightGrams,
		TotalFilamentMeters:   stats.TotalLengthMM / 1000.0,
		TotalCost:             stats.TotalCost,
		TotalLayers:           stats.TotalLayers,
		MaxZHeight:            stats.MaxZHeight,
	}
}

// optInt returns a pointer to the value under key, nil when undeclared,
// unparseable, or zero.
func optInt(raw models.RawSettings, key string) *int {
	v := raw.Int(key, 0)
	if v == 0 {
		return nil
	}
	return &v
}

// optFloat mirrors optInt for float-valued settings.
func optFloat(raw models.RawSettings, key string) *float64 {
	v := raw.Float(key, 0)
	if v == 0 {
		return nil
	}
	return &v
}
