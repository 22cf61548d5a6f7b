package extract

import (
	"encoding/json"
	"encoding/xml"
	"regexp"
	"strconv"

	"github.com/napcet/3mf-reader/core/archive"
	"github.com/napcet/3mf-reader/core/utils"
	"github.com/napcet/3mf-reader/feature/project/models"

	"go.uber.org/zap"
)

// Container entry paths fixed by the 3MF package layout.
const (
	entryModel           = "3D/3dmodel.model"
	entryProjectSettings = "Metadata/project_settings.config"
	entryModelSettings   = "Metadata/model_settings.config"
	plateEntryPrefix     = "Metadata/plate_"
)

// nsCore is the 3MF core model namespace. Producer forks add their own
// namespaces on top, so metadata lookup falls back to a namespace-agnostic
// search when the namespaced one finds nothing.
const nsCore = "http://schemas.microsoft.com/3dmanufacturing/core/2015/02"

var plateEntryPattern = regexp.MustCompile(`^Metadata/plate_(\d+)\.json$`)

// modelDocument is the parsed 3D/3dmodel.model geometry document.
type modelDocument struct {
	Metadata []modelMetadata `xml:"metadata"`
}

type modelMetadata struct {
	XMLName xml.Name
	Name    string `xml:"name,attr"`
	Value   string `xml:",chardata"`
}

// MetadataValue returns the first metadata node with the given name,
// preferring nodes in the core model namespace. Empty when absent.
func (d *modelDocument) MetadataValue(name string) string {
	if d == nil {
		return ""
	}
	for _, meta := range d.Metadata {
		if meta.XMLName.Space == nsCore && meta.Name == name {
			return meta.Value
		}
	}
	for _, meta := range d.Metadata {
		if meta.Name == name {
			return meta.Value
		}
	}
	return ""
}

// settingsDocument is the parsed Metadata/model_settings.config document
// describing declared objects and plates.
type settingsDocument struct {
	Objects []settingsObject `xml:"object"`
	Plates  []settingsPlate  `xml:"plate"`
}

type settingsObject struct {
	ID       string       `xml:"id,attr"`
	Metadata []kvMetadata `xml:"metadata"`
}

type settingsPlate struct {
	Metadata []kvMetadata `xml:"metadata"`
}

type kvMetadata struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

// metaValue returns the value for key among the pairs, or "".
func metaValue(pairs []kvMetadata, key string) string {
	for _, kv := range pairs {
		if kv.Key == key {
			return kv.Value
		}
	}
	return ""
}

// loadModelDocument reads and parses the main geometry document.
// Malformed or absent XML degrades to nil, never a failure.
func loadModelDocument(c *archive.Container, log *zap.Logger) *modelDocument {
	data, err := c.ReadEntry(entryModel)
	if err != nil {
		log.Debug("main model document not available", zap.Error(err))
		return nil
	}

	var doc modelDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		log.Warn("main model document malformed, continuing without it", zap.Error(err))
		return nil
	}
	return &doc
}

// loadSettingsDocument reads and parses the model settings XML.
func loadSettingsDocument(c *archive.Container, log *zap.Logger) *settingsDocument {
	data, err := c.ReadEntry(entryModelSettings)
	if err != nil {
		log.Debug("model settings not available", zap.Error(err))
		return nil
	}

	var doc settingsDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		log.Warn("model settings malformed, continuing without them", zap.Error(err))
		return nil
	}
	return &doc
}

// loadProjectSettings reads the project-wide settings JSON into RawSettings.
// Malformed or absent JSON degrades to an empty mapping.
func loadProjectSettings(c *archive.Container, log *zap.Logger) models.RawSettings {
	data, err := c.ReadEntry(entryProjectSettings)
	if err != nil {
		log.Debug("project settings not available", zap.Error(err))
		return models.RawSettings{}
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Warn("project settings malformed, continuing with defaults", zap.Error(err))
		return models.RawSettings{}
	}

	settings := make(models.RawSettings, len(raw))
	for key, value := range raw {
		settings[key] = models.ValueOf(value)
	}
	return settings
}

// plateDocument is one parsed Metadata/plate_<n>.json entry.
type plateDocument struct {
	id   int
	data map[string]any
}

// field returns the raw value under key, or nil.
func (p plateDocument) field(key string) any {
	return p.data[key]
}

// loadPlateDocuments parses every plate JSON entry independently, ordered by
// plate number. A single malformed plate is skipped; it must not abort the
// extraction of the other plates.
func loadPlateDocuments(c *archive.Container, log *zap.Logger) []plateDocument {
	var plates []plateDocument
	for _, name := range c.List(plateEntryPrefix) {
		m := plateEntryPattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		data, err := c.ReadEntry(name)
		if err != nil {
			log.Warn("plate entry unreadable, skipping", zap.String("entry", name), zap.Error(err))
			continue
		}

		var fields map[string]any
		if err := json.Unmarshal(data, &fields); err != nil {
			log.Warn("plate entry malformed, skipping", zap.String("entry", name), zap.Error(err))
			continue
		}

		plates = append(plates, plateDocument{id: id, data: fields})
	}
	return plates
}

// plateObjects extracts the geometry objects listed in a plate document.
func plateObjects(p plateDocument) []models.GeometryObject {
	list, ok := p.field("bbox_objects").([]any)
	if !ok {
		return nil
	}

	var objects []models.GeometryObject
	for _, item := range list {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		obj := models.GeometryObject{
			ID:       utils.ToInt(fields["id"], 0),
			Name:     utils.ToString(orDefault(fields["name"], "Unknown")),
			Extruder: 1,
		}
		if lh, ok := fields["layer_height"].(float64); ok {
			obj.LayerHeight = &lh
		}
		objects = append(objects, obj)
	}
	return objects
}

// orDefault substitutes def for nil values before coercion.
func orDefault(v any, def any) any {
	if v == nil {
		return def
	}
	return v
}
