package models_test

import (
	"testing"

	"github.com/napcet/3mf-reader/feature/project/models"

	"github.com/stretchr/testify/assert"
)

func TestValueOf(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want models.Value
	}{
		{"String", "PLA", models.StringValue("PLA")},
		{"Number", 0.4, models.Value{Kind: models.KindNumber, Num: 0.4}},
		{"Bool", true, models.Value{Kind: models.KindBool, Bool: true}},
		{"List", []any{"PLA", "PETG"}, models.ListValue("PLA", "PETG")},
		{"MixedList", []any{"0.2", 0.3}, models.ListValue("0.2", "0.3")},
		{"Nil", nil, models.Value{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, models.ValueOf(tt.raw))
		})
	}
}

func TestValue_First(t *testing.T) {
	assert.Equal(t, "PLA", models.ListValue("PLA", "PETG").First("x"))
	assert.Equal(t, "x", models.ListValue().First("x"))
	assert.Equal(t, "x", models.Value{}.First("x"))
	assert.Equal(t, "0.4", models.StringValue("0.4").First("x"))
	assert.Equal(t, "1", models.Value{Kind: models.KindBool, Bool: true}.First("x"))
}

func TestValue_At(t *testing.T) {
	list := models.ListValue("a", "b")

	v, ok := list.At(1)
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = list.At(2)
	assert.False(t, ok)

	// Scalars behave as a one-element list.
	v, ok = models.StringValue("PLA").At(0)
	assert.True(t, ok)
	assert.Equal(t, "PLA", v)

	_, ok = models.StringValue("PLA").At(1)
	assert.False(t, ok)
}

func TestRawSettings_Coercions(t *testing.T) {
	s := models.RawSettings{
		"layer_height":    models.StringValue("0.2"),
		"wall_loops":      models.StringValue("3"),
		"nozzle_diameter": models.ListValue("0.4"),
		"enable_support":  models.StringValue("1"),
		"broken":          models.StringValue("not-a-number"),
	}

	assert.Equal(t, 0.2, s.Float("layer_height", 0))
	assert.Equal(t, 3, s.Int("wall_loops", 0))
	assert.Equal(t, 0.4, s.Float("nozzle_diameter", 0))
	assert.True(t, s.Get("enable_support").AsBool())

	// Coercion failures fall back to the default, never abort.
	assert.Equal(t, 1.24, s.Float("broken", 1.24))
	assert.Equal(t, 0.2, s.Float("missing", 0.2))
}

func TestProjectSummary_ActiveFilaments(t *testing.T) {
	summary := &models.ProjectSummary{
		Filaments: []models.Filament{{Slot: 1}, {Slot: 2}, {Slot: 3}},
		Objects: []models.GeometryObject{
			{ID: 1, Extruder: 1},
			{ID: 2, Extruder: 3},
		},
	}

	active := summary.ActiveFilaments()
	assert.Len(t, active, 2)
	assert.Equal(t, 1, active[0].Slot)
	assert.Equal(t, 3, active[1].Slot)
}

func TestPrintStatistics_FormatTime(t *testing.T) {
	assert.Equal(t, "2h 6m 5s", models.PrintStatistics{TotalPrintTimeStr: "2h 6m 5s"}.FormatTime())
	assert.Equal(t, "2h 6m", models.PrintStatistics{TotalPrintTimeSeconds: 7565}.FormatTime())
	assert.Equal(t, "45m", models.PrintStatistics{TotalPrintTimeSeconds: 2700}.FormatTime())
}
