package extract

import (
	"strconv"
	"strings"
)

// PaletteColor is one named reference color.
type PaletteColor struct {
	R, G, B int
	Name    string
}

// DefaultPalette is the reference palette for approximate color naming.
// The entries and the distance threshold are deliberate constants carried
// over from the report format this tool replaces.
var DefaultPalette = []PaletteColor{
	{255, 255, 255, "White"},
	{0, 0, 0, "Black"},
	{255, 0, 0, "Red"},
	{0, 255, 0, "Green"},
	{0, 0, 255, "Blue"},
	{255, 255, 0, "Yellow"},
	{255, 165, 0, "Orange"},
	{128, 128, 128, "Gray"},
}

// DefaultColorDistanceThreshold is the squared-distance cutoff above which
// no palette entry counts as "close enough" and the name stays empty.
const DefaultColorDistanceThreshold = 10000

// ColorName maps a "#RRGGBB" color to the nearest palette name by squared
// Euclidean distance. Malformed hex or a nearest distance at or beyond the
// threshold yields an empty name, never an error.
func ColorName(hex string, palette []PaletteColor, threshold int) string {
	if !strings.HasPrefix(hex, "#") {
		return ""
	}

	clean := strings.TrimPrefix(hex, "#")
	if len(clean) < 6 {
		return ""
	}
	r, errR := strconv.ParseUint(clean[0:2], 16, 8)
	g, errG := strconv.ParseUint(clean[2:4], 16, 8)
	b, errB := strconv.ParseUint(clean[4:6], 16, 8)
	if errR != nil || errG != nil || errB != nil {
		return ""
	}

	minDist := -1
	closest := ""
	for _, p := range palette {
		dr, dg, db := int(r)-p.R, int(g)-p.G, int(b)-p.B
		dist := dr*dr + dg*dg + db*db
		if minDist < 0 || dist < minDist {
			minDist = dist
			closest = p.Name
		}
	}

	if minDist < 0 || minDist >= threshold {
		return ""
	}
	return closest
}
