package gcode

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// ErrStreamRead indicates the G-code stream could not be read. This is fatal
// for statistics only; extraction continues with statistics absent.
var ErrStreamRead = errors.New("gcode stream unreadable")

// Statistics is the fixed-shape aggregate a single scan produces. Fields stay
// at their zero value (or absent from the per-slot maps) when the stream
// never declared them.
type Statistics struct {
	// Generator is the producing tool identity, e.g. "OrcaSlicer 2.2.0".
	Generator string

	// EstimatedTimeStr is the slicer's own formatted duration, e.g. "2h 6m 5s".
	EstimatedTimeStr string
	// EstimatedTimeSeconds is the duration derived from EstimatedTimeStr or
	// from a plain seconds annotation.
	EstimatedTimeSeconds int

	// Per-slot aggregates keyed by 1-based slot number.
	WeightPerSlot map[int]float64 // grams
	LengthPerSlot map[int]float64 // millimeters
	CostPerSlot   map[int]float64

	TotalWeightGrams float64
	TotalLengthMM    float64
	TotalCost        float64

	TotalLayers int
	MaxZHeight  float64
}

// annotation is one recognized key pattern. The scanner matches the keys
// case-insensitively against the start of each annotation line body and hands
// the remainder to apply. Supporting a new producer dialect means appending a
// row, not changing control flow.
type annotation struct {
	keys  []string
	apply func(*Statistics, string)
}

// annotationTable lists every recognized annotation, longest keys first so
// "total filament used [g]" never falls through to "filament used [g]".
var annotationTable = []annotation{
	{
		keys: []string{"generated by", "generated with"},
		apply: func(s *Statistics, v string) {
			// Keep the tool identity, drop the trailing timestamp clause.
			if i := strings.Index(v, " on "); i > 0 {
				v = v[:i]
			}
			s.Generator = strings.TrimSpace(v)
		},
	},
	{
		keys: []string{"total estimated time", "estimated printing time (normal mode)", "estimated printing time", "model printing time", "time"},
		apply: func(s *Statistics, v string) {
			// Retain only the portion before any secondary clause.
			if i := strings.IndexByte(v, ';'); i >= 0 {
				v = strings.TrimSpace(v[:i])
			}
			secs, ok := parseDuration(v)
			if !ok {
				return
			}
			s.EstimatedTimeSeconds = secs
			if strings.ContainsAny(v, "dhms") {
				s.EstimatedTimeStr = v
			}
		},
	},
	{
		keys:  []string{"total filament used [g]", "total filament weight [g]"},
		apply: func(s *Statistics, v string) { applyFloat(&s.TotalWeightGrams, v) },
	},
	{
		keys:  []string{"total filament used [mm]", "total filament length [mm]"},
		apply: func(s *Statistics, v string) { applyFloat(&s.TotalLengthMM, v) },
	},
	{
		keys:  []string{"total filament cost"},
		apply: func(s *Statistics, v string) { applyFloat(&s.TotalCost, v) },
	},
	{
		keys:  []string{"filament used [g]"},
		apply: func(s *Statistics, v string) { applySlots(s.WeightPerSlot, v) },
	},
	{
		keys:  []string{"filament used [mm]"},
		apply: func(s *Statistics, v string) { applySlots(s.LengthPerSlot, v) },
	},
	{
		keys:  []string{"filament cost"},
		apply: func(s *Statistics, v string) { applySlots(s.CostPerSlot, v) },
	},
	{
		keys: []string{"total layer number", "total layers count", "layer_count"},
		apply: func(s *Statistics, v string) {
			if f, ok := parseLenientFloat(v); ok {
				s.TotalLayers = int(f)
			}
		},
	},
	{
		keys:  []string{"max_z_height"},
		apply: func(s *Statistics, v string) { applyFloat(&s.MaxZHeight, v) },
	},
}

// ScanFile scans the G-code file at path.
// It returns ErrStreamRead when the file cannot be opened or read.
func ScanFile(path string) (*Statistics, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStreamRead, path, err)
	}
	defer f.Close()

	stats, err := Scan(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStreamRead, path, err)
	}
	return stats, nil
}

// Scan performs a single forward pass over the stream. Memory stays bounded
// by the number of material slots plus a few scalars regardless of stream
// size; motion commands are skipped without inspection.
func Scan(r io.Reader) (*Statistics, error) {
	stats := &Statistics{
		WeightPerSlot: make(map[int]float64),
		LengthPerSlot: make(map[int]float64),
		CostPerSlot:   make(map[int]float64),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, ";") {
			continue
		}
		scanAnnotation(stats, strings.TrimSpace(strings.TrimLeft(line, "; ")))
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

// scanAnnotation matches one annotation body against the table.
// Unrecognized annotations are ignored for forward compatibility.
func scanAnnotation(stats *Statistics, body string) {
	lower := strings.ToLower(body)
	for _, row := range annotationTable {
		for _, key := range row.keys {
			if !strings.HasPrefix(lower, key) {
				continue
			}
			value := strings.TrimLeft(body[len(key):], " \t:=")
			row.apply(stats, strings.TrimSpace(value))
			return
		}
	}
}

// applyFloat parses v leniently and stores it, leaving the field untouched
// when the token is not numeric.
func applyFloat(dst *float64, v string) {
	if f, ok := parseLenientFloat(v); ok {
		*dst = f
	}
}

// applySlots parses an ordered per-slot list. Tokens are comma-separated
// (space-separated in some dialects) and aligned to slot index; a malformed
// token leaves only that slot unset.
func applySlots(dst map[int]float64, v string) {
	var tokens []string
	if strings.ContainsRune(v, ',') {
		tokens = strings.Split(v, ",")
	} else {
		tokens = strings.Fields(v)
	}

	for i, token := range tokens {
		f, ok := parseLenientFloat(token)
		if !ok {
			continue
		}
		dst[i+1] = f
	}
}

var thousandsSep = regexp.MustCompile(`(\d),(\d{3})(\D|$)`)

// parseLenientFloat parses a numeric token, tolerating surrounding
// whitespace and thousands separators ("1,234.56").
func parseLenientFloat(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	for thousandsSep.MatchString(v) {
		v = thousandsSep.ReplaceAllString(v, "$1$2$3")
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

var durationToken = regexp.MustCompile(`(\d+)\s*([dhms])`)

// parseDuration converts a slicer duration ("2h 6m 5s", "1d 3h", or a bare
// seconds count) to seconds.
func parseDuration(v string) (int, bool) {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "" {
		return 0, false
	}

	// Bare seconds (Marlin-style "TIME:7560").
	if secs, err := strconv.Atoi(v); err == nil {
		return secs, true
	}

	matches := durationToken.FindAllStringSubmatch(v, -1)
	if len(matches) == 0 {
		return 0, false
	}

	total := 0
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		switch m[2] {
		case "d":
			total += n * 86400
		case "h":
			total += n * 3600
		case "m":
			total += n * 60
		case "s":
			total += n
		}
	}
	return total, true
}
