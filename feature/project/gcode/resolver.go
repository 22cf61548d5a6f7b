package gcode

import (
	"path/filepath"
	"sort"
	"strings"
)

// Extension is the machine-control file extension the resolver looks for.
const Extension = ".gcode"

// Chooser disambiguates between multiple candidate G-code files. It receives
// the candidates in sorted order and returns the chosen path, or "" to leave
// the correlation unresolved.
type Chooser func(candidates []string) string

// FindCandidates lists all G-code files in dir, sorted by name.
func FindCandidates(dir string) ([]string, error) {
	candidates, err := filepath.Glob(filepath.Join(dir, "*"+Extension))
	if err != nil {
		return nil, err
	}
	sort.Strings(candidates)
	return candidates, nil
}

// Resolve picks the G-code file correlated with the container.
//
// Zero candidates resolve to nothing, a single candidate is selected
// automatically, and multiple candidates go through stem-similarity matching
// first: a candidate matches when its stem starts with the container stem, or
// the container stem starts with the candidate stem's first underscore
// segment. When similarity finds nothing the injected chooser decides; with
// no chooser the correlation stays unresolved, which is not an error.
func Resolve(containerPath string, candidates []string, choose Chooser) (string, bool) {
	switch len(candidates) {
	case 0:
		return "", false
	case 1:
		return candidates[0], true
	}

	projectStem := strings.ToLower(stem(containerPath))
	for _, candidate := range candidates {
		candidateStem := strings.ToLower(stem(candidate))
		if strings.HasPrefix(candidateStem, projectStem) ||
			strings.HasPrefix(projectStem, firstSegment(candidateStem)) {
			return candidate, true
		}
	}

	if choose != nil {
		if picked := choose(candidates); picked != "" {
			return picked, true
		}
	}

	return "", false
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func firstSegment(s string) string {
	if i := strings.IndexByte(s, '_'); i >= 0 {
		return s[:i]
	}
	return s
}
