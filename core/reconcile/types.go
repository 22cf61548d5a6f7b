package reconcile

// Entry is one extraction history record projected into the audit.
type Entry struct {
	// ID is the record's identifier.
	ID string `json:"id"`

	// Name is the display name of the project.
	Name string `json:"name"`

	// Stem is the object-name segment published reports use for this project.
	Stem string `json:"stem"`
}

// Result represents the audit outcome for a single project stem.
type Result struct {
	// Stem is the object-name segment this result covers.
	Stem string `json:"stem"`

	// Name is the display name, when known from history.
	Name string `json:"name"`

	// HistoryPresent indicates whether a history record exists for the stem.
	HistoryPresent bool `json:"history_present"`

	// StoragePresent indicates whether published objects exist for the stem.
	StoragePresent bool `json:"storage_present"`

	// Objects lists the published object names belonging to the stem.
	Objects []string `json:"objects,omitempty"`
}

// ActionType identifies a planned mutation.
type ActionType string

const (
	// ActionRemoveOrphan deletes a published object with no history record.
	ActionRemoveOrphan ActionType = "remove_orphan"
)

// Action is one planned mutation against the object store.
type Action struct {
	Type       ActionType `json:"type"`
	Stem       string     `json:"stem"`
	ObjectName string     `json:"object_name"`
}

// Summary aggregates the audit counts.
type Summary struct {
	TotalStems     int `json:"total_stems"`
	Unpublished    int `json:"unpublished"`
	OrphanStems    int `json:"orphan_stems"`
	OrphanObjects  int `json:"orphan_objects"`
	PlannedActions int `json:"planned_actions"`
}

// Options controls plan building and application.
type Options struct {
	// DoPurge plans removal of orphan objects.
	DoPurge bool

	// DryRun forbids mutations even when actions are planned.
	DryRun bool
}

// Plan is the full audit output: per-stem results plus planned actions.
type Plan struct {
	Results []Result `json:"results"`
	Actions []Action `json:"actions"`
	Summary Summary  `json:"summary"`
}
