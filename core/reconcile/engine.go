package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
)

// ObjectRemover is the subset of the storage client the engine mutates with.
type ObjectRemover interface {
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// BuildPlan correlates history entries with published object names.
//
// Objects are grouped by their stem, the second segment of the object name
// (reports/<stem>/...). Objects outside that layout get an empty stem and are
// treated as orphans. The plan is deterministic: results and actions are
// sorted by stem.
func BuildPlan(entries []Entry, objects []string, opts Options) *Plan {
	byStem := make(map[string]*Result)

	resultFor := func(stem string) *Result {
		if r, ok := byStem[stem]; ok {
			return r
		}
		r := &Result{Stem: stem}
		byStem[stem] = r
		return r
	}

	for _, e := range entries {
		r := resultFor(e.Stem)
		r.HistoryPresent = true
		if r.Name == "" {
			r.Name = e.Name
		}
	}

	for _, obj := range objects {
		r := resultFor(stemOf(obj))
		r.StoragePresent = true
		r.Objects = append(r.Objects, obj)
	}

	stems := make([]string, 0, len(byStem))
	for stem := range byStem {
		stems = append(stems, stem)
	}
	sort.Strings(stems)

	plan := &Plan{}
	for _, stem := range stems {
		r := byStem[stem]
		sort.Strings(r.Objects)
		plan.Results = append(plan.Results, *r)

		switch {
		case r.HistoryPresent && !r.StoragePresent:
			plan.Summary.Unpublished++
		case r.StoragePresent && !r.HistoryPresent:
			plan.Summary.OrphanStems++
			plan.Summary.OrphanObjects += len(r.Objects)
			if opts.DoPurge {
				for _, obj := range r.Objects {
					plan.Actions = append(plan.Actions, Action{
						Type:       ActionRemoveOrphan,
						Stem:       stem,
						ObjectName: obj,
					})
				}
			}
		}
	}

	plan.Summary.TotalStems = len(plan.Results)
	plan.Summary.PlannedActions = len(plan.Actions)
	return plan
}

// Apply executes the plan's actions. Nothing runs in dry-run mode.
// Returns the number of executed actions; the first failure aborts.
func Apply(ctx context.Context, client ObjectRemover, bucket string, plan *Plan, opts Options) (int, error) {
	if opts.DryRun {
		return 0, nil
	}

	executed := 0
	for _, action := range plan.Actions {
		if action.Type != ActionRemoveOrphan {
			return executed, fmt.Errorf("unknown action type %q", action.Type)
		}
		if err := client.RemoveObject(ctx, bucket, action.ObjectName, minio.RemoveObjectOptions{}); err != nil {
			return executed, fmt.Errorf("failed to remove %s: %w", action.ObjectName, err)
		}
		executed++
	}
	return executed, nil
}

// stemOf extracts the stem segment from an object name like
// reports/<stem>/<file>. Anything off-layout yields "".
func stemOf(objectName string) string {
	parts := strings.Split(objectName, "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[1]
}
