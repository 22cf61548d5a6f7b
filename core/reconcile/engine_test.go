package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/napcet/3mf-reader/core/storage/mocks"
)

func TestBuildPlan(t *testing.T) {
	entries := []Entry{
		{ID: "1", Name: "Benchy Boat", Stem: "benchy_boat"},
		{ID: "2", Name: "Calibration Cube", Stem: "calibration_cube"},
	}
	objects := []string{
		"reports/benchy_boat/benchy_boat.md",
		"reports/benchy_boat/summary.json",
		"reports/stale_project/stale_project.md",
	}

	t.Run("correlates history and storage", func(t *testing.T) {
		plan := BuildPlan(entries, objects, Options{})

		require.Len(t, plan.Results, 3)
		assert.Equal(t, 3, plan.Summary.TotalStems)

		byStem := map[string]Result{}
		for _, r := range plan.Results {
			byStem[r.Stem] = r
		}

		matched := byStem["benchy_boat"]
		assert.True(t, matched.HistoryPresent)
		assert.True(t, matched.StoragePresent)
		assert.Len(t, matched.Objects, 2)

		unpublished := byStem["calibration_cube"]
		assert.True(t, unpublished.HistoryPresent)
		assert.False(t, unpublished.StoragePresent)

		orphan := byStem["stale_project"]
		assert.False(t, orphan.HistoryPresent)
		assert.True(t, orphan.StoragePresent)

		assert.Equal(t, 1, plan.Summary.Unpublished)
		assert.Equal(t, 1, plan.Summary.OrphanStems)
		assert.Equal(t, 1, plan.Summary.OrphanObjects)
	})

	t.Run("no actions without purge", func(t *testing.T) {
		plan := BuildPlan(entries, objects, Options{})
		assert.Empty(t, plan.Actions)
	})

	t.Run("purge plans orphan removals only", func(t *testing.T) {
		plan := BuildPlan(entries, objects, Options{DoPurge: true})

		require.Len(t, plan.Actions, 1)
		assert.Equal(t, ActionRemoveOrphan, plan.Actions[0].Type)
		assert.Equal(t, "reports/stale_project/stale_project.md", plan.Actions[0].ObjectName)
		assert.Equal(t, 1, plan.Summary.PlannedActions)
	})

	t.Run("off layout objects become orphans", func(t *testing.T) {
		plan := BuildPlan(nil, []string{"loose-file.md"}, Options{DoPurge: true})

		require.Len(t, plan.Results, 1)
		assert.Equal(t, "", plan.Results[0].Stem)
		require.Len(t, plan.Actions, 1)
		assert.Equal(t, "loose-file.md", plan.Actions[0].ObjectName)
	})

	t.Run("empty inputs produce empty plan", func(t *testing.T) {
		plan := BuildPlan(nil, nil, Options{DoPurge: true})
		assert.Empty(t, plan.Results)
		assert.Empty(t, plan.Actions)
		assert.Equal(t, 0, plan.Summary.TotalStems)
	})
}

func TestApply(t *testing.T) {
	plan := BuildPlan(nil, []string{"reports/stale/report.md"}, Options{DoPurge: true})
	require.Len(t, plan.Actions, 1)

	t.Run("removes planned orphans", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("RemoveObject", mock.Anything, "print-reports", "reports/stale/report.md", mock.Anything).
			Return(nil)

		executed, err := Apply(context.Background(), mockClient, "print-reports", plan, Options{DoPurge: true})
		require.NoError(t, err)
		assert.Equal(t, 1, executed)
		mockClient.AssertExpectations(t)
	})

	t.Run("dry run executes nothing", func(t *testing.T) {
		mockClient := new(mocks.Client)

		executed, err := Apply(context.Background(), mockClient, "print-reports", plan, Options{DoPurge: true, DryRun: true})
		require.NoError(t, err)
		assert.Equal(t, 0, executed)
		mockClient.AssertNotCalled(t, "RemoveObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("removal failure aborts", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("RemoveObject", mock.Anything, "print-reports", mock.Anything, mock.Anything).
			Return(assert.AnError)

		executed, err := Apply(context.Background(), mockClient, "print-reports", plan, Options{DoPurge: true})
		assert.Error(t, err)
		assert.Equal(t, 0, executed)
	})
}
