package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/napcet/3mf-reader/feature/project/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestStore_Save(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `extraction_history`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	summary := &models.ProjectSummary{
		Title:          "Benchy",
		SourceFile:     "benchy.3mf",
		GCodeFile:      "benchy.gcode",
		ExtractionDate: time.Now(),
		Application:    "OrcaSlicer 2.2.0",
		PrinterModel:   "Bambu Lab P1S",
		Filaments:      []models.Filament{{Slot: 1}},
		Objects:        []models.GeometryObject{{ID: 2, Extruder: 1}},
		Plates:         []models.Plate{{ID: 1}},
		Statistics: &models.PrintStatistics{
			TotalPrintTimeSeconds: 7565,
			TotalWeightGrams:      15.2,
			TotalCost:             0.3,
		},
		IsSliced: true,
	}

	record, err := store.Save(context.Background(), summary)
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "Benchy", record.Title)
	assert.True(t, record.IsSliced)
	assert.Equal(t, 7565, record.TotalTimeSeconds)
	assert.Equal(t, 1, record.FilamentCount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Save_UnslicedLeavesTotalsZero(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `extraction_history`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	record, err := store.Save(context.Background(), &models.ProjectSummary{
		Title:      "Draft",
		SourceFile: "draft.3mf",
	})
	require.NoError(t, err)
	assert.False(t, record.IsSliced)
	assert.Zero(t, record.TotalTimeSeconds)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Recent(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	rows := sqlmock.NewRows([]string{"id", "title", "source_file", "is_sliced"}).
		AddRow("id-2", "Second", "b.3mf", true).
		AddRow("id-1", "First", "a.3mf", false)

	mock.ExpectQuery("SELECT \\* FROM `extraction_history`").WillReturnRows(rows)

	records, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Second", records[0].Title)

	assert.NoError(t, mock.ExpectationsWereMet())
}
