package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/napcet/3mf-reader/feature/project/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Record is one persisted extraction run. It captures the headline numbers
// of a summary so past extractions can be listed without re-reading the
// containers.
type Record struct {
	ID           string `gorm:"primaryKey;size:36"`
	Title        string `gorm:"size:255"`
	SourceFile   string `gorm:"size:255"`
	GCodeFile    string `gorm:"size:255"`
	Application  string `gorm:"size:128"`
	PrinterModel string `gorm:"size:128"`
	IsSliced     bool

	FilamentCount int
	ObjectCount   int
	PlateCount    int

	// Headline statistics, zero when the run was not sliced.
	TotalTimeSeconds int
	TotalWeightGrams float64
	TotalCost        float64

	ExtractedAt time.Time
	CreatedAt   time.Time
}

// TableName fixes the table name independent of gorm pluralization.
func (Record) TableName() string { return "extraction_history" }

// ExpectedColumns lists the columns a healthy history table carries.
// Used for post-migration schema inspection.
var ExpectedColumns = []string{
	"id", "title", "source_file", "g_code_file", "application",
	"printer_model", "is_sliced", "filament_count", "object_count",
	"plate_count", "total_time_seconds", "total_weight_grams",
	"total_cost", "extracted_at", "created_at",
}

// Store persists and lists extraction records.
type Store struct {
	db *gorm.DB
}

// NewStore creates a catalog store on top of an established connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the backing table.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&Record{}); err != nil {
		return fmt.Errorf("migrate extraction history: %w", err)
	}
	return nil
}

// Save records one extraction run and returns the stored row.
func (s *Store) Save(ctx context.Context, summary *models.ProjectSummary) (*Record, error) {
	record := &Record{
		ID:            uuid.NewString(),
		Title:         summary.Title,
		SourceFile:    summary.SourceFile,
		GCodeFile:     summary.GCodeFile,
		Application:   summary.Application,
		PrinterModel:  summary.PrinterModel,
		IsSliced:      summary.IsSliced,
		FilamentCount: len(summary.Filaments),
		ObjectCount:   summary.TotalObjects(),
		PlateCount:    summary.TotalPlates(),
		ExtractedAt:   summary.ExtractionDate,
	}
	if summary.Statistics != nil {
		record.TotalTimeSeconds = summary.Statistics.TotalPrintTimeSeconds
		record.TotalWeightGrams = summary.Statistics.TotalWeightGrams
		record.TotalCost = summary.Statistics.TotalCost
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("save extraction record: %w", err)
	}
	return record, nil
}

// All lists every extraction record, oldest first.
func (s *Store) All(ctx context.Context) ([]Record, error) {
	var records []Record
	err := s.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list extraction records: %w", err)
	}
	return records, nil
}

// Recent lists the most recent extraction records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	var records []Record
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list extraction records: %w", err)
	}
	return records, nil
}
