package project

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/napcet/3mf-reader/feature/project/catalog"
	"github.com/napcet/3mf-reader/feature/project/extract"
	"github.com/napcet/3mf-reader/feature/project/models"
	"github.com/napcet/3mf-reader/feature/project/publish"
	"github.com/napcet/3mf-reader/feature/project/report"
)

// Service handles project extraction requests.
type Service struct {
	cfg       Config
	logger    *zap.Logger
	store     *catalog.Store
	publisher *publish.Publisher

	// inflight collapses concurrent extractions of identical uploads.
	inflight singleflight.Group
}

// NewService creates a new project service. db and publisher are optional,
// nil disables history recording and report publishing respectively.
func NewService(cfg Config, logger *zap.Logger, db *gorm.DB, publisher *publish.Publisher) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	var store *catalog.Store
	if db != nil {
		store = catalog.NewStore(db)
	}

	return &Service{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		publisher: publisher,
	}
}

// ExtractUpload extracts an uploaded container. Identical payloads arriving
// concurrently share a single extraction.
func (s *Service) ExtractUpload(ctx context.Context, filename string, payload []byte) (*models.ProjectSummary, error) {
	digest := sha256.Sum256(payload)
	key := hex.EncodeToString(digest[:])

	result, err, _ := s.inflight.Do(key, func() (any, error) {
		return s.extractPayload(ctx, filename, payload)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.ProjectSummary), nil
}

func (s *Service) extractPayload(ctx context.Context, filename string, payload []byte) (*models.ProjectSummary, error) {
	// The archive reader works on files, so spool the upload to disk.
	dir, err := os.MkdirTemp("", "project-upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) {
		name = "upload.3mf"
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return nil, fmt.Errorf("failed to spool upload: %w", err)
	}

	summary, err := extract.New(path, extract.Options{
		ColorDistanceThreshold: s.cfg.ColorDistanceThreshold,
		Logger:                 s.logger,
	}).Extract()
	if err != nil {
		return nil, err
	}

	s.record(ctx, summary)
	s.publishReport(ctx, summary)

	return summary, nil
}

// Recent returns the latest extraction history records.
func (s *Service) Recent(ctx context.Context, limit int) ([]catalog.Record, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.Recent(ctx, limit)
}

// HistoryEnabled reports whether extraction history is available.
func (s *Service) HistoryEnabled() bool {
	return s.store != nil
}

func (s *Service) record(ctx context.Context, summary *models.ProjectSummary) {
	if s.store == nil || !s.cfg.SaveHistory {
		return
	}
	rec, err := s.store.Save(ctx, summary)
	if err != nil {
		s.logger.Warn("Failed to record extraction history", zap.Error(err))
		return
	}
	s.logger.Info("Recorded extraction", zap.String("id", rec.ID), zap.String("title", summary.Title))
}

func (s *Service) publishReport(ctx context.Context, summary *models.ProjectSummary) {
	if s.publisher == nil {
		return
	}
	markdown := report.NewGenerator(summary, report.Options{Currency: s.cfg.Currency}).Generate()
	if _, _, err := s.publisher.Publish(ctx, summary, markdown); err != nil {
		s.logger.Warn("Failed to publish report", zap.Error(err))
	}
}
