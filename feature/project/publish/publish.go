package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"github.com/napcet/3mf-reader/core/storage"
	"github.com/napcet/3mf-reader/feature/project/models"
	"github.com/napcet/3mf-reader/feature/project/report"
)

// ObjectPrefix is where published reports live inside the bucket.
const ObjectPrefix = "reports"

// Publisher uploads extraction results to the object store.
type Publisher struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewPublisher creates a new publisher.
func NewPublisher(client storage.Client, bucket string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// Publish uploads the rendered Markdown report and the summary JSON for a
// project. The bucket is created on first use. Returns the object names of
// the uploaded report and summary.
func (p *Publisher) Publish(ctx context.Context, summary *models.ProjectSummary, markdown string) (string, string, error) {
	if summary == nil {
		return "", "", fmt.Errorf("nothing to publish: summary is nil")
	}

	if err := p.ensureBucket(ctx); err != nil {
		return "", "", err
	}

	stem := ObjectStem(summary.Title)
	reportName := path.Join(ObjectPrefix, stem, stem+".md")
	summaryName := path.Join(ObjectPrefix, stem, "summary.json")

	if err := p.upload(ctx, reportName, []byte(markdown), "text/markdown"); err != nil {
		return "", "", fmt.Errorf("failed to upload report: %w", err)
	}

	jsonData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := p.upload(ctx, summaryName, jsonData, "application/json"); err != nil {
		return "", "", fmt.Errorf("failed to upload summary: %w", err)
	}

	p.logger.Info("Published project report",
		zap.String("bucket", p.bucket),
		zap.String("report", reportName),
		zap.String("summary", summaryName))

	return reportName, summaryName, nil
}

// List returns the object names of all published reports.
func (p *Publisher) List(ctx context.Context) ([]string, error) {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, nil
	}

	opts := minio.ListObjectsOptions{
		Prefix:    ObjectPrefix + "/",
		Recursive: true,
	}

	var names []string
	for obj := range p.client.ListObjects(ctx, p.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list reports: %w", obj.Err)
		}
		names = append(names, obj.Key)
	}
	return names, nil
}

func (p *Publisher) ensureBucket(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}

	if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", p.bucket, err)
	}
	p.logger.Info("Created report bucket", zap.String("bucket", p.bucket))
	return nil
}

func (p *Publisher) upload(ctx context.Context, objectName string, data []byte, contentType string) error {
	_, err := p.client.PutObject(ctx, p.bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

// ObjectStem turns a project title into a lowercase object-name segment.
// Published objects for a project live under reports/<stem>/.
func ObjectStem(title string) string {
	stem := report.SafeFilename(title)
	stem = strings.ToLower(stem)
	stem = strings.Join(strings.Fields(stem), "_")
	if stem == "" {
		stem = "untitled"
	}
	return stem
}
