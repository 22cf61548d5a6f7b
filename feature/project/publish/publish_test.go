package publish

import (
	"context"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/napcet/3mf-reader/core/storage/mocks"
	"github.com/napcet/3mf-reader/feature/project/models"
)

func testSummary() *models.ProjectSummary {
	return &models.ProjectSummary{
		Title:       "Benchy Boat",
		Application: "OrcaSlicer 2.1.1",
	}
}

func TestPublish(t *testing.T) {
	t.Run("uploads report and summary", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "print-reports").Return(true, nil)
		mockClient.On("PutObject", mock.Anything, "print-reports", "reports/benchy_boat/benchy_boat.md",
			mock.Anything, mock.Anything, mock.MatchedBy(func(opts minio.PutObjectOptions) bool {
				return opts.ContentType == "text/markdown"
			})).Return(minio.UploadInfo{}, nil)
		mockClient.On("PutObject", mock.Anything, "print-reports", "reports/benchy_boat/summary.json",
			mock.Anything, mock.Anything, mock.MatchedBy(func(opts minio.PutObjectOptions) bool {
				return opts.ContentType == "application/json"
			})).Return(minio.UploadInfo{}, nil)

		p := NewPublisher(mockClient, "print-reports", nil)
		reportName, summaryName, err := p.Publish(context.Background(), testSummary(), "# Benchy Boat\n")
		require.NoError(t, err)
		assert.Equal(t, "reports/benchy_boat/benchy_boat.md", reportName)
		assert.Equal(t, "reports/benchy_boat/summary.json", summaryName)
		mockClient.AssertNumberOfCalls(t, "PutObject", 2)
	})

	t.Run("creates bucket when missing", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "print-reports").Return(false, nil)
		mockClient.On("MakeBucket", mock.Anything, "print-reports", mock.Anything).Return(nil)
		mockClient.On("PutObject", mock.Anything, "print-reports", mock.Anything,
			mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

		p := NewPublisher(mockClient, "print-reports", nil)
		_, _, err := p.Publish(context.Background(), testSummary(), "report")
		require.NoError(t, err)
		mockClient.AssertCalled(t, "MakeBucket", mock.Anything, "print-reports", mock.Anything)
	})

	t.Run("bucket creation failure surfaces", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "print-reports").Return(false, assert.AnError)

		p := NewPublisher(mockClient, "print-reports", nil)
		_, _, err := p.Publish(context.Background(), testSummary(), "report")
		assert.Error(t, err)
		mockClient.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("nil summary is rejected", func(t *testing.T) {
		p := NewPublisher(new(mocks.Client), "print-reports", nil)
		_, _, err := p.Publish(context.Background(), nil, "report")
		assert.Error(t, err)
	})
}

func TestList(t *testing.T) {
	t.Run("returns published object names", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "print-reports").Return(true, nil)

		ch := make(chan minio.ObjectInfo, 2)
		ch <- minio.ObjectInfo{Key: "reports/benchy_boat/benchy_boat.md"}
		ch <- minio.ObjectInfo{Key: "reports/benchy_boat/summary.json"}
		close(ch)
		mockClient.On("ListObjects", mock.Anything, "print-reports", mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
			return opts.Prefix == "reports/" && opts.Recursive
		})).Return((<-chan minio.ObjectInfo)(ch))

		p := NewPublisher(mockClient, "print-reports", nil)
		names, err := p.List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{
			"reports/benchy_boat/benchy_boat.md",
			"reports/benchy_boat/summary.json",
		}, names)
	})

	t.Run("missing bucket means nothing published", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "print-reports").Return(false, nil)

		p := NewPublisher(mockClient, "print-reports", nil)
		names, err := p.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}
