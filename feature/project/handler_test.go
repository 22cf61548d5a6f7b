package project_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/napcet/3mf-reader/feature/project"
	"github.com/napcet/3mf-reader/feature/project/models"
)

const modelXML = `<?xml version="1.0" encoding="UTF-8"?>
<model xmlns="http://schemas.microsoft.com/3dmanufacturing/core/2015/02">
  <metadata name="Title">Uploaded Benchy</metadata>
  <metadata name="Application">OrcaSlicer 2.1.1</metadata>
</model>`

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	feature := project.NewFeature(project.Config{Currency: "$"}, zap.NewNop(), nil, nil)
	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app
}

func containerBytes(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func newUpload(t *testing.T, filename string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestHandleExtract(t *testing.T) {
	app := newTestApp(t)

	t.Run("extracts uploaded container", func(t *testing.T) {
		payload := containerBytes(t, map[string]string{
			"3D/3dmodel.model": modelXML,
		})
		body, contentType := newUpload(t, "benchy.3mf", payload)

		req := httptest.NewRequest("POST", "/projects/extract", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var summary models.ProjectSummary
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &summary))
		assert.Equal(t, "Uploaded Benchy", summary.Title)
		assert.NotEmpty(t, summary.Filaments)
	})

	t.Run("rejects non container extension", func(t *testing.T) {
		body, contentType := newUpload(t, "benchy.stl", []byte("solid"))

		req := httptest.NewRequest("POST", "/projects/extract", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)
	})

	t.Run("rejects missing form file", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/projects/extract", bytes.NewReader(nil))

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects corrupt container", func(t *testing.T) {
		body, contentType := newUpload(t, "broken.3mf", []byte("this is not a zip"))

		req := httptest.NewRequest("POST", "/projects/extract", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestHandleListHistory(t *testing.T) {
	t.Run("without database history is unavailable", func(t *testing.T) {
		app := newTestApp(t)

		resp, err := app.Test(httptest.NewRequest("GET", "/projects/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	})
}
