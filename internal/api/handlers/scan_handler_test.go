package handlers

import (
	"LabelWise-Backend/domain"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScanService struct {
	analysis *domain.Analysis
	saveRes  domain.SaveScanResponse
	err      error
}

func (s *stubScanService) AnalyzeImage(ctx context.Context, req domain.AnalyzeImageRequest, userID string) (*domain.Analysis, error) {
	return s.analysis, s.err
}

func (s *stubScanService) SaveScanHistory(ctx context.Context, req domain.SaveScanRequest, userID string) (domain.SaveScanResponse, error) {
	return s.saveRes, s.err
}

func (s *stubScanService) ScanAndSave(ctx context.Context, req domain.AnalyzeImageRequest, userID string) (domain.ScanAndSaveResponse, error) {
	return domain.ScanAndSaveResponse{}, s.err
}

func (s *stubScanService) GetScanHistory(ctx context.Context, userID string, page, limit int) ([]domain.ScanResponse, int64, error) {
	return nil, 0, s.err
}

func (s *stubScanService) GetScanByID(ctx context.Context, id string, userID string) (domain.ScanResponse, error) {
	return domain.ScanResponse{}, s.err
}

func newTestApp(service *stubScanService) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "6ba7b810-9dad-11d1-80b4-00c04fd430c8")
		return c.Next()
	})

	handler := NewScanHandler(service, validator.New())
	app.Post("/scans/analyze", handler.AnalyzeImage)
	app.Post("/scans", handler.SaveScanHistory)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body string) (int, map[string]any) {
	req := httptest.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	return resp.StatusCode, decoded
}

func TestAnalyzeImageReturnsBareAnalysis(t *testing.T) {
	service := &stubScanService{
		analysis: &domain.Analysis{
			Beneficial: []domain.IngredientFinding{},
			Harmful:    []domain.IngredientFinding{{Ingredient: "Sugar", Reason: "high glycemic index"}},
			Neutral:    []domain.IngredientFinding{},
			Summary:    "One harmful ingredient.",
		},
	}
	app := newTestApp(service)

	status, body := postJSON(t, app, "/scans/analyze", `{"image_base64":"aGVsbG8="}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "One harmful ingredient.", body["summary"])
	harmful, ok := body["harmful"].([]any)
	require.True(t, ok)
	assert.Len(t, harmful, 1)
	// No wrapper envelope on the analyze path.
	assert.NotContains(t, body, "data")
	assert.NotContains(t, body, "status")
}

func TestAnalyzeImageNoTextDetectedIsBadRequest(t *testing.T) {
	service := &stubScanService{err: domain.ErrNoTextDetected}
	app := newTestApp(service)

	status, body := postJSON(t, app, "/scans/analyze", `{"image_base64":"aGVsbG8="}`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], "no text could be detected")
}

func TestAnalyzeImageUpstreamFailureIsServerError(t *testing.T) {
	service := &stubScanService{err: domain.ErrLLMUpstream}
	app := newTestApp(service)

	status, body := postJSON(t, app, "/scans/analyze", `{"image_base64":"aGVsbG8="}`)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.NotEmpty(t, body["error"])
}

func TestSaveScanHistoryEnvelope(t *testing.T) {
	service := &stubScanService{saveRes: domain.SaveScanResponse{
		Success:  true,
		ScanID:   "c3b4a2d1-0000-0000-0000-000000000000",
		ImageURL: "https://bucket.s3.region.amazonaws.com/u/u_1.jpg",
	}}
	app := newTestApp(service)

	status, body := postJSON(t, app, "/scans", `{"analysis":{"beneficial":[],"harmful":[],"neutral":[],"summary":"ok"},"image_base64":"aGVsbG8="}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "c3b4a2d1-0000-0000-0000-000000000000", body["scan_id"])
}

func TestSaveScanHistoryFailureEnvelope(t *testing.T) {
	service := &stubScanService{err: domain.ErrStorageUpload}
	app := newTestApp(service)

	status, body := postJSON(t, app, "/scans", `{"analysis":{"beneficial":[],"harmful":[],"neutral":[],"summary":"ok"},"image_base64":"aGVsbG8="}`)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}
