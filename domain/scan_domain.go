package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessAnalyzeImage   = "ingredient analysis completed"
	MessageSuccessSaveScan       = "scan saved successfully"
	MessageSuccessGetScanHistory = "scan history retrieved successfully"
	MessageSuccessGetScanDetail  = "scan detail retrieved successfully"

	MessageFailedAnalyzeImage   = "failed to analyze ingredient image"
	MessageFailedSaveScan       = "failed to save scan"
	MessageFailedGetScanHistory = "failed to retrieve scan history"
	MessageFailedGetScanDetail  = "failed to retrieve scan detail"

	ErrImageRequired    = errors.New("image data is required")
	ErrAnalysisRequired = errors.New("analysis payload is required")
	ErrNoTextDetected   = errors.New("no text could be detected in the image, please try again with a clearer picture")
	ErrOCRUpstream      = errors.New("ocr provider request failed")
	ErrLLMUpstream      = errors.New("llm provider request failed")
	ErrMalformedLLMJSON = errors.New("no valid JSON object found in model response")
	ErrInvalidAnalysis  = errors.New("model response does not match the analysis schema")
	ErrStorageUpload    = errors.New("failed to store scan image")
	ErrScanPersistence  = errors.New("failed to persist scan record")
	ErrScanNotFound     = errors.New("scan not found")
)

// Stable machine-readable error kinds, logged server-side. Callers only ever
// see the error message inside the response envelope.
const (
	KindValidation        = "validation"
	KindAuth              = "auth"
	KindNoTextDetected    = "no_text_detected"
	KindUpstreamOCR       = "upstream_ocr"
	KindUpstreamLLM       = "upstream_llm"
	KindMalformedResponse = "malformed_response"
	KindSchemaValidation  = "schema_validation"
	KindStorage           = "storage"
	KindPersistence       = "persistence"
	KindInternal          = "internal"
)

// ErrorKind maps a pipeline error to its kind.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrImageRequired), errors.Is(err, ErrAnalysisRequired):
		return KindValidation
	case errors.Is(err, ErrNoTextDetected):
		return KindNoTextDetected
	case errors.Is(err, ErrOCRUpstream):
		return KindUpstreamOCR
	case errors.Is(err, ErrLLMUpstream):
		return KindUpstreamLLM
	case errors.Is(err, ErrMalformedLLMJSON):
		return KindMalformedResponse
	case errors.Is(err, ErrInvalidAnalysis):
		return KindSchemaValidation
	case errors.Is(err, ErrStorageUpload):
		return KindStorage
	case errors.Is(err, ErrScanPersistence):
		return KindPersistence
	case errors.Is(err, ErrTokenNotFound), errors.Is(err, ErrTokenExpired), errors.Is(err, ErrTokenInvalid):
		return KindAuth
	default:
		return KindInternal
	}
}

type (
	IngredientFinding struct {
		Ingredient string `json:"ingredient"`
		Reason     string `json:"reason"`
	}

	Analysis struct {
		Beneficial []IngredientFinding `json:"beneficial"`
		Harmful    []IngredientFinding `json:"harmful"`
		Neutral    []IngredientFinding `json:"neutral"`
		Summary    string              `json:"summary"`
	}

	AnalyzeImageRequest struct {
		ImageBase64 string `json:"image_base64" validate:"omitempty,base64"`
		ImageURL    string `json:"image_url" validate:"omitempty,url"`
		MimeType    string `json:"mime_type" validate:"omitempty"`
	}

	SaveScanRequest struct {
		Analysis    *Analysis `json:"analysis" validate:"required"`
		ImageBase64 string    `json:"image_base64" validate:"required,base64"`
		MimeType    string    `json:"mime_type" validate:"omitempty"`
	}

	SaveScanResponse struct {
		Success  bool   `json:"success"`
		ScanID   string `json:"scan_id"`
		ImageURL string `json:"image_url"`
	}

	ScanAndSaveResponse struct {
		Analysis Analysis `json:"analysis"`
		ScanID   string   `json:"scan_id"`
		ImageURL string   `json:"image_url"`
		RawText  string   `json:"raw_text"`
	}

	ScanResponse struct {
		ID        string    `json:"id"`
		ImageURL  string    `json:"image_url"`
		RawText   string    `json:"raw_text"`
		Analysis  *Analysis `json:"analysis,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}
)
