package scan

import (
	"LabelWise-Backend/domain"
	"LabelWise-Backend/entities"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ScanService interface {
		AnalyzeImage(ctx context.Context, req domain.AnalyzeImageRequest, userID string) (*domain.Analysis, error)
		SaveScanHistory(ctx context.Context, req domain.SaveScanRequest, userID string) (domain.SaveScanResponse, error)
		ScanAndSave(ctx context.Context, req domain.AnalyzeImageRequest, userID string) (domain.ScanAndSaveResponse, error)
		GetScanHistory(ctx context.Context, userID string, page, limit int) ([]domain.ScanResponse, int64, error)
		GetScanByID(ctx context.Context, id string, userID string) (domain.ScanResponse, error)
	}

	scanService struct {
		scanRepository ScanRepository
		extractor      TextExtractor
		categorizer    Categorizer
		images         ImageStore
	}
)

func NewScanService(scanRepository ScanRepository, extractor TextExtractor, categorizer Categorizer, images ImageStore) ScanService {
	return &scanService{
		scanRepository: scanRepository,
		extractor:      extractor,
		categorizer:    categorizer,
		images:         images,
	}
}

// AnalyzeImage runs the extraction and categorization stages and returns the
// validated analysis. Nothing is persisted.
func (s *scanService) AnalyzeImage(ctx context.Context, req domain.AnalyzeImageRequest, userID string) (*domain.Analysis, error) {
	analysis, _, err := s.analyze(ctx, req)
	return analysis, err
}

func (s *scanService) analyze(ctx context.Context, req domain.AnalyzeImageRequest) (*domain.Analysis, string, error) {
	if req.ImageBase64 == "" && req.ImageURL == "" {
		return nil, "", domain.ErrImageRequired
	}

	img := ImageInput{
		Base64:   req.ImageBase64,
		URL:      req.ImageURL,
		MimeType: req.MimeType,
	}

	log.Debug("extracting text from image")
	text, err := s.extractor.ExtractText(ctx, img)
	if err != nil {
		return nil, "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, "", domain.ErrNoTextDetected
	}

	log.Debug("categorizing extracted ingredient text")
	raw, err := s.categorizer.Categorize(ctx, text)
	if err != nil {
		return nil, "", err
	}

	analysis, err := ParseAnalysis(raw)
	if err != nil {
		return nil, "", err
	}

	return analysis, text, nil
}

// SaveScanHistory persists a previously validated analysis together with the
// image it came from. The analysis summary stands in for the raw OCR text,
// which is not retained across the two calls.
func (s *scanService) SaveScanHistory(ctx context.Context, req domain.SaveScanRequest, userID string) (domain.SaveScanResponse, error) {
	if req.Analysis == nil {
		return domain.SaveScanResponse{}, domain.ErrAnalysisRequired
	}
	if req.ImageBase64 == "" {
		return domain.SaveScanResponse{}, domain.ErrImageRequired
	}

	rawText := req.Analysis.Summary
	if rawText == "" {
		rawText = "No text available"
	}

	scan, err := s.persist(ctx, userID, req.Analysis, req.ImageBase64, req.MimeType, rawText)
	if err != nil {
		return domain.SaveScanResponse{}, err
	}

	return domain.SaveScanResponse{
		Success:  true,
		ScanID:   scan.ID.String(),
		ImageURL: scan.ImageURL,
	}, nil
}

// ScanAndSave runs the whole pipeline in order: extraction, categorization,
// then persistence. Any stage failure short-circuits the rest.
func (s *scanService) ScanAndSave(ctx context.Context, req domain.AnalyzeImageRequest, userID string) (domain.ScanAndSaveResponse, error) {
	analysis, text, err := s.analyze(ctx, req)
	if err != nil {
		return domain.ScanAndSaveResponse{}, err
	}

	if req.ImageBase64 == "" {
		// URL-based submissions have no bytes to archive, so the scan is
		// recorded against the source URL instead of a stored copy.
		return s.saveWithoutUpload(ctx, userID, analysis, req.ImageURL, text)
	}

	scan, err := s.persist(ctx, userID, analysis, req.ImageBase64, req.MimeType, text)
	if err != nil {
		return domain.ScanAndSaveResponse{}, err
	}

	return domain.ScanAndSaveResponse{
		Analysis: *analysis,
		ScanID:   scan.ID.String(),
		ImageURL: scan.ImageURL,
		RawText:  text,
	}, nil
}

// persist is the persistence stage. Ordering is deliberate: the storage upload
// always precedes the scans insert, which always precedes the analysis_results
// insert. A mid-sequence failure can leave an orphaned object or scan row, but
// never an analysis without its image.
func (s *scanService) persist(ctx context.Context, userID string, analysis *domain.Analysis, imageBase64, mimeType, rawText string) (*entities.Scan, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	imageData, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 image data", domain.ErrImageRequired)
	}
	if len(imageData) == 0 {
		return nil, domain.ErrImageRequired
	}

	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	objectKey := fmt.Sprintf("%s/%s_%d.%s", userID, userID, time.Now().UnixMilli(), extensionFor(mimeType))

	log.Debugf("persisting scan image as %s", objectKey)
	if err := s.images.UploadBytes(ctx, objectKey, imageData, mimeType); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUpload, err)
	}

	imageURL := s.images.GetPublicLinkKey(objectKey)
	if imageURL == "" {
		return nil, fmt.Errorf("%w: no public URL for uploaded image", domain.ErrStorageUpload)
	}

	scan := &entities.Scan{
		ID:       uuid.New(),
		UserID:   userUUID,
		ImageURL: imageURL,
		RawText:  rawText,
	}

	if err := s.scanRepository.CreateScan(ctx, scan); err != nil {
		_ = s.images.DeleteFile(objectKey)
		return nil, fmt.Errorf("%w: %v", domain.ErrScanPersistence, err)
	}

	result := &entities.AnalysisResult{
		ID:         uuid.New(),
		ScanID:     scan.ID,
		Beneficial: marshalFindings(analysis.Beneficial),
		Harmful:    marshalFindings(analysis.Harmful),
		Neutral:    marshalFindings(analysis.Neutral),
		Summary:    analysis.Summary,
	}

	if err := s.scanRepository.CreateAnalysisResult(ctx, result); err != nil {
		// The scan row stays behind. An integrity sweep can find scans
		// without analysis rows later; deleting here would only widen the
		// failure surface.
		log.Warnf("scan %s saved without analysis result: %v", scan.ID, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrScanPersistence, err)
	}

	return scan, nil
}

func (s *scanService) saveWithoutUpload(ctx context.Context, userID string, analysis *domain.Analysis, imageURL, rawText string) (domain.ScanAndSaveResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ScanAndSaveResponse{}, domain.ErrParseUUID
	}

	scan := &entities.Scan{
		ID:       uuid.New(),
		UserID:   userUUID,
		ImageURL: imageURL,
		RawText:  rawText,
	}

	if err := s.scanRepository.CreateScan(ctx, scan); err != nil {
		return domain.ScanAndSaveResponse{}, fmt.Errorf("%w: %v", domain.ErrScanPersistence, err)
	}

	result := &entities.AnalysisResult{
		ID:         uuid.New(),
		ScanID:     scan.ID,
		Beneficial: marshalFindings(analysis.Beneficial),
		Harmful:    marshalFindings(analysis.Harmful),
		Neutral:    marshalFindings(analysis.Neutral),
		Summary:    analysis.Summary,
	}

	if err := s.scanRepository.CreateAnalysisResult(ctx, result); err != nil {
		return domain.ScanAndSaveResponse{}, fmt.Errorf("%w: %v", domain.ErrScanPersistence, err)
	}

	return domain.ScanAndSaveResponse{
		Analysis: *analysis,
		ScanID:   scan.ID.String(),
		ImageURL: imageURL,
		RawText:  rawText,
	}, nil
}

func (s *scanService) GetScanHistory(ctx context.Context, userID string, page, limit int) ([]domain.ScanResponse, int64, error) {
	scans, count, err := s.scanRepository.GetScans(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.ScanResponse, 0, len(scans))
	for _, scan := range scans {
		response = append(response, toScanResponse(scan))
	}

	return response, count, nil
}

func (s *scanService) GetScanByID(ctx context.Context, id string, userID string) (domain.ScanResponse, error) {
	scan, err := s.scanRepository.GetScanByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ScanResponse{}, domain.ErrScanNotFound
		}
		return domain.ScanResponse{}, err
	}

	if scan.UserID.String() != userID {
		return domain.ScanResponse{}, domain.ErrUserNotAllowed
	}

	return toScanResponse(scan), nil
}

func toScanResponse(scan *entities.Scan) domain.ScanResponse {
	response := domain.ScanResponse{
		ID:        scan.ID.String(),
		ImageURL:  scan.ImageURL,
		RawText:   scan.RawText,
		CreatedAt: scan.CreatedAt,
	}

	if scan.AnalysisResult != nil {
		response.Analysis = &domain.Analysis{
			Beneficial: unmarshalFindings(scan.AnalysisResult.Beneficial),
			Harmful:    unmarshalFindings(scan.AnalysisResult.Harmful),
			Neutral:    unmarshalFindings(scan.AnalysisResult.Neutral),
			Summary:    scan.AnalysisResult.Summary,
		}
	}

	return response
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	default:
		return "jpg"
	}
}
