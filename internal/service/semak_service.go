package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/semak-karangan-api/internal/dto"
	"github.com/noah-isme/semak-karangan-api/internal/observability"
	"github.com/noah-isme/semak-karangan-api/pkg/ocr"
)

var (
	// ErrNoPupilsSelected is returned when a batch has no checked pupils.
	ErrNoPupilsSelected = errors.New("no pupils selected")
	// ErrNoImages is returned when an OCR request carries no image.
	ErrNoImages = errors.New("no image uploaded")
	// ErrNoTextExtracted is returned when OCR found no text in any page.
	ErrNoTextExtracted = errors.New("no text extracted from images")
	// ErrOCRUnavailable is returned when no OCR extractor is configured.
	ErrOCRUnavailable = errors.New("ocr extractor unavailable")
)

// Item error messages shown to teachers for failed batch entries.
const (
	itemErrMissingName  = "Nama pelajar diperlukan."
	itemErrEmptyEssay   = "Karangan kosong untuk mod manual."
	itemErrManualFailed = "Ralat semasa analisis manual."
	itemErrMissingFile  = "Fail OCR tidak dijumpai."
	itemErrNoText       = "Tiada teks dijumpai dari fail OCR."
	itemErrOCRFailed    = "Ralat semasa analisis OCR."
	itemErrInvalidMode  = "Mod tidak sah."
	itemErrSaveFailed   = "Keputusan gagal disimpan."
)

const (
	defaultOCRPageLimit = 5
	pageSeparator       = "\n\n"
	// BulkFileFieldPrefix prefixes the multipart field holding a pupil's pages.
	BulkFileFieldPrefix = "file_"
)

// PageArchive stores scanned essay pages and returns their URLs.
type PageArchive interface {
	ArchivePage(ctx context.Context, submissionKey string, page int, image []byte) (string, error)
}

// SemakService exposes the essay checking operations.
type SemakService interface {
	AnalyzeManual(ctx context.Context, req dto.ManualSemakRequest) (dto.AnalysisResult, error)
	ExtractText(ctx context.Context, image []byte) (dto.OCRResponse, error)
	AnalyzeOCR(ctx context.Context, input dto.SubmissionInput, pages [][]byte) (dto.AnalysisResult, error)
	Bulk(ctx context.Context, uid string, pupils []dto.BulkPupil, files map[string][][]byte) (dto.BulkResponse, error)
}

// SemakConfig tunes the semak service.
type SemakConfig struct {
	MaxPages   int
	OCRTimeout time.Duration
}

type semakService struct {
	analysis  AnalysisService
	extractor ocr.Extractor
	credits   CreditService
	results   ResultService
	archive   PageArchive
	validator *validator.Validate
	cfg       SemakConfig
	tracer    trace.Tracer
	logger    zerolog.Logger
}

// NewSemakService wires the semak service. extractor and archive may be nil.
func NewSemakService(analysis AnalysisService, extractor ocr.Extractor, credits CreditService, results ResultService, archive PageArchive, validate *validator.Validate, cfg SemakConfig, logger zerolog.Logger) SemakService {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaultOCRPageLimit
	}

	return &semakService{
		analysis:  analysis,
		extractor: extractor,
		credits:   credits,
		results:   results,
		archive:   archive,
		validator: validate,
		cfg:       cfg,
		tracer:    otel.Tracer("github.com/noah-isme/semak-karangan-api/internal/service/semak"),
		logger:    logger.With().Str("component", "semak_service").Logger(),
	}
}

func (s *semakService) AnalyzeManual(ctx context.Context, req dto.ManualSemakRequest) (dto.AnalysisResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AnalysisResult{}, err
	}

	return s.analysis.Analyze(ctx, dto.SubmissionInput{
		Name:               strings.TrimSpace(req.Nama),
		Set:                strings.TrimSpace(req.Set),
		Essay:              req.Karangan,
		PictureDescription: req.PictureDescription,
		PictureURL:         req.PictureURL,
	})
}

func (s *semakService) ExtractText(ctx context.Context, image []byte) (dto.OCRResponse, error) {
	if len(image) == 0 {
		return dto.OCRResponse{}, ErrNoImages
	}
	if s.extractor == nil {
		return dto.OCRResponse{}, ErrOCRUnavailable
	}
	if _, err := ocr.DetectImage(image); err != nil {
		return dto.OCRResponse{}, err
	}

	text, err := s.extract(ctx, image)
	if err != nil {
		return dto.OCRResponse{}, err
	}
	return dto.OCRResponse{Text: text}, nil
}

func (s *semakService) AnalyzeOCR(ctx context.Context, input dto.SubmissionInput, pages [][]byte) (dto.AnalysisResult, error) {
	if len(pages) == 0 {
		return dto.AnalysisResult{}, ErrNoImages
	}

	text, err := s.extractPages(ctx, pages)
	if err != nil {
		return dto.AnalysisResult{}, err
	}
	if strings.TrimSpace(text) == "" {
		return dto.AnalysisResult{}, ErrNoTextExtracted
	}

	input.Essay = text
	return s.analysis.Analyze(ctx, input)
}

// Bulk charges the whole batch up front and then processes the checked pupils
// one by one. Item failures are reported per pupil and never refunded.
func (s *semakService) Bulk(parent context.Context, uid string, pupils []dto.BulkPupil, files map[string][][]byte) (dto.BulkResponse, error) {
	selected := make([]dto.BulkPupil, 0, len(pupils))
	for _, pupil := range pupils {
		if pupil.Checked {
			selected = append(selected, pupil)
		}
	}
	if len(selected) == 0 {
		return dto.BulkResponse{}, ErrNoPupilsSelected
	}

	ctx, span := s.tracer.Start(parent, "semak.bulk", trace.WithAttributes(
		attribute.Int("pupils", len(selected)),
	))
	defer span.End()

	cost := BatchCost(selected)
	balance, err := s.credits.Deduct(ctx, uid, cost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return dto.BulkResponse{}, err
	}

	logger := s.logger.With().Str("uid", uid).Logger()
	logger.Info().Int("pupils", len(selected)).Int("cost", cost).Int("balance", balance).Msg("bulk run started")

	// Credits are already spent, so the run finishes even if the client goes away.
	itemCtx := context.WithoutCancel(ctx)

	results := make([]dto.BulkItemResult, 0, len(selected))
	for _, pupil := range selected {
		item := s.processPupil(itemCtx, logger, uid, pupil, files[BulkFileFieldPrefix+string(pupil.ID)])
		if item.Error != "" {
			observability.BulkItemErrors().WithLabelValues(pupil.Mode).Inc()
		}
		results = append(results, item)
	}

	return dto.BulkResponse{Results: results, CreditsCharged: cost, Balance: balance}, nil
}

// BatchCost sums the credit price of every pupil.
func BatchCost(pupils []dto.BulkPupil) int {
	total := 0
	for _, pupil := range pupils {
		total += dto.ModeCost(pupil.Mode)
	}
	return total
}

func (s *semakService) processPupil(ctx context.Context, logger zerolog.Logger, uid string, pupil dto.BulkPupil, pages [][]byte) dto.BulkItemResult {
	id := string(pupil.ID)
	item := dto.BulkItemResult{ID: id}
	logger = logger.With().Str("pupil_id", id).Str("mode", pupil.Mode).Logger()

	if strings.TrimSpace(pupil.Nama) == "" {
		item.Error = itemErrMissingName
		return item
	}

	input := dto.SubmissionInput{
		Name:               pupil.Nama,
		Set:                pupil.Set,
		PictureDescription: pupil.PictureDescription,
		PictureURL:         pupil.PictureURL,
	}

	var sourceImages []string
	switch pupil.Mode {
	case dto.ModeManual:
		if strings.TrimSpace(pupil.Karangan) == "" {
			item.Error = itemErrEmptyEssay
			return item
		}
		input.Essay = pupil.Karangan

		analysis, err := s.analysis.Analyze(ctx, input)
		if err != nil {
			logger.Error().Err(err).Msg("manual analysis failed")
			item.Error = itemErrManualFailed
			return item
		}
		item.AnalysisResult = &analysis

	case dto.ModeOCR:
		if len(pages) == 0 {
			item.Error = itemErrMissingFile
			return item
		}
		if len(pages) > s.cfg.MaxPages {
			pages = pages[:s.cfg.MaxPages]
		}

		text, err := s.extractPages(ctx, pages)
		if err != nil {
			logger.Error().Err(err).Msg("ocr extraction failed")
			item.Error = itemErrOCRFailed
			item.Detail = err.Error()
			return item
		}
		if strings.TrimSpace(text) == "" {
			item.Error = itemErrNoText
			return item
		}
		input.Essay = text

		analysis, err := s.analysis.Analyze(ctx, input)
		if err != nil {
			logger.Error().Err(err).Msg("ocr analysis failed")
			item.Error = itemErrOCRFailed
			item.Detail = err.Error()
			return item
		}
		item.AnalysisResult = &analysis
		sourceImages = s.archivePages(ctx, logger, pupil, pages)

	default:
		item.Error = itemErrInvalidMode
		return item
	}

	if id == "" {
		logger.Warn().Msg("skipping persistence for pupil without id")
		return item
	}

	if _, err := s.results.Save(ctx, SaveResultInput{
		UID:          uid,
		SubmissionID: id,
		Mode:         pupil.Mode,
		PictureURL:   pupil.PictureURL,
		SourceImages: sourceImages,
		Analysis:     *item.AnalysisResult,
	}); err != nil {
		logger.Error().Err(err).Msg("failed to save result")
		item.Error = itemErrSaveFailed
		item.AnalysisResult = nil
	}

	return item
}

// extractPages runs OCR on each page in order. Every page's text is followed
// by a blank line, including the last one.
func (s *semakService) extractPages(ctx context.Context, pages [][]byte) (string, error) {
	if s.extractor == nil {
		return "", ErrOCRUnavailable
	}
	if len(pages) > s.cfg.MaxPages {
		pages = pages[:s.cfg.MaxPages]
	}

	var builder strings.Builder
	for _, page := range pages {
		if len(page) == 0 {
			continue
		}
		if _, err := ocr.DetectImage(page); err != nil {
			return "", err
		}

		text, err := s.extract(ctx, page)
		if err != nil {
			return "", err
		}
		builder.WriteString(text)
		builder.WriteString(pageSeparator)
	}
	return builder.String(), nil
}

func (s *semakService) extract(ctx context.Context, image []byte) (string, error) {
	callCtx, cancel := ctx, context.CancelFunc(func() {})
	if s.cfg.OCRTimeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, s.cfg.OCRTimeout)
	}
	defer cancel()

	return s.extractor.ExtractText(callCtx, image)
}

func (s *semakService) archivePages(ctx context.Context, logger zerolog.Logger, pupil dto.BulkPupil, pages [][]byte) []string {
	if s.archive == nil {
		return nil
	}

	key := pupil.Set + "_" + string(pupil.ID)
	urls := make([]string, 0, len(pages))
	for idx, page := range pages {
		url, err := s.archive.ArchivePage(ctx, key, idx+1, page)
		if err != nil {
			logger.Warn().Err(err).Int("page", idx+1).Msg("failed to archive essay page")
			continue
		}
		urls = append(urls, url)
	}
	return urls
}
