package ocr

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

// ErrUnsupportedImage is returned for uploads that are not images.
var ErrUnsupportedImage = errors.New("unsupported image type")

// Extractor pulls handwritten or printed text out of an image.
type Extractor interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// VisionConfig configures the Google Cloud Vision extractor. CredentialsJSON
// takes precedence over APIKey.
type VisionConfig struct {
	CredentialsJSON string
	APIKey          string
	Logger          zerolog.Logger
}

// VisionExtractor implements Extractor with the Cloud Vision TEXT_DETECTION feature.
type VisionExtractor struct {
	service *vision.Service
	tracer  trace.Tracer
	logger  zerolog.Logger
}

// NewVisionExtractor builds the Vision client.
func NewVisionExtractor(ctx context.Context, cfg VisionConfig) (*VisionExtractor, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	default:
		return nil, fmt.Errorf("vision credentials are required")
	}

	service, err := vision.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create vision service: %w", err)
	}

	return &VisionExtractor{
		service: service,
		tracer:  otel.Tracer("github.com/noah-isme/semak-karangan-api/pkg/ocr"),
		logger:  cfg.Logger.With().Str("component", "vision_ocr").Logger(),
	}, nil
}

// ExtractText returns the full-text description of the first text annotation,
// or an empty string when the image holds no text.
func (e *VisionExtractor) ExtractText(parent context.Context, image []byte) (string, error) {
	ctx, span := e.tracer.Start(parent, "vision.text_detection")
	defer span.End()

	request := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{
			{
				Image:    &vision.Image{Content: base64.StdEncoding.EncodeToString(image)},
				Features: []*vision.Feature{{Type: "TEXT_DETECTION"}},
			},
		},
	}

	start := time.Now()
	resp, err := e.service.Images.Annotate(request).Context(ctx).Do()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("vision annotate: %w", err)
	}
	e.logger.Debug().Dur("duration", time.Since(start)).Int("bytes", len(image)).Msg("text detection completed")

	return firstDescription(resp)
}

func firstDescription(resp *vision.BatchAnnotateImagesResponse) (string, error) {
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return "", nil
	}

	first := resp.Responses[0]
	if first.Error != nil && first.Error.Message != "" {
		return "", fmt.Errorf("vision annotate: %s", first.Error.Message)
	}
	if len(first.TextAnnotations) == 0 || first.TextAnnotations[0] == nil {
		return "", nil
	}
	return first.TextAnnotations[0].Description, nil
}

// DetectImage sniffs the payload and rejects anything that is not an image.
func DetectImage(data []byte) (string, error) {
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return mime.String(), fmt.Errorf("%w: %s", ErrUnsupportedImage, mime.String())
	}
	return mime.String(), nil
}
