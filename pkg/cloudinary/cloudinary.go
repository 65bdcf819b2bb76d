package cloudinary

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"
)

// Config contains credentials required to talk to Cloudinary.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// PageArchive stores scanned essay pages on Cloudinary.
type PageArchive struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

// New constructs a Cloudinary page archive.
func New(cfg Config, logger zerolog.Logger) (*PageArchive, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &PageArchive{
		client: cld,
		folder: cfg.Folder,
		logger: logger.With().Str("component", "cloudinary").Logger(),
	}, nil
}

// ArchivePage uploads one scanned page and returns its secure URL. Re-uploading
// the same submission page overwrites the previous asset.
func (a *PageArchive) ArchivePage(ctx context.Context, submissionKey string, page int, image []byte) (string, error) {
	overwrite := true
	params := uploader.UploadParams{
		Folder:       strings.Trim(a.folder, "/"),
		PublicID:     PagePublicID(submissionKey, page),
		Overwrite:    &overwrite,
		ResourceType: "image",
	}

	result, err := a.client.Upload.Upload(ctx, bytes.NewReader(image), params)
	if err != nil {
		return "", fmt.Errorf("failed to upload page: %w", err)
	}

	a.logger.Info().Str("public_id", result.PublicID).Int("page", page).Msg("essay page archived")

	return result.SecureURL, nil
}

// PagePublicID builds a stable asset id for a submission page.
func PagePublicID(submissionKey string, page int) string {
	base := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, submissionKey)

	base = strings.Trim(base, "-")
	if base == "" {
		base = "karangan"
	}

	return fmt.Sprintf("%s-p%d", base, page)
}
