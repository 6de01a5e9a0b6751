package ocr

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/splitledger/internal/core/domain"
	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
	"github.com/SscSPs/splitledger/internal/middleware"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

// defaultTextConfidence is used when the engine returns text without page confidences.
const defaultTextConfidence = 80

// ErrNoText is returned when the image contains no readable text.
var ErrNoText = errors.New("no text found in image")

// VisionScanner reads receipts with the Google Cloud Vision text detection API.
type VisionScanner struct {
	images *vision.ImagesService
}

// NewVisionScanner creates a scanner authenticated with a service account key file.
func NewVisionScanner(ctx context.Context, credentialsFile string) (*VisionScanner, error) {
	raw, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read vision credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, raw, vision.CloudVisionScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse vision credentials: %w", err)
	}
	svc, err := vision.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &VisionScanner{images: vision.NewImagesService(svc)}, nil
}

var _ portssvc.ReceiptScanner = (*VisionScanner)(nil)

// ScanReceipt runs document text detection on image and extracts amount candidates.
func (v *VisionScanner) ScanReceipt(ctx context.Context, image []byte) ([]domain.ReceiptCandidate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image:    &vision.Image{Content: base64.StdEncoding.EncodeToString(image)},
			Features: []*vision.Feature{{Type: "DOCUMENT_TEXT_DETECTION"}},
		}},
	}
	resp, err := v.images.Annotate(req).Context(ctx).Do()
	if err != nil {
		logger.Error("Vision annotate request failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("vision annotate: %w", err)
	}
	if len(resp.Responses) == 0 {
		return nil, ErrNoText
	}
	r := resp.Responses[0]
	if r.Error != nil {
		return nil, fmt.Errorf("vision annotate: %s", r.Error.Message)
	}

	text, confidence := textAndConfidence(r)
	if text == "" {
		return nil, ErrNoText
	}
	candidates := ExtractCandidates(text, confidence)
	logger.Debug("Receipt scanned",
		slog.Float64("ocr_confidence", confidence),
		slog.Int("candidates", len(candidates)))
	return candidates, nil
}

// textAndConfidence returns the full detected text and the mean page confidence on a 0-100 scale.
func textAndConfidence(r *vision.AnnotateImageResponse) (string, float64) {
	if r.FullTextAnnotation == nil {
		if len(r.TextAnnotations) > 0 {
			return r.TextAnnotations[0].Description, defaultTextConfidence
		}
		return "", 0
	}
	pages := r.FullTextAnnotation.Pages
	if len(pages) == 0 {
		return r.FullTextAnnotation.Text, defaultTextConfidence
	}
	var sum float64
	for _, p := range pages {
		sum += p.Confidence
	}
	return r.FullTextAnnotation.Text, sum / float64(len(pages)) * 100
}
