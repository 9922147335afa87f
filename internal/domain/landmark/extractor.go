// Package landmark canonicalizes face images and extracts ordered
// face-mesh landmark vectors. Raw detection is delegated to an external
// Detector; this package owns image decoding, the canonical pixel
// buffer, and the first-face selection rule.
package landmark

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register webp for data-URL captures

	"github.com/okian/muster/internal/domain/model"
)

// Detector produces the raw landmark sets of every face in an image,
// in the detector's native ordering and normalized coordinate space.
type Detector interface {
	DetectFaces(ctx context.Context, img *image.NRGBA) ([]model.LandmarkVector, error)
}

// Extractor turns an uploaded image or a base64 data-URL capture into
// one landmark vector. No rescaling is applied: consumers must compare
// vectors produced by the same detector configuration.
type Extractor struct {
	detector Detector
}

// New creates an Extractor over the given detector.
func New(detector Detector) *Extractor {
	return &Extractor{detector: detector}
}

// ExtractImage decodes a binary image payload and extracts the
// landmarks of the first detected face.
func (e *Extractor) ExtractImage(ctx context.Context, data []byte) (model.LandmarkVector, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %v", ErrInvalidImage, err)
	}
	// Clone yields the canonical NRGBA pixel buffer regardless of the
	// source encoding.
	faces, err := e.detector.DetectFaces(ctx, imaging.Clone(img))
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", err)
	}
	if len(faces) == 0 || len(faces[0]) == 0 {
		return nil, ErrNoFace
	}
	// Multi-face inputs use the first face in the detector's ordering.
	return faces[0], nil
}

// ExtractDataURL accepts a "data:image/...;base64,..." capture string.
func (e *Extractor) ExtractDataURL(ctx context.Context, capture string) (model.LandmarkVector, error) {
	if !strings.HasPrefix(capture, "data:image/") {
		return nil, fmt.Errorf("%w: not an image data URL", ErrInvalidImage)
	}
	_, encoded, ok := strings.Cut(capture, ";base64,")
	if !ok {
		return nil, fmt.Errorf("%w: missing base64 payload", ErrInvalidImage)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: decode base64: %v", ErrInvalidImage, err)
	}
	return e.ExtractImage(ctx, raw)
}
