// Package facemesh is the client for the external face-mesh detector
// sidecar. The detector owns capture and raw landmark detection; this
// client only ships it a canonical pixel buffer and decodes the
// landmark sets it returns.
package facemesh

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"time"

	"github.com/okian/muster/internal/domain/model"
)

// Default client configuration constants.
const (
	defaultBaseURL = "http://localhost:9090"
	defaultTimeout = 10 * time.Second
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL sets the detector sidecar address.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// Client implements landmark.Detector against the detector sidecar.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client with default configuration.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// detectResponse mirrors the sidecar's reply: one ordered [x,y,z]
// landmark list per detected face, in the detector's native ordering.
type detectResponse struct {
	Faces [][][3]float64 `json:"faces"`
}

// DetectFaces sends the pixel buffer to the sidecar and decodes the
// landmark sets of every face it found.
func (c *Client) DetectFaces(ctx context.Context, img *image.NRGBA) ([]model.LandmarkVector, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/landmarks", &buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetector, err)
	}
	req.Header.Set("Content-Type", "image/png")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetector, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrDetector, resp.StatusCode)
	}

	var decoded detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrDetector, err)
	}

	faces := make([]model.LandmarkVector, 0, len(decoded.Faces))
	for _, face := range decoded.Faces {
		vec := make(model.LandmarkVector, len(face))
		for i, p := range face {
			vec[i] = model.Point{X: p[0], Y: p[1], Z: p[2]}
		}
		faces = append(faces, vec)
	}
	return faces, nil
}
