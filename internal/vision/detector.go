// Package vision detects logos with the Google Cloud Vision API and reports them
// in the same shape as the recognition API.
package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"time"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	_ "golang.org/x/image/webp"
	"google.golang.org/api/option"

	"github.com/masmgr/logospots/internal/apiclient"
	"github.com/masmgr/logospots/internal/response"
)

// maxImageBytes caps the size of a downloaded image.
const maxImageBytes = 20 << 20

const defaultDownloadTimeout = 30 * time.Second

// annotator is the part of the Vision client the detector uses.
type annotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
	Close() error
}

// Detector runs LOGO_DETECTION on downloaded images.
type Detector struct {
	client     annotator
	httpClient *http.Client
	logger     *slog.Logger
}

var _ apiclient.Detector = (*Detector)(nil)

// NewDetector connects to Cloud Vision using application default credentials
// unless opts say otherwise.
func NewDetector(ctx context.Context, httpClient *http.Client, logger *slog.Logger, opts ...option.ClientOption) (*Detector, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return newDetector(client, httpClient, logger), nil
}

func newDetector(client annotator, httpClient *http.Client, logger *slog.Logger) *Detector {
	if httpClient == nil {
		httpClient = apiclient.NewHTTPClient(defaultDownloadTimeout)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{client: client, httpClient: httpClient, logger: logger}
}

// Close releases the Vision client.
func (d *Detector) Close() error {
	return d.client.Close()
}

// Detect downloads imageURL, annotates it and converts the logo annotations.
func (d *Detector) Detect(ctx context.Context, imageURL string) (*response.Response, error) {
	data, err := d.download(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image %s: %v", apiclient.ErrDecode, imageURL, err)
	}
	d.logger.Debug("downloaded image", "url", imageURL, "format", format, "width", cfg.Width, "height", cfg.Height)

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: data},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_LOGO_DETECTION},
				},
			},
		},
	}

	resp, err := d.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: vision API request failed: %v", apiclient.ErrRequest, err)
	}

	var annotations []*visionpb.EntityAnnotation
	if len(resp.GetResponses()) > 0 {
		first := resp.GetResponses()[0]
		if first.GetError() != nil {
			return nil, fmt.Errorf("%w: vision API error: %s", apiclient.ErrStatus, first.GetError().GetMessage())
		}
		annotations = first.GetLogoAnnotations()
	}

	polys := make([]response.BoundingPoly, 0, len(annotations))
	for _, logo := range annotations {
		polys = append(polys, toBoundingPoly(logo))
	}

	r := response.New(imageURL, float64(cfg.Width), float64(cfg.Height), polys)
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func toBoundingPoly(logo *visionpb.EntityAnnotation) response.BoundingPoly {
	vertices := logo.GetBoundingPoly().GetVertices()
	out := make([]response.Vertex, 0, len(vertices))
	for _, v := range vertices {
		out = append(out, response.Vertex{X: float64(v.GetX()), Y: float64(v.GetY())})
	}
	return response.BoundingPoly{
		Classes:  []response.Class{{Class: logo.GetDescription(), Score: float64(logo.GetScore())}},
		Meta:     response.Meta{Clarity: response.Clarity(float64(logo.GetScore()))},
		Vertices: out,
	}
}

func (d *Detector) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apiclient.ErrRequest, err)
	}

	res, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: download %s: %v", apiclient.ErrRequest, imageURL, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			d.logger.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, &apiclient.StatusError{Code: res.StatusCode, Body: "download " + imageURL}
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", apiclient.ErrRequest, imageURL, err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image %s exceeds %d bytes", imageURL, maxImageBytes)
	}
	return data, nil
}
