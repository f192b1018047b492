package vision

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/status"

	"github.com/masmgr/logospots/internal/apiclient"
	"github.com/masmgr/logospots/internal/response"
)

// fakeAnnotator returns a canned response and records the request.
type fakeAnnotator struct {
	resp   *visionpb.BatchAnnotateImagesResponse
	err    error
	req    *visionpb.BatchAnnotateImagesRequest
	closed bool
}

func (f *fakeAnnotator) BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error) {
	f.req = req
	return f.resp, f.err
}

func (f *fakeAnnotator) Close() error {
	f.closed = true
	return nil
}

func pngServer(t *testing.T, w, h int) *httptest.Server {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))

	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			rw.WriteHeader(http.StatusNotFound)
			return
		}
		if r.URL.Path == "/garbage.png" {
			_, _ = rw.Write([]byte("not an image"))
			return
		}
		rw.Header().Set("Content-Type", "image/png")
		_, _ = rw.Write(buf.Bytes())
	}))
	t.Cleanup(server.Close)
	return server
}

func logo(name string, score float32, x, y, w, h int32) *visionpb.EntityAnnotation {
	return &visionpb.EntityAnnotation{
		Description: name,
		Score:       score,
		BoundingPoly: &visionpb.BoundingPoly{Vertices: []*visionpb.Vertex{
			{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h},
		}},
	}
}

func TestDetector_Detect(t *testing.T) {
	server := pngServer(t, 64, 32)
	fake := &fakeAnnotator{resp: &visionpb.BatchAnnotateImagesResponse{
		Responses: []*visionpb.AnnotateImageResponse{{
			LogoAnnotations: []*visionpb.EntityAnnotation{
				logo("acme", 0.75, 8, 4, 16, 8),
				logo("globex", 0.5, 0, 0, 4, 4),
			},
		}},
	}}

	d := newDetector(fake, server.Client(), nil)
	r, err := d.Detect(context.Background(), server.URL+"/img.png")
	require.NoError(t, err)

	require.NotNil(t, fake.req)
	require.Len(t, fake.req.GetRequests(), 1)
	assert.Equal(t, visionpb.Feature_LOGO_DETECTION, fake.req.GetRequests()[0].GetFeatures()[0].GetType())
	assert.NotEmpty(t, fake.req.GetRequests()[0].GetImage().GetContent())

	assert.Equal(t, 64.0, r.Width())
	assert.Equal(t, 32.0, r.Height())
	require.Len(t, r.Polygons(), 2)

	p := r.Polygons()[0]
	assert.Equal(t, "acme", p.Label())
	assert.InDelta(t, 0.75, p.Clarity(), 1e-6)
	assert.Equal(t, []response.Vertex{{X: 8, Y: 4}, {X: 24, Y: 4}, {X: 24, Y: 12}, {X: 8, Y: 12}}, p.Vertices)
}

func TestDetector_Detect_NoLogos(t *testing.T) {
	server := pngServer(t, 10, 10)
	fake := &fakeAnnotator{resp: &visionpb.BatchAnnotateImagesResponse{}}

	r, err := newDetector(fake, server.Client(), nil).Detect(context.Background(), server.URL+"/img.png")
	require.NoError(t, err)
	assert.Empty(t, r.Polygons())
}

func TestDetector_Detect_Errors(t *testing.T) {
	server := pngServer(t, 10, 10)

	tests := []struct {
		name    string
		path    string
		fake    *fakeAnnotator
		wantErr error
	}{
		{
			name:    "download not found",
			path:    "/missing.png",
			fake:    &fakeAnnotator{},
			wantErr: apiclient.ErrStatus,
		},
		{
			name:    "undecodable image",
			path:    "/garbage.png",
			fake:    &fakeAnnotator{},
			wantErr: apiclient.ErrDecode,
		},
		{
			name:    "annotate failure",
			path:    "/img.png",
			fake:    &fakeAnnotator{err: errors.New("unavailable")},
			wantErr: apiclient.ErrRequest,
		},
		{
			name: "per-image error",
			path: "/img.png",
			fake: &fakeAnnotator{resp: &visionpb.BatchAnnotateImagesResponse{
				Responses: []*visionpb.AnnotateImageResponse{{Error: &status.Status{Code: 8, Message: "quota"}}},
			}},
			wantErr: apiclient.ErrStatus,
		},
		{
			name: "degenerate polygon",
			path: "/img.png",
			fake: &fakeAnnotator{resp: &visionpb.BatchAnnotateImagesResponse{
				Responses: []*visionpb.AnnotateImageResponse{{
					LogoAnnotations: []*visionpb.EntityAnnotation{{Description: "acme", Score: 0.5, BoundingPoly: &visionpb.BoundingPoly{}}},
				}},
			}},
			wantErr: response.ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newDetector(tt.fake, server.Client(), nil).Detect(context.Background(), server.URL+tt.path)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDetector_Close(t *testing.T) {
	fake := &fakeAnnotator{}
	require.NoError(t, newDetector(fake, nil, nil).Close())
	assert.True(t, fake.closed)
}
