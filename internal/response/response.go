// Package response defines the typed schema of the logo-recognition API reply and
// validates it before any statistics are derived from it.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/masmgr/logospots/internal/geometry"
)

// ErrMalformed marks a reply that is missing fields the collector depends on.
var ErrMalformed = errors.New("malformed logo response")

// Response is the full reply for a single image.
type Response struct {
	Status []Status `json:"status"`
}

// Status wraps one processing result.
type Status struct {
	Response Body `json:"response"`
}

// Body holds the echoed input and the detection output.
type Body struct {
	Input  Input    `json:"input"`
	Output []Output `json:"output"`
}

// Input describes the submitted media.
type Input struct {
	Media Media `json:"media"`
}

// Media carries the source image's pixel dimensions.
type Media struct {
	URL    string  `json:"url,omitempty"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Output lists the detected bounding polygons.
type Output struct {
	BoundingPoly []BoundingPoly `json:"bounding_poly"`
}

// BoundingPoly is one detected logo instance.
type BoundingPoly struct {
	Classes  []Class  `json:"classes"`
	Meta     Meta     `json:"meta"`
	Vertices []Vertex `json:"vertices"`
}

// Class is a logo label assigned to a polygon. The first class is authoritative.
type Class struct {
	Class string  `json:"class"`
	Score float64 `json:"score,omitempty"`
}

// Meta carries per-instance quality measurements.
type Meta struct {
	Clarity *float64 `json:"clarity"`
}

// Vertex is a polygon corner in pixels.
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Decode reads and validates a JSON reply.
func Decode(r io.Reader) (*Response, error) {
	var resp Response
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, err
	}
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Validate checks every field the collector reads. It inspects the whole reply so
// that a failure is reported before anything is ingested.
func (r Response) Validate() error {
	if len(r.Status) == 0 {
		return fmt.Errorf("%w: no status entries", ErrMalformed)
	}
	body := r.Status[0].Response
	if body.Input.Media.Width <= 0 || body.Input.Media.Height <= 0 {
		return fmt.Errorf("%w: media size %vx%v", ErrMalformed, body.Input.Media.Width, body.Input.Media.Height)
	}
	if len(body.Output) == 0 {
		return fmt.Errorf("%w: no output entries", ErrMalformed)
	}
	for i, poly := range body.Output[0].BoundingPoly {
		if len(poly.Classes) == 0 || poly.Classes[0].Class == "" {
			return fmt.Errorf("%w: polygon %d has no class", ErrMalformed, i)
		}
		if poly.Meta.Clarity == nil {
			return fmt.Errorf("%w: polygon %d has no clarity", ErrMalformed, i)
		}
		if c := *poly.Meta.Clarity; c < 0 || c > 1 {
			return fmt.Errorf("%w: polygon %d clarity %v outside [0,1]", ErrMalformed, i, c)
		}
		if len(poly.Vertices) != 4 {
			return fmt.Errorf("%w: polygon %d has %d vertices", ErrMalformed, i, len(poly.Vertices))
		}
	}
	return nil
}

// Width returns the image width. Only meaningful on a validated reply.
func (r Response) Width() float64 { return r.Status[0].Response.Input.Media.Width }

// Height returns the image height. Only meaningful on a validated reply.
func (r Response) Height() float64 { return r.Status[0].Response.Input.Media.Height }

// Polygons returns the detected instances. Only meaningful on a validated reply.
func (r Response) Polygons() []BoundingPoly { return r.Status[0].Response.Output[0].BoundingPoly }

// Label returns the polygon's primary class.
func (p BoundingPoly) Label() string { return p.Classes[0].Class }

// Clarity returns the reported clarity.
func (p BoundingPoly) Clarity() float64 { return *p.Meta.Clarity }

// Corners converts the vertices into a geometry polygon.
func (p BoundingPoly) Corners() geometry.Polygon {
	corners := make(geometry.Polygon, len(p.Vertices))
	for i, v := range p.Vertices {
		corners[i] = geometry.Point{X: v.X, Y: v.Y}
	}
	return corners
}

// DistinctLabels counts the distinct primary classes in the reply.
func (r Response) DistinctLabels() int {
	seen := make(map[string]struct{})
	for _, poly := range r.Polygons() {
		seen[poly.Label()] = struct{}{}
	}
	return len(seen)
}

// New builds a single-status reply. Detectors that do not speak the native API use
// it to produce the same shape.
func New(url string, width, height float64, polys []BoundingPoly) Response {
	if polys == nil {
		polys = []BoundingPoly{}
	}
	return Response{Status: []Status{{Response: Body{
		Input:  Input{Media: Media{URL: url, Width: width, Height: height}},
		Output: []Output{{BoundingPoly: polys}},
	}}}}
}

// Clarity returns a pointer for use in Meta literals.
func Clarity(v float64) *float64 { return &v }
