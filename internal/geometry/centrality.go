package geometry

import (
	"errors"
	"math"
)

var (
	// ErrInvalidImageSize is returned when an image dimension is not positive.
	ErrInvalidImageSize = errors.New("image width and height must be positive")
	// ErrNotQuadrilateral is returned when fewer than four corners are supplied.
	ErrNotQuadrilateral = errors.New("logo polygon must have four corners")
)

// CentralityRating rates how close a logo sits to the image center.
//
// A box of logoW x logoH is centered in the image and compared corner by corner
// (TL, TR, BR, BL) with the detected corners. The largest offset on each axis is
// scaled by the image dimension, and the two are combined into a diagonal
// dislocation. The rating is 1 - dislocation: 1.0 for a perfectly centered logo,
// approaching 1 - sqrt(2) for a logo pushed beyond the opposite corner.
func CentralityRating(imageW, imageH, logoW, logoH float64, corners Polygon) (float64, error) {
	if imageW <= 0 || imageH <= 0 {
		return 0, ErrInvalidImageSize
	}
	if len(corners) < 4 {
		return 0, ErrNotQuadrilateral
	}

	x1, x2 := imageW/2-logoW/2, imageW/2+logoW/2
	y1, y2 := imageH/2-logoH/2, imageH/2+logoH/2
	centered := [4]Point{{x1, y1}, {x2, y1}, {x2, y2}, {x1, y2}}

	var dx, dy float64
	for i, c := range centered {
		dx = math.Max(dx, math.Abs(c.X-corners[i].X))
		dy = math.Max(dy, math.Abs(c.Y-corners[i].Y))
	}

	dislocation := math.Hypot(dx/imageW, dy/imageH)
	return 1 - dislocation, nil
}
