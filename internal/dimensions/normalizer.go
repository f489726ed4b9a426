package dimensions

import (
	"errors"
	"fmt"
)

// MinBlockSize is the smallest edge length the texture compressor accepts.
const MinBlockSize = 4

// ErrDegenerateDimension is returned when a probed width or height is not positive.
var ErrDegenerateDimension = errors.New("degenerate image dimension")

// Plan describes how an image must be resized before compression
type Plan struct {
	SourceWidth  int
	SourceHeight int
	TargetWidth  int
	TargetHeight int
	NeedsResize  bool
}

// String renders the plan in the resize report format
func (p Plan) String() string {
	return fmt.Sprintf("width: %d => %d, height: %d => %d",
		p.SourceWidth, p.TargetWidth, p.SourceHeight, p.TargetHeight)
}

// NewPlan computes target dimensions that satisfy the compressor's
// power-of-two, minimum block size constraints. Images are only ever
// shrunk, except for edges below MinBlockSize which are raised to it.
func NewPlan(width, height int) (Plan, error) {
	if width <= 0 || height <= 0 {
		return Plan{}, fmt.Errorf("%w: %dx%d", ErrDegenerateDimension, width, height)
	}

	p := Plan{
		SourceWidth:  width,
		SourceHeight: height,
		TargetWidth:  normalize(width),
		TargetHeight: normalize(height),
	}
	p.NeedsResize = p.TargetWidth != width || p.TargetHeight != height

	return p, nil
}

// IsPowerOfTwo reports whether v&(v-1) == 0. Zero satisfies the identity,
// so callers must reject it separately.
func IsPowerOfTwo(v int) bool {
	return v&(v-1) == 0
}

// FloorPowerOfTwo returns the largest power of two not exceeding v.
// v must be positive.
func FloorPowerOfTwo(v int) int {
	p := 1
	for p <= v/2 {
		p <<= 1
	}
	return p
}

func normalize(v int) int {
	if v < MinBlockSize {
		return MinBlockSize
	}
	if !IsPowerOfTwo(v) {
		return FloorPowerOfTwo(v)
	}
	return v
}
