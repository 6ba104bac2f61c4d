package octree3

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

// ErrTypeInvalidConfiguration tags a construction-time error returned
// by NewBoundsIndex / NewPointIndex.
const ErrTypeInvalidConfiguration = "octree3_invalid_configuration"

// validateConfiguration checks and normalizes the constructor options
// shared by both containers. It returns the clamped min node size and
// the clamped looseness (always 1 for the point tree, which has no
// looseness concept).
//
// minNodeSize larger than initialSize is only a warning: the reference
// behavior clamps it down and keeps going. It is only a hard failure
// when the combination cannot be reconciled by that clamp — a loose
// (looseness > 1) request for a minimum node size more than double the
// initial world, which would silently throw away more than half of
// the caller's requested resolution.
func validateConfiguration(initialSize float32, initialCenter V3, minNodeSize float32, looseness float32) (float32, float32, error) {
	if initialSize <= 0 {
		return 0, 0, errors.New("initial_size must be positive").
			WithType(ErrTypeInvalidConfiguration).
			WithTag("initial_size", initialSize)
	}
	if minNodeSize <= 0 {
		return 0, 0, errors.New("min_node_size must be positive").
			WithType(ErrTypeInvalidConfiguration).
			WithTag("min_node_size", minNodeSize)
	}

	clampedLooseness := clamp32(looseness, 1, 2)

	if clampedLooseness > 1 && minNodeSize > 2*initialSize {
		return 0, 0, errors.New("min_node_size cannot be reconciled with initial_size and looseness").
			WithType(ErrTypeInvalidConfiguration).
			WithTag("initial_size", initialSize).
			WithTag("min_node_size", minNodeSize).
			WithTag("looseness", clampedLooseness)
	}

	clampedMinSize := minNodeSize
	if minNodeSize > initialSize {
		logs.WithTag("initial_size", initialSize).
			WithTag("min_node_size", minNodeSize).
			WithTag("initial_center", initialCenter).
			Warn(errors.Newf("min_node_size is larger than initial_size, clamping"))
		clampedMinSize = initialSize
	}

	return clampedMinSize, clampedLooseness, nil
}

func logGrowExhausted(kind string, attempts int) {
	logs.WithTag("kind", kind).
		WithTag("attempts", attempts).
		Error(errors.Newf("add exhausted grow attempts, dropping insertion"))
}
