// Package headroom converts a prefix count published in PeeringDB into the
// limit we actually want configured on the router.
package headroom

import (
	"errors"
	"math"
	"strconv"
)

// ErrNegativeCount is returned for a negative prefix count. PeeringDB never
// publishes one; seeing it means a caller bug, not bad input data.
var ErrNegativeCount = errors.New("headroom: negative prefix count")

// Recommend scales a published prefix count by a digit-length multiplier:
// (6 - digits)/10 + 1. Small counts get proportionally more headroom (one
// digit -> x1.5) while six-digit counts get none, since large networks
// already over-provision their PeeringDB listings. The result is rounded up,
// never truncated, so the recommendation never falls below the exact scaled
// value. A reported count of 0 yields 0 and means "no usable data", not
// "accept zero routes" - callers must treat it as unrated.
func Recommend(reported int) (limit int, multiplier float64, err error) {
	if reported < 0 {
		return 0, 0, ErrNegativeCount
	}
	digits := len(strconv.Itoa(reported))
	multiplier = float64(6-digits)/10 + 1
	limit = int(math.Ceil(float64(reported) * multiplier))
	return limit, multiplier, nil
}
