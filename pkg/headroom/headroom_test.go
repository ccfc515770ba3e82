package headroom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommend(t *testing.T) {
	cases := []struct {
		reported   int
		limit      int
		multiplier float64
	}{
		{0, 0, 1.5},
		{9, 14, 1.5}, // ceil(13.5)
		{10, 14, 1.4},
		{200, 260, 1.3},
		{4000, 4800, 1.2},
		{99999, 109999, 1.1},
		{150000, 150000, 1.0},
	}
	for _, tc := range cases {
		limit, multiplier, err := Recommend(tc.reported)
		require.NoError(t, err)
		assert.Equal(t, tc.limit, limit, "reported=%d", tc.reported)
		assert.InDelta(t, tc.multiplier, multiplier, 1e-9, "reported=%d", tc.reported)
	}
}

func TestRecommendNegative(t *testing.T) {
	_, _, err := Recommend(-1)
	require.ErrorIs(t, err, ErrNegativeCount)
}

// Within a digit class the multiplier is constant, so the recommendation must
// be monotonically non-decreasing, and it must never round below the exact
// scaled value.
func TestRecommendMonotonicPerDigitClass(t *testing.T) {
	prev := 0
	for reported := 1000; reported <= 9999; reported += 7 {
		limit, multiplier, err := Recommend(reported)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, limit, prev)
		assert.GreaterOrEqual(t, float64(limit), float64(reported)*multiplier)
		prev = limit
	}
}
