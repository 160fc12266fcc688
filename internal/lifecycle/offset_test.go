package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseOffsetsCommaJoined(t *testing.T) {
	require.Equal(t, []Offset{Offset1h, Offset3h, Offset1d}, ParseOffsets("1h,3h,1d"))
	require.Equal(t, []Offset{Offset15m, Offset2d}, ParseOffsets(" 2d , 15m "))
}

func TestParseOffsetsJSONArray(t *testing.T) {
	require.Equal(t, []Offset{Offset30m, Offset12h}, ParseOffsets(`["12h","30m"]`))
	// broken JSON falls back to comma splitting; bracketed junk is dropped
	require.Empty(t, ParseOffsets(`["12h",`))
	// broken JSON where comma splitting still rescues a token in the middle
	require.Equal(t, []Offset{Offset1h}, ParseOffsets(`["bad",1h,`))
}

func TestParseOffsetsCanonicalOrderAndDedup(t *testing.T) {
	require.Equal(t,
		[]Offset{Offset15m, Offset1h, Offset1d},
		ParseOffsets("1d,15m,1h,1d,1h"))
}

func TestParseOffsetsLeniency(t *testing.T) {
	require.Empty(t, ParseOffsets(""))
	require.Empty(t, ParseOffsets("   "))
	require.Empty(t, ParseOffsets("45m,5h,tomorrow"))
	require.Equal(t, []Offset{Offset1h}, ParseOffsets("45m,1h,週間"))
}

func TestJoinOffsetsRoundTrip(t *testing.T) {
	in := []Offset{Offset1d, Offset15m, Offset1d, Offset1h}
	joined := JoinOffsets(in)
	require.Equal(t, "15m,1h,1d", joined)
	require.Equal(t, []Offset{Offset15m, Offset1h, Offset1d}, ParseOffsets(joined))
}

func TestOffsetDurations(t *testing.T) {
	require.Equal(t, 15*time.Minute, Offset15m.Duration())
	require.Equal(t, 24*time.Hour, Offset1d.Duration())
	require.Equal(t, 48*time.Hour, Offset2d.Duration())
	require.Equal(t, time.Duration(0), Offset("7d").Duration())
}
