package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lienswings/laundry-watch/model"
)

var laundryLabels = []string{"sensing", "rinse", "idle"}

func TestRankFiltersSortsAndTruncates(t *testing.T) {
	probs := []float32{0.3, 0.8, 0.5}

	ranked, err := Rank(probs, laundryLabels, 0.1, 3)
	require.NoError(t, err)
	require.Equal(t, []model.RankedLabel{
		{Label: "rinse", Confidence: 0.8},
		{Label: "idle", Confidence: 0.5},
		{Label: "sensing", Confidence: 0.3},
	}, ranked)

	// topK truncates after sorting
	ranked, err = Rank(probs, laundryLabels, 0.1, 2)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	require.Equal(t, "rinse", ranked[0].Label)
	require.Equal(t, "idle", ranked[1].Label)
}

func TestRankThresholdIsStrict(t *testing.T) {
	ranked, err := Rank([]float32{0.1, 0.100001, 0.05}, laundryLabels, 0.1, 3)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	require.Equal(t, "rinse", ranked[0].Label)
}

func TestRankTiesKeepLabelSetOrder(t *testing.T) {
	ranked, err := Rank([]float32{0.5, 0.5, 0.5}, laundryLabels, 0.1, 3)
	require.NoError(t, err)
	require.Equal(t, "sensing", ranked[0].Label)
	require.Equal(t, "rinse", ranked[1].Label)
	require.Equal(t, "idle", ranked[2].Label)
}

func TestRankNothingClearsThreshold(t *testing.T) {
	ranked, err := Rank([]float32{0.05, 0.05, 0.05}, laundryLabels, 0.1, 3)
	require.NoError(t, err)
	require.Empty(t, ranked)
}

func TestRankShapeMismatch(t *testing.T) {
	_, err := Rank([]float32{0.5, 0.5}, laundryLabels, 0.1, 3)
	require.Error(t, err)

	var shapeErr model.ShapeMismatchError
	require.ErrorAs(t, err, &shapeErr)
	require.Equal(t, 3, shapeErr.Labels)
	require.Equal(t, 2, shapeErr.Probs)
}

func TestRankIsPure(t *testing.T) {
	probs := []float32{0.3, 0.8, 0.5}
	first, err := Rank(probs, laundryLabels, 0.1, 3)
	require.NoError(t, err)
	second, err := Rank(probs, laundryLabels, 0.1, 3)
	require.NoError(t, err)
	require.Equal(t, first, second)
	// Input left alone
	require.Equal(t, []float32{0.3, 0.8, 0.5}, probs)
}

func TestWinnerIsTopOfRanking(t *testing.T) {
	probs := []float32{0.3, 0.8, 0.5}

	winner, ok, err := Winner(probs, laundryLabels, 0.1)
	require.NoError(t, err)
	require.True(t, ok)

	ranked, err := Rank(probs, laundryLabels, 0.1, 3)
	require.NoError(t, err)
	require.Equal(t, ranked[0], winner)
}

func TestWinnerNoneWhenQuiet(t *testing.T) {
	// A quiet frame yields no winner, not an error
	winner, ok, err := Winner([]float32{0.05, 0.05, 0.05}, laundryLabels, 0.1)
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, winner)
}

func TestWinnerShapeMismatch(t *testing.T) {
	_, ok, err := Winner([]float32{0.5}, laundryLabels, 0.1)
	require.Error(t, err)
	require.False(t, ok)
}

func TestMessage(t *testing.T) {
	ranked := []model.RankedLabel{
		{Label: "rinse", Confidence: 0.8},
		{Label: "idle", Confidence: 0.5},
	}
	require.Equal(t, "Detecting:\n rinse (0.80)\n idle (0.50)", Message(ranked, 0.1, 3))

	require.Equal(t, "Nothing detected when threshold=0.10, top_k=3", Message(nil, 0.1, 3))
}
