package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lienswings/laundry-watch/model"
)

// Rank turns one probability vector into the labels that cleared the
// threshold, best first, at most topK of them. Ties keep label-set order.
// Pure: no state, no side effects.
func Rank(probs []float32, labelSet []string, threshold float32, topK int) ([]model.RankedLabel, error) {
	if len(probs) != len(labelSet) {
		return nil, model.ShapeMismatchError{Labels: len(labelSet), Probs: len(probs)}
	}

	ranked := make([]model.RankedLabel, 0, len(probs))
	for i, prob := range probs {
		if prob > threshold {
			ranked = append(ranked, model.RankedLabel{Label: labelSet[i], Confidence: prob})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})

	if topK >= 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}

	return ranked, nil
}

// Winner returns the highest-confidence label clearing the threshold.
// ok is false when no label clears it; that is an expected outcome of a
// quiet frame, not an error.
func Winner(probs []float32, labelSet []string, threshold float32) (model.RankedLabel, bool, error) {
	ranked, err := Rank(probs, labelSet, threshold, 1)
	if err != nil {
		return model.RankedLabel{}, false, err
	}

	if len(ranked) == 0 {
		return model.RankedLabel{}, false, nil
	}

	return ranked[0], true, nil
}

// Message renders the ranked list for the presentation sink.
func Message(ranked []model.RankedLabel, threshold float32, topK int) string {
	if len(ranked) == 0 {
		return fmt.Sprintf("Nothing detected when threshold=%.2f, top_k=%d", threshold, topK)
	}

	lines := make([]string, len(ranked))
	for i, r := range ranked {
		lines[i] = fmt.Sprintf(" %s (%.2f)", r.Label, r.Confidence)
	}
	return "Detecting:\n" + strings.Join(lines, "\n")
}
