package mind

import (
	"math"
	"sort"

	"github.com/roseblade/memorylane/internal/models"
	"github.com/roseblade/memorylane/internal/vcs"
)

const (
	densityTarget  = 10 // notes needed to reach full density
	dominantThemes = 4
)

// AggregateVault recomputes the vault-wide intelligence snapshot from
// scratch over the full note collection. Entropy is the variance of
// per-note mood scores, so the result is fully deterministic. Usage
// counters are derived from the stored commits rather than accumulated in
// the engine. An empty collection yields a zeroed snapshot without error.
func (e *Engine) AggregateVault(notes []models.Note) models.GlobalIntelligence {
	gi := models.GlobalIntelligence{
		DominantThemes: []string{},
		ClusterCounts:  map[string]int{},
	}
	if len(notes) == 0 {
		return gi
	}

	gi.Density = math.Min(float64(len(notes))/densityTarget, 1)

	moods := make([]float64, 0, len(notes))
	modelCounts := map[string]int{}
	for _, n := range notes {
		moods = append(moods, moodScore(n))
		for _, label := range n.Clusters {
			gi.ClusterCounts[label]++
		}
		for _, b := range n.Branches {
			for _, c := range b.Commits {
				if c.Analysis != nil {
					gi.TotalInferences++
					modelCounts[c.Analysis.Model]++
				}
			}
		}
	}

	gi.Entropy = variance(moods)
	gi.HealthScore = clamp01(1 - 0.1*math.Min(gi.Entropy, 1))
	gi.DominantThemes = topLabels(gi.ClusterCounts, dominantThemes)
	gi.MostUsedModel = mostUsed(modelCounts)
	return gi
}

// moodScore reduces a note to a single scalar: the impact of its head
// analysis's top emotion, negated for negative sentiment. Notes without an
// analysis score zero.
func moodScore(n models.Note) float64 {
	head, err := vcs.HeadCommit(n, n.ActiveBranch)
	if err != nil || head.Analysis == nil || len(head.Analysis.Emotions) == 0 {
		return 0
	}
	v := head.Analysis.Emotions[0].Impact
	if head.Analysis.Sentiment == SentimentNegative {
		return -v
	}
	return v
}

func variance(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))

	sum := 0.0
	for _, v := range vals {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(vals))
}

func topLabels(counts map[string]int, n int) []string {
	type pair struct {
		label string
		count int
	}
	pairs := make([]pair, 0, len(counts))
	for l, c := range counts {
		pairs = append(pairs, pair{l, c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].label < pairs[j].label
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.label
	}
	return out
}

func mostUsed(counts map[string]int) string {
	best, bestCount := "", -1
	for m, c := range counts {
		if c > bestCount || (c == bestCount && m < best) {
			best, bestCount = m, c
		}
	}
	return best
}
