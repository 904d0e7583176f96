package mind

import (
	"sort"
	"strings"

	"github.com/roseblade/memorylane/internal/models"
	"github.com/roseblade/memorylane/internal/parser"
)

// Score thresholds and bounds.
const (
	dropThreshold  = 0.05
	maxKeywords    = 8
	scoreDivisor   = 3.0
	neutralScore   = 1.0
	neutralImpact  = 0.1
	recommendShort = 120
	recommendLong  = 600
)

// Engine derives analyses from text. It is stateless apart from its
// immutable configuration and safe for concurrent use.
type Engine struct {
	cfg Config
}

// New creates an engine from an explicit configuration.
func New(cfg Config) *Engine {
	if cfg.Jitter == nil {
		cfg.Jitter = DefaultConfig().Jitter
	}
	return &Engine{cfg: cfg}
}

// Classify scores each emotion category against the text using the named
// variant's weights. Keyword matching is word-boundary token matching, so a
// keyword only counts when it appears as a whole word; this intentionally
// diverges from naive substring counting, which also matches inside
// unrelated words.
func (e *Engine) Classify(text, model string) models.Analysis {
	if model == "" {
		model = e.Recommend(text)
	}

	words := parser.Words(text)
	freq := make(map[string]int, len(words))
	for _, w := range words {
		freq[w]++
	}

	var emotions []models.EmotionScore
	for _, cat := range e.cfg.Categories {
		count := 0
		for _, kw := range cat.Keywords {
			count += freq[kw]
		}
		if count == 0 {
			continue
		}
		weighted := float64(count) * e.weight(model, cat.Label)
		score := clamp01(weighted / scoreDivisor)
		impact := 0.0
		if len(words) > 0 {
			impact = clamp01(weighted / float64(len(words)))
		}
		if score <= dropThreshold && impact <= dropThreshold {
			continue
		}
		emotions = append(emotions, models.EmotionScore{
			Label:  cat.Label,
			Score:  score,
			Impact: impact,
			Color:  cat.Color,
		})
	}

	sort.SliceStable(emotions, func(i, j int) bool {
		if emotions[i].Impact != emotions[j].Impact {
			return emotions[i].Impact > emotions[j].Impact
		}
		return emotions[i].Score > emotions[j].Score
	})

	if len(emotions) == 0 {
		emotions = []models.EmotionScore{{
			Label:  NeutralLabel,
			Score:  neutralScore,
			Impact: neutralImpact,
			Color:  neutralColor,
		}}
	}

	sentiment := SentimentPositive
	if emotions[0].Label == negativeLabel {
		sentiment = SentimentNegative
	}

	keywords := words
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	if keywords == nil {
		keywords = []string{}
	}

	return models.Analysis{
		Emotions:   emotions,
		Sentiment:  sentiment,
		Keywords:   keywords,
		Model:      model,
		Confidence: 0.80 + 0.18*e.cfg.Jitter(),
		Loss:       0.04 + 0.20*e.cfg.Jitter(),
	}
}

// Recommend selects the variant to pre-select for the next save, purely
// from text length.
func (e *Engine) Recommend(text string) string {
	n := len(strings.TrimSpace(text))
	switch {
	case n < recommendShort:
		return ModelMini
	case n < recommendLong:
		return ModelCore
	default:
		return ModelDeep
	}
}

// firstCategory returns the first category with a word-boundary keyword hit
// in the text. First match wins; there is no scoring here.
func (e *Engine) firstCategory(text string) (Category, bool) {
	freq := make(map[string]struct{})
	for _, w := range parser.Words(text) {
		freq[w] = struct{}{}
	}
	for _, cat := range e.cfg.Categories {
		for _, kw := range cat.Keywords {
			if _, ok := freq[kw]; ok {
				return cat, true
			}
		}
	}
	return Category{}, false
}

func (e *Engine) weight(model, label string) float64 {
	if table, ok := e.cfg.Weights[model]; ok {
		if w, ok := table[label]; ok {
			return w
		}
	}
	return 1.0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
