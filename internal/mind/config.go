// Package mind derives emotional features, hierarchical visualization
// trees, and vault-wide aggregates from raw journal text. Classification is
// a deterministic keyword heuristic; the only randomness is cosmetic jitter
// on the confidence and loss display scalars.
package mind

import "math/rand/v2"

// Analysis variant names. A variant selects a weighting profile, not a
// different algorithm.
const (
	ModelMini = "mood-mini"
	ModelCore = "mood-core"
	ModelDeep = "mood-deep"
)

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
)

// NeutralLabel is the synthetic category substituted when no emotion
// category survives scoring.
const NeutralLabel = "Neutral"

const neutralColor = "#9aa5b1"

// negativeLabel is the single category that maps to a negative overall
// sentiment. Anger and fear still read as positive overall; kept that way
// for compatibility with stored analyses.
const negativeLabel = "Sadness"

// Category defines one emotion: a display label, a hex color, and the
// keyword list it is scored against.
type Category struct {
	Label    string
	Color    string
	Keywords []string
}

// Config is the explicit, passed-in engine configuration. The engine holds
// no hidden mutable state: usage counts are derived from stored commits, not
// accumulated inside the engine.
type Config struct {
	Categories []Category
	// Weights maps variant name to per-label multipliers. A missing entry
	// means 1.0.
	Weights map[string]map[string]float64
	// Jitter returns a value in [0,1) used only for the confidence and loss
	// display scalars. Tests inject a fixed function.
	Jitter func() float64
}

// DefaultConfig returns the built-in category table and variant weights.
func DefaultConfig() Config {
	return Config{
		Categories: []Category{
			{
				Label: "Joy", Color: "#f5c542",
				Keywords: []string{"happy", "joy", "joyful", "glad", "smile", "laugh", "laughed", "grateful", "excited", "delight", "wonderful", "fun"},
			},
			{
				Label: "Love", Color: "#e0559b",
				Keywords: []string{"love", "loved", "beloved", "cherish", "adore", "dear", "heart", "tender", "warmth", "affection"},
			},
			{
				Label: "Sadness", Color: "#5b7fd4",
				Keywords: []string{"sad", "sadness", "cry", "cried", "tears", "lonely", "grief", "loss", "miss", "missing", "empty", "hurt"},
			},
			{
				Label: "Anger", Color: "#d9534f",
				Keywords: []string{"angry", "anger", "furious", "rage", "annoyed", "hate", "hated", "frustrated", "resent"},
			},
			{
				Label: "Fear", Color: "#8e6bb5",
				Keywords: []string{"afraid", "fear", "scared", "anxious", "anxiety", "worry", "worried", "nervous", "dread", "panic"},
			},
			{
				Label: "Curiosity", Color: "#4cae9e",
				Keywords: []string{"wonder", "curious", "question", "why", "learn", "learned", "discover", "explore", "idea", "imagine"},
			},
		},
		Weights: map[string]map[string]float64{
			ModelMini: {"Joy": 1.1},
			ModelCore: {"Love": 1.2, "Sadness": 1.1},
			ModelDeep: {"Fear": 1.25, "Curiosity": 1.2, "Anger": 1.15},
		},
		Jitter: rand.Float64,
	}
}
