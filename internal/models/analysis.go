package models

// Analysis is the derived emotional profile of a single commit.
// Produced once at save time and never mutated afterwards.
type Analysis struct {
	Emotions   []EmotionScore `json:"emotions"`
	Sentiment  string         `json:"sentiment"` // "positive" or "negative"
	Keywords   []string       `json:"keywords"`
	Model      string         `json:"model"` // analysis variant used
	Confidence float64        `json:"confidence"`
	Loss       float64        `json:"loss"`
}

// EmotionScore is one (label, presence, impact) triple. Score is a bounded
// presence value in [0,1]; Impact is normalized by word count.
type EmotionScore struct {
	Label  string  `json:"label"`
	Score  float64 `json:"score"`
	Impact float64 `json:"impact"`
	Color  string  `json:"color,omitempty"`
}

// MapNode is one node of the hierarchical visualization tree. ParentID is
// empty only for the single genesis node.
type MapNode struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Kind     string  `json:"kind"` // group, paragraph, sentence, asset
	Emotion  string  `json:"emotion"`
	Color    string  `json:"color"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	ParentID string  `json:"parentId,omitempty"`
}
