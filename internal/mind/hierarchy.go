package mind

import (
	"encoding/json"
	"math"

	"github.com/google/uuid"

	"github.com/roseblade/memorylane/internal/models"
	"github.com/roseblade/memorylane/internal/parser"
)

// Layout constants for the hierarchical map. The tree is a presentation
// layout: positions encode paragraph and sentence order, not semantics.
const (
	paragraphRadius = 6.0
	sentenceRadius  = 10.0
	assetRadius     = 3.0

	sentenceAngleStep = 0.35
	sentenceZStep     = 1.2

	maxSentences   = 3
	minSentenceLen = 12
	labelRunes     = 40
)

// Node kinds.
const (
	KindGroup     = "group"
	KindParagraph = "paragraph"
	KindSentence  = "sentence"
	KindAsset     = "asset"
)

// BuildHierarchy produces the visualization tree for an entry: a genesis
// root, one node per paragraph on a circle around the root, up to three
// sentence nodes per paragraph on a wider circle, and one node per asset.
// Every non-root node's parent is appended before it, so parent references
// always resolve and the result is acyclic by construction.
func (e *Engine) BuildHierarchy(title, text string, assets []models.Asset) []models.MapNode {
	if title == "" {
		title = "entry"
	}
	root := models.MapNode{
		ID:      uuid.New().String(),
		Label:   title,
		Kind:    KindGroup,
		Emotion: NeutralLabel,
		Color:   neutralColor,
	}
	nodes := []models.MapNode{root}

	paragraphs := parser.Paragraphs(text)
	for i, p := range paragraphs {
		angle := 2 * math.Pi * float64(i) / float64(len(paragraphs))
		emotion, color := e.nodeTone(p)
		para := models.MapNode{
			ID:       uuid.New().String(),
			Label:    parser.Snippet(p, labelRunes),
			Kind:     KindParagraph,
			Emotion:  emotion,
			Color:    color,
			X:        paragraphRadius * math.Cos(angle),
			Y:        paragraphRadius * math.Sin(angle),
			ParentID: root.ID,
		}
		nodes = append(nodes, para)

		for j, s := range parser.Sentences(p, maxSentences, minSentenceLen) {
			offset := sentenceAngleStep * float64(j-1)
			sEmotion, sColor := e.nodeTone(s)
			nodes = append(nodes, models.MapNode{
				ID:       uuid.New().String(),
				Label:    parser.Snippet(s, labelRunes),
				Kind:     KindSentence,
				Emotion:  sEmotion,
				Color:    sColor,
				X:        sentenceRadius * math.Cos(angle+offset),
				Y:        sentenceRadius * math.Sin(angle+offset),
				Z:        sentenceZStep * float64(j-1),
				ParentID: para.ID,
			})
		}
	}

	for k, a := range assets {
		angle := 2 * math.Pi * float64(k) / float64(len(assets))
		id := a.ID
		if id == "" {
			id = uuid.New().String()
		}
		nodes = append(nodes, models.MapNode{
			ID:       id,
			Label:    a.Name,
			Kind:     KindAsset,
			Emotion:  NeutralLabel,
			Color:    neutralColor,
			X:        assetRadius * math.Cos(angle),
			Y:        assetRadius * math.Sin(angle),
			ParentID: root.ID,
		})
	}

	return nodes
}

// DecodeMap decodes a stored hierarchical-map payload. A payload that fails
// to parse as a node list, or whose parent references do not resolve, fails
// closed to a single-node default tree; a parse error never reaches the
// caller.
func DecodeMap(raw json.RawMessage) []models.MapNode {
	if len(raw) == 0 {
		return defaultMap()
	}
	var nodes []models.MapNode
	if err := json.Unmarshal(raw, &nodes); err != nil || len(nodes) == 0 {
		return defaultMap()
	}
	ids := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = struct{}{}
	}
	roots := 0
	for _, n := range nodes {
		if n.ParentID == "" {
			roots++
			continue
		}
		if _, ok := ids[n.ParentID]; !ok {
			return defaultMap()
		}
	}
	if roots != 1 {
		return defaultMap()
	}
	return nodes
}

func defaultMap() []models.MapNode {
	return []models.MapNode{{
		ID:      uuid.New().String(),
		Label:   "entry",
		Kind:    KindGroup,
		Emotion: NeutralLabel,
		Color:   neutralColor,
	}}
}

func (e *Engine) nodeTone(text string) (emotion, color string) {
	if cat, ok := e.firstCategory(text); ok {
		return cat.Label, cat.Color
	}
	return NeutralLabel, neutralColor
}
