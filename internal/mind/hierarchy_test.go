package mind

import (
	"encoding/json"
	"testing"

	"github.com/roseblade/memorylane/internal/models"
)

func TestBuildHierarchy_Structure(t *testing.T) {
	e := fixedEngine()
	text := "This first paragraph has one long sentence in it.\n\n" +
		"Second paragraph here. It has another qualifying sentence too."
	assets := []models.Asset{{ID: "asset-1", Kind: "image", Name: "pic.png"}}

	nodes := e.BuildHierarchy("Trip home", text, assets)

	var groups, paras, sentences, assetNodes int
	byID := map[string]models.MapNode{}
	for _, n := range nodes {
		byID[n.ID] = n
		switch n.Kind {
		case KindGroup:
			groups++
		case KindParagraph:
			paras++
		case KindSentence:
			sentences++
		case KindAsset:
			assetNodes++
		}
	}
	if groups != 1 {
		t.Errorf("groups = %d, want 1", groups)
	}
	if paras != 2 {
		t.Errorf("paragraphs = %d, want 2", paras)
	}
	if sentences != 3 {
		t.Errorf("sentences = %d, want 3", sentences)
	}
	if assetNodes != 1 {
		t.Errorf("assets = %d, want 1", assetNodes)
	}

	// Every non-root parent reference resolves, and there is exactly one root.
	roots := 0
	for _, n := range nodes {
		if n.ParentID == "" {
			roots++
			if n.Label != "Trip home" {
				t.Errorf("root label = %q", n.Label)
			}
			continue
		}
		if _, ok := byID[n.ParentID]; !ok {
			t.Errorf("dangling parent %q on node %q", n.ParentID, n.ID)
		}
	}
	if roots != 1 {
		t.Errorf("roots = %d, want 1", roots)
	}
}

func TestBuildHierarchy_EmptyText(t *testing.T) {
	e := fixedEngine()
	nodes := e.BuildHierarchy("", "", nil)
	if len(nodes) != 1 {
		t.Fatalf("len = %d, want just the root", len(nodes))
	}
	if nodes[0].Kind != KindGroup || nodes[0].Label != "entry" {
		t.Errorf("root = %+v", nodes[0])
	}
}

func TestBuildHierarchy_AssetWithoutID(t *testing.T) {
	e := fixedEngine()
	nodes := e.BuildHierarchy("t", "", []models.Asset{{Name: "pic.png"}})
	for _, n := range nodes {
		if n.Kind == KindAsset && n.ID == "" {
			t.Error("asset node has empty id")
		}
	}
}

func TestBuildHierarchy_ParagraphTone(t *testing.T) {
	e := fixedEngine()
	nodes := e.BuildHierarchy("t", "I was happy today.", nil)
	found := false
	for _, n := range nodes {
		if n.Kind == KindParagraph {
			found = true
			if n.Emotion != "Joy" {
				t.Errorf("paragraph emotion = %q, want Joy", n.Emotion)
			}
		}
	}
	if !found {
		t.Fatal("no paragraph node")
	}
}

func TestDecodeMap_RoundTrip(t *testing.T) {
	e := fixedEngine()
	nodes := e.BuildHierarchy("t", "A paragraph with a proper sentence.", nil)
	raw, err := json.Marshal(nodes)
	if err != nil {
		t.Fatal(err)
	}
	got := DecodeMap(raw)
	if len(got) != len(nodes) {
		t.Errorf("len = %d, want %d", len(got), len(nodes))
	}
}

func TestDecodeMap_FailsClosed(t *testing.T) {
	cases := map[string]json.RawMessage{
		"nil payload":     nil,
		"invalid json":    json.RawMessage(`{not valid`),
		"empty list":      json.RawMessage(`[]`),
		"dangling parent": json.RawMessage(`[{"id":"a","kind":"group"},{"id":"b","kind":"paragraph","parentId":"ghost"}]`),
		"two roots":       json.RawMessage(`[{"id":"a","kind":"group"},{"id":"b","kind":"group"}]`),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			got := DecodeMap(raw)
			if len(got) != 1 || got[0].Kind != KindGroup {
				t.Errorf("got %+v, want single default group node", got)
			}
		})
	}
}
