package mind

import (
	"math"
	"testing"

	"github.com/roseblade/memorylane/internal/models"
	"github.com/roseblade/memorylane/internal/vcs"
)

func noteWithEntry(t *testing.T, e *Engine, title, text, model string) models.Note {
	t.Helper()
	n := vcs.NewNote(title, "journal", nil)
	a := e.Classify(text, model)
	n, err := vcs.Commit(n, "", text, "entry", vcs.WithAnalysis(&a))
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	n.Clusters = []string{a.Emotions[0].Label}
	return n
}

func TestAggregateVault_Empty(t *testing.T) {
	e := fixedEngine()
	gi := e.AggregateVault(nil)

	if gi.Density != 0 || gi.Entropy != 0 || gi.HealthScore != 0 {
		t.Errorf("gi = %+v, want zeroed", gi)
	}
	if gi.DominantThemes == nil || gi.ClusterCounts == nil {
		t.Error("expected non-nil empty collections")
	}
	if gi.TotalInferences != 0 {
		t.Errorf("inferences = %d", gi.TotalInferences)
	}
}

func TestAggregateVault_DensityAndHealth(t *testing.T) {
	e := fixedEngine()
	// Two identical notes: variance of moods is zero, health is perfect.
	notes := []models.Note{
		noteWithEntry(t, e, "a", "so happy and glad today", ModelMini),
		noteWithEntry(t, e, "b", "so happy and glad today", ModelMini),
	}
	gi := e.AggregateVault(notes)

	if math.Abs(gi.Density-0.2) > 1e-9 {
		t.Errorf("density = %v, want 0.2 for 2 of 10 notes", gi.Density)
	}
	if gi.Entropy != 0 {
		t.Errorf("entropy = %v, want 0 for identical moods", gi.Entropy)
	}
	if gi.HealthScore != 1.0 {
		t.Errorf("health = %v, want 1.0", gi.HealthScore)
	}
}

func TestAggregateVault_EntropyFromDivergentMoods(t *testing.T) {
	e := fixedEngine()
	notes := []models.Note{
		noteWithEntry(t, e, "up", "happy happy happy joy", ModelMini),
		noteWithEntry(t, e, "down", "lonely tears grief hurt", ModelMini),
	}
	gi := e.AggregateVault(notes)

	if gi.Entropy <= 0 {
		t.Errorf("entropy = %v, want > 0 for divergent moods", gi.Entropy)
	}
	if gi.HealthScore >= 1.0 {
		t.Errorf("health = %v, want < 1.0", gi.HealthScore)
	}
}

func TestAggregateVault_ThemesAndModels(t *testing.T) {
	e := fixedEngine()
	notes := []models.Note{
		noteWithEntry(t, e, "a", "happy glad smile", ModelMini),
		noteWithEntry(t, e, "b", "happy glad smile", ModelMini),
		noteWithEntry(t, e, "c", "love my beloved", ModelCore),
	}
	gi := e.AggregateVault(notes)

	if gi.TotalInferences != 3 {
		t.Errorf("inferences = %d, want 3", gi.TotalInferences)
	}
	if gi.MostUsedModel != ModelMini {
		t.Errorf("most used = %q, want %q", gi.MostUsedModel, ModelMini)
	}
	if gi.ClusterCounts["Joy"] != 2 || gi.ClusterCounts["Love"] != 1 {
		t.Errorf("clusters = %v", gi.ClusterCounts)
	}
	if len(gi.DominantThemes) == 0 || gi.DominantThemes[0] != "Joy" {
		t.Errorf("themes = %v, want Joy first", gi.DominantThemes)
	}
}

func TestAggregateVault_SkipsNotesWithoutAnalysis(t *testing.T) {
	e := fixedEngine()
	bare := vcs.NewNote("bare", "journal", nil)
	gi := e.AggregateVault([]models.Note{bare})

	if gi.TotalInferences != 0 {
		t.Errorf("inferences = %d, want 0", gi.TotalInferences)
	}
	if gi.Entropy != 0 {
		t.Errorf("entropy = %v", gi.Entropy)
	}
}
