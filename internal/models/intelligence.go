package models

// GlobalIntelligence is a snapshot aggregate over the full note collection.
// It is recomputed from scratch on every collection change and never
// persisted independently of the notes it summarizes.
type GlobalIntelligence struct {
	Density         float64        `json:"density"`
	Entropy         float64        `json:"entropy"` // variance of per-note mood scores
	DominantThemes  []string       `json:"dominantThemes"`
	HealthScore     float64        `json:"healthScore"`
	MostUsedModel   string         `json:"mostUsedModel"`
	TotalInferences int            `json:"totalInferences"`
	ClusterCounts   map[string]int `json:"clusterCounts"`
}
