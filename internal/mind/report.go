package mind

import (
	"fmt"
	"strings"

	"github.com/roseblade/memorylane/internal/models"
	"github.com/roseblade/memorylane/internal/vcs"
)

// NotEnoughData is returned by Synthesize when the head commit carries no
// analysis to report on.
const NotEnoughData = "Not enough data yet. Save an entry and MemoryLane will find the thread."

// Synthesize builds a short natural-language report from the head commit's
// analysis of the note's active branch.
func (e *Engine) Synthesize(n models.Note) string {
	head, err := vcs.HeadCommit(n, n.ActiveBranch)
	if err != nil || head.Analysis == nil || len(head.Analysis.Emotions) == 0 {
		return NotEnoughData
	}
	a := head.Analysis
	top := a.Emotions[0]

	shade := ""
	if len(a.Emotions) > 1 {
		shade = fmt.Sprintf(", shaded with %s", strings.ToLower(a.Emotions[1].Label))
	}

	kw := a.Keywords
	if len(kw) > 3 {
		kw = kw[:3]
	}
	opening := ""
	if len(kw) > 0 {
		opening = fmt.Sprintf(" It opens with %q.", strings.Join(kw, " "))
	}

	return fmt.Sprintf("%q reads %s overall. The dominant feeling is %s (impact %.2f)%s.%s",
		n.Title, a.Sentiment, strings.ToLower(top.Label), top.Impact, shade, opening)
}
