package pyrograph

import (
	"fmt"
	"os"
	"time"
)

// FrameStats holds per-resolve counters. Only meaningful after Resolve;
// reset at the start of the next one.
type FrameStats struct {
	ResolveTime time.Duration

	Rects   int // rect items painted (including fully clipped ones)
	Texts   int // labels surviving fitting; drawn only when a font is installed
	Strokes int // outlines drawn

	Groups      int // pattern/color groups resolved
	DrawCalls   int // triangle batches submitted for rect groups
	StateWrites int // surface property writes that missed the cache
}

// debugLog prints resolve timing and batching metrics to stderr.
func (e *RenderEngine) debugLog() {
	if !e.debug {
		return
	}
	s := e.stats
	_, _ = fmt.Fprintf(os.Stderr,
		"[pyrograph] resolve: %v | rects: %d | texts: %d | strokes: %d\n",
		s.ResolveTime, s.Rects, s.Texts, s.Strokes)
	_, _ = fmt.Fprintf(os.Stderr,
		"[pyrograph] groups: %d | draw calls: %d | state writes: %d\n",
		s.Groups, s.DrawCalls, s.StateWrites)
}

// countGroups reports how many pattern/color groups a queue would resolve
// into, without painting. Each group costs at most one fill-state write
// and two draw calls.
func countGroups(q *renderQueue) int {
	count := 0
	for _, b := range q.buckets {
		for _, cg := range b.rects {
			count += len(cg.order)
		}
	}
	return count
}
