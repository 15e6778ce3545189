package matchx

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/segmentio/ksuid"
)

// PassID identifies one independent evaluation pass, for example one
// sub-clause of a query evaluated on its own.
type PassID = ksuid.KSUID

// NewPassID returns a fresh pass identifier.
func NewPassID() PassID {
	return ksuid.New()
}

type resultKey struct {
	queryID string
	docID   int
}

type pending struct {
	result *MatchResult
	passes map[PassID]struct{}
}

// Collector folds partial results into one result per (query, document)
// pair. It is the single owner of that fold and is safe for concurrent use
// by any number of producers.
//
// Each partial is tagged with the pass that produced it. A second partial
// from the same pass for the same pair is dropped, so a re-delivered partial
// cannot inflate the score.
type Collector struct {
	mu      sync.Mutex
	results map[resultKey]*pending
	logger  *slog.Logger
}

// NewCollector creates an empty Collector.
func NewCollector(opts ...CollectorOption) *Collector {
	cfg := &CollectorConfig{}
	for _, opt := range opts {
		opt.Apply(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Collector{
		results: make(map[resultKey]*pending),
		logger:  cfg.Logger,
	}
}

// Add merges r into the pending result for its query and document.
// It reports whether r was folded in; false means the pass had already
// delivered a partial for that pair.
func (c *Collector) Add(pass PassID, r *MatchResult) (bool, error) {
	if r == nil {
		return false, contractViolation(ErrNoResults, "pass %s delivered a nil result", pass)
	}

	key := resultKey{queryID: r.queryID, docID: r.docID}

	c.mu.Lock()
	defer c.mu.Unlock()

	p, exists := c.results[key]
	if !exists {
		c.results[key] = &pending{
			result: r,
			passes: map[PassID]struct{}{pass: {}},
		}
		return true, nil
	}

	if _, seen := p.passes[pass]; seen {
		c.logger.Debug("dropping repeated partial result",
			"pass", pass.String(),
			"query_id", r.queryID,
			"doc_id", r.docID,
		)
		return false, nil
	}

	merged, err := Merge(p.result, r)
	if err != nil {
		return false, err
	}
	p.result = merged
	p.passes[pass] = struct{}{}
	return true, nil
}

// Collect drives one pass of m over docIDs for queryID. Documents with a
// score of zero are skipped; every other candidate is flattened and added.
// Errors from the matcher are returned as they are.
func (c *Collector) Collect(ctx context.Context, pass PassID, m Matcher, queryID string, docIDs ...int) error {
	for _, docID := range docIDs {
		// Check context
		select {
		case <-ctx.Done():
			return ErrCanceled
		default:
		}

		candidate, err := m.Match(ctx, queryID, docID)
		if err != nil {
			return err
		}
		if candidate.Score <= 0 {
			continue
		}

		r, err := Flatten(queryID, docID, candidate.Score, candidate.Tree)
		if err != nil {
			return err
		}
		if _, err := c.Add(pass, r); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of (query, document) pairs collected so far.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

// Results returns the merged results ordered by document id, then query id.
func (c *Collector) Results() []*MatchResult {
	c.mu.Lock()
	out := make([]*MatchResult, 0, len(c.results))
	for _, p := range c.results {
		out = append(out, p.result)
	}
	c.mu.Unlock()

	slices.SortFunc(out, func(a, b *MatchResult) int {
		if n := cmp.Compare(a.docID, b.docID); n != 0 {
			return n
		}
		return cmp.Compare(a.queryID, b.queryID)
	})
	return out
}
