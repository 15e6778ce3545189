package inmemory

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/letmevibethatforyou/matchx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// DefaultField is the field searched by clauses that do not name one.
const DefaultField = "text"

// Option configures a Monitor.
type Option func(*Monitor)

// WithSimilarity sets the BM25 parameters used for scoring.
func WithSimilarity(sim Similarity) Option {
	return func(m *Monitor) {
		m.similarity = sim
	}
}

// WithConcurrency limits how many passes run at once. Values below one mean
// no limit.
func WithConcurrency(n int) Option {
	return func(m *Monitor) {
		m.concurrency = n
	}
}

// WithDefaultField sets the field used by RegisterText for unprefixed terms.
func WithDefaultField(field string) Option {
	return func(m *Monitor) {
		m.defaultField = field
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) {
		m.logger = logger
	}
}

// Monitor holds standing queries and matches batches of documents against
// them. Every clause of every query is evaluated as an independent pass and
// the partial results are merged per query and document.
type Monitor struct {
	mu      sync.RWMutex
	queries []Query
	idIndex map[string]int // maps query ID to index in queries slice

	similarity   Similarity
	concurrency  int
	defaultField string
	logger       *slog.Logger
	tracer       trace.Tracer
}

// New creates a new Monitor with no registered queries.
// The monitor is ready to use and is safe for concurrent operations.
func New(opts ...Option) *Monitor {
	m := &Monitor{
		queries:      make([]Query, 0),
		idIndex:      make(map[string]int),
		similarity:   DefaultSimilarity,
		defaultField: DefaultField,
		logger:       slog.Default(),
		tracer:       otel.Tracer("matchx-inmemory"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds a query. If a query with the same ID already exists, it will
// be replaced. This method is safe for concurrent use.
func (m *Monitor) Register(q Query) error {
	if q.ID == "" {
		return errors.Wrap(ErrInvalidQuery, "query ID is empty")
	}
	if len(q.Clauses) == 0 {
		return errors.Wrapf(ErrEmptyQuery, "query %q", q.ID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if idx, exists := m.idIndex[q.ID]; exists {
		m.queries[idx] = q
	} else {
		m.idIndex[q.ID] = len(m.queries)
		m.queries = append(m.queries, q)
	}
	return nil
}

// RegisterText parses text with ParseQuery and registers the result.
func (m *Monitor) RegisterText(id, text string) error {
	q, err := ParseQuery(id, text, m.defaultField)
	if err != nil {
		return err
	}
	return m.Register(q)
}

// Unregister removes a query by ID.
// Returns true if the query was found and removed, false if it was not found.
// This method is safe for concurrent use.
func (m *Monitor) Unregister(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, exists := m.idIndex[id]
	if !exists {
		return false
	}

	m.queries = append(m.queries[:idx], m.queries[idx+1:]...)

	delete(m.idIndex, id)
	for i := idx; i < len(m.queries); i++ {
		m.idIndex[m.queries[i].ID] = i
	}

	return true
}

// Clear removes all queries.
// This method is safe for concurrent use.
func (m *Monitor) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queries = make([]Query, 0)
	m.idIndex = make(map[string]int)
}

// Size returns the number of registered queries.
// This method is safe for concurrent use.
func (m *Monitor) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.queries)
}

// Match evaluates every registered query against the batch of documents.
// Document ids in the returned results are indexes into docs.
func (m *Monitor) Match(ctx context.Context, docs ...Document) (*matchx.Matches, error) {
	startTime := time.Now()

	ctx, span := m.tracer.Start(ctx, "inmemory.match",
		trace.WithAttributes(
			attribute.Int("matchx.batch_size", len(docs)),
		),
	)
	defer span.End()

	// Check context
	select {
	case <-ctx.Done():
		span.SetStatus(codes.Error, "canceled before evaluation")
		return nil, matchx.ErrCanceled
	default:
	}

	m.mu.RLock()
	queries := slices.Clone(m.queries)
	m.mu.RUnlock()
	span.SetAttributes(attribute.Int("matchx.query_count", len(queries)))

	b := newBatch(docs)
	docIDs := make([]int, b.size())
	for i := range docIDs {
		docIDs[i] = i
	}

	collector := matchx.NewCollector(matchx.WithLogger(m.logger))

	g, gctx := errgroup.WithContext(ctx)
	if m.concurrency > 0 {
		g.SetLimit(m.concurrency)
	}
	for _, q := range queries {
		for _, c := range q.Clauses {
			matcher := clauseMatcher{batch: b, clause: c, similarity: m.similarity}
			g.Go(func() error {
				return collector.Collect(gctx, matchx.NewPassID(), matcher, q.ID, docIDs...)
			})
		}
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "batch evaluation failed")
		return nil, err
	}

	results := collector.Results()
	took := time.Since(startTime).Milliseconds()

	m.logger.DebugContext(ctx, "matched batch",
		"batch_size", len(docs),
		"query_count", len(queries),
		"match_count", len(results),
		"took_ms", took,
	)
	span.SetAttributes(attribute.Int("matchx.match_count", len(results)))
	span.SetStatus(codes.Ok, "batch matched")

	return matchx.NewMatches(results, len(docs), len(queries), took), nil
}
