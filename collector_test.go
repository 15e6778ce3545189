package matchx

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorAdd(t *testing.T) {
	pass1, pass2 := NewPassID(), NewPassID()
	first := mustResult(t, "Q1", 7, 1.25, map[string][]Hit{"title": {{0, 0, 1, 5}}})
	second := mustResult(t, "Q1", 7, 0.75, map[string][]Hit{
		"title": {{0, 0, 1, 5}},
		"body":  {{10, 50, 11, 55}},
	})

	c := NewCollector()

	added, err := c.Add(pass1, first)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = c.Add(pass2, second)
	require.NoError(t, err)
	assert.True(t, added)

	t.Run("repeated pass is dropped", func(t *testing.T) {
		added, err := c.Add(pass2, second)
		require.NoError(t, err)
		assert.False(t, added)
	})

	results := c.Results()
	require.Len(t, results, 1)
	assert.Equal(t, 2.0, results[0].Score())
	assert.Equal(t, []Hit{{0, 0, 1, 5}}, results[0].Hits("title"))
	assert.Equal(t, []Hit{{10, 50, 11, 55}}, results[0].Hits("body"))

	// inputs are not modified by the fold
	assert.Equal(t, 1.25, first.Score())
	assert.Equal(t, []string{"title"}, first.Fields())
}

func TestCollectorAddNil(t *testing.T) {
	c := NewCollector()
	_, err := c.Add(NewPassID(), nil)
	require.Error(t, err)
	assert.True(t, errors.HasAssertionFailure(err))
}

func TestCollectorResultsOrder(t *testing.T) {
	c := NewCollector()
	pass := NewPassID()
	for _, key := range []struct {
		query string
		doc   int
	}{{"Q2", 1}, {"Q1", 1}, {"Q3", 0}, {"Q1", 0}} {
		_, err := c.Add(pass, mustResult(t, key.query, key.doc, 1, nil))
		require.NoError(t, err)
	}

	var got []string
	for _, r := range c.Results() {
		got = append(got, fmt.Sprintf("%d/%s", r.DocID(), r.QueryID()))
	}
	assert.Equal(t, []string{"0/Q1", "0/Q3", "1/Q1", "1/Q2"}, got)
	assert.Equal(t, 4, c.Len())
}

// staticMatcher answers from a fixed table of candidates keyed by document.
func staticMatcher(candidates map[int]Candidate) Matcher {
	return MatcherFunc(func(_ context.Context, _ string, docID int) (Candidate, error) {
		return candidates[docID], nil
	})
}

func TestCollectorCollect(t *testing.T) {
	ctx := context.Background()
	c := NewCollector()

	titlePass := staticMatcher(map[int]Candidate{
		7: {Score: 1.2, Tree: MatchTree{"title": {NewLeaf(0, 0, 1, 5)}}},
	})
	bodyPass := staticMatcher(map[int]Candidate{
		3: {Score: 0},
		7: {Score: 0.8, Tree: MatchTree{
			"title": {NewLeaf(0, 0, 1, 5)},
			"body":  {NewLeaf(10, 50, 11, 55)},
		}},
	})

	require.NoError(t, c.Collect(ctx, NewPassID(), titlePass, "Q1", 3, 7))
	require.NoError(t, c.Collect(ctx, NewPassID(), bodyPass, "Q1", 3, 7))

	results := c.Results()
	require.Len(t, results, 1)
	assert.Equal(t, 7, results[0].DocID())
	assert.InDelta(t, 2.0, results[0].Score(), 1e-9)
	assert.Equal(t, []string{"body", "title"}, results[0].Fields())
}

func TestCollectorCollectReplayedPass(t *testing.T) {
	ctx := context.Background()
	c := NewCollector()
	pass := NewPassID()
	m := staticMatcher(map[int]Candidate{
		0: {Score: 0.5, Tree: MatchTree{"body": {NewLeaf(1, 4, 1, 8)}}},
	})

	require.NoError(t, c.Collect(ctx, pass, m, "Q1", 0))
	require.NoError(t, c.Collect(ctx, pass, m, "Q1", 0))

	results := c.Results()
	require.Len(t, results, 1)
	assert.Equal(t, 0.5, results[0].Score())
}

func TestCollectorCollectErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("engine errors are returned unmodified", func(t *testing.T) {
		boom := errors.New("leaf read failed")
		m := MatcherFunc(func(context.Context, string, int) (Candidate, error) {
			return Candidate{}, boom
		})

		err := NewCollector().Collect(ctx, NewPassID(), m, "Q1", 0)
		assert.Equal(t, boom, err)
	})

	t.Run("scored document without match data", func(t *testing.T) {
		m := staticMatcher(map[int]Candidate{0: {Score: 1}})

		err := NewCollector().Collect(ctx, NewPassID(), m, "Q1", 0)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingMatches))
		assert.True(t, errors.HasAssertionFailure(err))
	})

	t.Run("canceled", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		c := NewCollector()
		m := staticMatcher(map[int]Candidate{0: {Score: 1, Tree: MatchTree{}}})
		err := c.Collect(canceled, NewPassID(), m, "Q1", 0)
		assert.True(t, errors.Is(err, ErrCanceled))
		assert.Equal(t, 0, c.Len())
	})

	t.Run("failure keeps earlier results intact", func(t *testing.T) {
		c := NewCollector()
		good := staticMatcher(map[int]Candidate{
			0: {Score: 1, Tree: MatchTree{"body": {NewLeaf(0, 0, 0, 3)}}},
		})
		require.NoError(t, c.Collect(ctx, NewPassID(), good, "Q1", 0))

		bad := MatcherFunc(func(_ context.Context, _ string, docID int) (Candidate, error) {
			if docID == 1 {
				return Candidate{}, errors.New("io failure")
			}
			return Candidate{Score: 1, Tree: MatchTree{"body": {NewLeaf(0, 0, 0, 3)}}}, nil
		})
		require.Error(t, c.Collect(ctx, NewPassID(), bad, "Q2", 1))

		results := c.Results()
		require.Len(t, results, 1)
		assert.Equal(t, "Q1", results[0].QueryID())
		assert.Equal(t, []Hit{{0, 0, 0, 3}}, results[0].Hits("body"))
	})
}

func TestCollectorConcurrentProducers(t *testing.T) {
	const passes = 32
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < passes; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m := staticMatcher(map[int]Candidate{
				0: {Score: 0.5, Tree: MatchTree{"body": {NewLeaf(i, i*10, i, i*10+4)}}},
				1: {Score: 0.25, Tree: MatchTree{"title": {NewLeaf(0, 0, 0, 4)}}},
			})
			assert.NoError(t, c.Collect(context.Background(), NewPassID(), m, "Q1", 0, 1))
		}()
	}
	wg.Wait()

	results := c.Results()
	require.Len(t, results, 2)

	assert.Equal(t, 0, results[0].DocID())
	assert.Equal(t, passes*0.5, results[0].Score())
	assert.Len(t, results[0].Hits("body"), passes)

	assert.Equal(t, 1, results[1].DocID())
	assert.Equal(t, passes*0.25, results[1].Score())
	assert.Len(t, results[1].Hits("title"), 1)
}
