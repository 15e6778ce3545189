package matchx

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustResult(t *testing.T, queryID string, docID int, score float64, hits map[string][]Hit) *MatchResult {
	t.Helper()
	r, err := NewMatchResult(queryID, docID, score, hits)
	require.NoError(t, err)
	return r
}

func TestNewMatchResult(t *testing.T) {
	r := mustResult(t, "Q1", 7, 1.5, map[string][]Hit{
		"title": {{0, 0, 1, 5}, {0, 0, 1, 5}},
		"body":  {{12, 60, 12, 64}, {10, 50, 11, 55}},
		"tags":  {},
	})

	assert.Equal(t, "Q1", r.QueryID())
	assert.Equal(t, 7, r.DocID())
	assert.Equal(t, 1.5, r.Score())
	assert.Equal(t, []string{"body", "title"}, r.Fields())
	assert.Equal(t, 3, r.HitCount())
	assert.Equal(t, []Hit{{10, 50, 11, 55}, {12, 60, 12, 64}}, r.Hits("body"))
	assert.Equal(t, []Hit{{0, 0, 1, 5}}, r.Hits("title"))
	assert.Nil(t, r.Hits("tags"))

	_, ok := r.HitSet("tags")
	assert.False(t, ok)
}

func TestNewMatchResultRejectsInvalidScores(t *testing.T) {
	for name, score := range map[string]float64{
		"negative": -0.1,
		"nan":      math.NaN(),
		"infinite": math.Inf(1),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewMatchResult("Q1", 0, score, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidScore))
			assert.True(t, errors.HasAssertionFailure(err))
		})
	}
}

func TestMatchResultZeroScoreWithoutHits(t *testing.T) {
	r := mustResult(t, "Q1", 0, 0, nil)
	assert.Equal(t, 0, r.HitCount())
	assert.Empty(t, r.Fields())
}

func TestMatchResultEqual(t *testing.T) {
	hits := map[string][]Hit{"body": {{1, 4, 1, 9}}}
	a := mustResult(t, "Q1", 0, 1.0, hits)

	t.Run("score and doc are ignored", func(t *testing.T) {
		b := mustResult(t, "Q1", 3, 2.5, hits)
		assert.True(t, a.Equal(b))
	})

	t.Run("query id matters", func(t *testing.T) {
		b := mustResult(t, "Q2", 0, 1.0, hits)
		assert.False(t, a.Equal(b))
	})

	t.Run("hits matter", func(t *testing.T) {
		b := mustResult(t, "Q1", 0, 1.0, map[string][]Hit{"body": {{1, 5, 1, 9}}})
		assert.False(t, a.Equal(b))
	})

	t.Run("field names matter", func(t *testing.T) {
		b := mustResult(t, "Q1", 0, 1.0, map[string][]Hit{"title": {{1, 4, 1, 9}}})
		assert.False(t, a.Equal(b))
	})

	t.Run("nil", func(t *testing.T) {
		assert.False(t, a.Equal(nil))
	})
}

func TestMatchResultString(t *testing.T) {
	r := mustResult(t, "Q1", 7, 2, map[string][]Hit{
		"title": {{0, 0, 1, 5}},
		"body":  {{10, 50, 11, 55}},
	})
	assert.Equal(t, "MatchResult{query=Q1, doc=7, score=2, hits={body=[10(50)->11(55)], title=[0(0)->1(5)]}}", r.String())
}
