package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type snapshot struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestCache() *Cache {
	// nil client exercises the in-memory fallback path.
	return New(nil, zap.NewNop())
}

func TestCacheMissThenHit(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	var got snapshot
	assert.False(t, c.Get(ctx, CustomerKey("cust-1"), &got))

	c.Set(ctx, CustomerKey("cust-1"), snapshot{Name: "Acme", Count: 3}, time.Minute)

	require.True(t, c.Get(ctx, CustomerKey("cust-1"), &got))
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestCacheExpiry(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	c.Set(ctx, IssueAnalysisKey("iss-1"), snapshot{Name: "a"}, time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	var got snapshot
	assert.False(t, c.Get(ctx, IssueAnalysisKey("iss-1"), &got))
}

func TestCacheDelete(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	c.Set(ctx, SimilarIssuesKey("iss-1"), snapshot{Name: "a"}, time.Minute)
	c.Set(ctx, CustomerKey("cust-1"), snapshot{Name: "b"}, time.Minute)
	c.Delete(ctx, SimilarIssuesKey("iss-1"), CustomerKey("cust-1"))

	var got snapshot
	assert.False(t, c.Get(ctx, SimilarIssuesKey("iss-1"), &got))
	assert.False(t, c.Get(ctx, CustomerKey("cust-1"), &got))
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "customer:c1", CustomerKey("c1"))
	assert.Equal(t, "issue_analysis:i1", IssueAnalysisKey("i1"))
	assert.Equal(t, "similar_issues:i1", SimilarIssuesKey("i1"))
}
