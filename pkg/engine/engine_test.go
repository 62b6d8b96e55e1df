package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelens/knowledge-augment/internal/cache"
	"github.com/storelens/knowledge-augment/internal/classify"
	"github.com/storelens/knowledge-augment/internal/knowledge"
	"github.com/storelens/knowledge-augment/internal/observability"
	"github.com/storelens/knowledge-augment/internal/queryroute"
	"github.com/storelens/knowledge-augment/internal/strategy"
	"github.com/storelens/knowledge-augment/internal/taxonomy"
)

func newTestEngine(c cache.Client) *Engine {
	logger := observability.Discard()
	tax := taxonomy.Default()
	adapter := knowledge.New(logger, nil, nil, tax, knowledge.Config{})
	planner := strategy.New(queryroute.New(queryroute.DefaultLexicon(), tax), tax, strategy.Config{})
	return New(logger, classify.New(tax), adapter, planner, c, time.Minute)
}

func TestEngine_AugmentPipeline(t *testing.T) {
	eng := newTestEngine(nil)

	result, err := eng.Augment(context.Background(), Request{Message: "매출 전환율 개선 방법"})
	require.NoError(t, err)

	assert.Equal(t, "sales", result.Classification.PrimaryTopicID)
	assert.Equal(t, knowledge.MethodStatic, result.Knowledge.Method)
	require.NotEmpty(t, result.Knowledge.Results)
	assert.False(t, result.Strategy.ShouldSearch)

	assert.Contains(t, result.SystemPromptAdditions, "[참고 지식]")
	assert.Contains(t, result.SystemPromptAdditions, result.Knowledge.Results[0].Content)
	assert.NotContains(t, result.SystemPromptAdditions, "[외부 검색 예정]")
}

func TestEngine_SearchPlanRendered(t *testing.T) {
	eng := newTestEngine(nil)

	result, err := eng.Augment(context.Background(), Request{Message: "나이키 전략 분석해줘"})
	require.NoError(t, err)

	require.True(t, result.Strategy.ShouldSearch)
	assert.Contains(t, result.SystemPromptAdditions, "[외부 검색 예정]")
	assert.Contains(t, result.SystemPromptAdditions, "나이키")
}

func TestEngine_EmptyMessageYieldsDefaults(t *testing.T) {
	eng := newTestEngine(nil)

	result, err := eng.Augment(context.Background(), Request{Message: ""})
	require.NoError(t, err)

	assert.Equal(t, "store_operations", result.Classification.PrimaryTopicID)
	assert.Equal(t, 0.3, result.Classification.Confidence)
	assert.False(t, result.Strategy.ShouldSearch)
	require.NotEmpty(t, result.Knowledge.Results, "even an empty message gets a knowledge passage")
}

func TestEngine_ResponseCaching(t *testing.T) {
	eng := newTestEngine(cache.NewMemoryClient(16))
	req := Request{Message: "재고 발주 언제 해요?", QuestionDepth: "basic"}

	first, err := eng.Augment(context.Background(), req)
	require.NoError(t, err)

	second, err := eng.Augment(context.Background(), req)
	require.NoError(t, err)

	// The static tier mints a fresh passage id per search, so identical ids
	// prove the second response came from the cache.
	require.NotEmpty(t, first.Knowledge.Results)
	require.NotEmpty(t, second.Knowledge.Results)
	assert.Equal(t, first.Knowledge.Results[0].ID, second.Knowledge.Results[0].ID)
	assert.Equal(t, first.SystemPromptAdditions, second.SystemPromptAdditions)
}

func TestEngine_CacheKeyVariesWithHistoryAndDepth(t *testing.T) {
	eng := newTestEngine(cache.NewMemoryClient(16))

	plain, err := eng.Augment(context.Background(), Request{Message: "재고 발주 언제 해요?"})
	require.NoError(t, err)

	withHistory, err := eng.Augment(context.Background(), Request{
		Message: "재고 발주 언제 해요?",
		History: []string{"매출이 떨어져서 고민이야", "전환율 분석 좀 해줘"},
	})
	require.NoError(t, err)

	// A different history must not be served from the first entry; history
	// shifts the secondary topic, which the cached copy would have missed.
	assert.NotEqual(t, plain.Knowledge.Results[0].ID, withHistory.Knowledge.Results[0].ID)
	assert.Equal(t, "sales", withHistory.Classification.SecondaryTopicID)
}
