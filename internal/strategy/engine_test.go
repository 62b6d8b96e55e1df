package strategy

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelens/knowledge-augment/internal/queryroute"
	"github.com/storelens/knowledge-augment/internal/taxonomy"
)

func newEngine() *Engine {
	tax := taxonomy.Default()
	return New(queryroute.New(queryroute.DefaultLexicon(), tax), tax, Config{})
}

func assertSorted(t *testing.T, queries []Query) {
	t.Helper()
	sorted := sort.SliceIsSorted(queries, func(a, b int) bool {
		return queries[a].Priority < queries[b].Priority
	})
	assert.True(t, sorted, "queries must be ordered by priority: %+v", queries)
}

func TestEngine_EntityPlan(t *testing.T) {
	e := newEngine()

	result := e.Plan(PlanRequest{Message: "매너스골프 수입 현황", TopicID: "sales", VectorResultCount: 5})

	require.True(t, result.ShouldSearch)
	assert.Contains(t, result.Reason, "unknown entity detected")
	require.Len(t, result.Queries, 2)
	assert.Equal(t, Query{Query: "매너스골프 브랜드 정보", Type: QueryWeb, Priority: 1}, result.Queries[0])
	assert.Equal(t, Query{Query: "매너스골프 인스타그램 후기", Type: QuerySNS, Priority: 3}, result.Queries[1])
	assertSorted(t, result.Queries)
}

func TestEngine_KnownBrandResearchPlan(t *testing.T) {
	e := newEngine()

	result := e.Plan(PlanRequest{Message: "나이키 전략 분석해줘", TopicID: "branding"})

	require.True(t, result.ShouldSearch)
	require.Len(t, result.Queries, 3)
	assert.Equal(t, "나이키 브랜드 정보", result.Queries[0].Query)
	assert.Equal(t, "나이키 전략 사례 분석", result.Queries[1].Query)
	assert.Equal(t, Query{Query: "나이키 인스타그램 후기", Type: QuerySNS, Priority: 3}, result.Queries[2])
	assertSorted(t, result.Queries)
}

func TestEngine_LatinCuesMatchAnyCase(t *testing.T) {
	// The router lowercases before matching but the plan cues run on the raw
	// message, so capitalized English cues must still register here.
	e := newEngine()

	t.Run("research cue", func(t *testing.T) {
		result := e.Plan(PlanRequest{Message: "나이키 Brand Analysis 해줘", TopicID: "branding"})

		require.True(t, result.ShouldSearch)
		require.Len(t, result.Queries, 3)
		assert.Equal(t, Query{Query: "나이키 전략 사례 분석", Type: QueryWeb, Priority: 2}, result.Queries[1])
	})

	t.Run("recency cue", func(t *testing.T) {
		result := e.Plan(PlanRequest{Message: "나이키 Recent 동향 알아봐", TopicID: "trend"})

		require.True(t, result.ShouldSearch)
		assert.Contains(t, result.Queries, Query{Query: "나이키 최신 뉴스", Type: QueryNews, Priority: 2})
	})
}

func TestEngine_PopupCueAndNewsQuery(t *testing.T) {
	e := newEngine()

	result := e.Plan(PlanRequest{Message: "요즘 매너스골프 팝업 사례 알려줘", TopicID: "trend"})

	require.True(t, result.ShouldSearch)
	require.Len(t, result.Queries, 4)
	assert.Equal(t, Query{Query: "매너스골프 팝업스토어 사례", Type: QueryWeb, Priority: 1}, result.Queries[0])

	var types []QueryType
	for _, q := range result.Queries {
		types = append(types, q.Type)
	}
	assert.Contains(t, types, QueryNews)
	assert.Equal(t, QuerySNS, result.Queries[len(result.Queries)-1].Type)
	assertSorted(t, result.Queries)
}

func TestEngine_DiversitySupplement(t *testing.T) {
	e := newEngine()

	result := e.Plan(PlanRequest{Message: "이거 말고 대안 있을까?", TopicID: "vmd", VectorResultCount: 2})

	require.True(t, result.ShouldSearch)
	assert.Contains(t, result.Reason, "comparative question")
	require.Len(t, result.Queries, 1)
	assert.Equal(t, "이거 말고 대안 있을까? 사례", result.Queries[0].Query)
	assert.Equal(t, QueryWeb, result.Queries[0].Type)
}

func TestEngine_PhaseGapsTargetedSearch(t *testing.T) {
	e := newEngine()

	result := e.Plan(PlanRequest{
		Message:           "그 부분 더 자세히 설명해줘",
		TopicID:           "store_layout",
		VectorResultCount: 2,
		Context: &ConversationContext{
			Phase:               PhaseDeepening,
			AccumulatedEntities: []string{"매너스골프"},
			UnresolvedGaps:      []string{"타겟 고객"},
			ProfileHint:         "강남 골프웨어",
		},
	})

	require.True(t, result.ShouldSearch)
	assert.Contains(t, result.Reason, "deepening")
	require.Len(t, result.Queries, 1)
	assert.Equal(t, Query{Query: "매너스골프 강남 골프웨어", Type: QueryWeb, Priority: 1}, result.Queries[0])
}

func TestEngine_SufficientInternalKnowledge(t *testing.T) {
	e := newEngine()

	result := e.Plan(PlanRequest{Message: "매출 전환율 개선 방법", TopicID: "sales", VectorResultCount: 3})

	assert.False(t, result.ShouldSearch)
	assert.Empty(t, result.Queries)
	assert.Contains(t, result.Reason, "sufficient")
}

func TestEngine_PhaseRaisesThreshold(t *testing.T) {
	e := newEngine()

	// Three results satisfy discovery but not cross_reference (3 + 2).
	result := e.Plan(PlanRequest{
		Message:           "매출 전환율 개선 방법",
		TopicID:           "sales",
		VectorResultCount: 3,
		Context: &ConversationContext{
			Phase:          PhaseCrossReference,
			UnresolvedGaps: []string{"경쟁 구도"},
		},
	})

	assert.True(t, result.ShouldSearch)
}

func TestEngine_AdvancedDepthBranches(t *testing.T) {
	e := newEngine()

	t.Run("moderate coverage still supplements", func(t *testing.T) {
		result := e.Plan(PlanRequest{
			Message:           "매출 전환율 개선 방법",
			TopicID:           "sales",
			QuestionDepth:     "advanced",
			VectorResultCount: 2,
		})
		require.True(t, result.ShouldSearch)
		assert.Contains(t, result.Reason, "advanced question")
		require.Len(t, result.Queries, 1)
		// The topic's search hint steers the query.
		assert.Contains(t, result.Queries[0].Query, "매출")
	})

	t.Run("weak coverage needs benchmark phrasing", func(t *testing.T) {
		plain := e.Plan(PlanRequest{
			Message:           "매출 전환율 개선 방법",
			TopicID:           "sales",
			QuestionDepth:     "advanced",
			VectorResultCount: 1,
		})
		assert.False(t, plain.ShouldSearch)

		benchmark := e.Plan(PlanRequest{
			Message:           "매출 개선 성공 사례 있어?",
			TopicID:           "sales",
			QuestionDepth:     "advanced",
			VectorResultCount: 1,
		})
		assert.True(t, benchmark.ShouldSearch)
		assert.Contains(t, benchmark.Reason, "benchmark")
	})
}

func TestEngine_DefaultNoSearch(t *testing.T) {
	e := newEngine()

	result := e.Plan(PlanRequest{Message: "매출 전환율 개선 방법", TopicID: "sales", VectorResultCount: 0})

	assert.False(t, result.ShouldSearch)
	assert.Equal(t, "no external search warranted", result.Reason)
	assert.Equal(t, queryroute.AugmentationNone, result.RouteResult.Augmentation)
}

func TestEngine_EntityCapRespected(t *testing.T) {
	tax := taxonomy.Default()
	e := New(queryroute.New(queryroute.DefaultLexicon(), tax), tax, Config{MaxEntityQueries: 1})

	result := e.Plan(PlanRequest{Message: "매너스골프 수입 현황", TopicID: "sales"})

	require.True(t, result.ShouldSearch)
	for _, q := range result.Queries {
		assert.Contains(t, q.Query, "매너스골프")
	}
	require.Len(t, result.Queries, 2)
}
