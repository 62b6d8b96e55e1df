// Package strategy composes the final augmentation decision. It merges the
// query router's verdict with retrieval counts, question sophistication, and
// conversation phase into a prioritized, deduplicated query plan. Decisions
// only; executing the queries belongs to the downstream consumer.
package strategy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/storelens/knowledge-augment/internal/queryroute"
	"github.com/storelens/knowledge-augment/internal/taxonomy"
)

// QueryType selects the external search surface.
type QueryType string

const (
	QueryWeb  QueryType = "web"
	QuerySNS  QueryType = "sns"
	QueryNews QueryType = "news"
)

// Query is one external search to execute; priority 1 runs first.
type Query struct {
	Query    string    `json:"query"`
	Type     QueryType `json:"type"`
	Priority int       `json:"priority"`
}

// Strategy is the plan handed to the prompt assembler. Reason is a required
// output, not optional telemetry: every branch explains itself.
type Strategy struct {
	ShouldSearch bool                   `json:"should_search"`
	Queries      []Query                `json:"queries"`
	Reason       string                 `json:"reason"`
	RouteResult  queryroute.RouteResult `json:"route_result"`
}

// Phase is the externally tracked stage of a multi-turn dialogue.
type Phase string

const (
	PhaseDiscovery      Phase = "discovery"
	PhaseDeepening      Phase = "deepening"
	PhaseCrossReference Phase = "cross_reference"
)

// ConversationContext carries multi-turn signals accumulated outside this
// package.
type ConversationContext struct {
	Phase               Phase
	AccumulatedEntities []string
	UnresolvedGaps      []string
	ProfileHint         string
}

// PlanRequest is the input to one planning decision.
type PlanRequest struct {
	Message           string
	TopicID           string
	QuestionDepth     string // basic, intermediate, advanced
	TurnCount         int
	VectorResultCount int
	History           []string
	Context           *ConversationContext
}

// Config tunes the decision thresholds.
type Config struct {
	// SufficiencyThreshold is the internal result count above which no
	// search is needed during discovery.
	SufficiencyThreshold int
	// DeepeningBonus and CrossReferenceBonus raise the threshold as the
	// conversation progresses; shallow answers age badly.
	DeepeningBonus      int
	CrossReferenceBonus int
	// MaxEntityQueries caps how many detected entities get their own plan.
	MaxEntityQueries int
	// QueryRuneLimit truncates raw-message fallback queries.
	QueryRuneLimit int
}

// Engine plans external search strategies. Pure decision function.
type Engine struct {
	router *queryroute.Router
	tax    *taxonomy.Taxonomy
	cfg    Config
}

// New creates a strategy engine.
func New(router *queryroute.Router, tax *taxonomy.Taxonomy, cfg Config) *Engine {
	if cfg.SufficiencyThreshold <= 0 {
		cfg.SufficiencyThreshold = 3
	}
	if cfg.DeepeningBonus <= 0 {
		cfg.DeepeningBonus = 1
	}
	if cfg.CrossReferenceBonus <= 0 {
		cfg.CrossReferenceBonus = 2
	}
	if cfg.MaxEntityQueries <= 0 {
		cfg.MaxEntityQueries = 3
	}
	if cfg.QueryRuneLimit <= 0 {
		cfg.QueryRuneLimit = 40
	}
	return &Engine{router: router, tax: tax, cfg: cfg}
}

// Plan evaluates the decision branches in order; the first match wins.
func (e *Engine) Plan(req PlanRequest) Strategy {
	route := e.router.Route(req.Message, req.History)

	// 1. Router verdict dominates: an entity or trigger always searches.
	if route.Augmentation == queryroute.AugmentationWebSearch {
		return e.entityPlan(req, route)
	}

	// 2. Comparative questions get supplemental search even when internal
	// knowledge exists; "what else is out there" cannot be answered from
	// inside the corpus.
	if diversityRe.MatchString(req.Message) && req.VectorResultCount >= 1 {
		q := truncateRunes(req.Message, e.cfg.QueryRuneLimit) + " 사례"
		return Strategy{
			ShouldSearch: true,
			Queries:      sortQueries([]Query{{Query: q, Type: QueryWeb, Priority: 2}}),
			Reason:       "comparative question: supplementing internal results with external cases",
			RouteResult:  route,
		}
	}

	threshold := e.phaseThreshold(req.Context)

	// 3. Deep conversation with unresolved gaps and thin coverage: target
	// the gaps with what we have accumulated so far.
	if ctx := req.Context; ctx != nil && ctx.Phase != "" && ctx.Phase != PhaseDiscovery &&
		len(ctx.UnresolvedGaps) > 0 && req.VectorResultCount < threshold {
		parts := append([]string{}, ctx.AccumulatedEntities...)
		if ctx.ProfileHint != "" {
			parts = append(parts, ctx.ProfileHint)
		}
		if len(parts) == 0 {
			parts = []string{truncateRunes(req.Message, e.cfg.QueryRuneLimit)}
		}
		return Strategy{
			ShouldSearch: true,
			Queries:      sortQueries([]Query{{Query: strings.Join(parts, " "), Type: QueryWeb, Priority: 1}}),
			Reason:       fmt.Sprintf("conversation in %s phase with %d unresolved gaps and only %d internal results", ctx.Phase, len(ctx.UnresolvedGaps), req.VectorResultCount),
			RouteResult:  route,
		}
	}

	// 4. Enough internal coverage: stop here.
	if req.VectorResultCount >= threshold {
		return Strategy{
			Reason:      fmt.Sprintf("internal knowledge sufficient (%d results, threshold %d)", req.VectorResultCount, threshold),
			RouteResult: route,
		}
	}

	// 5-6. Advanced questions tolerate less thin coverage.
	if req.QuestionDepth == "advanced" {
		supplement := e.topicHintQuery(req)
		if req.VectorResultCount >= 2 {
			return Strategy{
				ShouldSearch: true,
				Queries:      sortQueries([]Query{supplement}),
				Reason:       "advanced question with moderate internal coverage",
				RouteResult:  route,
			}
		}
		if req.VectorResultCount <= 1 && benchmarkRe.MatchString(req.Message) {
			return Strategy{
				ShouldSearch: true,
				Queries:      sortQueries([]Query{supplement}),
				Reason:       "advanced benchmark request with weak internal coverage",
				RouteResult:  route,
			}
		}
	}

	// 7. Default: answer from what we have.
	return Strategy{
		Reason:      "no external search warranted",
		RouteResult: route,
	}
}

// entityPlan builds the query list for a positive router verdict.
func (e *Engine) entityPlan(req PlanRequest, route queryroute.RouteResult) Strategy {
	var queries []Query

	entities := route.DetectedEntities
	if len(entities) > e.cfg.MaxEntityQueries {
		entities = entities[:e.cfg.MaxEntityQueries]
	}

	research := researchCueRe.MatchString(req.Message)

	for _, ent := range entities {
		queries = append(queries, Query{Query: e.brandQuery(ent, req.Message), Type: QueryWeb, Priority: 1})
		if research {
			queries = append(queries, Query{Query: ent + " 전략 사례 분석", Type: QueryWeb, Priority: 2})
		}
		queries = append(queries, Query{Query: ent + " 인스타그램 후기", Type: QuerySNS, Priority: 3})
	}

	if len(entities) == 0 {
		queries = append(queries, Query{
			Query:    truncateRunes(req.Message, e.cfg.QueryRuneLimit),
			Type:     QueryWeb,
			Priority: 1,
		})
	}

	if recencyRe.MatchString(req.Message) {
		subject := truncateRunes(req.Message, e.cfg.QueryRuneLimit)
		if len(entities) > 0 {
			subject = entities[0]
		}
		queries = append(queries, Query{Query: subject + " 최신 뉴스", Type: QueryNews, Priority: 2})
	}

	return Strategy{
		ShouldSearch: true,
		Queries:      sortQueries(queries),
		Reason:       "external search triggered: " + route.SearchReason,
		RouteResult:  route,
	}
}

// brandQuery tailors the primary web query to the message's intent cues.
func (e *Engine) brandQuery(entity, message string) string {
	switch {
	case popupCueRe.MatchString(message):
		return entity + " 팝업스토어 사례"
	case storeCueRe.MatchString(message):
		return entity + " 매장 인테리어"
	default:
		return entity + " 브랜드 정보"
	}
}

func (e *Engine) topicHintQuery(req PlanRequest) Query {
	hint := ""
	if t, ok := e.tax.ByID(req.TopicID); ok {
		hint = t.SearchHint
	}
	q := truncateRunes(req.Message, e.cfg.QueryRuneLimit)
	if hint != "" {
		q = hint + " " + q
	}
	return Query{Query: q, Type: QueryWeb, Priority: 2}
}

// phaseThreshold adjusts sufficiency for conversation progress.
func (e *Engine) phaseThreshold(ctx *ConversationContext) int {
	t := e.cfg.SufficiencyThreshold
	if ctx == nil {
		return t
	}
	switch ctx.Phase {
	case PhaseDeepening:
		return t + e.cfg.DeepeningBonus
	case PhaseCrossReference:
		return t + e.cfg.CrossReferenceBonus
	default:
		return t
	}
}

// sortQueries orders by priority ascending, stable so same-priority entries
// keep construction order.
func sortQueries(qs []Query) []Query {
	sort.SliceStable(qs, func(a, b int) bool {
		return qs[a].Priority < qs[b].Priority
	})
	return qs
}

func truncateRunes(s string, n int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n])
}
