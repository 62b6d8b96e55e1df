// Package engine composes the augmentation pipeline: topic classification,
// tiered knowledge retrieval, and external search planning. The output feeds
// the prompt assembler, which owns LLM invocation and query execution.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/storelens/knowledge-augment/internal/cache"
	"github.com/storelens/knowledge-augment/internal/classify"
	"github.com/storelens/knowledge-augment/internal/knowledge"
	"github.com/storelens/knowledge-augment/internal/observability"
	"github.com/storelens/knowledge-augment/internal/strategy"
)

// Request is one augmentation call. History carries prior user turns,
// most-recent-last.
type Request struct {
	Message       string                        `json:"message"`
	History       []string                      `json:"history,omitempty"`
	QuestionDepth string                        `json:"question_depth,omitempty"`
	TurnCount     int                           `json:"turn_count,omitempty"`
	Context       *strategy.ConversationContext `json:"-"`
	Limit         int                           `json:"limit,omitempty"`
}

// Result is handed to the downstream prompt assembler.
type Result struct {
	Classification        classify.Classification `json:"classification"`
	Knowledge             knowledge.Response      `json:"knowledge"`
	Strategy              strategy.Strategy       `json:"strategy"`
	SystemPromptAdditions string                  `json:"system_prompt_additions"`
	LatencyMs             int64                   `json:"latency_ms"`
}

// Engine wires the pipeline components together.
type Engine struct {
	logger     *observability.Logger
	classifier *classify.Classifier
	adapter    *knowledge.Adapter
	planner    *strategy.Engine
	cache      cache.Client
	cacheTTL   time.Duration
}

// New creates an engine. cache may be nil to disable response caching.
func New(logger *observability.Logger, classifier *classify.Classifier, adapter *knowledge.Adapter, planner *strategy.Engine, c cache.Client, cacheTTL time.Duration) *Engine {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Engine{
		logger:     logger.WithComponent("engine"),
		classifier: classifier,
		adapter:    adapter,
		planner:    planner,
		cache:      c,
		cacheTTL:   cacheTTL,
	}
}

// Augment runs the full pipeline for one message.
func (e *Engine) Augment(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	if e.classifier == nil || e.adapter == nil || e.planner == nil {
		return nil, fmt.Errorf("engine not fully configured")
	}

	key := e.cacheKey(req)
	if cached := e.checkCache(ctx, key); cached != nil {
		cached.LatencyMs = time.Since(start).Milliseconds()
		return cached, nil
	}

	cls := e.classifier.Classify(req.Message, req.History)

	kn := e.adapter.Search(ctx, knowledge.Request{
		Query:            req.Message,
		TopicID:          cls.PrimaryTopicID,
		SecondaryTopicID: cls.SecondaryTopicID,
		Limit:            req.Limit,
	})

	internalCount := len(kn.Results)
	if kn.Method == knowledge.MethodStatic {
		// Synthesized passages keep the prompt non-empty but are no
		// evidence of coverage.
		internalCount = 0
	}

	plan := e.planner.Plan(strategy.PlanRequest{
		Message:           req.Message,
		TopicID:           cls.PrimaryTopicID,
		QuestionDepth:     req.QuestionDepth,
		TurnCount:         req.TurnCount,
		VectorResultCount: internalCount,
		History:           req.History,
		Context:           req.Context,
	})

	result := &Result{
		Classification:        cls,
		Knowledge:             kn,
		Strategy:              plan,
		SystemPromptAdditions: buildPromptAdditions(kn, plan),
		LatencyMs:             time.Since(start).Milliseconds(),
	}

	e.storeCache(ctx, key, result)

	e.logger.Info().
		Str("topic", cls.PrimaryTopicID).
		Float64("confidence", cls.Confidence).
		Str("method", string(kn.Method)).
		Int("passages", len(kn.Results)).
		Bool("should_search", plan.ShouldSearch).
		Str("reason", plan.Reason).
		Int64("latency_ms", result.LatencyMs).
		Msg("augmentation complete")

	return result, nil
}

func (e *Engine) cacheKey(req Request) string {
	parts := []string{"augment", req.Message, req.QuestionDepth, strconv.Itoa(req.TurnCount)}
	parts = append(parts, req.History...)
	return cache.Key(parts...)
}

func (e *Engine) checkCache(ctx context.Context, key string) *Result {
	if e.cache == nil {
		return nil
	}
	data, err := e.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			e.logger.Debug().Err(err).Msg("cache get failed")
		}
		return nil
	}
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		e.logger.Debug().Err(err).Msg("cache entry corrupt, ignoring")
		return nil
	}
	return &r
}

func (e *Engine) storeCache(ctx context.Context, key string, r *Result) {
	if e.cache == nil {
		return
	}
	data, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := e.cache.Set(ctx, key, data, e.cacheTTL); err != nil {
		e.logger.Debug().Err(err).Msg("cache set failed")
	}
}

// buildPromptAdditions renders retrieved passages and pending search
// instructions for the prompt assembler.
func buildPromptAdditions(kn knowledge.Response, plan strategy.Strategy) string {
	var b strings.Builder

	b.WriteString("[참고 지식]\n")
	for i, r := range kn.Results {
		fmt.Fprintf(&b, "%d. %s\n%s\n", i+1, r.Title, r.Content)
		if r.Conditions != "" {
			fmt.Fprintf(&b, "(조건: %s)\n", r.Conditions)
		}
	}
	if kn.UsedFallback {
		b.WriteString("(위 자료는 기본 지식 기반에서 보충되었습니다)\n")
	}

	if plan.ShouldSearch {
		b.WriteString("\n[외부 검색 예정]\n")
		for _, q := range plan.Queries {
			fmt.Fprintf(&b, "- (%s, 우선순위 %d) %s\n", q.Type, q.Priority, q.Query)
		}
	}

	return b.String()
}
