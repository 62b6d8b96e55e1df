// Package knowledge implements tiered retrieval against the knowledge store:
// semantic vector search, then trigram text search, then the static taxonomy
// corpus. The adapter never errors and never returns an empty result set.
package knowledge

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/storelens/knowledge-augment/internal/embedding"
	"github.com/storelens/knowledge-augment/internal/observability"
	"github.com/storelens/knowledge-augment/internal/storage"
	"github.com/storelens/knowledge-augment/internal/taxonomy"
)

// SearchMethod identifies which tier produced the results.
type SearchMethod string

const (
	MethodVector SearchMethod = "vector"
	MethodTrgm   SearchMethod = "trgm"
	MethodStatic SearchMethod = "static_fallback"
)

// ErrVectorTimeout marks a semantic search that lost the race against the
// configured deadline. Treated exactly like a rejected call.
var ErrVectorTimeout = errors.New("vector search timed out")

// Result is one retrieved passage, ranked by similarity descending.
type Result struct {
	ID         uuid.UUID `json:"id"`
	TopicID    string    `json:"topic_id"`
	ChunkType  string    `json:"chunk_type"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Conditions string    `json:"conditions,omitempty"`
	Similarity float64   `json:"similarity"`
}

// Response is the adapter's output. Results is never empty.
type Response struct {
	Results      []Result     `json:"results"`
	UsedFallback bool         `json:"used_fallback"`
	Method       SearchMethod `json:"search_method"`
}

// Request scopes one retrieval call.
type Request struct {
	Query            string
	TopicID          string
	SecondaryTopicID string
	Limit            int
}

// Store is the subset of the chunk repository the adapter needs.
type Store interface {
	SimilaritySearch(ctx context.Context, embedding []float32, threshold float64, limit int, topicID string) ([]storage.KnowledgeChunk, error)
	TrigramSearch(ctx context.Context, text string, threshold float64, limit int, topicID string) ([]storage.KnowledgeChunk, error)
}

// Config holds cascade tuning. Zero values get defaults in New.
type Config struct {
	VectorTimeout    time.Duration
	VectorThreshold  float64
	MinUsefulResults int
	TrigramThreshold float64
	StaticSimilarity float64
	DefaultLimit     int
}

// TierCounters is a snapshot of which tier answered, for post-hoc quality
// auditing.
type TierCounters struct {
	Vector int64
	Trgm   int64
	Static int64
	Merged int64
}

// tierCounters is the live set; one adapter serves all requests, so the
// increments must be atomic.
type tierCounters struct {
	vector atomic.Int64
	trgm   atomic.Int64
	static atomic.Int64
	merged atomic.Int64
}

// Adapter orchestrates the three retrieval tiers.
type Adapter struct {
	logger   *observability.Logger
	store    Store
	embedder embedding.Embedder
	tax      *taxonomy.Taxonomy
	cfg      Config
	counters tierCounters
}

// New creates a knowledge adapter. store and embedder may be nil, in which
// case every call degrades to the static tier.
func New(logger *observability.Logger, store Store, embedder embedding.Embedder, tax *taxonomy.Taxonomy, cfg Config) *Adapter {
	if cfg.VectorTimeout <= 0 {
		cfg.VectorTimeout = time.Second
	}
	if cfg.VectorThreshold <= 0 {
		cfg.VectorThreshold = 0.65
	}
	if cfg.MinUsefulResults <= 0 {
		cfg.MinUsefulResults = 2
	}
	if cfg.TrigramThreshold <= 0 {
		cfg.TrigramThreshold = 0.1
	}
	if cfg.StaticSimilarity <= 0 {
		cfg.StaticSimilarity = 0.5
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 5
	}

	return &Adapter{
		logger:   logger.WithComponent("knowledge"),
		store:    store,
		embedder: embedder,
		tax:      tax,
		cfg:      cfg,
	}
}

// Counters returns a snapshot of tier outcome counts.
func (a *Adapter) Counters() TierCounters {
	return TierCounters{
		Vector: a.counters.vector.Load(),
		Trgm:   a.counters.trgm.Load(),
		Static: a.counters.static.Load(),
		Merged: a.counters.merged.Load(),
	}
}

// Search runs the cascade. It cannot fail: transient retrieval errors trigger
// the next tier, and the static tier needs no I/O.
func (a *Adapter) Search(ctx context.Context, req Request) Response {
	start := time.Now()
	if req.Limit <= 0 {
		req.Limit = a.cfg.DefaultLimit
	}

	if a.store == nil || a.embedder == nil {
		resp := a.staticTier(req)
		a.logTier(resp, 0, start)
		return resp
	}

	resp, err := a.vectorTier(ctx, req)
	if err == nil {
		a.logTier(resp, len(resp.Results), start)
		return resp
	}

	a.logger.Warn().Err(err).Str("query", req.Query).Msg("vector tier failed, trying trigram")

	if resp, ok := a.trigramTier(ctx, req); ok {
		a.logTier(resp, len(resp.Results), start)
		return resp
	}

	resp = a.staticTier(req)
	a.logTier(resp, len(resp.Results), start)
	return resp
}

// vectorTier embeds the query and runs pgvector search, raced against the
// configured timeout. Returns an error to signal fall-through; a nil error
// response always satisfies the non-empty guarantee.
func (a *Adapter) vectorTier(ctx context.Context, req Request) (Response, error) {
	chunks, err := a.raceSimilarity(ctx, req.Query, req.TopicID, req.Limit)
	if err != nil {
		return Response{}, err
	}

	if len(chunks) >= a.cfg.MinUsefulResults {
		a.counters.vector.Add(1)
		return Response{Results: toResults(chunks), Method: MethodVector}, nil
	}

	// Below the useful minimum: broaden scope once before giving up.
	broadened, err := a.raceSimilarity(ctx, req.Query, "", req.Limit)
	if err != nil && len(chunks) == 0 {
		return Response{}, err
	}
	merged := mergeChunks(chunks, broadened)

	if len(merged) >= a.cfg.MinUsefulResults {
		a.counters.vector.Add(1)
		return Response{Results: toResults(merged), Method: MethodVector}, nil
	}

	if len(merged) > 0 {
		// Partial signal is additive: keep what the store gave us and top it
		// up with one static passage instead of discarding it.
		a.counters.merged.Add(1)
		results := append(toResults(merged), a.staticResult(req))
		return Response{Results: results, Method: MethodVector, UsedFallback: true}, nil
	}

	// Zero hits with no transport error: the trigram tier keys off store
	// exceptions, so an empty-but-healthy vector tier goes straight to static.
	resp := a.staticTier(req)
	return resp, nil
}

// raceSimilarity races embed+search against the vector timeout. A late result
// is discarded rather than cancelled.
func (a *Adapter) raceSimilarity(ctx context.Context, query, topicID string, limit int) ([]storage.KnowledgeChunk, error) {
	type outcome struct {
		chunks []storage.KnowledgeChunk
		err    error
	}

	ch := make(chan outcome, 1)
	go func() {
		hint := a.topicHint(topicID)
		emb, err := a.embedder.EmbedSingle(ctx, query, hint)
		if err != nil {
			ch <- outcome{err: err}
			return
		}
		chunks, err := a.store.SimilaritySearch(ctx, emb, a.cfg.VectorThreshold, limit, topicID)
		ch <- outcome{chunks: chunks, err: err}
	}()

	timer := time.NewTimer(a.cfg.VectorTimeout)
	defer timer.Stop()

	select {
	case o := <-ch:
		return o.chunks, o.err
	case <-timer.C:
		return nil, ErrVectorTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// trigramTier strips particles and runs pg_trgm matching. Any nonzero result
// set is accepted as-is.
func (a *Adapter) trigramTier(ctx context.Context, req Request) (Response, bool) {
	stripped := StripParticles(req.Query)
	chunks, err := a.store.TrigramSearch(ctx, stripped, a.cfg.TrigramThreshold, req.Limit, req.TopicID)
	if err != nil {
		a.logger.Warn().Err(err).Str("query", stripped).Msg("trigram tier failed")
		return Response{}, false
	}
	if len(chunks) == 0 {
		return Response{}, false
	}

	a.counters.trgm.Add(1)
	return Response{Results: toResults(chunks), Method: MethodTrgm, UsedFallback: true}, true
}

// staticTier synthesizes one passage from the taxonomy. No I/O, cannot fail.
func (a *Adapter) staticTier(req Request) Response {
	a.counters.static.Add(1)
	return Response{
		Results:      []Result{a.staticResult(req)},
		Method:       MethodStatic,
		UsedFallback: true,
	}
}

func (a *Adapter) staticResult(req Request) Result {
	topicID := req.TopicID
	topic, ok := a.tax.ByID(topicID)
	if !ok {
		topicID = a.tax.DefaultTopicID()
		topic, _ = a.tax.ByID(topicID)
	}

	content := topic.PassageContent
	title := topic.ID
	if sec, ok := a.tax.ByID(req.SecondaryTopicID); ok && req.SecondaryTopicID != topicID {
		content = content + "\n\n" + sec.PassageContent
		title = title + "+" + sec.ID
	}

	return Result{
		ID:         uuid.New(),
		TopicID:    topicID,
		ChunkType:  "static",
		Title:      title,
		Content:    content,
		Similarity: a.cfg.StaticSimilarity,
	}
}

func (a *Adapter) topicHint(topicID string) string {
	if t, ok := a.tax.ByID(topicID); ok {
		return t.SearchHint
	}
	return ""
}

func (a *Adapter) logTier(resp Response, count int, start time.Time) {
	a.logger.Info().
		Str("method", string(resp.Method)).
		Int("results", len(resp.Results)).
		Bool("used_fallback", resp.UsedFallback).
		Dur("elapsed", time.Since(start)).
		Msg("knowledge search complete")
}

func toResults(chunks []storage.KnowledgeChunk) []Result {
	out := make([]Result, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, Result{
			ID:         c.ID,
			TopicID:    c.TopicID,
			ChunkType:  c.ChunkType,
			Title:      c.Title,
			Content:    c.Content,
			Conditions: c.Conditions,
			Similarity: c.Similarity,
		})
	}
	return out
}

// mergeChunks combines scoped and broadened hits, deduplicating by id and by
// content prefix (broadened retries often return the same rows).
func mergeChunks(scoped, broadened []storage.KnowledgeChunk) []storage.KnowledgeChunk {
	seen := make(map[uuid.UUID]struct{}, len(scoped)+len(broadened))
	prefixes := make(map[string]struct{}, len(scoped)+len(broadened))
	out := make([]storage.KnowledgeChunk, 0, len(scoped)+len(broadened))

	add := func(c storage.KnowledgeChunk) {
		if _, ok := seen[c.ID]; ok {
			return
		}
		p := contentPrefix(c.Content)
		if _, ok := prefixes[p]; ok {
			return
		}
		seen[c.ID] = struct{}{}
		prefixes[p] = struct{}{}
		out = append(out, c)
	}

	for _, c := range scoped {
		add(c)
	}
	for _, c := range broadened {
		add(c)
	}
	return out
}

func contentPrefix(s string) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) > 40 {
		runes = runes[:40]
	}
	return string(runes)
}
