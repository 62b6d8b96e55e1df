// Package queryroute decides whether a message needs external web search and
// extracts the entities to search for. Pure text heuristics, no I/O.
//
// Two lists guard the two failure modes: the known-brand list stops famous
// names from triggering pointless lookups, and the common-term denylist stops
// ordinary retail vocabulary from being mistaken for brand names. Short
// proper nouns are indistinguishable from common words by surface form, so
// the remaining candidates pass through suffix and context heuristics.
package queryroute

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/storelens/knowledge-augment/internal/taxonomy"
)

// Augmentation is the routing verdict.
type Augmentation string

const (
	AugmentationNone      Augmentation = "none"
	AugmentationWebSearch Augmentation = "web_search"
)

// RouteResult is the router's output. Entities are surface strings, not
// resolved against any canonical registry.
type RouteResult struct {
	Augmentation     Augmentation `json:"augmentation"`
	DetectedEntities []string     `json:"detected_entities,omitempty"`
	SearchReason     string       `json:"search_reason,omitempty"`
}

// historyScanDepth is how many prior turns are searched for entities when a
// trigger fires but the current message names nothing.
const historyScanDepth = 3

// contextWindow bounds how far (in tokens) a context word may sit from a
// candidate and still vouch for it.
const contextWindow = 2

var (
	researchIntentRe = regexp.MustCompile(`분석|전략|사례|벤치마킹|리서치|조사해|조사\s|알아봐|찾아봐|비교해|리뷰해|research|analysis|benchmark|case\s*study`)

	recencyPatterns = []struct {
		re     *regexp.Regexp
		reason string
	}{
		{regexp.MustCompile(`(19|20)\d{2}년?`), "explicit year mentioned"},
		{regexp.MustCompile(`최신|최근|요즘|올해|이번\s*주|이번\s*달|지난\s*주|신상|트렌드|latest|recent|this\s+week`), "recency phrasing"},
		{regexp.MustCompile(`경쟁사|경쟁\s*브랜드|다른\s*브랜드.*(동향|소식)|competitor`), "competitor analysis phrasing"},
		{regexp.MustCompile(`인스타그램|인스타|유튜브|틱톡|릴스|쇼츠|스레드|instagram|youtube|tiktok|reels`), "social media platform mentioned"},
	}

	quotedSpanRe = regexp.MustCompile(`['"\x60‘“「『(（]([^'"\x60’”」』)）]{2,30})['"\x60’”」』)）]`)

	latinSequenceRe = regexp.MustCompile(`[A-Za-z][A-Za-z0-9&.\-]*(?:\s+[A-Za-z][A-Za-z0-9&.\-]*)+`)

	// Possessive/topic-marking particles that fuse onto a preceding noun
	// with no space. Longest first.
	fusedParticles = []string{"에서는", "에서", "은", "는", "이", "가", "을", "를", "의", "도", "만"}
)

// Router inspects raw text for unknown proper nouns and current-information
// triggers. Safe for concurrent use.
type Router struct {
	lex Lexicon
	tax *taxonomy.Taxonomy
}

// New creates a query router. The taxonomy supplies the keyword vocabulary so
// domain terms are never re-flagged as entities.
func New(lex Lexicon, tax *taxonomy.Taxonomy) *Router {
	return &Router{lex: lex, tax: tax}
}

// Route applies the detection stages in order: known-brand short-circuit,
// recency triggers, unknown-entity scan, then the default verdict.
func (r *Router) Route(message string, history []string) RouteResult {
	if strings.TrimSpace(message) == "" {
		return RouteResult{Augmentation: AugmentationNone}
	}

	lower := strings.ToLower(message)

	// Stage 1: a famous brand alone is not worth a lookup; only deep
	// research requests justify one. Either way the scan stops here.
	if brand := r.findKnownBrand(lower); brand != "" {
		if researchIntentRe.MatchString(lower) {
			return RouteResult{
				Augmentation:     AugmentationWebSearch,
				DetectedEntities: []string{brand},
				SearchReason:     "well-known brand with research intent",
			}
		}
		return RouteResult{Augmentation: AugmentationNone}
	}

	// Stage 2: the user wants current information. The trigger alone
	// justifies a generic query even with no entity in sight.
	for _, p := range recencyPatterns {
		if !p.re.MatchString(lower) {
			continue
		}
		entities := r.extractEntities(message)
		if len(entities) == 0 {
			entities = r.entitiesFromHistory(history)
		}
		return RouteResult{
			Augmentation:     AugmentationWebSearch,
			DetectedEntities: entities,
			SearchReason:     p.reason,
		}
	}

	// Stage 3: unknown proper nouns.
	if entities := r.extractEntities(message); len(entities) > 0 {
		return RouteResult{
			Augmentation:     AugmentationWebSearch,
			DetectedEntities: entities,
			SearchReason:     "unknown entity detected",
		}
	}

	return RouteResult{Augmentation: AugmentationNone}
}

func (r *Router) findKnownBrand(lower string) string {
	for _, b := range r.lex.KnownBrands {
		if strings.Contains(lower, strings.ToLower(b)) {
			return b
		}
	}
	return ""
}

func (r *Router) entitiesFromHistory(history []string) []string {
	for i := len(history) - 1; i >= 0 && i >= len(history)-historyScanDepth; i-- {
		if ents := r.extractEntities(history[i]); len(ents) > 0 {
			return ents
		}
	}
	return nil
}

// extractEntities combines quoted spans, multi-word Latin sequences, and
// Hangul brand-name candidates, deduplicated in discovery order.
func (r *Router) extractEntities(message string) []string {
	var out []string
	seen := make(map[string]struct{})

	add := func(e string) {
		e = strings.TrimSpace(e)
		if e == "" {
			return
		}
		key := strings.ToLower(e)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}

	for _, m := range quotedSpanRe.FindAllStringSubmatch(message, -1) {
		span := m[1]
		if r.lex.isKnownBrand(span) || r.lex.isCommonTerm(span) {
			continue
		}
		add(span)
	}

	for _, seq := range latinSequenceRe.FindAllString(message, -1) {
		if r.tax.HasKeyword(seq) || r.lex.isCommonTerm(seq) || r.lex.isKnownBrand(seq) {
			continue
		}
		add(seq)
	}

	tokens := tokenize(message)
	for i, tok := range tokens {
		if cand, ok := r.hangulCandidate(tokens, i, tok); ok {
			add(cand)
		}
	}

	return out
}

// hangulCandidate applies the brand-likeness heuristic to a single token.
func (r *Router) hangulCandidate(tokens []string, i int, tok string) (string, bool) {
	if !isHangul(tok) || len([]rune(tok)) < 2 {
		return "", false
	}

	base, fused := splitFusedParticle(tok)
	if r.rejected(base) {
		return "", false
	}

	if r.lex.hasBusinessSuffix(base) {
		return base, true
	}
	if r.nearContextWord(tokens, i) {
		return base, true
	}
	// A particle glued straight onto an unknown noun is how brand names
	// surface in head-final sentences ("매너스골프의 전략은?").
	if fused {
		return base, true
	}
	return "", false
}

// verbishTails mark conjugated verb/adjective stems; a brand name never ends
// in one, while fused-particle candidates frequently do.
var verbishTails = []string{"하", "되", "있", "없", "해", "돼", "했", "줘", "려", "습니", "입니", "세요", "어요", "아요"}

func (r *Router) rejected(base string) bool {
	if n := len([]rune(base)); n < 2 || n > 12 {
		return true
	}
	for _, t := range verbishTails {
		if strings.HasSuffix(base, t) {
			return true
		}
	}
	// Plural marker folds back onto the bare noun before the denylist check.
	bare := strings.TrimSuffix(base, "들")
	return r.lex.isCommonTerm(base) || r.lex.isCommonTerm(bare) ||
		r.lex.isKnownBrand(base) || r.tax.HasKeyword(base) || r.tax.HasKeyword(bare)
}

func (r *Router) nearContextWord(tokens []string, i int) bool {
	lo := i - contextWindow
	if lo < 0 {
		lo = 0
	}
	hi := i + contextWindow
	if hi > len(tokens)-1 {
		hi = len(tokens) - 1
	}
	for j := lo; j <= hi; j++ {
		if j == i {
			continue
		}
		if r.lex.isContextWord(tokens[j]) {
			return true
		}
	}
	return false
}

// splitFusedParticle strips one trailing particle when the remainder is still
// a plausible noun, reporting whether the particle was fused on.
func splitFusedParticle(tok string) (string, bool) {
	for _, p := range fusedParticles {
		if strings.HasSuffix(tok, p) {
			base := strings.TrimSuffix(tok, p)
			if len([]rune(base)) >= 2 {
				return base, true
			}
		}
	}
	return tok, false
}

func tokenize(message string) []string {
	return strings.FieldsFunc(message, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func isHangul(s string) bool {
	for _, r := range s {
		if !unicode.Is(unicode.Hangul, r) {
			return false
		}
	}
	return s != ""
}
