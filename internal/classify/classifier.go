// Package classify scores the topic taxonomy against a user message.
package classify

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/storelens/knowledge-augment/internal/taxonomy"
)

// Classification is the result of scoring the taxonomy against one message.
type Classification struct {
	PrimaryTopicID   string
	SecondaryTopicID string
	Confidence       float64
	MatchedKeywords  []string
}

const (
	// maxPossibleScore is a fixed calibration constant, not derived from the
	// taxonomy. Adding keyword-heavy topics compresses confidence toward 1.0;
	// recalibrate when the corpus grows.
	maxPossibleScore = 20.0

	// defaultConfidence is returned when no topic scores at all.
	defaultConfidence = 0.3

	// historyWeight discounts scores contributed by prior turns.
	historyWeight = 0.3

	// historyTurns is how many trailing turns feed into scoring.
	historyTurns = 2

	// secondaryRatio is the minimum share of the primary score a runner-up
	// needs to become the secondary topic outright.
	secondaryRatio = 0.5

	compoundBoost = 3.0
)

// compoundPattern captures multi-concept intent that single keywords miss.
type compoundPattern struct {
	topicID string
	re      *regexp.Regexp
}

var compoundPatterns = []compoundPattern{
	{"store_layout", regexp.MustCompile(`(매장|스토어|store).*(레이아웃|동선|배치|layout)|(레이아웃|layout).*(매장|store)`)},
	{"customer_experience", regexp.MustCompile(`(고객|소비자).*(경험|여정|동선|만족)`)},
	{"marketing", regexp.MustCompile(`(sns|인스타|인스타그램|유튜브|틱톡).*(홍보|마케팅|이벤트|광고)`)},
	{"trend", regexp.MustCompile(`팝업.*(스토어|매장|행사)`)},
	{"sales", regexp.MustCompile(`(매출|객단가|전환율).*(분석|올리|개선|높이)`)},
	{"vmd", regexp.MustCompile(`(쇼윈도|진열).*(연출|교체|바꾸)`)},
}

// Classifier scores messages against an injected taxonomy. It holds no
// mutable state and is safe for concurrent use.
type Classifier struct {
	tax *taxonomy.Taxonomy
}

// New creates a classifier over the given taxonomy.
func New(tax *taxonomy.Taxonomy) *Classifier {
	return &Classifier{tax: tax}
}

// Classify scores every topic against the message and, when supplied, the
// last turns of history at a 30% discount. It always returns a usable
// classification: when nothing scores, the taxonomy's default topic is
// returned with a low fixed confidence.
func (c *Classifier) Classify(message string, history []string) Classification {
	topics := c.tax.Topics()
	scores := make([]float64, len(topics))

	norm := Normalize(message)
	for i, t := range topics {
		scores[i] = c.scoreTopic(t, norm)
	}

	// Recency-discounted context from the trailing turns.
	if len(history) > 0 {
		start := len(history) - historyTurns
		if start < 0 {
			start = 0
		}
		for _, turn := range history[start:] {
			turnNorm := Normalize(turn)
			for i, t := range topics {
				scores[i] += historyWeight * c.scoreTopic(t, turnNorm)
			}
		}
	}

	// Rank topic indexes by score, ties keeping taxonomy order.
	order := make([]int, len(topics))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	top := order[0]
	if scores[top] <= 0 {
		return Classification{
			PrimaryTopicID: c.tax.DefaultTopicID(),
			Confidence:     defaultConfidence,
		}
	}

	primary := topics[top]
	confidence := scores[top] / maxPossibleScore
	if confidence > 1 {
		confidence = 1
	}

	secondary := ""
	if len(order) > 1 && scores[order[1]] >= scores[top]*secondaryRatio && scores[order[1]] > 0 {
		secondary = topics[order[1]].ID
	} else {
		// Fall back to the primary topic's declared relations, picking the
		// first one that scored at all in this pass.
		idx := make(map[string]int, len(topics))
		for i, t := range topics {
			idx[t.ID] = i
		}
		for _, rel := range primary.RelatedTopicIDs {
			if i, ok := idx[rel]; ok && scores[i] > 0 {
				secondary = rel
				break
			}
		}
	}

	return Classification{
		PrimaryTopicID:   primary.ID,
		SecondaryTopicID: secondary,
		Confidence:       confidence,
		MatchedKeywords:  c.matchedKeywords(primary, norm),
	}
}

// scoreTopic applies keyword scoring plus compound-pattern boosts.
func (c *Classifier) scoreTopic(t taxonomy.Topic, norm string) float64 {
	score := 0.0

	for _, kw := range t.Keywords {
		kwLower := strings.ToLower(kw)
		if !strings.Contains(norm, kwLower) {
			continue
		}
		if wholeWordMatch(norm, kwLower) || utf8.RuneCountInString(kwLower) >= 4 {
			score += 2
		} else {
			score += 1
		}
	}

	// Localized keywords are inherently more specific: always full weight.
	for _, kw := range t.LocalizedKeywords {
		if strings.Contains(norm, Normalize(kw)) {
			score += 2
		}
	}

	for _, cp := range compoundPatterns {
		if cp.topicID == t.ID && cp.re.MatchString(norm) {
			score += compoundBoost
		}
	}

	return score
}

// matchedKeywords lists the primary topic's keywords found in the message,
// in declaration order so repeated calls yield identical output.
func (c *Classifier) matchedKeywords(t taxonomy.Topic, norm string) []string {
	var matched []string
	for _, kw := range t.Keywords {
		if strings.Contains(norm, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	for _, kw := range t.LocalizedKeywords {
		if strings.Contains(norm, Normalize(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// Normalize case-folds, strips punctuation, and collapses whitespace while
// preserving Hangul.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	lastSpace := true
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			// Punctuation becomes a word boundary rather than vanishing,
			// so "vmd!진열" still splits into two terms.
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func wholeWordMatch(norm, kw string) bool {
	for _, f := range strings.Fields(norm) {
		if f == kw {
			return true
		}
	}
	return false
}
