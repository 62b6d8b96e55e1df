package knowledge

import "strings"

// trailingParticles are Korean postpositions stripped from query words before
// trigram matching, longest first so compound particles win over their tails.
var trailingParticles = []string{
	"에서부터", "으로부터",
	"에서는", "에서도", "한테서", "에게서",
	"이라는", "라는",
	"으로", "로서", "로써", "이랑", "처럼", "보다", "부터", "까지",
	"에서", "에게", "한테", "하고", "이나", "이든",
	"은", "는", "이", "가", "을", "를", "에", "와", "과", "랑", "의", "도", "만", "로",
}

// StripParticles removes trailing grammatical particles from each word of the
// query. Words of two runes or fewer are left alone: stripping them is more
// likely to destroy a short noun than to remove a particle.
func StripParticles(query string) string {
	words := strings.Fields(query)
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, stripWord(w))
	}
	return strings.Join(out, " ")
}

func stripWord(w string) string {
	runes := []rune(w)
	if len(runes) <= 2 {
		return w
	}
	for _, p := range trailingParticles {
		if strings.HasSuffix(w, p) {
			stripped := strings.TrimSuffix(w, p)
			if len([]rune(stripped)) >= 2 {
				return stripped
			}
		}
	}
	return w
}
