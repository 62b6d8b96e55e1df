package queryroute

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon is the word-list configuration behind entity detection. The lists
// drift as brands come and go, so they live in configuration with compiled
// defaults rather than inside the detection logic.
type Lexicon struct {
	// KnownBrands are globally recognized names the assistant already knows;
	// mentioning one does not justify a live lookup on its own.
	KnownBrands []string `yaml:"known_brands"`
	// CommonTerms is the denylist of ordinary retail vocabulary that must
	// never be mistaken for a brand name.
	CommonTerms []string `yaml:"common_terms"`
	// BusinessSuffixes mark candidates that end like a shop or brand name.
	BusinessSuffixes []string `yaml:"business_suffixes"`
	// ContextWords are business-context neighbors that make an adjacent
	// unknown token look like a brand.
	ContextWords []string `yaml:"context_words"`
}

// LoadLexicon reads a lexicon from a YAML file.
func LoadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("read lexicon: %w", err)
	}
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return Lexicon{}, fmt.Errorf("parse lexicon: %w", err)
	}
	return lex, nil
}

// DefaultLexicon returns the built-in word lists.
func DefaultLexicon() Lexicon {
	return Lexicon{
		KnownBrands: []string{
			"나이키", "아디다스", "뉴발란스", "푸마", "아식스",
			"스타벅스", "투썸플레이스", "이디야", "맥도날드", "버거킹",
			"유니클로", "자라", "에이치앤엠", "무신사", "올리브영",
			"이케아", "다이소", "코스트코", "이마트", "홈플러스",
			"롯데", "신세계", "현대백화점", "쿠팡", "배달의민족",
			"애플", "삼성", "엘지", "샤넬", "구찌", "루이비통", "에르메스", "디올",
			"nike", "adidas", "starbucks", "apple", "samsung",
			"uniqlo", "zara", "ikea", "gucci", "chanel", "muji",
		},
		CommonTerms: []string{
			"매장", "매출", "고객", "브랜드", "마케팅", "상품", "제품",
			"진열", "인테리어", "레이아웃", "동선", "재고", "발주",
			"할인", "프로모션", "이벤트", "전략", "분석", "사례",
			"트렌드", "디자인", "운영", "직원", "서비스", "판매",
			"가격", "품질", "방법", "생각", "문제", "질문", "정보",
			"내용", "추천", "데이터", "시장", "온라인", "오프라인",
			"쇼핑", "백화점", "편의점", "팝업", "스토어", "행사",
			"경쟁사", "소비자", "요즘", "최근", "최신", "현황", "수입",
			"신발", "의류", "패션", "음료", "메뉴", "포장", "배송",
			"store", "shop", "brand", "sale", "event", "trend",
		},
		BusinessSuffixes: []string{
			"골프", "카페", "베이커리", "마트", "스토어", "샵", "몰",
			"하우스", "랩", "스튜디오", "키친", "클럽", "웍스",
			"컴퍼니", "마켓", "랜드", "리테일",
		},
		ContextWords: []string{
			"수입", "팝업", "입점", "런칭", "론칭", "출시", "오픈",
			"매장", "분석", "브랜드", "콜라보", "협업", "문의",
			"알아봐", "찾아봐", "검색", "벤치마킹",
		},
	}
}

func (l Lexicon) isKnownBrand(term string) bool {
	t := strings.ToLower(term)
	for _, b := range l.KnownBrands {
		if t == strings.ToLower(b) {
			return true
		}
	}
	return false
}

func (l Lexicon) isCommonTerm(term string) bool {
	t := strings.ToLower(term)
	for _, c := range l.CommonTerms {
		if t == strings.ToLower(c) {
			return true
		}
	}
	return false
}

func (l Lexicon) hasBusinessSuffix(term string) bool {
	for _, s := range l.BusinessSuffixes {
		if strings.HasSuffix(term, s) && len([]rune(term)) > len([]rune(s)) {
			return true
		}
	}
	return false
}

func (l Lexicon) isContextWord(term string) bool {
	for _, c := range l.ContextWords {
		if strings.Contains(term, c) {
			return true
		}
	}
	return false
}
