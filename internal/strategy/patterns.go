package strategy

import "regexp"

var (
	// diversityRe matches comparative questions asking for alternatives or
	// other brands; internal knowledge alone is never assumed sufficient
	// for these.
	diversityRe = regexp.MustCompile(`(?i)다른\s*브랜드|다른\s*(곳|데|매장)|대안|말고|비교|추천해|어떤\s*브랜드|alternative|other\s+brands`)

	// benchmarkRe matches benchmark and case-study phrasing.
	benchmarkRe = regexp.MustCompile(`(?i)벤치마킹|벤치마크|사례|우수\s*사례|성공\s*사례|best\s*practice|case\s*study`)

	// recencyRe mirrors the router's recency triggers; when it fires, a
	// news-type query joins the plan.
	recencyRe = regexp.MustCompile(`(?i)(19|20)\d{2}년?|최신|최근|요즘|올해|이번\s*주|트렌드|latest|recent`)

	// popupCueRe and storeCueRe steer the phrasing of entity queries.
	popupCueRe = regexp.MustCompile(`(?i)팝업|popup|pop-up`)
	storeCueRe = regexp.MustCompile(`매장|인테리어|공간|스토어|진열`)

	// researchCueRe matches deep-research intent for the secondary
	// strategy/case-study query.
	researchCueRe = regexp.MustCompile(`(?i)분석|전략|사례|벤치마킹|조사|research|analysis`)
)
