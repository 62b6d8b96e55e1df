package taxonomy

// Default returns the built-in retail-operations taxonomy. Deployments with
// their own corpus load it from YAML instead; the built-in set keeps the CLI
// and tests working without data files.
func Default() *Taxonomy {
	tx, err := New(defaultTopics, "store_operations")
	if err != nil {
		// The built-in list is validated by tests; a failure here is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return tx
}

var defaultTopics = []Topic{
	{
		ID:                "store_layout",
		Keywords:          []string{"layout", "zoning", "floorplan", "flow"},
		LocalizedKeywords: []string{"레이아웃", "동선", "배치", "매장 구성", "공간"},
		SearchHint:        "매장 레이아웃 설계 사례",
		PassageContent: "매장 레이아웃은 입구에서 계산대까지의 고객 동선을 기준으로 설계합니다. " +
			"주력 상품은 입구 우측 첫 진열대(파워월)에 배치하고, 회유율을 높이기 위해 " +
			"주통로 폭은 최소 90cm를 확보합니다. 계절 상품 존은 월 1회 이상 위치를 바꿔 " +
			"재방문 고객에게 변화를 보여주는 것이 일반적입니다.",
		RelatedTopicIDs: []string{"vmd", "customer_experience"},
	},
	{
		ID:                "vmd",
		Keywords:          []string{"vmd", "display", "visual", "merchandising", "mannequin"},
		LocalizedKeywords: []string{"진열", "디스플레이", "쇼윈도", "연출", "마네킹"},
		SearchHint:        "VMD 진열 연출 사례",
		PassageContent: "VMD(비주얼 머천다이징)는 상품·조명·집기·컬러를 묶어 구매를 유도하는 " +
			"진열 기법입니다. 골든존(바닥에서 85~135cm)에 이익 기여도가 높은 상품을 두고, " +
			"쇼윈도는 2~3주 주기로 교체합니다. 컬러는 한 연출 면에 3색 이내로 제한하는 것이 " +
			"기본 원칙입니다.",
		RelatedTopicIDs: []string{"store_layout", "branding"},
	},
	{
		ID:                "customer_experience",
		Keywords:          []string{"service", "experience", "hospitality", "cx"},
		LocalizedKeywords: []string{"고객", "응대", "서비스", "체험", "클레임"},
		SearchHint:        "리테일 고객 경험 개선 사례",
		PassageContent: "고객 응대는 입장 후 30초 이내 인사, 구매 강요 없는 거리 유지, " +
			"퇴장 시 마무리 인사의 3단계가 기본입니다. 클레임은 사실 확인보다 공감 표현을 " +
			"먼저 하고, 현장에서 해결이 어려우면 책임자 연결까지의 시간을 5분 이내로 " +
			"관리합니다.",
		RelatedTopicIDs: []string{"store_layout", "sales"},
	},
	{
		ID:                "inventory",
		Keywords:          []string{"inventory", "stock", "sku", "logistics", "replenishment"},
		LocalizedKeywords: []string{"재고", "발주", "입고", "물류", "품절"},
		SearchHint:        "리테일 재고 관리 기법",
		PassageContent: "재고는 판매 속도 기준으로 A/B/C 등급을 나눠 관리합니다. A등급은 " +
			"주 2회 이상 발주로 품절을 막고, C등급은 시즌 종료 6주 전부터 단계적으로 " +
			"소진합니다. 실사 재고와 전산 재고의 오차율은 1% 이내가 목표입니다.",
		RelatedTopicIDs: []string{"sales"},
	},
	{
		ID:                "marketing",
		Keywords:          []string{"marketing", "promotion", "campaign", "sns", "event"},
		LocalizedKeywords: []string{"마케팅", "프로모션", "홍보", "이벤트", "할인"},
		SearchHint:        "리테일 SNS 마케팅 사례",
		PassageContent: "오프라인 매장의 마케팅은 방문 전(SNS·지도 노출), 방문 중(체험 요소), " +
			"방문 후(리뷰 유도)의 세 구간으로 나눠 설계합니다. 할인 프로모션은 기간을 " +
			"명확히 제한해야 정가 신뢰를 해치지 않으며, 인스타그램 릴스 등 짧은 영상은 " +
			"매장 공간 자체를 소재로 쓰는 편이 반응이 좋습니다.",
		RelatedTopicIDs: []string{"trend", "branding"},
	},
	{
		ID:                "trend",
		Keywords:          []string{"trend", "popup", "collab"},
		LocalizedKeywords: []string{"트렌드", "유행", "팝업", "콜라보", "신상"},
		SearchHint:        "리테일 팝업스토어 트렌드",
		PassageContent: "최근 오프라인 리테일은 판매보다 경험을 앞세우는 팝업스토어와 브랜드 " +
			"콜라보가 중심입니다. 팝업은 2~4주의 짧은 운영 기간과 포토 스팟 설계가 " +
			"핵심이며, 종료 후 본 매장이나 온라인으로 고객을 이어갈 연결 장치를 미리 " +
			"준비해야 합니다.",
		RelatedTopicIDs: []string{"marketing"},
	},
	{
		ID:                "sales",
		Keywords:          []string{"sales", "revenue", "conversion", "kpi"},
		LocalizedKeywords: []string{"매출", "객단가", "전환율", "판매", "실적"},
		SearchHint:        "매장 매출 분석 지표",
		PassageContent: "매장 매출은 방문객 수 × 구매 전환율 × 객단가로 분해해 관리합니다. " +
			"전환율이 낮으면 접객과 진열을, 객단가가 낮으면 연관 진열과 세트 제안을 먼저 " +
			"점검합니다. 주간 단위 비교는 요일 효과를 제거하기 위해 전주 동일 요일과 " +
			"대조합니다.",
		RelatedTopicIDs: []string{"inventory", "customer_experience"},
	},
	{
		ID:                "branding",
		Keywords:          []string{"brand", "identity", "positioning", "concept"},
		LocalizedKeywords: []string{"브랜딩", "아이덴티티", "콘셉트", "포지셔닝"},
		SearchHint:        "리테일 브랜드 포지셔닝 사례",
		PassageContent: "매장 브랜딩은 간판·포장·유니폼·음악까지 하나의 콘셉트로 통일될 때 " +
			"기억에 남습니다. 포지셔닝은 '누구에게 어떤 한 가지로 기억될 것인가'를 한 " +
			"문장으로 정의하는 데서 시작하며, 경쟁 브랜드와 같은 속성으로 싸우지 않는 " +
			"것이 원칙입니다.",
		RelatedTopicIDs: []string{"marketing", "vmd"},
	},
	{
		ID:                "store_operations",
		Keywords:          []string{"operation", "staff", "schedule", "opening", "checklist"},
		LocalizedKeywords: []string{"운영", "직원", "근무", "오픈", "마감"},
		SearchHint:        "매장 운영 체크리스트",
		PassageContent: "매장 운영의 기본은 오픈·마감 체크리스트입니다. 오픈 시 조명·음악·" +
			"시재·진열 점검, 마감 시 매출 마감·발주·청결 점검을 표준화하고, 직원 근무표는 " +
			"피크 시간대(주말 오후) 인력을 평일의 1.5배 수준으로 배치합니다.",
		RelatedTopicIDs: []string{"customer_experience", "inventory"},
	},
}
