package dto

type RelatednessResult struct {
	Score   float64  `json:"score"`
	Label   string   `json:"label"`
	Explain []string `json:"explain"`
}

type Finding struct {
	Code                string  `json:"code"`
	Type                string  `json:"type"`
	Severity            string  `json:"severity"`
	Confidence          float64 `json:"confidence"`
	Expected            string  `json:"expected"`
	Actual              string  `json:"actual"`
	AExcerpt            string  `json:"a_excerpt"`
	BExcerpt            string  `json:"b_excerpt"`
	ALocation           string  `json:"a_location"`
	BLocation           string  `json:"b_location"`
	SuggestedResolution string  `json:"suggested_resolution"`
}

type ComparisonMetadata struct {
	OCR       string `json:"ocr"`
	Truncated bool   `json:"truncated"`
}

type ComparisonResponse struct {
	Relatedness      RelatednessResult  `json:"relatedness"`
	GoverningDocType string             `json:"governing_doc_type"`
	Findings         []Finding          `json:"findings"`
	Metadata         ComparisonMetadata `json:"metadata"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
