package dto

type KnowledgeSearchRequest struct {
	Query string `json:"query" validate:"notblank" message:"검색어가 비어있습니다."`
	TopK  int    `json:"top_k" validate:"omitempty,min=1,max=20"`
}

type KnowledgeSearchResult struct {
	Source  string  `json:"source"`
	Page    int     `json:"page"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type KnowledgeSearchResponse struct {
	Results []*KnowledgeSearchResult `json:"results"`
}

// IngestDocumentRequest replaces every chunk of Source. Form feeds in
// Content separate pages.
type IngestDocumentRequest struct {
	Source  string `json:"source" validate:"notblank" message:"source 값이 필요합니다."`
	Content string `json:"content" validate:"notblank" message:"content 값이 필요합니다."`
}

type IngestDocumentResponse struct {
	Source string `json:"source"`
	Chunks int    `json:"chunks"`
}

type KnowledgeStatsResponse struct {
	Chunks int64 `json:"chunks"`
}
