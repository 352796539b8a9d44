package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"maumjari-counsel-be/internal/dto"
	"maumjari-counsel-be/internal/entity"
	"maumjari-counsel-be/internal/pkg/logger"
	"maumjari-counsel-be/internal/repository/specification"
	"maumjari-counsel-be/internal/repository/unitofwork"
	"maumjari-counsel-be/pkg/embedding"
	"maumjari-counsel-be/pkg/llm"
	"maumjari-counsel-be/pkg/rag"
	"maumjari-counsel-be/pkg/store"
	"maumjari-counsel-be/pkg/utils"

	"github.com/google/uuid"
)

const (
	ChunkSize    = 1200
	ChunkOverlap = 150

	DefaultQueryTopK = 4

	pageSeparator = "\f"
)

var ErrKnowledgeDisabled = errors.New("knowledge base is not configured")

// KnowledgeAnswer is a model answer grounded in retrieved passages.
type KnowledgeAnswer struct {
	Answer  string
	Sources []store.Document
}

type IKnowledgeService interface {
	Ingest(ctx context.Context, request *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error)
	Search(ctx context.Context, request *dto.KnowledgeSearchRequest) (*dto.KnowledgeSearchResponse, error)
	Ask(ctx context.Context, query string, topK int) (*KnowledgeAnswer, error)
	Stats(ctx context.Context, source string) (*dto.KnowledgeStatsResponse, error)
}

type knowledgeService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	searcher          KnowledgeSearcher
	llmProvider       llm.LLMProvider
	logger            logger.ILogger
}

func NewKnowledgeService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	searcher KnowledgeSearcher,
	llmProvider llm.LLMProvider,
	log logger.ILogger,
) IKnowledgeService {
	return &knowledgeService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		searcher:          searcher,
		llmProvider:       llmProvider,
		logger:            log,
	}
}

// Ingest replaces all chunks of request.Source with freshly embedded ones.
func (ks *knowledgeService) Ingest(ctx context.Context, request *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error) {
	source := strings.TrimSpace(request.Source)
	now := time.Now()

	var chunks []*entity.KnowledgeChunk
	for pageIdx, page := range strings.Split(request.Content, pageSeparator) {
		for _, text := range utils.SplitText(page, ChunkSize, ChunkOverlap) {
			res, err := ks.embeddingProvider.Generate(ctx, text, embedding.TaskDocument)
			if err != nil {
				return nil, fmt.Errorf("embed chunk %d of %s: %w", len(chunks), source, err)
			}
			chunks = append(chunks, &entity.KnowledgeChunk{
				Id:         uuid.New(),
				Source:     source,
				Page:       pageIdx + 1,
				ChunkIndex: len(chunks),
				Content:    text,
				Embedding:  res.Embedding.Values,
				Metadata:   map[string]interface{}{"source": source, "page": pageIdx + 1},
				CreatedAt:  now,
			})
		}
	}

	uow := ks.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.KnowledgeChunkRepository().DeleteBySource(ctx, source); err != nil {
		return nil, fmt.Errorf("delete old chunks of %s: %w", source, err)
	}
	if len(chunks) > 0 {
		if err := uow.KnowledgeChunkRepository().CreateBulk(ctx, chunks); err != nil {
			return nil, fmt.Errorf("store chunks of %s: %w", source, err)
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit chunks of %s: %w", source, err)
	}

	ks.logger.Info("KnowledgeService", "Document ingested", map[string]interface{}{
		"source": source,
		"chunks": len(chunks),
	})
	return &dto.IngestDocumentResponse{Source: source, Chunks: len(chunks)}, nil
}

func (ks *knowledgeService) Search(ctx context.Context, request *dto.KnowledgeSearchRequest) (*dto.KnowledgeSearchResponse, error) {
	docs, err := ks.retrieve(ctx, request.Query, request.TopK)
	if err != nil {
		return nil, err
	}

	results := make([]*dto.KnowledgeSearchResult, 0, len(docs))
	for _, d := range docs {
		results = append(results, &dto.KnowledgeSearchResult{
			Source:  d.Source,
			Page:    d.Page,
			Content: d.Content,
			Score:   d.Score,
		})
	}
	return &dto.KnowledgeSearchResponse{Results: results}, nil
}

// Ask answers query from the top passages only.
func (ks *knowledgeService) Ask(ctx context.Context, query string, topK int) (*KnowledgeAnswer, error) {
	docs, err := ks.retrieve(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	answer, err := ks.llmProvider.Generate(ctx, groundedPrompt(query, docs))
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	return &KnowledgeAnswer{Answer: strings.TrimSpace(answer), Sources: docs}, nil
}

// Stats counts stored chunks, optionally for one source.
func (ks *knowledgeService) Stats(ctx context.Context, source string) (*dto.KnowledgeStatsResponse, error) {
	var specs []specification.Specification
	if source != "" {
		specs = append(specs, specification.BySource{Source: source})
	}

	count, err := ks.uowFactory.NewUnitOfWork(ctx).KnowledgeChunkRepository().Count(ctx, specs...)
	if err != nil {
		return nil, fmt.Errorf("count knowledge chunks: %w", err)
	}
	return &dto.KnowledgeStatsResponse{Chunks: count}, nil
}

func (ks *knowledgeService) retrieve(ctx context.Context, query string, topK int) ([]store.Document, error) {
	if ks.searcher == nil {
		return nil, ErrKnowledgeDisabled
	}
	if topK <= 0 {
		topK = DefaultQueryTopK
	}
	docs, err := ks.searcher.Search(ctx, query, rag.Config{TopK: topK})
	if err != nil {
		return nil, fmt.Errorf("knowledge search: %w", err)
	}
	return docs, nil
}

func groundedPrompt(query string, docs []store.Document) string {
	var sb strings.Builder
	sb.WriteString("아래는 참고 문서입니다.\n---------------------\n")
	for _, d := range docs {
		sb.WriteString(d.Content)
		sb.WriteString("\n\n")
	}
	sb.WriteString("---------------------\n")
	sb.WriteString("사전 지식이 아닌 참고 문서의 내용만으로 질문에 한국어로 답하세요.\n")
	fmt.Fprintf(&sb, "질문: %s\n답변: ", query)
	return sb.String()
}
