package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"maumjari-counsel-be/internal/entity"
	"maumjari-counsel-be/internal/pkg/logger"
	"maumjari-counsel-be/internal/repository/contract"
	"maumjari-counsel-be/pkg/embedding"
	"maumjari-counsel-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	err      error
	lastTask string
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.lastTask = taskType
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1, 0}}}, nil
}

type fakeChunks struct {
	contract.KnowledgeChunkRepository
	results   []*contract.ScoredKnowledgeChunk
	lastLimit int
}

func (f *fakeChunks) SearchSimilarWithScore(ctx context.Context, vec []float32, limit int, threshold float64) ([]*contract.ScoredKnowledgeChunk, error) {
	f.lastLimit = limit
	return f.results, nil
}

func TestRetrieverSearch(t *testing.T) {
	emb := &fakeEmbedder{}
	chunks := &fakeChunks{results: []*contract.ScoredKnowledgeChunk{
		{Chunk: &entity.KnowledgeChunk{Id: uuid.New(), Source: "guide.md", Page: 3, Content: "호흡"}, Similarity: 0.91},
		{Chunk: &entity.KnowledgeChunk{Id: uuid.New(), Source: "guide.md", Page: 4, Content: "수면"}, Similarity: 0.72},
	}}
	r := NewRetriever(emb, chunks, logger.NewNopLogger())

	docs, err := r.Search(context.Background(), "잠이 안 와요", Config{})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, 2, chunks.lastLimit)
	assert.Equal(t, embedding.TaskQuery, emb.lastTask)
	assert.Equal(t, "guide.md", docs[0].Source)
	assert.Equal(t, 3, docs[0].Page)
	assert.InDelta(t, 0.91, docs[0].Score, 1e-9)
}

func TestRetrieverEmbeddingFailure(t *testing.T) {
	r := NewRetriever(&fakeEmbedder{err: errors.New("down")}, &fakeChunks{}, logger.NewNopLogger())
	_, err := r.Search(context.Background(), "q", DefaultConfig())
	assert.ErrorContains(t, err, "embedding generation failed")
}

const usefulPassage = "불안이 심할 때는 천천히 숨을 들이쉬고 내쉬는 호흡 방법이 도움이 됩니다. 감정을 억누르기보다 알아차리고 이름을 붙여보는 연습을 하면 마음이 조금씩 편안해집니다."

func TestCounselingSnippet(t *testing.T) {
	snippet, ok := CounselingSnippet([]store.Document{{Content: usefulPassage}})
	require.True(t, ok)
	assert.Equal(t, usefulPassage, snippet)
}

func TestCounselingSnippetSkipsAcademicAndOffTopic(t *testing.T) {
	docs := []store.Document{
		{Content: "이 연구는 상담 효과를 측정한 논문입니다. " + usefulPassage},
		{Content: strings.Repeat("날씨가 맑고 바람이 선선합니다. ", 5)},
		{Content: usefulPassage},
	}
	// only the first two passages are considered
	_, ok := CounselingSnippet(docs)
	assert.False(t, ok)
}

func TestCounselingSnippetStripsCitationsAndTruncates(t *testing.T) {
	long := "저자 미상 상담 자료\n" + strings.Repeat("감정을 알아차리는 연습은 도움이 됩니다. ", 20)
	snippet, ok := CounselingSnippet([]store.Document{{Content: long}})
	require.True(t, ok)
	assert.NotContains(t, snippet, "저자")
	assert.Equal(t, 200, len([]rune(snippet)))
	assert.True(t, strings.HasPrefix(snippet, "감정을 알아차리는"))
}

func TestCounselingSnippetTooShort(t *testing.T) {
	_, ok := CounselingSnippet([]store.Document{{Content: "상담은 도움이 됩니다."}})
	assert.False(t, ok)
}
