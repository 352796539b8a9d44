package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"maumjari-counsel-be/internal/entity"
	"maumjari-counsel-be/pkg/counsel/stage"
	"maumjari-counsel-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepositoryFindDoesNotCreate(t *testing.T) {
	repo := NewSessionRepository(time.Hour, time.Minute)

	rec, err := repo.Find(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, rec)

	rec, err = repo.Find(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestSessionRepositoryUpdateCreatesWithDefaults(t *testing.T) {
	repo := NewSessionRepository(time.Hour, time.Minute)

	rec, err := repo.Update(context.Background(), "s1", func(s *store.CounselingSession) error {
		s.TurnCount++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, stage.Initial, rec.Stage)
	assert.Equal(t, 1, rec.TurnCount)
	assert.Equal(t, "empathetic", string(rec.Persona))

	found, err := repo.Find(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 1, found.TurnCount)
}

func TestSessionRepositoryUpdateErrorLeavesRecordUntouched(t *testing.T) {
	repo := NewSessionRepository(time.Hour, time.Minute)
	boom := errors.New("boom")

	_, err := repo.Update(context.Background(), "s1", func(s *store.CounselingSession) error {
		s.TurnCount = 99
		return boom
	})
	assert.ErrorIs(t, err, boom)

	found, err := repo.Find(context.Background(), "s1")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestSessionRepositoryReturnsCopies(t *testing.T) {
	repo := NewSessionRepository(time.Hour, time.Minute)
	rec, err := repo.Update(context.Background(), "s1", func(s *store.CounselingSession) error {
		s.Emotions = append(s.Emotions, "우울")
		return nil
	})
	require.NoError(t, err)

	rec.Emotions[0] = "changed"

	found, _ := repo.Find(context.Background(), "s1")
	assert.Equal(t, []string{"우울"}, found.Emotions)
}

func TestSessionRepositoryConcurrentUpdates(t *testing.T) {
	repo := NewSessionRepository(time.Hour, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Update(context.Background(), "shared", func(s *store.CounselingSession) error {
				s.TurnCount++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	found, err := repo.Find(context.Background(), "shared")
	require.NoError(t, err)
	assert.Equal(t, 50, found.TurnCount)
}

func TestSessionRepositoryExpires(t *testing.T) {
	repo := NewSessionRepository(20*time.Millisecond, time.Hour)
	_, err := repo.Update(context.Background(), "s1", func(s *store.CounselingSession) error { return nil })
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)

	found, err := repo.Find(context.Background(), "s1")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestHistoryRepositoryAppendAndRecent(t *testing.T) {
	repo := NewHistoryRepository(time.Hour, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		turn, err := repo.Append(ctx, "s1", store.TurnRecord{UserText: "u", AssistantText: "a"})
		require.NoError(t, err)
		assert.Equal(t, i+1, turn.TurnNumber)
	}

	recent, err := repo.Recent(ctx, "s1", 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, 3, recent[0].TurnNumber)
	assert.Equal(t, 5, recent[2].TurnNumber)

	all, err := repo.All(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, all, 5)

	n, err := repo.Len(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	empty, err := repo.All(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestHistoryRepositoryConcurrentAppend(t *testing.T) {
	repo := NewHistoryRepository(time.Hour, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Append(ctx, "s1", store.TurnRecord{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := repo.All(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, all, 30)
	for i, turn := range all {
		assert.Equal(t, i+1, turn.TurnNumber)
	}
}

func TestCounselingTurnRepositoryFilters(t *testing.T) {
	repo := NewCounselingTurnRepository(0)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.CounselingTurn{SessionId: "a", Date: "2026-10-15", UserMessage: "1"}))
	require.NoError(t, repo.Create(ctx, &entity.CounselingTurn{SessionId: "a", Date: "2026-10-16", UserMessage: "2"}))
	require.NoError(t, repo.Create(ctx, &entity.CounselingTurn{SessionId: "b", Date: "2026-10-16", UserMessage: "3"}))

	today, err := repo.FindAll(ctx, entity.TurnFilter{Date: "2026-10-16"})
	require.NoError(t, err)
	require.Len(t, today, 2)
	assert.Equal(t, "2", today[0].UserMessage)
	assert.NotEqual(t, today[0].Id, today[1].Id)

	n, err := repo.Count(ctx, entity.TurnFilter{SessionId: "a"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	limited, err := repo.FindAll(ctx, entity.TurnFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestCounselingTurnRepositoryCapacity(t *testing.T) {
	repo := NewCounselingTurnRepository(2)
	ctx := context.Background()
	for _, msg := range []string{"1", "2", "3"} {
		require.NoError(t, repo.Create(ctx, &entity.CounselingTurn{UserMessage: msg}))
	}

	all, err := repo.FindAll(ctx, entity.TurnFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2", all[0].UserMessage)
}
