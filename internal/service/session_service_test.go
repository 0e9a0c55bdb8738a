// internal/service/session_service_test.go
package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go_4_sight_reader/internal/model"
	repomocks "go_4_sight_reader/internal/repository/mocks"
	"go_4_sight_reader/internal/revisit"
	svcmocks "go_4_sight_reader/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// lastRand は常に n-1 を返します。シャッフルは恒等、再出題の遅延は4になります。
type lastRand struct{}

func (lastRand) Intn(n int) int { return n - 1 }

func fixedRand() revisit.Rand { return lastRand{} }

type sessionFixture struct {
	svc     *sessionService
	words   *svcmocks.WordService
	blends  *svcmocks.BlendService
	history *repomocks.HistoryRepository
	clock   time.Time
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		words:   svcmocks.NewWordService(t),
		blends:  svcmocks.NewBlendService(t),
		history: repomocks.NewHistoryRepository(t),
		clock:   time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewSessionService(f.words, f.blends, f.history, fixedRand, 2*time.Hour).(*sessionService)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *sessionFixture) start(t *testing.T, words []string) *model.SessionResponse {
	t.Helper()
	f.words.On("ListWords", mock.Anything, model.CategorySmall).Return(words, nil).Once()
	resp, err := f.svc.StartSession(context.Background(), &model.StartSessionRequest{Source: model.SourceSmall})
	require.NoError(t, err)
	return resp
}

func wordList(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("w%02d", i)
	}
	return out
}

func Test_sessionService_StartSession(t *testing.T) {
	ctx := context.Background()

	t.Run("単語リストから開始", func(t *testing.T) {
		f := newSessionFixture(t)
		resp := f.start(t, []string{"the", "and", "run"})

		assert.NotEqual(t, uuid.Nil, resp.SessionID)
		assert.Equal(t, "active", resp.State)
		assert.Equal(t, 1, resp.Position)
		assert.Equal(t, 3, resp.Total)
		assert.Equal(t, &model.CardResponse{Word: "the"}, resp.Current)
		assert.False(t, resp.Completed)
	})

	t.Run("count で出題数を絞る", func(t *testing.T) {
		f := newSessionFixture(t)
		f.words.On("ListWords", mock.Anything, model.CategoryAll).Return(wordList(30), nil).Once()

		resp, err := f.svc.StartSession(ctx, &model.StartSessionRequest{Source: model.SourceAll, Count: 10})
		require.NoError(t, err)
		assert.Equal(t, 10, resp.Total)
	})

	t.Run("count が単語数以上なら全部", func(t *testing.T) {
		f := newSessionFixture(t)
		f.words.On("ListWords", mock.Anything, model.CategoryBig).Return(wordList(7), nil).Once()

		resp, err := f.svc.StartSession(ctx, &model.StartSessionRequest{Source: model.SourceBig, Count: 10})
		require.NoError(t, err)
		assert.Equal(t, 7, resp.Total)
	})

	t.Run("ブレンドから開始", func(t *testing.T) {
		f := newSessionFixture(t)
		f.blends.On("GetBlend", mock.Anything, "bl").
			Return(&model.Blend{Slug: "bl", Words: []string{"blue", "black"}}, nil).Once()

		resp, err := f.svc.StartSession(ctx, &model.StartSessionRequest{Source: model.SourceBlend, Slug: "bl"})
		require.NoError(t, err)
		assert.Equal(t, model.SourceBlend, resp.Source)
		assert.Equal(t, "bl", resp.Slug)
		assert.Equal(t, 2, resp.Total)
	})

	t.Run("空の単語リストは ErrInvalidInput", func(t *testing.T) {
		f := newSessionFixture(t)
		f.words.On("ListWords", mock.Anything, model.CategorySmall).Return([]string{" ", ""}, nil).Once()

		_, err := f.svc.StartSession(ctx, &model.StartSessionRequest{Source: model.SourceSmall})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
		assert.Equal(t, "NO_WORDS", appErrorCode(t, err))
	})

	t.Run("ブレンドのエラーはそのまま返す", func(t *testing.T) {
		f := newSessionFixture(t)
		notFound := model.NewAppError("NOT_FOUND", "Could not find words for this blend.", "slug", model.ErrNotFound)
		f.blends.On("GetBlend", mock.Anything, "zz").Return(nil, notFound).Once()

		_, err := f.svc.StartSession(ctx, &model.StartSessionRequest{Source: model.SourceBlend, Slug: "zz"})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func Test_sessionService_RevisitFlow(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	resp := f.start(t, []string{"a", "b", "c", "d", "e", "f"})
	id := resp.SessionID

	// a を再出題に回すと 0+1+4 = 5 番目に戻ってくる
	resp, err := f.svc.MarkForRevisit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "b", resp.Current.Word)
	assert.Equal(t, 1, resp.PendingRevisits)

	for _, want := range []string{"c", "d", "e"} {
		resp, err = f.svc.Next(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, resp.Current.Word)
	}

	resp, err = f.svc.Next(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, &model.CardResponse{Word: "a", IsRevisit: true}, resp.Current)
	assert.Equal(t, 6, resp.Position)
	assert.Equal(t, 7, resp.Total)
	assert.Equal(t, 0, resp.PendingRevisits)

	// 戻って進み直した再出題カードは再出題数に数えない (進んだ回数は数える)
	resp, err = f.svc.Previous(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "e", resp.Current.Word)
	resp, err = f.svc.Next(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "a", resp.Current.Word)

	resp, err = f.svc.Next(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "f", resp.Current.Word)

	f.history.On("Create", mock.Anything, mock.MatchedBy(func(r *model.SessionRecord) bool {
		return r.SessionID == id &&
			r.Source == model.SourceSmall &&
			r.WordsPlanned == 6 &&
			r.CardsShown == 8 &&
			r.RevisitsShown == 1
	})).Return(nil).Once()

	resp, err = f.svc.Next(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "complete", resp.State)
	assert.True(t, resp.Completed)
	assert.Nil(t, resp.Current)
	assert.Equal(t, 7, resp.Position)

	t.Run("完了後のイベントは ErrConflict で履歴は1回だけ", func(t *testing.T) {
		for _, fn := range []func(context.Context, uuid.UUID) (*model.SessionResponse, error){f.svc.Next, f.svc.MarkForRevisit, f.svc.Previous} {
			_, err := fn(ctx, id)
			assert.ErrorIs(t, err, model.ErrConflict)
		}
		got, err := f.svc.GetSession(ctx, id)
		require.NoError(t, err)
		assert.True(t, got.Completed)
	})
}

func Test_sessionService_RevisitsShownAfterInsertBehind(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	resp := f.start(t, wordList(10))
	id := resp.SessionID

	// w08 まで進んでから w01 に戻る
	for i := 0; i < 8; i++ {
		_, err := f.svc.Next(ctx, id)
		require.NoError(t, err)
	}
	for i := 0; i < 7; i++ {
		_, err := f.svc.Previous(ctx, id)
		require.NoError(t, err)
	}

	// w01 は 1+1+4 = 6 番目、到達済みの範囲の内側に戻ってくる
	resp, err := f.svc.MarkForRevisit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "w02", resp.Current.Word)
	for _, want := range []string{"w03", "w04", "w05"} {
		resp, err = f.svc.Next(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, resp.Current.Word)
	}
	resp, err = f.svc.Next(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, &model.CardResponse{Word: "w01", IsRevisit: true}, resp.Current)
	assert.Equal(t, 11, resp.Total)

	_, err = f.svc.Previous(ctx, id)
	require.NoError(t, err)
	resp, err = f.svc.Next(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "w01", resp.Current.Word)

	for _, want := range []string{"w06", "w07", "w08", "w09"} {
		resp, err = f.svc.Next(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, resp.Current.Word)
	}

	f.history.On("Create", mock.Anything, mock.MatchedBy(func(r *model.SessionRecord) bool {
		return r.SessionID == id && r.WordsPlanned == 10 && r.RevisitsShown == 1
	})).Return(nil).Once()

	resp, err = f.svc.Next(ctx, id)
	require.NoError(t, err)
	assert.True(t, resp.Completed)
}

func Test_sessionService_HistoryFailureIsNotSurfaced(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	resp := f.start(t, []string{"only"})
	f.history.On("Create", mock.Anything, mock.Anything).Return(fmt.Errorf("db down")).Once()

	resp, err := f.svc.Next(ctx, resp.SessionID)
	require.NoError(t, err)
	assert.True(t, resp.Completed)
}

func Test_sessionService_UnknownAndEnded(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)

	_, err := f.svc.GetSession(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = f.svc.Next(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, f.svc.EndSession(ctx, uuid.New()), model.ErrNotFound)

	resp := f.start(t, []string{"a", "b"})
	require.NoError(t, f.svc.EndSession(ctx, resp.SessionID))
	_, err = f.svc.GetSession(ctx, resp.SessionID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func Test_sessionService_Sweep(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	idle := f.start(t, []string{"a", "b", "c"})
	busy := f.start(t, []string{"a", "b", "c"})

	f.clock = f.clock.Add(90 * time.Minute)
	_, err := f.svc.Next(ctx, busy.SessionID)
	require.NoError(t, err)

	removed := f.svc.Sweep(ctx, f.clock.Add(31*time.Minute))
	assert.Equal(t, 1, removed)

	_, err = f.svc.GetSession(ctx, idle.SessionID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = f.svc.GetSession(ctx, busy.SessionID)
	assert.NoError(t, err)
}

func Test_sessionService_ConcurrentEvents(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	resp := f.start(t, wordList(100))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Next(ctx, resp.SessionID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := f.svc.GetSession(ctx, resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 51, got.Position)
	assert.Equal(t, "w50", got.Current.Word)
}

func Test_sessionService_ListHistory(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	records := []*model.SessionRecord{{SessionID: uuid.New()}}
	f.history.On("ListRecent", mock.Anything, DefaultHistoryLimit).Return(records, nil).Once()
	f.history.On("ListRecent", mock.Anything, MaxHistoryLimit).Return(records, nil).Once()

	got, err := f.svc.ListHistory(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	_, err = f.svc.ListHistory(ctx, 1000)
	require.NoError(t, err)
}
