// internal/service/session_service.go
package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"go_4_sight_reader/internal/middleware"
	"go_4_sight_reader/internal/model"
	"go_4_sight_reader/internal/repository"
	"go_4_sight_reader/internal/revisit"

	"github.com/google/uuid"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// RandFactory はセッションごとの乱数源を作ります。
type RandFactory func() revisit.Rand

func NewSeededRandFactory() RandFactory {
	var mu sync.Mutex
	seed := rand.New(rand.NewSource(time.Now().UnixNano()))
	return func() revisit.Rand {
		mu.Lock()
		defer mu.Unlock()
		return rand.New(rand.NewSource(seed.Int63()))
	}
}

type SessionService interface {
	StartSession(ctx context.Context, req *model.StartSessionRequest) (*model.SessionResponse, error)
	GetSession(ctx context.Context, id uuid.UUID) (*model.SessionResponse, error)
	Next(ctx context.Context, id uuid.UUID) (*model.SessionResponse, error)
	MarkForRevisit(ctx context.Context, id uuid.UUID) (*model.SessionResponse, error)
	Previous(ctx context.Context, id uuid.UUID) (*model.SessionResponse, error)
	EndSession(ctx context.Context, id uuid.UUID) error
	ListHistory(ctx context.Context, limit int) ([]*model.SessionRecord, error)
	Sweep(ctx context.Context, now time.Time) int
}

// sessionEntry は1セッション分の状態です。mu が session を含むすべてのフィールドを守ります。
type sessionEntry struct {
	mu            sync.Mutex
	id            uuid.UUID
	session       revisit.Session
	source        model.SessionSource
	slug          string
	planned       int
	cardsShown    int
	revisitsShown int
	// seen はキューの各位置に一度でも到達したかどうかです。キューと同じ長さに保ちます
	seen          []bool
	startedAt     time.Time
	lastActive    time.Time
	recorded      bool
}

type sessionService struct {
	words   WordService
	blends  BlendService
	history repository.HistoryRepository
	newRand RandFactory
	idleTTL time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionEntry
}

func NewSessionService(words WordService, blends BlendService, history repository.HistoryRepository, newRand RandFactory, idleTTL time.Duration) SessionService {
	if newRand == nil {
		newRand = NewSeededRandFactory()
	}
	return &sessionService{
		words:    words,
		blends:   blends,
		history:  history,
		newRand:  newRand,
		idleTTL:  idleTTL,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*sessionEntry),
	}
}

func (s *sessionService) StartSession(ctx context.Context, req *model.StartSessionRequest) (*model.SessionResponse, error) {
	logger := middleware.GetLogger(ctx).With("source", string(req.Source), "slug", req.Slug)

	words, err := s.sourceWords(ctx, req)
	if err != nil {
		return nil, err
	}

	rng := s.newRand()
	if req.Count > 0 && len(words) > req.Count {
		words = revisit.Shuffle(words, rng)[:req.Count]
	}

	now := s.now()
	entry := &sessionEntry{
		id:         uuid.New(),
		source:     req.Source,
		slug:       req.Slug,
		startedAt:  now,
		lastActive: now,
	}
	if err := entry.session.Start(words, rng); err != nil {
		if errors.Is(err, revisit.ErrEmptyInput) {
			logger.Warn("No words available for session")
			return nil, model.NewAppError("NO_WORDS", "No words available.", "source", model.ErrInvalidInput)
		}
		logger.Error("Failed to start session", "error", err)
		return nil, model.NewInternalError("Failed to start session.", err)
	}
	entry.planned = entry.session.Len()
	entry.cardsShown = 1
	entry.seen = make([]bool, entry.planned)
	entry.seen[0] = true

	s.mu.Lock()
	s.sessions[entry.id] = entry
	s.mu.Unlock()

	logger.Info("Session started", "session_id", entry.id.String(), "words", entry.planned)
	return entry.snapshot(), nil
}

func (s *sessionService) sourceWords(ctx context.Context, req *model.StartSessionRequest) ([]string, error) {
	switch req.Source {
	case model.SourceSmall, model.SourceBig, model.SourceAll:
		return s.words.ListWords(ctx, model.WordCategory(req.Source))
	case model.SourceBlend:
		if req.Slug == "" {
			return nil, model.NewAppError("INVALID_SLUG", "slug is required for blend sessions.", "slug", model.ErrInvalidInput)
		}
		blend, err := s.blends.GetBlend(ctx, req.Slug)
		if err != nil {
			return nil, err
		}
		return blend.Words, nil
	default:
		return nil, model.NewAppError("INVALID_SOURCE", "Unknown session source.", "source", model.ErrInvalidInput)
	}
}

func (s *sessionService) lookup(id uuid.UUID) (*sessionEntry, error) {
	s.mu.Lock()
	entry, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, model.NewAppError("NOT_FOUND", "Session not found.", "session_id", model.ErrNotFound)
	}
	return entry, nil
}

func (s *sessionService) GetSession(ctx context.Context, id uuid.UUID) (*model.SessionResponse, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.snapshot(), nil
}

func (s *sessionService) Next(ctx context.Context, id uuid.UUID) (*model.SessionResponse, error) {
	return s.apply(ctx, id, "next", (*revisit.Session).Advance)
}

func (s *sessionService) MarkForRevisit(ctx context.Context, id uuid.UUID) (*model.SessionResponse, error) {
	return s.apply(ctx, id, "revisit", (*revisit.Session).MarkForRevisit)
}

func (s *sessionService) Previous(ctx context.Context, id uuid.UUID) (*model.SessionResponse, error) {
	return s.apply(ctx, id, "previous", (*revisit.Session).Previous)
}

// apply はエントリのロック内でイベントを適用し、完了したら履歴を一度だけ記録します。
func (s *sessionService) apply(ctx context.Context, id uuid.UUID, event string, fn func(*revisit.Session) error) (*model.SessionResponse, error) {
	logger := middleware.GetLogger(ctx).With("session_id", id.String(), "event", event)

	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	before := entry.session.Cursor()
	beforeLen := entry.session.Len()
	if err := fn(&entry.session); err != nil {
		if errors.Is(err, revisit.ErrNotActive) {
			logger.Warn("Event rejected, session is not active", "state", entry.session.State().String())
			return nil, model.NewAppError("SESSION_NOT_ACTIVE", "Session is not active.", "", model.ErrConflict)
		}
		logger.Error("Failed to apply session event", "error", err)
		return nil, model.NewInternalError("Failed to update session.", err)
	}
	entry.lastActive = s.now()

	if event != "previous" && entry.session.State() == revisit.StateActive && entry.session.Cursor() > before {
		entry.cardsShown++
		entry.countRevisit(before, beforeLen)
	}

	if entry.session.Completed() && !entry.recorded {
		entry.recorded = true
		s.record(ctx, entry)
		logger.Info("Session completed", "cards_shown", entry.cardsShown, "revisits_shown", entry.revisitsShown)
	}
	return entry.snapshot(), nil
}

// record は履歴を保存します。失敗はログに残すだけです。
func (s *sessionService) record(ctx context.Context, entry *sessionEntry) {
	if s.history == nil {
		return
	}
	rec := &model.SessionRecord{
		RecordID:      uuid.New(),
		SessionID:     entry.id,
		Source:        entry.source,
		Slug:          entry.slug,
		WordsPlanned:  entry.planned,
		CardsShown:    entry.cardsShown,
		RevisitsShown: entry.revisitsShown,
		StartedAt:     entry.startedAt,
		CompletedAt:   entry.lastActive,
	}
	if err := s.history.Create(ctx, rec); err != nil {
		middleware.GetLogger(ctx).Error("Failed to record session history", "session_id", entry.id.String(), "error", err)
	}
}

func (s *sessionService) EndSession(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	entry, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return model.NewAppError("NOT_FOUND", "Session not found.", "session_id", model.ErrNotFound)
	}

	entry.mu.Lock()
	entry.session.Reset()
	entry.mu.Unlock()

	middleware.GetLogger(ctx).Info("Session ended", "session_id", id.String())
	return nil
}

func (s *sessionService) ListHistory(ctx context.Context, limit int) ([]*model.SessionRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if s.history == nil {
		return []*model.SessionRecord{}, nil
	}
	records, err := s.history.ListRecent(ctx, limit)
	if err != nil {
		middleware.GetLogger(ctx).Error("Failed to list session history", "error", err)
		return nil, model.NewInternalError("Failed to load session history.", err)
	}
	return records, nil
}

// Sweep は idleTTL より長く操作のないセッションを破棄し、破棄した数を返します。
func (s *sessionService) Sweep(ctx context.Context, now time.Time) int {
	if s.idleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, entry := range s.sessions {
		entry.mu.Lock()
		idle := entry.lastActive.Before(cutoff)
		entry.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		middleware.GetLogger(ctx).Info("Evicted idle sessions", "count", removed, "remaining", len(s.sessions))
	}
	return removed
}

// countRevisit は初めて到達した再出題カードだけを数えます。
// 戻ってから進み直したカードは数えません。
func (e *sessionEntry) countRevisit(before, beforeLen int) {
	// 再出題カードは常に before+1 から連続して挿入される
	if grown := e.session.Len() - beforeLen; grown > 0 {
		at := before + 1
		e.seen = append(e.seen[:at], append(make([]bool, grown), e.seen[at:]...)...)
	}
	cursor := e.session.Cursor()
	if e.seen[cursor] {
		return
	}
	e.seen[cursor] = true
	if cur, err := e.session.Current(); err == nil && cur.IsRevisit {
		e.revisitsShown++
	}
}

func (e *sessionEntry) snapshot() *model.SessionResponse {
	resp := &model.SessionResponse{
		SessionID:       e.id,
		Source:          e.source,
		Slug:            e.slug,
		State:           e.session.State().String(),
		Total:           e.session.Len(),
		PendingRevisits: e.session.PendingCount(),
		Completed:       e.session.Completed(),
	}
	switch e.session.State() {
	case revisit.StateActive:
		resp.Position = e.session.Cursor() + 1
		if cur, err := e.session.Current(); err == nil {
			resp.Current = &model.CardResponse{Word: cur.Word, IsRevisit: cur.IsRevisit}
		}
	case revisit.StateComplete:
		resp.Position = e.session.Len()
	}
	return resp
}
