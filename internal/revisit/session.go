// internal/revisit/session.go
package revisit

import (
	"errors"
	"math/rand"
	"strings"
	"time"
)

var (
	ErrEmptyInput = errors.New("revisit: no usable words to start a session")
	ErrNotActive  = errors.New("revisit: session is not active")
)

// Rand は乱数源です。*rand.Rand がそのまま使えます。
type Rand interface {
	Intn(n int) int
}

type State int

const (
	StateIdle State = iota
	StateActive
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateComplete:
		return "complete"
	default:
		return "idle"
	}
}

// WordItem はセッションキュー内の1枚のカードです。
type WordItem struct {
	Word      string `json:"word"`
	IsRevisit bool   `json:"is_revisit"`
}

// Ticket は TargetIndex に到達したときに Word を再挿入する予約です。
type Ticket struct {
	Word        string `json:"word"`
	TargetIndex int    `json:"target_index"`
}

const (
	minDelay   = 3
	delayRange = 2 // 3 or 4
)

// Session は1回分のフラッシュカード学習を保持します。ゼロ値は Idle 状態です。
// 並行利用は想定していません (呼び出し側で排他すること)。
type Session struct {
	queue   []WordItem
	cursor  int
	pending []Ticket
	state   State
	rng     Rand
}

// Start は単語をシャッフルして新しいキューを作り、セッションを Active にします。
// 以前の状態は破棄されます。
func (s *Session) Start(words []string, rng Rand) error {
	filtered := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		filtered = append(filtered, w)
	}
	if len(filtered) == 0 {
		return ErrEmptyInput
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	shuffled := Shuffle(filtered, rng)
	queue := make([]WordItem, len(shuffled))
	for i, w := range shuffled {
		queue[i] = WordItem{Word: w}
	}

	s.queue = queue
	s.cursor = 0
	s.pending = nil
	s.state = StateActive
	s.rng = rng
	return nil
}

// Shuffle は Fisher-Yates で並べ替えたコピーを返します (入力は変更しない)。
func Shuffle(words []string, rng Rand) []string {
	out := make([]string, len(words))
	copy(out, words)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func (s *Session) Current() (WordItem, error) {
	if s.state != StateActive {
		return WordItem{}, ErrNotActive
	}
	return s.queue[s.cursor], nil
}

// MarkForRevisit は現在の単語を3〜4枚後に再出題するよう予約し、次へ進みます。
// 既に再出題のカードは再予約しません。
func (s *Session) MarkForRevisit() error {
	if s.state != StateActive {
		return ErrNotActive
	}
	cur := s.queue[s.cursor]
	if !cur.IsRevisit {
		delay := s.rng.Intn(delayRange) + minDelay
		s.pending = append(s.pending, Ticket{
			Word:        cur.Word,
			TargetIndex: s.cursor + 1 + delay,
		})
	}
	return s.Advance()
}

// Advance は次のカードへ進みます。次の位置が期限の予約は、作成順にその位置へ挿入してから
// 境界判定を行います。
func (s *Session) Advance() error {
	if s.state != StateActive {
		return ErrNotActive
	}
	next := s.cursor + 1

	remaining := s.pending[:0:0]
	offset := 0
	for _, t := range s.pending {
		if t.TargetIndex != next {
			remaining = append(remaining, t)
			continue
		}
		s.queue = insertAt(s.queue, next+offset, WordItem{Word: t.Word, IsRevisit: true})
		offset++
	}
	s.pending = remaining

	if next <= len(s.queue)-1 {
		s.cursor = next
	} else {
		s.state = StateComplete
	}
	return nil
}

func (s *Session) Previous() error {
	if s.state != StateActive {
		return ErrNotActive
	}
	if s.cursor > 0 {
		s.cursor--
	}
	return nil
}

// Reset はセッションを Idle に戻します。
func (s *Session) Reset() {
	*s = Session{}
}

func (s *Session) State() State { return s.state }

func (s *Session) Completed() bool { return s.state == StateComplete }

func (s *Session) Cursor() int { return s.cursor }

func (s *Session) Len() int { return len(s.queue) }

func (s *Session) PendingCount() int { return len(s.pending) }

// Queue はキューのコピーを返します。
func (s *Session) Queue() []WordItem {
	out := make([]WordItem, len(s.queue))
	copy(out, s.queue)
	return out
}

// Pending は未消化の予約のコピーを作成順で返します。
func (s *Session) Pending() []Ticket {
	out := make([]Ticket, len(s.pending))
	copy(out, s.pending)
	return out
}

func insertAt(items []WordItem, idx int, item WordItem) []WordItem {
	items = append(items, WordItem{})
	copy(items[idx+1:], items[idx:])
	items[idx] = item
	return items
}
