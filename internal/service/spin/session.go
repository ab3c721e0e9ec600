package spin

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"slot_backend/internal/common"
	"slot_backend/internal/model"
)

type phase int

const (
	phaseIdle phase = iota
	phaseSpinning
	phaseChaining
)

type session struct {
	phase    phase
	spinID   string
	limiter  *rate.Limiter
	lastSeen time.Time
}

// sessions Состояние игроков: не больше одного спина в полете и минимальный интервал между спинами
type sessions struct {
	mtx      sync.Mutex
	m        map[model.Address]*session
	interval time.Duration
}

func newSessions(minInterval time.Duration) *sessions {
	return &sessions{
		m:        make(map[model.Address]*session),
		interval: minInterval,
	}
}

func (s *sessions) get(player model.Address) *session {
	sess, ok := s.m[player]
	if !ok {
		limit := rate.Inf
		if s.interval > 0 {
			limit = rate.Every(s.interval)
		}
		sess = &session{limiter: rate.NewLimiter(limit, 1)}
		s.m[player] = sess
	}
	return sess
}

// acquire Атомарно занимает слот игрока. Слишком частые запросы отклоняются, а не ставятся в очередь.
func (s *sessions) acquire(player model.Address, now time.Time) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	sess := s.get(player)
	sess.lastSeen = now

	switch sess.phase {
	case phaseChaining:
		return common.ErrBonusInProgress
	case phaseSpinning:
		return common.ErrSpinInFlight
	}
	if !sess.limiter.AllowN(now, 1) {
		return common.ErrRateLimited
	}

	sess.phase = phaseSpinning
	sess.spinID = ""
	return nil
}

// bind Привязывает закоммиченный спин к слоту
func (s *sessions) bind(player model.Address, spinID string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.get(player).spinID = spinID
}

func (s *sessions) chaining(player model.Address) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.get(player).phase = phaseChaining
}

// release Освобождает слот. Пустой spinID освобождает слот без привязанного спина.
func (s *sessions) release(player model.Address, spinID string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	sess, ok := s.m[player]
	if !ok || sess.spinID != spinID {
		return
	}
	sess.phase = phaseIdle
	sess.spinID = ""
}

// markBusy Восстанавливает занятость после рестарта. Слот, занятый другим спином, не трогается.
func (s *sessions) markBusy(player model.Address, spinID string, state model.SpinState) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	sess := s.get(player)
	if sess.phase != phaseIdle && sess.spinID != spinID {
		return
	}
	sess.spinID = spinID
	sess.phase = phaseSpinning
	if state == model.StateBonusChaining {
		sess.phase = phaseChaining
	}
}

// busy Занят ли слот игрока. Лимитер не расходуется.
func (s *sessions) busy(player model.Address) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	sess, ok := s.m[player]
	if !ok {
		return nil
	}
	switch sess.phase {
	case phaseChaining:
		return common.ErrBonusInProgress
	case phaseSpinning:
		return common.ErrSpinInFlight
	}
	return nil
}

func (s *sessions) prune(now time.Time, ttl time.Duration) int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	n := 0
	for player, sess := range s.m {
		if sess.phase == phaseIdle && now.Sub(sess.lastSeen) > ttl {
			delete(s.m, player)
			n++
		}
	}
	return n
}
