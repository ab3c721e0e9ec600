// Package mem_repo Хранилища в памяти процесса для режима STORAGE=memory и для тестов.
package mem_repo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"slot_backend/internal/common"
	"slot_backend/internal/model"
	"slot_backend/internal/repository"
)

// Store Реализует SpinRepository, PlayerRepository и EventRepository
type Store struct {
	mtx     sync.RWMutex
	spins   map[string]*model.SpinRecord
	indexes map[model.Address]uint64
	events  map[model.Address][]model.Event
}

// NewStore Пустое хранилище
func NewStore() *Store {
	return &Store{
		spins:   make(map[string]*model.SpinRecord),
		indexes: make(map[model.Address]uint64),
		events:  make(map[model.Address][]model.Event),
	}
}

var (
	_ repository.SpinRepository   = (*Store)(nil)
	_ repository.PlayerRepository = (*Store)(nil)
	_ repository.EventRepository  = (*Store)(nil)
)

func clone(rec *model.SpinRecord) *model.SpinRecord {
	c := *rec
	if rec.Outcome != nil {
		o := *rec.Outcome
		o.WaysWins = append([]model.WaysWin(nil), rec.Outcome.WaysWins...)
		c.Outcome = &o
	}
	return &c
}

func (s *Store) CreateSpin(_ context.Context, rec *model.SpinRecord) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.spins[rec.ID]; ok {
		return fmt.Errorf("spin %s already exists", rec.ID)
	}
	for _, other := range s.spins {
		if other.Player == rec.Player && other.SpinIndex == rec.SpinIndex {
			return fmt.Errorf("spin index %d already used: %w", rec.SpinIndex, common.ErrSpinIndexConflict)
		}
	}

	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now
	s.spins[rec.ID] = clone(rec)
	return nil
}

func (s *Store) UpdateSpin(_ context.Context, rec *model.SpinRecord) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.spins[rec.ID]; !ok {
		return common.ErrSpinNotFound
	}
	rec.UpdatedAt = time.Now().UTC()
	s.spins[rec.ID] = clone(rec)
	return nil
}

func (s *Store) GetSpin(_ context.Context, id string) (*model.SpinRecord, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	rec, ok := s.spins[id]
	if !ok {
		return nil, common.ErrSpinNotFound
	}
	return clone(rec), nil
}

func (s *Store) ListUnsettled(_ context.Context) ([]*model.SpinRecord, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var out []*model.SpinRecord
	for _, rec := range s.spins {
		if !rec.State.Terminal() {
			out = append(out, clone(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].SpinIndex < out[j].SpinIndex
	})
	return out, nil
}

func (s *Store) ListChildren(_ context.Context, parentID string) ([]*model.SpinRecord, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var out []*model.SpinRecord
	for _, rec := range s.spins {
		if rec.ParentID == parentID {
			out = append(out, clone(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SpinIndex < out[j].SpinIndex })
	return out, nil
}

func (s *Store) PendingBets(_ context.Context, player model.Address, mode model.Mode) (uint64, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var total uint64
	for _, rec := range s.spins {
		if rec.Player != player || rec.Mode != mode {
			continue
		}
		for _, st := range repository.PendingStates {
			if rec.State == st {
				total += rec.BetAmount
				break
			}
		}
	}
	return total, nil
}

func (s *Store) GetSpinIndex(_ context.Context, player model.Address) (uint64, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.indexes[player], nil
}

func (s *Store) AdvanceSpinIndex(_ context.Context, player model.Address, index uint64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if index <= s.indexes[player] {
		return common.ErrSpinIndexConflict
	}
	s.indexes[player] = index
	return nil
}

func (s *Store) Push(_ context.Context, ev model.Event) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.events[ev.Player] = append(s.events[ev.Player], ev)
	return nil
}

func (s *Store) Drain(_ context.Context, player model.Address, limit int) ([]model.Event, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	queue := s.events[player]
	if limit <= 0 || limit > len(queue) {
		limit = len(queue)
	}
	out := append([]model.Event(nil), queue[:limit]...)
	s.events[player] = queue[limit:]
	if len(s.events[player]) == 0 {
		delete(s.events, player)
	}
	return out, nil
}
