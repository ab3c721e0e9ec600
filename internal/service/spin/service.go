// Package spin Контроллер жизненного цикла спина.
// Каждый переход автомата сохраняется, очередь воркеров двигает спины по шагам,
// поэтому после рестарта спин продолжается с последнего сохраненного состояния.
package spin

import (
	"context"
	"sync"
	"time"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	log "github.com/sirupsen/logrus"

	"slot_backend/internal/config"
	"slot_backend/internal/ledger"
	"slot_backend/internal/model"
	"slot_backend/internal/repository"
	"slot_backend/internal/service"
)

type serv struct {
	ledger     ledger.Ledger
	engine     service.OutcomeEngine
	spinRepo   repository.SpinRepository
	playerRepo repository.PlayerRepository
	eventRepo  repository.EventRepository
	txManager  trm.Manager
	cfg        config.SpinConfig

	sessions *sessions
	queue    *queue

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Deps Зависимости контроллера
type Deps struct {
	Ledger     ledger.Ledger
	Engine     service.OutcomeEngine
	SpinRepo   repository.SpinRepository
	PlayerRepo repository.PlayerRepository
	EventRepo  repository.EventRepository
	TxManager  trm.Manager
	Config     config.SpinConfig
}

// NewSpinService Создать контроллер. Воркеры запускаются через Start.
func NewSpinService(deps Deps) service.SpinService {
	return &serv{
		ledger:     deps.Ledger,
		engine:     deps.Engine,
		spinRepo:   deps.SpinRepo,
		playerRepo: deps.PlayerRepo,
		eventRepo:  deps.EventRepo,
		txManager:  deps.TxManager,
		cfg:        deps.Config,
		sessions:   newSessions(deps.Config.MinSpinInterval()),
		queue:      newQueue(deps.Config.QueueSize()),
	}
}

// Start Запускает воркеры очереди
func (s *serv) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	for i := 0; i < s.cfg.Workers(); i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.worker(ctx)
		}()
	}
	log.WithField("workers", s.cfg.Workers()).Info("spin workers started")
}

// Stop Останавливает воркеры. Незавершенные спины остаются в сохраненном состоянии.
func (s *serv) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	log.Info("spin workers stopped")
}

func (s *serv) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-s.queue.ch:
			s.process(ctx, id)
			s.queue.done(id)
		}
	}
}

// Resume Ставит в очередь все незавершенные корневые спины и помечает их игроков занятыми.
// Бонусные спины продолжает корневой спин своей цепочки.
func (s *serv) Resume(ctx context.Context) (int, error) {
	recs, err := s.spinRepo.ListUnsettled(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, rec := range recs {
		if !rec.IsRoot() {
			continue
		}
		queued, full := s.queue.push(rec.ID)
		if !queued && !full {
			// спин уже у воркера, слот игрока держит он
			continue
		}
		if queued {
			n++
		}
		s.sessions.markBusy(rec.Player, rec.ID, rec.State)

		// воркер мог довести спин до конца раньше markBusy
		cur, err := s.spinRepo.GetSpin(ctx, rec.ID)
		if err != nil {
			log.WithField("spin_id", rec.ID).WithError(err).Warn("resume: reload spin")
			continue
		}
		if cur.State.Terminal() {
			s.sessions.release(rec.Player, rec.ID)
		}
	}
	if n > 0 {
		log.WithField("spins", n).Info("resumed unsettled spins")
	}
	return n, nil
}

// Busy Проверка слота игрока без расхода лимита
func (s *serv) Busy(player model.Address) error {
	return s.sessions.busy(player)
}

// PruneSessions Удаляет простаивающие сессии игроков
func (s *serv) PruneSessions(now time.Time) int {
	return s.sessions.prune(now, s.cfg.SessionIdleTTL())
}
