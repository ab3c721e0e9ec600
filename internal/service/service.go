package service

import (
	"context"
	"time"

	"slot_backend/internal/model"
	"slot_backend/internal/service/ways"
)

// OutcomeEngine Расчет исхода спина
type OutcomeEngine interface {
	Validate(ctx context.Context, params *model.MachineParameters, mode model.Mode, betAmount uint64) error
	Outcome(ctx context.Context, in ways.SpinInput) (model.SpinOutcome, error)
}

// SpinService Жизненный цикл спина: коммит, ожидание случайности, reveal, бонусная цепочка
type SpinService interface {
	Start(ctx context.Context)
	Stop()

	Spin(ctx context.Context, req model.SpinRequest) (*model.SpinTicket, error)
	// Busy ErrSpinInFlight или ErrBonusInProgress, если у игрока уже есть спин в полете
	Busy(player model.Address) error
	Resume(ctx context.Context) (int, error)
	PruneSessions(now time.Time) int
}

// GameService Семантика протокола презентации
type GameService interface {
	Init(ctx context.Context, player model.Address, contractID string) (*model.GameInfo, error)
	Config(ctx context.Context, player model.Address) (*model.GameInfo, error)
	Balance(ctx context.Context, player model.Address) (*model.BalanceInfo, error)
	Spin(ctx context.Context, player model.Address, req model.PlayRequest) (*model.SpinTicket, error)
	Events(ctx context.Context, player model.Address) ([]model.Event, error)
}
