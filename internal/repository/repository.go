package repository

import (
	"context"

	"slot_backend/internal/model"
)

// SpinRepository Хранилище записей спинов. Каждое изменение состояния автомата сохраняется через UpdateSpin.
type SpinRepository interface {
	CreateSpin(ctx context.Context, rec *model.SpinRecord) error
	UpdateSpin(ctx context.Context, rec *model.SpinRecord) error
	GetSpin(ctx context.Context, id string) (*model.SpinRecord, error)

	// ListUnsettled Все нетерминальные спины, по возрастанию времени создания
	ListUnsettled(ctx context.Context) ([]*model.SpinRecord, error)
	// ListChildren Бонусные спины цепочки по возрастанию индекса
	ListChildren(ctx context.Context, parentID string) ([]*model.SpinRecord, error)
	// PendingBets Сумма ставок режима, по которым еще не было reveal
	PendingBets(ctx context.Context, player model.Address, mode model.Mode) (uint64, error)
}

// PlayerRepository Индекс спинов игрока
type PlayerRepository interface {
	GetSpinIndex(ctx context.Context, player model.Address) (uint64, error)
	// AdvanceSpinIndex Новый индекс должен быть строго больше текущего, иначе common.ErrSpinIndexConflict
	AdvanceSpinIndex(ctx context.Context, player model.Address, index uint64) error
}

// EventRepository Очередь сообщений презентации для игрока
type EventRepository interface {
	Push(ctx context.Context, ev model.Event) error
	Drain(ctx context.Context, player model.Address, limit int) ([]model.Event, error)
}

// PendingStates Состояния, в которых ставка еще удерживается леджером
var PendingStates = []model.SpinState{
	model.StateCommitted,
	model.StateAwaitingReveal,
	model.StateRevealed,
}

// UnsettledStates Нетерминальные состояния
var UnsettledStates = []model.SpinState{
	model.StateCommitted,
	model.StateAwaitingReveal,
	model.StateRevealed,
	model.StateBonusChaining,
}
