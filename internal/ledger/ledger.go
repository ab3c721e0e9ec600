// Package ledger Интерфейс внешнего леджера: коммит ставки, публикация случайности,
// reveal с авторитетной выплатой, параметры автомата и балансы.
package ledger

import (
	"context"
	"errors"

	"slot_backend/internal/model"
	"slot_backend/pkg/betkey"
)

// RevealDelayRounds Через сколько раундов после коммита публикуется случайность для ставки
const RevealDelayRounds = 2

var (
	// ErrInsufficientFunds не хватает средств или бонусных спинов
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")
	// ErrInvalidBetAmount леджер не принял сумму ставки
	ErrInvalidBetAmount = errors.New("ledger: invalid bet amount")
	// ErrDuplicateBet ставка с таким индексом уже есть
	ErrDuplicateBet = errors.New("ledger: duplicate bet")
	// ErrRandomnessUnavailable случайность раунда еще не опубликована
	ErrRandomnessUnavailable = errors.New("ledger: randomness unavailable")
	// ErrAlreadyClaimed reveal по ставке уже был
	ErrAlreadyClaimed = errors.New("ledger: bet already claimed")
	// ErrNotYetRevealable целевой раунд еще не наступил
	ErrNotYetRevealable = errors.New("ledger: bet not yet revealable")
	// ErrNotRevealed выплата по ставке еще не зафиксирована
	ErrNotRevealed = errors.New("ledger: bet not revealed")
	// ErrUnknownBet ставка не найдена
	ErrUnknownBet = errors.New("ledger: unknown bet")
	// ErrUnavailable леджер недоступен
	ErrUnavailable = errors.New("ledger: unavailable")
	// ErrBadRequest запрос к леджеру некорректен
	ErrBadRequest = errors.New("ledger: bad request")
	// ErrInvalidParams параметры автомата не прошли строгую проверку
	ErrInvalidParams = errors.New("ledger: invalid machine parameters")
)

// CommitReceipt Результат коммита. JackpotPools - пулы, зафиксированные леджером в момент коммита,
// nil если леджер их не вернул.
type CommitReceipt struct {
	BetKey       betkey.Key
	CommitRound  uint64
	TxID         string
	JackpotPools *model.PerMode[uint64]
}

// TargetRound Раунд, случайность которого определяет исход ставки
func (r CommitReceipt) TargetRound() uint64 {
	return r.CommitRound + RevealDelayRounds
}

// Ledger Внешний леджер
type Ledger interface {
	SubmitCommit(ctx context.Context, player model.Address, mode model.Mode, betAmount, spinIndex uint64) (CommitReceipt, error)
	ReadRandomness(ctx context.Context, round uint64) ([32]byte, error)
	SubmitReveal(ctx context.Context, key betkey.Key) (uint64, error)

	MachineParameters(ctx context.Context) (model.MachineParameters, error)
	Balance(ctx context.Context, player model.Address, mode model.Mode) (uint64, error)
	RevealedPayout(ctx context.Context, key betkey.Key) (uint64, error)
}

// Retryable Ошибка временная, операцию можно повторить
func Retryable(err error) bool {
	return errors.Is(err, ErrRandomnessUnavailable) ||
		errors.Is(err, ErrNotYetRevealable) ||
		errors.Is(err, ErrUnavailable)
}
