// Package common — errors.go определяет ошибки, общие для всех слоев сервиса.
// По ним обработчики понимают тип проблемы и выбирают код ответа.
package common

import (
	"errors"
	"fmt"

	"slot_backend/internal/model"
)

// Ошибки валидации ставки (локальные, без повторов)
var (
	// ErrInvalidBetAmount ставка не входит в набор {base, base+kicker} режима
	ErrInvalidBetAmount = errors.New("invalid bet amount")
	// ErrBonusBetNonZero в бонусном режиме ставка должна быть нулевой
	ErrBonusBetNonZero = errors.New("bonus mode requires zero bet amount")
	// ErrModeDisabled режим выключен в параметрах автомата
	ErrModeDisabled = errors.New("mode disabled")
	// ErrUnknownMode режим вне закрытого набора
	ErrUnknownMode = errors.New("unknown mode")
)

// Ошибки жизненного цикла спина
var (
	// ErrSpinInFlight у игрока уже есть незавершенный спин
	ErrSpinInFlight = errors.New("spin already in flight")
	// ErrBonusInProgress идет цепочка бонусных спинов
	ErrBonusInProgress = errors.New("bonus processing in progress")
	// ErrRateLimited запрос раньше минимального интервала между спинами
	ErrRateLimited = errors.New("spin requested too soon")
	// ErrPayoutMismatch локальный расчет не совпал с выплатой леджера
	ErrPayoutMismatch = errors.New("payout mismatch")
	// ErrRetriesExhausted временная ошибка не ушла за все попытки
	ErrRetriesExhausted = errors.New("retries exhausted")
	// ErrSpinNotFound спин не найден
	ErrSpinNotFound = errors.New("spin not found")
	// ErrSpinIndexConflict индекс спина не больше текущего
	ErrSpinIndexConflict = errors.New("spin index must increase")
)

// Ошибки протокола презентации
var (
	// ErrNotInitialized сессия не прошла INIT
	ErrNotInitialized = errors.New("session not initialized")
	// ErrInvalidRequest некорректное сообщение
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorizedOrigin origin не в списке разрешенных
	ErrUnauthorizedOrigin = errors.New("unauthorized origin")
	// ErrInsufficientBalance доступного баланса не хватает на ставку
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// ModeValidationError Комбинация режима и ставки недопустима. Отклоняется до коммита.
type ModeValidationError struct {
	Mode      model.Mode
	BetAmount uint64
	Err       error
}

func (e *ModeValidationError) Error() string {
	return fmt.Sprintf("mode validation: %s bet %d: %v", e.Mode, e.BetAmount, e.Err)
}

func (e *ModeValidationError) Unwrap() error {
	return e.Err
}
