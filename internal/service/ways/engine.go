// Package ways Движок расчета исхода спина 5x3 с выплатами ways-to-win.
// Все функции чистые: одинаковые сид, индекс и параметры дают одинаковый результат.
package ways

import (
	"context"
	"fmt"

	"slot_backend/internal/model"
)

// SpinInput Входные данные расчета
type SpinInput struct {
	Seed        [32]byte
	SpinIndex   uint64
	Mode        model.Mode
	BetAmount   uint64
	Params      *model.MachineParameters
	BonusActive bool // спин из бонусной цепочки
}

// Evaluate Считает исход целиком: поле, выигрыши, триггеры и сумму к выплате
func Evaluate(in SpinInput) (model.SpinOutcome, error) {
	if in.Params == nil {
		return model.SpinOutcome{}, fmt.Errorf("evaluate: nil machine parameters")
	}

	grid := GenerateGrid(in.Seed, in.SpinIndex)
	wins, total := EvaluateWays(grid, &in.Params.Paytable)
	trig := EvaluateTriggers(grid, in.Params.JackpotPools, in.Mode)

	// Множитель бонуса действует и на спин, который его запустил
	bonusActive := in.BonusActive || trig.BonusSpinsAwarded > 0

	expected, err := Settlement(in.Params, in.Mode, in.BetAmount, total, bonusActive, trig.JackpotAmount)
	if err != nil {
		return model.SpinOutcome{}, fmt.Errorf("evaluate spin %d: %w", in.SpinIndex, err)
	}

	return model.SpinOutcome{
		Grid:              grid,
		WaysWins:          wins,
		TotalPayout:       total,
		BonusSpinsAwarded: trig.BonusSpinsAwarded,
		BonusActive:       bonusActive,
		JackpotHit:        trig.JackpotHit,
		JackpotAmount:     trig.JackpotAmount,
		ExpectedPayout:    expected,
	}, nil
}

// Engine Реализация service.OutcomeEngine
type Engine struct{}

// NewEngine Создать движок
func NewEngine() *Engine {
	return &Engine{}
}

// Validate Проверка ставки до коммита
func (e *Engine) Validate(_ context.Context, params *model.MachineParameters, mode model.Mode, betAmount uint64) error {
	return ValidateBet(params, mode, betAmount)
}

// Outcome Расчет исхода по опубликованной случайности
func (e *Engine) Outcome(_ context.Context, in SpinInput) (model.SpinOutcome, error) {
	return Evaluate(in)
}
