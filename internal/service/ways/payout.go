package ways

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"slot_backend/internal/common"
	"slot_backend/internal/model"
	servModel "slot_backend/internal/service/ways/model"
)

var bonusMultiplier = decimal.RequireFromString(servModel.BonusMultiplier)

// ValidateBet Проверка режима и ставки до коммита.
// Бонусный режим принимает только нулевую ставку, остальные только base или base+kicker.
func ValidateBet(params *model.MachineParameters, mode model.Mode, betAmount uint64) error {
	fail := func(err error) error {
		return &common.ModeValidationError{Mode: mode, BetAmount: betAmount, Err: err}
	}

	switch mode {
	case model.ModeBonus:
		if betAmount != 0 {
			return fail(common.ErrBonusBetNonZero)
		}
		return nil
	case model.ModeCredit, model.ModeNetwork, model.ModeToken:
		if !params.ModeEnabled(mode) {
			return fail(common.ErrModeDisabled)
		}
		if betAmount == 0 || !params.BetCosts.Get(mode).Allows(betAmount) {
			return fail(common.ErrInvalidBetAmount)
		}
		return nil
	}
	return fail(common.ErrUnknownMode)
}

// Scale Переводит кредиты в единицы расчета режима
func Scale(params *model.MachineParameters, mode model.Mode, betAmount, credits uint64) (decimal.Decimal, error) {
	c := fromUint64(credits)
	switch mode {
	case model.ModeBonus:
		return c.Mul(fromUint64(params.BonusReferenceBet)), nil
	case model.ModeCredit:
		return c, nil
	case model.ModeNetwork, model.ModeToken:
		return c.Mul(fromUint64(betAmount)), nil
	}
	return decimal.Zero, fmt.Errorf("scale %s: %w", mode, common.ErrUnknownMode)
}

// Settlement Итоговая сумма к выплате: floor(scaled * 1.5 при активном бонусе) + джекпот
func Settlement(params *model.MachineParameters, mode model.Mode, betAmount, credits uint64, bonusActive bool, jackpot uint64) (uint64, error) {
	scaled, err := Scale(params, mode, betAmount, credits)
	if err != nil {
		return 0, err
	}
	if bonusActive {
		scaled = scaled.Mul(bonusMultiplier)
	}
	total := scaled.Floor().Add(fromUint64(jackpot))
	return toUint64(total)
}

// WithinTolerance |a-b| <= tolerance
func WithinTolerance(a, b, tolerance uint64) bool {
	if a > b {
		return a-b <= tolerance
	}
	return b-a <= tolerance
}

func fromUint64(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}

func toUint64(d decimal.Decimal) (uint64, error) {
	bi := d.BigInt()
	if bi.Sign() < 0 || !bi.IsUint64() {
		return 0, fmt.Errorf("settlement %s overflows uint64", d.String())
	}
	return bi.Uint64(), nil
}
