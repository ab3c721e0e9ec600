package ways

import (
	"slot_backend/internal/model"
	servModel "slot_backend/internal/service/ways/model"
)

// Triggers Срабатывания бонуса и джекпота на поле
type Triggers struct {
	BonusSymbols      int
	JackpotSymbols    int
	BonusSpinsAwarded int
	JackpotHit        bool
	JackpotAmount     uint64
}

// EvaluateTriggers Проверяет бонус и джекпот. Оба считаются по всему полю,
// не зависят от выигрышей ways и могут сработать одновременно.
// Джекпот платит пул режима, действовавшего на момент коммита.
func EvaluateTriggers(grid model.Grid, pools model.PerMode[uint64], mode model.Mode) Triggers {
	t := Triggers{
		BonusSymbols:   grid.Count(model.Bonus),
		JackpotSymbols: grid.Count(model.Jackpot),
	}

	if t.BonusSymbols >= servModel.BonusTriggerCount {
		t.BonusSpinsAwarded = servModel.BonusSpinsAwarded
	}

	if t.JackpotSymbols >= servModel.JackpotTriggerCount {
		t.JackpotHit = true
		t.JackpotAmount = pools.Get(mode)
	}

	return t
}
