package model

// Paytable Выплата в кредитах: Paytable[symbol][matchLength]
type Paytable [NumSymbols][MaxMatch + 1]uint64

// Pay Выплата за символ и длину совпадения, 0 если в таблице нет значения
func (p *Paytable) Pay(s Symbol, matchLength int) uint64 {
	if int(s) >= NumSymbols || matchLength < 0 || matchLength > MaxMatch {
		return 0
	}
	return p[s][matchLength]
}

// BetSchedule Допустимые ставки режима: Base и Base+Kicker
type BetSchedule struct {
	Base   uint64 `json:"base"`
	Kicker uint64 `json:"kicker"`
}

// Allows Ставка входит в набор {Base, Base+Kicker}
func (b BetSchedule) Allows(amount uint64) bool {
	return amount == b.Base || amount == b.Base+b.Kicker
}

// MachineParameters Снимок параметров автомата с леджера. Читается один раз на спин
// и передается по значению, кэша между спинами нет.
type MachineParameters struct {
	Paytable          Paytable
	BetCosts          PerMode[BetSchedule]
	JackpotPools      PerMode[uint64]
	EnabledModes      uint64
	BonusReferenceBet uint64
}

// ModeEnabled Проверка маски: bit0 credit, bit1 network, bit2 token. Бонусный режим всегда доступен.
func (p MachineParameters) ModeEnabled(m Mode) bool {
	if m == ModeBonus {
		return true
	}
	if !m.Valid() {
		return false
	}
	return p.EnabledModes&m.Wire() != 0
}
