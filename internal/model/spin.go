package model

import (
	"time"

	"slot_backend/pkg/betkey"
)

// SpinState Состояние жизненного цикла спина
type SpinState string

const (
	StateCommitted      SpinState = "committed"
	StateAwaitingReveal SpinState = "awaiting_reveal"
	StateRevealed       SpinState = "revealed"
	StateBonusChaining  SpinState = "bonus_chaining"
	StateSettled        SpinState = "settled"
	StateFailed         SpinState = "failed"
)

// Terminal Settled или Failed
func (s SpinState) Terminal() bool {
	return s == StateSettled || s == StateFailed
}

// CanTransition Разрешенные переходы автомата. В Failed можно из любого нетерминального состояния.
func (s SpinState) CanTransition(to SpinState) bool {
	if s.Terminal() {
		return false
	}
	if to == StateFailed {
		return true
	}
	switch s {
	case StateCommitted:
		return to == StateAwaitingReveal
	case StateAwaitingReveal:
		return to == StateRevealed
	case StateRevealed:
		return to == StateBonusChaining || to == StateSettled
	case StateBonusChaining:
		return to == StateSettled
	}
	return false
}

// WaysWin Выигрыш одного символа по схеме ways
type WaysWin struct {
	Symbol         Symbol `json:"symbol"`
	MatchLength    int    `json:"match_length"`
	Ways           uint64 `json:"ways"`
	WildMultiplier uint64 `json:"wild_multiplier"`
	Payout         uint64 `json:"payout"`
}

// SpinOutcome Результат спина. TotalPayout в кредитах, ExpectedPayout в единицах расчета режима.
type SpinOutcome struct {
	Grid              Grid      `json:"grid"`
	WaysWins          []WaysWin `json:"ways_wins"`
	TotalPayout       uint64    `json:"total_payout"`
	BonusSpinsAwarded int       `json:"bonus_spins_awarded"`
	BonusActive       bool      `json:"bonus_active"`
	JackpotHit        bool      `json:"jackpot_hit"`
	JackpotAmount     uint64    `json:"jackpot_amount"`
	ExpectedPayout    uint64    `json:"expected_payout"`

	// Заполняется после reveal
	AuthoritativePayout uint64 `json:"authoritative_payout"`
	Verified            bool   `json:"verified"`
}

// SpinRecord Сохраняемое состояние спина. Каждый переход автомата сохраняется,
// поэтому после рестарта процесс продолжает с последнего состояния.
type SpinRecord struct {
	ID       string
	ParentID string
	Player   Address

	Mode       Mode
	BetAmount  uint64
	Paylines   int
	BetPerLine uint64

	SpinIndex   uint64
	BetKey      betkey.Key
	CommitTxID  string
	CommitRound uint64
	TargetRound uint64

	State       SpinState
	Params      MachineParameters
	BonusActive bool
	Outcome     *SpinOutcome

	RevealSubmitted bool
	BonusRemaining  int
	BonusPlayed     int

	FailureCode   ErrorCode
	FailureReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsRoot Спин запрошен игроком, а не порожден бонусной цепочкой
func (r *SpinRecord) IsRoot() bool {
	return r.ParentID == ""
}

// SpinRequest Запрос на спин от игрока
type SpinRequest struct {
	SpinID     string
	Player     Address
	Mode       Mode
	BetAmount  uint64
	Paylines   int
	BetPerLine uint64
}

// SpinTicket Ответ на принятый коммит
type SpinTicket struct {
	SpinID string
	TxID   string
}
