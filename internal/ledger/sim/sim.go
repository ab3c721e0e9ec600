// Package sim Леджер в памяти процесса. Ведет раунды, публикует случайность,
// держит балансы, бонусные спины и джекпот-пулы и считает выплату тем же движком, что и сервис.
package sim

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"slot_backend/internal/ledger"
	"slot_backend/internal/model"
	"slot_backend/internal/service/ways"
	"slot_backend/pkg/betkey"
	"slot_backend/pkg/seedrng"
)

// Beacon Источник случайности раунда
type Beacon func(round uint64) [32]byte

type bet struct {
	key         betkey.Key
	mode        model.Mode
	commitRound uint64
	params      model.MachineParameters
	claimed     bool
	payout      uint64
}

type account struct {
	balances       map[model.Mode]uint64
	held           map[model.Mode]uint64
	bonusAllowance uint64
	lastIndex      uint64
	hasIndex       bool
}

// Ledger Реализация ledger.Ledger в памяти
type Ledger struct {
	mu sync.Mutex

	round  uint64
	beacon Beacon

	params       model.MachineParameters
	initialPools model.PerMode[uint64]
	contribution uint64
	startCredits uint64

	bets     map[[betkey.Size]byte]*bet
	accounts map[model.Address]*account
	txSeq    uint64
}

// Option Настройка симулятора
type Option func(*Ledger)

// WithBeacon Задать источник случайности
func WithBeacon(b Beacon) Option {
	return func(l *Ledger) { l.beacon = b }
}

// WithJackpotContribution Сколько добавляется в пул режима с каждой платной ставки
func WithJackpotContribution(v uint64) Option {
	return func(l *Ledger) { l.contribution = v }
}

// WithStartingCredits Начальный баланс режима Credit для каждого нового игрока
func WithStartingCredits(v uint64) Option {
	return func(l *Ledger) { l.startCredits = v }
}

// WithStartRound Начальный раунд
func WithStartRound(r uint64) Option {
	return func(l *Ledger) { l.round = r }
}

// DefaultBeacon Детерминированная случайность раунда
func DefaultBeacon(round uint64) [32]byte {
	var genesis [32]byte
	copy(genesis[:], "slot-backend-sim-beacon")
	return seedrng.Derive(genesis, round)
}

// New Создать симулятор с параметрами автомата
func New(params model.MachineParameters, opts ...Option) *Ledger {
	l := &Ledger{
		beacon:       DefaultBeacon,
		params:       params,
		initialPools: params.JackpotPools,
		bets:         make(map[[betkey.Size]byte]*bet),
		accounts:     make(map[model.Address]*account),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) account(player model.Address) *account {
	acc, ok := l.accounts[player]
	if !ok {
		acc = &account{
			balances: make(map[model.Mode]uint64),
			held:     make(map[model.Mode]uint64),
		}
		if l.startCredits > 0 {
			acc.balances[model.ModeCredit] = l.startCredits
		}
		l.accounts[player] = acc
	}
	return acc
}

// Deposit Пополнить баланс игрока
func (l *Ledger) Deposit(player model.Address, mode model.Mode, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc := l.account(player)
	if mode == model.ModeBonus {
		acc.bonusAllowance += amount
		return
	}
	acc.balances[mode] += amount
}

// Round Текущий раунд
func (l *Ledger) Round() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.round
}

// Advance Продвинуть раунд на n
func (l *Ledger) Advance(n uint64) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.round += n
	return l.round
}

// Run Продвигать раунды по таймеру до отмены контекста
func (l *Ledger) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r := l.Advance(1)
			log.WithField("round", r).Trace("sim ledger round")
		}
	}
}

// SubmitCommit Принять ставку. Платная ставка холдируется до reveal, бонусная списывает один бонусный спин.
func (l *Ledger) SubmitCommit(ctx context.Context, player model.Address, mode model.Mode, betAmount, spinIndex uint64) (ledger.CommitReceipt, error) {
	if err := ctx.Err(); err != nil {
		return ledger.CommitReceipt{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ways.ValidateBet(&l.params, mode, betAmount); err != nil {
		return ledger.CommitReceipt{}, fmt.Errorf("%w: %v", ledger.ErrInvalidBetAmount, err)
	}

	acc := l.account(player)
	if acc.hasIndex && spinIndex <= acc.lastIndex {
		return ledger.CommitReceipt{}, ledger.ErrDuplicateBet
	}

	key := betkey.Key{Address: player, BetAmount: betAmount, SpinIndex: spinIndex, Mode: mode.Wire()}
	enc := key.Encode()
	if _, ok := l.bets[enc]; ok {
		return ledger.CommitReceipt{}, ledger.ErrDuplicateBet
	}

	switch mode {
	case model.ModeBonus:
		if acc.bonusAllowance == 0 {
			return ledger.CommitReceipt{}, ledger.ErrInsufficientFunds
		}
		acc.bonusAllowance--
	case model.ModeCredit, model.ModeNetwork, model.ModeToken:
		if acc.balances[mode]-acc.held[mode] < betAmount {
			return ledger.CommitReceipt{}, ledger.ErrInsufficientFunds
		}
		acc.held[mode] += betAmount
	}

	// Пул фиксируется на момент коммита, взнос идет в пул уже после
	snapshot := l.params
	if mode != model.ModeBonus {
		l.addToPool(mode, l.contribution)
	}

	acc.lastIndex, acc.hasIndex = spinIndex, true
	l.bets[enc] = &bet{key: key, mode: mode, commitRound: l.round, params: snapshot}
	l.txSeq++

	pools := snapshot.JackpotPools
	return ledger.CommitReceipt{
		BetKey:       key,
		CommitRound:  l.round,
		TxID:         fmt.Sprintf("sim-%d", l.txSeq),
		JackpotPools: &pools,
	}, nil
}

// ReadRandomness Случайность раунда, если он уже наступил
func (l *Ledger) ReadRandomness(ctx context.Context, round uint64) ([32]byte, error) {
	if err := ctx.Err(); err != nil {
		return [32]byte{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if round > l.round {
		return [32]byte{}, ledger.ErrRandomnessUnavailable
	}
	return l.beacon(round), nil
}

// SubmitReveal Рассчитать и выплатить ставку
func (l *Ledger) SubmitReveal(ctx context.Context, key betkey.Key) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.bets[key.Encode()]
	if !ok {
		return 0, ledger.ErrUnknownBet
	}
	if b.claimed {
		return 0, ledger.ErrAlreadyClaimed
	}
	target := b.commitRound + ledger.RevealDelayRounds
	if l.round < target {
		return 0, ledger.ErrNotYetRevealable
	}

	out, err := ways.Evaluate(ways.SpinInput{
		Seed:        l.beacon(target),
		SpinIndex:   key.SpinIndex,
		Mode:        b.mode,
		BetAmount:   key.BetAmount,
		Params:      &b.params,
		BonusActive: b.mode == model.ModeBonus,
	})
	if err != nil {
		return 0, err
	}

	acc := l.account(key.Address)
	switch b.mode {
	case model.ModeBonus:
		acc.balances[model.ModeCredit] += out.ExpectedPayout
	case model.ModeCredit, model.ModeNetwork, model.ModeToken:
		acc.held[b.mode] -= key.BetAmount
		acc.balances[b.mode] = acc.balances[b.mode] - key.BetAmount + out.ExpectedPayout
	}

	acc.bonusAllowance += uint64(out.BonusSpinsAwarded)
	if out.JackpotHit {
		l.resetPool(b.mode)
	}

	b.claimed = true
	b.payout = out.ExpectedPayout

	log.WithFields(log.Fields{
		"player":     model.Address(key.Address).String(),
		"spin_index": key.SpinIndex,
		"mode":       b.mode.String(),
		"payout":     out.ExpectedPayout,
	}).Debug("sim ledger reveal")

	return out.ExpectedPayout, nil
}

// RevealedPayout Выплата по уже раскрытой ставке
func (l *Ledger) RevealedPayout(ctx context.Context, key betkey.Key) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.bets[key.Encode()]
	if !ok {
		return 0, ledger.ErrUnknownBet
	}
	if !b.claimed {
		return 0, ledger.ErrNotRevealed
	}
	return b.payout, nil
}

// MachineParameters Текущие параметры вместе с пулами
func (l *Ledger) MachineParameters(ctx context.Context) (model.MachineParameters, error) {
	if err := ctx.Err(); err != nil {
		return model.MachineParameters{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.params, nil
}

// Balance Баланс режима. Для бонусного режима это число оставшихся бонусных спинов.
// Холд по незакрытым ставкам не вычитается.
func (l *Ledger) Balance(ctx context.Context, player model.Address, mode model.Mode) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acc := l.account(player)
	if mode == model.ModeBonus {
		return acc.bonusAllowance, nil
	}
	return acc.balances[mode], nil
}

func (l *Ledger) addToPool(mode model.Mode, v uint64) {
	switch mode {
	case model.ModeBonus:
		l.params.JackpotPools.Bonus += v
	case model.ModeCredit:
		l.params.JackpotPools.Credit += v
	case model.ModeNetwork:
		l.params.JackpotPools.Network += v
	case model.ModeToken:
		l.params.JackpotPools.Token += v
	}
}

func (l *Ledger) resetPool(mode model.Mode) {
	switch mode {
	case model.ModeBonus:
		l.params.JackpotPools.Bonus = l.initialPools.Bonus
	case model.ModeCredit:
		l.params.JackpotPools.Credit = l.initialPools.Credit
	case model.ModeNetwork:
		l.params.JackpotPools.Network = l.initialPools.Network
	case model.ModeToken:
		l.params.JackpotPools.Token = l.initialPools.Token
	}
}

// SeedFromUint64 Сид раунда из числа, удобно для тестов
func SeedFromUint64(v uint64) [32]byte {
	var s [32]byte
	binary.BigEndian.PutUint64(s[24:], v)
	return s
}

var _ ledger.Ledger = (*Ledger)(nil)
