package spin

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v5"
	log "github.com/sirupsen/logrus"

	"slot_backend/internal/common"
	"slot_backend/internal/ledger"
	"slot_backend/internal/model"
	"slot_backend/internal/service/ways"
)

// stalledError Временная ошибка не ушла за все попытки. Спин остается в текущем состоянии до Resume.
type stalledError struct {
	err error
}

func (e *stalledError) Error() string {
	return e.err.Error()
}

func (e *stalledError) Unwrap() error {
	return e.err
}

func stalled(err error) error {
	return &stalledError{err: fmt.Errorf("%w: %w", common.ErrRetriesExhausted, err)}
}

func wrapTransient(err error) error {
	if ledger.Retryable(err) {
		return stalled(err)
	}
	return err
}

// process Обработка корневого спина из очереди
func (s *serv) process(ctx context.Context, id string) {
	rec, err := s.spinRepo.GetSpin(ctx, id)
	if err != nil {
		log.WithField("spin_id", id).WithError(err).Error("load spin")
		return
	}

	if rec.State.Terminal() {
		s.sessions.release(rec.Player, rec.ID)
		return
	}

	err = s.drive(ctx, rec)

	var st *stalledError
	switch {
	case err == nil:
	case errors.As(err, &st):
		log.WithFields(spinFields(rec)).WithError(err).Warn("spin stalled, waiting for resume")
		s.publishError(ctx, rec, err)
		return
	case ctx.Err() != nil:
		// остановка сервиса, спин продолжит Resume
		return
	default:
		log.WithFields(spinFields(rec)).WithError(err).Error("spin processing failed")
		return
	}

	if rec.State.Terminal() {
		s.publishBalance(ctx, rec)
		s.sessions.release(rec.Player, rec.ID)
	}
}

// drive Двигает спин по шагам до терминального состояния
func (s *serv) drive(ctx context.Context, rec *model.SpinRecord) error {
	for !rec.State.Terminal() {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch rec.State {
		case model.StateCommitted:
			err = s.transition(ctx, rec, model.StateAwaitingReveal, nil)
		case model.StateAwaitingReveal:
			err = s.awaitReveal(ctx, rec)
		case model.StateRevealed:
			err = s.reveal(ctx, rec)
		case model.StateBonusChaining:
			err = s.chain(ctx, rec)
		default:
			err = fmt.Errorf("unknown state %q", rec.State)
		}

		if err == nil {
			continue
		}
		var st *stalledError
		if errors.As(err, &st) || ctx.Err() != nil {
			return err
		}
		if ferr := s.fail(ctx, rec, err); ferr != nil {
			return ferr
		}
	}
	return nil
}

// awaitReveal Ждет случайность целевого раунда и считает исход локально до reveal
func (s *serv) awaitReveal(ctx context.Context, rec *model.SpinRecord) error {
	seed, err := backoff.Retry(ctx, func() ([32]byte, error) {
		seed, err := s.ledger.ReadRandomness(ctx, rec.TargetRound)
		if err != nil && !ledger.Retryable(err) {
			return seed, backoff.Permanent(err)
		}
		return seed, err
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(s.cfg.PollInterval())),
		backoff.WithMaxTries(s.cfg.PollAttempts()),
	)
	if err != nil {
		if ledger.Retryable(err) {
			return stalled(err)
		}
		return err
	}

	outcome, err := s.engine.Outcome(ctx, ways.SpinInput{
		Seed:        seed,
		SpinIndex:   rec.SpinIndex,
		Mode:        rec.Mode,
		BetAmount:   rec.BetAmount,
		Params:      &rec.Params,
		BonusActive: rec.BonusActive,
	})
	if err != nil {
		return err
	}

	rec.Outcome = &outcome
	return s.transition(ctx, rec, model.StateRevealed, s.outcomeEvent(rec))
}

// reveal Отправляет reveal и сверяет авторитетную выплату с локальной.
// Флаг revealSubmitted сохраняется до отправки: если ответ потерялся, выплату забираем через RevealedPayout.
func (s *serv) reveal(ctx context.Context, rec *model.SpinRecord) error {
	sentBefore := rec.RevealSubmitted
	if !sentBefore {
		rec.RevealSubmitted = true
		if err := s.spinRepo.UpdateSpin(ctx, rec); err != nil {
			return stalled(err)
		}
	}

	attempt := 0
	payout, err := backoff.Retry(ctx, func() (uint64, error) {
		attempt++
		payout, err := s.ledger.SubmitReveal(ctx, rec.BetKey)
		switch {
		case err == nil:
			return payout, nil
		case errors.Is(err, ledger.ErrAlreadyClaimed):
			if !sentBefore && attempt == 1 {
				return 0, backoff.Permanent(err)
			}
			payout, err = s.ledger.RevealedPayout(ctx, rec.BetKey)
			if err != nil && !ledger.Retryable(err) {
				return 0, backoff.Permanent(err)
			}
			return payout, err
		case ledger.Retryable(err):
			return 0, err
		}
		return 0, backoff.Permanent(err)
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(s.cfg.RevealInterval())),
		backoff.WithMaxTries(s.cfg.RevealAttempts()),
	)
	if err != nil {
		if ledger.Retryable(err) {
			return stalled(err)
		}
		return err
	}

	out := rec.Outcome
	out.AuthoritativePayout = payout
	if !ways.WithinTolerance(out.ExpectedPayout, payout, s.cfg.PayoutTolerance()) {
		log.WithFields(spinFields(rec)).WithFields(log.Fields{
			"expected":      out.ExpectedPayout,
			"authoritative": payout,
		}).Error("payout mismatch")
		return fmt.Errorf("%w: local %d, ledger %d", common.ErrPayoutMismatch, out.ExpectedPayout, payout)
	}
	out.Verified = true

	if rec.IsRoot() && out.BonusSpinsAwarded > 0 {
		rec.BonusRemaining = min(out.BonusSpinsAwarded, s.cfg.MaxChainedSpins())
		rec.BonusPlayed = 0
		s.sessions.chaining(rec.Player)
		return s.transition(ctx, rec, model.StateBonusChaining, nil)
	}
	return s.transition(ctx, rec, model.StateSettled, nil)
}

// transition Сохраняет переход вместе с событием для игрока
func (s *serv) transition(ctx context.Context, rec *model.SpinRecord, to model.SpinState, ev *model.Event) error {
	if !rec.State.CanTransition(to) {
		return fmt.Errorf("transition %s -> %s not allowed", rec.State, to)
	}

	from := rec.State
	rec.State = to
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.spinRepo.UpdateSpin(txCtx, rec); err != nil {
			return err
		}
		if ev != nil {
			return s.eventRepo.Push(txCtx, *ev)
		}
		return nil
	})
	if err != nil {
		rec.State = from
		return stalled(err)
	}

	log.WithFields(spinFields(rec)).WithField("from", from).Debug("spin transition")
	return nil
}

// fail Переводит спин в Failed. Ошибка уходит игроку как невосстановимая.
func (s *serv) fail(ctx context.Context, rec *model.SpinRecord, cause error) error {
	code, _ := common.Classify(cause)
	if code != model.CodeSpinFailed && code != model.CodeInsufficientBalance && code != model.CodeInvalidRequest {
		code = model.CodeSpinFailed
	}
	rec.FailureCode = code
	rec.FailureReason = cause.Error()

	log.WithFields(spinFields(rec)).WithError(cause).Warn("spin failed")

	return s.transition(ctx, rec, model.StateFailed, &model.Event{
		Kind:        model.EventError,
		Player:      rec.Player,
		SpinID:      rec.ID,
		Code:        code,
		Message:     cause.Error(),
		Recoverable: false,
	})
}

func (s *serv) outcomeEvent(rec *model.SpinRecord) *model.Event {
	return &model.Event{
		Kind:       model.EventOutcome,
		Player:     rec.Player,
		SpinID:     rec.ID,
		Outcome:    rec.Outcome,
		Mode:       rec.Mode,
		Paylines:   rec.Paylines,
		BetPerLine: rec.BetPerLine,
		TotalBet:   rec.BetAmount,
	}
}

func (s *serv) publishError(ctx context.Context, rec *model.SpinRecord, cause error) {
	code, recoverable := common.Classify(cause)
	err := s.eventRepo.Push(ctx, model.Event{
		Kind:        model.EventError,
		Player:      rec.Player,
		SpinID:      rec.ID,
		Code:        code,
		Message:     cause.Error(),
		Recoverable: recoverable,
	})
	if err != nil {
		log.WithFields(spinFields(rec)).WithError(err).Error("publish error event")
	}
}

func (s *serv) publishBalance(ctx context.Context, rec *model.SpinRecord) {
	balance, err := s.ledger.Balance(ctx, rec.Player, rec.Mode)
	if err != nil {
		log.WithFields(spinFields(rec)).WithError(err).Warn("read balance after settlement")
		return
	}
	pending, err := s.spinRepo.PendingBets(ctx, rec.Player, rec.Mode)
	if err != nil {
		log.WithFields(spinFields(rec)).WithError(err).Warn("read pending bets")
		return
	}

	var available uint64
	if balance > pending {
		available = balance - pending
	}

	err = s.eventRepo.Push(ctx, model.Event{
		Kind:             model.EventBalance,
		Player:           rec.Player,
		SpinID:           rec.ID,
		Mode:             rec.Mode,
		Balance:          balance,
		AvailableBalance: available,
	})
	if err != nil {
		log.WithFields(spinFields(rec)).WithError(err).Error("publish balance event")
	}
}

func spinFields(rec *model.SpinRecord) log.Fields {
	f := log.Fields{
		"spin_id": rec.ID,
		"player":  rec.Player.String(),
		"state":   string(rec.State),
	}
	if !rec.IsRoot() {
		f["parent_id"] = rec.ParentID
	}
	return f
}
