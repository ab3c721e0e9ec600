package common

import (
	"context"
	"errors"

	"slot_backend/internal/ledger"
	"slot_backend/internal/model"
)

var classes = []struct {
	code        model.ErrorCode
	recoverable bool
	errs        []error
}{
	{model.CodeNotInitialized, true, []error{ErrNotInitialized}},
	{model.CodeUnauthorizedOrigin, false, []error{ErrUnauthorizedOrigin}},
	{model.CodeAlreadySpinning, true, []error{ErrSpinInFlight, ErrBonusInProgress}},
	{model.CodeRateLimit, true, []error{ErrRateLimited}},
	{model.CodeInsufficientBalance, false, []error{ErrInsufficientBalance, ledger.ErrInsufficientFunds}},
	{model.CodeInvalidRequest, false, []error{
		ErrInvalidRequest, ErrInvalidBetAmount, ErrBonusBetNonZero, ErrModeDisabled, ErrUnknownMode,
		ledger.ErrInvalidBetAmount, ledger.ErrBadRequest,
	}},
	{model.CodeSpinFailed, false, []error{
		ErrPayoutMismatch, ErrSpinIndexConflict, ErrSpinNotFound,
		ledger.ErrDuplicateBet, ledger.ErrAlreadyClaimed, ledger.ErrUnknownBet, ledger.ErrInvalidParams,
	}},
	{model.CodeNetworkError, true, []error{
		ErrRetriesExhausted, ledger.ErrRandomnessUnavailable, ledger.ErrNotYetRevealable,
		ledger.ErrNotRevealed, ledger.ErrUnavailable, context.DeadlineExceeded,
	}},
}

// Classify Код протокола и признак recoverable для ошибки. Неизвестные ошибки считаются провалом спина.
func Classify(err error) (model.ErrorCode, bool) {
	var mve *ModeValidationError
	if errors.As(err, &mve) {
		return model.CodeInvalidRequest, false
	}
	for _, c := range classes {
		for _, target := range c.errs {
			if errors.Is(err, target) {
				return c.code, c.recoverable
			}
		}
	}
	return model.CodeSpinFailed, false
}
