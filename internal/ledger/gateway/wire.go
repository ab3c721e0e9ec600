// Package gateway HTTP-доступ к леджеру: клиент для сервиса и обработчик,
// который выставляет любую реализацию ledger.Ledger по тому же протоколу.
package gateway

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"slot_backend/internal/ledger"
	"slot_backend/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type commitRequest struct {
	Player    string `json:"player"`
	Mode      string `json:"mode"`
	BetAmount uint64 `json:"bet_amount"`
	SpinIndex uint64 `json:"spin_index"`
}

type commitResponse struct {
	BetKey       string                 `json:"bet_key"`
	CommitRound  uint64                 `json:"commit_round"`
	TxID         string                 `json:"tx_id"`
	JackpotPools *model.PerMode[uint64] `json:"jackpot_pools,omitempty"`
}

type randomnessResponse struct {
	Round uint64 `json:"round"`
	Seed  string `json:"seed"`
}

type revealRequest struct {
	BetKey string `json:"bet_key"`
}

type payoutResponse struct {
	Payout uint64 `json:"payout"`
}

type balanceResponse struct {
	Balance uint64 `json:"balance"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Коды ошибок протокола и их HTTP статусы
var wireErrors = []struct {
	code   string
	status int
	err    error
}{
	{"insufficient_funds", http.StatusPaymentRequired, ledger.ErrInsufficientFunds},
	{"invalid_bet_amount", http.StatusBadRequest, ledger.ErrInvalidBetAmount},
	{"duplicate_bet", http.StatusConflict, ledger.ErrDuplicateBet},
	{"randomness_unavailable", http.StatusTooEarly, ledger.ErrRandomnessUnavailable},
	{"already_claimed", http.StatusConflict, ledger.ErrAlreadyClaimed},
	{"not_yet_revealable", http.StatusTooEarly, ledger.ErrNotYetRevealable},
	{"not_revealed", http.StatusNotFound, ledger.ErrNotRevealed},
	{"unknown_bet", http.StatusNotFound, ledger.ErrUnknownBet},
	{"bad_request", http.StatusBadRequest, ledger.ErrBadRequest},
	{"invalid_params", http.StatusInternalServerError, ledger.ErrInvalidParams},
}

func errorToWire(err error) (int, errorResponse) {
	for _, we := range wireErrors {
		if errors.Is(err, we.err) {
			return we.status, errorResponse{Code: we.code, Message: err.Error()}
		}
	}
	return http.StatusServiceUnavailable, errorResponse{Code: "unavailable", Message: err.Error()}
}

func wireToError(code string) error {
	for _, we := range wireErrors {
		if we.code == code {
			return we.err
		}
	}
	return ledger.ErrUnavailable
}
