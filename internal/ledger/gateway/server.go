package gateway

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"slot_backend/internal/ledger"
	"slot_backend/internal/model"
	"slot_backend/pkg/betkey"
)

// Handler Выставляет леджер по HTTP
type Handler struct {
	ledger ledger.Ledger
}

// NewHandler Создать обработчик
func NewHandler(l ledger.Ledger) *Handler {
	return &Handler{ledger: l}
}

// Routes Маршруты протокола леджера
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/commits", h.commit)
	r.Get("/randomness/{round}", h.randomness)
	r.Post("/reveals", h.reveal)
	r.Get("/reveals/{betKey}", h.revealed)
	r.Get("/parameters", h.parameters)
	r.Get("/balances/{player}/{mode}", h.balance)
	return r
}

func (h *Handler) commit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err)
		return
	}
	player, err := model.ParseAddress(req.Player)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	mode, err := model.ParseMode(req.Mode)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	rc, err := h.ledger.SubmitCommit(r.Context(), player, mode, req.BetAmount, req.SpinIndex)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, commitResponse{BetKey: rc.BetKey.Hex(), CommitRound: rc.CommitRound, TxID: rc.TxID, JackpotPools: rc.JackpotPools})
}

func (h *Handler) randomness(w http.ResponseWriter, r *http.Request) {
	round, err := strconv.ParseUint(chi.URLParam(r, "round"), 10, 64)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	seed, err := h.ledger.ReadRandomness(r.Context(), round)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, randomnessResponse{Round: round, Seed: hex.EncodeToString(seed[:])})
}

func (h *Handler) reveal(w http.ResponseWriter, r *http.Request) {
	var req revealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err)
		return
	}
	key, err := betkey.DecodeHex(req.BetKey)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	payout, err := h.ledger.SubmitReveal(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, payoutResponse{Payout: payout})
}

func (h *Handler) revealed(w http.ResponseWriter, r *http.Request) {
	key, err := betkey.DecodeHex(chi.URLParam(r, "betKey"))
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	payout, err := h.ledger.RevealedPayout(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, payoutResponse{Payout: payout})
}

func (h *Handler) parameters(w http.ResponseWriter, r *http.Request) {
	p, err := h.ledger.MachineParameters(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := ledger.EncodeParamsJSON(p)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	player, err := model.ParseAddress(chi.URLParam(r, "player"))
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	mode, err := model.ParseMode(chi.URLParam(r, "mode"))
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	bal, err := h.ledger.Balance(r.Context(), player, mode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, balanceResponse{Balance: bal})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("ledger gateway: encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, body := errorToWire(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeError(w, fmt.Errorf("%w: %v", ledger.ErrBadRequest, err))
}
