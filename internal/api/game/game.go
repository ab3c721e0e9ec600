package game

import (
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	dto "slot_backend/internal/api/dto/game"
	"slot_backend/internal/common"
	"slot_backend/internal/converter"
	"slot_backend/internal/middleware"
	"slot_backend/internal/model"
	"slot_backend/internal/service"
	"slot_backend/pkg/req"
	"slot_backend/pkg/resp"
)

type HandlerDeps struct {
	Serv service.GameService
}

type Handler struct {
	serv service.GameService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv}
}

var statusByCode = map[model.ErrorCode]int{
	model.CodeNotInitialized:      http.StatusConflict,
	model.CodeInsufficientBalance: http.StatusUnprocessableEntity,
	model.CodeInvalidRequest:      http.StatusBadRequest,
	model.CodeRateLimit:           http.StatusTooManyRequests,
	model.CodeAlreadySpinning:     http.StatusConflict,
	model.CodeSpinFailed:          http.StatusInternalServerError,
	model.CodeNetworkError:        http.StatusServiceUnavailable,
	model.CodeUnauthorizedOrigin:  http.StatusForbidden,
}

// Message Одно входящее сообщение протокола, один ответ
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	player, ok := middleware.PlayerFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	payload, err := req.Decode[dto.Request](r.Body)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", common.ErrInvalidRequest, err), "")
		return
	}

	ctx := r.Context()
	switch payload.Type {
	case dto.TypeInit:
		info, err := h.serv.Init(ctx, player, payload.ContractID)
		if err != nil {
			writeError(w, err, payload.RequestID)
			return
		}
		resp.WriteJSONResponse(w, http.StatusOK, converter.ToConfig(*info))

	case dto.TypeGetConfig:
		info, err := h.serv.Config(ctx, player)
		if err != nil {
			writeError(w, err, payload.RequestID)
			return
		}
		resp.WriteJSONResponse(w, http.StatusOK, converter.ToConfig(*info))

	case dto.TypeGetBalance:
		bal, err := h.serv.Balance(ctx, player)
		if err != nil {
			writeError(w, err, payload.RequestID)
			return
		}
		resp.WriteJSONResponse(w, http.StatusOK, converter.ToBalanceResponse(*bal))

	case dto.TypeSpinRequest:
		ticket, err := h.serv.Spin(ctx, player, converter.ToPlayRequest(payload))
		if err != nil {
			writeError(w, err, payload.RequestID)
			return
		}
		resp.WriteJSONResponse(w, http.StatusAccepted, converter.ToSpinSubmitted(*ticket))

	default:
		writeError(w, common.ErrInvalidRequest, payload.RequestID)
	}
}

// Events Забирает OUTCOME, BALANCE_UPDATE и ERROR, накопленные для игрока
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	player, ok := middleware.PlayerFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	events, err := h.serv.Events(r.Context(), player)
	if err != nil {
		writeError(w, err, "")
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToEvents(events))
}

func writeError(w http.ResponseWriter, err error, requestID string) {
	msg := converter.ToError(err, requestID)
	status, ok := statusByCode[model.ErrorCode(msg.Code)]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		log.WithError(err).WithField("code", msg.Code).Error("game request failed")
	}
	resp.WriteJSONResponse(w, status, msg)
}
