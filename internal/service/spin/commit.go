package spin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"slot_backend/internal/common"
	"slot_backend/internal/model"
)

// Spin Принимает запрос игрока: проверка, коммит в леджер, постановка в очередь.
// Отмена ctx учитывается только до отправки коммита.
func (s *serv) Spin(ctx context.Context, req model.SpinRequest) (*model.SpinTicket, error) {
	if req.Player.IsZero() || !req.Mode.Valid() {
		return nil, common.ErrInvalidRequest
	}

	// Повтор запроса с тем же spinId возвращает уже принятый спин
	if req.SpinID != "" {
		existing, err := s.spinRepo.GetSpin(ctx, req.SpinID)
		switch {
		case err == nil:
			if existing.Player != req.Player {
				return nil, fmt.Errorf("spin id %s belongs to another player: %w", req.SpinID, common.ErrInvalidRequest)
			}
			return &model.SpinTicket{SpinID: existing.ID, TxID: existing.CommitTxID}, nil
		case !errors.Is(err, common.ErrSpinNotFound):
			return nil, err
		}
	}

	if err := s.sessions.acquire(req.Player, time.Now()); err != nil {
		return nil, err
	}

	rec, err := s.commitRoot(ctx, req)
	if err != nil {
		s.sessions.release(req.Player, "")
		return nil, err
	}

	s.sessions.bind(req.Player, rec.ID)
	s.queue.push(rec.ID)

	return &model.SpinTicket{SpinID: rec.ID, TxID: rec.CommitTxID}, nil
}

func (s *serv) commitRoot(ctx context.Context, req model.SpinRequest) (*model.SpinRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params, err := s.ledger.MachineParameters(ctx)
	if err != nil {
		return nil, fmt.Errorf("machine parameters: %w", err)
	}
	if err := s.engine.Validate(ctx, &params, req.Mode, req.BetAmount); err != nil {
		return nil, err
	}

	id := req.SpinID
	if id == "" {
		id = uuid.NewString()
	}

	return s.commit(ctx, &model.SpinRecord{
		ID:         id,
		Player:     req.Player,
		Mode:       req.Mode,
		BetAmount:  req.BetAmount,
		Paylines:   req.Paylines,
		BetPerLine: req.BetPerLine,
		Params:     params,
	})
}

// commit Резервирует индекс спина, отправляет коммит и сохраняет запись.
// Индекс продвигается до коммита в отдельной транзакции: пропуск индекса допустим, повтор нет.
// После отправки коммита отмена контекста уже не действует.
func (s *serv) commit(ctx context.Context, rec *model.SpinRecord) (*model.SpinRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var index uint64
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		last, err := s.playerRepo.GetSpinIndex(txCtx, rec.Player)
		if err != nil {
			return fmt.Errorf("get spin index: %w", err)
		}
		index = last + 1
		return s.playerRepo.AdvanceSpinIndex(txCtx, rec.Player, index)
	})
	if err != nil {
		return nil, fmt.Errorf("reserve spin index: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	receipt, err := s.ledger.SubmitCommit(ctx, rec.Player, rec.Mode, rec.BetAmount, index)
	if err != nil {
		return nil, fmt.Errorf("submit commit: %w", err)
	}

	rec.SpinIndex = index
	rec.BetKey = receipt.BetKey
	rec.CommitTxID = receipt.TxID
	rec.CommitRound = receipt.CommitRound
	rec.TargetRound = receipt.TargetRound()
	rec.State = model.StateCommitted
	// джекпот считается от пула на момент коммита, а не на момент чтения параметров
	if receipt.JackpotPools != nil {
		rec.Params.JackpotPools = *receipt.JackpotPools
	}

	if err := s.spinRepo.CreateSpin(ctx, rec); err != nil {
		// Ставка в леджере уже есть, а записи нет: нужен ручной разбор
		log.WithFields(log.Fields{
			"spin_id":    rec.ID,
			"player":     rec.Player.String(),
			"spin_index": index,
			"bet_key":    rec.BetKey.Hex(),
		}).WithError(err).Error("commit accepted by ledger but not persisted")
		return nil, fmt.Errorf("persist commit: %w", err)
	}

	log.WithFields(log.Fields{
		"spin_id":      rec.ID,
		"player":       rec.Player.String(),
		"mode":         rec.Mode.String(),
		"bet":          rec.BetAmount,
		"spin_index":   index,
		"target_round": rec.TargetRound,
	}).Info("spin committed")

	return rec, nil
}
