package spin_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	jsoniter "github.com/json-iterator/go"

	"slot_backend/internal/common"
	"slot_backend/internal/model"
	"slot_backend/internal/repository"
	"slot_backend/pkg/betkey"
)

const (
	table              = "spins"
	colID              = "id"
	colParentID        = "parent_id"
	colPlayer          = "player"
	colMode            = "mode"
	colBetAmount       = "bet_amount"
	colPaylines        = "paylines"
	colBetPerLine      = "bet_per_line"
	colSpinIndex       = "spin_index"
	colBetKey          = "bet_key"
	colCommitTxID      = "commit_tx_id"
	colCommitRound     = "commit_round"
	colTargetRound     = "target_round"
	colState           = "state"
	colParams          = "params"
	colBonusActive     = "bonus_active"
	colOutcome         = "outcome"
	colRevealSubmitted = "reveal_submitted"
	colBonusRemaining  = "bonus_remaining"
	colBonusPlayed     = "bonus_played"
	colFailureCode     = "failure_code"
	colFailureReason   = "failure_reason"
	colCreatedAt       = "created_at"
	colUpdatedAt       = "updated_at"
)

var allColumns = []string{
	colID, colParentID, colPlayer, colMode, colBetAmount, colPaylines, colBetPerLine,
	colSpinIndex, colBetKey, colCommitTxID, colCommitRound, colTargetRound, colState,
	colParams, colBonusActive, colOutcome, colRevealSubmitted, colBonusRemaining,
	colBonusPlayed, colFailureCode, colFailureReason, colCreatedAt, colUpdatedAt,
}

var (
	psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	json = jsoniter.ConfigCompatibleWithStandardLibrary
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

// NewSpinRepository Хранилище спинов в PostgreSQL. Запросы идут в транзакции из контекста, если она есть.
func NewSpinRepository(dbc *pgxpool.Pool) repository.SpinRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

func (r *repo) conn(ctx context.Context) trmpgx.Tr {
	return r.getter.DefaultTrOrDB(ctx, r.dbc)
}

// CreateSpin Сохраняет новую запись спина
func (r *repo) CreateSpin(ctx context.Context, rec *model.SpinRecord) error {
	params, outcome, err := encodeJSON(rec)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now

	query := psql.Insert(table).
		Columns(allColumns...).
		Values(
			rec.ID, nullable(rec.ParentID), rec.Player[:], rec.Mode.String(), int64(rec.BetAmount),
			rec.Paylines, int64(rec.BetPerLine), int64(rec.SpinIndex), rec.BetKey.Bytes(),
			rec.CommitTxID, int64(rec.CommitRound), int64(rec.TargetRound), string(rec.State),
			params, rec.BonusActive, outcome, rec.RevealSubmitted, rec.BonusRemaining,
			rec.BonusPlayed, string(rec.FailureCode), rec.FailureReason, rec.CreatedAt, rec.UpdatedAt,
		)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err = r.conn(ctx).Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("insert spin %s: %w", rec.ID, err)
	}
	return nil
}

// UpdateSpin Сохраняет изменяемые поля спина
func (r *repo) UpdateSpin(ctx context.Context, rec *model.SpinRecord) error {
	_, outcome, err := encodeJSON(rec)
	if err != nil {
		return err
	}

	rec.UpdatedAt = time.Now().UTC()

	query := psql.Update(table).
		Set(colState, string(rec.State)).
		Set(colBonusActive, rec.BonusActive).
		Set(colOutcome, outcome).
		Set(colRevealSubmitted, rec.RevealSubmitted).
		Set(colBonusRemaining, rec.BonusRemaining).
		Set(colBonusPlayed, rec.BonusPlayed).
		Set(colFailureCode, string(rec.FailureCode)).
		Set(colFailureReason, rec.FailureReason).
		Set(colUpdatedAt, rec.UpdatedAt).
		Where(sq.Eq{colID: rec.ID})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.conn(ctx).Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("update spin %s: %w", rec.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrSpinNotFound
	}
	return nil
}

// GetSpin Запись спина по ID
func (r *repo) GetSpin(ctx context.Context, id string) (*model.SpinRecord, error) {
	query := psql.Select(allColumns...).
		From(table).
		Where(sq.Eq{colID: id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rec, err := scanSpin(r.conn(ctx).QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrSpinNotFound
		}
		return nil, err
	}
	return rec, nil
}

// ListUnsettled Нетерминальные спины
func (r *repo) ListUnsettled(ctx context.Context) ([]*model.SpinRecord, error) {
	return r.list(ctx, psql.Select(allColumns...).
		From(table).
		Where(sq.Eq{colState: statesToStrings(repository.UnsettledStates)}).
		OrderBy(colCreatedAt, colSpinIndex))
}

// ListChildren Бонусные спины по возрастанию индекса
func (r *repo) ListChildren(ctx context.Context, parentID string) ([]*model.SpinRecord, error) {
	return r.list(ctx, psql.Select(allColumns...).
		From(table).
		Where(sq.Eq{colParentID: parentID}).
		OrderBy(colSpinIndex))
}

// PendingBets Сумма ставок, которые леджер еще удерживает
func (r *repo) PendingBets(ctx context.Context, player model.Address, mode model.Mode) (uint64, error) {
	query := psql.Select("COALESCE(SUM(" + colBetAmount + "), 0)").
		From(table).
		Where(sq.Eq{
			colPlayer: player[:],
			colMode:   mode.String(),
			colState:  statesToStrings(repository.PendingStates),
		})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var total int64
	if err := r.conn(ctx).QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		return 0, err
	}
	return uint64(total), nil
}

func (r *repo) list(ctx context.Context, query sq.SelectBuilder) ([]*model.SpinRecord, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn(ctx).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.SpinRecord
	for rows.Next() {
		rec, err := scanSpin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanSpin(row pgx.Row) (*model.SpinRecord, error) {
	var (
		rec                                 model.SpinRecord
		parentID                            *string
		player, key                         []byte
		mode, state, failureCode            string
		bet, perLine, index, commit, target int64
		params, outcome                     []byte
	)

	err := row.Scan(
		&rec.ID, &parentID, &player, &mode, &bet, &rec.Paylines, &perLine,
		&index, &key, &rec.CommitTxID, &commit, &target, &state,
		&params, &rec.BonusActive, &outcome, &rec.RevealSubmitted, &rec.BonusRemaining,
		&rec.BonusPlayed, &failureCode, &rec.FailureReason, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		rec.ParentID = *parentID
	}
	if len(player) != len(rec.Player) {
		return nil, fmt.Errorf("spin %s: player column has %d bytes", rec.ID, len(player))
	}
	copy(rec.Player[:], player)

	if rec.Mode, err = model.ParseMode(mode); err != nil {
		return nil, fmt.Errorf("spin %s: %w", rec.ID, err)
	}
	if rec.BetKey, err = betkey.Decode(key); err != nil {
		return nil, fmt.Errorf("spin %s: %w", rec.ID, err)
	}

	rec.BetAmount = uint64(bet)
	rec.BetPerLine = uint64(perLine)
	rec.SpinIndex = uint64(index)
	rec.CommitRound = uint64(commit)
	rec.TargetRound = uint64(target)
	rec.State = model.SpinState(state)
	rec.FailureCode = model.ErrorCode(failureCode)

	if err := json.Unmarshal(params, &rec.Params); err != nil {
		return nil, fmt.Errorf("spin %s params: %w", rec.ID, err)
	}
	if outcome != nil {
		rec.Outcome = new(model.SpinOutcome)
		if err := json.Unmarshal(outcome, rec.Outcome); err != nil {
			return nil, fmt.Errorf("spin %s outcome: %w", rec.ID, err)
		}
	}

	return &rec, nil
}

func encodeJSON(rec *model.SpinRecord) (params, outcome []byte, err error) {
	params, err = json.Marshal(rec.Params)
	if err != nil {
		return nil, nil, fmt.Errorf("encode params: %w", err)
	}
	if rec.Outcome != nil {
		outcome, err = json.Marshal(rec.Outcome)
		if err != nil {
			return nil, nil, fmt.Errorf("encode outcome: %w", err)
		}
	}
	return params, outcome, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func statesToStrings(states []model.SpinState) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = string(s)
	}
	return out
}
