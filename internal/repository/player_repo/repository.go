package player_repo

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"slot_backend/internal/common"
	"slot_backend/internal/model"
	"slot_backend/internal/repository"
)

const (
	table        = "players"
	colAddress   = "address"
	colSpinIndex = "spin_index"
	colUpdatedAt = "updated_at"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewPlayerRepository(dbc *pgxpool.Pool) repository.PlayerRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// GetSpinIndex Последний использованный индекс спина, 0 для нового игрока
func (r *repo) GetSpinIndex(ctx context.Context, player model.Address) (uint64, error) {
	query := psql.Select(colSpinIndex).
		From(table).
		Where(sq.Eq{colAddress: player[:]})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var index int64
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&index)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return uint64(index), nil
}

// AdvanceSpinIndex Upsert с условием: индекс меняется только на больший
func (r *repo) AdvanceSpinIndex(ctx context.Context, player model.Address, index uint64) error {
	query := psql.Insert(table).
		Columns(colAddress, colSpinIndex).
		Values(player[:], int64(index)).
		Suffix("ON CONFLICT (" + colAddress + ") DO UPDATE SET " +
			colSpinIndex + " = EXCLUDED." + colSpinIndex + ", " + colUpdatedAt + " = NOW() " +
			"WHERE " + table + "." + colSpinIndex + " < EXCLUDED." + colSpinIndex)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrSpinIndexConflict
	}
	return nil
}
