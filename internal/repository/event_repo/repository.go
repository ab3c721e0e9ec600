package event_repo

import (
	"context"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	jsoniter "github.com/json-iterator/go"

	"slot_backend/internal/model"
	"slot_backend/internal/repository"
)

const (
	table      = "events"
	colID      = "id"
	colPlayer  = "player"
	colPayload = "payload"
)

var (
	psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	json = jsoniter.ConfigCompatibleWithStandardLibrary
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

// NewEventRepository Очередь событий игрока в PostgreSQL
func NewEventRepository(dbc *pgxpool.Pool) repository.EventRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

func (r *repo) Push(ctx context.Context, ev model.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	query := psql.Insert(table).
		Columns(colPlayer, colPayload).
		Values(ev.Player[:], payload)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	return err
}

// Drain Забирает до limit самых старых событий игрока и удаляет их
func (r *repo) Drain(ctx context.Context, player model.Address, limit int) ([]model.Event, error) {
	sub := psql.Select(colID).
		From(table).
		Where(sq.Eq{colPlayer: player[:]}).
		OrderBy(colID).
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED")

	subSQL, subArgs, err := sub.ToSql()
	if err != nil {
		return nil, err
	}

	// Плейсхолдеры подзапроса уже пронумерованы с $1
	sqlStr := "DELETE FROM " + table + " WHERE " + colID + " IN (" + subSQL + ") RETURNING " + colID + ", " + colPayload

	rows, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, subArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type item struct {
		id int64
		ev model.Event
	}
	var items []item
	for rows.Next() {
		var (
			it      item
			payload []byte
		)
		if err := rows.Scan(&it.id, &payload); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &it.ev); err != nil {
			return nil, fmt.Errorf("decode event %d: %w", it.id, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// RETURNING не гарантирует порядок
	sort.Slice(items, func(i, j int) bool { return items[i].id < items[j].id })

	out := make([]model.Event, len(items))
	for i, it := range items {
		out[i] = it.ev
	}
	return out, nil
}
