package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"calbuddy/internal/calendar/domain/entities"
	"calbuddy/internal/calendar/ports/repositories"
	"calbuddy/pkg/logger"
)

const (
	queryListEvents = `
        SELECT id, user_id, date, note, stickies, created_at, updated_at
        FROM day_events
        WHERE user_id = $1
        ORDER BY id
    `

	queryUpsertEvent = `
        INSERT INTO day_events (user_id, date, note, stickies)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id, date) DO UPDATE
        SET note = EXCLUDED.note, stickies = EXCLUDED.stickies, updated_at = NOW()
        RETURNING id, user_id, date, note, stickies, created_at, updated_at
    `
)

// EventRepository хранит записи дней в таблице day_events.
type EventRepository struct {
	pool PgxPoolInterface
}

// NewEventRepository создает репозиторий записей дней.
func NewEventRepository(pool PgxPoolInterface) repositories.EventRepository {
	return &EventRepository{pool: pool}
}

// ListByUser возвращает записи пользователя в порядке вставки.
func (r *EventRepository) ListByUser(ctx context.Context, userID string) ([]*entities.DayEvent, error) {
	log := logger.Log(ctx).With(zap.String("repository", "event"), zap.String("method", "ListByUser"))

	rows, err := r.pool.Query(ctx, queryListEvents, userID)
	if err != nil {
		log.Error(ctx, "error querying day events", zap.Error(err))
		return nil, fmt.Errorf("error querying day events: %w", err)
	}
	defer rows.Close()

	events := make([]*entities.DayEvent, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			log.Error(ctx, "error scanning day event", zap.Error(err))
			return nil, fmt.Errorf("error scanning day event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating day events", zap.Error(err))
		return nil, fmt.Errorf("error iterating day events: %w", err)
	}

	log.Debug(ctx, "day events listed", zap.Int("count", len(events)))
	return events, nil
}

// Upsert создает запись или заменяет note и stickies существующей одним запросом.
func (r *EventRepository) Upsert(ctx context.Context, event *entities.DayEvent) (*entities.DayEvent, error) {
	log := logger.Log(ctx).With(
		zap.String("repository", "event"),
		zap.String("method", "Upsert"),
		zap.String("date", event.Date),
	)

	stickies := event.Stickies
	if stickies == nil {
		stickies = []entities.StickyNote{}
	}
	payload, err := json.Marshal(stickies)
	if err != nil {
		return nil, fmt.Errorf("error encoding stickies: %w", err)
	}

	saved, err := scanEvent(r.pool.QueryRow(ctx, queryUpsertEvent,
		event.UserID,
		event.Date,
		event.Note,
		payload,
	))
	if err != nil {
		log.Error(ctx, "error upserting day event", zap.Error(err))
		return nil, fmt.Errorf("error upserting day event: %w", err)
	}

	return saved, nil
}

func scanEvent(row pgx.Row) (*entities.DayEvent, error) {
	var (
		event    entities.DayEvent
		stickies []byte
	)

	if err := row.Scan(
		&event.ID,
		&event.UserID,
		&event.Date,
		&event.Note,
		&stickies,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(stickies) > 0 {
		if err := json.Unmarshal(stickies, &event.Stickies); err != nil {
			return nil, fmt.Errorf("error decoding stickies: %w", err)
		}
	}
	if event.Stickies == nil {
		event.Stickies = []entities.StickyNote{}
	}
	return &event, nil
}
