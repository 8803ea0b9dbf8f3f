package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"calbuddy/internal/calendar/domain/entities"
	"calbuddy/internal/calendar/ports/repositories"
	"calbuddy/pkg/logger"
)

const (
	userColumns = `id, google_id, display_name, first_name, last_name, image, email, calendar_colors, created_at, updated_at`

	queryFindUserByID = `
        SELECT ` + userColumns + `
        FROM users
        WHERE id = $1
    `

	// Пустой DO UPDATE нужен, чтобы RETURNING вернул уже существующую строку.
	queryFindOrCreateUser = `
        INSERT INTO users (google_id, display_name, first_name, last_name, image, email)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (google_id) DO UPDATE SET google_id = EXCLUDED.google_id
        RETURNING ` + userColumns

	queryGetColors = `
        SELECT calendar_colors
        FROM users
        WHERE id = $1
    `

	querySetColor = `
        UPDATE users
        SET calendar_colors = COALESCE(calendar_colors, '{}'::jsonb) || jsonb_build_object($2::text, $3::text),
            updated_at = NOW()
        WHERE id = $1
    `
)

// UserRepository хранит пользователей в таблице users.
type UserRepository struct {
	pool PgxPoolInterface
}

// NewUserRepository создает репозиторий пользователей.
func NewUserRepository(pool PgxPoolInterface) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

// FindByID находит пользователя по внутреннему идентификатору.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByID"))

	user, err := scanUser(r.pool.QueryRow(ctx, queryFindUserByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("id", id))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user by id", zap.Error(err))
		return nil, fmt.Errorf("error querying user by id: %w", err)
	}

	return user, nil
}

// FindOrCreateByGoogleID возвращает пользователя по google_id, создавая его при первом входе.
func (r *UserRepository) FindOrCreateByGoogleID(ctx context.Context, profile *entities.Profile) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindOrCreateByGoogleID"))

	user, err := scanUser(r.pool.QueryRow(ctx, queryFindOrCreateUser,
		profile.ProviderID,
		profile.DisplayName,
		profile.FirstName,
		profile.LastName,
		profile.Image,
		profile.Email,
	))
	if err != nil {
		log.Error(ctx, "error finding or creating user", zap.Error(err))
		return nil, fmt.Errorf("error finding or creating user: %w", err)
	}

	return user, nil
}

// GetCalendarColors возвращает карту цветов месяцев, пустую, если цвета не заданы.
func (r *UserRepository) GetCalendarColors(ctx context.Context, userID string) (map[string]string, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "GetCalendarColors"))

	var raw []byte
	if err := r.pool.QueryRow(ctx, queryGetColors, userID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("id", userID))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error querying calendar colors", zap.Error(err))
		return nil, fmt.Errorf("error querying calendar colors: %w", err)
	}

	colors, err := decodeColors(raw)
	if err != nil {
		log.Error(ctx, "error decoding calendar colors", zap.Error(err))
		return nil, err
	}
	return colors, nil
}

// SetCalendarColor сливает один ключ в calendar_colors.
func (r *UserRepository) SetCalendarColor(ctx context.Context, userID, monthKey, color string) error {
	log := logger.Log(ctx).With(
		zap.String("repository", "user"),
		zap.String("method", "SetCalendarColor"),
		zap.String("month_key", monthKey),
	)

	result, err := r.pool.Exec(ctx, querySetColor, userID, monthKey, color)
	if err != nil {
		log.Error(ctx, "error updating calendar color", zap.Error(err))
		return fmt.Errorf("error updating calendar color: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "user not found for color update", zap.String("id", userID))
		return entities.ErrUserNotFound
	}

	return nil
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var (
		user   entities.User
		colors []byte
	)

	if err := row.Scan(
		&user.ID,
		&user.GoogleID,
		&user.DisplayName,
		&user.FirstName,
		&user.LastName,
		&user.Image,
		&user.Email,
		&colors,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}

	decoded, err := decodeColors(colors)
	if err != nil {
		return nil, err
	}
	user.CalendarColors = decoded
	return &user, nil
}

func decodeColors(raw []byte) (map[string]string, error) {
	colors := make(map[string]string)
	if len(raw) == 0 {
		return colors, nil
	}
	if err := json.Unmarshal(raw, &colors); err != nil {
		return nil, fmt.Errorf("error decoding calendar colors: %w", err)
	}
	if colors == nil {
		colors = make(map[string]string)
	}
	return colors, nil
}
