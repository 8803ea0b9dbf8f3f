package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"calbuddy/internal/calendar/domain/entities"
	"calbuddy/internal/calendar/ports/repositories"
	"calbuddy/internal/calendar/ports/services"
	"calbuddy/pkg/logger"
)

// EventUseCase управляет записями дней. Текст шифруется до попадания в хранилище.
type EventUseCase struct {
	events repositories.EventRepository
	cipher services.Cipher
	gate   Gate
	now    func() time.Time
}

// NewEventUseCase создает новый экземпляр EventUseCase.
func NewEventUseCase(events repositories.EventRepository, cipher services.Cipher) *EventUseCase {
	return &EventUseCase{
		events: events,
		cipher: cipher,
		now:    time.Now,
	}
}

// ListEvents возвращает все записи пользователя с расшифрованными заметкой и стикерами.
func (uc *EventUseCase) ListEvents(ctx context.Context) ([]*entities.DayEvent, error) {
	userID, err := uc.gate.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	stored, err := uc.events.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	result := make([]*entities.DayEvent, 0, len(stored))
	for _, event := range stored {
		if err := uc.gate.Authorize(ctx, event.UserID); err != nil {
			logger.Log(ctx).Error(ctx, "repository returned foreign event",
				zap.Int64("event_id", event.ID))
			return nil, err
		}

		decrypted, err := uc.decryptEvent(ctx, event)
		if err != nil {
			return nil, err
		}
		result = append(result, decrypted)
	}

	return result, nil
}

// SaveEvent создает или целиком заменяет запись за дату.
// Возвращает сохраненную запись в зашифрованном виде.
func (uc *EventUseCase) SaveEvent(ctx context.Context, date, note string, stickies []entities.StickyNote) (*entities.DayEvent, error) {
	userID, err := uc.gate.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	if date == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, entities.ErrEmptyDate)
	}

	normalized, err := entities.NormalizeStickies(stickies, uc.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	encryptedNote, err := uc.cipher.Encrypt(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt note: %w", err)
	}

	for i := range normalized {
		content, err := uc.cipher.Encrypt(ctx, normalized[i].Content)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt sticky: %w", err)
		}
		normalized[i].Content = content
	}

	saved, err := uc.events.Upsert(ctx, &entities.DayEvent{
		UserID:   userID,
		Date:     date,
		Note:     encryptedNote,
		Stickies: normalized,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save event: %w", err)
	}

	return saved, nil
}

func (uc *EventUseCase) decryptEvent(ctx context.Context, event *entities.DayEvent) (*entities.DayEvent, error) {
	out := *event

	note, err := uc.cipher.Decrypt(ctx, event.Note)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt note: %w", err)
	}
	out.Note = note

	out.Stickies = make([]entities.StickyNote, len(event.Stickies))
	for i, sticky := range event.Stickies {
		content, err := uc.cipher.Decrypt(ctx, sticky.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt sticky: %w", err)
		}
		sticky.Content = content
		out.Stickies[i] = sticky
	}

	return &out, nil
}
