// Package entities содержит доменные сущности календаря.
package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultStickyColor - класс цвета стикера, если клиент его не передал.
const DefaultStickyColor = "bg-yellow-200"

const (
	stickyIDPrefix     = "sticky-"
	stickyIDRandLength = 9
)

// Ошибки записей дня.
var (
	ErrEmptyDate         = errors.New("date is required")
	ErrDuplicateStickyID = errors.New("duplicate sticky id")
)

// StickyNote - стикер на странице дня. Content в хранилище зашифрован.
type StickyNote struct {
	ID      string  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Content string  `json:"content"`
	Color   string  `json:"color"`
}

// DayEvent - заметка и стикеры пользователя за одну дату.
// Пара (UserID, Date) уникальна.
type DayEvent struct {
	ID        int64
	UserID    string
	Date      string
	Note      string
	Stickies  []StickyNote
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewStickyID генерирует идентификатор вида sticky-<unix ms>-<random>.
func NewStickyID(now time.Time) string {
	random := strings.ReplaceAll(uuid.New().String(), "-", "")[:stickyIDRandLength]
	return fmt.Sprintf("%s%d-%s", stickyIDPrefix, now.UnixMilli(), random)
}

// NormalizeStickies возвращает копию с заполненными цветом и id.
// Повтор непустого id внутри одного дня - ошибка.
func NormalizeStickies(stickies []StickyNote, now time.Time) ([]StickyNote, error) {
	out := make([]StickyNote, 0, len(stickies))
	seen := make(map[string]struct{}, len(stickies))

	for _, s := range stickies {
		if s.Color == "" {
			s.Color = DefaultStickyColor
		}
		if s.ID == "" {
			s.ID = NewStickyID(now)
			for _, dup := seen[s.ID]; dup; _, dup = seen[s.ID] {
				s.ID = NewStickyID(now)
			}
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStickyID, s.ID)
		}
		seen[s.ID] = struct{}{}
		out = append(out, s)
	}

	return out, nil
}
