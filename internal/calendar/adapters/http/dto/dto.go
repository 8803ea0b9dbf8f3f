// Package dto содержит тела запросов и ответов HTTP API.
package dto

import (
	"time"

	"calbuddy/internal/calendar/domain/entities"
)

// Sticky - стикер в теле запроса и ответа.
type Sticky struct {
	ID      string  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Content string  `json:"content"`
	Color   string  `json:"color"`
}

// SaveEventRequest - тело POST /events/save.
type SaveEventRequest struct {
	Date     string   `json:"date"`
	Note     string   `json:"note"`
	Stickies []Sticky `json:"stickies"`
}

// EventResponse - запись дня.
type EventResponse struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	Date      string    `json:"date"`
	Note      string    `json:"note"`
	Stickies  []Sticky  `json:"stickies"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SetColorRequest - тело POST /user/colors.
type SetColorRequest struct {
	MonthKey string `json:"monthKey"`
	Color    string `json:"color"`
}

// MessageResponse - ответ без данных.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse - профиль текущего пользователя.
type UserResponse struct {
	ID          string `json:"id"`
	GoogleID    string `json:"googleId"`
	DisplayName string `json:"displayName"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Image       string `json:"image"`
	Email       string `json:"email"`
}

// ToEntities переводит стикеры запроса в доменные.
func ToEntities(stickies []Sticky) []entities.StickyNote {
	out := make([]entities.StickyNote, 0, len(stickies))
	for _, s := range stickies {
		out = append(out, entities.StickyNote(s))
	}
	return out
}

// FromEvent собирает ответ из записи дня.
func FromEvent(e *entities.DayEvent) EventResponse {
	stickies := make([]Sticky, 0, len(e.Stickies))
	for _, s := range e.Stickies {
		stickies = append(stickies, Sticky(s))
	}
	return EventResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		Date:      e.Date,
		Note:      e.Note,
		Stickies:  stickies,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// FromEvents собирает список, всегда не nil.
func FromEvents(events []*entities.DayEvent) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, FromEvent(e))
	}
	return out
}

// FromUser собирает профиль пользователя.
func FromUser(u *entities.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		GoogleID:    u.GoogleID,
		DisplayName: u.DisplayName,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Image:       u.Image,
		Email:       u.Email,
	}
}
