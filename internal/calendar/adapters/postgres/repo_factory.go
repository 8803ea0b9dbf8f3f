package postgres

import (
	"calbuddy/internal/calendar/ports/repositories"
)

// RepositoryFactory собирает репозитории календаря поверх одного пула.
type RepositoryFactory struct {
	eventRepo repositories.EventRepository
	userRepo  repositories.UserRepository
}

// NewRepositoryFactory создает фабрику репозиториев.
func NewRepositoryFactory(pool PgxPoolInterface) *RepositoryFactory {
	return &RepositoryFactory{
		eventRepo: NewEventRepository(pool),
		userRepo:  NewUserRepository(pool),
	}
}

// EventRepository возвращает репозиторий записей дней.
func (f *RepositoryFactory) EventRepository() repositories.EventRepository {
	return f.eventRepo
}

// UserRepository возвращает репозиторий пользователей.
func (f *RepositoryFactory) UserRepository() repositories.UserRepository {
	return f.userRepo
}
