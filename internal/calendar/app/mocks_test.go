package app_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"calbuddy/internal/calendar/domain/entities"
	domain "calbuddy/internal/calendar/domain/services"
)

var ErrDatabaseOperation = errors.New("database error")

// memoryEvents - хранилище записей в памяти с семантикой upsert по (UserID, Date).
type memoryEvents struct {
	mu     sync.Mutex
	nextID int64
	rows   map[string]*entities.DayEvent
}

func newMemoryEvents() *memoryEvents {
	return &memoryEvents{rows: map[string]*entities.DayEvent{}}
}

func (m *memoryEvents) key(userID, date string) string {
	return userID + "|" + date
}

func (m *memoryEvents) ListByUser(_ context.Context, userID string) ([]*entities.DayEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*entities.DayEvent
	for _, row := range m.rows {
		if row.UserID == userID {
			cp := *row
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryEvents) Upsert(_ context.Context, event *entities.DayEvent) (*entities.DayEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	k := m.key(event.UserID, event.Date)
	row, ok := m.rows[k]
	if !ok {
		m.nextID++
		row = &entities.DayEvent{ID: m.nextID, UserID: event.UserID, Date: event.Date, CreatedAt: now}
		m.rows[k] = row
	}
	row.Note = event.Note
	row.Stickies = append([]entities.StickyNote(nil), event.Stickies...)
	row.UpdatedAt = now

	cp := *row
	return &cp, nil
}

func (m *memoryEvents) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// memoryUsers - пользователи с картой цветов в памяти.
type memoryUsers struct {
	mu     sync.Mutex
	users  map[string]*entities.User
	reads  int
	writes int
}

func newMemoryUsers(ids ...string) *memoryUsers {
	m := &memoryUsers{users: map[string]*entities.User{}}
	for _, id := range ids {
		m.users[id] = &entities.User{ID: id, DisplayName: id, CalendarColors: map[string]string{}}
	}
	return m
}

func (m *memoryUsers) FindByID(_ context.Context, id string) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memoryUsers) FindOrCreateByGoogleID(_ context.Context, p *entities.Profile) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.GoogleID == p.ProviderID {
			cp := *u
			return &cp, nil
		}
	}
	u := &entities.User{ID: "user-" + p.ProviderID, GoogleID: p.ProviderID, DisplayName: p.DisplayName}
	m.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *memoryUsers) GetCalendarColors(_ context.Context, userID string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	u, ok := m.users[userID]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	out := make(map[string]string, len(u.CalendarColors))
	for k, v := range u.CalendarColors {
		out[k] = v
	}
	return out, nil
}

func (m *memoryUsers) SetCalendarColor(_ context.Context, userID, monthKey, color string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	u, ok := m.users[userID]
	if !ok {
		return entities.ErrUserNotFound
	}
	if u.CalendarColors == nil {
		u.CalendarColors = map[string]string{}
	}
	u.CalendarColors[monthKey] = color
	return nil
}

// memoryCache - cache.Cache в памяти без TTL.
type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]string{}}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryCache) SetIfAbsent(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value
	return true, nil
}

func (m *memoryCache) Swap(_ context.Context, key, old, value string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if current, ok := m.data[key]; !ok || current != old {
		return false, nil
	}
	m.data[key] = value
	return true, nil
}

func (m *memoryCache) Take(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value := m.data[key]
	delete(m.data, key)
	return value, nil
}

func (m *memoryCache) Close() error { return nil }

// interleavedUsers вызывает afterRead один раз после чтения цветов.
type interleavedUsers struct {
	*memoryUsers
	afterRead func()
}

func (u *interleavedUsers) GetCalendarColors(ctx context.Context, userID string) (map[string]string, error) {
	colors, err := u.memoryUsers.GetCalendarColors(ctx, userID)
	if hook := u.afterRead; hook != nil {
		u.afterRead = nil
		hook()
	}
	return colors, err
}

// mockCache реализует cache.Cache.
type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *mockCache) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) Swap(ctx context.Context, key, old, value string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, old, value, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) Take(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockCache) Close() error {
	return m.Called().Error(0)
}

// mockUserRepository реализует repositories.UserRepository.
type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) FindOrCreateByGoogleID(ctx context.Context, p *entities.Profile) (*entities.User, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) GetCalendarColors(ctx context.Context, userID string) (map[string]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *mockUserRepository) SetCalendarColor(ctx context.Context, userID, monthKey, color string) error {
	return m.Called(ctx, userID, monthKey, color).Error(0)
}

// mockEventRepository реализует repositories.EventRepository.
type mockEventRepository struct {
	mock.Mock
}

func (m *mockEventRepository) ListByUser(ctx context.Context, userID string) ([]*entities.DayEvent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.DayEvent), args.Error(1)
}

func (m *mockEventRepository) Upsert(ctx context.Context, e *entities.DayEvent) (*entities.DayEvent, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DayEvent), args.Error(1)
}

// mockCipher реализует services.Cipher.
type mockCipher struct {
	mock.Mock
}

func (m *mockCipher) Encrypt(ctx context.Context, s string) (string, error) {
	args := m.Called(ctx, s)
	return args.String(0), args.Error(1)
}

func (m *mockCipher) Decrypt(ctx context.Context, s string) (string, error) {
	args := m.Called(ctx, s)
	return args.String(0), args.Error(1)
}

// mockProvider реализует services.IdentityProvider.
type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) AuthCodeURL(state string) string {
	return m.Called(state).String(0)
}

func (m *mockProvider) Exchange(ctx context.Context, code string) (*entities.Profile, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Profile), args.Error(1)
}

// mockSessions реализует services.SessionService.
type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) Issue(ctx context.Context, userID, displayName string) (string, time.Time, error) {
	args := m.Called(ctx, userID, displayName)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockSessions) Validate(ctx context.Context, token string) (*domain.SessionClaims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionClaims), args.Error(1)
}
