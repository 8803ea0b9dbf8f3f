// Package services описывает внешние сервисы, на которые опираются сценарии календаря.
package services

import "context"

// Cipher шифрует отдельные строковые поля перед записью в хранилище.
type Cipher interface {
	// Encrypt возвращает токен шифротекста. Пустая строка не шифруется.
	Encrypt(ctx context.Context, plaintext string) (string, error)

	// Decrypt восстанавливает открытый текст. Незашифрованные данные
	// возвращаются как есть, поврежденные - в виде фиксированной метки.
	// Ошибка означает только проблему конфигурации.
	Decrypt(ctx context.Context, token string) (string, error)
}
