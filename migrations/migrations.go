// Package migrations встраивает SQL-миграции схемы календаря в бинарь.
package migrations

import "embed"

// Dir - каталог миграций внутри FS.
const Dir = "calendar"

// FS содержит файлы миграций golang-migrate.
//
//go:embed calendar/*.sql
var FS embed.FS
