// Package config загружает конфигурацию сервисов через cleanenv.
package config

import (
	"context"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"

	"calbuddy/pkg/logger"
)

const (
	msgLoadingConfiguration = "loading configuration"
	msgConfigurationLoaded  = "configuration loaded successfully"
	msgFailedLoad           = "failed to load configuration"

	errFailedLoadConfiguration = "failed to load configuration"

	attrService = "service"
	attrPath    = "path"
	attrSource  = "source"

	sourceEnv  = "env"
	sourceFile = "file"
)

// Load заполняет структуру T. При пустом path значения читаются только из
// окружения, иначе из файла (yaml, json, toml или env по расширению),
// а переменные окружения перекрывают значения файла.
func Load[T any](ctx context.Context, serviceName, path string) (*T, error) {
	log := logger.Log(ctx).With(zap.String(attrService, serviceName))

	var (
		cfg    T
		err    error
		source = sourceEnv
	)

	if path == "" {
		log.Info(ctx, msgLoadingConfiguration, zap.String(attrSource, source))
		err = cleanenv.ReadEnv(&cfg)
	} else {
		source = sourceFile
		log.Info(ctx, msgLoadingConfiguration, zap.String(attrSource, source), zap.String(attrPath, path))
		err = cleanenv.ReadConfig(path, &cfg)
	}

	if err != nil {
		log.Error(ctx, msgFailedLoad, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errFailedLoadConfiguration, err)
	}

	log.Info(ctx, msgConfigurationLoaded, zap.String(attrSource, source))
	return &cfg, nil
}
