package resilience

import (
	"context"

	"go.uber.org/zap"

	"calbuddy/pkg/logger"
)

// ServiceResilience объединяет предохранитель и повторы для одного провайдера.
type ServiceResilience struct {
	serviceName    string
	circuitBreaker *CircuitBreaker
	retry          *Retry
}

// NewServiceResilience создает обертку с настройками по умолчанию.
// permanent помечает ошибки, которые не повторяются и не размыкают цепь.
func NewServiceResilience(serviceName string, permanent func(error) bool) *ServiceResilience {
	cbConfig := DefaultCircuitBreakerConfig()
	retryConfig := DefaultRetryConfig()
	if permanent != nil {
		cbConfig.IsFailure = func(err error) bool { return !permanent(err) }
		retryConfig.ShouldRetry = func(err error) bool { return defaultShouldRetry(err) && !permanent(err) }
	}
	return NewServiceResilienceWithConfig(serviceName, cbConfig, retryConfig)
}

// NewServiceResilienceWithConfig создает обертку с явными настройками.
func NewServiceResilienceWithConfig(serviceName string, cb CircuitBreakerConfig, retry RetryConfig) *ServiceResilience {
	return &ServiceResilience{
		serviceName:    serviceName,
		circuitBreaker: NewCircuitBreaker(serviceName, cb),
		retry:          NewRetry(serviceName, retry),
	}
}

// State возвращает состояние предохранителя.
func (r *ServiceResilience) State() CircuitState {
	return r.circuitBreaker.GetState()
}

// Execute выполняет операцию с повторами внутри предохранителя.
func (r *ServiceResilience) Execute(ctx context.Context, operationName string, operation func(context.Context) error) error {
	log := logger.Log(ctx).With(
		zap.String("service", r.serviceName),
		zap.String("operation", operationName),
	)
	log.Debug(ctx, "executing operation with resilience")

	return r.circuitBreaker.Execute(ctx, func() error {
		return r.retry.Execute(ctx, func() error {
			return operation(ctx)
		})
	})
}

// ExecuteOnce выполняет операцию внутри предохранителя без повторов.
// Подходит для неидемпотентных вызовов.
func (r *ServiceResilience) ExecuteOnce(ctx context.Context, operationName string, operation func(context.Context) error) error {
	logger.Log(ctx).Debug(ctx, "executing operation without retry",
		zap.String("service", r.serviceName),
		zap.String("operation", operationName),
	)

	return r.circuitBreaker.Execute(ctx, func() error {
		return operation(ctx)
	})
}

// Do - типизированный вариант Execute для операций с результатом.
func Do[T any](ctx context.Context, r *ServiceResilience, operationName string, operation func(context.Context) (T, error)) (T, error) {
	var result T
	err := r.Execute(ctx, operationName, func(ctx context.Context) error {
		var err error
		result, err = operation(ctx)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// DoOnce - типизированный вариант ExecuteOnce.
func DoOnce[T any](ctx context.Context, r *ServiceResilience, operationName string, operation func(context.Context) (T, error)) (T, error) {
	var result T
	err := r.ExecuteOnce(ctx, operationName, func(ctx context.Context) error {
		var err error
		result, err = operation(ctx)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
