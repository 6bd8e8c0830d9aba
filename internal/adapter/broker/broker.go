// Package broker selects and decorates the ports.EventPublisher used by the
// outbox dispatcher.
package broker

import (
	"fmt"

	"banking-core/config"
	"banking-core/internal/adapter/broker/rabbitmq"
	redisadapter "banking-core/internal/adapter/storage/redis"
	"banking-core/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// New builds the publisher named by cfg.Driver, wrapped in a circuit breaker
// when enabled. The returned close func releases broker connections.
func New(cfg config.BrokerConfig, rdb goredis.UniversalClient, log zerolog.Logger) (ports.EventPublisher, func() error, error) {
	var (
		pub     ports.EventPublisher
		closeFn = func() error { return nil }
	)

	switch cfg.Driver {
	case config.BrokerRedis:
		if rdb == nil {
			return nil, nil, fmt.Errorf("broker driver %q needs a redis client", cfg.Driver)
		}
		pub = redisadapter.NewStreamPublisher(rdb, cfg.StreamMaxLen)
	case config.BrokerRabbitMQ:
		rp, err := rabbitmq.Dial(cfg.RabbitURL, cfg.RabbitExchange, cfg.ConfirmTimeout, log)
		if err != nil {
			return nil, nil, err
		}
		pub, closeFn = rp, rp.Close
	case config.BrokerLog:
		pub = NewLogPublisher(log)
	default:
		return nil, nil, fmt.Errorf("unknown broker driver %q", cfg.Driver)
	}

	if cfg.CircuitBreaker.Enabled {
		pub = NewBreakerPublisher(pub, cfg.Driver, cfg.CircuitBreaker, log)
	}

	log.Info().
		Str("driver", cfg.Driver).
		Bool("circuit_breaker", cfg.CircuitBreaker.Enabled).
		Msg("event publisher configured")

	return pub, closeFn, nil
}
