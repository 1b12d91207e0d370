// Package eventbus 组装领域事件的发布通道
//
// 组成:pkg/mq的RabbitMQ发布器 + pkg/circuitbreaker的熔断器。
// MQ抖动时熔断器快速失败,下单主链路不会被发布阻塞拖垮——
// 事件在事务提交后发布,丢了只记日志和指标,不影响业务数据。
package eventbus

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/storefront/pkg/circuitbreaker"
	"github.com/xiebiao/storefront/pkg/logger"
	"github.com/xiebiao/storefront/pkg/metrics"
	"github.com/xiebiao/storefront/pkg/mq"
)

// Publisher 底层发布接口(pkg/mq.Publisher实现)
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// BreakerPublisher 带熔断保护的事件发布器
// 实现application层的EventPublisher接口
type BreakerPublisher struct {
	inner   Publisher
	breaker *circuitbreaker.CircuitBreaker
}

// NewBreakerPublisher 创建带熔断的发布器
// 熔断策略:30秒窗口内连续5次失败则熔断,10秒后半开探测
func NewBreakerPublisher(inner Publisher) *BreakerPublisher {
	cb := circuitbreaker.NewCircuitBreaker("event-publisher", circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		logger.L.Warn("事件发布熔断器状态变化",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		if metrics.CircuitBreakerState != nil {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		}
	})

	return &BreakerPublisher{inner: inner, breaker: cb}
}

// Publish 经熔断器发布事件
// 熔断打开时直接返回ErrOpenState,调用方(用例层)只记日志不重试
func (p *BreakerPublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	err := p.breaker.Execute(func() error {
		return p.inner.Publish(ctx, routingKey, message)
	})

	if metrics.CircuitBreakerRequests != nil {
		result := "success"
		switch {
		case errors.Is(err, circuitbreaker.ErrOpenState):
			result = "rejected"
		case err != nil:
			result = "failure"
		}
		metrics.CircuitBreakerRequests.WithLabelValues(p.breaker.Name(), result).Inc()
	}

	return err
}

// NopPublisher 空发布器(MQ未启用时使用)
// 事件只落一条Debug日志,方便本地开发不起RabbitMQ
type NopPublisher struct{}

// Publish 丢弃事件
func (NopPublisher) Publish(_ context.Context, routingKey string, _ interface{}) error {
	logger.L.Debug("MQ未启用,丢弃事件", zap.String("routing_key", routingKey))
	return nil
}

// 编译期断言:两个实现都满足Publisher
var (
	_ Publisher = (*mq.Publisher)(nil)
	_ Publisher = (*BreakerPublisher)(nil)
	_ Publisher = NopPublisher{}
)
