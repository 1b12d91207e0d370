package order

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// 路由键定义(topic交换机storefront.events)
const (
	RoutingKeyOrderPlaced    = "order.placed"
	RoutingKeyOrderCancelled = "order.cancelled"
)

// EventPublisher 事件发布接口
// 设计说明:
// 1. 用例只依赖这个小接口,具体实现是"MQ发布器+熔断器"的组合
//    (infrastructure/eventbus),测试时用内存假实现
// 2. 事件只在事务提交之后发布——发布失败不回滚订单,
//    只记日志和指标(本系统容忍事件丢失,见事件总线的设计说明)
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// OrderPlacedEvent 下单成功事件
type OrderPlacedEvent struct {
	EventID     string                 `json:"event_id"`
	OrderID     uint                   `json:"order_id"`
	OrderCode   string                 `json:"order_code"`
	UserID      uint                   `json:"user_id"`
	WarehouseID uint                   `json:"warehouse_id"`
	Total       int64                  `json:"total"`
	Items       []OrderPlacedEventItem `json:"items"`
	OccurredAt  time.Time              `json:"occurred_at"`
}

// OrderPlacedEventItem 事件中的明细项
type OrderPlacedEventItem struct {
	ProductID uint   `json:"product_id"`
	SKU       string `json:"sku"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// OrderCancelledEvent 订单取消事件
type OrderCancelledEvent struct {
	EventID     string    `json:"event_id"`
	OrderID     uint      `json:"order_id"`
	OrderCode   string    `json:"order_code"`
	WarehouseID uint      `json:"warehouse_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// newEventID 生成事件ID(消费端幂等去重用)
func newEventID() string {
	return uuid.NewString()
}
