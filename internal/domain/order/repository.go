package order

import (
	"context"
)

// Repository 订单仓储接口(依赖倒置原则)
// 教学要点:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 支持事务操作(通过context传递事务)
type Repository interface {
	// Create 创建订单(包含订单明细)
	// 订单和明细必须在同一事务中创建;
	// 订单号撞唯一索引时返回ErrCodeCollision
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单(包含订单明细)
	FindByID(ctx context.Context, id uint) (*Order, error)

	// FindByCode 根据订单号查找订单(物流查询入口)
	FindByCode(ctx context.Context, code string) (*Order, error)

	// UpdateStatus 更新订单状态
	// 只更新status列——明细与金额是不可变快照,仓储层不提供改它们的途径
	UpdateStatus(ctx context.Context, id uint, status Status) error

	// ListByUserID 查询用户的订单列表(分页)
	ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*Order, int64, error)

	// ListByStatus 按状态查询订单列表(后台管理用,status为0查全部)
	ListByStatus(ctx context.Context, status Status, page, pageSize int) ([]*Order, int64, error)
}
