package product

import (
	"context"
)

// Repository 商品仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
type Repository interface {
	// Create 创建商品(SKU撞唯一索引时返回ErrSKUDuplicate)
	Create(ctx context.Context, product *Product) error

	// FindByID 根据ID查找商品
	FindByID(ctx context.Context, id uint) (*Product, error)

	// FindBySKU 根据SKU查找商品
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindActiveByID 查找在售商品
	// 下单校验入口:不存在或已下架都返回ErrProductUnavailable
	FindActiveByID(ctx context.Context, id uint) (*Product, error)

	// Update 更新商品信息
	Update(ctx context.Context, product *Product) error

	// Delete 删除商品(软删除,历史订单快照不受影响)
	Delete(ctx context.Context, id uint) error

	// List 分页查询商品列表
	List(ctx context.Context, params ListParams) ([]*Product, int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page       int    // 页码(从1开始)
	PageSize   int    // 每页数量
	Keyword    string // 搜索关键词(搜索名称、SKU)
	CategoryID uint   // 按分类过滤(0表示全部)
	OnlyActive bool   // 只看在售商品(商城前台true,后台false)
	SortBy     string // 排序字段(price_asc, price_desc, created_at_desc)
}
