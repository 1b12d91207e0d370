package stock

import (
	"context"

	"github.com/xiebiao/storefront/internal/domain/movement"
)

// CurrentStockUseCase 当前库存查询用例
// 设计说明:
// 1. 走账本折算(SumByKind),不读快照行——这是"账本是事实来源"
//    原则的对外体现,也顺带暴露快照漂移(对账入口)
// 2. 只读操作,不加锁;负数如实返回,说明上游预留逻辑出了问题
type CurrentStockUseCase struct {
	movementRepo movement.Repository
	levelRepo    movement.LevelRepository
}

// NewCurrentStockUseCase 创建库存查询用例
func NewCurrentStockUseCase(movementRepo movement.Repository, levelRepo movement.LevelRepository) *CurrentStockUseCase {
	return &CurrentStockUseCase{
		movementRepo: movementRepo,
		levelRepo:    levelRepo,
	}
}

// CurrentStockResponse 库存查询响应DTO
type CurrentStockResponse struct {
	WarehouseID uint  `json:"warehouse_id"`
	ProductID   uint  `json:"product_id"`
	Stock       int64 `json:"stock"`  // 账本折算结果(事实)
	Cached      int64 `json:"cached"` // 快照行缓存值(应与Stock一致,不一致即漂移)
	In          int64 `json:"in"`
	Out         int64 `json:"out"`
	Adjust      int64 `json:"adjust"`
}

// Execute 查询(仓库,商品)的当前库存
func (uc *CurrentStockUseCase) Execute(ctx context.Context, warehouseID, productID uint) (*CurrentStockResponse, error) {
	totals, err := uc.movementRepo.SumByKind(ctx, warehouseID, productID)
	if err != nil {
		return nil, err
	}

	// 快照行可能还不存在(从未有过流水),当作0
	var cached int64
	if level, err := uc.levelRepo.Get(ctx, warehouseID, productID); err == nil && level != nil {
		cached = level.Quantity
	}

	return &CurrentStockResponse{
		WarehouseID: warehouseID,
		ProductID:   productID,
		Stock:       totals.Total(),
		Cached:      cached,
		In:          totals.In,
		Out:         totals.Out,
		Adjust:      totals.Adjust,
	}, nil
}
