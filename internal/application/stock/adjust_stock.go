package stock

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/domain/movement"
	"github.com/xiebiao/storefront/internal/domain/product"
	"github.com/xiebiao/storefront/internal/domain/warehouse"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/logger"
	"github.com/xiebiao/storefront/pkg/metrics"
)

// AdjustStockUseCase 人工盘点调整用例(管理员操作)
// 设计说明:
// 1. 流水数量恒为正数,方向由类型表达:盘盈追加ADJUST,
//    盘亏追加MANUAL OUT——请求里的带符号delta在这里映射成类型
// 2. 不允许delta=0(没有意义的流水不进账本)
// 3. 盘亏不做库存充足校验:盘点的意义就是让账本向实物看齐,
//    哪怕结果是负数也要如实记录
type AdjustStockUseCase struct {
	movementRepo  movement.Repository
	levelRepo     movement.LevelRepository
	productRepo   product.Repository
	warehouseRepo warehouse.Repository
	tx            Transactor
}

// NewAdjustStockUseCase 创建盘点调整用例
func NewAdjustStockUseCase(
	movementRepo movement.Repository,
	levelRepo movement.LevelRepository,
	productRepo product.Repository,
	warehouseRepo warehouse.Repository,
	tx Transactor,
) *AdjustStockUseCase {
	return &AdjustStockUseCase{
		movementRepo:  movementRepo,
		levelRepo:     levelRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		tx:            tx,
	}
}

// AdjustStockRequest 盘点调整请求DTO
type AdjustStockRequest struct {
	WarehouseID uint
	ProductID   uint
	Delta       int64  // 带符号的调整量(正=盘盈,负=盘亏),不允许为0
	Note        string // 盘点备注
}

// AdjustStockResponse 盘点调整响应DTO
type AdjustStockResponse struct {
	MovementID uint   `json:"movement_id"`
	Kind       string `json:"kind"`  // ADJUST或OUT
	Stock      int64  `json:"stock"` // 调整后的账本折算库存
}

// Execute 执行盘点调整
func (uc *AdjustStockUseCase) Execute(ctx context.Context, req AdjustStockRequest) (*AdjustStockResponse, error) {
	if req.Delta == 0 {
		return nil, movement.ErrInvalidQuantity
	}
	if _, err := uc.warehouseRepo.FindByID(ctx, req.WarehouseID); err != nil {
		return nil, err
	}
	if _, err := uc.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}

	// 符号→类型映射
	kind := movement.KindAdjust
	quantity := req.Delta
	if req.Delta < 0 {
		kind = movement.KindOut
		quantity = -req.Delta
	}

	m, err := movement.NewMovement(
		req.WarehouseID, req.ProductID,
		kind, quantity,
		movement.RefManual, 0, req.Note,
	)
	if err != nil {
		return nil, err
	}

	var stock int64
	err = uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		if _, err := uc.levelRepo.LockForUpdate(txCtx, req.WarehouseID, req.ProductID); err != nil {
			return err
		}
		if err := uc.movementRepo.AppendBatch(txCtx, []*movement.Movement{m}); err != nil {
			return err
		}
		if err := uc.levelRepo.ApplyDelta(txCtx, req.WarehouseID, req.ProductID, m.SignedDelta()); err != nil {
			return err
		}

		totals, err := uc.movementRepo.SumByKind(txCtx, req.WarehouseID, req.ProductID)
		if err != nil {
			return err
		}
		stock = totals.Total()
		return nil
	})
	if err != nil {
		if appErr := apperrors.GetAppError(err); appErr.Code >= 50000 {
			logger.L.Error("盘点调整事务失败",
				zap.Uint("warehouse_id", req.WarehouseID),
				zap.Uint("product_id", req.ProductID),
				zap.Error(err))
			return nil, apperrors.WrapCode(err, apperrors.ErrCodeTransactionFailure, "调整失败，请稍后重试")
		}
		return nil, err
	}

	metrics.MovementsAppendedTotal.With(map[string]string{"kind": kind.String()}).Inc()

	return &AdjustStockResponse{
		MovementID: m.ID,
		Kind:       kind.String(),
		Stock:      stock,
	}, nil
}
