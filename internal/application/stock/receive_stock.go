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

// Transactor 事务执行接口(与订单用例的定义一致,按包各自声明)
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReceiveStockUseCase 采购入库用例(管理员操作)
// 入库流水类型IN,来源PURCHASE;流水追加和快照更新同一事务
type ReceiveStockUseCase struct {
	movementRepo  movement.Repository
	levelRepo     movement.LevelRepository
	productRepo   product.Repository
	warehouseRepo warehouse.Repository
	tx            Transactor
}

// NewReceiveStockUseCase 创建采购入库用例
func NewReceiveStockUseCase(
	movementRepo movement.Repository,
	levelRepo movement.LevelRepository,
	productRepo product.Repository,
	warehouseRepo warehouse.Repository,
	tx Transactor,
) *ReceiveStockUseCase {
	return &ReceiveStockUseCase{
		movementRepo:  movementRepo,
		levelRepo:     levelRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		tx:            tx,
	}
}

// ReceiveStockRequest 入库请求DTO
type ReceiveStockRequest struct {
	WarehouseID uint
	ProductID   uint
	Quantity    int64
	RefID       uint   // 采购单ID(可选,审计线索)
	Note        string // 备注
}

// ReceiveStockResponse 入库响应DTO
type ReceiveStockResponse struct {
	MovementID uint  `json:"movement_id"`
	Stock      int64 `json:"stock"` // 入库后的账本折算库存
}

// Execute 执行采购入库
func (uc *ReceiveStockUseCase) Execute(ctx context.Context, req ReceiveStockRequest) (*ReceiveStockResponse, error) {
	// 仓库和商品必须存在(入库不要求商品在售,下架商品也能补货)
	if _, err := uc.warehouseRepo.FindByID(ctx, req.WarehouseID); err != nil {
		return nil, err
	}
	if _, err := uc.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}

	m, err := movement.NewMovement(
		req.WarehouseID, req.ProductID,
		movement.KindIn, req.Quantity,
		movement.RefPurchase, req.RefID, req.Note,
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
			logger.L.Error("采购入库事务失败",
				zap.Uint("warehouse_id", req.WarehouseID),
				zap.Uint("product_id", req.ProductID),
				zap.Error(err))
			return nil, apperrors.WrapCode(err, apperrors.ErrCodeTransactionFailure, "入库失败，请稍后重试")
		}
		return nil, err
	}

	metrics.MovementsAppendedTotal.With(map[string]string{"kind": movement.KindIn.String()}).Inc()

	return &ReceiveStockResponse{MovementID: m.ID, Stock: stock}, nil
}
