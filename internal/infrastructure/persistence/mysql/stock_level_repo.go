package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/storefront/internal/domain/movement"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// stockLevelRepository 库存快照仓储实现(MySQL)
// 教学要点:
// 1. 快照行是下单并发控制的锁点:SELECT ... FOR UPDATE
// 2. (warehouse_id, product_id)复合主键,一个维度一行
// 3. 必须在事务内调用LockForUpdate/ApplyDelta(通过context传递事务DB)
type stockLevelRepository struct {
	db *gorm.DB
}

// NewStockLevelRepository 创建库存快照仓储
func NewStockLevelRepository(db *gorm.DB) movement.LevelRepository {
	return &stockLevelRepository{db: db}
}

// LockForUpdate 锁定(仓库,商品)的快照行并返回
// 教学要点:
// 1. clause.Locking{Strength: "UPDATE"}生成SELECT ... FOR UPDATE
// 2. 行不存在时先插入零值行再重查——从没进过货的商品也要有行可锁,
//    否则两个并发事务都查不到行,锁就形同虚设
// 3. 插入撞上并发创建的唯一冲突时忽略,重查必然能锁到
func (r *stockLevelRepository) LockForUpdate(ctx context.Context, warehouseID, productID uint) (*movement.StockLevel, error) {
	db := r.getDB(ctx)

	var model StockLevelModel
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		First(&model).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		zero := StockLevelModel{
			WarehouseID: warehouseID,
			ProductID:   productID,
			Quantity:    0,
			UpdatedAt:   time.Now(),
		}
		if createErr := db.Create(&zero).Error; createErr != nil && !isDuplicateError(createErr) {
			return nil, apperrors.Wrap(createErr, "初始化库存快照失败")
		}

		err = db.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
			First(&model).Error
	}

	if err != nil {
		return nil, apperrors.Wrap(err, "锁定库存快照失败")
	}

	return toStockLevelEntity(&model), nil
}

// ApplyDelta 调整快照数量(delta带符号)
// 教学要点:
// 1. 用SQL表达式quantity = quantity + ?原子更新,不做读改写
// 2. 刻意没有quantity >= ?的WHERE守卫——快照要如实跟随账本,
//    负数暴露问题而不是掩盖问题
func (r *stockLevelRepository) ApplyDelta(ctx context.Context, warehouseID, productID uint, delta int64) error {
	db := r.getDB(ctx)

	result := db.Model(&StockLevelModel{}).
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新库存快照失败")
	}

	if result.RowsAffected == 0 {
		// 调用约定是先LockForUpdate再ApplyDelta,行必然存在
		return apperrors.New(apperrors.ErrCodeDatabaseError, "库存快照行不存在")
	}

	return nil
}

// Get 读取快照行(不加锁,展示用)
// 行不存在返回零值快照,对展示来说"没有行"就是"库存为0"
func (r *stockLevelRepository) Get(ctx context.Context, warehouseID, productID uint) (*movement.StockLevel, error) {
	var model StockLevelModel

	db := r.getDB(ctx)
	err := db.Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &movement.StockLevel{
				WarehouseID: warehouseID,
				ProductID:   productID,
				Quantity:    0,
			}, nil
		}
		return nil, apperrors.Wrap(err, "查询库存快照失败")
	}

	return toStockLevelEntity(&model), nil
}

// toStockLevelEntity GORM模型 → 领域实体
func toStockLevelEntity(model *StockLevelModel) *movement.StockLevel {
	return &movement.StockLevel{
		WarehouseID: model.WarehouseID,
		ProductID:   model.ProductID,
		Quantity:    model.Quantity,
		UpdatedAt:   model.UpdatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *stockLevelRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
