package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/storefront/internal/domain/movement"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// movementRepository 库存流水仓储实现(MySQL)
// 教学要点:
// 1. 账本表只有INSERT和SELECT,这里刻意不实现任何UPDATE/DELETE
// 2. SumByKind用SQL聚合在数据库侧折算,不把全部流水拉到内存
// 3. 事务通过context传递
type movementRepository struct {
	db *gorm.DB
}

// NewMovementRepository 创建库存流水仓储
func NewMovementRepository(db *gorm.DB) movement.Repository {
	return &movementRepository{db: db}
}

// AppendBatch 批量追加流水
// 教学要点:
// 1. 一次INSERT写入整个批次,配合外层事务保证批次原子性
// 2. 回填自增ID,调用方可以据此做审计关联
func (r *movementRepository) AppendBatch(ctx context.Context, movements []*movement.Movement) error {
	if len(movements) == 0 {
		return movement.ErrEmptyBatch
	}

	models := make([]StockMovementModel, len(movements))
	for i, m := range movements {
		models[i] = *toMovementModel(m)
	}

	db := r.getDB(ctx)
	if err := db.Create(&models).Error; err != nil {
		return apperrors.Wrap(err, "追加库存流水失败")
	}

	for i := range movements {
		movements[i].ID = models[i].ID
	}

	return nil
}

// kindSums SumByKind的聚合扫描目标
type kindSums struct {
	Kind  int
	Total int64
}

// SumByKind 按类型汇总(仓库,商品)的流水数量
// 教学要点:
// 1. GROUP BY kind一条SQL拿到三个方向的合计
// 2. 在事务内调用时走事务DB,读到的是本事务的一致快照
func (r *movementRepository) SumByKind(ctx context.Context, warehouseID, productID uint) (movement.StockTotals, error) {
	var rows []kindSums

	db := r.getDB(ctx)
	err := db.Model(&StockMovementModel{}).
		Select("kind, COALESCE(SUM(quantity), 0) AS total").
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return movement.StockTotals{}, apperrors.Wrap(err, "汇总库存流水失败")
	}

	var totals movement.StockTotals
	for _, row := range rows {
		switch movement.Kind(row.Kind) {
		case movement.KindIn:
			totals.In = row.Total
		case movement.KindOut:
			totals.Out = row.Total
		case movement.KindAdjust:
			totals.Adjust = row.Total
		}
	}

	return totals, nil
}

// ListByTarget 分页查询(仓库,商品)的流水
// 按创建时间倒序,审计界面最新的流水排在前面
func (r *movementRepository) ListByTarget(ctx context.Context, warehouseID, productID uint, page, pageSize int) ([]*movement.Movement, int64, error) {
	var models []StockMovementModel
	var total int64

	db := r.getDB(ctx)
	query := db.Model(&StockMovementModel{}).
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询流水总数失败")
	}

	offset := (page - 1) * pageSize
	err := query.Order("id DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询流水列表失败")
	}

	movements := make([]*movement.Movement, len(models))
	for i, model := range models {
		movements[i] = toMovementEntity(&model)
	}

	return movements, total, nil
}

// ListByRef 按来源查询流水
// 用途:回答"某订单产生了哪些出入库"这类审计问题
func (r *movementRepository) ListByRef(ctx context.Context, refType movement.RefType, refID uint) ([]*movement.Movement, error) {
	var models []StockMovementModel

	db := r.getDB(ctx)
	err := db.Where("ref_type = ? AND ref_id = ?", int(refType), refID).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询来源流水失败")
	}

	movements := make([]*movement.Movement, len(models))
	for i, model := range models {
		movements[i] = toMovementEntity(&model)
	}

	return movements, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toMovementModel 领域实体 → GORM模型
func toMovementModel(m *movement.Movement) *StockMovementModel {
	return &StockMovementModel{
		ID:          m.ID,
		WarehouseID: m.WarehouseID,
		ProductID:   m.ProductID,
		Kind:        int(m.Kind),
		Quantity:    m.Quantity,
		RefType:     int(m.RefType),
		RefID:       m.RefID,
		Note:        m.Note,
		CreatedAt:   m.CreatedAt,
	}
}

// toMovementEntity GORM模型 → 领域实体
func toMovementEntity(model *StockMovementModel) *movement.Movement {
	return &movement.Movement{
		ID:          model.ID,
		WarehouseID: model.WarehouseID,
		ProductID:   model.ProductID,
		Kind:        movement.Kind(model.Kind),
		Quantity:    model.Quantity,
		RefType:     movement.RefType(model.RefType),
		RefID:       model.RefID,
		Note:        model.Note,
		CreatedAt:   model.CreatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *movementRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
