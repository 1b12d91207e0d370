package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/storefront/internal/domain/warehouse"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// warehouseRepository 仓库仓储实现(MySQL)
type warehouseRepository struct {
	db *gorm.DB
}

// NewWarehouseRepository 创建仓库仓储
func NewWarehouseRepository(db *gorm.DB) warehouse.Repository {
	return &warehouseRepository{db: db}
}

// Create 创建仓库
func (r *warehouseRepository) Create(ctx context.Context, w *warehouse.Warehouse) error {
	model := toWarehouseModel(w)

	db := r.getDB(ctx)
	if err := db.Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return warehouse.ErrCodeDuplicate
		}
		return apperrors.Wrap(err, "创建仓库失败")
	}

	w.ID = model.ID
	return nil
}

// FindByID 根据ID查找仓库
func (r *warehouseRepository) FindByID(ctx context.Context, id uint) (*warehouse.Warehouse, error) {
	var model WarehouseModel

	db := r.getDB(ctx)
	err := db.First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, warehouse.ErrWarehouseNotFound
		}
		return nil, apperrors.Wrap(err, "查询仓库失败")
	}

	return toWarehouseEntity(&model), nil
}

// FindActiveByID 查找启用中的仓库(下单校验入口)
// "不存在"和"已停用"折叠成同一个ErrWarehouseNotFound
func (r *warehouseRepository) FindActiveByID(ctx context.Context, id uint) (*warehouse.Warehouse, error) {
	var model WarehouseModel

	db := r.getDB(ctx)
	err := db.Where("id = ? AND active = ?", id, true).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, warehouse.ErrWarehouseNotFound
		}
		return nil, apperrors.Wrap(err, "查询仓库失败")
	}

	return toWarehouseEntity(&model), nil
}

// FindByCode 根据编码查找仓库
func (r *warehouseRepository) FindByCode(ctx context.Context, code string) (*warehouse.Warehouse, error) {
	var model WarehouseModel

	db := r.getDB(ctx)
	err := db.Where("code = ?", code).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, warehouse.ErrWarehouseNotFound
		}
		return nil, apperrors.Wrap(err, "查询仓库失败")
	}

	return toWarehouseEntity(&model), nil
}

// Update 更新仓库
func (r *warehouseRepository) Update(ctx context.Context, w *warehouse.Warehouse) error {
	db := r.getDB(ctx)

	result := db.Model(&WarehouseModel{}).Where("id = ?", w.ID).Updates(map[string]interface{}{
		"name":       w.Name,
		"address":    w.Address,
		"active":     w.Active,
		"updated_at": w.UpdatedAt,
	})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新仓库失败")
	}

	if result.RowsAffected == 0 {
		return warehouse.ErrWarehouseNotFound
	}

	return nil
}

// List 查询全部仓库
func (r *warehouseRepository) List(ctx context.Context) ([]*warehouse.Warehouse, error) {
	var models []WarehouseModel

	db := r.getDB(ctx)
	if err := db.Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询仓库列表失败")
	}

	warehouses := make([]*warehouse.Warehouse, len(models))
	for i, model := range models {
		warehouses[i] = toWarehouseEntity(&model)
	}

	return warehouses, nil
}

// toWarehouseModel 领域实体 → GORM模型
func toWarehouseModel(w *warehouse.Warehouse) *WarehouseModel {
	return &WarehouseModel{
		ID:        w.ID,
		Code:      w.Code,
		Name:      w.Name,
		Address:   w.Address,
		Active:    w.Active,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// toWarehouseEntity GORM模型 → 领域实体
func toWarehouseEntity(model *WarehouseModel) *warehouse.Warehouse {
	return &warehouse.Warehouse{
		ID:        model.ID,
		Code:      model.Code,
		Name:      model.Name,
		Address:   model.Address,
		Active:    model.Active,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *warehouseRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
