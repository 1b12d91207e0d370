package warehouse

import (
	"context"
	"time"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// Warehouse 仓库实体
// 设计说明:
// 1. 仓库是库存账本的分区维度,自身不存任何数量字段——
//    (仓库,商品)的库存由流水折算
// 2. Active=false的仓库不能发货(下单校验MissingWarehouse),
//    但历史流水和快照保留
type Warehouse struct {
	ID        uint
	Code      string // 仓库编码(唯一,如 "WH-BJ-01")
	Name      string // 仓库名称
	Address   string // 仓库地址
	Active    bool   // 启用标志
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewWarehouse 创建仓库(工厂方法)
func NewWarehouse(code, name, address string) (*Warehouse, error) {
	if code == "" || name == "" {
		return nil, ErrInvalidWarehouse
	}
	now := time.Now()
	return &Warehouse{
		Code:      code,
		Name:      name,
		Address:   address,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CanFulfil 是否可以发货
func (w *Warehouse) CanFulfil() bool {
	return w.Active
}

// SetActive 启用/停用仓库
func (w *Warehouse) SetActive(active bool) {
	w.Active = active
	w.UpdatedAt = time.Now()
}

// 仓库领域错误定义
var (
	// ErrWarehouseNotFound 仓库不存在或已停用
	ErrWarehouseNotFound = apperrors.New(apperrors.ErrCodeWarehouseNotFound, "仓库不存在或已停用")

	// ErrCodeDuplicate 仓库编码已存在
	ErrCodeDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "仓库编码已存在")

	// ErrInvalidWarehouse 仓库信息不合法
	ErrInvalidWarehouse = apperrors.New(apperrors.ErrCodeInvalidParams, "仓库编码和名称不能为空")
)

// Repository 仓库仓储接口
type Repository interface {
	Create(ctx context.Context, warehouse *Warehouse) error

	// FindByID 根据ID查找仓库
	FindByID(ctx context.Context, id uint) (*Warehouse, error)

	// FindActiveByID 查找启用中的仓库(下单校验入口)
	// 不存在或已停用都返回ErrWarehouseNotFound
	FindActiveByID(ctx context.Context, id uint) (*Warehouse, error)

	FindByCode(ctx context.Context, code string) (*Warehouse, error)
	Update(ctx context.Context, warehouse *Warehouse) error
	List(ctx context.Context) ([]*Warehouse, error)
}
