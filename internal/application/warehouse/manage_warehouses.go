package warehouse

import (
	"context"

	"github.com/xiebiao/storefront/internal/domain/warehouse"
)

// ManageWarehousesUseCase 仓库维护用例(管理员操作)
type ManageWarehousesUseCase struct {
	repo warehouse.Repository
}

// NewManageWarehousesUseCase 创建仓库维护用例
func NewManageWarehousesUseCase(repo warehouse.Repository) *ManageWarehousesUseCase {
	return &ManageWarehousesUseCase{repo: repo}
}

// WarehouseResponse 仓库DTO
type WarehouseResponse struct {
	ID        uint   `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

// Create 创建仓库
func (uc *ManageWarehousesUseCase) Create(ctx context.Context, code, name, address string) (*WarehouseResponse, error) {
	w, err := warehouse.NewWarehouse(code, name, address)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, w); err != nil {
		return nil, err
	}
	return toWarehouseResponse(w), nil
}

// SetActive 启用/停用仓库
// 停用只拦新订单,历史订单、流水、快照都不动
func (uc *ManageWarehousesUseCase) SetActive(ctx context.Context, id uint, active bool) error {
	w, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	w.SetActive(active)
	return uc.repo.Update(ctx, w)
}

// List 查询全部仓库
func (uc *ManageWarehousesUseCase) List(ctx context.Context) ([]WarehouseResponse, error) {
	warehouses, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]WarehouseResponse, len(warehouses))
	for i, w := range warehouses {
		list[i] = *toWarehouseResponse(w)
	}
	return list, nil
}

func toWarehouseResponse(w *warehouse.Warehouse) *WarehouseResponse {
	return &WarehouseResponse{
		ID:        w.ID,
		Code:      w.Code,
		Name:      w.Name,
		Address:   w.Address,
		Active:    w.Active,
		CreatedAt: w.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
