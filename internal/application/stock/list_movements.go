package stock

import (
	"context"

	"github.com/xiebiao/storefront/internal/domain/movement"
)

// ListMovementsUseCase 流水查询用例(审计/对账界面)
type ListMovementsUseCase struct {
	movementRepo movement.Repository
}

// NewListMovementsUseCase 创建流水查询用例
func NewListMovementsUseCase(movementRepo movement.Repository) *ListMovementsUseCase {
	return &ListMovementsUseCase{movementRepo: movementRepo}
}

// ListMovementsRequest 流水查询请求DTO
type ListMovementsRequest struct {
	WarehouseID uint
	ProductID   uint
	Page        int
	PageSize    int
}

// MovementItem 流水DTO
type MovementItem struct {
	ID        uint   `json:"id"`
	Kind      string `json:"kind"`
	Quantity  int64  `json:"quantity"`
	RefType   string `json:"ref_type"`
	RefID     uint   `json:"ref_id"`
	Note      string `json:"note"`
	CreatedAt string `json:"created_at"`
}

// ListMovementsResponse 流水查询响应DTO
type ListMovementsResponse struct {
	List     []MovementItem `json:"list"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// Execute 分页查询(仓库,商品)的流水
func (uc *ListMovementsUseCase) Execute(ctx context.Context, req ListMovementsRequest) (*ListMovementsResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	movements, total, err := uc.movementRepo.ListByTarget(ctx, req.WarehouseID, req.ProductID, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	list := make([]MovementItem, len(movements))
	for i, m := range movements {
		list[i] = MovementItem{
			ID:        m.ID,
			Kind:      m.Kind.String(),
			Quantity:  m.Quantity,
			RefType:   m.RefType.String(),
			RefID:     m.RefID,
			Note:      m.Note,
			CreatedAt: m.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	return &ListMovementsResponse{
		List:     list,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}
