package order

import (
	"context"

	"github.com/xiebiao/storefront/internal/domain/order"
)

// ListOrdersUseCase 订单列表查询用例
// 买家查自己的订单;管理员可以按状态查全部订单
type ListOrdersUseCase struct {
	orderRepo order.Repository
}

// NewListOrdersUseCase 创建订单列表用例
func NewListOrdersUseCase(orderRepo order.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orderRepo: orderRepo}
}

// ListOrdersRequest 列表查询请求DTO
type ListOrdersRequest struct {
	Page     int
	PageSize int
	Status   order.Status // 管理员按状态过滤(0表示全部),买家查询时忽略
}

// OrderSummary 列表项DTO(不含明细)
type OrderSummary struct {
	OrderID      uint   `json:"order_id"`
	Code         string `json:"code"`
	Status       string `json:"status"`
	CustomerName string `json:"customer_name"`
	Total        int64  `json:"total"`
	TotalYuan    string `json:"total_yuan"`
	ItemCount    int    `json:"item_count"`
	CreatedAt    string `json:"created_at"`
}

// ListOrdersResponse 列表查询响应DTO
type ListOrdersResponse struct {
	List       []OrderSummary `json:"list"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// Execute 执行订单列表查询
// 管理员走ListByStatus看全局,普通用户永远只看到自己的订单
func (uc *ListOrdersUseCase) Execute(ctx context.Context, actor Actor, req ListOrdersRequest) (*ListOrdersResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	var (
		orders []*order.Order
		total  int64
		err    error
	)
	if actor.Admin {
		orders, total, err = uc.orderRepo.ListByStatus(ctx, req.Status, req.Page, req.PageSize)
	} else {
		orders, total, err = uc.orderRepo.ListByUserID(ctx, actor.UserID, req.Page, req.PageSize)
	}
	if err != nil {
		return nil, err
	}

	list := make([]OrderSummary, len(orders))
	for i, o := range orders {
		list[i] = OrderSummary{
			OrderID:      o.ID,
			Code:         o.Code,
			Status:       o.Status.String(),
			CustomerName: o.Customer.FullName,
			Total:        o.Total,
			TotalYuan:    formatPrice(o.Total),
			ItemCount:    len(o.Items),
			CreatedAt:    o.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize != 0 {
		totalPages++
	}

	return &ListOrdersResponse{
		List:       list,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}

// GetOrderUseCase 订单详情查询用例
type GetOrderUseCase struct {
	orderRepo order.Repository
}

// NewGetOrderUseCase 创建订单详情用例
func NewGetOrderUseCase(orderRepo order.Repository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo}
}

// GetOrderResponse 订单详情DTO(含明细快照和收货信息)
type GetOrderResponse struct {
	OrderID       uint                     `json:"order_id"`
	Code          string                   `json:"code"`
	Status        string                   `json:"status"`
	WarehouseID   uint                     `json:"warehouse_id"`
	CustomerName  string                   `json:"customer_name"`
	Phone         string                   `json:"phone"`
	Address       string                   `json:"address"`
	City          string                   `json:"city"`
	PaymentMethod string                   `json:"payment_method"`
	Total         int64                    `json:"total"`
	TotalYuan     string                   `json:"total_yuan"`
	Items         []PlaceOrderResponseItem `json:"items"`
	CreatedAt     string                   `json:"created_at"`
	UpdatedAt     string                   `json:"updated_at"`
}

// Execute 查询订单详情
// 权限规则:本人或管理员,其他人一律404(不暴露订单是否存在)
func (uc *GetOrderUseCase) Execute(ctx context.Context, actor Actor, orderID uint) (*GetOrderResponse, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !actor.Admin && !o.IsOwnedBy(actor.UserID) {
		return nil, order.ErrOrderNotFound
	}

	items := make([]PlaceOrderResponseItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = PlaceOrderResponseItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			SKU:       item.SKU,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal(),
		}
	}

	return &GetOrderResponse{
		OrderID:       o.ID,
		Code:          o.Code,
		Status:        o.Status.String(),
		WarehouseID:   o.WarehouseID,
		CustomerName:  o.Customer.FullName,
		Phone:         o.Customer.Phone,
		Address:       o.Customer.Address,
		City:          o.Customer.City,
		PaymentMethod: string(o.PaymentMethod),
		Total:         o.Total,
		TotalYuan:     formatPrice(o.Total),
		Items:         items,
		CreatedAt:     o.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:     o.UpdatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
