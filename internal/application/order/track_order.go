package order

import (
	"context"

	"github.com/xiebiao/storefront/internal/domain/order"
)

// TrackOrderUseCase 订单跟踪用例(凭订单号查询,公开接口)
// 设计说明:
// 1. 订单号带随机段,不可遍历,所以这个接口可以不登录访问
// 2. 响应是裁剪过的只读投影:只给状态、收货人姓名/城市、金额,
//    不暴露完整地址、电话、用户ID这些敏感字段
type TrackOrderUseCase struct {
	orderRepo order.Repository
}

// NewTrackOrderUseCase 创建订单跟踪用例
func NewTrackOrderUseCase(orderRepo order.Repository) *TrackOrderUseCase {
	return &TrackOrderUseCase{orderRepo: orderRepo}
}

// TrackOrderResponse 跟踪响应DTO(只读投影)
type TrackOrderResponse struct {
	Code         string `json:"code"`
	Status       string `json:"status"`
	CustomerName string `json:"customer_name"`
	City         string `json:"city"`
	Total        int64  `json:"total"`
	TotalYuan    string `json:"total_yuan"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// Execute 按订单号查询订单概要
func (uc *TrackOrderUseCase) Execute(ctx context.Context, code string) (*TrackOrderResponse, error) {
	if code == "" {
		return nil, order.ErrOrderNotFound
	}

	o, err := uc.orderRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	return &TrackOrderResponse{
		Code:         o.Code,
		Status:       o.Status.String(),
		CustomerName: o.Customer.FullName,
		City:         o.Customer.City,
		Total:        o.Total,
		TotalYuan:    formatPrice(o.Total),
		CreatedAt:    o.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:    o.UpdatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
