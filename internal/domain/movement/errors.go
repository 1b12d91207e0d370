package movement

import (
	"fmt"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// 库存账本领域错误定义
var (
	// ErrInvalidQuantity 流水数量不合法(必须>0)
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidMovement, "流水数量必须大于0")

	// ErrInvalidKind 流水类型不合法
	ErrInvalidKind = apperrors.New(apperrors.ErrCodeInvalidMovement, "流水类型必须是IN/OUT/ADJUST")

	// ErrInvalidRefType 流水来源类型不合法
	ErrInvalidRefType = apperrors.New(apperrors.ErrCodeInvalidMovement, "流水来源类型不合法")

	// ErrEmptyBatch 批量追加不能为空
	ErrEmptyBatch = apperrors.New(apperrors.ErrCodeInvalidMovement, "流水批次不能为空")
)

// InsufficientStockError 库存不足错误
// 设计说明:
// 1. 结构化携带商品与库存数据,调用方可据此拼装提示("X库存不足,剩N件,需要M件")
// 2. 内嵌AppError,errors.As能提取出业务错误码,走统一的响应封装
type InsufficientStockError struct {
	*apperrors.AppError
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Available   int64  `json:"available"`
	Requested   int64  `json:"requested"`
}

// Unwrap 暴露内嵌的AppError,让errors.As能沿链提取业务错误码
func (e *InsufficientStockError) Unwrap() error {
	return e.AppError
}

// NewInsufficientStockError 创建库存不足错误
func NewInsufficientStockError(productID uint, productName string, available, requested int64) *InsufficientStockError {
	return &InsufficientStockError{
		AppError: apperrors.New(
			apperrors.ErrCodeInsufficientStock,
			fmt.Sprintf("商品「%s」库存不足，当前库存:%d，需要:%d", productName, available, requested),
		),
		ProductID:   productID,
		ProductName: productName,
		Available:   available,
		Requested:   requested,
	}
}
