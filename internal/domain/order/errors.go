package order

import (
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在")

	// ErrInvalidTransition 非法的状态转换
	// 如:取消已送达订单、从已取消恢复
	ErrInvalidTransition = apperrors.New(apperrors.ErrCodeInvalidTransition, "订单状态不允许此操作")

	// ErrMissingWarehouse 发货仓库不存在或已停用
	ErrMissingWarehouse = apperrors.New(apperrors.ErrCodeWarehouseNotFound, "发货仓库不存在或已停用")

	// ErrInvalidCustomer 收货人信息不完整(姓名/电话/地址必填)
	ErrInvalidCustomer = apperrors.New(apperrors.ErrCodeInvalidCustomer, "收货人信息不完整")

	// ErrEmptyCart 购物车为空
	ErrEmptyCart = apperrors.New(apperrors.ErrCodeEmptyCart, "购物车不能为空")

	// ErrInvalidItemQuantity 购买数量不合法
	ErrInvalidItemQuantity = apperrors.New(apperrors.ErrCodeEmptyCart, "购买数量必须大于0")

	// ErrCodeCollision 订单号冲突(罕见,调用方可重试)
	ErrCodeCollision = apperrors.New(apperrors.ErrCodeOrderCodeCollision, "订单号生成冲突，请重试")
)
