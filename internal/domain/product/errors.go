package product

import (
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// 商品领域错误定义
var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = apperrors.New(apperrors.ErrCodeProductNotFound, "商品不存在")

	// ErrProductUnavailable 商品不可售(已下架)
	// 下单校验时,"不存在"和"已下架"都折叠成这个错误,不向买家泄露细节
	ErrProductUnavailable = apperrors.New(apperrors.ErrCodeProductUnavailable, "商品不可售")

	// ErrSKUDuplicate SKU已存在
	ErrSKUDuplicate = apperrors.New(apperrors.ErrCodeSKUDuplicate, "SKU已存在")

	// ErrInvalidSKU SKU格式不正确
	ErrInvalidSKU = apperrors.New(apperrors.ErrCodeInvalidParams, "SKU格式不正确")

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "价格必须大于0")

	// ErrInvalidDiscount 无效的折扣价(必须>0且低于基础价)
	ErrInvalidDiscount = apperrors.New(apperrors.ErrCodeInvalidParams, "折扣价必须大于0且低于基础价")
)
