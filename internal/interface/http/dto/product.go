package dto

// CreateProductRequest 创建商品请求（管理员）
// 价格单位是"分"，1元=100分
type CreateProductRequest struct {
	SKU         string `json:"sku" binding:"required,min=2,max=32"`
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
	CategoryID  uint   `json:"category_id"`
	Price       int64  `json:"price" binding:"required,gt=0"`
	ImageURL    string `json:"image_url" binding:"max=500"`
}

// UpdateProductRequest 更新商品信息请求（空字段跳过）
type UpdateProductRequest struct {
	Name        string `json:"name" binding:"max=200"`
	Description string `json:"description" binding:"max=2000"`
	ImageURL    string `json:"image_url" binding:"max=500"`
	CategoryID  uint   `json:"category_id"`
}

// UpdatePriceRequest 改价请求
type UpdatePriceRequest struct {
	Price int64 `json:"price" binding:"required,gt=0"`
}

// SetDiscountRequest 设置折扣价请求（0表示取消折扣）
type SetDiscountRequest struct {
	DiscountPrice int64 `json:"discount_price" binding:"gte=0"`
}

// SetActiveRequest 上架/下架请求
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// ListProductsQuery 商品列表查询参数
type ListProductsQuery struct {
	Page       int    `form:"page,default=1"`
	PageSize   int    `form:"page_size,default=20"`
	Keyword    string `form:"keyword"`
	CategoryID uint   `form:"category_id"`
	SortBy     string `form:"sort_by"`
}
