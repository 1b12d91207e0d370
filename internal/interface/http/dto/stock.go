package dto

// ReceiveStockRequest 采购入库请求（管理员）
type ReceiveStockRequest struct {
	WarehouseID uint   `json:"warehouse_id" binding:"required"`
	ProductID   uint   `json:"product_id" binding:"required"`
	Quantity    int64  `json:"quantity" binding:"required,gt=0"`
	RefID       uint   `json:"ref_id"`
	Note        string `json:"note" binding:"max=255"`
}

// AdjustStockRequest 盘点调整请求（管理员）
// Delta带符号：正=盘盈，负=盘亏；不允许为0
type AdjustStockRequest struct {
	WarehouseID uint   `json:"warehouse_id" binding:"required"`
	ProductID   uint   `json:"product_id" binding:"required"`
	Delta       int64  `json:"delta" binding:"required"`
	Note        string `json:"note" binding:"max=255"`
}

// StockQuery 库存/流水查询参数
type StockQuery struct {
	WarehouseID uint `form:"warehouse_id" binding:"required"`
	ProductID   uint `form:"product_id" binding:"required"`
	Page        int  `form:"page,default=1"`
	PageSize    int  `form:"page_size,default=20"`
}
