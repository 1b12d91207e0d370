package dto

// PlaceOrderRequest 下单请求
type PlaceOrderRequest struct {
	WarehouseID uint             `json:"warehouse_id" binding:"required"`
	Customer    OrderCustomer    `json:"customer" binding:"required"`
	Items       []PlaceOrderItem `json:"items" binding:"required,min=1,dive"`
}

// OrderCustomer 收货人信息
// City可选,其余必填(与领域层的IsComplete校验一致)
type OrderCustomer struct {
	FullName string `json:"full_name" binding:"required,min=1,max=50"`
	Phone    string `json:"phone" binding:"required,min=5,max=20"`
	Address  string `json:"address" binding:"required,min=1,max=255"`
	City     string `json:"city" binding:"max=50"`
}

// PlaceOrderItem 购物车明细项
type PlaceOrderItem struct {
	ProductID uint  `json:"product_id" binding:"required"`
	Quantity  int64 `json:"quantity" binding:"required,gt=0"`
}

// SetOrderStatusRequest 订单状态流转请求
// status取值：confirmed | shipped | delivered | cancelled
type SetOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed shipped delivered cancelled"`
}

// ListOrdersQuery 订单列表查询参数
// status仅管理员生效：1新建 2已确认 3已发货 4已送达 5已取消，0全部
type ListOrdersQuery struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=20"`
	Status   int `form:"status,default=0" binding:"gte=0,lte=5"`
}
