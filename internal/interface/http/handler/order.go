package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/storefront/internal/application/order"
	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/interface/http/dto"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	"github.com/xiebiao/storefront/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	placeUseCase     *apporder.PlaceOrderUseCase
	setStatusUseCase *apporder.SetStatusUseCase
	listUseCase      *apporder.ListOrdersUseCase
	getUseCase       *apporder.GetOrderUseCase
	trackUseCase     *apporder.TrackOrderUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	placeUseCase *apporder.PlaceOrderUseCase,
	setStatusUseCase *apporder.SetStatusUseCase,
	listUseCase *apporder.ListOrdersUseCase,
	getUseCase *apporder.GetOrderUseCase,
	trackUseCase *apporder.TrackOrderUseCase,
) *OrderHandler {
	return &OrderHandler{
		placeUseCase:     placeUseCase,
		setStatusUseCase: setStatusUseCase,
		listUseCase:      listUseCase,
		getUseCase:       getUseCase,
		trackUseCase:     trackUseCase,
	}
}

// statusNames 请求里的状态名→领域状态值
// 注意:没有"new"——NEW只能由下单产生,不能流转进入
var statusNames = map[string]order.Status{
	"confirmed": order.StatusConfirmed,
	"shipped":   order.StatusShipped,
	"delivered": order.StatusDelivered,
	"cancelled": order.StatusCancelled,
}

// actorFrom 从认证信息构造操作者凭证
func actorFrom(c *gin.Context) apporder.Actor {
	return apporder.Actor{
		UserID: middleware.GetUserID(c),
		Admin:  middleware.IsAdmin(c),
	}
}

// Place 下单
// @Summary      创建订单
// @Description  货到付款下单。悲观锁预留库存防超卖，价格按下单时刻冻结进快照
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PlaceOrderRequest true "订单信息"
// @Success      200 {object} response.Response "下单成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/orders [post]
//
// 防超卖的实现方案：悲观锁（SELECT FOR UPDATE）
// 1. 开启数据库事务
// 2. 按商品ID升序锁定(仓库,商品)的库存快照行
// 3. 锁内折算账本检查库存是否充足
// 4. 创建订单 + 追加出库流水 + 更新快照
// 5. 提交事务释放锁
//
// 为什么不用乐观锁（Version字段）？
// - 高并发场景下，乐观锁会导致大量重试，用户体验差
// - 悲观锁虽然性能略低，但能保证一次成功，更适合抢购场景
func (h *OrderHandler) Place(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	// 2. 获取当前登录用户ID
	userID := middleware.MustGetUserID(c)

	// 3. 转换为应用层DTO
	items := make([]apporder.PlaceOrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = apporder.PlaceOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	// 4. 调用应用层用例
	result, err := h.placeUseCase.Execute(c.Request.Context(), apporder.PlaceOrderRequest{
		UserID:      userID,
		WarehouseID: req.WarehouseID,
		Customer: apporder.CustomerInfo{
			FullName: req.Customer.FullName,
			Phone:    req.Customer.Phone,
			Address:  req.Customer.Address,
			City:     req.Customer.City,
		},
		Items: items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SetStatus 订单状态流转
// @Summary      订单状态流转
// @Description  确认/发货/送达是管理员操作；取消可由管理员或订单本人发起，取消时按明细快照回补库存
// @Tags         订单
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Param        request body dto.SetOrderStatusRequest true "目标状态"
// @Success      200 {object} response.Response "流转成功"
// @Failure      40002 {object} response.Response "状态不允许此操作"
// @Router       /api/v1/orders/{id}/status [put]
func (h *OrderHandler) SetStatus(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的订单ID")
		return
	}

	var req dto.SetOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	target, ok := statusNames[req.Status]
	if !ok {
		response.ErrorWithCode(c, 40900, "无效的目标状态")
		return
	}

	result, err := h.setStatusUseCase.Execute(c.Request.Context(), actorFrom(c), id, target)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// List 订单列表
// @Summary      订单列表
// @Description  买家查自己的订单；管理员可按状态查全部
// @Tags         订单
// @Security     BearerAuth
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Param        status query int false "状态过滤（仅管理员，0全部）"
// @Success      200 {object} response.Response "查询成功"
// @Router       /api/v1/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var query dto.ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), actorFrom(c), apporder.ListOrdersRequest{
		Page:     query.Page,
		PageSize: query.PageSize,
		Status:   order.Status(query.Status),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Get 订单详情
// @Summary      订单详情
// @Description  本人或管理员可见，其他人一律404
// @Tags         订单
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response "查询成功"
// @Router       /api/v1/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的订单ID")
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Track 订单跟踪（公开接口）
// @Summary      订单跟踪
// @Description  凭订单号查询订单概要，不需要登录。订单号带随机段不可遍历
// @Tags         订单
// @Param        code path string true "订单号"
// @Success      200 {object} response.Response "查询成功"
// @Failure      40403 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/track/{code} [get]
func (h *OrderHandler) Track(c *gin.Context) {
	result, err := h.trackUseCase.Execute(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
