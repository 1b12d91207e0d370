package handler

import (
	"github.com/gin-gonic/gin"

	appstock "github.com/xiebiao/storefront/internal/application/stock"
	"github.com/xiebiao/storefront/internal/interface/http/dto"
	"github.com/xiebiao/storefront/pkg/response"
)

// StockHandler 库存HTTP处理器（全部是管理员接口）
// 教学要点:库存没有"设置为N"的接口——所有变化都走流水,
// 查询都走账本折算,这是账本模型对外的全部表面
type StockHandler struct {
	currentUseCase *appstock.CurrentStockUseCase
	receiveUseCase *appstock.ReceiveStockUseCase
	adjustUseCase  *appstock.AdjustStockUseCase
	listUseCase    *appstock.ListMovementsUseCase
}

// NewStockHandler 创建库存处理器
func NewStockHandler(
	currentUseCase *appstock.CurrentStockUseCase,
	receiveUseCase *appstock.ReceiveStockUseCase,
	adjustUseCase *appstock.AdjustStockUseCase,
	listUseCase *appstock.ListMovementsUseCase,
) *StockHandler {
	return &StockHandler{
		currentUseCase: currentUseCase,
		receiveUseCase: receiveUseCase,
		adjustUseCase:  adjustUseCase,
		listUseCase:    listUseCase,
	}
}

// Current 查询当前库存
// @Summary      查询当前库存
// @Description  按流水折算(IN−OUT+ADJUST)，同时返回快照缓存值用于对账
// @Tags         库存
// @Security     BearerAuth
// @Param        warehouse_id query int true "仓库ID"
// @Param        product_id query int true "商品ID"
// @Success      200 {object} response.Response "查询成功"
// @Router       /api/v1/admin/stock [get]
func (h *StockHandler) Current(c *gin.Context) {
	var query dto.StockQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.currentUseCase.Execute(c.Request.Context(), query.WarehouseID, query.ProductID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Receive 采购入库
// @Summary      采购入库
// @Description  追加一条IN流水（来源PURCHASE），下架商品也可以补货
// @Tags         库存
// @Security     BearerAuth
// @Param        request body dto.ReceiveStockRequest true "入库信息"
// @Success      200 {object} response.Response "入库成功"
// @Router       /api/v1/admin/stock/receive [post]
func (h *StockHandler) Receive(c *gin.Context) {
	var req dto.ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.receiveUseCase.Execute(c.Request.Context(), appstock.ReceiveStockRequest{
		WarehouseID: req.WarehouseID,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		RefID:       req.RefID,
		Note:        req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Adjust 盘点调整
// @Summary      盘点调整
// @Description  delta为正追加ADJUST流水（盘盈），为负追加OUT流水（盘亏）；盘亏可以把账面推成负数
// @Tags         库存
// @Security     BearerAuth
// @Param        request body dto.AdjustStockRequest true "调整信息"
// @Success      200 {object} response.Response "调整成功"
// @Router       /api/v1/admin/stock/adjust [post]
func (h *StockHandler) Adjust(c *gin.Context) {
	var req dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.adjustUseCase.Execute(c.Request.Context(), appstock.AdjustStockRequest{
		WarehouseID: req.WarehouseID,
		ProductID:   req.ProductID,
		Delta:       req.Delta,
		Note:        req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Movements 流水列表
// @Summary      库存流水列表
// @Description  审计/对账界面，最新流水在前
// @Tags         库存
// @Security     BearerAuth
// @Param        warehouse_id query int true "仓库ID"
// @Param        product_id query int true "商品ID"
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response "查询成功"
// @Router       /api/v1/admin/stock/movements [get]
func (h *StockHandler) Movements(c *gin.Context) {
	var query dto.StockQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appstock.ListMovementsRequest{
		WarehouseID: query.WarehouseID,
		ProductID:   query.ProductID,
		Page:        query.Page,
		PageSize:    query.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
