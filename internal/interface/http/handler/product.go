package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appproduct "github.com/xiebiao/storefront/internal/application/product"
	"github.com/xiebiao/storefront/internal/interface/http/dto"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	"github.com/xiebiao/storefront/pkg/response"
)

// ProductHandler 商品HTTP处理器
type ProductHandler struct {
	createUseCase *appproduct.CreateProductUseCase
	manageUseCase *appproduct.ManageProductUseCase
	getUseCase    *appproduct.GetProductUseCase
	listUseCase   *appproduct.ListProductsUseCase
}

// NewProductHandler 创建商品处理器
func NewProductHandler(
	createUseCase *appproduct.CreateProductUseCase,
	manageUseCase *appproduct.ManageProductUseCase,
	getUseCase *appproduct.GetProductUseCase,
	listUseCase *appproduct.ListProductsUseCase,
) *ProductHandler {
	return &ProductHandler{
		createUseCase: createUseCase,
		manageUseCase: manageUseCase,
		getUseCase:    getUseCase,
		listUseCase:   listUseCase,
	}
}

// Create 创建商品
// @Summary      创建商品
// @Description  管理员创建商品（SKU全局唯一，价格单位为分）
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateProductRequest true "商品信息"
// @Success      200 {object} response.Response "创建成功"
// @Router       /api/v1/admin/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), appproduct.CreateProductRequest{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Get 商品详情
// @Summary      商品详情
// @Tags         商品
// @Produce      json
// @Param        id path int true "商品ID"
// @Success      200 {object} response.Response "查询成功"
// @Router       /api/v1/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的商品ID")
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// List 商品列表
// @Summary      商品列表
// @Description  前台只看在售商品;管理员带Token访问时可以看全部
// @Tags         商品
// @Produce      json
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Param        keyword query string false "搜索关键词（名称/SKU）"
// @Param        category_id query int false "分类过滤"
// @Param        sort_by query string false "排序（price_asc/price_desc/created_at_desc）"
// @Success      200 {object} response.Response "查询成功"
// @Router       /api/v1/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var query dto.ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appproduct.ListProductsRequest{
		Page:       query.Page,
		PageSize:   query.PageSize,
		Keyword:    query.Keyword,
		CategoryID: query.CategoryID,
		OnlyActive: !middleware.IsAdmin(c),
		SortBy:     query.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateInfo 更新商品信息
// @Summary      更新商品信息
// @Tags         商品
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Param        request body dto.UpdateProductRequest true "更新内容"
// @Success      200 {object} response.Response "更新成功"
// @Router       /api/v1/admin/products/{id} [put]
func (h *ProductHandler) UpdateInfo(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的商品ID")
		return
	}

	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	if err := h.manageUseCase.UpdateInfo(c.Request.Context(), id, appproduct.UpdateInfoRequest{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
	}); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "更新成功"})
}

// UpdatePrice 改价
// 改价不影响已有订单的快照金额
// @Summary      更新商品价格
// @Tags         商品
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Param        request body dto.UpdatePriceRequest true "新价格（分）"
// @Success      200 {object} response.Response "更新成功"
// @Router       /api/v1/admin/products/{id}/price [put]
func (h *ProductHandler) UpdatePrice(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的商品ID")
		return
	}

	var req dto.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	if err := h.manageUseCase.UpdatePrice(c.Request.Context(), id, req.Price); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "价格已更新"})
}

// SetDiscount 设置折扣价
// @Summary      设置折扣价
// @Description  折扣价必须大于0且低于基础价；传0取消折扣
// @Tags         商品
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Param        request body dto.SetDiscountRequest true "折扣价（分）"
// @Success      200 {object} response.Response "设置成功"
// @Router       /api/v1/admin/products/{id}/discount [put]
func (h *ProductHandler) SetDiscount(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的商品ID")
		return
	}

	var req dto.SetDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	if err := h.manageUseCase.SetDiscount(c.Request.Context(), id, req.DiscountPrice); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "折扣已设置"})
}

// SetActive 上架/下架
// @Summary      上架/下架商品
// @Tags         商品
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Param        request body dto.SetActiveRequest true "上架标志"
// @Success      200 {object} response.Response "设置成功"
// @Router       /api/v1/admin/products/{id}/active [put]
func (h *ProductHandler) SetActive(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的商品ID")
		return
	}

	var req dto.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	if err := h.manageUseCase.SetActive(c.Request.Context(), id, *req.Active); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "状态已更新"})
}

// Delete 删除商品
// @Summary      删除商品（软删除）
// @Tags         商品
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Success      200 {object} response.Response "删除成功"
// @Router       /api/v1/admin/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的商品ID")
		return
	}

	if err := h.manageUseCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "已删除"})
}

// parseUintParam 解析路径中的数字ID
func parseUintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
