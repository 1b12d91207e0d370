package handler

import (
	"github.com/gin-gonic/gin"

	appcategory "github.com/xiebiao/storefront/internal/application/category"
	appwarehouse "github.com/xiebiao/storefront/internal/application/warehouse"
	"github.com/xiebiao/storefront/internal/interface/http/dto"
	"github.com/xiebiao/storefront/pkg/response"
)

// CategoryHandler 分类HTTP处理器
type CategoryHandler struct {
	manageUseCase *appcategory.ManageCategoriesUseCase
}

// NewCategoryHandler 创建分类处理器
func NewCategoryHandler(manageUseCase *appcategory.ManageCategoriesUseCase) *CategoryHandler {
	return &CategoryHandler{manageUseCase: manageUseCase}
}

// Create 创建分类
// @Summary      创建分类
// @Tags         分类
// @Security     BearerAuth
// @Param        request body dto.CreateCategoryRequest true "分类信息"
// @Success      200 {object} response.Response "创建成功"
// @Router       /api/v1/admin/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageUseCase.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Rename 重命名分类
// @Summary      重命名分类
// @Tags         分类
// @Security     BearerAuth
// @Param        id path int true "分类ID"
// @Param        request body dto.RenameCategoryRequest true "新名称"
// @Success      200 {object} response.Response "重命名成功"
// @Router       /api/v1/admin/categories/{id} [put]
func (h *CategoryHandler) Rename(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的分类ID")
		return
	}

	var req dto.RenameCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	if err := h.manageUseCase.Rename(c.Request.Context(), id, req.Name); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "已重命名"})
}

// Delete 删除分类
// @Summary      删除分类
// @Description  商品不级联删除，CategoryID保留作历史线索
// @Tags         分类
// @Security     BearerAuth
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response "删除成功"
// @Router       /api/v1/admin/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的分类ID")
		return
	}

	if err := h.manageUseCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "已删除"})
}

// List 分类列表（公开接口）
// @Summary      分类列表
// @Tags         分类
// @Success      200 {object} response.Response "查询成功"
// @Router       /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	result, err := h.manageUseCase.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// WarehouseHandler 仓库HTTP处理器
type WarehouseHandler struct {
	manageUseCase *appwarehouse.ManageWarehousesUseCase
}

// NewWarehouseHandler 创建仓库处理器
func NewWarehouseHandler(manageUseCase *appwarehouse.ManageWarehousesUseCase) *WarehouseHandler {
	return &WarehouseHandler{manageUseCase: manageUseCase}
}

// Create 创建仓库
// @Summary      创建仓库
// @Tags         仓库
// @Security     BearerAuth
// @Param        request body dto.CreateWarehouseRequest true "仓库信息"
// @Success      200 {object} response.Response "创建成功"
// @Router       /api/v1/admin/warehouses [post]
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req dto.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageUseCase.Create(c.Request.Context(), req.Code, req.Name, req.Address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SetActive 启用/停用仓库
// @Summary      启用/停用仓库
// @Description  停用只拦新订单，历史流水和快照保留
// @Tags         仓库
// @Security     BearerAuth
// @Param        id path int true "仓库ID"
// @Param        request body dto.SetWarehouseActiveRequest true "启用标志"
// @Success      200 {object} response.Response "设置成功"
// @Router       /api/v1/admin/warehouses/{id}/active [put]
func (h *WarehouseHandler) SetActive(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的仓库ID")
		return
	}

	var req dto.SetWarehouseActiveRequest
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

// List 仓库列表（管理员）
// @Summary      仓库列表
// @Tags         仓库
// @Security     BearerAuth
// @Success      200 {object} response.Response "查询成功"
// @Router       /api/v1/admin/warehouses [get]
func (h *WarehouseHandler) List(c *gin.Context) {
	result, err := h.manageUseCase.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
