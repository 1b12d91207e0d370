package dto

// CreateCategoryRequest 创建分类请求（管理员）
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=50"`
	Description string `json:"description" binding:"max=255"`
}

// RenameCategoryRequest 重命名分类请求
type RenameCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

// CreateWarehouseRequest 创建仓库请求（管理员）
type CreateWarehouseRequest struct {
	Code    string `json:"code" binding:"required,min=2,max=32"`
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Address string `json:"address" binding:"max=255"`
}

// SetWarehouseActiveRequest 启用/停用仓库请求
type SetWarehouseActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
