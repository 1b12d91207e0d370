package category

import (
	"context"

	"github.com/xiebiao/storefront/internal/domain/category"
)

// ManageCategoriesUseCase 分类维护用例(管理员操作)
type ManageCategoriesUseCase struct {
	repo category.Repository
}

// NewManageCategoriesUseCase 创建分类维护用例
func NewManageCategoriesUseCase(repo category.Repository) *ManageCategoriesUseCase {
	return &ManageCategoriesUseCase{repo: repo}
}

// CategoryResponse 分类DTO
type CategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// Create 创建分类
func (uc *ManageCategoriesUseCase) Create(ctx context.Context, name, description string) (*CategoryResponse, error) {
	c, err := category.NewCategory(name, description)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// Rename 重命名分类
func (uc *ManageCategoriesUseCase) Rename(ctx context.Context, id uint, name string) error {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := c.Rename(name); err != nil {
		return err
	}
	return uc.repo.Update(ctx, c)
}

// Delete 删除分类(商品不级联删除,CategoryID保留作历史线索)
func (uc *ManageCategoriesUseCase) Delete(ctx context.Context, id uint) error {
	if _, err := uc.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// List 查询全部分类(分类数量少,不分页)
func (uc *ManageCategoriesUseCase) List(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		list[i] = *toCategoryResponse(c)
	}
	return list, nil
}

func toCategoryResponse(c *category.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
