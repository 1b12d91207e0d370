package category

import (
	"context"
	"time"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// Category 商品分类实体
// 单层分类,商品通过CategoryID归属;分类删除不级联删除商品
type Category struct {
	ID          uint
	Name        string // 分类名称(唯一)
	Description string // 分类描述
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCategory 创建分类(工厂方法)
func NewCategory(name, description string) (*Category, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	now := time.Now()
	return &Category{
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Rename 重命名分类
func (c *Category) Rename(name string) error {
	if name == "" {
		return ErrInvalidName
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	return nil
}

// 分类领域错误定义
var (
	// ErrCategoryNotFound 分类不存在
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeCategoryNotFound, "分类不存在")

	// ErrNameDuplicate 分类名称已存在
	ErrNameDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "分类名称已存在")

	// ErrInvalidName 分类名称不合法
	ErrInvalidName = apperrors.New(apperrors.ErrCodeInvalidParams, "分类名称不能为空")
)

// Repository 分类仓储接口
type Repository interface {
	Create(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, id uint) (*Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*Category, error)
}
