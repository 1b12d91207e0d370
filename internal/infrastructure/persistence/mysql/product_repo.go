package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/storefront/internal/domain/product"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// productRepository 商品仓储实现(MySQL)
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepository{db: db}
}

// Create 创建商品
// SKU撞唯一索引翻译成领域错误ErrSKUDuplicate
func (r *productRepository) Create(ctx context.Context, p *product.Product) error {
	model := toProductModel(p)

	db := r.getDB(ctx)
	if err := db.Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return product.ErrSKUDuplicate
		}
		return apperrors.Wrap(err, "创建商品失败")
	}

	p.ID = model.ID
	return nil
}

// FindByID 根据ID查找商品
func (r *productRepository) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	var model ProductModel

	db := r.getDB(ctx)
	err := db.First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "查询商品失败")
	}

	return toProductEntity(&model), nil
}

// FindBySKU 根据SKU查找商品
func (r *productRepository) FindBySKU(ctx context.Context, sku string) (*product.Product, error) {
	var model ProductModel

	db := r.getDB(ctx)
	err := db.Where("sku = ?", sku).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "查询商品失败")
	}

	return toProductEntity(&model), nil
}

// FindActiveByID 查找在售商品(下单校验入口)
// 教学要点:"不存在"和"已下架"折叠成同一个ErrProductUnavailable,
// 不向买家泄露商品是下架了还是从来没有过
func (r *productRepository) FindActiveByID(ctx context.Context, id uint) (*product.Product, error) {
	var model ProductModel

	db := r.getDB(ctx)
	err := db.Where("id = ? AND active = ?", id, true).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductUnavailable
		}
		return nil, apperrors.Wrap(err, "查询商品失败")
	}

	return toProductEntity(&model), nil
}

// Update 更新商品信息
// 教学要点:用Save全量更新,DiscountPrice为nil时要能把列写回NULL,
// Updates的map方式会跳过零值,Save不会
func (r *productRepository) Update(ctx context.Context, p *product.Product) error {
	model := toProductModel(p)

	db := r.getDB(ctx)
	result := db.Model(&ProductModel{}).Where("id = ?", p.ID).
		Select("name", "description", "category_id", "price", "discount_price", "image_url", "active", "updated_at").
		Updates(model)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新商品失败")
	}

	if result.RowsAffected == 0 {
		return product.ErrProductNotFound
	}

	return nil
}

// Delete 删除商品(软删除)
// GORM识别到DeletedAt字段后,Delete只是UPDATE deleted_at
// 历史订单里的商品快照不受影响
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)

	result := db.Delete(&ProductModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除商品失败")
	}

	if result.RowsAffected == 0 {
		return product.ErrProductNotFound
	}

	return nil
}

// List 分页查询商品列表
// 教学要点:
// 1. 动态组合查询条件(关键词、分类、在售状态)
// 2. 排序字段用白名单映射,不把用户输入直接拼进ORDER BY
func (r *productRepository) List(ctx context.Context, params product.ListParams) ([]*product.Product, int64, error) {
	var models []ProductModel
	var total int64

	db := r.getDB(ctx)
	query := db.Model(&ProductModel{})

	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		query = query.Where("name LIKE ? OR sku LIKE ?", keyword, keyword)
	}
	if params.CategoryID != 0 {
		query = query.Where("category_id = ?", params.CategoryID)
	}
	if params.OnlyActive {
		query = query.Where("active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询商品总数失败")
	}

	// 排序白名单
	orderBy := "created_at DESC"
	switch params.SortBy {
	case "price_asc":
		orderBy = "price ASC"
	case "price_desc":
		orderBy = "price DESC"
	case "created_at_desc":
		orderBy = "created_at DESC"
	}

	offset := (params.Page - 1) * params.PageSize
	err := query.Order(orderBy).
		Limit(params.PageSize).
		Offset(offset).
		Find(&models).Error

	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询商品列表失败")
	}

	products := make([]*product.Product, len(models))
	for i, model := range models {
		products[i] = toProductEntity(&model)
	}

	return products, total, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toProductModel 领域实体 → GORM模型
func toProductModel(p *product.Product) *ProductModel {
	return &ProductModel{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		ImageURL:      p.ImageURL,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// toProductEntity GORM模型 → 领域实体
func toProductEntity(model *ProductModel) *product.Product {
	return &product.Product{
		ID:            model.ID,
		SKU:           model.SKU,
		Name:          model.Name,
		Description:   model.Description,
		CategoryID:    model.CategoryID,
		Price:         model.Price,
		DiscountPrice: model.DiscountPrice,
		ImageURL:      model.ImageURL,
		Active:        model.Active,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *productRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
