package product

import (
	"context"

	"github.com/xiebiao/storefront/internal/domain/product"
)

// CreateProductUseCase 商品创建用例(管理员操作)
// 设计说明:
// 1. 应用层负责用例编排,协调领域服务完成业务流程
// 2. 输入输出使用DTO(Data Transfer Object),与HTTP层解耦
type CreateProductUseCase struct {
	productService product.Service
}

// NewCreateProductUseCase 创建商品创建用例
func NewCreateProductUseCase(productService product.Service) *CreateProductUseCase {
	return &CreateProductUseCase{
		productService: productService,
	}
}

// CreateProductRequest 创建请求DTO
type CreateProductRequest struct {
	SKU         string // 商品编码
	Name        string // 商品名称
	Description string // 商品描述
	CategoryID  uint   // 所属分类
	Price       int64  // 基础价格(分)
	ImageURL    string // 商品图片URL
}

// ProductResponse 商品DTO
type ProductResponse struct {
	ID            uint   `json:"id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	CategoryID    uint   `json:"category_id"`
	Price         int64  `json:"price"`
	DiscountPrice *int64 `json:"discount_price,omitempty"`
	EffectivePrice int64 `json:"effective_price"`
	ImageURL      string `json:"image_url"`
	Active        bool   `json:"active"`
	CreatedAt     string `json:"created_at"`
}

// Execute 执行商品创建
// 业务规则校验(SKU格式、价格范围、SKU重复)由领域服务负责
func (uc *CreateProductUseCase) Execute(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	p, err := uc.productService.CreateProduct(
		ctx,
		req.SKU,
		req.Name,
		req.Description,
		req.CategoryID,
		req.Price,
		req.ImageURL,
	)
	if err != nil {
		return nil, err
	}

	return toProductResponse(p), nil
}

// toProductResponse 领域实体→DTO
func toProductResponse(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:             p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		Description:    p.Description,
		CategoryID:     p.CategoryID,
		Price:          p.Price,
		DiscountPrice:  p.DiscountPrice,
		EffectivePrice: p.EffectivePrice(),
		ImageURL:       p.ImageURL,
		Active:         p.Active,
		CreatedAt:      p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
