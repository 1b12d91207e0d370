package product

import (
	"context"

	"github.com/xiebiao/storefront/internal/domain/product"
)

// ListProductsUseCase 商品列表查询用例
// 商城前台只看在售商品,后台看全部;支持分页、搜索、分类过滤、排序
type ListProductsUseCase struct {
	productService product.Service
}

// NewListProductsUseCase 创建列表查询用例
func NewListProductsUseCase(productService product.Service) *ListProductsUseCase {
	return &ListProductsUseCase{
		productService: productService,
	}
}

// ListProductsRequest 列表查询请求DTO
type ListProductsRequest struct {
	Page       int
	PageSize   int
	Keyword    string
	CategoryID uint
	OnlyActive bool
	SortBy     string // price_asc, price_desc, created_at_desc
}

// ProductListItem 列表项DTO(不含description)
type ProductListItem struct {
	ID             uint   `json:"id"`
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	CategoryID     uint   `json:"category_id"`
	Price          int64  `json:"price"`
	DiscountPrice  *int64 `json:"discount_price,omitempty"`
	EffectivePrice int64  `json:"effective_price"`
	ImageURL       string `json:"image_url"`
	Active         bool   `json:"active"`
	CreatedAt      string `json:"created_at"`
}

// ListProductsResponse 列表查询响应DTO
type ListProductsResponse struct {
	List       []ProductListItem `json:"list"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// Execute 执行列表查询
func (uc *ListProductsUseCase) Execute(ctx context.Context, req ListProductsRequest) (*ListProductsResponse, error) {
	// 参数默认值与范围限制
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	params := product.ListParams{
		Page:       req.Page,
		PageSize:   req.PageSize,
		Keyword:    req.Keyword,
		CategoryID: req.CategoryID,
		OnlyActive: req.OnlyActive,
		SortBy:     req.SortBy,
	}

	products, total, err := uc.productService.ListProducts(ctx, params)
	if err != nil {
		return nil, err
	}

	list := make([]ProductListItem, len(products))
	for i, p := range products {
		list[i] = ProductListItem{
			ID:             p.ID,
			SKU:            p.SKU,
			Name:           p.Name,
			CategoryID:     p.CategoryID,
			Price:          p.Price,
			DiscountPrice:  p.DiscountPrice,
			EffectivePrice: p.EffectivePrice(),
			ImageURL:       p.ImageURL,
			Active:         p.Active,
			CreatedAt:      p.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize != 0 {
		totalPages++
	}

	return &ListProductsResponse{
		List:       list,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}
