package product

import (
	"context"

	"github.com/xiebiao/storefront/internal/domain/product"
)

// ManageProductUseCase 商品维护用例(管理员操作)
// 更新信息、改价、设置折扣、上下架、删除——都是薄编排,
// 规则在领域服务和实体里
type ManageProductUseCase struct {
	productService product.Service
}

// NewManageProductUseCase 创建商品维护用例
func NewManageProductUseCase(productService product.Service) *ManageProductUseCase {
	return &ManageProductUseCase{productService: productService}
}

// UpdateInfoRequest 信息更新请求DTO(空值跳过)
type UpdateInfoRequest struct {
	Name        string
	Description string
	ImageURL    string
	CategoryID  uint
}

// UpdateInfo 更新商品信息
func (uc *ManageProductUseCase) UpdateInfo(ctx context.Context, id uint, req UpdateInfoRequest) error {
	return uc.productService.UpdateProductInfo(ctx, id, req.Name, req.Description, req.ImageURL, req.CategoryID)
}

// UpdatePrice 更新基础价格(不影响已有订单的快照)
func (uc *ManageProductUseCase) UpdatePrice(ctx context.Context, id uint, newPrice int64) error {
	return uc.productService.UpdateProductPrice(ctx, id, newPrice)
}

// SetDiscount 设置折扣价(0表示取消折扣)
func (uc *ManageProductUseCase) SetDiscount(ctx context.Context, id uint, discountPrice int64) error {
	return uc.productService.SetDiscount(ctx, id, discountPrice)
}

// SetActive 上架/下架
func (uc *ManageProductUseCase) SetActive(ctx context.Context, id uint, active bool) error {
	return uc.productService.SetActive(ctx, id, active)
}

// Delete 删除商品(软删除)
func (uc *ManageProductUseCase) Delete(ctx context.Context, id uint) error {
	return uc.productService.DeleteProduct(ctx, id)
}

// GetProductUseCase 商品详情查询用例
type GetProductUseCase struct {
	productService product.Service
}

// NewGetProductUseCase 创建商品详情用例
func NewGetProductUseCase(productService product.Service) *GetProductUseCase {
	return &GetProductUseCase{productService: productService}
}

// Execute 查询商品详情
func (uc *GetProductUseCase) Execute(ctx context.Context, id uint) (*ProductResponse, error) {
	p, err := uc.productService.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}
