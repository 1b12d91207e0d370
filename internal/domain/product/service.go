package product

import (
	"context"
	"errors"
	"regexp"
)

// Service 商品领域服务接口
// 设计说明:
// 1. 领域服务封装跨实体的业务逻辑和业务规则校验
// 2. 不依赖具体的Repository实现(依赖倒置)
type Service interface {
	// CreateProduct 创建商品(上架)
	// 业务规则:
	// - SKU格式必须合法(2-32位字母/数字/连字符)
	// - 价格必须在1-99999999分之间
	// - SKU不能重复
	CreateProduct(ctx context.Context, sku, name, description string, categoryID uint, price int64, imageURL string) (*Product, error)

	// GetProductByID 根据ID获取商品详情
	GetProductByID(ctx context.Context, id uint) (*Product, error)

	// GetProductBySKU 根据SKU获取商品
	GetProductBySKU(ctx context.Context, sku string) (*Product, error)

	// UpdateProductInfo 更新商品信息
	UpdateProductInfo(ctx context.Context, id uint, name, description, imageURL string, categoryID uint) error

	// UpdateProductPrice 更新基础价格
	UpdateProductPrice(ctx context.Context, id uint, newPrice int64) error

	// SetDiscount 设置折扣价(discountPrice=0表示取消折扣)
	SetDiscount(ctx context.Context, id uint, discountPrice int64) error

	// SetActive 上架/下架
	// 下架不影响已有订单——订单里存的是快照
	SetActive(ctx context.Context, id uint, active bool) error

	// DeleteProduct 删除商品(软删除)
	DeleteProduct(ctx context.Context, id uint) error

	// ListProducts 分页查询商品列表
	ListProducts(ctx context.Context, params ListParams) ([]*Product, int64, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建商品领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateProduct 创建商品
func (s *service) CreateProduct(ctx context.Context, sku, name, description string, categoryID uint, price int64, imageURL string) (*Product, error) {
	// 1. SKU格式校验
	if !isValidSKU(sku) {
		return nil, ErrInvalidSKU
	}

	// 2. 价格范围校验(1分-999999.99元)
	if price < 1 || price > 99999999 {
		return nil, ErrInvalidPrice
	}

	// 3. 检查SKU是否已存在
	existing, err := s.repo.FindBySKU(ctx, sku)
	if err == nil && existing != nil {
		return nil, ErrSKUDuplicate
	}
	if err != nil && !errors.Is(err, ErrProductNotFound) {
		return nil, err
	}

	// 4. 创建商品实体
	p, err := NewProduct(sku, name, description, categoryID, price, imageURL)
	if err != nil {
		return nil, err
	}

	// 5. 持久化(唯一索引兜底并发下的SKU重复)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// GetProductByID 根据ID获取商品
func (s *service) GetProductByID(ctx context.Context, id uint) (*Product, error) {
	return s.repo.FindByID(ctx, id)
}

// GetProductBySKU 根据SKU获取商品
func (s *service) GetProductBySKU(ctx context.Context, sku string) (*Product, error) {
	if !isValidSKU(sku) {
		return nil, ErrInvalidSKU
	}
	return s.repo.FindBySKU(ctx, sku)
}

// UpdateProductInfo 更新商品信息
func (s *service) UpdateProductInfo(ctx context.Context, id uint, name, description, imageURL string, categoryID uint) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	p.UpdateInfo(name, description, imageURL, categoryID)
	return s.repo.Update(ctx, p)
}

// UpdateProductPrice 更新基础价格
func (s *service) UpdateProductPrice(ctx context.Context, id uint, newPrice int64) error {
	if newPrice < 1 || newPrice > 99999999 {
		return ErrInvalidPrice
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := p.UpdatePrice(newPrice); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

// SetDiscount 设置或取消折扣价
func (s *service) SetDiscount(ctx context.Context, id uint, discountPrice int64) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if discountPrice == 0 {
		p.ClearDiscount()
	} else if err := p.SetDiscount(discountPrice); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

// SetActive 上架/下架
func (s *service) SetActive(ctx context.Context, id uint, active bool) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if active {
		p.Activate()
	} else {
		p.Deactivate()
	}
	return s.repo.Update(ctx, p)
}

// DeleteProduct 删除商品
func (s *service) DeleteProduct(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ListProducts 分页查询商品列表
func (s *service) ListProducts(ctx context.Context, params ListParams) ([]*Product, int64, error) {
	return s.repo.List(ctx, params)
}

// =========================================
// 辅助函数:业务规则校验
// =========================================

var skuPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{1,31}$`)

// isValidSKU 校验SKU格式(2-32位字母/数字/连字符,连字符不能开头)
func isValidSKU(sku string) bool {
	return skuPattern.MatchString(sku)
}
