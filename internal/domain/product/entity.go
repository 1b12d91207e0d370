package product

import (
	"time"
)

// Product 商品实体(聚合根)
// DDD设计说明:
// 1. Product是商品聚合的根实体,包含商品的核心属性
// 2. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 3. SKU作为业务唯一标识(数据库层保证唯一性)
// 4. 商品上不存在库存字段——库存是流水账本折算出来的,
//    商品只负责"卖不卖"(Active)和"卖多少钱"
type Product struct {
	ID            uint
	SKU           string // 商品编码(业务唯一标识)
	Name          string // 商品名称
	Description   string // 商品描述
	CategoryID    uint   // 所属分类ID
	Price         int64  // 基础价格(单位:分,1元=100分)
	DiscountPrice *int64 // 折扣价(分),nil表示无折扣
	ImageURL      string // 商品图片URL
	Active        bool   // 上架标志(false=下架,不可下单)
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewProduct 创建新商品(工厂方法)
// 业务规则:价格必须>0,SKU非空(格式由领域服务校验)
func NewProduct(sku, name, description string, categoryID uint, price int64, imageURL string) (*Product, error) {
	if sku == "" {
		return nil, ErrInvalidSKU
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}

	now := time.Now()
	return &Product{
		SKU:         sku,
		Name:        name,
		Description: description,
		CategoryID:  categoryID,
		Price:       price,
		ImageURL:    imageURL,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// EffectivePrice 生效价格:折扣价优先,否则基础价
// 下单时读这个值冻结进订单快照——之后的改价不影响历史订单
func (p *Product) EffectivePrice() int64 {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// IsAvailable 是否可售(下单校验用)
func (p *Product) IsAvailable() bool {
	return p.Active
}

// UpdatePrice 更新基础价格(领域行为)
// 业务规则:价格必须>0
func (p *Product) UpdatePrice(newPrice int64) error {
	if newPrice <= 0 {
		return ErrInvalidPrice
	}
	p.Price = newPrice
	p.UpdatedAt = time.Now()
	return nil
}

// SetDiscount 设置折扣价
// 业务规则:折扣价必须>0且低于基础价
func (p *Product) SetDiscount(discountPrice int64) error {
	if discountPrice <= 0 || discountPrice >= p.Price {
		return ErrInvalidDiscount
	}
	p.DiscountPrice = &discountPrice
	p.UpdatedAt = time.Now()
	return nil
}

// ClearDiscount 取消折扣
func (p *Product) ClearDiscount() {
	p.DiscountPrice = nil
	p.UpdatedAt = time.Now()
}

// Activate 上架
func (p *Product) Activate() {
	p.Active = true
	p.UpdatedAt = time.Now()
}

// Deactivate 下架(已有订单的快照不受影响)
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
}

// UpdateInfo 更新商品基本信息(空值跳过)
func (p *Product) UpdateInfo(name, description, imageURL string, categoryID uint) {
	if name != "" {
		p.Name = name
	}
	if description != "" {
		p.Description = description
	}
	if imageURL != "" {
		p.ImageURL = imageURL
	}
	if categoryID != 0 {
		p.CategoryID = categoryID
	}
	p.UpdatedAt = time.Now()
}
