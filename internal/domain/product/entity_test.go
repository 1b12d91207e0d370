package product

import (
	"errors"
	"testing"
)

// TestNewProduct 测试商品创建
func TestNewProduct(t *testing.T) {
	p, err := NewProduct("SKU-001", "咖啡豆", "深烘", 3, 5900, "")
	if err != nil {
		t.Fatalf("期望创建成功，实际失败: %v", err)
	}
	if !p.Active {
		t.Error("新商品应该默认上架")
	}
	if p.DiscountPrice != nil {
		t.Error("新商品不应该有折扣价")
	}
}

// TestNewProduct_Invalid 非法参数必须被拒绝
func TestNewProduct_Invalid(t *testing.T) {
	if _, err := NewProduct("", "无SKU", "", 1, 100, ""); !errors.Is(err, ErrInvalidSKU) {
		t.Errorf("空SKU期望ErrInvalidSKU，实际%v", err)
	}
	for _, price := range []int64{0, -100} {
		if _, err := NewProduct("SKU-002", "价格非法", "", 1, price, ""); !errors.Is(err, ErrInvalidPrice) {
			t.Errorf("价格%d期望ErrInvalidPrice，实际%v", price, err)
		}
	}
}

// TestEffectivePrice 折扣价优先于基础价
func TestEffectivePrice(t *testing.T) {
	p := &Product{Price: 5900}
	if got := p.EffectivePrice(); got != 5900 {
		t.Errorf("无折扣时期望基础价5900，实际%d", got)
	}

	if err := p.SetDiscount(4900); err != nil {
		t.Fatalf("设置折扣失败: %v", err)
	}
	if got := p.EffectivePrice(); got != 4900 {
		t.Errorf("有折扣时期望4900，实际%d", got)
	}

	p.ClearDiscount()
	if got := p.EffectivePrice(); got != 5900 {
		t.Errorf("取消折扣后期望回到5900，实际%d", got)
	}
}

// TestSetDiscount_Invalid 折扣价必须>0且低于基础价
func TestSetDiscount_Invalid(t *testing.T) {
	p := &Product{Price: 5900}
	for _, d := range []int64{0, -1, 5900, 6000} {
		if err := p.SetDiscount(d); !errors.Is(err, ErrInvalidDiscount) {
			t.Errorf("折扣%d期望ErrInvalidDiscount，实际%v", d, err)
		}
	}
	if p.DiscountPrice != nil {
		t.Error("设置失败不应该留下折扣价")
	}
}

// TestUpdatePrice 改价只改基础价,折扣价保留
func TestUpdatePrice(t *testing.T) {
	p := &Product{Price: 5900}
	if err := p.UpdatePrice(0); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("价格0期望ErrInvalidPrice，实际%v", err)
	}
	if err := p.UpdatePrice(6900); err != nil {
		t.Fatalf("改价失败: %v", err)
	}
	if p.Price != 6900 {
		t.Errorf("期望价格6900，实际%d", p.Price)
	}
}

// TestActivation 上下架开关
func TestActivation(t *testing.T) {
	p := &Product{Active: true}
	p.Deactivate()
	if p.IsAvailable() {
		t.Error("下架商品不应该可售")
	}
	p.Activate()
	if !p.IsAvailable() {
		t.Error("上架商品应该可售")
	}
}

// TestUpdateInfo 空值跳过,非空覆盖
func TestUpdateInfo(t *testing.T) {
	p := &Product{Name: "旧名", Description: "旧描述", CategoryID: 1}
	p.UpdateInfo("新名", "", "", 0)
	if p.Name != "新名" {
		t.Errorf("名称应该被更新，实际%s", p.Name)
	}
	if p.Description != "旧描述" {
		t.Error("空描述不应该覆盖原值")
	}
	if p.CategoryID != 1 {
		t.Error("分类ID为0时不应该被覆盖")
	}
}
