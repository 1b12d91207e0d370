package movement

import (
	"errors"
	"testing"
)

// TestNewMovement_Valid 测试合法流水创建
func TestNewMovement_Valid(t *testing.T) {
	m, err := NewMovement(1, 100, KindIn, 50, RefPurchase, 7, "采购入库")
	if err != nil {
		t.Fatalf("期望创建成功，实际失败: %v", err)
	}
	if m.Kind != KindIn || m.Quantity != 50 {
		t.Errorf("流水字段不符: kind=%s quantity=%d", m.Kind, m.Quantity)
	}
	if m.CreatedAt.IsZero() {
		t.Error("CreatedAt应该被设置")
	}
}

// TestNewMovement_InvalidQuantity 数量≤0必须被拒绝
// 下调库存的正确方式是OUT流水,不允许负数量
func TestNewMovement_InvalidQuantity(t *testing.T) {
	for _, qty := range []int64{0, -1, -100} {
		_, err := NewMovement(1, 100, KindOut, qty, RefNone, 0, "")
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("数量%d期望ErrInvalidQuantity，实际%v", qty, err)
		}
	}
}

// TestNewMovement_InvalidKind 非法类型必须被拒绝
func TestNewMovement_InvalidKind(t *testing.T) {
	_, err := NewMovement(1, 100, Kind(99), 10, RefNone, 0, "")
	if !errors.Is(err, ErrInvalidKind) {
		t.Errorf("期望ErrInvalidKind，实际%v", err)
	}
}

// TestSignedDelta 方向由Kind表达
func TestSignedDelta(t *testing.T) {
	cases := []struct {
		kind Kind
		qty  int64
		want int64
	}{
		{KindIn, 10, 10},
		{KindOut, 10, -10},
		{KindAdjust, 3, 3},
	}
	for _, c := range cases {
		m := &Movement{Kind: c.kind, Quantity: c.qty}
		if got := m.SignedDelta(); got != c.want {
			t.Errorf("%s数量%d期望delta=%d，实际%d", c.kind, c.qty, c.want, got)
		}
	}
}

// TestStockTotals_Total 折算公式: IN − OUT + ADJUST
func TestStockTotals_Total(t *testing.T) {
	totals := StockTotals{In: 100, Out: 30, Adjust: 5}
	if got := totals.Total(); got != 75 {
		t.Errorf("期望库存75，实际%d", got)
	}
}

// TestStockTotals_NegativeNotClamped 负库存如实暴露,不做钳位
// 负数说明上游预留逻辑被破坏,掩盖它等于掩盖bug
func TestStockTotals_NegativeNotClamped(t *testing.T) {
	totals := StockTotals{In: 10, Out: 15}
	if got := totals.Total(); got != -5 {
		t.Errorf("期望库存-5（不钳位），实际%d", got)
	}
}

// TestCurrentStock_Fold 对流水序列做完整折算
func TestCurrentStock_Fold(t *testing.T) {
	mustMovement := func(kind Kind, qty int64) *Movement {
		m, err := NewMovement(1, 100, kind, qty, RefNone, 0, "")
		if err != nil {
			t.Fatalf("创建流水失败: %v", err)
		}
		return m
	}

	movements := []*Movement{
		mustMovement(KindIn, 100),   // 采购入库100
		mustMovement(KindOut, 40),   // 下单出库40
		mustMovement(KindAdjust, 2), // 盘盈2
		mustMovement(KindOut, 10),   // 再出库10
		mustMovement(KindIn, 40),    // 取消回补40
	}

	if got := CurrentStock(movements); got != 92 {
		t.Errorf("期望折算结果92，实际%d", got)
	}
}

// TestCurrentStock_OrderIndependent 折算与流水顺序无关
func TestCurrentStock_OrderIndependent(t *testing.T) {
	a := []*Movement{
		{Kind: KindIn, Quantity: 50},
		{Kind: KindOut, Quantity: 20},
		{Kind: KindAdjust, Quantity: 1},
	}
	b := []*Movement{a[2], a[0], a[1]}

	if CurrentStock(a) != CurrentStock(b) {
		t.Errorf("不同顺序折算结果不一致: %d vs %d", CurrentStock(a), CurrentStock(b))
	}
}

// TestInsufficientStockError 库存不足错误携带结构化数据
func TestInsufficientStockError(t *testing.T) {
	err := NewInsufficientStockError(100, "机械键盘", 3, 5)

	if err.ProductID != 100 || err.Available != 3 || err.Requested != 5 {
		t.Errorf("结构化字段不符: %+v", err)
	}

	// errors.As能提取内嵌的AppError
	var target interface{ Error() string } = err
	if target.Error() == "" {
		t.Error("错误信息不应为空")
	}
}
