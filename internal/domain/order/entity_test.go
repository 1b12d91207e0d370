package order

import (
	"errors"
	"testing"
)

func validCustomer() Customer {
	return Customer{
		FullName: "张伟",
		Phone:    "13800138000",
		Address:  "中关村大街1号",
		City:     "北京",
	}
}

func validItems() []Item {
	return []Item{
		{ProductID: 1, Name: "机械键盘", SKU: "KB-001", UnitPrice: 29900, Quantity: 2},
		{ProductID: 2, Name: "无线鼠标", SKU: "MS-002", UnitPrice: 9900, Quantity: 1},
	}
}

// TestNewOrder_Valid 测试订单创建与金额计算
func TestNewOrder_Valid(t *testing.T) {
	o, err := NewOrder("SO20260830000100001", 7, 1, validCustomer(), validItems())
	if err != nil {
		t.Fatalf("期望创建成功，实际失败: %v", err)
	}

	if o.Status != StatusNew {
		t.Errorf("初始状态期望NEW，实际%s", o.Status)
	}
	if o.PaymentMethod != PaymentCOD {
		t.Errorf("支付方式期望COD，实际%s", o.PaymentMethod)
	}

	// Total = 29900×2 + 9900×1
	want := int64(29900*2 + 9900)
	if o.Total != want {
		t.Errorf("总金额期望%d，实际%d", want, o.Total)
	}
	// 不变式: Total恒等于明细快照之和
	if o.Total != o.CalculateTotal() {
		t.Errorf("Total(%d)与明细折算(%d)不一致", o.Total, o.CalculateTotal())
	}
}

// TestNewOrder_InvalidCustomer 收货人信息不完整必须被拒绝
func TestNewOrder_InvalidCustomer(t *testing.T) {
	cases := []Customer{
		{Phone: "13800138000", Address: "某地"},            // 缺姓名
		{FullName: "张伟", Address: "某地"},                  // 缺电话
		{FullName: "张伟", Phone: "13800138000"},           // 缺地址
		{FullName: "张伟", Phone: "13800138000", City: "京"}, // 缺地址(有城市也不行)
	}
	for i, c := range cases {
		_, err := NewOrder("SO1", 7, 1, c, validItems())
		if !errors.Is(err, ErrInvalidCustomer) {
			t.Errorf("用例%d期望ErrInvalidCustomer，实际%v", i, err)
		}
	}
}

// TestNewOrder_EmptyCart 空购物车必须被拒绝
func TestNewOrder_EmptyCart(t *testing.T) {
	_, err := NewOrder("SO1", 7, 1, validCustomer(), nil)
	if !errors.Is(err, ErrEmptyCart) {
		t.Errorf("期望ErrEmptyCart，实际%v", err)
	}
}

// TestNewOrder_InvalidQuantity 明细数量≤0必须被拒绝
func TestNewOrder_InvalidQuantity(t *testing.T) {
	items := []Item{{ProductID: 1, Name: "x", UnitPrice: 100, Quantity: 0}}
	_, err := NewOrder("SO1", 7, 1, validCustomer(), items)
	if !errors.Is(err, ErrInvalidItemQuantity) {
		t.Errorf("期望ErrInvalidItemQuantity，实际%v", err)
	}
}

// TestStateMachine_HappyPath 正向链路: NEW→CONFIRMED→SHIPPED→DELIVERED
func TestStateMachine_HappyPath(t *testing.T) {
	o, _ := NewOrder("SO1", 7, 1, validCustomer(), validItems())

	steps := []struct {
		do   func() error
		want Status
	}{
		{o.Confirm, StatusConfirmed},
		{o.Ship, StatusShipped},
		{o.Deliver, StatusDelivered},
	}
	for _, step := range steps {
		if err := step.do(); err != nil {
			t.Fatalf("转换到%s失败: %v", step.want, err)
		}
		if o.Status != step.want {
			t.Fatalf("期望状态%s，实际%s", step.want, o.Status)
		}
	}
}

// TestStateMachine_CancelBeforeDelivery 送达前的每个状态都允许取消
func TestStateMachine_CancelBeforeDelivery(t *testing.T) {
	for _, from := range []Status{StatusNew, StatusConfirmed, StatusShipped} {
		o, _ := NewOrder("SO1", 7, 1, validCustomer(), validItems())
		o.Status = from
		if err := o.Cancel(); err != nil {
			t.Errorf("从%s取消期望成功，实际失败: %v", from, err)
		}
		if o.Status != StatusCancelled {
			t.Errorf("期望状态CANCELLED，实际%s", o.Status)
		}
	}
}

// TestStateMachine_TerminalStates 终态没有任何出边
func TestStateMachine_TerminalStates(t *testing.T) {
	targets := []Status{StatusNew, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled}

	for _, terminal := range []Status{StatusDelivered, StatusCancelled} {
		o, _ := NewOrder("SO1", 7, 1, validCustomer(), validItems())
		o.Status = terminal
		for _, target := range targets {
			if err := o.TransitionTo(target); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("%s→%s期望ErrInvalidTransition，实际%v", terminal, target, err)
			}
		}
	}
}

// TestStateMachine_NoSkipping 不允许跳级(NEW直接发货/送达)
func TestStateMachine_NoSkipping(t *testing.T) {
	o, _ := NewOrder("SO1", 7, 1, validCustomer(), validItems())

	if err := o.Ship(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("NEW→SHIPPED期望被拒绝，实际%v", err)
	}
	if err := o.Deliver(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("NEW→DELIVERED期望被拒绝，实际%v", err)
	}
	// 被拒绝的转换不应改变状态
	if o.Status != StatusNew {
		t.Errorf("非法转换后状态应保持NEW，实际%s", o.Status)
	}
}

// TestIsOwnedBy 订单归属校验
func TestIsOwnedBy(t *testing.T) {
	o, _ := NewOrder("SO1", 7, 1, validCustomer(), validItems())
	if !o.IsOwnedBy(7) {
		t.Error("期望订单属于用户7")
	}
	if o.IsOwnedBy(8) {
		t.Error("订单不应属于用户8")
	}
}

// TestStatus_IsTerminal 终态判断
func TestStatus_IsTerminal(t *testing.T) {
	for _, s := range []Status{StatusNew, StatusConfirmed, StatusShipped} {
		if s.IsTerminal() {
			t.Errorf("%s不应是终态", s)
		}
	}
	for _, s := range []Status{StatusDelivered, StatusCancelled} {
		if !s.IsTerminal() {
			t.Errorf("%s应是终态", s)
		}
	}
}
