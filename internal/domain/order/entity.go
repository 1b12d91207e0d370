package order

import (
	"time"
)

// Status 订单状态
// 教学要点:
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 状态值1-5递增,便于理解流转方向
// 3. 终态(已送达/已取消)没有任何出边,写进状态机表里而不是散在if里
type Status int

const (
	StatusNew       Status = 1 // 新建(下单成功,货到付款待确认)
	StatusConfirmed Status = 2 // 已确认
	StatusShipped   Status = 3 // 已发货
	StatusDelivered Status = 4 // 已送达(终态)
	StatusCancelled Status = 5 // 已取消(终态)
)

// String 实现Stringer接口(方便日志输出)
func (s Status) String() string {
	switch s {
	case StatusNew:
		return "NEW"
	case StatusConfirmed:
		return "CONFIRMED"
	case StatusShipped:
		return "SHIPPED"
	case StatusDelivered:
		return "DELIVERED"
	case StatusCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// IsValid 检查状态值是否合法
func (s Status) IsValid() bool {
	return s >= StatusNew && s <= StatusCancelled
}

// IsTerminal 是否终态(终态订单不再接受任何状态变更)
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// PaymentMethod 支付方式
// 本系统只支持货到付款,定义类型是为将来扩展留接口
type PaymentMethod string

const (
	PaymentCOD PaymentMethod = "COD" // 货到付款
)

// Customer 收货人快照
// 设计说明:
// 1. 下单时从请求复制,之后永不回链到用户表——用户改地址不影响历史订单
// 2. 三个必填字段的校验在NewOrder里做,实体保证自身有效性
type Customer struct {
	FullName string // 收货人姓名
	Phone    string // 联系电话
	Address  string // 收货地址
	City     string // 城市
}

// IsComplete 收货人信息是否完整(姓名/电话/地址必填)
func (c Customer) IsComplete() bool {
	return c.FullName != "" && c.Phone != "" && c.Address != ""
}

// Item 订单明细项(商品快照)
// 教学要点:
// 1. 不是独立聚合根,必须通过Order访问
// 2. Name/SKU/UnitPrice是下单时刻的商品快照,之后商品改价、改名、
//    下架都不影响这条明细——这就是价格冻结保证
// 3. 不直接持有Product对象,只保存ProductID(避免跨聚合引用)
type Item struct {
	ID        uint
	OrderID   uint   // 所属订单ID
	ProductID uint   // 商品ID(仅审计回溯用)
	Name      string // 下单时的商品名称
	SKU       string // 下单时的SKU
	UnitPrice int64  // 下单时的单价(分),折扣价优先
	Quantity  int64  // 购买数量
}

// Subtotal 明细小计(分)
func (i Item) Subtotal() int64 {
	return i.UnitPrice * i.Quantity
}

// Order 订单实体(聚合根)
// 教学要点:
// 1. Order是聚合根,Item是子实体,Customer是值对象
// 2. Total在创建时算一次后冗余存储,永不根据流水或商品现价反推
// 3. 创建之后只有Status字段可变,明细和金额都是不可变快照
type Order struct {
	ID            uint
	Code          string        // 订单号(业务主键,全局唯一,永不复用)
	UserID        uint          // 下单用户ID(权限校验用)
	WarehouseID   uint          // 发货仓库(一单只从一个仓库发货)
	Status        Status        // 订单状态
	Customer      Customer      // 收货人快照
	Items         []Item        // 订单明细(商品快照)
	Total         int64         // 订单总金额(分) = Σ 单价×数量
	PaymentMethod PaymentMethod // 支付方式(当前恒为COD)
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOrder 创建新订单(工厂方法)
// 教学要点:
// 1. 工厂方法封装创建逻辑,出厂即有效:明细非空、收货人完整、金额已算好
// 2. 订单号由外部传入(见order_code.go)
// 3. 初始状态NEW,支付方式固定COD
func NewOrder(code string, userID, warehouseID uint, customer Customer, items []Item) (*Order, error) {
	if !customer.IsComplete() {
		return nil, ErrInvalidCustomer
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidItemQuantity
		}
	}

	now := time.Now()
	o := &Order{
		Code:          code,
		UserID:        userID,
		WarehouseID:   warehouseID,
		Status:        StatusNew,
		Customer:      customer,
		Items:         items,
		PaymentMethod: PaymentCOD,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	o.Total = o.CalculateTotal()
	return o, nil
}

// transitions 状态机转换表
// NEW → CONFIRMED → SHIPPED → DELIVERED 是正向链路,
// 送达之前(NEW/CONFIRMED/SHIPPED)都允许取消。
var transitions = map[Status][]Status{
	StatusNew:       {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusDelivered: {}, // 终态
	StatusCancelled: {}, // 终态
}

// CanTransitionTo 检查是否可以转换到目标状态
// 教学要点:状态机表驱动设计,防止非法状态跳转
// 例如:不能取消"已送达"订单,也不能从"已取消"恢复
func (o *Order) CanTransitionTo(target Status) bool {
	allowed, exists := transitions[o.Status]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
// 教学要点:
// 1. 先查状态机表(业务规则校验),非法跳转返回ErrInvalidTransition
// 2. 转换成功更新UpdatedAt(审计追踪)
// 3. 转入CANCELLED要伴随回补流水,那是应用层的事务职责,
//    实体只负责状态图本身
func (o *Order) TransitionTo(target Status) error {
	if !o.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// Confirm 确认订单(领域行为)
func (o *Order) Confirm() error {
	return o.TransitionTo(StatusConfirmed)
}

// Ship 发货(领域行为)
func (o *Order) Ship() error {
	return o.TransitionTo(StatusShipped)
}

// Deliver 确认送达(领域行为)
func (o *Order) Deliver() error {
	return o.TransitionTo(StatusDelivered)
}

// Cancel 取消订单(领域行为)
func (o *Order) Cancel() error {
	return o.TransitionTo(StatusCancelled)
}

// CalculateTotal 计算订单总金额
// 教学要点:
// 1. 根据明细快照实时计算,用于创建时生成Total以及测试校验不变式
// 2. 绝不能用流水汇总或商品现价反推订单金额
func (o *Order) CalculateTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定用户
// 教学要点:权限校验,防止用户访问他人订单
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}
