package movement

import (
	"time"
)

// Kind 库存流水类型
// 教学要点:
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 数量永远是正数,方向由Kind表达,折算时再带符号
type Kind int

const (
	KindIn     Kind = 1 // 入库
	KindOut    Kind = 2 // 出库
	KindAdjust Kind = 3 // 盘盈调整
)

// String 实现Stringer接口(方便日志输出和指标标签)
func (k Kind) String() string {
	switch k {
	case KindIn:
		return "IN"
	case KindOut:
		return "OUT"
	case KindAdjust:
		return "ADJUST"
	default:
		return "UNKNOWN"
	}
}

// IsValid 检查流水类型是否合法
func (k Kind) IsValid() bool {
	return k == KindIn || k == KindOut || k == KindAdjust
}

// RefType 流水来源类型(审计用途)
// 说明:RefType/RefID只是回溯"这条流水因何产生"的审计线索,
// 不是所有权关联——订单金额永远以订单自身的快照为准,
// 绝不能通过汇总流水反推。
type RefType int

const (
	RefNone     RefType = 0 // 无来源(直接人工录入)
	RefOrder    RefType = 1 // 订单(下单出库/取消回补)
	RefPurchase RefType = 2 // 采购入库
	RefManual   RefType = 3 // 人工调整
)

// String 实现Stringer接口
func (r RefType) String() string {
	switch r {
	case RefNone:
		return "NONE"
	case RefOrder:
		return "ORDER"
	case RefPurchase:
		return "PURCHASE"
	case RefManual:
		return "MANUAL"
	default:
		return "UNKNOWN"
	}
}

// IsValid 检查来源类型是否合法
func (r RefType) IsValid() bool {
	return r == RefNone || r == RefOrder || r == RefPurchase || r == RefManual
}

// Movement 库存流水(账本条目)
// 教学要点:
// 1. 库存的唯一事实来源:当前库存永远可以由流水重新折算出来
// 2. 只追加,永不更新、永不删除——修正错误的方式是追加一条反向流水
// 3. CreatedAt是唯一的时间概念,写入后不可变
type Movement struct {
	ID          uint
	WarehouseID uint    // 仓库ID(分区键之一)
	ProductID   uint    // 商品ID(分区键之一)
	Kind        Kind    // 流水类型(IN/OUT/ADJUST)
	Quantity    int64   // 数量(恒为正数,方向由Kind表达)
	RefType     RefType // 来源类型(审计线索,可为空)
	RefID       uint    // 来源ID(如订单ID)
	Note        string  // 备注
	CreatedAt   time.Time
}

// NewMovement 创建流水(工厂方法)
// 业务规则:
// 1. 数量必须>0(下调库存用OUT,不允许负数量)
// 2. Kind必须是IN/OUT/ADJUST之一
func NewMovement(warehouseID, productID uint, kind Kind, quantity int64, refType RefType, refID uint, note string) (*Movement, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}
	if !refType.IsValid() {
		return nil, ErrInvalidRefType
	}

	return &Movement{
		WarehouseID: warehouseID,
		ProductID:   productID,
		Kind:        kind,
		Quantity:    quantity,
		RefType:     refType,
		RefID:       refID,
		Note:        note,
		CreatedAt:   time.Now(),
	}, nil
}

// SignedDelta 返回这条流水对库存的带符号影响
func (m *Movement) SignedDelta() int64 {
	switch m.Kind {
	case KindOut:
		return -m.Quantity
	default: // KindIn、KindAdjust都是增加
		return m.Quantity
	}
}

// =========================================
// 库存折算(Stock Aggregator)
// =========================================

// StockTotals (仓库,商品)维度的流水汇总
type StockTotals struct {
	In     int64 // sum(quantity where kind=IN)
	Out    int64 // sum(quantity where kind=OUT)
	Adjust int64 // sum(quantity where kind=ADJUST)
}

// Total 折算当前库存 = IN − OUT + ADJUST
// 教学要点:
// 1. 纯函数,与流水写入顺序无关
// 2. 不做钳位:负数说明上游预留逻辑被破坏,要暴露而不是掩盖
func (t StockTotals) Total() int64 {
	return t.In - t.Out + t.Adjust
}

// CurrentStock 对一组流水做完整折算
// 用途:测试与对账(线上查询走Repository.SumByKind的SQL聚合)
func CurrentStock(movements []*Movement) int64 {
	var total int64
	for _, m := range movements {
		total += m.SignedDelta()
	}
	return total
}
