package movement

import (
	"context"
	"time"
)

// Repository 库存账本仓储接口(依赖倒置原则)
// 教学要点:
// 1. 接口上刻意不存在Update/Delete——账本只追加,修正靠反向流水
// 2. 一个业务事件产生的多条流水(如一个订单的3个明细)必须作为
//    同一事务内的一个批次写入,崩溃不能留下半个批次
// 3. 事务通过context传递(TxManager注入)
type Repository interface {
	// AppendBatch 批量追加流水
	// 必须在调用方的事务内执行;批次为空返回ErrEmptyBatch
	AppendBatch(ctx context.Context, movements []*Movement) error

	// SumByKind 按类型汇总(仓库,商品)的流水数量
	// 库存折算的唯一入口:StockTotals.Total() = IN − OUT + ADJUST
	// 在事务内调用时,读取的是该事务的快照
	SumByKind(ctx context.Context, warehouseID, productID uint) (StockTotals, error)

	// ListByTarget 分页查询(仓库,商品)的流水(审计/对账界面用)
	ListByTarget(ctx context.Context, warehouseID, productID uint, page, pageSize int) ([]*Movement, int64, error)

	// ListByRef 按来源查询流水(如:某订单产生了哪些出入库)
	ListByRef(ctx context.Context, refType RefType, refID uint) ([]*Movement, error)
}

// StockLevel (仓库,商品)的库存快照行
// 设计说明:
// 1. 这是账本的增量缓存,不是事实来源——对账时以流水折算为准
// 2. 快照行的更新必须与对应流水的追加在同一事务内完成
// 3. 下单事务用SELECT FOR UPDATE锁这一行,把并发的"查库存+扣库存"
//    串行化,防止两个事务同时看到足够库存而双双成功(超卖)
type StockLevel struct {
	WarehouseID uint
	ProductID   uint
	Quantity    int64 // 缓存的当前库存(与流水折算结果一致)
	UpdatedAt   time.Time
}

// LevelRepository 库存快照仓储接口
type LevelRepository interface {
	// LockForUpdate 锁定(仓库,商品)的快照行并返回
	// 行不存在时先插入零值行再锁定,保证永远有行可锁
	// 必须在事务内调用,锁在事务提交/回滚时释放
	LockForUpdate(ctx context.Context, warehouseID, productID uint) (*StockLevel, error)

	// ApplyDelta 调整快照数量(delta带符号)
	// 必须与产生delta的流水追加在同一事务内
	ApplyDelta(ctx context.Context, warehouseID, productID uint, delta int64) error

	// Get 读取快照行(不加锁,仅展示用)
	Get(ctx context.Context, warehouseID, productID uint) (*StockLevel, error)
}
