package stock

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/storefront/internal/domain/movement"
	"github.com/xiebiao/storefront/internal/domain/product"
	"github.com/xiebiao/storefront/internal/domain/warehouse"
	"github.com/xiebiao/storefront/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.InitMetrics()
	os.Exit(m.Run())
}

// 内存假实现(只覆盖库存用例用到的路径)

type fakeTx struct{}

func (fakeTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMovementRepo struct {
	movements []*movement.Movement
	nextID    uint
}

func (r *fakeMovementRepo) AppendBatch(ctx context.Context, movements []*movement.Movement) error {
	if len(movements) == 0 {
		return movement.ErrEmptyBatch
	}
	for _, m := range movements {
		r.nextID++
		m.ID = r.nextID
		r.movements = append(r.movements, m)
	}
	return nil
}

func (r *fakeMovementRepo) SumByKind(ctx context.Context, warehouseID, productID uint) (movement.StockTotals, error) {
	var totals movement.StockTotals
	for _, m := range r.movements {
		if m.WarehouseID != warehouseID || m.ProductID != productID {
			continue
		}
		switch m.Kind {
		case movement.KindIn:
			totals.In += m.Quantity
		case movement.KindOut:
			totals.Out += m.Quantity
		case movement.KindAdjust:
			totals.Adjust += m.Quantity
		}
	}
	return totals, nil
}

func (r *fakeMovementRepo) ListByTarget(ctx context.Context, warehouseID, productID uint, page, pageSize int) ([]*movement.Movement, int64, error) {
	var result []*movement.Movement
	for _, m := range r.movements {
		if m.WarehouseID == warehouseID && m.ProductID == productID {
			result = append(result, m)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeMovementRepo) ListByRef(ctx context.Context, refType movement.RefType, refID uint) ([]*movement.Movement, error) {
	return nil, nil
}

type fakeLevelRepo struct {
	levels map[[2]uint]*movement.StockLevel
}

func newFakeLevelRepo() *fakeLevelRepo {
	return &fakeLevelRepo{levels: map[[2]uint]*movement.StockLevel{}}
}

func (r *fakeLevelRepo) LockForUpdate(ctx context.Context, warehouseID, productID uint) (*movement.StockLevel, error) {
	key := [2]uint{warehouseID, productID}
	if _, ok := r.levels[key]; !ok {
		r.levels[key] = &movement.StockLevel{WarehouseID: warehouseID, ProductID: productID}
	}
	return r.levels[key], nil
}

func (r *fakeLevelRepo) ApplyDelta(ctx context.Context, warehouseID, productID uint, delta int64) error {
	level, err := r.LockForUpdate(ctx, warehouseID, productID)
	if err != nil {
		return err
	}
	level.Quantity += delta
	return nil
}

func (r *fakeLevelRepo) Get(ctx context.Context, warehouseID, productID uint) (*movement.StockLevel, error) {
	level, ok := r.levels[[2]uint{warehouseID, productID}]
	if !ok {
		return nil, movement.ErrEmptyBatch // 测试里不区分具体错误
	}
	return level, nil
}

type fakeProductRepo struct {
	products map[uint]*product.Product
}

func (r *fakeProductRepo) Create(ctx context.Context, p *product.Product) error { return nil }
func (r *fakeProductRepo) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	return p, nil
}
func (r *fakeProductRepo) FindBySKU(ctx context.Context, sku string) (*product.Product, error) {
	return nil, product.ErrProductNotFound
}
func (r *fakeProductRepo) FindActiveByID(ctx context.Context, id uint) (*product.Product, error) {
	return r.FindByID(ctx, id)
}
func (r *fakeProductRepo) Update(ctx context.Context, p *product.Product) error { return nil }
func (r *fakeProductRepo) Delete(ctx context.Context, id uint) error            { return nil }
func (r *fakeProductRepo) List(ctx context.Context, params product.ListParams) ([]*product.Product, int64, error) {
	return nil, 0, nil
}

type fakeWarehouseRepo struct {
	warehouses map[uint]*warehouse.Warehouse
}

func (r *fakeWarehouseRepo) Create(ctx context.Context, w *warehouse.Warehouse) error { return nil }
func (r *fakeWarehouseRepo) FindByID(ctx context.Context, id uint) (*warehouse.Warehouse, error) {
	w, ok := r.warehouses[id]
	if !ok {
		return nil, warehouse.ErrWarehouseNotFound
	}
	return w, nil
}
func (r *fakeWarehouseRepo) FindActiveByID(ctx context.Context, id uint) (*warehouse.Warehouse, error) {
	return r.FindByID(ctx, id)
}
func (r *fakeWarehouseRepo) FindByCode(ctx context.Context, code string) (*warehouse.Warehouse, error) {
	return nil, warehouse.ErrWarehouseNotFound
}
func (r *fakeWarehouseRepo) Update(ctx context.Context, w *warehouse.Warehouse) error { return nil }
func (r *fakeWarehouseRepo) List(ctx context.Context) ([]*warehouse.Warehouse, error) {
	return nil, nil
}

type stockFixture struct {
	movementRepo *fakeMovementRepo
	levelRepo    *fakeLevelRepo
	receive      *ReceiveStockUseCase
	adjust       *AdjustStockUseCase
	current      *CurrentStockUseCase
	listMoves    *ListMovementsUseCase
}

func newStockFixture(t *testing.T) *stockFixture {
	t.Helper()

	w, err := warehouse.NewWarehouse("WH-BJ-01", "北京一号仓", "")
	require.NoError(t, err)
	w.ID = 1

	p, err := product.NewProduct("KB-001", "机械键盘", "", 1, 29900, "")
	require.NoError(t, err)
	p.ID = 1

	movementRepo := &fakeMovementRepo{}
	levelRepo := newFakeLevelRepo()
	productRepo := &fakeProductRepo{products: map[uint]*product.Product{1: p}}
	warehouseRepo := &fakeWarehouseRepo{warehouses: map[uint]*warehouse.Warehouse{1: w}}

	return &stockFixture{
		movementRepo: movementRepo,
		levelRepo:    levelRepo,
		receive:      NewReceiveStockUseCase(movementRepo, levelRepo, productRepo, warehouseRepo, fakeTx{}),
		adjust:       NewAdjustStockUseCase(movementRepo, levelRepo, productRepo, warehouseRepo, fakeTx{}),
		current:      NewCurrentStockUseCase(movementRepo, levelRepo),
		listMoves:    NewListMovementsUseCase(movementRepo),
	}
}

// TestReceiveStock 采购入库:IN流水+快照同步
func TestReceiveStock(t *testing.T) {
	f := newStockFixture(t)

	resp, err := f.receive.Execute(context.Background(), ReceiveStockRequest{
		WarehouseID: 1, ProductID: 1, Quantity: 50, RefID: 7, Note: "首批采购",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(50), resp.Stock)
	assert.NotZero(t, resp.MovementID)

	require.Len(t, f.movementRepo.movements, 1)
	m := f.movementRepo.movements[0]
	assert.Equal(t, movement.KindIn, m.Kind)
	assert.Equal(t, movement.RefPurchase, m.RefType)

	level, err := f.levelRepo.Get(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50), level.Quantity)
}

// TestReceiveStock_Invalid 非法入库
func TestReceiveStock_Invalid(t *testing.T) {
	f := newStockFixture(t)

	// 数量≤0
	_, err := f.receive.Execute(context.Background(), ReceiveStockRequest{
		WarehouseID: 1, ProductID: 1, Quantity: 0,
	})
	assert.ErrorIs(t, err, movement.ErrInvalidQuantity)

	// 仓库不存在
	_, err = f.receive.Execute(context.Background(), ReceiveStockRequest{
		WarehouseID: 9, ProductID: 1, Quantity: 10,
	})
	assert.ErrorIs(t, err, warehouse.ErrWarehouseNotFound)

	// 商品不存在
	_, err = f.receive.Execute(context.Background(), ReceiveStockRequest{
		WarehouseID: 1, ProductID: 9, Quantity: 10,
	})
	assert.ErrorIs(t, err, product.ErrProductNotFound)
}

// TestAdjustStock_SignMapping 带符号delta映射流水类型:
// 正数→ADJUST,负数→MANUAL OUT,零被拒绝
func TestAdjustStock_SignMapping(t *testing.T) {
	f := newStockFixture(t)

	// 先入库10
	_, err := f.receive.Execute(context.Background(), ReceiveStockRequest{
		WarehouseID: 1, ProductID: 1, Quantity: 10,
	})
	require.NoError(t, err)

	// 盘盈+3 → ADJUST
	resp, err := f.adjust.Execute(context.Background(), AdjustStockRequest{
		WarehouseID: 1, ProductID: 1, Delta: 3, Note: "盘盈",
	})
	require.NoError(t, err)
	assert.Equal(t, "ADJUST", resp.Kind)
	assert.Equal(t, int64(13), resp.Stock)

	// 盘亏-5 → OUT
	resp, err = f.adjust.Execute(context.Background(), AdjustStockRequest{
		WarehouseID: 1, ProductID: 1, Delta: -5, Note: "盘亏",
	})
	require.NoError(t, err)
	assert.Equal(t, "OUT", resp.Kind)
	assert.Equal(t, int64(8), resp.Stock)

	// delta=0拒绝
	_, err = f.adjust.Execute(context.Background(), AdjustStockRequest{
		WarehouseID: 1, ProductID: 1, Delta: 0,
	})
	assert.ErrorIs(t, err, movement.ErrInvalidQuantity)

	// 盘亏用的是MANUAL来源
	for _, m := range f.movementRepo.movements[1:] {
		assert.Equal(t, movement.RefManual, m.RefType)
	}
}

// TestAdjustStock_AllowsNegativeResult 盘亏可以把账本打成负数(如实暴露)
func TestAdjustStock_AllowsNegativeResult(t *testing.T) {
	f := newStockFixture(t)

	resp, err := f.adjust.Execute(context.Background(), AdjustStockRequest{
		WarehouseID: 1, ProductID: 1, Delta: -4, Note: "盘亏",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-4), resp.Stock)
}

// TestCurrentStock 账本折算与快照对照
func TestCurrentStock(t *testing.T) {
	f := newStockFixture(t)

	_, err := f.receive.Execute(context.Background(), ReceiveStockRequest{
		WarehouseID: 1, ProductID: 1, Quantity: 20,
	})
	require.NoError(t, err)
	_, err = f.adjust.Execute(context.Background(), AdjustStockRequest{
		WarehouseID: 1, ProductID: 1, Delta: -3,
	})
	require.NoError(t, err)

	resp, err := f.current.Execute(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(17), resp.Stock)
	assert.Equal(t, int64(17), resp.Cached) // 快照与账本一致
	assert.Equal(t, int64(20), resp.In)
	assert.Equal(t, int64(3), resp.Out)
	assert.Equal(t, int64(0), resp.Adjust)

	// 从未有过流水的(仓库,商品)折算为0
	resp, err = f.current.Execute(context.Background(), 1, 99)
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Stock)
}

// TestListMovements 流水分页查询
func TestListMovements(t *testing.T) {
	f := newStockFixture(t)

	for i := 0; i < 3; i++ {
		_, err := f.receive.Execute(context.Background(), ReceiveStockRequest{
			WarehouseID: 1, ProductID: 1, Quantity: 5,
		})
		require.NoError(t, err)
	}

	resp, err := f.listMoves.Execute(context.Background(), ListMovementsRequest{
		WarehouseID: 1, ProductID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Total)
	assert.Len(t, resp.List, 3)
	for _, item := range resp.List {
		assert.Equal(t, "IN", item.Kind)
		assert.Equal(t, "PURCHASE", item.RefType)
	}
}
