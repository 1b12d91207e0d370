package order

import (
	"context"
	"os"
	"testing"

	"github.com/xiebiao/storefront/internal/domain/movement"
	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/domain/product"
	"github.com/xiebiao/storefront/internal/domain/warehouse"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/metrics"
)

// 内存假实现:用例测试不需要真数据库
// 事务假实现直接执行fn(单线程测试里没有并发,锁和回滚语义
// 由MySQL实现的集成测试覆盖,这里只验证用例编排逻辑)

func TestMain(m *testing.M) {
	metrics.InitMetrics()
	os.Exit(m.Run())
}

type fakeTx struct{}

func (fakeTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeOrderRepo 内存订单仓储
type fakeOrderRepo struct {
	orders    map[uint]*order.Order
	nextID    uint
	createErr error // 注入Create失败
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uint]*order.Order{}, nextID: 1}
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *order.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.orders {
		if existing.Code == o.Code {
			return order.ErrCodeCollision
		}
	}
	o.ID = r.nextID
	r.nextID++
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) FindByCode(ctx context.Context, code string) (*order.Order, error) {
	for _, o := range r.orders {
		if o.Code == code {
			return o, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id uint, status order.Status) error {
	o, ok := r.orders[id]
	if !ok {
		return order.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func (r *fakeOrderRepo) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*order.Order, int64, error) {
	var result []*order.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			result = append(result, o)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeOrderRepo) ListByStatus(ctx context.Context, status order.Status, page, pageSize int) ([]*order.Order, int64, error) {
	var result []*order.Order
	for _, o := range r.orders {
		if status == 0 || o.Status == status {
			result = append(result, o)
		}
	}
	return result, int64(len(result)), nil
}

// fakeProductRepo 内存商品仓储
type fakeProductRepo struct {
	products map[uint]*product.Product
}

func newFakeProductRepo(products ...*product.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[uint]*product.Product{}}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(ctx context.Context, p *product.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindBySKU(ctx context.Context, sku string) (*product.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, product.ErrProductNotFound
}

func (r *fakeProductRepo) FindActiveByID(ctx context.Context, id uint) (*product.Product, error) {
	p, ok := r.products[id]
	if !ok || !p.Active {
		return nil, product.ErrProductUnavailable
	}
	return p, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *product.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uint) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(ctx context.Context, params product.ListParams) ([]*product.Product, int64, error) {
	var result []*product.Product
	for _, p := range r.products {
		result = append(result, p)
	}
	return result, int64(len(result)), nil
}

// fakeWarehouseRepo 内存仓库仓储
type fakeWarehouseRepo struct {
	warehouses map[uint]*warehouse.Warehouse
	findErr    error // 注入查询失败
}

func newFakeWarehouseRepo(warehouses ...*warehouse.Warehouse) *fakeWarehouseRepo {
	r := &fakeWarehouseRepo{warehouses: map[uint]*warehouse.Warehouse{}}
	for _, w := range warehouses {
		r.warehouses[w.ID] = w
	}
	return r
}

func (r *fakeWarehouseRepo) Create(ctx context.Context, w *warehouse.Warehouse) error {
	r.warehouses[w.ID] = w
	return nil
}

func (r *fakeWarehouseRepo) FindByID(ctx context.Context, id uint) (*warehouse.Warehouse, error) {
	w, ok := r.warehouses[id]
	if !ok {
		return nil, warehouse.ErrWarehouseNotFound
	}
	return w, nil
}

func (r *fakeWarehouseRepo) FindActiveByID(ctx context.Context, id uint) (*warehouse.Warehouse, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	w, ok := r.warehouses[id]
	if !ok || !w.Active {
		return nil, warehouse.ErrWarehouseNotFound
	}
	return w, nil
}

func (r *fakeWarehouseRepo) FindByCode(ctx context.Context, code string) (*warehouse.Warehouse, error) {
	for _, w := range r.warehouses {
		if w.Code == code {
			return w, nil
		}
	}
	return nil, warehouse.ErrWarehouseNotFound
}

func (r *fakeWarehouseRepo) Update(ctx context.Context, w *warehouse.Warehouse) error {
	r.warehouses[w.ID] = w
	return nil
}

func (r *fakeWarehouseRepo) List(ctx context.Context) ([]*warehouse.Warehouse, error) {
	var result []*warehouse.Warehouse
	for _, w := range r.warehouses {
		result = append(result, w)
	}
	return result, nil
}

// fakeMovementRepo 内存流水账本(只追加)
type fakeMovementRepo struct {
	movements []*movement.Movement
	nextID    uint
	appendErr error // 注入追加失败
}

func newFakeMovementRepo() *fakeMovementRepo {
	return &fakeMovementRepo{nextID: 1}
}

func (r *fakeMovementRepo) AppendBatch(ctx context.Context, movements []*movement.Movement) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	if len(movements) == 0 {
		return movement.ErrEmptyBatch
	}
	for _, m := range movements {
		m.ID = r.nextID
		r.nextID++
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
	var result []*movement.Movement
	for _, m := range r.movements {
		if m.RefType == refType && m.RefID == refID {
			result = append(result, m)
		}
	}
	return result, nil
}

// fakeLevelRepo 内存库存快照
type fakeLevelRepo struct {
	levels map[[2]uint]*movement.StockLevel
	locks  [][2]uint // 记录锁定顺序(验证升序锁定)
}

func newFakeLevelRepo() *fakeLevelRepo {
	return &fakeLevelRepo{levels: map[[2]uint]*movement.StockLevel{}}
}

func (r *fakeLevelRepo) LockForUpdate(ctx context.Context, warehouseID, productID uint) (*movement.StockLevel, error) {
	key := [2]uint{warehouseID, productID}
	r.locks = append(r.locks, key)
	level, ok := r.levels[key]
	if !ok {
		level = &movement.StockLevel{WarehouseID: warehouseID, ProductID: productID}
		r.levels[key] = level
	}
	return level, nil
}

func (r *fakeLevelRepo) ApplyDelta(ctx context.Context, warehouseID, productID uint, delta int64) error {
	key := [2]uint{warehouseID, productID}
	level, ok := r.levels[key]
	if !ok {
		level = &movement.StockLevel{WarehouseID: warehouseID, ProductID: productID}
		r.levels[key] = level
	}
	level.Quantity += delta
	return nil
}

func (r *fakeLevelRepo) Get(ctx context.Context, warehouseID, productID uint) (*movement.StockLevel, error) {
	level, ok := r.levels[[2]uint{warehouseID, productID}]
	if !ok {
		return nil, apperrors.ErrDatabaseError
	}
	return level, nil
}

// fakePublisher 内存事件发布器
type fakePublisher struct {
	published []publishedEvent
	err       error // 注入发布失败
}

type publishedEvent struct {
	routingKey string
	message    interface{}
}

func (p *fakePublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, publishedEvent{routingKey: routingKey, message: message})
	return nil
}

// =========================================
// 测试夹具
// =========================================

type fixture struct {
	orderRepo     *fakeOrderRepo
	productRepo   *fakeProductRepo
	warehouseRepo *fakeWarehouseRepo
	movementRepo  *fakeMovementRepo
	levelRepo     *fakeLevelRepo
	publisher     *fakePublisher
	place         *PlaceOrderUseCase
	setStatus     *SetStatusUseCase
}

// newFixture 组装一套内存环境:
// 仓库1(启用),商品1(单价29900分,库存10),商品2(单价9900分/折扣价7900分,库存3)
func newFixture(t *testing.T) *fixture {
	t.Helper()

	w, err := warehouse.NewWarehouse("WH-BJ-01", "北京一号仓", "亦庄物流园")
	if err != nil {
		t.Fatalf("创建仓库失败: %v", err)
	}
	w.ID = 1

	p1, err := product.NewProduct("KB-001", "机械键盘", "87键红轴", 1, 29900, "")
	if err != nil {
		t.Fatalf("创建商品失败: %v", err)
	}
	p1.ID = 1

	p2, err := product.NewProduct("MS-002", "无线鼠标", "", 1, 9900, "")
	if err != nil {
		t.Fatalf("创建商品失败: %v", err)
	}
	p2.ID = 2
	if err := p2.SetDiscount(7900); err != nil {
		t.Fatalf("设置折扣失败: %v", err)
	}

	f := &fixture{
		orderRepo:     newFakeOrderRepo(),
		productRepo:   newFakeProductRepo(p1, p2),
		warehouseRepo: newFakeWarehouseRepo(w),
		movementRepo:  newFakeMovementRepo(),
		levelRepo:     newFakeLevelRepo(),
		publisher:     &fakePublisher{},
	}
	f.place = NewPlaceOrderUseCase(
		f.orderRepo, f.productRepo, f.warehouseRepo,
		f.movementRepo, f.levelRepo, fakeTx{}, f.publisher,
	)
	f.setStatus = NewSetStatusUseCase(
		f.orderRepo, f.movementRepo, f.levelRepo, fakeTx{}, f.publisher,
	)

	// 初始库存:商品1入库10,商品2入库3
	f.seedStock(t, 1, 1, 10)
	f.seedStock(t, 1, 2, 3)

	return f
}

// seedStock 追加一条采购入库流水并同步快照
func (f *fixture) seedStock(t *testing.T, warehouseID, productID uint, quantity int64) {
	t.Helper()
	m, err := movement.NewMovement(warehouseID, productID, movement.KindIn, quantity, movement.RefPurchase, 0, "期初入库")
	if err != nil {
		t.Fatalf("创建入库流水失败: %v", err)
	}
	if err := f.movementRepo.AppendBatch(context.Background(), []*movement.Movement{m}); err != nil {
		t.Fatalf("追加入库流水失败: %v", err)
	}
	if err := f.levelRepo.ApplyDelta(context.Background(), warehouseID, productID, quantity); err != nil {
		t.Fatalf("更新快照失败: %v", err)
	}
}

// currentStock 账本折算当前库存
func (f *fixture) currentStock(t *testing.T, warehouseID, productID uint) int64 {
	t.Helper()
	totals, err := f.movementRepo.SumByKind(context.Background(), warehouseID, productID)
	if err != nil {
		t.Fatalf("折算库存失败: %v", err)
	}
	return totals.Total()
}

func validRequest() PlaceOrderRequest {
	return PlaceOrderRequest{
		UserID:      7,
		WarehouseID: 1,
		Customer: CustomerInfo{
			FullName: "张伟",
			Phone:    "13800138000",
			Address:  "中关村大街1号",
			City:     "北京",
		},
		Items: []PlaceOrderItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	}
}
