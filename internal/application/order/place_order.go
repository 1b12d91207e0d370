package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/domain/movement"
	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/domain/product"
	"github.com/xiebiao/storefront/internal/domain/warehouse"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/logger"
	"github.com/xiebiao/storefront/pkg/metrics"
	"github.com/xiebiao/storefront/pkg/tracing"
)

// Transactor 事务执行接口
// 设计说明:
// 1. 用例只需要"在一个事务里执行fn"这一个能力,
//    所以依赖小接口而不是具体的*mysql.TxManager
// 2. 测试时用直接调用fn的假实现,不需要真数据库
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// PlaceOrderUseCase 下单用例
// 教学要点:这是整个项目最核心的用例
// 涉及:事务处理、并发控制、价格冻结、账本追加
type PlaceOrderUseCase struct {
	orderRepo     order.Repository
	productRepo   product.Repository
	warehouseRepo warehouse.Repository
	movementRepo  movement.Repository
	levelRepo     movement.LevelRepository
	tx            Transactor
	publisher     EventPublisher
}

// NewPlaceOrderUseCase 创建下单用例
func NewPlaceOrderUseCase(
	orderRepo order.Repository,
	productRepo product.Repository,
	warehouseRepo warehouse.Repository,
	movementRepo movement.Repository,
	levelRepo movement.LevelRepository,
	tx Transactor,
	publisher EventPublisher,
) *PlaceOrderUseCase {
	return &PlaceOrderUseCase{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		movementRepo:  movementRepo,
		levelRepo:     levelRepo,
		tx:            tx,
		publisher:     publisher,
	}
}

// PlaceOrderRequest 下单请求DTO
type PlaceOrderRequest struct {
	UserID      uint             // 买家用户ID(从JWT中提取)
	WarehouseID uint             // 发货仓库
	Customer    CustomerInfo     // 收货人信息
	Items       []PlaceOrderItem // 购物车明细
}

// CustomerInfo 收货人信息
type CustomerInfo struct {
	FullName string
	Phone    string
	Address  string
	City     string
}

// PlaceOrderItem 购物车明细项
type PlaceOrderItem struct {
	ProductID uint
	Quantity  int64
}

// PlaceOrderResponse 下单响应DTO
type PlaceOrderResponse struct {
	OrderID   uint                     `json:"order_id"`
	Code      string                   `json:"code"`
	Status    string                   `json:"status"`
	Total     int64                    `json:"total"`
	TotalYuan string                   `json:"total_yuan"`
	Items     []PlaceOrderResponseItem `json:"items"`
	CreatedAt string                   `json:"created_at"`
}

// PlaceOrderResponseItem 响应中的明细项(下单时刻的快照)
type PlaceOrderResponseItem struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

// Execute 执行下单用例
// 教学重点:防止超卖的完整流程
//
// 核心问题:库存超卖
// 场景:(仓库,商品)可用库存10个,100人同时下单
// 错误实现:先折算账本看库存够不够,够就写出库流水——
// 100个请求都看到10个,全部通过,账本折算直接变成-90(超卖!)
//
// 正确实现:悲观锁串行化
//  1. SELECT FOR UPDATE锁定(仓库,商品)的库存快照行
//  2. 在锁内折算账本得到真实可用库存
//  3. 足够则写入订单+出库流水+更新快照(同一事务)
//  4. COMMIT释放锁,下一个事务看到的是扣减后的账本
//
// 校验顺序固定:仓库→收货人→购物车→商品可售→库存,
// 每种失败返回不同的业务错误码
func (uc *PlaceOrderUseCase) Execute(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResponse, error) {
	start := time.Now()

	// ========================================
	// 步骤1:事务外的纯参数校验(不碰库存,不需要锁)
	// ========================================

	// 1a. 仓库必须存在且启用
	// 查询本身挂了(连接断开等)不能伪装成"仓库不存在",
	// 按基础设施失败处理
	if _, err := uc.warehouseRepo.FindActiveByID(ctx, req.WarehouseID); err != nil {
		if apperrors.GetAppError(err).Code >= 50000 {
			uc.reject("infra")
			logger.L.Error("仓库查询失败", zap.Error(err))
			return nil, apperrors.WrapCode(err, apperrors.ErrCodeTransactionFailure, "下单失败，请稍后重试")
		}
		uc.reject("missing_warehouse")
		return nil, order.ErrMissingWarehouse
	}

	// 1b. 收货人信息必须完整
	customer := order.Customer{
		FullName: req.Customer.FullName,
		Phone:    req.Customer.Phone,
		Address:  req.Customer.Address,
		City:     req.Customer.City,
	}
	if !customer.IsComplete() {
		uc.reject("invalid_customer")
		return nil, order.ErrInvalidCustomer
	}

	// 1c. 购物车非空且每行数量>0
	if len(req.Items) == 0 {
		uc.reject("empty_cart")
		return nil, order.ErrEmptyCart
	}
	for _, item := range req.Items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			uc.reject("invalid_cart")
			return nil, order.ErrInvalidItemQuantity
		}
	}

	// 同一商品多行时合并需求量(库存按商品总量检查)
	required := make(map[uint]int64)
	for _, item := range req.Items {
		required[item.ProductID] += item.Quantity
	}

	// 锁定顺序固定为商品ID升序,两个并发订单包含相同的商品集合时
	// 不会交叉持锁(死锁预防的经典手法)
	productIDs := make([]uint, 0, len(required))
	for id := range required {
		productIDs = append(productIDs, id)
	}
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

	// ========================================
	// 步骤2:事务内的库存检查与写入
	// ========================================
	// 下单事务是全项目最需要追踪的路径,单独开Span,
	// 行锁等待和写入耗时都归到这一段
	spanCtx, span := tracing.StartSpan(ctx, "storefront", "PlaceOrderTx")

	var result *order.Order
	err := uc.tx.Transaction(spanCtx, func(txCtx context.Context) error {
		// 2a. 按升序锁定每个(仓库,商品)的库存快照行
		for _, pid := range productIDs {
			if _, err := uc.levelRepo.LockForUpdate(txCtx, req.WarehouseID, pid); err != nil {
				return err
			}
		}

		// 2b. 整车商品先过可售性校验(任一下架/不存在,整单拒绝)
		// 可售性是库存之前的前置条件:购物车同时有下架商品和
		// 库存不足的商品时,必须返回ProductUnavailable,
		// 不能让错误类型随商品ID顺序漂移
		products := make(map[uint]*product.Product, len(productIDs))
		for _, pid := range productIDs {
			p, err := uc.productRepo.FindActiveByID(txCtx, pid)
			if err != nil {
				return product.ErrProductUnavailable
			}
			products[pid] = p
		}

		// 2c. 锁内逐商品折算账本检查库存
		// 教学要点:可用库存来自流水折算(账本是事实来源),
		// 快照行只是锁点和展示缓存
		for _, pid := range productIDs {
			totals, err := uc.movementRepo.SumByKind(txCtx, req.WarehouseID, pid)
			if err != nil {
				return err
			}
			if available := totals.Total(); available < required[pid] {
				return movement.NewInsufficientStockError(pid, products[pid].Name, available, required[pid])
			}
		}

		// 2d. 价格冻结:按"此刻"的生效价格(折扣价优先)生成明细快照
		// 之后商品改价、下架、删除都不影响这张订单
		items := make([]order.Item, len(req.Items))
		for i, item := range req.Items {
			p := products[item.ProductID]
			items[i] = order.Item{
				ProductID: p.ID,
				Name:      p.Name,
				SKU:       p.SKU,
				UnitPrice: p.EffectivePrice(),
				Quantity:  item.Quantity,
			}
		}

		// 2e. 创建订单(订单号撞唯一索引时Create返回ErrCodeCollision)
		newOrder, err := order.NewOrder(order.GenerateCode(), req.UserID, req.WarehouseID, customer, items)
		if err != nil {
			return err
		}
		if err := uc.orderRepo.Create(txCtx, newOrder); err != nil {
			return err
		}

		// 2f. 每个明细追加一条出库流水,批量写入
		// 崩溃不能留下半个批次——AppendBatch必须在本事务内
		movements := make([]*movement.Movement, len(newOrder.Items))
		for i, item := range newOrder.Items {
			m, err := movement.NewMovement(
				req.WarehouseID, item.ProductID,
				movement.KindOut, item.Quantity,
				movement.RefOrder, newOrder.ID,
				fmt.Sprintf("订单%s出库", newOrder.Code),
			)
			if err != nil {
				return err
			}
			movements[i] = m
		}
		if err := uc.movementRepo.AppendBatch(txCtx, movements); err != nil {
			return err
		}

		// 2g. 同事务内同步快照行(保持与账本折算一致)
		for _, pid := range productIDs {
			if err := uc.levelRepo.ApplyDelta(txCtx, req.WarehouseID, pid, -required[pid]); err != nil {
				return err
			}
		}

		result = newOrder
		return nil
	})
	span.End()

	if err != nil {
		return nil, uc.mapFailure(err)
	}

	// ========================================
	// 步骤3:提交之后的副作用(指标、事件)
	// ========================================
	metrics.OrdersPlacedTotal.Inc()
	metrics.OrderPlaceDuration.Observe(time.Since(start).Seconds())
	metrics.MovementsAppendedTotal.With(map[string]string{"kind": movement.KindOut.String()}).
		Add(float64(len(result.Items)))

	uc.publishPlaced(ctx, result)

	return buildPlaceOrderResponse(result), nil
}

// reject 记录拒单指标
func (uc *PlaceOrderUseCase) reject(reason string) {
	metrics.OrdersRejectedTotal.With(map[string]string{"reason": reason}).Inc()
}

// mapFailure 把事务内的失败映射为业务错误并打点
// 业务校验失败原样返回;基础设施失败统一包装成TransactionFailure,
// 不向客户端泄露数据库细节
func (uc *PlaceOrderUseCase) mapFailure(err error) error {
	var insufficientErr *movement.InsufficientStockError
	if errors.As(err, &insufficientErr) {
		metrics.InsufficientStockTotal.Inc()
		uc.reject("insufficient_stock")
		return err
	}

	// 5xxxx是基础设施错误,4xxxx是业务校验失败
	appErr := apperrors.GetAppError(err)
	if appErr.Code >= 50000 {
		uc.reject("infra")
		logger.L.Error("下单事务失败", zap.Error(err))
		return apperrors.WrapCode(err, apperrors.ErrCodeTransactionFailure, "下单失败，请稍后重试")
	}

	switch appErr.Code {
	case apperrors.ErrCodeProductUnavailable:
		uc.reject("product_unavailable")
	case apperrors.ErrCodeOrderCodeCollision:
		uc.reject("code_collision")
	default:
		uc.reject("validation")
	}
	return err
}

// publishPlaced 发布下单成功事件(失败只记日志,不影响订单)
func (uc *PlaceOrderUseCase) publishPlaced(ctx context.Context, o *order.Order) {
	eventItems := make([]OrderPlacedEventItem, len(o.Items))
	for i, item := range o.Items {
		eventItems[i] = OrderPlacedEventItem{
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	event := OrderPlacedEvent{
		EventID:     newEventID(),
		OrderID:     o.ID,
		OrderCode:   o.Code,
		UserID:      o.UserID,
		WarehouseID: o.WarehouseID,
		Total:       o.Total,
		Items:       eventItems,
		OccurredAt:  time.Now(),
	}

	if err := uc.publisher.Publish(ctx, RoutingKeyOrderPlaced, event); err != nil {
		logger.L.Warn("下单事件发布失败",
			zap.String("order_code", o.Code),
			zap.Error(err))
	}
}

// buildPlaceOrderResponse 构建响应DTO
func buildPlaceOrderResponse(o *order.Order) *PlaceOrderResponse {
	items := make([]PlaceOrderResponseItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = PlaceOrderResponseItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			SKU:       item.SKU,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal(),
		}
	}

	return &PlaceOrderResponse{
		OrderID:   o.ID,
		Code:      o.Code,
		Status:    o.Status.String(),
		Total:     o.Total,
		TotalYuan: formatPrice(o.Total),
		Items:     items,
		CreatedAt: o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// formatPrice 格式化价格(分→元)
func formatPrice(priceFen int64) string {
	return fmt.Sprintf("%.2f", float64(priceFen)/100.0)
}
