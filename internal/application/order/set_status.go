package order

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/domain/movement"
	"github.com/xiebiao/storefront/internal/domain/order"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/logger"
	"github.com/xiebiao/storefront/pkg/metrics"
)

// Actor 操作者能力凭证
// 设计说明:用例不关心session/token机制,只要回答两个问题:
// 你是谁(UserID)、你是不是管理员(Admin)。HTTP中间件负责
// 从JWT里构造这个结构
type Actor struct {
	UserID uint
	Admin  bool
}

// SetStatusUseCase 订单状态流转用例
// 教学要点:
// 1. 状态图校验在实体里(CanTransitionTo),用例只做编排
// 2. 取消订单时,状态更新和回补流水必须在同一事务——
//    "状态翻了但库存没回来"(或反过来)是正确性bug,不是可接受的降级
type SetStatusUseCase struct {
	orderRepo    order.Repository
	movementRepo movement.Repository
	levelRepo    movement.LevelRepository
	tx           Transactor
	publisher    EventPublisher
}

// NewSetStatusUseCase 创建状态流转用例
func NewSetStatusUseCase(
	orderRepo order.Repository,
	movementRepo movement.Repository,
	levelRepo movement.LevelRepository,
	tx Transactor,
	publisher EventPublisher,
) *SetStatusUseCase {
	return &SetStatusUseCase{
		orderRepo:    orderRepo,
		movementRepo: movementRepo,
		levelRepo:    levelRepo,
		tx:           tx,
		publisher:    publisher,
	}
}

// SetStatusResponse 状态流转响应DTO
type SetStatusResponse struct {
	OrderID   uint   `json:"order_id"`
	Code      string `json:"code"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
}

// Execute 执行状态流转
// 权限规则:
// - 确认/发货/送达是后台操作,只有管理员可以执行
// - 取消可以由管理员或订单本人发起
//
// 取消时的库存回补:按订单自身的明细快照追加等量入库流水,
// 绝不重新读取在售商品——商品可能已经改价、下架甚至删除,
// 但取消必须精确回补下单时扣掉的数量
func (uc *SetStatusUseCase) Execute(ctx context.Context, actor Actor, orderID uint, target order.Status) (*SetStatusResponse, error) {
	if !target.IsValid() {
		return nil, order.ErrInvalidTransition
	}

	var result *order.Order
	err := uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orderRepo.FindByID(txCtx, orderID)
		if err != nil {
			return err
		}

		// 权限校验:非管理员只能取消自己的订单
		if !actor.Admin {
			if target != order.StatusCancelled || !o.IsOwnedBy(actor.UserID) {
				return apperrors.ErrForbidden
			}
		}

		// 状态图校验(非法跳转在这里被拒绝,状态不变)
		if err := o.TransitionTo(target); err != nil {
			return err
		}

		// 只有转入CANCELLED需要补偿流水,其他转换只改status列
		if target == order.StatusCancelled {
			if err := uc.restock(txCtx, o); err != nil {
				return err
			}
		}

		if err := uc.orderRepo.UpdateStatus(txCtx, o.ID, o.Status); err != nil {
			return err
		}

		result = o
		return nil
	})

	if err != nil {
		if appErr := apperrors.GetAppError(err); appErr.Code >= 50000 {
			logger.L.Error("订单状态流转事务失败",
				zap.Uint("order_id", orderID),
				zap.Error(err))
			return nil, apperrors.WrapCode(err, apperrors.ErrCodeTransactionFailure, "操作未完成，请稍后重试")
		}
		return nil, err
	}

	if target == order.StatusCancelled {
		metrics.OrdersCancelledTotal.Inc()
		metrics.MovementsAppendedTotal.With(map[string]string{"kind": movement.KindIn.String()}).
			Add(float64(len(result.Items)))
		uc.publishCancelled(ctx, result)
	}

	return &SetStatusResponse{
		OrderID:   result.ID,
		Code:      result.Code,
		Status:    result.Status.String(),
		UpdatedAt: result.UpdatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

// restock 按订单明细快照回补库存(取消专用)
// 数量和商品ID都来自订单快照,与下单时的出库流水一一对应,
// 所以取消后的账本折算精确回到下单前的值
func (uc *SetStatusUseCase) restock(ctx context.Context, o *order.Order) error {
	// 与下单相同的升序锁定顺序,避免与并发下单死锁
	restored := make(map[uint]int64)
	for _, item := range o.Items {
		restored[item.ProductID] += item.Quantity
	}
	productIDs := make([]uint, 0, len(restored))
	for id := range restored {
		productIDs = append(productIDs, id)
	}
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

	for _, pid := range productIDs {
		if _, err := uc.levelRepo.LockForUpdate(ctx, o.WarehouseID, pid); err != nil {
			return err
		}
	}

	movements := make([]*movement.Movement, len(o.Items))
	for i, item := range o.Items {
		m, err := movement.NewMovement(
			o.WarehouseID, item.ProductID,
			movement.KindIn, item.Quantity,
			movement.RefOrder, o.ID,
			fmt.Sprintf("订单%s取消回补", o.Code),
		)
		if err != nil {
			return err
		}
		movements[i] = m
	}
	if err := uc.movementRepo.AppendBatch(ctx, movements); err != nil {
		return err
	}

	for _, pid := range productIDs {
		if err := uc.levelRepo.ApplyDelta(ctx, o.WarehouseID, pid, restored[pid]); err != nil {
			return err
		}
	}
	return nil
}

// publishCancelled 发布取消事件(失败只记日志)
func (uc *SetStatusUseCase) publishCancelled(ctx context.Context, o *order.Order) {
	event := OrderCancelledEvent{
		EventID:     newEventID(),
		OrderID:     o.ID,
		OrderCode:   o.Code,
		WarehouseID: o.WarehouseID,
		OccurredAt:  time.Now(),
	}
	if err := uc.publisher.Publish(ctx, RoutingKeyOrderCancelled, event); err != nil {
		logger.L.Warn("取消事件发布失败",
			zap.String("order_code", o.Code),
			zap.Error(err))
	}
}
