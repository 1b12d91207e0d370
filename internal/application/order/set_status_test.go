package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/storefront/internal/domain/movement"
	"github.com/xiebiao/storefront/internal/domain/order"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

var admin = Actor{UserID: 1, Admin: true}

// placeOrder 下一单作为测试前提
func placeOrder(t *testing.T, f *fixture) *PlaceOrderResponse {
	t.Helper()
	resp, err := f.place.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	f.publisher.published = nil // 清掉下单事件,便于断言后续事件
	return resp
}

// TestSetStatus_HappyPath 正向链路只改状态,不产生流水
func TestSetStatus_HappyPath(t *testing.T) {
	f := newFixture(t)
	placed := placeOrder(t, f)
	movementsBefore := len(f.movementRepo.movements)

	for _, target := range []order.Status{order.StatusConfirmed, order.StatusShipped, order.StatusDelivered} {
		resp, err := f.setStatus.Execute(context.Background(), admin, placed.OrderID, target)
		require.NoError(t, err)
		assert.Equal(t, target.String(), resp.Status)
	}

	// 确认/发货/送达都不碰账本
	assert.Len(t, f.movementRepo.movements, movementsBefore)
	assert.Empty(t, f.publisher.published)
}

// TestSetStatus_CancelRestoresStock 取消回补:账本折算回到下单前
func TestSetStatus_CancelRestoresStock(t *testing.T) {
	f := newFixture(t)
	placed := placeOrder(t, f)

	// 下单后库存:商品1=8,商品2=2
	require.Equal(t, int64(8), f.currentStock(t, 1, 1))
	require.Equal(t, int64(2), f.currentStock(t, 1, 2))

	resp, err := f.setStatus.Execute(context.Background(), admin, placed.OrderID, order.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", resp.Status)

	// 每个明细一条IN回补流水,refType=ORDER
	all, err := f.movementRepo.ListByRef(context.Background(), movement.RefOrder, placed.OrderID)
	require.NoError(t, err)
	require.Len(t, all, 4) // 2条OUT + 2条IN
	var ins int
	for _, m := range all {
		if m.Kind == movement.KindIn {
			ins++
		}
	}
	assert.Equal(t, 2, ins)

	// 折算库存精确回到下单前
	assert.Equal(t, int64(10), f.currentStock(t, 1, 1))
	assert.Equal(t, int64(3), f.currentStock(t, 1, 2))

	// 快照与账本一致
	level, err := f.levelRepo.Get(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), level.Quantity)

	// 发布了order.cancelled事件
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, RoutingKeyOrderCancelled, f.publisher.published[0].routingKey)
}

// TestSetStatus_CancelAfterPriceEdit 商品改价/下架后取消,回补仍按订单快照
func TestSetStatus_CancelAfterPriceEdit(t *testing.T) {
	f := newFixture(t)
	placed := placeOrder(t, f)

	// 下单后商品1下架并涨价
	p1, _ := f.productRepo.FindByID(context.Background(), 1)
	p1.Deactivate()
	require.NoError(t, p1.UpdatePrice(99900))

	_, err := f.setStatus.Execute(context.Background(), admin, placed.OrderID, order.StatusCancelled)
	require.NoError(t, err)

	// 回补数量来自订单快照(商品1回补2件),与在售状态无关
	assert.Equal(t, int64(10), f.currentStock(t, 1, 1))
}

// TestSetStatus_InvalidTransitions 非法跳转
func TestSetStatus_InvalidTransitions(t *testing.T) {
	f := newFixture(t)

	// 取消已送达订单
	placed := placeOrder(t, f)
	for _, target := range []order.Status{order.StatusConfirmed, order.StatusShipped, order.StatusDelivered} {
		_, err := f.setStatus.Execute(context.Background(), admin, placed.OrderID, target)
		require.NoError(t, err)
	}
	_, err := f.setStatus.Execute(context.Background(), admin, placed.OrderID, order.StatusCancelled)
	assert.ErrorIs(t, err, order.ErrInvalidTransition)

	// 已取消订单不能再动
	placed2 := placeOrder(t, f)
	_, err = f.setStatus.Execute(context.Background(), admin, placed2.OrderID, order.StatusCancelled)
	require.NoError(t, err)
	for _, target := range []order.Status{order.StatusNew, order.StatusConfirmed, order.StatusCancelled} {
		_, err = f.setStatus.Execute(context.Background(), admin, placed2.OrderID, target)
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
	}

	// 重复取消不会重复回补
	assert.Equal(t, int64(10), f.currentStock(t, 1, 1))
}

// TestSetStatus_OrderNotFound 订单不存在
func TestSetStatus_OrderNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.setStatus.Execute(context.Background(), admin, 999, order.StatusConfirmed)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

// TestSetStatus_Permissions 权限:非管理员只能取消自己的订单
func TestSetStatus_Permissions(t *testing.T) {
	f := newFixture(t)
	placed := placeOrder(t, f) // UserID=7

	owner := Actor{UserID: 7}
	stranger := Actor{UserID: 8}

	// 本人不能确认/发货
	_, err := f.setStatus.Execute(context.Background(), owner, placed.OrderID, order.StatusConfirmed)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// 别人不能取消
	_, err = f.setStatus.Execute(context.Background(), stranger, placed.OrderID, order.StatusCancelled)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// 本人可以取消自己的订单
	_, err = f.setStatus.Execute(context.Background(), owner, placed.OrderID, order.StatusCancelled)
	assert.NoError(t, err)
}

// TestScenario_SellOutThenCancel 完整场景:
// 库存5 → 买5成功 → 买1失败(available=0) → 取消后库存回到5
func TestScenario_SellOutThenCancel(t *testing.T) {
	f2 := newFixture(t) // 夹具里商品1库存10,分两单各买5件
	req := validRequest()
	req.Items = []PlaceOrderItem{{ProductID: 1, Quantity: 5}}

	// 消耗5件,剩5
	resp1, err := f2.place.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, int64(5), f2.currentStock(t, 1, 1))

	// 再买5件,库存归零
	resp2, err := f2.place.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, int64(0), f2.currentStock(t, 1, 1))

	// 买1件失败
	req.Items = []PlaceOrderItem{{ProductID: 1, Quantity: 1}}
	_, err = f2.place.Execute(context.Background(), req)
	var insufficientErr *movement.InsufficientStockError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, int64(0), insufficientErr.Available)
	assert.Equal(t, int64(1), insufficientErr.Requested)

	// 取消第二单,库存回到5
	_, err = f2.setStatus.Execute(context.Background(), admin, resp2.OrderID, order.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, int64(5), f2.currentStock(t, 1, 1))

	// 第一单不受影响
	o1, err := f2.orderRepo.FindByID(context.Background(), resp1.OrderID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusNew, o1.Status)
}
