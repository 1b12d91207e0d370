package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestInitMetrics 测试指标初始化
func TestInitMetrics(t *testing.T) {
	InitMetrics()

	if HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal未初始化")
	}
	if OrdersPlacedTotal == nil {
		t.Error("OrdersPlacedTotal未初始化")
	}
	if MovementsAppendedTotal == nil {
		t.Error("MovementsAppendedTotal未初始化")
	}
	if CircuitBreakerState == nil {
		t.Error("CircuitBreakerState未初始化")
	}

	// 重复调用不应该panic(promauto重复注册会panic,靠initialized标志挡住)
	InitMetrics()
}

// TestOrderCounters 订单业务指标
func TestOrderCounters(t *testing.T) {
	InitMetrics()

	before := counterValue(t, OrdersPlacedTotal)
	OrdersPlacedTotal.Inc()
	OrdersPlacedTotal.Inc()
	if got := counterValue(t, OrdersPlacedTotal); got != before+2 {
		t.Errorf("下单计数期望%f，实际%f", before+2, got)
	}

	OrdersRejectedTotal.WithLabelValues("insufficient_stock").Inc()
	got := counterVecValue(t, OrdersRejectedTotal, map[string]string{"reason": "insufficient_stock"})
	if got < 1 {
		t.Errorf("拒单计数期望>=1，实际%f", got)
	}
}

// TestMovementCounterVec 流水指标按类型分标签
func TestMovementCounterVec(t *testing.T) {
	InitMetrics()

	MovementsAppendedTotal.WithLabelValues("IN").Inc()
	MovementsAppendedTotal.WithLabelValues("OUT").Inc()
	MovementsAppendedTotal.WithLabelValues("IN").Inc()

	got := counterVecValue(t, MovementsAppendedTotal, map[string]string{"kind": "IN"})
	if got < 2 {
		t.Errorf("IN流水计数期望>=2，实际%f", got)
	}
}

// TestCircuitBreakerGauge 熔断器状态是带名称标签的Gauge
func TestCircuitBreakerGauge(t *testing.T) {
	InitMetrics()

	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "event-publisher"}, 1) // OPEN
	got := gaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "event-publisher"})
	if got != 1 {
		t.Errorf("熔断器状态期望1，实际%f", got)
	}

	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "event-publisher"}, 0) // CLOSED
	got = gaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "event-publisher"})
	if got != 0 {
		t.Errorf("熔断器状态期望0，实际%f", got)
	}
}

// TestHistogram 下单耗时直方图
func TestHistogram(t *testing.T) {
	InitMetrics()

	before := histogramCount(t, OrderPlaceDuration)
	ObserveHistogram(OrderPlaceDuration, 0.05)
	ObserveHistogram(OrderPlaceDuration, 0.5)
	if got := histogramCount(t, OrderPlaceDuration); got != before+2 {
		t.Errorf("观测次数期望%d，实际%d", before+2, got)
	}
}

// 辅助函数：读取Counter值
func counterValue(t *testing.T, counter prometheus.Counter) float64 {
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("读取Counter值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

// 辅助函数：读取CounterVec值
func counterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels map[string]string) float64 {
	var metric dto.Metric
	c := counterVec.With(labels)
	if err := c.(prometheus.Counter).Write(&metric); err != nil {
		t.Fatalf("读取CounterVec值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

// 辅助函数：读取GaugeVec值
func gaugeVecValue(t *testing.T, gaugeVec *prometheus.GaugeVec, labels map[string]string) float64 {
	var metric dto.Metric
	g := gaugeVec.With(labels)
	if err := g.(prometheus.Gauge).Write(&metric); err != nil {
		t.Fatalf("读取GaugeVec值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}

// 辅助函数：读取Histogram观测次数
func histogramCount(t *testing.T, histogram prometheus.Histogram) uint64 {
	var metric dto.Metric
	if err := histogram.Write(&metric); err != nil {
		t.Fatalf("读取Histogram值失败: %v", err)
	}
	return metric.Histogram.GetSampleCount()
}
