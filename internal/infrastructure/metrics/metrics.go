package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HoldMetrics содержит все метрики движка холдов
type HoldMetrics struct {
	// Созданные холды
	HoldsCreatedTotal     prometheus.CounterVec
	HoldAmountUSDTotal    prometheus.CounterVec
	HoldServerFeeUSDTotal prometheus.CounterVec

	// Завершенные и возвращенные холды
	HoldsReleasedTotal prometheus.CounterVec
	HoldsRefundedTotal prometheus.CounterVec

	// Собранные комиссии платформы
	ServerFeeCollectedUSDTotal prometheus.CounterVec

	// Ошибки аллокации по причинам
	AllocationErrorsTotal prometheus.CounterVec

	// Недоступность цены по валютам
	PriceLookupFailuresTotal prometheus.CounterVec

	// Срабатывания clamp-to-zero при release: каждое срабатывание значит,
	// что леджер и холды разошлись - это сигнал для алерта, а не просто лог
	NegativeClampTotal prometheus.CounterVec

	// Время аллокации
	AllocationDuration prometheus.HistogramVec
}

func NewHoldMetrics() *HoldMetrics {
	return &HoldMetrics{
		HoldsCreatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "holds_created_total",
				Help: "Общее количество созданных холдов",
			},
			[]string{"currency"},
		),

		HoldAmountUSDTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hold_amount_usd_total",
				Help: "Общая сумма тикетов, покрытая холдами, в USD",
			},
			[]string{"currency"},
		),

		HoldServerFeeUSDTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hold_server_fee_usd_total",
				Help: "Общая сумма зарезервированных комиссий в USD",
			},
			[]string{"currency"},
		),

		HoldsReleasedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "holds_released_total",
				Help: "Холды, завершенные со списанием средств",
			},
			[]string{"currency"},
		),

		HoldsRefundedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "holds_refunded_total",
				Help: "Холды, возвращенные без списания средств",
			},
			[]string{"currency"},
		),

		ServerFeeCollectedUSDTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "server_fee_collected_usd_total",
				Help: "Комиссии, перечисленные на депозит платформы, в USD",
			},
			[]string{"currency"},
		),

		AllocationErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hold_allocation_errors_total",
				Help: "Ошибки создания холдов по причинам",
			},
			[]string{"reason"},
		),

		PriceLookupFailuresTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "price_lookup_failures_total",
				Help: "Валюты, пропущенные при аллокации из-за недоступной цены",
			},
			[]string{"currency"},
		),

		NegativeClampTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hold_release_negative_clamped_total",
				Help: "Случаи, когда release увел бы значение в минус и оно было обнулено",
			},
			[]string{"field", "currency"},
		),

		AllocationDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hold_allocation_duration_seconds",
				Help:    "Длительность создания мультивалютного холда",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
	}
}

func (m *HoldMetrics) RecordHoldCreated(currency string, amountUSD, serverFeeUSD float64) {
	m.HoldsCreatedTotal.WithLabelValues(currency).Inc()
	m.HoldAmountUSDTotal.WithLabelValues(currency).Add(amountUSD)
	m.HoldServerFeeUSDTotal.WithLabelValues(currency).Add(serverFeeUSD)
}

func (m *HoldMetrics) RecordHoldReleased(currency string, deducted bool) {
	if deducted {
		m.HoldsReleasedTotal.WithLabelValues(currency).Inc()
	} else {
		m.HoldsRefundedTotal.WithLabelValues(currency).Inc()
	}
}

func (m *HoldMetrics) RecordNegativeClamp(field, currency string) {
	m.NegativeClampTotal.WithLabelValues(field, currency).Inc()
}

func (m *HoldMetrics) RecordAllocationError(reason string) {
	m.AllocationErrorsTotal.WithLabelValues(reason).Inc()
}

func (m *HoldMetrics) RecordPriceLookupFailure(currency string) {
	m.PriceLookupFailuresTotal.WithLabelValues(currency).Inc()
}

func (m *HoldMetrics) RecordFeeCollected(currency string, amountUSD float64) {
	m.ServerFeeCollectedUSDTotal.WithLabelValues(currency).Add(amountUSD)
}

func (m *HoldMetrics) ObserveAllocationDuration(outcome string, seconds float64) {
	m.AllocationDuration.WithLabelValues(outcome).Observe(seconds)
}
