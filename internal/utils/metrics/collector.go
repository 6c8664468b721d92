// internal/utils/metrics/collector.go
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricType представляет тип метрики
type MetricType string

const (
	InstructionCounterType  MetricType = "instruction_counter"
	InstructionDurationType MetricType = "instruction_duration"
	TotalSupplyType         MetricType = "total_supply"
	TotalSharesType         MetricType = "total_shares"
	RoundingCarryType       MetricType = "rounding_carry"
)

const namespace = "rebase_mint"

// Collector owns the processor metrics. Each collector has its own metric
// instances so several can be registered on separate registries.
type Collector struct {
	metrics sync.Map

	instructions *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	totalSupply  *prometheus.GaugeVec
	totalShares  *prometheus.GaugeVec
	carry        *prometheus.GaugeVec
}

// NewCollector создает новый экземпляр коллектора метрик и регистрирует
// его в reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		instructions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "instructions_total",
				Help:      "Total number of processed extension instructions",
			},
			[]string{"instruction", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "instruction_duration_seconds",
				Help:      "Instruction processing time in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{"instruction"},
		),
		totalSupply: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "total_supply",
				Help:      "Total supply after the last committed instruction",
			},
			[]string{"mint"},
		),
		totalShares: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "total_shares",
				Help:      "Total shares after the last committed instruction",
			},
			[]string{"mint"},
		),
		carry: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "rounding_carry",
				Help:      "Banked rounding carry in 1/10000 share",
			},
			[]string{"mint"},
		),
	}

	metricsMap := map[MetricType]prometheus.Collector{
		InstructionCounterType:  c.instructions,
		InstructionDurationType: c.duration,
		TotalSupplyType:         c.totalSupply,
		TotalSharesType:         c.totalShares,
		RoundingCarryType:       c.carry,
	}
	for metricType, metric := range metricsMap {
		if err := reg.Register(metric); err != nil {
			return nil, err
		}
		c.metrics.Store(metricType, metric)
	}
	return c, nil
}

// Reset сбрасывает все метрики (полезно для тестирования)
func (c *Collector) Reset() {
	c.metrics.Range(func(_, value interface{}) bool {
		switch m := value.(type) {
		case *prometheus.CounterVec:
			m.Reset()
		case *prometheus.GaugeVec:
			m.Reset()
		case *prometheus.HistogramVec:
			m.Reset()
		}
		return true
	})
}
