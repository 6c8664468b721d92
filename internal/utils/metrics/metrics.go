// internal/utils/metrics/metrics.go
package metrics

import "time"

// Result labels for RecordInstruction.
const (
	ResultOK = "ok"
)

// RecordInstruction записывает метрики обработанной инструкции.
// result: ResultOK или вид ошибки.
func (c *Collector) RecordInstruction(instruction, result string, duration time.Duration) {
	if c == nil {
		return
	}
	c.instructions.WithLabelValues(instruction, result).Inc()
	c.duration.WithLabelValues(instruction).Observe(duration.Seconds())
}

// UpdateMintState обновляет метрики состояния минта.
func (c *Collector) UpdateMintState(mint string, totalSupply, totalShares uint64, carry uint16) {
	if c == nil {
		return
	}
	c.totalSupply.WithLabelValues(mint).Set(float64(totalSupply))
	c.totalShares.WithLabelValues(mint).Set(float64(totalShares))
	c.carry.WithLabelValues(mint).Set(float64(carry))
}
