package observers

import (
	"context"

	"github.com/financial-operations-ledger/internal/domain/event"
)

// TransactionRecorder is satisfied by metrics.Collector
type TransactionRecorder interface {
	RecordTransaction(txType string, amount float64)
}

type MetricsRecorder struct {
	recorder TransactionRecorder
}

func NewMetricsRecorder(recorder TransactionRecorder) *MetricsRecorder {
	return &MetricsRecorder{recorder: recorder}
}

func (o *MetricsRecorder) OnEvent(_ context.Context, evt *event.TransactionProcessed) error {
	o.recorder.RecordTransaction(string(evt.Transaction.Type), evt.Transaction.Amount.InexactFloat64())
	return nil
}

func (o *MetricsRecorder) OnError(error) {}
func (o *MetricsRecorder) OnCompleted()  {}
