package notify

import (
	"context"

	"github.com/Domenick1991/farescope/internal/kafka"
	"go.uber.org/zap"
)

// Notifier announces the cheapest fare of each completed search. With a
// positive threshold only fares below it are announced.
type Notifier struct {
	log       *zap.SugaredLogger
	threshold int64
	sent      int
}

func NewNotifier(log *zap.SugaredLogger, threshold int64) *Notifier {
	return &Notifier{log: log, threshold: threshold}
}

func (n *Notifier) Send(_ context.Context, event kafka.SearchEvent) error {
	if n.threshold > 0 && event.LeastPrice >= n.threshold {
		return nil
	}
	n.sent++
	n.log.Infow("fare notice",
		"search_id", event.SearchID,
		"route", event.FromEntityID+"-"+event.ToEntityID,
		"year_month", event.YearMonth,
		"least_price", event.LeastPrice,
		"flight_dates", event.FlightDates,
	)
	return nil
}

func (n *Notifier) Sent() int {
	return n.sent
}
