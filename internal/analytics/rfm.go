package analytics

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"retailcli/pkg/contracts/domain"
)

// RFM computes recency/frequency/monetary metrics per customer plus
// quintile band scores. The reference date anchors recency; a zero
// reference defaults to the most recent invoice date in the set, matching
// how the metrics are usually read ("days since last purchase as of the
// end of the data"). Anonymous rows never participate.
func (a *Aggregator) RFM(ctx context.Context, records []domain.Transaction, reference time.Time) []domain.RFMScore {
	type acc struct {
		last     time.Time
		invoices map[string]struct{}
		monetary float64
	}
	byCustomer := make(map[string]*acc)

	maxDate := time.Time{}
	for _, tx := range records {
		if tx.InvoiceDate.After(maxDate) {
			maxDate = tx.InvoiceDate
		}
		if !tx.HasCustomer() {
			continue
		}
		entry := byCustomer[tx.CustomerID]
		if entry == nil {
			entry = &acc{invoices: make(map[string]struct{})}
			byCustomer[tx.CustomerID] = entry
		}
		if tx.InvoiceDate.After(entry.last) {
			entry.last = tx.InvoiceDate
		}
		entry.invoices[tx.Invoice] = struct{}{}
		entry.monetary += tx.Revenue
	}

	if reference.IsZero() {
		reference = maxDate
	}

	scores := make([]domain.RFMScore, 0, len(byCustomer))
	for id, entry := range byCustomer {
		scores = append(scores, domain.RFMScore{
			CustomerID:  id,
			RecencyDays: int(reference.Sub(entry.last).Hours() / 24),
			Frequency:   len(entry.invoices),
			Monetary:    entry.monetary,
		})
	}
	sort.Slice(scores, func(i, j int) bool {
		return scores[i].CustomerID < scores[j].CustomerID
	})

	scoreBands(scores)

	a.logger.InfoContext(ctx, "rfm scoring complete",
		slog.Int("customers", len(scores)),
		slog.Time("reference_date", reference))
	return scores
}

// scoreBands assigns quintile scores 1..5 to each metric. Lower recency is
// better, so its band is inverted. Tied values share the band of their
// midrank, which keeps the scoring deterministic.
func scoreBands(scores []domain.RFMScore) {
	n := len(scores)
	if n == 0 {
		return
	}

	recency := make([]float64, n)
	frequency := make([]float64, n)
	monetary := make([]float64, n)
	for i, s := range scores {
		recency[i] = float64(s.RecencyDays)
		frequency[i] = float64(s.Frequency)
		monetary[i] = float64(s.Monetary)
	}

	for i := range scores {
		scores[i].RecencyScore = 6 - quintile(recency, recency[i])
		scores[i].FrequencyScore = quintile(frequency, frequency[i])
		scores[i].MonetaryScore = quintile(monetary, monetary[i])
		scores[i].Segment = segmentLabel(scores[i])
	}
}

// quintile returns the 1..5 band of value within values. Rank is the
// midrank, the average of the strictly-below and at-or-below fractions, so
// a set of identical values lands in the middle band rather than the top.
func quintile(values []float64, value float64) int {
	below, atOrBelow := 0, 0
	for _, v := range values {
		if v < value {
			below++
		}
		if v <= value {
			atOrBelow++
		}
	}
	rank := float64(below+atOrBelow) / (2 * float64(len(values)))
	switch {
	case rank <= 0.2:
		return 1
	case rank <= 0.4:
		return 2
	case rank <= 0.6:
		return 3
	case rank <= 0.8:
		return 4
	default:
		return 5
	}
}

// segmentLabel buckets a scored customer into a coarse marketing segment.
// Finer clustering is left to external numeric routines.
func segmentLabel(s domain.RFMScore) string {
	switch {
	case s.RecencyScore >= 4 && s.FrequencyScore >= 4 && s.MonetaryScore >= 4:
		return "champion"
	case s.RecencyScore >= 4 && s.FrequencyScore >= 3:
		return "loyal"
	case s.RecencyScore >= 4:
		return "recent"
	case s.RecencyScore <= 2 && s.FrequencyScore >= 4:
		return "at_risk"
	case s.RecencyScore <= 2:
		return "dormant"
	default:
		return "regular"
	}
}
