package services

import (
	"delivery-analytics-service/internal/domain"
	"strings"
)

// Summarize computes success/failure counts over events, overall and per product.
//
// Classification goes through classifier only; a nil classifier means
// domain.DefaultClassifier. Statuses that are neither success nor failure
// count toward totals only. An empty event set yields a zero summary whose
// percentages are 0.
func Summarize(events []domain.DeliveryEvent, classifier domain.StatusClassifier) domain.PerformanceSummary {
	if classifier == nil {
		classifier = domain.DefaultClassifier
	}

	summary := domain.PerformanceSummary{
		TotalCount: len(events),
		ByProduct:  make(map[string]*domain.ProductStats),
	}

	for _, ev := range events {
		product := strings.TrimSpace(ev.Product)
		stats, ok := summary.ByProduct[product]
		if !ok {
			stats = &domain.ProductStats{Product: product}
			summary.ByProduct[product] = stats
		}
		stats.Total++

		switch classifier.Classify(ev.Status) {
		case domain.OutcomeSuccess:
			summary.SuccessCount++
			stats.Success++
		case domain.OutcomeFailure:
			summary.FailureCount++
			stats.Failure++
		}
	}

	return summary
}
