package domain

import "sort"

// Success/failure counts for one product.
type ProductStats struct {
	Product string
	Total   int
	Success int
	Failure int
}

func (p ProductStats) SuccessPct() float64 { return pct(p.Success, p.Total) }
func (p ProductStats) FailurePct() float64 { return pct(p.Failure, p.Total) }

// PerformanceSummary aggregates delivery outcomes over a set of events
// (a route, or a zone/date range). Derived, never persisted.
type PerformanceSummary struct {
	TotalCount   int
	SuccessCount int
	FailureCount int
	ByProduct    map[string]*ProductStats
}

// SuccessPct is SuccessCount/TotalCount*100, and 0 for an empty summary.
func (s PerformanceSummary) SuccessPct() float64 { return pct(s.SuccessCount, s.TotalCount) }

// FailurePct is FailureCount/TotalCount*100, and 0 for an empty summary.
func (s PerformanceSummary) FailurePct() float64 { return pct(s.FailureCount, s.TotalCount) }

// NoData reports whether the summary was computed over zero events.
func (s PerformanceSummary) NoData() bool { return s.TotalCount == 0 }

// ProductRows returns the per-product breakdown sorted by product name.
func (s PerformanceSummary) ProductRows() []ProductStats {
	rows := make([]ProductStats, 0, len(s.ByProduct))
	for _, p := range s.ByProduct {
		rows = append(rows, *p)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Product < rows[j].Product })
	return rows
}

// An empty population renders as 0%, not as an error.
func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
