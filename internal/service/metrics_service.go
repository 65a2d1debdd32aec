package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"

	"github.com/kam-ticket/helpdesk-service/internal/repository"
	apperrors "github.com/kam-ticket/helpdesk-service/pkg/util"
)

// MetricsService shapes the reporting aggregations. Grouping and
// filtering happen in SQL; this layer validates input, resolves agent
// names and renders display values.
type MetricsService struct {
	reports repository.ReportRepository
	users   repository.UserRepository
}

// MetricsDependencies bundles collaborators.
type MetricsDependencies struct {
	ReportRepo repository.ReportRepository
	UserRepo   repository.UserRepository
}

// NewMetricsService creates the service.
func NewMetricsService(deps MetricsDependencies) *MetricsService {
	return &MetricsService{reports: deps.ReportRepo, users: deps.UserRepo}
}

// TicketCounts holds headline totals.
type TicketCounts struct {
	TotalTickets    int64 `json:"totalTickets"`
	ResolvedTickets int64 `json:"resolvedTickets"`
}

// MonthlyResolvedBucket is one (year, month) bucket. Buckets without
// resolved tickets do not appear.
type MonthlyResolvedBucket struct {
	Year          int   `json:"year"`
	Month         int   `json:"month"`
	ResolvedCount int64 `json:"resolvedCount"`
}

// DepartmentBreakdownEntry is one department bucket.
type DepartmentBreakdownEntry struct {
	Department  string `json:"department"`
	TicketCount int64  `json:"ticketCount"`
}

// AgentPerformanceEntry is one agent's rendered statistics.
type AgentPerformanceEntry struct {
	Name            string `json:"name"`
	TicketsHandled  int64  `json:"ticketsHandled"`
	AvgResponseTime string `json:"avgResponseTime"`
	ResolutionRate  string `json:"resolutionRate"`
	CSAT            string `json:"csat"`
}

// TimeBucket is one bucket of the time-distribution report.
type TimeBucket struct {
	Year    int   `json:"year"`
	Month   *int  `json:"month,omitempty"`
	Quarter *int  `json:"quarter,omitempty"`
	Count   int64 `json:"count"`
}

// Counts returns total and resolved ticket counts.
func (s *MetricsService) Counts(ctx context.Context) (TicketCounts, error) {
	counts, err := s.reports.Counts(ctx)
	if err != nil {
		return TicketCounts{}, apperrors.NewPersistenceError(err)
	}
	return TicketCounts{TotalTickets: counts.Total, ResolvedTickets: counts.Resolved}, nil
}

// MonthlyResolved returns the canonical sparse (year, month) buckets in
// chronological order.
func (s *MetricsService) MonthlyResolved(ctx context.Context) ([]MonthlyResolvedBucket, error) {
	rows, err := s.reports.MonthlyResolved(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	buckets := make([]MonthlyResolvedBucket, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, MonthlyResolvedBucket{
			Year:          row.Year,
			Month:         row.Month,
			ResolvedCount: row.ResolvedCount,
		})
	}
	return buckets, nil
}

// MonthlyResolvedSeries flattens the canonical buckets into a fixed
// 12-slot array indexed by calendar month, summing across years. This
// is the convenience view the dashboard chart consumes.
func MonthlyResolvedSeries(buckets []MonthlyResolvedBucket) [12]int64 {
	var series [12]int64
	for _, bucket := range buckets {
		if bucket.Month >= 1 && bucket.Month <= 12 {
			series[bucket.Month-1] += bucket.ResolvedCount
		}
	}
	return series
}

// DepartmentBreakdown counts tickets per department by exact string
// match; tickets without a department land in the empty bucket.
func (s *MetricsService) DepartmentBreakdown(ctx context.Context) ([]DepartmentBreakdownEntry, error) {
	rows, err := s.reports.DepartmentBreakdown(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	entries := make([]DepartmentBreakdownEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, DepartmentBreakdownEntry{
			Department:  row.Department,
			TicketCount: row.TicketCount,
		})
	}
	return entries, nil
}

// AgentPerformance aggregates per-agent throughput and resolution
// statistics, resolving each agent id to a display name.
func (s *MetricsService) AgentPerformance(ctx context.Context) ([]AgentPerformanceEntry, error) {
	rows, err := s.reports.AgentStats(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	entries := make([]AgentPerformanceEntry, 0, len(rows))
	for _, row := range rows {
		name := "Unknown"
		if user, err := s.users.GetByID(ctx, row.AgentID); err == nil {
			name = user.Name
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewPersistenceError(err)
		}
		entries = append(entries, AgentPerformanceEntry{
			Name:            name,
			TicketsHandled:  row.TicketsHandled,
			AvgResponseTime: formatResponseTime(row.AvgResponseMinutes),
			ResolutionRate:  formatResolutionRate(row.ResolutionRate),
			// Static until CSAT surveys are captured.
			CSAT: "4.5/5",
		})
	}
	return entries, nil
}

// TimeDistribution buckets tickets by created_at at the requested
// granularity, optionally scoped to resolved or opened tickets
// ("opened" means any status other than Resolved).
func (s *MetricsService) TimeDistribution(ctx context.Context, granularity, statusFilter string) ([]TimeBucket, error) {
	var gran repository.TimeGranularity
	switch granularity {
	case "monthly":
		gran = repository.GranularityMonthly
	case "quarterly":
		gran = repository.GranularityQuarterly
	case "yearly":
		gran = repository.GranularityYearly
	default:
		return nil, apperrors.NewValidationError(
			"granularity must be monthly, quarterly or yearly",
			map[string]any{"granularity": granularity},
		)
	}

	var scope repository.StatusScope
	switch statusFilter {
	case "", "none":
		scope = repository.ScopeNone
	case "resolved":
		scope = repository.ScopeResolved
	case "opened":
		scope = repository.ScopeOpened
	default:
		return nil, apperrors.NewValidationError(
			"status must be resolved, opened or none",
			map[string]any{"status": statusFilter},
		)
	}

	rows, err := s.reports.TimeDistribution(ctx, gran, scope)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	buckets := make([]TimeBucket, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, TimeBucket{
			Year:    row.Year,
			Month:   row.Month,
			Quarter: row.Quarter,
			Count:   row.Count,
		})
	}
	return buckets, nil
}

// formatResponseTime renders mean minutes as "Hh Mm": floor hours,
// rounded remainder minutes. NULL renders "N/A".
func formatResponseTime(minutes *float64) string {
	if minutes == nil {
		return "N/A"
	}
	hours := int(math.Floor(*minutes / 60))
	rem := int(math.Round(math.Mod(*minutes, 60)))
	return fmt.Sprintf("%dh %dm", hours, rem)
}

// formatResolutionRate renders a percentage with two decimals, "0%"
// when undefined.
func formatResolutionRate(rate *float64) string {
	if rate == nil {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", *rate)
}
