package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kam-ticket/helpdesk-service/internal/domain"
)

// TicketCounts holds headline totals.
type TicketCounts struct {
	Total    int64
	Resolved int64
}

// MonthlyResolvedRow is one (year, month) bucket of resolved tickets.
type MonthlyResolvedRow struct {
	Year          int
	Month         int
	ResolvedCount int64
}

// DepartmentCount is one department bucket. Department is free text;
// NULL and empty strings form their own bucket.
type DepartmentCount struct {
	Department  string
	TicketCount int64
}

// AgentStatsRow aggregates one agent's tickets. Averages and rates are
// NULL-able at the SQL level.
type AgentStatsRow struct {
	AgentID            int64
	TicketsHandled     int64
	AvgResponseMinutes *float64
	ResolutionRate     *float64
}

// TimeBucketRow is one bucket of the time-distribution report. Month
// and Quarter are set only for the matching granularity.
type TimeBucketRow struct {
	Year    int
	Month   *int
	Quarter *int
	Count   int64
}

// TimeGranularity selects bucket width for time-distribution reports.
type TimeGranularity string

const (
	GranularityMonthly   TimeGranularity = "monthly"
	GranularityQuarterly TimeGranularity = "quarterly"
	GranularityYearly    TimeGranularity = "yearly"
)

// StatusScope narrows time-distribution reports by lifecycle state.
type StatusScope string

const (
	ScopeNone     StatusScope = ""
	ScopeResolved StatusScope = "resolved"
	ScopeOpened   StatusScope = "opened"
)

// ReportRepository issues the aggregate queries behind the metrics
// engine. All grouping happens in SQL against current rows; there are
// no precomputed rollups.
type ReportRepository interface {
	Counts(ctx context.Context) (TicketCounts, error)
	MonthlyResolved(ctx context.Context) ([]MonthlyResolvedRow, error)
	DepartmentBreakdown(ctx context.Context) ([]DepartmentCount, error)
	AgentStats(ctx context.Context) ([]AgentStatsRow, error)
	TimeDistribution(ctx context.Context, granularity TimeGranularity, scope StatusScope) ([]TimeBucketRow, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository builds repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) Counts(ctx context.Context) (TicketCounts, error) {
	const query = `
        SELECT COUNT(*), COUNT(*) FILTER (WHERE status=$1)
        FROM tickets`
	var counts TicketCounts
	err := r.pool.QueryRow(ctx, query, domain.TicketStatusResolved).Scan(&counts.Total, &counts.Resolved)
	return counts, err
}

func (r *reportRepository) MonthlyResolved(ctx context.Context) ([]MonthlyResolvedRow, error) {
	const query = `
        SELECT EXTRACT(YEAR FROM created_at)::int,
               EXTRACT(MONTH FROM created_at)::int,
               COUNT(*)
        FROM tickets
        WHERE status=$1
        GROUP BY 1, 2
        ORDER BY 1, 2`
	rows, err := r.pool.Query(ctx, query, domain.TicketStatusResolved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MonthlyResolvedRow
	for rows.Next() {
		var row MonthlyResolvedRow
		if err := rows.Scan(&row.Year, &row.Month, &row.ResolvedCount); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *reportRepository) DepartmentBreakdown(ctx context.Context) ([]DepartmentCount, error) {
	const query = `
        SELECT COALESCE(department, ''), COUNT(*)
        FROM tickets
        GROUP BY 1`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DepartmentCount
	for rows.Next() {
		var row DepartmentCount
		if err := rows.Scan(&row.Department, &row.TicketCount); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *reportRepository) AgentStats(ctx context.Context) ([]AgentStatsRow, error) {
	const query = `
        SELECT assigned_to,
               COUNT(*),
               AVG(EXTRACT(EPOCH FROM (updated_at - created_at)) / 60),
               SUM(CASE WHEN status=$1 THEN 1 ELSE 0 END)::float / COUNT(*) * 100
        FROM tickets
        WHERE assigned_to IS NOT NULL
        GROUP BY assigned_to`
	rows, err := r.pool.Query(ctx, query, domain.TicketStatusResolved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AgentStatsRow
	for rows.Next() {
		var row AgentStatsRow
		if err := rows.Scan(&row.AgentID, &row.TicketsHandled, &row.AvgResponseMinutes, &row.ResolutionRate); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *reportRepository) TimeDistribution(ctx context.Context, granularity TimeGranularity, scope StatusScope) ([]TimeBucketRow, error) {
	where := "1=1"
	args := []any{}
	switch scope {
	case ScopeResolved:
		args = append(args, domain.TicketStatusResolved)
		where = fmt.Sprintf("status=$%d", len(args))
	case ScopeOpened:
		args = append(args, domain.TicketStatusResolved)
		where = fmt.Sprintf("status<>$%d", len(args))
	}

	var query string
	switch granularity {
	case GranularityMonthly:
		query = fmt.Sprintf(`
            SELECT EXTRACT(YEAR FROM created_at)::int,
                   EXTRACT(MONTH FROM created_at)::int,
                   COUNT(*)
            FROM tickets WHERE %s
            GROUP BY 1, 2 ORDER BY 1, 2`, where)
	case GranularityQuarterly:
		query = fmt.Sprintf(`
            SELECT EXTRACT(YEAR FROM created_at)::int,
                   EXTRACT(QUARTER FROM created_at)::int,
                   COUNT(*)
            FROM tickets WHERE %s
            GROUP BY 1, 2 ORDER BY 1, 2`, where)
	case GranularityYearly:
		query = fmt.Sprintf(`
            SELECT EXTRACT(YEAR FROM created_at)::int,
                   COUNT(*)
            FROM tickets WHERE %s
            GROUP BY 1 ORDER BY 1`, where)
	default:
		return nil, fmt.Errorf("unsupported granularity %q", granularity)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TimeBucketRow
	for rows.Next() {
		var row TimeBucketRow
		switch granularity {
		case GranularityMonthly:
			var month int
			if err := rows.Scan(&row.Year, &month, &row.Count); err != nil {
				return nil, err
			}
			row.Month = &month
		case GranularityQuarterly:
			var quarter int
			if err := rows.Scan(&row.Year, &quarter, &row.Count); err != nil {
				return nil, err
			}
			row.Quarter = &quarter
		default:
			if err := rows.Scan(&row.Year, &row.Count); err != nil {
				return nil, err
			}
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
