package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mstanek/apidex"
)

// Compile-time interface verification.
var (
	_ apidex.CostService     = (*CostService)(nil)
	_ apidex.OverviewService = (*CostService)(nil)
)

// CostService implements apidex.CostService using PostgreSQL. It also
// serves the api_overview and cost_comparison views.
type CostService struct {
	db *DB
}

// NewCostService creates a new CostService.
func NewCostService(db *DB) *CostService {
	return &CostService{db: db}
}

// CreateCostEntry records a cost entry.
func (s *CostService) CreateCostEntry(ctx context.Context, entry *apidex.CostEntry) error {
	if entry.Unit == "" {
		entry.Unit = "call"
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	entry.ID = uuid.New().String()
	entry.RecordedAt = time.Now().UTC()

	_, err := s.db.pool.Exec(ctx, `
		INSERT INTO cost_tracking (id, api_id, operation, unit, unit_cost_micros, monthly_volume, notes, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, entry.ID, entry.APIID, entry.Operation, entry.Unit,
		entry.UnitCostMicros, entry.MonthlyVolume, entry.Notes, entry.RecordedAt)

	return err
}

// FindCostEntries retrieves entries matching the filter.
func (s *CostService) FindCostEntries(ctx context.Context, filter apidex.CostFilter) ([]*apidex.CostEntry, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, api_id, operation, unit, unit_cost_micros, monthly_volume, notes, recorded_at
		FROM cost_tracking WHERE 1=1`)

	if filter.ID != nil {
		appendWhere(&query, &args, "id =", *filter.ID)
	}
	if filter.APIID != nil {
		appendWhere(&query, &args, "api_id =", *filter.APIID)
	}
	if filter.Operation != nil {
		appendWhere(&query, &args, "operation =", *filter.Operation)
	}

	query.WriteString(" ORDER BY operation, recorded_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*apidex.CostEntry
	for rows.Next() {
		var entry apidex.CostEntry
		if err := rows.Scan(&entry.ID, &entry.APIID, &entry.Operation, &entry.Unit,
			&entry.UnitCostMicros, &entry.MonthlyVolume, &entry.Notes, &entry.RecordedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// DeleteCostEntry permanently removes a cost entry.
func (s *CostService) DeleteCostEntry(ctx context.Context, id string) error {
	tag, err := s.db.pool.Exec(ctx, "DELETE FROM cost_tracking WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apidex.Errorf(apidex.ENOTFOUND, "cost entry not found")
	}
	return nil
}

// APIOverviews reads the api_overview view.
func (s *CostService) APIOverviews(ctx context.Context) ([]*apidex.APIOverview, error) {
	rows, err := s.db.pool.Query(ctx, `
		SELECT api_id, name, endpoints, parameters, quirks, doc_pages, monthly_cost_micros
		FROM api_overview
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overviews []*apidex.APIOverview
	for rows.Next() {
		var o apidex.APIOverview
		if err := rows.Scan(&o.APIID, &o.Name, &o.Endpoints, &o.Parameters,
			&o.Quirks, &o.DocPages, &o.MonthlyCostMicros); err != nil {
			return nil, err
		}
		overviews = append(overviews, &o)
	}

	return overviews, rows.Err()
}

// CostRank is one row of the cost_comparison view.
type CostRank struct {
	Operation         string
	APIID             string
	APIName           string
	Unit              string
	UnitCostMicros    int64
	MonthlyVolume     int64
	MonthlyCostMicros int64
	Rank              int
}

// CostComparisonRows reads the cost_comparison view, cheapest first
// within each operation.
func (s *CostService) CostComparisonRows(ctx context.Context) ([]*CostRank, error) {
	rows, err := s.db.pool.Query(ctx, `
		SELECT operation, api_id, api_name, unit, unit_cost_micros, monthly_volume, monthly_cost_micros, cost_rank
		FROM cost_comparison
		ORDER BY operation, cost_rank
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranks []*CostRank
	for rows.Next() {
		var r CostRank
		if err := rows.Scan(&r.Operation, &r.APIID, &r.APIName, &r.Unit,
			&r.UnitCostMicros, &r.MonthlyVolume, &r.MonthlyCostMicros, &r.Rank); err != nil {
			return nil, err
		}
		ranks = append(ranks, &r)
	}

	return ranks, rows.Err()
}
