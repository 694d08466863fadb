package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/hengshuofushi123/greenledger/internal/model"
)

// ProjectStore reads the project registry. Projects are owned by the CRUD
// layer; this store only ever selects.
type ProjectStore struct {
	db *DB
}

// NewProjectStore creates a project store.
func NewProjectStore(db *DB) *ProjectStore {
	return &ProjectStore{db: db}
}

// List retrieves projects matching the filter, ordered by id.
func (s *ProjectStore) List(ctx context.Context, f model.ProjectFilter) ([]model.Project, error) {
	query := strings.Builder{}
	query.WriteString(`
		SELECT id, project_name,
		       COALESCE(province, ''), COALESCE(secondary_unit, ''),
		       COALESCE(power_type, ''), COALESCE(project_nature, ''),
		       COALESCE(investment_scope, ''), COALESCE(capacity_mw, 0),
		       is_uhv_support, has_subsidy, is_filed,
		       is_beijing_registered, is_guangzhou_registered
		FROM projects`)

	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(f.IDs) > 0 {
		conds = append(conds, "id = ANY("+arg(pq.Array(f.IDs))+")")
	}
	textFilters := []struct {
		col string
		val string
	}{
		{"province", f.Province},
		{"secondary_unit", f.SecondaryUnit},
		{"power_type", f.PowerType},
		{"project_nature", f.ProjectNature},
		{"investment_scope", f.InvestmentScope},
	}
	for _, tf := range textFilters {
		if tf.val != "" {
			conds = append(conds, tf.col+" = "+arg(tf.val))
		}
	}
	boolFilters := []struct {
		col string
		val *bool
	}{
		{"is_uhv_support", f.UHVSupport},
		{"has_subsidy", f.HasSubsidy},
		{"is_filed", f.Filed},
		{"is_beijing_registered", f.BeijingRegistered},
		{"is_guangzhou_registered", f.GuangzhouRegistered},
	}
	for _, bf := range boolFilters {
		if bf.val != nil {
			conds = append(conds, bf.col+" = "+arg(*bf.val))
		}
	}

	if len(conds) > 0 {
		query.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	query.WriteString(" ORDER BY id")

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Province, &p.SecondaryUnit,
			&p.PowerType, &p.ProjectNature, &p.InvestmentScope, &p.CapacityMW,
			&p.UHVSupport, &p.HasSubsidy, &p.Filed,
			&p.BeijingRegistered, &p.GuangzhouRegistered,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return projects, nil
}
