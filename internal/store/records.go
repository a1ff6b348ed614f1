package store

import (
	"context"
	"database/sql"
	"fmt"

	"costlens/internal/model"
)

const recordColumns = `
	id, row_no, year, quarter,
	warehouse, type, gl_account_no, gl_account_name, gl_accounts_group,
	cost_type, tco_model_categories, opex_capex,
	total_incurred_cost,
	share_dmsco, share_3pl, share_alfaris, share_jaleel, share_other,
	value_dmsco, value_3pl, value_alfaris, value_jaleel, value_other,
	pharmacies_cost, distribution_cost, last_mile_cost,
	proceed_3pl_wh_cost, proceed_3pl_trs_cost, warehouse_cost, transportation_cost`

// SaveAll 批量保存成本记录
func (s *Store) SaveAll(ctx context.Context, records []model.CostRecord, clearExisting bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if clearExisting {
		if _, err := tx.ExecContext(ctx, "DELETE FROM cost_records"); err != nil {
			return fmt.Errorf("failed to clear cost records: %w", err)
		}
	}

	if len(records) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO cost_records (
				row_no, year, quarter,
				warehouse, type, gl_account_no, gl_account_name, gl_accounts_group,
				cost_type, tco_model_categories, opex_capex,
				total_incurred_cost,
				share_dmsco, share_3pl, share_alfaris, share_jaleel, share_other,
				value_dmsco, value_3pl, value_alfaris, value_jaleel, value_other,
				pharmacies_cost, distribution_cost, last_mile_cost,
				proceed_3pl_wh_cost, proceed_3pl_trs_cost, warehouse_cost, transportation_cost
			) VALUES (
				?, ?, ?,
				?, ?, ?, ?, ?,
				?, ?, ?,
				?,
				?, ?, ?, ?, ?,
				?, ?, ?, ?, ?,
				?, ?, ?,
				?, ?, ?, ?
			)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, r := range records {
			_, err := stmt.ExecContext(ctx,
				r.RowNo, r.Year, string(r.Quarter),
				r.Warehouse, r.Type, r.GLAccountNo, r.GLAccountName, r.GLAccountsGroup,
				r.CostType, r.TCOModelCategories, r.OpexCapex,
				r.TotalIncurredCost,
				r.ShareDmsco, r.Share3PL, r.ShareAlFaris, r.ShareJaleel, r.ShareOther,
				r.ValueDmsco, r.Value3PL, r.ValueAlFaris, r.ValueJaleel, r.ValueOther,
				r.PharmaciesCost, r.DistributionCost, r.LastMileCost,
				r.Proceed3PLWHCost, r.Proceed3PLTRSCost, r.WarehouseCost, r.TransportationCost,
			)
			if err != nil {
				return fmt.Errorf("failed to insert record (row %d): %w", r.RowNo, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadAll 获取全部成本记录
func (s *Store) LoadAll(ctx context.Context) ([]model.CostRecord, error) {
	return s.Query(ctx, model.RecordFilter{})
}

// Query 按条件查询成本记录
// quarter 大小写不敏感，glAccountName 为大小写不敏感的子串匹配，其余字段精确匹配。
func (s *Store) Query(ctx context.Context, f model.RecordFilter) ([]model.CostRecord, error) {
	query := "SELECT " + recordColumns + " FROM cost_records WHERE 1=1"
	args := []interface{}{}

	if f.Year != nil {
		query += " AND year = ?"
		args = append(args, *f.Year)
	}
	if f.Quarter != nil {
		query += " AND UPPER(quarter) = UPPER(?)"
		args = append(args, *f.Quarter)
	}
	if f.Warehouse != nil {
		query += " AND warehouse = ?"
		args = append(args, *f.Warehouse)
	}
	if f.Type != nil {
		query += " AND type = ?"
		args = append(args, *f.Type)
	}
	if f.CostType != nil {
		query += " AND cost_type = ?"
		args = append(args, *f.CostType)
	}
	if f.OpexCapex != nil {
		query += " AND opex_capex = ?"
		args = append(args, *f.OpexCapex)
	}
	if f.Category != nil {
		query += " AND tco_model_categories = ?"
		args = append(args, *f.Category)
	}
	if f.GLAccountNo != nil {
		query += " AND gl_account_no = ?"
		args = append(args, *f.GLAccountNo)
	}
	if f.GLAccountName != nil {
		query += " AND instr(lower(gl_account_name), lower(?)) > 0"
		args = append(args, *f.GLAccountName)
	}

	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cost records: %w", err)
	}
	defer rows.Close()

	result := make([]model.CostRecord, 0)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cost records: %w", err)
	}
	return result, nil
}

// Count 记录总数
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cost_records").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cost records: %w", err)
	}
	return n, nil
}

// Years 已存在的年份（升序）
func (s *Store) Years(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT year FROM cost_records ORDER BY year")
	if err != nil {
		return nil, fmt.Errorf("failed to query years: %w", err)
	}
	defer rows.Close()

	years := make([]int, 0)
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("failed to scan year: %w", err)
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

func scanRecord(rows *sql.Rows) (model.CostRecord, error) {
	var r model.CostRecord
	var quarter string
	err := rows.Scan(
		&r.ID, &r.RowNo, &r.Year, &quarter,
		&r.Warehouse, &r.Type, &r.GLAccountNo, &r.GLAccountName, &r.GLAccountsGroup,
		&r.CostType, &r.TCOModelCategories, &r.OpexCapex,
		&r.TotalIncurredCost,
		&r.ShareDmsco, &r.Share3PL, &r.ShareAlFaris, &r.ShareJaleel, &r.ShareOther,
		&r.ValueDmsco, &r.Value3PL, &r.ValueAlFaris, &r.ValueJaleel, &r.ValueOther,
		&r.PharmaciesCost, &r.DistributionCost, &r.LastMileCost,
		&r.Proceed3PLWHCost, &r.Proceed3PLTRSCost, &r.WarehouseCost, &r.TransportationCost,
	)
	if err != nil {
		return model.CostRecord{}, fmt.Errorf("failed to scan cost record: %w", err)
	}
	r.Quarter = model.Quarter(quarter)
	return r, nil
}
