package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type PoliklinikService struct {
	DB *sql.DB
}

func NewPoliklinikService(db *sql.DB) *PoliklinikService {
	return &PoliklinikService{DB: db}
}

// ListNamaPoli returns the active poliklinik names in ID order. The result
// seeds the dispatch manager's specialty catalog once at startup.
func (ps *PoliklinikService) ListNamaPoli(ctx context.Context) ([]string, error) {
	query := "SELECT nama_poli FROM Poliklinik WHERE id_status = 1 ORDER BY id_poli ASC"
	rows, err := ps.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query poliklinik: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var namaPoli string
		if err := rows.Scan(&namaPoli); err != nil {
			return nil, fmt.Errorf("scan poliklinik: %w", err)
		}
		if namaPoli = strings.TrimSpace(namaPoli); namaPoli != "" {
			names = append(names, namaPoli)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("poliklinik table is empty")
	}
	return names, nil
}
