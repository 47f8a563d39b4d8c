package recipients

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store reads the directory from the HRM employees table of one tenant.
type Store struct {
	DB       *pgxpool.Pool
	TenantID string
}

func NewStore(db *pgxpool.Pool, tenantID string) *Store {
	return &Store{DB: db, TenantID: tenantID}
}

func (s *Store) Directory(ctx context.Context) (Directory, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT first_name, last_name, COALESCE(email, '')
    FROM employees
    WHERE tenant_id = $1 AND COALESCE(email, '') <> ''
    ORDER BY last_name, first_name
  `, s.TenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dir := Directory{}
	for rows.Next() {
		var firstName, lastName, email string
		if err := rows.Scan(&firstName, &lastName, &email); err != nil {
			return nil, err
		}
		dir.Add(firstName+" "+lastName, email)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return dir, nil
}
