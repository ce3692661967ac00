// This file implements creating the workbooks of configured users on startup.
package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/playnotes/pkg/types"
)

// SeedWorkbooks creates the workbook of every configured user in a single
// transaction and returns how many were new. Existing workbooks are left
// as they are, so seeding is idempotent.
func (b *Backend) SeedWorkbooks(users []types.UserConfig) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return 0, types.ErrDetached
	}

	tx, err := b.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt := now()
	created := 0
	for _, u := range users {
		if u.Workbook == "" {
			return 0, fmt.Errorf("%w: %q", types.ErrUserWorkbook, u.Name)
		}
		res, err := tx.Exec(
			"INSERT INTO workbooks (workbook_id, created_at) VALUES (?, ?) ON CONFLICT(workbook_id) DO NOTHING",
			u.Workbook, createdAt)
		if err != nil {
			return 0, fmt.Errorf("seeding workbook %s for %s: %w", u.Workbook, u.Name, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			created++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing seed transaction: %w", err)
	}
	return created, nil
}
