package seed

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/matkmin/Document-Management-System-Backend/internal/auth"
	"github.com/matkmin/Document-Management-System-Backend/internal/config"
)

var departments = []struct {
	Name        string
	Description string
}{
	{"Human Resources", "People operations and recruiting"},
	{"Finance", "Accounting, budgeting, and payroll"},
	{"Engineering", "Product development and infrastructure"},
	{"Marketing", "Brand, campaigns, and communications"},
	{"Operations", "Facilities, logistics, and vendor management"},
}

var categories = []struct {
	Title       string
	Description string
}{
	{"Contracts", "Legal agreements and amendments"},
	{"Reports", "Periodic and ad-hoc reporting"},
	{"Policies", "Internal policies and procedures"},
	{"Invoices", "Billing documents"},
	{"Presentations", "Slide decks and briefings"},
	{"Manuals", "Guides and reference material"},
}

// Run inserts the baseline departments, categories, and the initial admin
// account. Every insert is idempotent, so running it on each startup is safe.
func Run(ctx context.Context, db *sql.DB, cfg config.SeedConfig) error {
	for _, d := range departments {
		_, err := db.ExecContext(ctx,
			`INSERT INTO departments (name, description, created_at)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (name) DO NOTHING`,
			d.Name, d.Description, time.Now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("seed department %q: %w", d.Name, err)
		}
	}

	for _, c := range categories {
		_, err := db.ExecContext(ctx,
			`INSERT INTO document_categories (title, description, created_at)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (title) DO NOTHING`,
			c.Title, c.Description, time.Now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("seed category %q: %w", c.Title, err)
		}
	}

	if cfg.AdminPassword == "" {
		return fmt.Errorf("seed admin: SEED_ADMIN_PASSWORD is required")
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, role, created_at)
		 VALUES ($1, $2, $3, 'admin', $4)
		 ON CONFLICT (email) DO NOTHING`,
		"Administrator", cfg.AdminEmail, hash, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	return nil
}
