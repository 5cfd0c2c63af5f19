package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order; every statement is idempotent so Migrate can
// run on each start against an existing database.
var schema = []struct {
	name string
	ddl  string
}{
	{"users", `CREATE TABLE IF NOT EXISTS users (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(100) NOT NULL,
		password VARCHAR(255) NOT NULL,
		role ENUM('user','admin') NOT NULL DEFAULT 'user',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"drop_off_points", `CREATE TABLE IF NOT EXISTS drop_off_points (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		address VARCHAR(255) NOT NULL,
		postal_code VARCHAR(20) NOT NULL DEFAULT '',
		latitude DECIMAL(9,6) NOT NULL,
		longitude DECIMAL(9,6) NOT NULL,
		status VARCHAR(50) NOT NULL DEFAULT 'Active'
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"recyclable_types", `CREATE TABLE IF NOT EXISTS recyclable_types (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		material_name VARCHAR(100) NOT NULL,
		icon_url VARCHAR(512) NULL,
		UNIQUE KEY uq_recyclable_types_name (material_name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"point_materials", `CREATE TABLE IF NOT EXISTS point_materials (
		point_id INT UNSIGNED NOT NULL,
		material_id INT UNSIGNED NOT NULL,
		PRIMARY KEY (point_id, material_id),
		CONSTRAINT fk_pm_point FOREIGN KEY (point_id) REFERENCES drop_off_points(id),
		CONSTRAINT fk_pm_material FOREIGN KEY (material_id) REFERENCES recyclable_types(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"recycling_logs", `CREATE TABLE IF NOT EXISTS recycling_logs (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		point_id INT UNSIGNED NOT NULL,
		material_id INT UNSIGNED NOT NULL,
		weight_kg DECIMAL(10,2) NOT NULL,
		logged_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		user_id INT UNSIGNED NOT NULL,
		KEY idx_logs_logged_at (logged_at),
		CONSTRAINT fk_logs_point FOREIGN KEY (point_id) REFERENCES drop_off_points(id),
		CONSTRAINT fk_logs_material FOREIGN KEY (material_id) REFERENCES recyclable_types(id),
		CONSTRAINT fk_logs_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
}

// Migrate creates any missing table.  Existing tables are left untouched.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, s := range schema {
		if _, err := db.ExecContext(ctx, s.ddl); err != nil {
			return fmt.Errorf("migrate %s: %w", s.name, err)
		}
	}
	return nil
}
