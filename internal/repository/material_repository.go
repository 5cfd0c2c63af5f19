package repository

import (
	"context"
	"database/sql"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/model"
)

// MaterialRepo encapsulates queries on recyclable_types.
type MaterialRepo struct {
	db *sql.DB
}

func NewMaterialRepo(db *sql.DB) *MaterialRepo { return &MaterialRepo{db: db} }

// List returns all material types ordered by id.
func (r *MaterialRepo) List(ctx context.Context) ([]model.MaterialType, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, material_name, icon_url FROM recyclable_types ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.MaterialType{}
	for rows.Next() {
		var m model.MaterialType
		if err := rows.Scan(&m.ID, &m.MaterialName, &m.IconURL); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts m and fills in m.ID.  A name already in use yields
// ErrDuplicate.
func (r *MaterialRepo) Create(ctx context.Context, m *model.MaterialType) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		taken, err := exists(ctx, tx, "SELECT 1 FROM recyclable_types WHERE material_name = ?", m.MaterialName)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicate
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO recyclable_types (material_name, icon_url) VALUES (?, ?)", m.MaterialName, m.IconURL)
		if err != nil {
			return classify(err, nil)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		m.ID = uint64(id)
		return nil
	})
}

// Update overwrites name and icon of the material with m.ID.  ErrNotFound
// when the id is unknown, ErrDuplicate when another material has the name.
func (r *MaterialRepo) Update(ctx context.Context, m *model.MaterialType) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "SELECT 1 FROM recyclable_types WHERE id = ? FOR UPDATE", m.ID)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
		taken, err := exists(ctx, tx,
			"SELECT 1 FROM recyclable_types WHERE material_name = ? AND id <> ?", m.MaterialName, m.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicate
		}
		res, err := tx.ExecContext(ctx,
			"UPDATE recyclable_types SET material_name = ?, icon_url = ? WHERE id = ?", m.MaterialName, m.IconURL, m.ID)
		if err != nil {
			return classify(err, nil)
		}
		return affected(res)
	})
}

// Delete removes a material type.  ErrReferenced is returned while any
// recycling log or drop-off point association still uses it.
func (r *MaterialRepo) Delete(ctx context.Context, id uint64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "SELECT 1 FROM recyclable_types WHERE id = ? FOR UPDATE", id)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
		for _, q := range []string{
			"SELECT 1 FROM recycling_logs WHERE material_id = ? LIMIT 1",
			"SELECT 1 FROM point_materials WHERE material_id = ? LIMIT 1",
		} {
			used, err := exists(ctx, tx, q, id)
			if err != nil {
				return err
			}
			if used {
				return ErrReferenced
			}
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM recyclable_types WHERE id = ?", id)
		if err != nil {
			return classify(err, nil)
		}
		return affected(res)
	})
}
