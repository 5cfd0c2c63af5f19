package repository

import (
	"context"
	"database/sql"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/model"
)

// PointRepo encapsulates queries on drop_off_points and the point_materials
// association.  Multi-statement writes run in a single transaction.
type PointRepo struct {
	db *sql.DB
}

func NewPointRepo(db *sql.DB) *PointRepo { return &PointRepo{db: db} }

// List returns every point with the names of its accepted materials joined
// by ", " in name order.  Points without materials have a nil
// AcceptedMaterials.
func (r *PointRepo) List(ctx context.Context) ([]model.DropOffPoint, error) {
	const q = `SELECT p.id, p.name, p.address, p.postal_code, p.latitude, p.longitude, p.status,
	           GROUP_CONCAT(m.material_name ORDER BY m.material_name SEPARATOR ', ') AS accepted_materials
	           FROM drop_off_points p
	           LEFT JOIN point_materials pm ON p.id = pm.point_id
	           LEFT JOIN recyclable_types m ON pm.material_id = m.id
	           GROUP BY p.id
	           ORDER BY p.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.DropOffPoint{}
	for rows.Next() {
		var p model.DropOffPoint
		if err := rows.Scan(&p.ID, &p.Name, &p.Address, &p.PostalCode, &p.Latitude, &p.Longitude,
			&p.Status, &p.AcceptedMaterials); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts p with the given material associations and fills in p.ID.
// Every material id must exist, otherwise ErrUnknownMaterial is returned and
// nothing is written.
func (r *PointRepo) Create(ctx context.Context, p *model.DropOffPoint, materialIDs []uint64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := requireMaterials(ctx, tx, materialIDs); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO drop_off_points (name, address, postal_code, latitude, longitude, status)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			p.Name, p.Address, p.PostalCode, p.Latitude, p.Longitude, p.Status)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		p.ID = uint64(id)
		return insertAssociations(ctx, tx, p.ID, materialIDs)
	})
}

// Update overwrites the point's columns.  An empty Status keeps the stored
// value.  When replaceMaterials is set the association set is deleted and
// rebuilt from materialIDs (nil or empty clears it).  ErrNotFound is
// returned when the point does not exist.
func (r *PointRepo) Update(ctx context.Context, p *model.DropOffPoint, materialIDs []uint64, replaceMaterials bool) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "SELECT 1 FROM drop_off_points WHERE id = ? FOR UPDATE", p.ID)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
		if replaceMaterials {
			if err := requireMaterials(ctx, tx, materialIDs); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE drop_off_points
			 SET name = ?, address = ?, postal_code = ?, latitude = ?, longitude = ?, status = COALESCE(NULLIF(?, ''), status)
			 WHERE id = ?`,
			p.Name, p.Address, p.PostalCode, p.Latitude, p.Longitude, p.Status, p.ID)
		if err != nil {
			return err
		}
		if err := affected(res); err != nil {
			return err
		}
		if !replaceMaterials {
			return nil
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM point_materials WHERE point_id = ?", p.ID); err != nil {
			return err
		}
		return insertAssociations(ctx, tx, p.ID, materialIDs)
	})
}

// Delete removes the point and its associations.  ErrReferenced is returned
// while recycling logs still name the point.
func (r *PointRepo) Delete(ctx context.Context, id uint64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "SELECT 1 FROM drop_off_points WHERE id = ? FOR UPDATE", id)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
		used, err := exists(ctx, tx, "SELECT 1 FROM recycling_logs WHERE point_id = ? LIMIT 1", id)
		if err != nil {
			return err
		}
		if used {
			return ErrReferenced
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM point_materials WHERE point_id = ?", id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM drop_off_points WHERE id = ?", id)
		if err != nil {
			return classify(err, nil)
		}
		return affected(res)
	})
}

// requireMaterials checks that every id names an existing material type.
func requireMaterials(ctx context.Context, q queryer, ids []uint64) error {
	for _, id := range ids {
		found, err := exists(ctx, q, "SELECT 1 FROM recyclable_types WHERE id = ?", id)
		if err != nil {
			return err
		}
		if !found {
			return ErrUnknownMaterial
		}
	}
	return nil
}

func insertAssociations(ctx context.Context, q queryer, pointID uint64, materialIDs []uint64) error {
	for _, mid := range materialIDs {
		if _, err := q.ExecContext(ctx,
			"INSERT INTO point_materials (point_id, material_id) VALUES (?, ?)", pointID, mid); err != nil {
			return classify(err, ErrUnknownMaterial)
		}
	}
	return nil
}
