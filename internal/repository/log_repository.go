package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/model"
)

// Authorizer decides, inside the write transaction, whether the caller may
// touch a log owned by ownerID.  A non-nil error aborts the write and is
// returned unchanged.
type Authorizer func(ownerID uint64) error

// LogRepo encapsulates queries on recycling_logs.
type LogRepo struct {
	db *sql.DB
}

func NewLogRepo(db *sql.DB) *LogRepo { return &LogRepo{db: db} }

const entrySelect = `SELECT l.id, l.weight_kg, l.logged_at, l.material_id, l.point_id,
	m.material_name, p.name AS point_name, l.user_id, u.username
	FROM recycling_logs l
	JOIN recyclable_types m ON l.material_id = m.id
	JOIN drop_off_points p ON l.point_id = p.id
	JOIN users u ON l.user_id = u.id`

func scanEntry(s interface{ Scan(...any) error }) (model.LogEntry, error) {
	var e model.LogEntry
	err := s.Scan(&e.ID, &e.WeightKg, &e.LoggedAt, &e.MaterialID, &e.PointID,
		&e.MaterialName, &e.PointName, &e.UserID, &e.Username)
	return e, err
}

// ListRecent returns at most limit logs, newest first.
func (r *LogRepo) ListRecent(ctx context.Context, limit int) ([]model.LogEntry, error) {
	rows, err := r.db.QueryContext(ctx, entrySelect+" ORDER BY l.logged_at DESC, l.id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.LogEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetEntry returns one joined log or ErrNotFound.
func (r *LogRepo) GetEntry(ctx context.Context, id uint64) (model.LogEntry, error) {
	e, err := scanEntry(r.db.QueryRowContext(ctx, entrySelect+" WHERE l.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.LogEntry{}, ErrNotFound
	}
	return e, err
}

// Create checks that the point and material exist and inserts l in the
// same transaction, then fills in l.ID and the server-assigned LoggedAt.
func (r *LogRepo) Create(ctx context.Context, l *model.RecyclingLog) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := requireLogRefs(ctx, tx, l.PointID, l.MaterialID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO recycling_logs (point_id, material_id, weight_kg, user_id) VALUES (?, ?, ?, ?)",
			l.PointID, l.MaterialID, l.WeightKg, l.UserID)
		if err != nil {
			return classify(err, ErrUnknownPoint)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		l.ID = uint64(id)
		return tx.QueryRowContext(ctx, "SELECT logged_at FROM recycling_logs WHERE id = ?", l.ID).Scan(&l.LoggedAt)
	})
}

// Update rewrites point, material and weight of log l.ID.  Inside one
// transaction it locks the row and reads its owner (ErrNotFound if absent),
// asks authorize, validates the references and writes.  On success l.UserID
// holds the stored owner.
func (r *LogRepo) Update(ctx context.Context, l *model.RecyclingLog, authorize Authorizer) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		owner, err := lockOwner(ctx, tx, l.ID)
		if err != nil {
			return err
		}
		if err := authorize(owner); err != nil {
			return err
		}
		if err := requireLogRefs(ctx, tx, l.PointID, l.MaterialID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			"UPDATE recycling_logs SET point_id = ?, material_id = ?, weight_kg = ? WHERE id = ?",
			l.PointID, l.MaterialID, l.WeightKg, l.ID)
		if err != nil {
			return classify(err, ErrUnknownPoint)
		}
		if err := affected(res); err != nil {
			return err
		}
		l.UserID = owner
		return nil
	})
}

// Delete removes log id after authorize approves its owner, atomically.
// It returns the owner of the deleted log.
func (r *LogRepo) Delete(ctx context.Context, id uint64, authorize Authorizer) (uint64, error) {
	var owner uint64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		if owner, err = lockOwner(ctx, tx, id); err != nil {
			return err
		}
		if err := authorize(owner); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM recycling_logs WHERE id = ?", id)
		if err != nil {
			return err
		}
		return affected(res)
	})
	return owner, err
}

// lockOwner reads only the owner column of a log, taking a row lock.
func lockOwner(ctx context.Context, tx *sql.Tx, id uint64) (uint64, error) {
	var owner uint64
	err := tx.QueryRowContext(ctx, "SELECT user_id FROM recycling_logs WHERE id = ? FOR UPDATE", id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return owner, err
}

func requireLogRefs(ctx context.Context, q queryer, pointID, materialID uint64) error {
	found, err := exists(ctx, q, "SELECT 1 FROM drop_off_points WHERE id = ?", pointID)
	if err != nil {
		return err
	}
	if !found {
		return ErrUnknownPoint
	}
	found, err = exists(ctx, q, "SELECT 1 FROM recyclable_types WHERE id = ?", materialID)
	if err != nil {
		return err
	}
	if !found {
		return ErrUnknownMaterial
	}
	return nil
}
