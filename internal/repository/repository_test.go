package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/go-test/deep"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/auth"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func q(s string) string { return regexp.QuoteMeta(s) }

func one() *sqlmock.Rows  { return sqlmock.NewRows([]string{"1"}).AddRow(1) }
func none() *sqlmock.Rows { return sqlmock.NewRows([]string{"1"}) }

func verify(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestClassify(t *testing.T) {
	plain := errors.New("io")
	cases := []struct {
		name   string
		err    error
		parent error
		want   error
	}{
		{"duplicate", &mysql.MySQLError{Number: 1062}, nil, ErrDuplicate},
		{"referenced", &mysql.MySQLError{Number: 1451}, nil, ErrReferenced},
		{"referenced legacy", &mysql.MySQLError{Number: 1217}, nil, ErrReferenced},
		{"missing parent", &mysql.MySQLError{Number: 1452}, ErrUnknownPoint, ErrUnknownPoint},
		{"plain", plain, ErrUnknownPoint, plain},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classify(tc.err, tc.parent); !errors.Is(got, tc.want) {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}

	unmapped := &mysql.MySQLError{Number: 1452}
	if got := classify(unmapped, nil); got != error(unmapped) {
		t.Fatalf("1452 without a parent sentinel should pass through, got %v", got)
	}
}

func TestUserCreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(q("INSERT INTO users")).
		WithArgs("alice", "hash", "user").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := NewUserRepo(db).Create(context.Background(), &model.User{Username: "alice", PasswordHash: "hash", Role: auth.RoleUser})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
	verify(t, mock)
}

func TestUserGetByUsername(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery(q("FROM users WHERE username = ?")).WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "role"}).AddRow(2, "bob", "h", "admin"))
	mock.ExpectQuery(q("FROM users WHERE username = ?")).WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "role"}))

	u, err := repo.GetByUsername(context.Background(), "bob")
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(u, model.User{ID: 2, Username: "bob", PasswordHash: "h", Role: auth.RoleAdmin}); diff != nil {
		t.Fatal(diff)
	}
	if _, err := repo.GetByUsername(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	verify(t, mock)
}

func TestPointListAggregatesMaterials(t *testing.T) {
	db, mock := newMock(t)
	cols := []string{"id", "name", "address", "postal_code", "latitude", "longitude", "status", "accepted_materials"}
	mock.ExpectQuery(q("GROUP_CONCAT")).WillReturnRows(sqlmock.NewRows(cols).
		AddRow(1, "Depot", "1 Road", "123456", 1.3, 103.8, "Active", "Glass, Paper").
		AddRow(2, "Bin", "2 Road", "654321", 1.4, 103.9, "Full", nil))

	got, err := NewPointRepo(db).List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	mats := "Glass, Paper"
	want := []model.DropOffPoint{
		{ID: 1, Name: "Depot", Address: "1 Road", PostalCode: "123456", Latitude: 1.3, Longitude: 103.8, Status: "Active", AcceptedMaterials: &mats},
		{ID: 2, Name: "Bin", Address: "2 Road", PostalCode: "654321", Latitude: 1.4, Longitude: 103.9, Status: "Full"},
	}
	if diff := deep.Equal(got, want); diff != nil {
		t.Fatal(diff)
	}
	verify(t, mock)
}

func TestPointCreateRejectsUnknownMaterial(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT 1 FROM recyclable_types WHERE id = ?")).WithArgs(1).WillReturnRows(one())
	mock.ExpectQuery(q("SELECT 1 FROM recyclable_types WHERE id = ?")).WithArgs(9).WillReturnRows(none())
	mock.ExpectRollback()

	p := &model.DropOffPoint{Name: "Depot", Address: "1 Road", Status: "Active"}
	err := NewPointRepo(db).Create(context.Background(), p, []uint64{1, 9})
	if !errors.Is(err, ErrUnknownMaterial) {
		t.Fatalf("want ErrUnknownMaterial, got %v", err)
	}
	if p.ID != 0 {
		t.Fatal("no id should be assigned when nothing was written")
	}
	verify(t, mock)
}

func TestPointCreate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT 1 FROM recyclable_types WHERE id = ?")).WithArgs(3).WillReturnRows(one())
	mock.ExpectExec(q("INSERT INTO drop_off_points")).
		WithArgs("Depot", "1 Road", "123456", 1.3, 103.8, "Active").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(q("INSERT INTO point_materials")).WithArgs(11, 3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p := &model.DropOffPoint{Name: "Depot", Address: "1 Road", PostalCode: "123456", Latitude: 1.3, Longitude: 103.8, Status: "Active"}
	if err := NewPointRepo(db).Create(context.Background(), p, []uint64{3}); err != nil {
		t.Fatal(err)
	}
	if p.ID != 11 {
		t.Fatalf("want id 11, got %d", p.ID)
	}
	verify(t, mock)
}

func TestPointUpdateReplacesMaterials(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT 1 FROM drop_off_points WHERE id = ? FOR UPDATE")).WithArgs(4).WillReturnRows(one())
	mock.ExpectExec(q("UPDATE drop_off_points")).
		WithArgs("Depot", "1 Road", "", 1.0, 2.0, "", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("DELETE FROM point_materials WHERE point_id = ?")).WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	p := &model.DropOffPoint{ID: 4, Name: "Depot", Address: "1 Road", Latitude: 1, Longitude: 2}
	if err := NewPointRepo(db).Update(context.Background(), p, nil, true); err != nil {
		t.Fatal(err)
	}
	verify(t, mock)
}

func TestPointUpdateMissing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT 1 FROM drop_off_points WHERE id = ? FOR UPDATE")).WithArgs(4).WillReturnRows(none())
	mock.ExpectRollback()

	err := NewPointRepo(db).Update(context.Background(), &model.DropOffPoint{ID: 4}, []uint64{1}, true)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	verify(t, mock)
}

func TestPointDeleteBlockedByLogs(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT 1 FROM drop_off_points WHERE id = ? FOR UPDATE")).WithArgs(5).WillReturnRows(one())
	mock.ExpectQuery(q("SELECT 1 FROM recycling_logs WHERE point_id = ?")).WithArgs(5).WillReturnRows(one())
	mock.ExpectRollback()

	if err := NewPointRepo(db).Delete(context.Background(), 5); !errors.Is(err, ErrReferenced) {
		t.Fatalf("want ErrReferenced, got %v", err)
	}
	verify(t, mock)
}

func TestPointDeleteRemovesAssociations(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT 1 FROM drop_off_points WHERE id = ? FOR UPDATE")).WithArgs(5).WillReturnRows(one())
	mock.ExpectQuery(q("SELECT 1 FROM recycling_logs WHERE point_id = ?")).WithArgs(5).WillReturnRows(none())
	mock.ExpectExec(q("DELETE FROM point_materials WHERE point_id = ?")).WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(q("DELETE FROM drop_off_points WHERE id = ?")).WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := NewPointRepo(db).Delete(context.Background(), 5); err != nil {
		t.Fatal(err)
	}
	verify(t, mock)
}

func TestMaterialCreateDuplicateName(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT 1 FROM recyclable_types WHERE material_name = ?")).WithArgs("Glass").WillReturnRows(one())
	mock.ExpectRollback()

	err := NewMaterialRepo(db).Create(context.Background(), &model.MaterialType{MaterialName: "Glass"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
	verify(t, mock)
}

func TestMaterialUpdateNameTakenByOther(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT 1 FROM recyclable_types WHERE id = ? FOR UPDATE")).WithArgs(2).WillReturnRows(one())
	mock.ExpectQuery(q("material_name = ? AND id <> ?")).WithArgs("Glass", 2).WillReturnRows(one())
	mock.ExpectRollback()

	err := NewMaterialRepo(db).Update(context.Background(), &model.MaterialType{ID: 2, MaterialName: "Glass"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
	verify(t, mock)
}

func TestMaterialDelete(t *testing.T) {
	t.Run("referenced by association", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(q("SELECT 1 FROM recyclable_types WHERE id = ? FOR UPDATE")).WithArgs(3).WillReturnRows(one())
		mock.ExpectQuery(q("SELECT 1 FROM recycling_logs WHERE material_id = ?")).WithArgs(3).WillReturnRows(none())
		mock.ExpectQuery(q("SELECT 1 FROM point_materials WHERE material_id = ?")).WithArgs(3).WillReturnRows(one())
		mock.ExpectRollback()

		if err := NewMaterialRepo(db).Delete(context.Background(), 3); !errors.Is(err, ErrReferenced) {
			t.Fatalf("want ErrReferenced, got %v", err)
		}
		verify(t, mock)
	})
	t.Run("referenced by log", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(q("SELECT 1 FROM recyclable_types WHERE id = ? FOR UPDATE")).WithArgs(3).WillReturnRows(one())
		mock.ExpectQuery(q("SELECT 1 FROM recycling_logs WHERE material_id = ?")).WithArgs(3).WillReturnRows(one())
		mock.ExpectRollback()

		if err := NewMaterialRepo(db).Delete(context.Background(), 3); !errors.Is(err, ErrReferenced) {
			t.Fatalf("want ErrReferenced, got %v", err)
		}
		verify(t, mock)
	})
	t.Run("missing", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(q("SELECT 1 FROM recyclable_types WHERE id = ? FOR UPDATE")).WithArgs(3).WillReturnRows(none())
		mock.ExpectRollback()

		if err := NewMaterialRepo(db).Delete(context.Background(), 3); !errors.Is(err, ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
		verify(t, mock)
	})
}

func TestLogCreateReadsServerTimestamp(t *testing.T) {
	db, mock := newMock(t)
	at := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT 1 FROM drop_off_points WHERE id = ?")).WithArgs(1).WillReturnRows(one())
	mock.ExpectQuery(q("SELECT 1 FROM recyclable_types WHERE id = ?")).WithArgs(2).WillReturnRows(one())
	mock.ExpectExec(q("INSERT INTO recycling_logs")).WithArgs(1, 2, 3.5, 7).WillReturnResult(sqlmock.NewResult(40, 1))
	mock.ExpectQuery(q("SELECT logged_at FROM recycling_logs WHERE id = ?")).WithArgs(40).
		WillReturnRows(sqlmock.NewRows([]string{"logged_at"}).AddRow(at))
	mock.ExpectCommit()

	l := &model.RecyclingLog{PointID: 1, MaterialID: 2, WeightKg: 3.5, UserID: 7}
	if err := NewLogRepo(db).Create(context.Background(), l); err != nil {
		t.Fatal(err)
	}
	if l.ID != 40 || !l.LoggedAt.Equal(at) {
		t.Fatalf("unexpected log %+v", l)
	}
	verify(t, mock)
}

func TestLogCreateUnknownPoint(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT 1 FROM drop_off_points WHERE id = ?")).WithArgs(99).WillReturnRows(none())
	mock.ExpectRollback()

	err := NewLogRepo(db).Create(context.Background(), &model.RecyclingLog{PointID: 99, MaterialID: 2, WeightKg: 1, UserID: 7})
	if !errors.Is(err, ErrUnknownPoint) {
		t.Fatalf("want ErrUnknownPoint, got %v", err)
	}
	verify(t, mock)
}

func TestLogUpdateDeniedLeavesRowUntouched(t *testing.T) {
	db, mock := newMock(t)
	denied := errors.New("denied")
	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT user_id FROM recycling_logs WHERE id = ? FOR UPDATE")).WithArgs(8).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(1))
	mock.ExpectRollback()

	var seen uint64
	err := NewLogRepo(db).Update(context.Background(),
		&model.RecyclingLog{ID: 8, PointID: 1, MaterialID: 1, WeightKg: 2},
		func(owner uint64) error { seen = owner; return denied })
	if !errors.Is(err, denied) {
		t.Fatalf("want authorize error, got %v", err)
	}
	if seen != 1 {
		t.Fatalf("authorize saw owner %d", seen)
	}
	verify(t, mock)
}

func TestLogUpdateMissingSkipsAuthorize(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT user_id FROM recycling_logs")).WithArgs(8).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	mock.ExpectRollback()

	err := NewLogRepo(db).Update(context.Background(), &model.RecyclingLog{ID: 8},
		func(uint64) error { t.Fatal("authorize must not run for a missing log"); return nil })
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	verify(t, mock)
}

func TestLogUpdateByOwner(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT user_id FROM recycling_logs")).WithArgs(8).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(7))
	mock.ExpectQuery(q("SELECT 1 FROM drop_off_points WHERE id = ?")).WithArgs(1).WillReturnRows(one())
	mock.ExpectQuery(q("SELECT 1 FROM recyclable_types WHERE id = ?")).WithArgs(4).WillReturnRows(one())
	mock.ExpectExec(q("UPDATE recycling_logs SET")).WithArgs(1, 4, 9.25, 8).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	l := &model.RecyclingLog{ID: 8, PointID: 1, MaterialID: 4, WeightKg: 9.25}
	if err := NewLogRepo(db).Update(context.Background(), l, func(uint64) error { return nil }); err != nil {
		t.Fatal(err)
	}
	if l.UserID != 7 {
		t.Fatalf("owner should be reported back, got %d", l.UserID)
	}
	verify(t, mock)
}

func TestLogDelete(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT user_id FROM recycling_logs")).WithArgs(8).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(7))
	mock.ExpectExec(q("DELETE FROM recycling_logs WHERE id = ?")).WithArgs(8).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	owner, err := NewLogRepo(db).Delete(context.Background(), 8, func(uint64) error { return nil })
	if err != nil {
		t.Fatal(err)
	}
	if owner != 7 {
		t.Fatalf("want owner 7, got %d", owner)
	}
	verify(t, mock)
}

func TestLogListRecent(t *testing.T) {
	db, mock := newMock(t)
	at := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	cols := []string{"id", "weight_kg", "logged_at", "material_id", "point_id", "material_name", "point_name", "user_id", "username"}
	mock.ExpectQuery(q("ORDER BY l.logged_at DESC")).WithArgs(50).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(3, 1.5, at, 2, 1, "Glass", "Depot", 7, "alice"))

	got, err := NewLogRepo(db).ListRecent(context.Background(), 50)
	if err != nil {
		t.Fatal(err)
	}
	want := []model.LogEntry{{ID: 3, WeightKg: 1.5, LoggedAt: at, MaterialID: 2, PointID: 1,
		MaterialName: "Glass", PointName: "Depot", UserID: 7, Username: "alice"}}
	if diff := deep.Equal(got, want); diff != nil {
		t.Fatal(diff)
	}
	verify(t, mock)
}
