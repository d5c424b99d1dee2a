package utils_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"savefood/models"
	"savefood/utils"
)

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

type fakeDB struct {
	execSQL  []string
	execArgs [][]any
	execTag  string
	execErr  error
	row      pgx.Row
	rowArgs  []any
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	f.execArgs = append(f.execArgs, args)
	return pgconn.NewCommandTag(f.execTag), f.execErr
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	f.rowArgs = args
	return f.row
}

func TestPGSessionStoreSave(t *testing.T) {
	db := &fakeDB{execTag: "INSERT 0 1"}
	store := utils.NewPGSessionStore(db)
	created := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	s := &models.Session{SessionToken: "st", AccessToken: "jwt", UserEmail: "ann@example.com", CSRFToken: "c", CreatedAt: created, LastActivity: created}
	if err := store.Save(context.Background(), s, 30*time.Minute); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	args := db.execArgs[0]
	if args[0] != utils.HashToken("st") {
		t.Errorf("stored key = %v, want hashed token", args[0])
	}
	if args[1] != "jwt" || args[2] != "ann@example.com" {
		t.Errorf("unexpected args: %v", args)
	}
	if exp := args[5].(time.Time); !exp.Equal(created.Add(30 * time.Minute)) {
		t.Errorf("expires_at = %v", exp)
	}
}

func TestPGSessionStoreGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := &fakeDB{row: fakeRow{scan: func(dest ...any) error {
			*dest[0].(*string) = "jwt"
			*dest[1].(*string) = "ann@example.com"
			*dest[2].(*string) = "csrf"
			return nil
		}}}
		store := utils.NewPGSessionStore(db)

		s, err := store.Get(context.Background(), "st")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if s.SessionToken != "st" || s.AccessToken != "jwt" || s.UserEmail != "ann@example.com" {
			t.Errorf("unexpected session: %+v", s)
		}
		if db.rowArgs[0] != utils.HashToken("st") {
			t.Errorf("looked up by %v, want hashed token", db.rowArgs[0])
		}
	})

	t.Run("missing", func(t *testing.T) {
		db := &fakeDB{row: fakeRow{scan: func(...any) error { return pgx.ErrNoRows }}}
		_, err := utils.NewPGSessionStore(db).Get(context.Background(), "st")
		if !errors.Is(err, utils.ErrSessionNotFound) {
			t.Errorf("Get() error = %v, want ErrSessionNotFound", err)
		}
	})

	t.Run("db failure", func(t *testing.T) {
		db := &fakeDB{row: fakeRow{scan: func(...any) error { return errors.New("conn reset") }}}
		_, err := utils.NewPGSessionStore(db).Get(context.Background(), "st")
		if err == nil || errors.Is(err, utils.ErrSessionNotFound) {
			t.Errorf("Get() error = %v, want wrapped db error", err)
		}
	})
}

func TestPGSessionStoreMaintenance(t *testing.T) {
	db := &fakeDB{execTag: "DELETE 3"}
	store := utils.NewPGSessionStore(db)
	ctx := context.Background()

	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if !strings.Contains(db.execSQL[0], "CREATE TABLE IF NOT EXISTS sessions") {
		t.Errorf("unexpected schema sql: %s", db.execSQL[0])
	}

	n, err := store.PurgeExpired(ctx)
	if err != nil || n != 3 {
		t.Errorf("PurgeExpired() = %d, %v; want 3, nil", n, err)
	}

	if err := store.Delete(ctx, "st"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Touch(ctx, "st"); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}
	if got := db.execArgs[len(db.execArgs)-1][0]; got != utils.HashToken("st") {
		t.Errorf("Touch() keyed by %v", got)
	}

	db.execErr = errors.New("read only")
	if err := store.Delete(ctx, "st"); err == nil {
		t.Error("Delete() swallowed the db error")
	}
}
