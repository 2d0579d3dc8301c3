package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		if err := MapError("op", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("typed errors pass through untouched", func(t *testing.T) {
		orig := NewError(CodeForbidden, "contract.sign", "nope", nil)
		mapped := MapError("other", orig)
		if mapped != orig {
			t.Fatalf("typed error must pass through, got %v", mapped)
		}
	})

	t.Run("record not found", func(t *testing.T) {
		err := MapError("op", gorm.ErrRecordNotFound)
		if CodeOf(err) != CodeNotFound {
			t.Fatalf("got %q want %q", CodeOf(err), CodeNotFound)
		}
	})

	t.Run("unique violation maps to conflict", func(t *testing.T) {
		err := MapError("op", &pgconn.PgError{Code: "23505"})
		if CodeOf(err) != CodeConflict {
			t.Fatalf("got %q want %q", CodeOf(err), CodeConflict)
		}
	})

	t.Run("fk violation maps to invalid input", func(t *testing.T) {
		err := MapError("op", &pgconn.PgError{Code: "23503"})
		if CodeOf(err) != CodeInvalidInput {
			t.Fatalf("got %q want %q", CodeOf(err), CodeInvalidInput)
		}
	})

	t.Run("deadlock maps to conflict", func(t *testing.T) {
		for _, code := range []string{"40001", "40P01", "55P03"} {
			err := MapError("op", &pgconn.PgError{Code: code})
			if CodeOf(err) != CodeConflict {
				t.Fatalf("%s: got %q want %q", code, CodeOf(err), CodeConflict)
			}
		}
	})

	t.Run("unknown maps to internal", func(t *testing.T) {
		err := MapError("op", errors.New("boom"))
		if CodeOf(err) != CodeInternal {
			t.Fatalf("got %q want %q", CodeOf(err), CodeInternal)
		}
	})
}

func TestErrorHelpers(t *testing.T) {
	base := NewError(CodeConflict, "contract.sign", "you have already signed this contract", errors.New("duplicate key"))
	wrapped := fmt.Errorf("outer: %w", base)

	if !IsCode(wrapped, CodeConflict) {
		t.Fatal("IsCode must see through wrapping")
	}
	if CodeOf(wrapped) != CodeConflict {
		t.Fatalf("CodeOf: got %q", CodeOf(wrapped))
	}
	if MessageOf(wrapped) != "you have already signed this contract" {
		t.Fatalf("MessageOf: got %q", MessageOf(wrapped))
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Fatal("plain errors carry no code")
	}
}
