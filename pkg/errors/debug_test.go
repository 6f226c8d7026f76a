package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestDumpExplainsShopConstraints(t *testing.T) {
	pgxErr := &pgconn.PgError{Code: "23505", ConstraintName: "ux_deployments_track_code", TableName: "deployments"}
	err := Wrap(CodeConflict, fmt.Errorf("insert deployment: %w", pgxErr), "track code taken")

	d := Dump(err)
	if d.Code != CodeConflict {
		t.Fatalf("unexpected code %s", d.Code)
	}
	if d.PGCode != "23505" || d.PGTable != "deployments" {
		t.Fatalf("pg fields not copied: %+v", d)
	}
	if d.Hint != "track code is already used by another deployment" {
		t.Fatalf("unexpected hint %q", d.Hint)
	}
	if len(d.Chain) != 3 {
		t.Fatalf("expected three links in chain, got %v", d.Chain)
	}
}

func TestDumpReadsLibPQErrors(t *testing.T) {
	d := Dump(fmt.Errorf("release: %w", &pq.Error{Code: "23514", Constraint: "deployments_check"}))
	if d.PGCode != "23514" || d.PGConstraint != "deployments_check" {
		t.Fatalf("pq fields not copied: %+v", d)
	}
	if d.Hint != "only Repaired deployments can be released" {
		t.Fatalf("unexpected hint %q", d.Hint)
	}

	if d := Dump(&pq.Error{Code: "23505", Constraint: "some_other_index"}); d.Hint != "" {
		t.Fatalf("unknown constraint should carry no hint, got %q", d.Hint)
	}
	if d := Dump(nil); d.TopMessage != "" {
		t.Fatalf("nil error should dump empty")
	}
}
