package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// constraintHints explains the shop schema's named and default-named
// constraints in terms a support engineer reading logs recognizes.
var constraintHints = map[string]string{
	"ux_parts_name_brand":                  "a part with this name and brand already exists",
	"ux_deployments_track_code":            "track code is already used by another deployment",
	"ux_deployment_lines_part":             "deployment lists the same part more than once",
	"ux_record_references_entry":           "record reference already present in the owner's list",
	"procurements_part_id_fkey":            "procurement points at a part that no longer exists",
	"deployment_lines_part_id_fkey":        "deployment line points at a part that no longer exists",
	"procurements_quantity_bought_check":   "quantity bought must be positive",
	"deployment_lines_quantity_used_check": "quantity used must be positive",
	"deployments_repair_status_check":      "unknown repair status",
	"deployments_check":                    "only Repaired deployments can be released",
	"reconciliation_reports_part_id_fkey":  "drift report points at a part that no longer exists",
	"record_references_owner_type_check":   "record references can only hang off parts or users",
	"record_references_record_type_check":  "only procurements and deployments can be referenced",
}

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGColumn     string `json:"pg_column,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`
	// Hint names the shop rule behind PGConstraint, when it is one of ours.
	Hint string `json:"hint,omitempty"`
}

// Dump flattens err for structured logs. Driver errors from either pgx or
// lib/pq land in the same PG* fields.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pgxErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgxErr):
		d.PGCode, d.PGConstraint, d.PGTable = pgxErr.Code, pgxErr.ConstraintName, pgxErr.TableName
		d.PGColumn, d.PGDetail, d.PGMessage = pgxErr.ColumnName, pgxErr.Detail, pgxErr.Message
	case errors.As(err, &pqErr):
		d.PGCode, d.PGConstraint, d.PGTable = string(pqErr.Code), pqErr.Constraint, pqErr.Table
		d.PGColumn, d.PGDetail, d.PGMessage = pqErr.Column, pqErr.Detail, pqErr.Message
	}
	d.Hint = constraintHints[d.PGConstraint]
	return d
}
