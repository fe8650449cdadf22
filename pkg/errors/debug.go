package errors

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrorDump is the log-only view of an error chain. It never reaches clients.
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

	// Hint names the marketplace rule behind a known constraint.
	Hint string `json:"hint,omitempty"`
}

// constraintHints covers the named constraints and unique indexes in
// pkg/migrate/migrations.
var constraintHints = map[string]string{
	"idx_users_email":          "email already registered",
	"fk_products_seller":       "product seller does not exist",
	"chk_products_price":       "product price must be positive",
	"chk_products_quantity":    "product quantity must not be negative",
	"chk_products_category":    "unknown product category",
	"chk_products_condition":   "unknown product condition",
	"fk_cart_items_user":       "cart owner does not exist",
	"fk_cart_items_product":    "cart references a missing product",
	"chk_cart_items_quantity":  "cart quantity must be at least 1",
	"fk_orders_user":           "order buyer does not exist",
	"chk_orders_total":         "order total must not be negative",
	"fk_order_items_order":     "order line references a missing order",
	"fk_order_items_product":   "order line references a missing product",
	"chk_order_items_quantity": "order line quantity must be at least 1",
}

// keyValueRe matches the "Key (email)=(a@b.c)" part of Postgres constraint
// details so emails and ids stay out of the logs.
var keyValueRe = regexp.MustCompile(`\)=\(.*?\)`)

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

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
		d.PGCode = pgxErr.Code
		d.PGConstraint = pgxErr.ConstraintName
		d.PGTable = pgxErr.TableName
		d.PGColumn = pgxErr.ColumnName
		d.PGDetail = pgxErr.Detail
		d.PGMessage = pgxErr.Message
	case errors.As(err, &pqErr):
		d.PGCode = string(pqErr.Code)
		d.PGConstraint = pqErr.Constraint
		d.PGTable = pqErr.Table
		d.PGColumn = pqErr.Column
		d.PGDetail = pqErr.Detail
		d.PGMessage = pqErr.Message
	default:
		return d
	}

	d.PGDetail = keyValueRe.ReplaceAllString(d.PGDetail, ")=(redacted)")
	d.Hint = constraintHints[d.PGConstraint]
	return d
}
