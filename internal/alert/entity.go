// AngelaMos | 2026
// entity.go

package alert

import (
	"database/sql"
	"time"
)

type Alert struct {
	ID                   string         `db:"id"`
	CompanyID            string         `db:"company_id"`
	Kind                 string         `db:"kind"`
	Title                string         `db:"title"`
	Body                 sql.NullString `db:"body"`
	Severity             string         `db:"severity"`
	RelatedTransactionID sql.NullString `db:"related_transaction_id"`
	CreatedAt            time.Time      `db:"created_at"`
}
