package source

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"agent-insights-go/internal/types"
)

// Postgres reads records from the managed relational backend.
//
// Expected tables:
//
//	calls(id, client_id, occurred_at, status, outcome, duration_seconds, estimated_value)
//	emails(id, client_id, occurred_at, status, category, estimated_value)
type Postgres struct {
	DB *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{DB: db}
}

// OpenPostgres connects with the lib/pq driver and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Postgres{DB: db}, nil
}

func (p *Postgres) Close() error {
	return p.DB.Close()
}

const callsQuery = `
	SELECT id, occurred_at, status, COALESCE(outcome, ''), COALESCE(duration_seconds, 0), COALESCE(estimated_value, 0)
	FROM calls
	WHERE client_id = $1 AND (occurred_at IS NULL OR occurred_at >= $2)
`

const emailsQuery = `
	SELECT id, occurred_at, status, COALESCE(category, ''), COALESCE(estimated_value, 0)
	FROM emails
	WHERE client_id = $1 AND (occurred_at IS NULL OR occurred_at >= $2)
`

func (p *Postgres) FetchCalls(ctx context.Context, clientID string, since time.Time) ([]types.CallRecord, error) {
	rows, err := p.DB.QueryContext(ctx, callsQuery, clientID, since)
	if err != nil {
		return nil, fmt.Errorf("query calls: %w", err)
	}
	defer rows.Close()

	out := []types.CallRecord{}
	for rows.Next() {
		var (
			id, status sql.NullString
			at         sql.NullTime
			c          types.CallRecord
		)
		if err := rows.Scan(&id, &at, &status, &c.Outcome, &c.Duration, &c.EstimatedValue); err != nil {
			return nil, fmt.Errorf("scan call: %w", err)
		}
		c.ID = id.String
		c.Timestamp = at.Time
		c.Status = types.CallStatus(status.String)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calls: %w", err)
	}
	return out, nil
}

func (p *Postgres) FetchEmails(ctx context.Context, clientID string, since time.Time) ([]types.EmailRecord, error) {
	rows, err := p.DB.QueryContext(ctx, emailsQuery, clientID, since)
	if err != nil {
		return nil, fmt.Errorf("query emails: %w", err)
	}
	defer rows.Close()

	out := []types.EmailRecord{}
	for rows.Next() {
		var (
			id, status sql.NullString
			at         sql.NullTime
			e          types.EmailRecord
		)
		if err := rows.Scan(&id, &at, &status, &e.Category, &e.EstimatedValue); err != nil {
			return nil, fmt.Errorf("scan email: %w", err)
		}
		e.ID = id.String
		e.Timestamp = at.Time
		e.Status = types.EmailStatus(status.String)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate emails: %w", err)
	}
	return out, nil
}
