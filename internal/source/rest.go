package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"agent-insights-go/internal/logger"
	"agent-insights-go/internal/types"
)

// REST reads records from a PostgREST-style HTTP API (for example the
// hosted backend's auto-generated REST layer).
type REST struct {
	BaseURL      string
	APIKey       string
	Client       *http.Client
	MaxRetryTime time.Duration
	log          *logger.Logger
}

func NewREST(baseURL, apiKey string, timeout time.Duration, log *logger.Logger) *REST {
	if log == nil {
		log = logger.Discard()
	}
	return &REST{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		APIKey:       apiKey,
		Client:       &http.Client{Timeout: timeout},
		MaxRetryTime: 12 * time.Second,
		log:          log,
	}
}

type callRow struct {
	ID             string     `json:"id"`
	OccurredAt     *time.Time `json:"occurred_at"`
	Status         string     `json:"status"`
	Outcome        *string    `json:"outcome"`
	Duration       *int       `json:"duration_seconds"`
	EstimatedValue *float64   `json:"estimated_value"`
}

type emailRow struct {
	ID             string     `json:"id"`
	OccurredAt     *time.Time `json:"occurred_at"`
	Status         string     `json:"status"`
	Category       *string    `json:"category"`
	EstimatedValue *float64   `json:"estimated_value"`
}

func (r *REST) FetchCalls(ctx context.Context, clientID string, since time.Time) ([]types.CallRecord, error) {
	var rows []callRow
	if err := r.get(ctx, "calls", clientID, since, &rows); err != nil {
		return nil, err
	}
	out := make([]types.CallRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, types.CallRecord{
			ID:             row.ID,
			Timestamp:      deref(row.OccurredAt),
			Status:         types.CallStatus(row.Status),
			Outcome:        deref(row.Outcome),
			Duration:       deref(row.Duration),
			EstimatedValue: deref(row.EstimatedValue),
		})
	}
	return out, nil
}

func (r *REST) FetchEmails(ctx context.Context, clientID string, since time.Time) ([]types.EmailRecord, error) {
	var rows []emailRow
	if err := r.get(ctx, "emails", clientID, since, &rows); err != nil {
		return nil, err
	}
	out := make([]types.EmailRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, types.EmailRecord{
			ID:             row.ID,
			Timestamp:      deref(row.OccurredAt),
			Status:         types.EmailStatus(row.Status),
			Category:       deref(row.Category),
			EstimatedValue: deref(row.EstimatedValue),
		})
	}
	return out, nil
}

func (r *REST) get(ctx context.Context, table, clientID string, since time.Time, target any) error {
	if r.BaseURL == "" {
		return ErrNotConfigured
	}
	q := url.Values{}
	q.Set("client_id", "eq."+clientID)
	q.Set("or", fmt.Sprintf("(occurred_at.is.null,occurred_at.gte.%s)", since.UTC().Format(time.RFC3339)))
	endpoint := fmt.Sprintf("%s/%s?%s", r.BaseURL, table, q.Encode())

	log := r.log.WithField("component", "rest-source").WithField("table", table)

	var lastErr error
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if r.APIKey != "" {
			req.Header.Set("apikey", r.APIKey)
			req.Header.Set("Authorization", "Bearer "+r.APIKey)
		}

		resp, err := r.Client.Do(req)
		if err != nil {
			lastErr = err
			log.WithError(err).Warn("records request failed")
			return err
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)

		switch {
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("records server error: status=%d body=%s", resp.StatusCode, string(body))
			return lastErr
		case resp.StatusCode == http.StatusNotFound:
			// PostgREST answers 404 for a missing table or route; an unknown
			// client is just an empty list.
			lastErr = fmt.Errorf("%w: %s not found: body=%s", ErrMisconfigured, req.URL.Path, string(body))
			return backoff.Permanent(lastErr)
		case resp.StatusCode >= 400:
			// Permanent: don't retry on client errors
			lastErr = fmt.Errorf("records request rejected: status=%d body=%s", resp.StatusCode, string(body))
			return backoff.Permanent(lastErr)
		}

		if err := json.Unmarshal(body, target); err != nil {
			lastErr = fmt.Errorf("json decode error: %v body=%s", err, string(body))
			return backoff.Permanent(lastErr)
		}
		lastErr = nil
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = r.MaxRetryTime
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		if lastErr == nil {
			lastErr = err
		}
		return fmt.Errorf("fetch %s: %w", table, lastErr)
	}
	return nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
