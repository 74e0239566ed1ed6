// internal/types/kpi_models.go
package types

import "time"

// --------------------------------------------
// KPI tiles
// --------------------------------------------
type KPIs struct {
	Total              int     `json:"total"`
	Handled            int     `json:"handled"`
	AnsweredRate       int     `json:"answered_rate"` // 0–100
	Missed             int     `json:"missed"`
	Pending            int     `json:"pending"`
	AvgDurationSeconds int     `json:"avg_duration_seconds"`
	AvgDuration        string  `json:"avg_duration"` // MM:SS
	QualifiedLeads     int     `json:"qualified_leads"`
	TotalValue         float64 `json:"total_value"`
	ResponseTime       string  `json:"response_time"`
}

// --------------------------------------------
// Chart points
// --------------------------------------------
type SeriesPoint struct {
	BucketLabel string    `json:"bucket_label"`
	BucketStart time.Time `json:"bucket_start"`
	Value       float64   `json:"value"`
}

type DistributionPoint struct {
	CategoryName string `json:"category_name"`
	Count        int    `json:"count"`
	Color        string `json:"color"`
}

// --------------------------------------------
// Business impact calculator
// --------------------------------------------
type ImpactSnapshot struct {
	MissedBefore         int     `json:"missed_before"`
	PotentialLeadsLost   int     `json:"potential_leads_lost"`
	EstimatedRevenueLoss float64 `json:"estimated_revenue_loss"`
	CapturedCount        int     `json:"captured_count"`
	CapturedValue        float64 `json:"captured_value"`
	HoursSaved           float64 `json:"hours_saved"`
	DailySavingsRate     float64 `json:"daily_savings_rate"`
	CostSavings          float64 `json:"cost_savings"`
	CaptureRatePct       int     `json:"capture_rate_pct"`
	AIHandledPct         int     `json:"ai_handled_pct"`
	FTEEquivalent        float64 `json:"fte_equivalent"`
	ProductivityBoostPct int     `json:"productivity_boost_pct"`
}

// --------------------------------------------
// Rule engine output
// --------------------------------------------
type InsightKind string

const (
	KindInsight        InsightKind = "insight"
	KindAlert          InsightKind = "alert"
	KindRecommendation InsightKind = "recommendation"
)

type Insight struct {
	Kind            InsightKind `json:"kind"`
	Rule            string      `json:"rule"`
	Title           string      `json:"title"`
	Message         string      `json:"message"`
	SuggestedAction string      `json:"suggested_action,omitempty"`
}

// --------------------------------------------
// Full dashboard payload delivered to frontend
// --------------------------------------------
type Dashboard struct {
	ClientID     string              `json:"client_id,omitempty"`
	Channel      Channel             `json:"channel"`
	Window       string              `json:"window"`
	GeneratedAt  time.Time           `json:"generated_at"`
	KPIs         KPIs                `json:"kpis"`
	Series       []SeriesPoint       `json:"series"`
	Distribution []DistributionPoint `json:"distribution"`
	Impact       ImpactSnapshot      `json:"impact"`
	Insights     []Insight           `json:"insights"`
	Dropped      int                 `json:"dropped_records"`
}
