package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"agent-insights-go/internal/types"
)

// Constants is the business assumption table every aggregate is computed
// against. Aggregates are a pure function of (records, window, Constants).
type Constants struct {
	// QualifyingOutcomes are the exact, case-sensitive outcomes counted as qualified leads.
	QualifyingOutcomes []string `yaml:"qualifying_outcomes"`
	// OutcomeOrder is the canonical ordering of call outcomes used for colors.
	OutcomeOrder []string `yaml:"outcome_order"`
	// CategoryOrder is the canonical ordering of email categories used for colors.
	CategoryOrder []string `yaml:"category_order"`
	// Palette holds the chart color tokens, assigned in canonical order.
	Palette []string `yaml:"palette"`
	// ResponseTimeVoice and ResponseTimeEmail are display constants, not measurements.
	ResponseTimeVoice string `yaml:"response_time_voice"`
	ResponseTimeEmail string `yaml:"response_time_email"`

	Impact     Impact     `yaml:"impact"`
	Thresholds Thresholds `yaml:"thresholds"`
}

// Impact configures the business impact estimator.
type Impact struct {
	LossConversionRate    float64  `yaml:"loss_conversion_rate"`
	AvgLeadValue          float64  `yaml:"avg_lead_value"`
	MinutesSavedPerEvent  float64  `yaml:"minutes_saved_per_event"`
	HourlyStaffCost       float64  `yaml:"hourly_staff_cost"`
	PeriodDays            int      `yaml:"period_days"`
	SavingsProjectionDays int      `yaml:"savings_projection_days"`
	HoursPerFTE           float64  `yaml:"hours_per_fte"`
	TeamSize              int      `yaml:"team_size"`
	MissedOutcomes        []string `yaml:"missed_outcomes"`
}

// Thresholds configures the insight rule engine.
type Thresholds struct {
	LowAnswerRate         int     `yaml:"low_answer_rate"`
	HighAnswerRate        int     `yaml:"high_answer_rate"`
	HoursPerPartTimeStaff float64 `yaml:"hours_per_part_time_staff"`
}

// DefaultConstants returns the assumptions the dashboards shipped with.
func DefaultConstants() Constants {
	return Constants{
		QualifyingOutcomes: []string{"Interested", "Follow-up required", "Converted lead"},
		OutcomeOrder:       []string{"Interested", "Follow-up required", "Converted lead", "Not Interested", "Missed"},
		CategoryOrder:      []string{"Sales", "Support", "Urgent", "Billing", "General", "Spam"},
		Palette:            []string{"#8b5cf6", "#22c55e", "#f59e0b", "#ef4444", "#06b6d4", "#ec4899", "#64748b"},
		ResponseTimeVoice:  "< 1s",
		ResponseTimeEmail:  "< 2 min",
		Impact: Impact{
			LossConversionRate:    0.33,
			AvgLeadValue:          3000,
			MinutesSavedPerEvent:  5,
			HourlyStaffCost:       150,
			PeriodDays:            30,
			SavingsProjectionDays: 30,
			HoursPerFTE:           160,
			TeamSize:              1,
			MissedOutcomes:        []string{"Missed"},
		},
		Thresholds: Thresholds{
			LowAnswerRate:         90,
			HighAnswerRate:        95,
			HoursPerPartTimeStaff: 160,
		},
	}
}

// ResponseTime returns the nominal response time shown for a channel.
func (c Constants) ResponseTime(ch types.Channel) string {
	if ch == types.ChannelEmail {
		return c.ResponseTimeEmail
	}
	return c.ResponseTimeVoice
}

// CanonicalOrder returns the color reference ordering for a channel.
func (c Constants) CanonicalOrder(ch types.Channel) []string {
	if ch == types.ChannelEmail {
		return c.CategoryOrder
	}
	return c.OutcomeOrder
}

// Validate rejects tables that would make aggregates meaningless.
func (c Constants) Validate() error {
	if c.Impact.LossConversionRate < 0 || c.Impact.LossConversionRate > 1 {
		return fmt.Errorf("impact.loss_conversion_rate must be within [0,1], got %v", c.Impact.LossConversionRate)
	}
	if c.Impact.AvgLeadValue < 0 {
		return fmt.Errorf("impact.avg_lead_value must not be negative")
	}
	if c.Impact.MinutesSavedPerEvent < 0 || c.Impact.HourlyStaffCost < 0 {
		return fmt.Errorf("impact minutes and costs must not be negative")
	}
	if c.Impact.PeriodDays <= 0 || c.Impact.SavingsProjectionDays <= 0 {
		return fmt.Errorf("impact period days must be positive")
	}
	if c.Impact.HoursPerFTE <= 0 || c.Impact.TeamSize <= 0 {
		return fmt.Errorf("impact.hours_per_fte and impact.team_size must be positive")
	}
	if c.Thresholds.HoursPerPartTimeStaff <= 0 {
		return fmt.Errorf("thresholds.hours_per_part_time_staff must be positive")
	}
	if c.Thresholds.LowAnswerRate > c.Thresholds.HighAnswerRate {
		return fmt.Errorf("thresholds.low_answer_rate (%d) exceeds high_answer_rate (%d)",
			c.Thresholds.LowAnswerRate, c.Thresholds.HighAnswerRate)
	}
	if len(c.Palette) == 0 {
		return fmt.Errorf("palette must contain at least one color")
	}
	return nil
}

// LoadConstants overlays a YAML file on the defaults. An empty path yields the defaults.
func LoadConstants(path string) (Constants, error) {
	c := DefaultConstants()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Constants{}, fmt.Errorf("read constants file: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Constants{}, fmt.Errorf("parse constants file: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Constants{}, fmt.Errorf("invalid constants: %w", err)
	}
	return c, nil
}
