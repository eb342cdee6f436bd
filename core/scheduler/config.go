package scheduler

import "fmt"

// Config defines planning parameters loaded from configuration. Class values
// express relative revenue per passenger and drive the priority ranking.
type Config struct {
	SlotDurationMinutes int `json:"slot_duration_minutes"`
	DayStartHour        int `json:"day_start_hour"`
	DayEndHour          int `json:"day_end_hour"`

	FirstClassValue    float64 `json:"first_class_value"`
	BusinessClassValue float64 `json:"business_class_value"`
	EconomyClassValue  float64 `json:"economy_class_value"`

	// MaxIterations caps the number of candidate evaluations in the greedy
	// loop. Zero means no cap.
	MaxIterations int `json:"max_iterations"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.SlotDurationMinutes == 0 {
		c.SlotDurationMinutes = 60
	}
	if c.DayStartHour == 0 && c.DayEndHour == 0 {
		c.DayStartHour = 6
		c.DayEndHour = 23
	}
	if c.FirstClassValue == 0 {
		c.FirstClassValue = 4
	}
	if c.BusinessClassValue == 0 {
		c.BusinessClassValue = 2
	}
	if c.EconomyClassValue == 0 {
		c.EconomyClassValue = 1
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.SlotDurationMinutes <= 0 || c.SlotDurationMinutes > 24*60 {
		return fmt.Errorf("slot_duration_minutes must be within (0, 1440]")
	}
	if c.DayStartHour < 0 || c.DayEndHour > 24 || c.DayStartHour >= c.DayEndHour {
		return fmt.Errorf("day window [%d, %d) is invalid", c.DayStartHour, c.DayEndHour)
	}
	if c.FirstClassValue <= 0 || c.BusinessClassValue <= 0 || c.EconomyClassValue <= 0 {
		return fmt.Errorf("class values must be positive")
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("max_iterations must not be negative")
	}
	return nil
}
