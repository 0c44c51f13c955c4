package card

import (
	"context"
	"time"

	"homebank/internal/models"
)

// Default configuration values
const (
	DefaultMaxPerType        = 3
	DefaultValidityYears     = 5
	DefaultMaxNumberAttempts = 10
)

// Config holds the issuance rules.
type Config struct {
	MaxPerType        int
	ValidityYears     int
	MaxNumberAttempts int
	Colors            models.ColorCatalog
	Location          *time.Location
	Now               func() time.Time
}

func (c Config) withDefaults() Config {
	if c.MaxPerType <= 0 {
		c.MaxPerType = DefaultMaxPerType
	}
	if c.ValidityYears <= 0 {
		c.ValidityYears = DefaultValidityYears
	}
	if c.MaxNumberAttempts <= 0 {
		c.MaxNumberAttempts = DefaultMaxNumberAttempts
	}
	if len(c.Colors) == 0 {
		c.Colors = models.DefaultColorCatalog()
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// MetricsCollector defines the interface for collecting card metrics
type MetricsCollector interface {
	RecordOperationDuration(operation string, duration time.Duration)
	RecordOperationResult(operation, result string)
	RecordError(operation, errType string)
	RecordNumberCollision()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
func (n *NoopMetricsCollector) RecordOperationResult(string, string)          {}
func (n *NoopMetricsCollector) RecordError(string, string)                    {}
func (n *NoopMetricsCollector) RecordNumberCollision()                        {}

// NoopPublisher drops events; used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) CardIssued(context.Context, models.CardIssued) error { return nil }
