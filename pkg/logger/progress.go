package logger

import (
	"fmt"
	"sync"
	"time"
)

// ProgressReporter provides simple progress reporting for long fan-out runs
type ProgressReporter struct {
	mu          sync.Mutex
	total       int
	current     int
	description string
	startTime   time.Time
	lastUpdate  time.Time
	logger      *Logger
}

// NewProgressReporter creates a new progress reporter
func NewProgressReporter(total int, description string) *ProgressReporter {
	return &ProgressReporter{
		total:       total,
		description: description,
		startTime:   time.Now(),
		lastUpdate:  time.Now(),
		logger:      GetLogger().WithField("component", "progress"),
	}
}

// Update increments the progress counter and reports at most every 5 seconds
func (pr *ProgressReporter) Update(increment int) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	pr.current += increment
	now := time.Now()
	if now.Sub(pr.lastUpdate) >= 5*time.Second || pr.current >= pr.total {
		pr.report()
		pr.lastUpdate = now
	}
}

// Complete marks the progress as complete and reports final status
func (pr *ProgressReporter) Complete() {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	pr.current = pr.total
	pr.report()
}

// report logs the current progress (must be called with lock held)
func (pr *ProgressReporter) report() {
	if pr.total == 0 {
		return
	}
	percentage := float64(pr.current) / float64(pr.total) * 100
	pr.logger.WithFields(map[string]interface{}{
		"done":    pr.current,
		"total":   pr.total,
		"percent": fmt.Sprintf("%.1f", percentage),
		"elapsed": time.Since(pr.startTime).Round(time.Second).String(),
	}).Info(pr.description)
}
