package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/aquatrack/internal/domain"
	"github.com/MrSnakeDoc/aquatrack/internal/logger"
)

// DefaultReminderInterval is used when no interval is configured.
const DefaultReminderInterval = time.Hour

// RecordSource is the read side of the record store.
type RecordSource interface {
	List() []domain.Aquarium
	Now() time.Time
}

// Report is the result of one reminder scan.
type Report struct {
	CheckedAt time.Time         `json:"checkedAt"`
	Reminders []domain.Reminder `json:"reminders"`
}

// ReminderScanner periodically logs the chores that are overdue or due today.
type ReminderScanner struct {
	source        RecordSource
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}

	mu   sync.RWMutex
	last Report
}

// NewReminderScanner creates a scanner. manualTrigger may be nil.
func NewReminderScanner(
	source RecordSource,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *ReminderScanner {
	if interval <= 0 {
		interval = DefaultReminderInterval
	}

	return &ReminderScanner{
		source:        source,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start runs a scan immediately, then on every tick or manual trigger.
func (rs *ReminderScanner) Start(ctx context.Context) error {
	rs.Check(ctx)

	ticker := time.NewTicker(rs.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rs.Check(ctx)
			case <-rs.manualTrigger:
				rs.logger.Info("manual reminder check triggered")
				rs.Check(ctx)
			case <-rs.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the scanner. Safe to call more than once.
func (rs *ReminderScanner) Stop() {
	rs.stopOnce.Do(func() { close(rs.stopCh) })
}

// Check scans every record and logs one line per chore needing attention.
func (rs *ReminderScanner) Check(_ context.Context) Report {
	now := rs.source.Now()
	reminders := domain.Reminders(rs.source.List(), now)

	for _, r := range reminders {
		fields := []logger.Field{
			logger.String("aquarium_id", r.AquariumID),
			logger.String("aquarium", r.Name),
			logger.String("chore", string(r.Chore)),
			logger.Int("days_until", r.DaysUntil),
		}
		if r.Status == domain.StatusOverdue {
			rs.logger.Warn("maintenance overdue: "+r.Label, fields...)
		} else {
			rs.logger.Info("maintenance due today", fields...)
		}
	}

	if len(reminders) == 0 {
		rs.logger.Debug("no maintenance due")
	}

	report := Report{CheckedAt: now, Reminders: reminders}
	rs.mu.Lock()
	rs.last = report
	rs.mu.Unlock()
	return report
}

// LastReport returns the most recent scan result.
func (rs *ReminderScanner) LastReport() Report {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.last
}
