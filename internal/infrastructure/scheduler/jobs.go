package scheduler

import (
	"github.com/fintrack/backend/internal/infrastructure/config"
)

// Names of the daily finance jobs
const (
	JobSubscriptionRenewals = "subscription_renewals"
	JobRenewalReminders     = "renewal_reminders"
	JobInvestmentSnapshots  = "investment_snapshots"
	JobExchangeRateRefresh  = "exchange_rate_refresh"
	JobActivityPrune        = "activity_prune"
)

// FinanceJobs holds the work behind each daily job. A nil func leaves the job
// unregistered.
type FinanceJobs struct {
	Renewals    JobFunc
	Reminders   JobFunc
	Snapshots   JobFunc
	RateRefresh JobFunc
	Prune       JobFunc
}

// Entries builds the daily schedule from configuration. Schedule times are UTC.
func (f FinanceJobs) Entries(cfg config.SchedulerConfig) ([]Entry, error) {
	specs := []struct {
		name string
		expr string
		run  JobFunc
	}{
		{JobSubscriptionRenewals, cfg.RenewalSchedule, f.Renewals},
		{JobRenewalReminders, cfg.ReminderSchedule, f.Reminders},
		{JobInvestmentSnapshots, cfg.SnapshotSchedule, f.Snapshots},
		{JobExchangeRateRefresh, cfg.RateRefreshSchedule, f.RateRefresh},
		// shares the snapshot slot
		{JobActivityPrune, cfg.SnapshotSchedule, f.Prune},
	}

	var entries []Entry
	for _, s := range specs {
		if s.run == nil {
			continue
		}
		e, err := NewEntry(s.name, s.expr, s.run)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
