package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fintrack/backend/internal/domain/account"
	"github.com/fintrack/backend/internal/domain/notification"
	"github.com/fintrack/backend/internal/domain/settings"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/fintrack/backend/internal/domain/subscription"
	"github.com/fintrack/backend/internal/domain/transaction"
	"github.com/fintrack/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CurrencyConverter converts amounts between currencies
type CurrencyConverter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to valueobject.Currency) (decimal.Decimal, error)
}

// RenewalConfig tunes the renewal and reminder jobs
type RenewalConfig struct {
	// Lookahead is the reminder window when neither the subscription nor the
	// user sets one
	Lookahead time.Duration
	// BatchSize is the number of due subscriptions loaded per query
	BatchSize int
}

// DefaultRenewalConfig returns a 3 day lookahead and batches of 200
func DefaultRenewalConfig() RenewalConfig {
	return RenewalConfig{Lookahead: 72 * time.Hour, BatchSize: 200}
}

// RenewalOutcome describes one renewed subscription
type RenewalOutcome struct {
	Charges  int
	Previous time.Time
	Next     time.Time
	Notified bool
}

// RenewalService books due subscription renewals and sends renewal reminders
type RenewalService struct {
	subRepo          subscription.SubscriptionRepository
	accountRepo      account.AccountRepository
	notificationRepo notification.NotificationRepository
	settingsRepo     settings.SettingsRepository
	converter        CurrencyConverter
	eventPublisher   shared.EventPublisher
	logger           *zap.Logger
	config           RenewalConfig
	now              func() time.Time
}

// NewRenewalService creates a new RenewalService
func NewRenewalService(
	subRepo subscription.SubscriptionRepository,
	accountRepo account.AccountRepository,
	notificationRepo notification.NotificationRepository,
	settingsRepo settings.SettingsRepository,
	converter CurrencyConverter,
	logger *zap.Logger,
	config RenewalConfig,
) *RenewalService {
	def := DefaultRenewalConfig()
	if config.Lookahead <= 0 {
		config.Lookahead = def.Lookahead
	}
	if config.BatchSize <= 0 {
		config.BatchSize = def.BatchSize
	}
	return &RenewalService{
		subRepo:          subRepo,
		accountRepo:      accountRepo,
		notificationRepo: notificationRepo,
		settingsRepo:     settingsRepo,
		converter:        converter,
		logger:           logger,
		config:           config,
		now:              time.Now,
	}
}

// SetEventPublisher sets the publisher for renewal and ledger events
func (s *RenewalService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ProcessDue renews every active subscription whose renewal date has passed.
// A failing subscription is logged and skipped; the others still renew.
func (s *RenewalService) ProcessDue(ctx context.Context) (RunReport, error) {
	now := s.now()
	var report RunReport
	failed := make(map[uuid.UUID]bool)

	for {
		// failed rows are still due, so widen the page past them
		limit := s.config.BatchSize + len(failed)
		due, err := s.subRepo.FindDue(ctx, now, limit)
		if err != nil {
			return report, fmt.Errorf("find due subscriptions: %w", err)
		}
		progressed := false
		for i := range due {
			sub := &due[i]
			if failed[sub.ID] {
				continue
			}
			progressed = true
			outcome, err := s.RenewOne(ctx, sub, now, false)
			if err != nil {
				failed[sub.ID] = true
				report.Failed++
				s.logger.Error("Subscription renewal failed",
					zap.String("subscription_id", sub.ID.String()),
					zap.String("owner_id", sub.OwnerID.String()),
					zap.Error(err),
				)
				continue
			}
			report.Processed++
			report.Charges += outcome.Charges
			if outcome.Notified {
				report.Notified++
			}
		}
		if len(due) < limit || !progressed {
			break
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
	}

	s.logger.Info("Subscription renewals processed",
		zap.Int("processed", report.Processed),
		zap.Int("failed", report.Failed),
		zap.Int("charges", report.Charges),
	)
	return report, nil
}

// RenewOne renews a single subscription. Every elapsed period is charged when
// the subscription auto-renews against an account; early books the next
// period ahead of its due date. The advanced subscription, its ledger entries
// and the balance change are committed together.
func (s *RenewalService) RenewOne(ctx context.Context, sub *subscription.Subscription, now time.Time, early bool) (*RenewalOutcome, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "subscription", "renew")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOwnerID, sub.OwnerID.String(),
		telemetry.SpanAttrSubscriptionID, sub.ID.String(),
		"early", early,
	)

	var (
		r   *subscription.Renewal
		err error
	)
	if early {
		r, err = sub.RenewEarly(now)
	} else {
		r, err = sub.Renew(now)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	entries, err := s.charges(ctx, sub, r)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	deltas := make([][]account.BalanceDelta, len(entries))
	for i, e := range entries {
		deltas[i] = e.BalanceDeltas()
	}
	if err := s.subRepo.SaveRenewal(ctx, sub, entries, account.Merge(deltas...)); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("save renewal: %w", err)
	}
	telemetry.AddEvent(span, "periods_booked", telemetry.SpanAttrCount, len(entries))

	outcome := &RenewalOutcome{Charges: len(entries), Previous: r.Previous, Next: r.Next}
	outcome.Notified = s.notifyRenewed(ctx, sub, r)

	shared.PublishEvents(ctx, s.eventPublisher, sub)
	for _, e := range entries {
		shared.PublishEvents(ctx, s.eventPublisher, e)
	}
	return outcome, nil
}

// charges builds one expense per charged period in the account's currency
func (s *RenewalService) charges(ctx context.Context, sub *subscription.Subscription, r *subscription.Renewal) ([]*transaction.Transaction, error) {
	if !sub.AutoRenew || sub.AccountID == nil {
		return nil, nil
	}
	acct, err := s.accountRepo.FindByIDForOwner(ctx, sub.OwnerID, *sub.AccountID)
	if errors.Is(err, shared.ErrNotFound) {
		s.logger.Warn("Renewal account missing, advancing without charge",
			zap.String("subscription_id", sub.ID.String()))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if acct.IsArchived {
		s.logger.Warn("Renewal account archived, advancing without charge",
			zap.String("subscription_id", sub.ID.String()),
			zap.String("account_id", acct.ID.String()))
		return nil, nil
	}

	converted, err := s.converter.Convert(ctx, sub.Amount, sub.Currency, acct.Currency)
	if err != nil {
		return nil, err
	}
	subID := sub.ID
	entries := make([]*transaction.Transaction, 0, len(r.ChargeDates))
	for _, day := range r.ChargeDates {
		txn, err := transaction.NewTransaction(sub.OwnerID, transaction.Params{
			AccountID:       acct.ID,
			CategoryID:      sub.CategoryID,
			Type:            transaction.TransactionTypeExpense,
			Amount:          sub.Amount,
			Currency:        sub.Currency,
			ConvertedAmount: converted,
			Description:     sub.Name,
			Notes:           "Subscription renewal",
			Date:            day,
			SubscriptionID:  &subID,
		})
		if err != nil {
			return nil, err
		}
		entries = append(entries, txn)
	}
	return entries, nil
}

func (s *RenewalService) notifyRenewed(ctx context.Context, sub *subscription.Subscription, r *subscription.Renewal) bool {
	prefs := s.preferences(ctx, sub.OwnerID)
	if !prefs.NotificationsEnabled {
		return false
	}
	msg := fmt.Sprintf("%s renewed for %s. Next renewal on %s.",
		sub.Name,
		sub.Price().Format(prefs.Locale),
		r.Next.In(prefs.Location()).Format("Jan 2, 2006"),
	)
	n, err := notification.NewNotification(sub.OwnerID, notification.TypeSubscriptionRenewed,
		"Subscription renewed", msg, &sub.ID)
	if err != nil {
		s.logger.Error("Failed to build renewal notification", zap.Error(err))
		return false
	}
	created, err := s.notificationRepo.CreateIfAbsent(ctx, n.WithDedupeKey(notification.RenewedKey(sub.ID, r.Previous)))
	if err != nil {
		s.logger.Error("Failed to store renewal notification",
			zap.String("subscription_id", sub.ID.String()), zap.Error(err))
		return false
	}
	return created
}

// SendUpcomingReminders notifies owners of active subscriptions renewing
// within their reminder window. Each subscription gets at most one reminder
// per UTC day.
func (s *RenewalService) SendUpcomingReminders(ctx context.Context) (RunReport, error) {
	now := s.now()
	var report RunReport

	horizon := time.Duration(subscription.MaxNotifyDaysBefore) * 24 * time.Hour
	if s.config.Lookahead > horizon {
		horizon = s.config.Lookahead
	}
	subs, err := s.subRepo.FindRenewingBetween(ctx, now, now.Add(horizon))
	if err != nil {
		return report, fmt.Errorf("find upcoming subscriptions: %w", err)
	}

	owners := make([]uuid.UUID, 0, len(subs))
	seen := make(map[uuid.UUID]bool)
	for _, sub := range subs {
		if !seen[sub.OwnerID] {
			seen[sub.OwnerID] = true
			owners = append(owners, sub.OwnerID)
		}
	}
	prefs, err := s.settingsRepo.FindMany(ctx, owners)
	if err != nil {
		s.logger.Warn("Failed to load user settings, using defaults", zap.Error(err))
		prefs = nil
	}

	for i := range subs {
		sub := &subs[i]
		p := prefs[sub.OwnerID]
		if p == nil {
			p = settings.Defaults(sub.OwnerID)
		}
		if !p.NotificationsEnabled {
			continue
		}
		lookahead := s.config.Lookahead
		if p.ReminderDays > 0 {
			lookahead = time.Duration(p.ReminderDays) * 24 * time.Hour
		}
		if !sub.IsUpcoming(now, lookahead) {
			continue
		}
		report.Processed++

		msg := fmt.Sprintf("%s renews on %s for %s.",
			sub.Name,
			sub.NextRenewalDate.In(p.Location()).Format("Jan 2, 2006"),
			sub.Price().Format(p.Locale),
		)
		n, err := notification.NewNotification(sub.OwnerID, notification.TypeSubscriptionUpcoming,
			"Upcoming renewal", msg, &sub.ID)
		if err != nil {
			report.Failed++
			s.logger.Error("Failed to build reminder", zap.String("subscription_id", sub.ID.String()), zap.Error(err))
			continue
		}
		created, err := s.notificationRepo.CreateIfAbsent(ctx, n.WithDedupeKey(notification.UpcomingRenewalKey(sub.ID, now)))
		if err != nil {
			report.Failed++
			s.logger.Error("Failed to store reminder", zap.String("subscription_id", sub.ID.String()), zap.Error(err))
			continue
		}
		if created {
			report.Notified++
		}
	}

	s.logger.Info("Renewal reminders sent",
		zap.Int("candidates", report.Processed),
		zap.Int("notified", report.Notified),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

func (s *RenewalService) preferences(ctx context.Context, ownerID uuid.UUID) *settings.UserSettings {
	p, err := s.settingsRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Failed to load user settings, using defaults",
				zap.String("owner_id", ownerID.String()), zap.Error(err))
		}
		return settings.Defaults(ownerID)
	}
	return p
}
