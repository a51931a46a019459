// Package models contains GORM persistence models that map to database tables.
// Domain entities carry no GORM tags; each model has ToDomain/FromDomain
// mappers and repositories only ever write models.
//
// Files:
//   - base.go: shared columns (BaseModel, AggregateModel, OwnedAggregateModel)
//   - identity.go: users
//   - ledger.go: accounts, categories, transactions
//   - subscription.go: subscriptions
//   - goal.go, investment.go: goals, investments and snapshots
//   - notification.go, settings.go, activity.go, exchange_rate.go
package models
