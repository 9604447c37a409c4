// Package store keeps budgets, categories and expenses together with their
// aggregated totals.
//
// Every mutation runs in a single database transaction that reads the
// affected parent rows, applies the change to the totals and writes them
// back. After the transaction committed, change events are published so that
// observers can refresh their data.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/budget-tracker/backend/internal/models"
	"github.com/budget-tracker/backend/internal/notify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var operations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "store_operations_total",
		Help: "How many store operations were executed, partitioned by operation and result.",
	},
	[]string{"operation", "result"},
)

// Store is the single writer for budgets, categories and expenses.
type Store struct {
	db      *gorm.DB
	broker  *notify.Broker
	forward notify.Publisher
}

// New returns a Store working on db.
//
// Events are published to the broker for observers. Additional publishers,
// e.g. a message queue, receive the same events. Failures of additional
// publishers are logged and do not fail the operation.
func New(db *gorm.DB, broker *notify.Broker, forward ...notify.Publisher) *Store {
	if broker == nil {
		broker = notify.NewBroker()
	}

	return &Store{
		db:      db,
		broker:  broker,
		forward: notify.Fanout(forward),
	}
}

// Ping verifies that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	err = sqlDB.PingContext(ctx)
	if err != nil {
		log.Error().Err(err).Msg("database ping failed")
		return models.ErrGeneral
	}

	return nil
}

// changes collects the events of one transaction.
type changes []notify.Event

func (c *changes) add(resource notify.Resource, operation notify.Operation, id, budgetID, categoryID uint64) {
	*c = append(*c, notify.Event{
		Resource:   resource,
		Operation:  operation,
		ID:         id,
		BudgetID:   budgetID,
		CategoryID: categoryID,
		Time:       time.Now().In(time.UTC),
	})
}

// transaction runs fn in a database transaction and publishes the
// collected events after it has been committed.
func (s *Store) transaction(ctx context.Context, operation string, fn func(tx *gorm.DB, c *changes) error) error {
	var c changes

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx, &c)
	})
	if err != nil {
		operations.WithLabelValues(operation, "error").Inc()
		log.Debug().Str("operation", operation).Err(err).Msg("store")

		// Starting the transaction does not pass through the gorm callbacks
		if err.Error() == "sql: database is closed" {
			return models.ErrGeneral
		}
		return err
	}

	operations.WithLabelValues(operation, "success").Inc()

	if len(c) == 0 {
		return nil
	}

	// Observers must be informed even when the request context is gone
	publishCtx := context.WithoutCancel(ctx)
	_ = s.broker.Publish(publishCtx, c...)

	err = s.forward.Publish(publishCtx, c...)
	if err != nil {
		log.Error().Err(err).Str("operation", operation).Msg("forwarding events failed")
	}

	return nil
}

func notFound(resource string, id uint64) error {
	return fmt.Errorf("%w %s with id %d", models.ErrResourceNotFound, resource, id)
}

func isNotFound(err error) bool {
	return errors.Is(err, models.ErrResourceNotFound)
}

// first loads the resource with the id into dest. A missing row is
// reported as a not found error naming the resource and id.
func first(tx *gorm.DB, dest any, resource string, id uint64) error {
	if id == 0 {
		return notFound(resource, id)
	}

	err := tx.First(dest, id).Error
	if isNotFound(err) {
		return notFound(resource, id)
	}

	return err
}

// lock loads a row for update. PostgreSQL locks the row until the transaction
// ends, SQLite ignores the clause since it only allows a single writer anyway.
func lock(tx *gorm.DB, dest any, resource string, id uint64) error {
	return first(tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}), dest, resource, id)
}

// lockCategory locks a category together with its budget. Rows are always
// locked budget first, so transactions working on the same budget queue up on
// the budget row.
func lockCategory(tx *gorm.DB, budget *models.Budget, category *models.Category, id uint64) error {
	err := first(tx, category, "category", id)
	if err != nil {
		return err
	}

	err = lock(tx, budget, "budget", category.BudgetID)
	if err != nil {
		return err
	}

	return lock(tx, category, "category", id)
}

// lockExpense locks an expense together with its budget, budget first.
func lockExpense(tx *gorm.DB, budget *models.Budget, expense *models.Expense, id uint64) error {
	err := first(tx, expense, "expense", id)
	if err != nil {
		return err
	}

	err = lock(tx, budget, "budget", expense.BudgetID)
	if err != nil {
		return err
	}

	return lock(tx, expense, "expense", id)
}

func saveBudgetTotals(tx *gorm.DB, budget models.Budget) error {
	return tx.Model(&models.Budget{DefaultModel: models.DefaultModel{ID: budget.ID}}).UpdateColumns(map[string]any{
		"total_allocation": budget.TotalAllocation,
		"total_expense":    budget.TotalExpense,
	}).Error
}

func saveCategoryTotal(tx *gorm.DB, category models.Category) error {
	return tx.Model(&models.Category{DefaultModel: models.DefaultModel{ID: category.ID}}).UpdateColumn("total_expense", category.TotalExpense).Error
}
