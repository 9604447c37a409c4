// Package notify distributes change events for budgets, categories and
// expenses after they have been committed.
package notify

import (
	"context"
	"fmt"
	"time"
)

type Resource string

const (
	ResourceBudget   Resource = "budget"
	ResourceCategory Resource = "category"
	ResourceExpense  Resource = "expense"
)

type Operation string

const (
	OperationCreated Operation = "created"
	OperationUpdated Operation = "updated"
	OperationDeleted Operation = "deleted"
)

// Event describes a committed change to a single resource.
//
// BudgetID is always set, CategoryID is set for categories and expenses.
type Event struct {
	Resource   Resource  `json:"resource"`
	Operation  Operation `json:"operation"`
	ID         uint64    `json:"id"`
	BudgetID   uint64    `json:"budgetId"`
	CategoryID uint64    `json:"categoryId,omitempty"`
	Time       time.Time `json:"time"`
}

// RoutingKey returns the key used for message brokers, e.g. "budget.expense.created".
func (e Event) RoutingKey() string {
	return fmt.Sprintf("budget.%s.%s", e.Resource, e.Operation)
}

// Publisher is implemented by everything that accepts events.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}

// Fanout publishes to all publishers. All publishers are called even if
// one of them fails, the first error is returned.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, events ...Event) error {
	var first error
	for _, p := range f {
		if err := p.Publish(ctx, events...); err != nil && first == nil {
			first = err
		}
	}

	return first
}

// ForBudget matches all events of a budget, including its categories and expenses.
func ForBudget(id uint64) func(Event) bool {
	return func(e Event) bool {
		return e.BudgetID == id
	}
}

// ForResource matches all events of one resource type.
func ForResource(r Resource) func(Event) bool {
	return func(e Event) bool {
		return e.Resource == r
	}
}
