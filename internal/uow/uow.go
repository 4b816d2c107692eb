// Package uow commits a command's aggregate changes as one atomic unit and
// dispatches the domain events those aggregates raised only after the commit
// succeeds.
package uow

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	advertmodels "rehome/internal/advert/models"
	"rehome/internal/events"
	personmodels "rehome/internal/person/models"
	"rehome/pkg/platform/tx"
)

// PersonStore is the person persistence surface the unit of work drives.
type PersonStore interface {
	Insert(ctx context.Context, person *personmodels.Person) error
	Update(ctx context.Context, person *personmodels.Person) error
	Remove(ctx context.Context, person *personmodels.Person) error
}

// AdvertisementStore is the advertisement persistence surface the unit of
// work drives.
type AdvertisementStore interface {
	Insert(ctx context.Context, advert *advertmodels.Advertisement) error
	Update(ctx context.Context, advert *advertmodels.Advertisement) error
	Remove(ctx context.Context, advert *advertmodels.Advertisement) error
}

// Change collects every aggregate touched by one command. All listed writes
// are applied together; cross-aggregate updates (a person and the
// advertisements its cats are assigned to) never land partially.
type Change struct {
	InsertPersons []*personmodels.Person
	UpdatePersons []*personmodels.Person
	RemovePersons []*personmodels.Person

	InsertAdvertisements []*advertmodels.Advertisement
	UpdateAdvertisements []*advertmodels.Advertisement
	RemoveAdvertisements []*advertmodels.Advertisement
}

func (c Change) empty() bool {
	return len(c.InsertPersons)+len(c.UpdatePersons)+len(c.RemovePersons)+
		len(c.InsertAdvertisements)+len(c.UpdateAdvertisements)+len(c.RemoveAdvertisements) == 0
}

type UnitOfWork struct {
	persons    PersonStore
	adverts    AdvertisementStore
	dispatcher *events.Dispatcher
	db         *sql.DB
	logger     *slog.Logger
}

type Option func(*UnitOfWork)

// WithDB wraps every Save in a SQL transaction carried down to the stores
// through the context. Without it, writes are applied directly (memory stores).
func WithDB(db *sql.DB) Option {
	return func(u *UnitOfWork) {
		u.db = db
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(u *UnitOfWork) {
		u.logger = logger
	}
}

func New(persons PersonStore, adverts AdvertisementStore, dispatcher *events.Dispatcher, opts ...Option) *UnitOfWork {
	u := &UnitOfWork{
		persons:    persons,
		adverts:    adverts,
		dispatcher: dispatcher,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(u)
		}
	}
	return u
}

// Save applies the change set and returns the number of writes performed.
// Events raised on the changed aggregates are dispatched after the writes
// are durably committed, never before.
func (u *UnitOfWork) Save(ctx context.Context, change Change) (int, error) {
	if change.empty() {
		return 0, nil
	}

	var n int
	var err error
	if u.db != nil {
		n, err = u.saveTx(ctx, change)
	} else {
		n, err = u.apply(ctx, change)
	}
	if err != nil {
		return 0, err
	}

	u.dispatch(ctx, change)
	return n, nil
}

func (u *UnitOfWork) saveTx(ctx context.Context, change Change) (int, error) {
	t, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	n, err := u.apply(tx.WithTx(ctx, t), change)
	if err != nil {
		if rbErr := t.Rollback(); rbErr != nil {
			u.logger.ErrorContext(ctx, "transaction rollback failed", "error", rbErr)
		}
		return 0, err
	}
	if err := t.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return n, nil
}

func (u *UnitOfWork) apply(ctx context.Context, change Change) (int, error) {
	n := 0
	for _, p := range change.InsertPersons {
		if err := u.persons.Insert(ctx, p); err != nil {
			return 0, err
		}
		n++
	}
	for _, p := range change.UpdatePersons {
		if err := u.persons.Update(ctx, p); err != nil {
			return 0, err
		}
		n++
	}
	for _, a := range change.InsertAdvertisements {
		if err := u.adverts.Insert(ctx, a); err != nil {
			return 0, err
		}
		n++
	}
	for _, a := range change.UpdateAdvertisements {
		if err := u.adverts.Update(ctx, a); err != nil {
			return 0, err
		}
		n++
	}
	for _, a := range change.RemoveAdvertisements {
		if err := u.adverts.Remove(ctx, a); err != nil {
			return 0, err
		}
		n++
	}
	for _, p := range change.RemovePersons {
		if err := u.persons.Remove(ctx, p); err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

// dispatch drains and delivers events from every aggregate in the change set.
// Handler failures are logged, not returned: the state change is already
// committed and must not be reported as failed to the caller.
func (u *UnitOfWork) dispatch(ctx context.Context, change Change) {
	if u.dispatcher == nil {
		return
	}

	var pending []events.Event
	for _, group := range [][]*personmodels.Person{change.InsertPersons, change.UpdatePersons, change.RemovePersons} {
		for _, p := range group {
			pending = append(pending, p.Drain()...)
		}
	}
	for _, group := range [][]*advertmodels.Advertisement{change.InsertAdvertisements, change.UpdateAdvertisements, change.RemoveAdvertisements} {
		for _, a := range group {
			pending = append(pending, a.Drain()...)
		}
	}

	if len(pending) == 0 {
		return
	}
	if err := u.dispatcher.Dispatch(ctx, pending); err != nil {
		u.logger.ErrorContext(ctx, "event dispatch failed", "error", err)
	}
}
