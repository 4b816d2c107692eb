package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rehome/pkg/domain"
	dErrors "rehome/pkg/domain-errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_RoutesByEventName(t *testing.T) {
	d := NewDispatcher(discardLogger())

	var closed, deleted int
	d.Register(AdvertisementClosed{}.EventName(), func(context.Context, Event) error {
		closed++
		return nil
	})
	d.Register(AdvertisementDeleted{}.EventName(), func(context.Context, Event) error {
		deleted++
		return nil
	})

	err := d.Dispatch(context.Background(), []Event{
		AdvertisementClosed{AdvertisementID: domain.NewAdvertisementID(), ClosedOn: time.Now()},
		AdvertisementClosed{AdvertisementID: domain.NewAdvertisementID(), ClosedOn: time.Now()},
		AdvertisementDeleted{AdvertisementID: domain.NewAdvertisementID()},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, closed)
	assert.Equal(t, 1, deleted)
}

func TestDispatcher_UnhandledEventIsSkipped(t *testing.T) {
	d := NewDispatcher(discardLogger())
	err := d.Dispatch(context.Background(), []Event{
		PersonDeleted{PersonID: domain.NewPersonID()},
	})
	require.NoError(t, err)
}

func TestDispatcher_HandlerErrorStopsDispatch(t *testing.T) {
	d := NewDispatcher(discardLogger())

	var calls int
	d.Register(PersonDeleted{}.EventName(), func(context.Context, Event) error {
		calls++
		return errors.New("boom")
	})

	err := d.Dispatch(context.Background(), []Event{
		PersonDeleted{PersonID: domain.NewPersonID()},
		PersonDeleted{PersonID: domain.NewPersonID()},
	})

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	assert.Equal(t, 1, calls)
}

func TestRecorder(t *testing.T) {
	var r Recorder
	assert.Empty(t, r.Pending())

	r.Raise(PersonDeleted{PersonID: domain.NewPersonID()})
	r.Raise(PersonDeleted{PersonID: domain.NewPersonID()})
	assert.Len(t, r.Pending(), 2)

	drained := r.Drain()
	assert.Len(t, drained, 2)
	assert.Empty(t, r.Pending())
	assert.Empty(t, r.Drain())
}
