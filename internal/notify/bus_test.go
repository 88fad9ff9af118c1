package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/hrmslite/internal/foundation/errors"
)

type pinger interface{ Ping() string }

type ping struct{ ID string }

func (p ping) Ping() string { return p.ID }

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(250 * time.Millisecond):
		t.Fatal("timed out waiting for notice")
	}
	var zero T
	return zero
}

func TestBus_PublishSubscribe(t *testing.T) {
	b := NewBus()
	defer b.Close()

	ch, unsubscribe := Subscribe[Notice](b, 1)
	defer unsubscribe()

	require.NoError(t, b.Publish(context.Background(), Notice{Operation: "add", EmployeeID: "E1"}))
	require.Equal(t, "E1", receive(t, ch).EmployeeID)
}

func TestBus_InterfaceSubscription(t *testing.T) {
	b := NewBus()
	defer b.Close()

	ch, unsubscribe := Subscribe[pinger](b, 1)
	defer unsubscribe()

	require.NoError(t, b.Publish(context.Background(), ping{ID: "x"}))
	require.Equal(t, "x", receive(t, ch).Ping())
}

func TestBus_OtherTypesNotDelivered(t *testing.T) {
	b := NewBus()
	defer b.Close()

	ch, unsubscribe := Subscribe[Notice](b, 1)
	defer unsubscribe()

	require.NoError(t, b.Publish(context.Background(), ping{ID: "x"}))
	require.Empty(t, ch)
}

func TestBus_Backpressure(t *testing.T) {
	b := NewBus()
	defer b.Close()

	_, unsubscribe := Subscribe[Notice](b, 0)
	defer unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := b.Publish(ctx, Notice{})
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryMessaging))
}

func TestBus_Unsubscribe(t *testing.T) {
	b := NewBus()
	defer b.Close()

	ch, unsubscribe := Subscribe[Notice](b, 1)
	require.Equal(t, 1, Subscribers[Notice](b))
	unsubscribe()
	unsubscribe()
	require.Zero(t, Subscribers[Notice](b))

	_, ok := <-ch
	require.False(t, ok)
}

func TestBus_Close(t *testing.T) {
	b := NewBus()
	ch, _ := Subscribe[Notice](b, 1)
	b.Close()

	_, ok := <-ch
	require.False(t, ok)
	require.Error(t, b.Publish(context.Background(), Notice{}))

	late, _ := Subscribe[Notice](b, 1)
	_, ok = <-late
	require.False(t, ok)
}

func TestBus_NilEvent(t *testing.T) {
	b := NewBus()
	defer b.Close()
	err := b.Publish(context.Background(), nil)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}
