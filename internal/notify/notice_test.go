package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/hrmslite/internal/coordinator"
	ferrors "git.home.luguber.info/inful/hrmslite/internal/foundation/errors"
	"git.home.luguber.info/inful/hrmslite/internal/metrics"
)

func TestFromOutcome(t *testing.T) {
	at := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	n := FromOutcome(coordinator.Outcome{
		Operation:  coordinator.OpAdd,
		EmployeeID: "E1",
		Result:     metrics.ResultConflict,
		Err:        coordinator.ErrAlreadyExists,
		At:         at,
	})
	assert.Equal(t, Notice{
		Operation:  "add",
		EmployeeID: "E1",
		Result:     "conflict",
		Error:      "Employee with this ID already exists",
		At:         at,
	}, n)
}

func TestObserverPublishesOnBus(t *testing.T) {
	b := NewBus()
	defer b.Close()
	ch, unsubscribe := Subscribe[Notice](b, 1)
	defer unsubscribe()

	obs := Observer(b, nil)
	obs.Observe(context.Background(), coordinator.Outcome{Operation: coordinator.OpMark, EmployeeID: "E1", Result: metrics.ResultSuccess, Text: "Marked Present for E1"})

	got := receive(t, ch)
	assert.Equal(t, "Marked Present for E1", got.Text)
	assert.Empty(t, got.Error)
}

func TestObserverSurvivesClosedBus(t *testing.T) {
	b := NewBus()
	b.Close()
	assert.NotPanics(t, func() {
		Observer(b, nil).Observe(context.Background(), coordinator.Outcome{Operation: coordinator.OpRefresh})
	})
}

type capturePublisher struct {
	mu   sync.Mutex
	sent map[string][][]byte
	err  error
}

func (p *capturePublisher) Publish(subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if p.sent == nil {
		p.sent = map[string][][]byte{}
	}
	p.sent[subject] = append(p.sent[subject], data)
	return nil
}

func (p *capturePublisher) count(subject string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent[subject])
}

func TestForwarder_Send(t *testing.T) {
	pub := &capturePublisher{}
	f := NewForwarder(pub, "", nil)

	require.NoError(t, f.Send(Notice{Operation: "remove", EmployeeID: "E2", Result: "success"}))
	require.Equal(t, 1, pub.count(DefaultSubject))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(pub.sent[DefaultSubject][0], &decoded))
	assert.Equal(t, "remove", decoded["operation"])
	assert.Equal(t, "E2", decoded["employee_id"])
	assert.NotContains(t, decoded, "error")
}

func TestForwarder_SendFailure(t *testing.T) {
	f := NewForwarder(&capturePublisher{err: errors.New("nats: connection closed")}, "custom", nil)
	err := f.Send(Notice{})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryMessaging))
}

func TestForwarder_RunUntilChannelCloses(t *testing.T) {
	b := NewBus()
	ch, _ := Subscribe[Notice](b, 4)
	pub := &capturePublisher{}
	f := NewForwarder(pub, "hr.test", nil)

	done := make(chan struct{})
	go func() {
		f.Run(context.Background(), ch)
		close(done)
	}()

	for range 3 {
		require.NoError(t, b.Publish(context.Background(), Notice{Operation: "refresh"}))
	}
	b.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forwarder did not stop")
	}
	assert.Equal(t, 3, pub.count("hr.test"))
}

func TestConnect_RequiresURL(t *testing.T) {
	_, err := Connect("  ", "", nil)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect("nats://127.0.0.1:1", "", nil)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryMessaging))
}

func TestForwarder_CloseWithoutConnection(t *testing.T) {
	assert.NotPanics(t, func() { NewForwarder(&capturePublisher{}, "", nil).Close() })
}
