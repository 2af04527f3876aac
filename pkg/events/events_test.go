package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-go-golems/teamchat/pkg/conversation"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventFromJson(t *testing.T) {
	msg := conversation.NewUserMessage("I have a headache")
	published := []Event{
		NewMessageAppendedEvent("doctor", "x1", msg, true),
		NewExchangeStartedEvent("doctor", "x1"),
		NewExchangeFinishedEvent("doctor", "x1", errors.New("quota")),
	}

	for _, ev := range published {
		b, err := json.Marshal(ev)
		require.NoError(t, err)

		decoded, err := NewEventFromJson(b)
		require.NoError(t, err)
		assert.Equal(t, ev.Type(), decoded.Type())
		assert.Equal(t, "doctor", decoded.Metadata().PersonaID)
		assert.Equal(t, "x1", decoded.Metadata().ExchangeID)
	}

	b, err := json.Marshal(published[0])
	require.NoError(t, err)
	decoded, err := NewEventFromJson(b)
	require.NoError(t, err)
	appended, ok := decoded.(*EventMessageAppended)
	require.True(t, ok)
	assert.Equal(t, msg.ID, appended.Message.ID)
	assert.True(t, msg.Timestamp.Equal(appended.Message.Timestamp))
	assert.True(t, appended.Active)

	b, err = json.Marshal(published[2])
	require.NoError(t, err)
	decoded, err = NewEventFromJson(b)
	require.NoError(t, err)
	finished, ok := decoded.(*EventExchangeFinished)
	require.True(t, ok)
	assert.True(t, finished.Failed)
	assert.Equal(t, "quota", finished.Error)
}

func TestNewEventFromJson_Errors(t *testing.T) {
	_, err := NewEventFromJson([]byte(`{`))
	assert.Error(t, err)
	_, err = NewEventFromJson([]byte(`{"type":"partial-completion"}`))
	assert.Error(t, err)
}

func TestExchangeFinished_Success(t *testing.T) {
	ev := NewExchangeFinishedEvent("doctor", "x1", nil)
	assert.False(t, ev.Failed)
	assert.Empty(t, ev.Error)
}

func TestCollectingSink(t *testing.T) {
	s := &CollectingSink{}
	require.NoError(t, s.PublishEvent(NewExchangeStartedEvent("doctor", "x1")))
	events := s.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeExchangeStarted, events[0].Type())
}

func TestEventRouter_DeliversSinkEvents(t *testing.T) {
	router, err := NewEventRouter()
	require.NoError(t, err)

	received := make(chan Event, 4)
	router.AddEventHandler("test", TopicChat, func(_ context.Context, ev Event) error {
		received <- ev
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- router.Run(ctx)
	}()
	<-router.Running()

	sink := router.Sink(TopicChat)
	require.NoError(t, sink.PublishEvent(NewExchangeStartedEvent("doctor", "x1")))
	require.NoError(t, sink.PublishEvent(NewExchangeFinishedEvent("doctor", "x1", nil)))

	for _, want := range []EventType{EventTypeExchangeStarted, EventTypeExchangeFinished} {
		select {
		case ev := <-received:
			assert.Equal(t, want, ev.Type())
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %s", want)
		}
	}

	require.NoError(t, router.Close())
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("router did not stop")
	}
}

func TestEventRouter_NonBlockingPublish(t *testing.T) {
	router, err := NewEventRouter(WithBlockingPublish(false))
	require.NoError(t, err)

	release := make(chan struct{})
	received := make(chan Event, 1)
	router.AddEventHandler("slow", TopicChat, func(_ context.Context, ev Event) error {
		<-release
		received <- ev
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = router.Run(ctx)
	}()
	<-router.Running()

	published := make(chan error, 1)
	go func() {
		published <- router.Sink(TopicChat).PublishEvent(NewExchangeStartedEvent("doctor", "x1"))
	}()
	select {
	case err := <-published:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("publish blocked on a busy handler")
	}

	close(release)
	select {
	case ev := <-received:
		assert.Equal(t, EventTypeExchangeStarted, ev.Type())
	case <-time.After(5 * time.Second):
		t.Fatal("event was not delivered")
	}
	require.NoError(t, router.Close())
}
