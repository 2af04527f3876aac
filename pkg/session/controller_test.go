package session

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-go-golems/teamchat/pkg/conversation"
	"github.com/go-go-golems/teamchat/pkg/events"
	"github.com/go-go-golems/teamchat/pkg/generation"
	"github.com/go-go-golems/teamchat/pkg/personas"
	"github.com/go-go-golems/teamchat/pkg/store"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type generateCall struct {
	instruction string
	history     []conversation.Message
}

// fakeGenerator answers every call with reply or err. When gate is set, each
// call blocks until a value is sent on it or the context ends.
type fakeGenerator struct {
	reply string
	err   error
	gate  chan struct{}

	mu    sync.Mutex
	calls []generateCall
}

func (f *fakeGenerator) Generate(ctx context.Context, instruction string, history []conversation.Message) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, generateCall{instruction: instruction, history: history})
	f.mu.Unlock()

	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeGenerator) Calls() []generateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]generateCall(nil), f.calls...)
}

func newController(t *testing.T, g generation.Generator, options ...Option) (*Controller, *store.Store) {
	t.Helper()
	s := store.NewInMemory()
	return New(s, personas.Default(), g, options...), s
}

func waitExchange(t *testing.T, ex *Exchange) (conversation.Message, error) {
	t.Helper()
	select {
	case <-ex.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("exchange did not finish")
	}
	return ex.Wait()
}

func TestController_SuccessfulSubmit(t *testing.T) {
	ctx := context.Background()
	g := &fakeGenerator{reply: "Hello! How are you?"}
	c, s := newController(t, g)

	require.NoError(t, c.SelectPersona(ctx, personas.DoctorID))
	assert.Equal(t, StateLoaded, c.State())

	ex, err := c.Submit(ctx, "Hello")
	require.NoError(t, err)
	reply, err := waitExchange(t, ex)
	require.NoError(t, err)
	assert.Equal(t, "Hello! How are you?", reply.Content)
	assert.Equal(t, conversation.RoleAssistant, reply.Role)

	stored := s.GetMessages(ctx, personas.DoctorID)
	require.Len(t, stored, 2)
	assert.Equal(t, conversation.RoleUser, stored[0].Role)
	assert.Equal(t, "Hello", stored[0].Content)
	assert.Equal(t, reply, stored[1])

	assert.Equal(t, stored, c.History())
	assert.Equal(t, StateLoaded, c.State())

	calls := g.Calls()
	require.Len(t, calls, 1)
	instruction, _ := personas.Default().Instruction(personas.DoctorID)
	assert.Equal(t, instruction, calls[0].instruction)
	require.Len(t, calls[0].history, 1)
	assert.Equal(t, "Hello", calls[0].history[0].Content)
}

func TestController_FailedSubmitRecordsFallback(t *testing.T) {
	ctx := context.Background()
	g := &fakeGenerator{err: errors.New("503 service unavailable")}
	c, s := newController(t, g)
	require.NoError(t, c.SelectPersona(ctx, personas.LifeCoachID))

	ex, err := c.Submit(ctx, "Hello")
	require.NoError(t, err)
	reply, err := waitExchange(t, ex)
	require.Error(t, err)
	assert.Equal(t, FallbackNotice, reply.Content)

	stored := s.GetMessages(ctx, personas.LifeCoachID)
	require.Len(t, stored, 2)
	assert.Equal(t, "Hello", stored[0].Content)
	assert.Equal(t, conversation.RoleAssistant, stored[1].Role)
	assert.Equal(t, FallbackNotice, stored[1].Content)
}

func TestController_HistoryIncludesEarlierMessages(t *testing.T) {
	ctx := context.Background()
	g := &fakeGenerator{reply: "ok"}
	c, s := newController(t, g)
	s.AppendMessage(ctx, personas.ResearcherID, conversation.NewUserMessage("earlier"))
	s.AppendMessage(ctx, personas.ResearcherID, conversation.NewAssistantMessage("earlier reply"))

	require.NoError(t, c.SelectPersona(ctx, personas.ResearcherID))
	assert.Len(t, c.History(), 2)

	ex, err := c.Submit(ctx, "now")
	require.NoError(t, err)
	_, err = waitExchange(t, ex)
	require.NoError(t, err)

	calls := g.Calls()
	require.Len(t, calls, 1)
	require.Len(t, calls[0].history, 3)
	assert.Equal(t, "earlier", calls[0].history[0].Content)
	assert.Equal(t, "now", calls[0].history[2].Content)
	assert.Len(t, s.GetMessages(ctx, personas.ResearcherID), 4)
}

func TestController_RejectedSubmitsChangeNothing(t *testing.T) {
	ctx := context.Background()

	c, s := newController(t, &fakeGenerator{reply: "x"})
	_, err := c.Submit(ctx, "Hello")
	assert.True(t, errors.Is(err, ErrNoPersona))
	assert.Equal(t, StateIdle, c.State())

	require.NoError(t, c.SelectPersona(ctx, personas.DoctorID))
	for _, input := range []string{"", "   ", "\n\t"} {
		_, err = c.Submit(ctx, input)
		assert.True(t, errors.Is(err, ErrEmptyInput))
	}
	assert.Empty(t, c.History())
	assert.Empty(t, s.ListPersonasWithHistory(ctx))

	noGen, s2 := newController(t, nil)
	assert.False(t, noGen.HasGenerator())
	require.NoError(t, noGen.SelectPersona(ctx, personas.DoctorID))
	ex, err := noGen.Submit(ctx, "Hello")
	assert.Nil(t, ex)
	assert.True(t, errors.Is(err, ErrNoGenerator))
	assert.Empty(t, noGen.History())
	assert.Empty(t, s2.ListPersonasWithHistory(ctx))
}

func TestController_SubmitWhilePendingIsRejected(t *testing.T) {
	ctx := context.Background()
	g := &fakeGenerator{reply: "done", gate: make(chan struct{})}
	c, s := newController(t, g)
	require.NoError(t, c.SelectPersona(ctx, personas.DoctorID))

	ex, err := c.Submit(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, StatePending, c.State())
	assert.True(t, ex.IsRunning())
	assert.Same(t, ex, c.Pending())

	_, err = c.Submit(ctx, "second")
	assert.True(t, errors.Is(err, ErrExchangePending))
	assert.Len(t, c.History(), 1)

	g.gate <- struct{}{}
	_, err = waitExchange(t, ex)
	require.NoError(t, err)
	assert.False(t, ex.IsRunning())
	assert.Nil(t, c.Pending())

	stored := s.GetMessages(ctx, personas.DoctorID)
	require.Len(t, stored, 2)
	assert.Equal(t, "first", stored[0].Content)
	assert.Equal(t, "done", stored[1].Content)
}

func TestController_SwitchWhilePending(t *testing.T) {
	ctx := context.Background()
	g := &fakeGenerator{reply: "take some rest", gate: make(chan struct{})}
	c, s := newController(t, g)
	require.NoError(t, c.SelectPersona(ctx, personas.DoctorID))

	ex, err := c.Submit(ctx, "I have a headache")
	require.NoError(t, err)

	require.NoError(t, c.SelectPersona(ctx, personas.LifeCoachID))
	assert.Empty(t, c.History())

	g.gate <- struct{}{}
	_, err = waitExchange(t, ex)
	require.NoError(t, err)

	assert.Empty(t, c.History())
	assert.Empty(t, s.GetMessages(ctx, personas.LifeCoachID))
	stored := s.GetMessages(ctx, personas.DoctorID)
	require.Len(t, stored, 2)
	assert.Equal(t, "take some rest", stored[1].Content)

	require.NoError(t, c.SelectPersona(ctx, personas.DoctorID))
	assert.Equal(t, stored, c.History())
}

func TestController_SwitchBackBeforeReply(t *testing.T) {
	ctx := context.Background()
	g := &fakeGenerator{reply: "drink water", gate: make(chan struct{})}
	c, _ := newController(t, g)
	require.NoError(t, c.SelectPersona(ctx, personas.DoctorID))

	ex, err := c.Submit(ctx, "I have a headache")
	require.NoError(t, err)
	require.NoError(t, c.SelectPersona(ctx, personas.LifeCoachID))
	require.NoError(t, c.SelectPersona(ctx, personas.DoctorID))
	assert.Len(t, c.History(), 1)

	g.gate <- struct{}{}
	_, err = waitExchange(t, ex)
	require.NoError(t, err)

	history := c.History()
	require.Len(t, history, 2)
	assert.Equal(t, "drink water", history[1].Content)
}

func TestController_CancelRecordsFallback(t *testing.T) {
	ctx := context.Background()
	g := &fakeGenerator{reply: "never", gate: make(chan struct{})}
	c, s := newController(t, g)
	require.NoError(t, c.SelectPersona(ctx, personas.DoctorID))

	ex, err := c.Submit(ctx, "Hello")
	require.NoError(t, err)
	ex.Cancel()

	reply, err := waitExchange(t, ex)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, FallbackNotice, reply.Content)
	assert.Len(t, s.GetMessages(ctx, personas.DoctorID), 2)
}

func TestController_CallerContextDoesNotAbortExchange(t *testing.T) {
	g := &fakeGenerator{reply: "still here", gate: make(chan struct{})}
	c, s := newController(t, g)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, c.SelectPersona(ctx, personas.DoctorID))

	ex, err := c.Submit(ctx, "Hello")
	require.NoError(t, err)
	cancel()
	g.gate <- struct{}{}

	reply, err := waitExchange(t, ex)
	require.NoError(t, err)
	assert.Equal(t, "still here", reply.Content)
	assert.Len(t, s.GetMessages(context.Background(), personas.DoctorID), 2)
}

func TestController_SubmitKeepsTextAsTyped(t *testing.T) {
	ctx := context.Background()
	g := &fakeGenerator{reply: "ok"}
	c, s := newController(t, g)
	require.NoError(t, c.SelectPersona(ctx, personas.DoctorID))

	ex, err := c.Submit(ctx, "  Hello\n")
	require.NoError(t, err)
	_, err = waitExchange(t, ex)
	require.NoError(t, err)

	stored := s.GetMessages(ctx, personas.DoctorID)
	require.Len(t, stored, 2)
	assert.Equal(t, "  Hello\n", stored[0].Content)
	assert.Equal(t, "  Hello\n", g.Calls()[0].history[0].Content)
}

func TestController_PanickingGeneratorRecordsFallback(t *testing.T) {
	ctx := context.Background()
	g := generation.GeneratorFunc(func(context.Context, string, []conversation.Message) (string, error) {
		panic("boom")
	})
	c, s := newController(t, g)
	require.NoError(t, c.SelectPersona(ctx, personas.DoctorID))

	ex, err := c.Submit(ctx, "Hello")
	require.NoError(t, err)
	reply, err := waitExchange(t, ex)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, FallbackNotice, reply.Content)

	assert.Nil(t, c.Pending())
	assert.Equal(t, StateLoaded, c.State())
	stored := s.GetMessages(ctx, personas.DoctorID)
	require.Len(t, stored, 2)
	assert.Equal(t, "Hello", stored[0].Content)
	assert.Equal(t, FallbackNotice, stored[1].Content)
}

func TestController_CancelledCallerContextKeepsOrderOnSQLite(t *testing.T) {
	dsn, err := store.SQLiteDSNForFile(filepath.Join(t.TempDir(), "chats.db"))
	require.NoError(t, err)
	medium, err := store.NewSQLiteMedium(dsn, "")
	require.NoError(t, err)
	s := store.New(medium)
	defer func() {
		_ = s.Close()
	}()

	c := New(s, personas.Default(), &fakeGenerator{reply: "reply"})
	require.NoError(t, c.SelectPersona(context.Background(), personas.DoctorID))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ex, err := c.Submit(ctx, "Hello")
	require.NoError(t, err)
	_, err = waitExchange(t, ex)
	require.NoError(t, err)

	stored := s.GetMessages(context.Background(), personas.DoctorID)
	require.Len(t, stored, 2)
	assert.Equal(t, conversation.RoleUser, stored[0].Role)
	assert.Equal(t, "Hello", stored[0].Content)
	assert.Equal(t, conversation.RoleAssistant, stored[1].Role)
	assert.Equal(t, "reply", stored[1].Content)
}

func TestController_SelectUnknownPersona(t *testing.T) {
	c, _ := newController(t, &fakeGenerator{})
	err := c.SelectPersona(context.Background(), "plumber")
	assert.True(t, errors.Is(err, ErrUnknownPersona))
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, "", c.PersonaID())
}

func TestController_ClearHistory(t *testing.T) {
	ctx := context.Background()
	c, s := newController(t, &fakeGenerator{reply: "ok"})
	assert.True(t, errors.Is(c.ClearHistory(ctx), ErrNoPersona))

	require.NoError(t, c.SelectPersona(ctx, personas.DoctorID))
	ex, err := c.Submit(ctx, "Hello")
	require.NoError(t, err)
	_, err = waitExchange(t, ex)
	require.NoError(t, err)

	require.NoError(t, c.ClearHistory(ctx))
	assert.Empty(t, c.History())
	assert.Empty(t, s.ListPersonasWithHistory(ctx))
}

func TestController_PublishesEvents(t *testing.T) {
	ctx := context.Background()
	sink := &events.CollectingSink{}
	c, _ := newController(t, &fakeGenerator{reply: "ok"}, WithSink(sink))
	require.NoError(t, c.SelectPersona(ctx, personas.DoctorID))

	ex, err := c.Submit(ctx, "Hello")
	require.NoError(t, err)
	_, err = waitExchange(t, ex)
	require.NoError(t, err)

	published := sink.Events()
	types := make([]events.EventType, 0, len(published))
	for _, ev := range published {
		types = append(types, ev.Type())
		assert.Equal(t, personas.DoctorID, ev.Metadata().PersonaID)
		assert.Equal(t, ex.ID, ev.Metadata().ExchangeID)
	}
	assert.Equal(t, []events.EventType{
		events.EventTypeMessageAppended,
		events.EventTypeExchangeStarted,
		events.EventTypeMessageAppended,
		events.EventTypeExchangeFinished,
	}, types)

	finished, ok := published[3].(*events.EventExchangeFinished)
	require.True(t, ok)
	assert.False(t, finished.Failed)
}

func TestController_WaitWithoutPending(t *testing.T) {
	c, _ := newController(t, &fakeGenerator{})
	assert.NoError(t, c.Wait(context.Background()))
}

func TestExchange_NilIsSafe(t *testing.T) {
	var ex *Exchange
	ex.Cancel()
	assert.False(t, ex.IsRunning())
	_, err := ex.Wait()
	assert.True(t, errors.Is(err, ErrExchangeNil))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "pending", StatePending.String())
}
