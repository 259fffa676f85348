package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingCommand struct{ Value string }

func (pingCommand) Key() string { return "test.ping" }

type otherCommand struct{}

func (otherCommand) Key() string { return "test.other" }

func TestDispatch(t *testing.T) {
	bus := NewInMemoryBus()
	Register[pingCommand, string](bus, HandlerFunc[pingCommand, string](func(_ context.Context, cmd pingCommand) (string, error) {
		return "pong:" + cmd.Value, nil
	}))

	got, err := Dispatch[pingCommand, string](context.Background(), bus, pingCommand{Value: "a"})
	require.NoError(t, err)
	assert.Equal(t, "pong:a", got)
	assert.Equal(t, []string{"test.ping"}, bus.Keys())

	_, err = Dispatch[otherCommand, string](context.Background(), bus, otherCommand{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)

	_, err = Dispatch[pingCommand, int](context.Background(), bus, pingCommand{})
	assert.ErrorIs(t, err, ErrResultType)
	assert.Contains(t, err.Error(), "test.ping returned string, want int")

	_, err = Dispatch[pingCommand, string](context.Background(), nil, pingCommand{})
	assert.ErrorIs(t, err, ErrNilBus)
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	bus := NewInMemoryBus()
	h := HandlerFunc[pingCommand, string](func(context.Context, pingCommand) (string, error) { return "", nil })
	Register[pingCommand, string](bus, h)
	assert.Panics(t, func() { Register[pingCommand, string](bus, h) })
}
