package queries

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countQuery struct{ N int }

func (countQuery) Key() string { return "test.count" }

func TestAsk(t *testing.T) {
	bus := NewInMemoryBus()
	boom := errors.New("boom")
	Register[countQuery, []int](bus, HandlerFunc[countQuery, []int](func(_ context.Context, q countQuery) ([]int, error) {
		if q.N < 0 {
			return nil, boom
		}
		out := make([]int, q.N)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}))

	got, err := Ask[countQuery, []int](context.Background(), bus, countQuery{N: 3})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, got)

	_, err = Ask[countQuery, []int](context.Background(), bus, countQuery{N: -1})
	assert.ErrorIs(t, err, boom)

	_, err = bus.Ask(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidQuery)
}
