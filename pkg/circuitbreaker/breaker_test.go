package circuitbreaker

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_ReturnsTypedResult(t *testing.T) {
	cb := New(DefaultConfig("test_typed"))

	got, err := Execute(cb, func() (int, error) { return 201, nil })

	require.NoError(t, err)
	assert.Equal(t, 201, got)
}

func TestExecute_TripsAfterFailures(t *testing.T) {
	cb := New(DefaultConfig("test_trip"))
	boom := errors.New("boom")

	calls := 0
	for i := 0; i < 5; i++ {
		_, err := Execute(cb, func() (string, error) {
			calls++
			return "", boom
		})
		if i < 3 {
			assert.ErrorIs(t, err, boom)
		} else {
			assert.ErrorIs(t, err, gobreaker.ErrOpenState)
		}
	}

	assert.Equal(t, 3, calls)
	assert.Equal(t, gobreaker.StateOpen, cb.State())
}
