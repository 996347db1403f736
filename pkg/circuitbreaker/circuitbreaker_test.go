package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func failing() error { return errBoom }
func succeeding() error { return nil }

func TestTripsAfterThreshold(t *testing.T) {
	cb := New(Settings{Name: "test", FailureThreshold: 3, CooldownPeriod: time.Minute})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(failing), errBoom)
	}
	assert.Equal(t, StateOpen, cb.State())

	err := cb.Execute(succeeding)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOpen)
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := New(Settings{Name: "test", FailureThreshold: 2, CooldownPeriod: time.Minute})

	require.Error(t, cb.Execute(failing))
	require.NoError(t, cb.Execute(succeeding))
	require.Error(t, cb.Execute(failing))

	assert.Equal(t, StateClosed, cb.State())
}

func TestHalfOpenProbeClosesOnSuccess(t *testing.T) {
	cb := New(Settings{Name: "test", FailureThreshold: 1, CooldownPeriod: 10 * time.Millisecond})

	require.Error(t, cb.Execute(failing))
	assert.Equal(t, StateOpen, cb.State())

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, cb.Execute(succeeding))
	assert.Equal(t, StateClosed, cb.State())
}

func TestHalfOpenProbeReopensOnFailure(t *testing.T) {
	cb := New(Settings{Name: "test", FailureThreshold: 1, CooldownPeriod: 10 * time.Millisecond})

	require.Error(t, cb.Execute(failing))
	time.Sleep(20 * time.Millisecond)
	require.ErrorIs(t, cb.Execute(failing), errBoom)
	assert.Equal(t, StateOpen, cb.State())

	err := cb.Execute(succeeding)
	assert.ErrorIs(t, err, ErrOpen)
}
