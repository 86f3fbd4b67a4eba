package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type target struct {
	values []int
}

func TestApplyRunsOptionsInOrder(t *testing.T) {
	tg := &target{}
	opts := []Option[*target]{
		NoError[*target](func(t *target) { t.values = append(t.values, 1) }),
		NoError[*target](func(t *target) { t.values = append(t.values, 2) }),
		NoError[*target](func(t *target) { t.values = append(t.values, 3) }),
	}

	require.NoError(t, Apply[*target](tg, opts...))
	require.Equal(t, []int{1, 2, 3}, tg.values)
}

func TestApplyStopsAtFirstError(t *testing.T) {
	tg := &target{}
	boom := errors.New("boom")
	opts := []Option[*target]{
		NoError[*target](func(t *target) { t.values = append(t.values, 1) }),
		New[*target](func(t *target) error { return boom }),
		NoError[*target](func(t *target) { t.values = append(t.values, 2) }),
	}

	err := Apply[*target](tg, opts...)
	require.ErrorIs(t, err, boom)
	require.Equal(t, []int{1}, tg.values)
}

func TestApplyWithNoOptionsIsNoop(t *testing.T) {
	tg := &target{}
	require.NoError(t, Apply[*target](tg))
	require.Nil(t, tg.values)
}
