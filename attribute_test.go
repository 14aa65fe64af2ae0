package threadkit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAttributeSetSameValueEmitsNothing(t *testing.T) {
	a := NewAttribute(10)
	calls := 0
	a.Subscribe(func(Change[int]) { calls++ })

	a.Set(10)

	require.Equal(t, 0, calls)
	require.Equal(t, 10, a.Value())
}

func TestAttributeSetDifferentValueEmitsOnce(t *testing.T) {
	a := NewAttribute(10)
	var got Change[int]
	calls := 0
	a.Subscribe(func(c Change[int]) {
		calls++
		got = c
	})

	a.Set(20)

	require.Equal(t, 1, calls)
	require.Equal(t, Change[int]{Old: 10, New: 20}, got)
	require.Equal(t, 20, a.Value())
}

func TestAttributeSubscribeAndGetFiresImmediately(t *testing.T) {
	a := NewAttribute("x")
	var first Change[string]
	a.SubscribeAndGet(func(c Change[string]) { first = c })

	require.Equal(t, Change[string]{Old: "x", New: "x"}, first)
}
