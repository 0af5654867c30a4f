package helper_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/on-the-ground/memo_ive_go/shared/helper"
	"github.com/stretchr/testify/assert"
)

func TestLookupTyped(t *testing.T) {
	v, ok, err := helper.LookupTyped[int](func() (any, error) { return 42, nil })
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok, err = helper.LookupTyped[int](func() (any, error) { return nil, nil })
	assert.NoError(t, err)
	assert.False(t, ok, "nil result is a miss")

	_, ok, err = helper.LookupTyped[int](func() (any, error) { return "42", nil })
	assert.ErrorContains(t, err, "unexpected type: string")
	assert.False(t, ok)

	boom := errors.New("boom")
	_, _, err = helper.LookupTyped[int](func() (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

func TestGetTypedValueOf2(t *testing.T) {
	m := &sync.Map{}
	m.Store("a", 1)
	m.Store("b", "one")

	v, ok := helper.GetTypedValueOf2[int](func() (any, bool) { return m.Load("a") })
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = helper.GetTypedValueOf2[int](func() (any, bool) { return m.Load("b") })
	assert.False(t, ok, "type mismatch is reported as a miss")

	_, ok = helper.GetTypedValueOf2[int](func() (any, bool) { return m.Load("c") })
	assert.False(t, ok)

	var nilErr error
	m.Store("d", nilErr)
	err, ok := helper.GetTypedValueOf2[error](func() (any, bool) { return m.Load("d") })
	assert.True(t, ok, "stored nil interface is a hit")
	assert.NoError(t, err)
}
