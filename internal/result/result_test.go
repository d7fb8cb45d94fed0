package result_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/egannguyen/purchase-orders/internal/result"
)

func TestOk(t *testing.T) {
	r := result.Ok[int, error](42)

	assert.True(t, r.IsOk())
	assert.False(t, r.IsFail())

	v, ok := r.Value()
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	err, failed := r.Err()
	assert.False(t, failed)
	assert.Nil(t, err)
}

func TestFail(t *testing.T) {
	boom := errors.New("boom")
	r := result.Fail[int](boom)

	assert.False(t, r.IsOk())
	assert.True(t, r.IsFail())

	v, ok := r.Value()
	assert.False(t, ok)
	assert.Zero(t, v)

	err, failed := r.Err()
	assert.True(t, failed)
	assert.Same(t, boom, err)
}

func TestMatch(t *testing.T) {
	onOk := func(v int) string { return "ok:" + strconv.Itoa(v) }
	onFail := func(err error) string { return "fail:" + err.Error() }

	assert.Equal(t, "ok:7", result.Match(result.Ok[int, error](7), onOk, onFail))
	assert.Equal(t, "fail:nope", result.Match(result.Fail[int](errors.New("nope")), onOk, onFail))
}
