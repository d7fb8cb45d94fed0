package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egannguyen/purchase-orders/internal/apperr"
	"github.com/egannguyen/purchase-orders/internal/entity"
)

type staleWrite struct{}

func (staleWrite) Error() string  { return "stale write" }
func (staleWrite) Conflict() bool { return true }

func TestMap(t *testing.T) {
	_, domainErr := entity.NewSKU("x")
	require.Error(t, domainErr)

	passthrough := &apperr.Conflict{Message: "already exists", Resource: "order", ID: "ORD-1"}

	testCases := []struct {
		name string
		err  error
		want apperr.Kind
	}{
		{"app error passes through", passthrough, apperr.KindConflict},
		{"wrapped app error passes through", fmt.Errorf("outer: %w", &apperr.NotFound{Resource: "order"}), apperr.KindNotFound},
		{"domain error", domainErr, apperr.KindValidation},
		{"wrapped domain error", fmt.Errorf("add item: %w", entity.ErrCurrencyMismatch), apperr.KindValidation},
		{"conflict tagged", fmt.Errorf("save: %w", staleWrite{}), apperr.KindConflict},
		{"not found marker", errors.New("pricing: price NOT FOUND for sku"), apperr.KindNotFound},
		{"anything else", errors.New("connection refused"), apperr.KindInfra},
		{"nil", nil, apperr.KindInfra},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := apperr.Map(tc.err, "order", "ORD-1")
			require.NotNil(t, got)
			assert.Equal(t, tc.want, got.Kind())
		})
	}
}

func TestMap_PassThroughIsIdentity(t *testing.T) {
	original := &apperr.Validation{Message: "bad", Details: map[string]string{"sku": "too short"}}
	assert.Same(t, original, apperr.Map(original, "order", "x"))
}

func TestMap_FillsResourceAndID(t *testing.T) {
	nf, ok := apperr.Map(errors.New("sku not found"), "order", "ORD-9").(*apperr.NotFound)
	require.True(t, ok)
	assert.Equal(t, "order", nf.Resource)
	assert.Equal(t, "ORD-9", nf.ID)
	assert.Equal(t, "sku not found", nf.Error())

	c, ok := apperr.Map(staleWrite{}, "order", "ORD-9").(*apperr.Conflict)
	require.True(t, ok)
	assert.Equal(t, "ORD-9", c.ID)
}

func TestNotFound_DefaultMessage(t *testing.T) {
	assert.Equal(t, `order "ORD-9" not found`, (&apperr.NotFound{Resource: "order", ID: "ORD-9"}).Error())
	assert.Equal(t, "order not found", (&apperr.NotFound{Resource: "order"}).Error())
}

func TestMap_InfraKeepsCause(t *testing.T) {
	cause := errors.New("broker unavailable")
	infra, ok := apperr.Map(cause, "order", "").(*apperr.Infra)
	require.True(t, ok)
	assert.ErrorIs(t, infra, cause)
	assert.Equal(t, "broker unavailable", infra.Message)
}

func TestMap_ValidationUnwrapsToDomainError(t *testing.T) {
	_, err := entity.NewOrderItem(nil, entity.ZeroMoney("USD"), 0)
	v, ok := apperr.Map(err, "order", "").(*apperr.Validation)
	require.True(t, ok)
	assert.ErrorIs(t, v, entity.ErrInvalidQuantity)
}
