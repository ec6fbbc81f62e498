package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap("products.count", "", nil))

	cause := errors.New("connection refused")
	err := Wrap("cart_items.upsert", "cart-1", cause)
	assert.EqualError(t, err, "cart_items.upsert cart-1: connection refused")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "cart_items.upsert", Op(fmt.Errorf("add item: %w", err)))

	assert.EqualError(t, Wrap("products.count", "", cause), "products.count: connection refused")
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(Wrap("products.find", "slug", ErrNotFound)))
	assert.False(t, IsNotFound(errors.New("boom")))
	assert.Equal(t, "", Op(errors.New("plain")))
}

func TestUnavailable(t *testing.T) {
	cause := errors.New("i/o timeout")
	err := Wrap("carts.find", "cart-1", Unavailable(cause))

	assert.True(t, IsUnavailable(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsNotFound(err))
	assert.EqualError(t, err, "carts.find cart-1: store unavailable: i/o timeout")
	assert.False(t, IsUnavailable(Wrap("carts.find", "cart-1", cause)))
}
