package bind

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Email    string `json:"email" validate:"required,email"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
}

func TestJSONValid(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.co","quantity":2}`))

	var p payload
	errs, err := JSON(r, &p)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "a@b.co", p.Email)
	assert.Equal(t, 2, p.Quantity)
}

func TestJSONValidationErrors(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"nope","quantity":0}`))

	var p payload
	errs, err := JSON(r, &p)
	require.NoError(t, err)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "quantity")
}

func TestJSONMalformedBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":`))

	var p payload
	_, err := JSON(r, &p)
	assert.Error(t, err)
}

func TestUintParam(t *testing.T) {
	id, err := UintParam("42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, raw := range []string{"0", "-1", "banana", "", "1.5"} {
		_, err := UintParam(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}
