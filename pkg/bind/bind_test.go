package bind_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrahimdesign/atelier/pkg/bind"
)

type bookingForm struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
}

func TestJSONValid(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Asha","email":"asha@example.com"}`))

	var form bookingForm
	errs, err := bind.JSON(r, &form)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, "Asha", form.Name)
}

func TestJSONValidationErrorsUseWireNames(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"A","email":"nope"}`))

	var form bookingForm
	errs, err := bind.JSON(r, &form)
	require.NoError(t, err)

	// Keys come from the json tags, not the Go field names.
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.NotContains(t, errs, "Name")
}

func TestJSONMalformedBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name": `))

	var form bookingForm
	_, err := bind.JSON(r, &form)
	assert.Error(t, err)
}

func TestStructDirect(t *testing.T) {
	errs := bind.Struct(&bookingForm{Name: "ok name", Email: "x@example.com"})
	assert.Nil(t, errs)

	errs = bind.Struct(&bookingForm{})
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
}
