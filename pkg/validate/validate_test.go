package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signupForm struct {
	Name     string `json:"name" validate:"required,min=2,max=10"`
	Email    string `json:"email" validate:"required,email"`
	Age      int    `json:"age" validate:"nullable,integer,between=18,120"`
	Status   string `json:"status" validate:"nullable,in=active,complete"`
	Handle   string `json:"handle" validate:"nullable,alpha_dash"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
}

func TestStructValid(t *testing.T) {
	errs := Struct(&signupForm{
		Name:     "Alice",
		Email:    "alice@example.com",
		Age:      30,
		Status:   "active",
		Handle:   "alice_01",
		Quantity: 2,
	})
	assert.False(t, HasErrors(errs), "unexpected errors: %v", errs)
}

func TestStructRequired(t *testing.T) {
	errs := Struct(&signupForm{})
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "quantity")
	// nullable fields left empty are fine
	assert.NotContains(t, errs, "age")
	assert.NotContains(t, errs, "status")
}

func TestStructRules(t *testing.T) {
	cases := []struct {
		name  string
		form  signupForm
		field string
	}{
		{"bad email", signupForm{Name: "Al", Email: "not-an-email", Quantity: 1}, "email"},
		{"name too short", signupForm{Name: "A", Email: "a@b.co", Quantity: 1}, "name"},
		{"name too long", signupForm{Name: "AbsurdlyLongName", Email: "a@b.co", Quantity: 1}, "name"},
		{"age below range", signupForm{Name: "Al", Email: "a@b.co", Age: 12, Quantity: 1}, "age"},
		{"bad status", signupForm{Name: "Al", Email: "a@b.co", Status: "shipped", Quantity: 1}, "status"},
		{"bad handle", signupForm{Name: "Al", Email: "a@b.co", Handle: "no spaces!", Quantity: 1}, "handle"},
		{"zero quantity", signupForm{Name: "Al", Email: "a@b.co", Quantity: 0}, "quantity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := Struct(&tc.form)
			assert.Contains(t, errs, tc.field)
		})
	}
}

func TestSplitRulesKeepsMultiValueParams(t *testing.T) {
	rules := splitRules("required,in=active,complete")
	assert.Equal(t, []string{"required", "in=active,complete"}, rules)

	rules = splitRules("nullable,between=1,10,integer")
	assert.Equal(t, []string{"nullable", "between=1,10", "integer"}, rules)
}
