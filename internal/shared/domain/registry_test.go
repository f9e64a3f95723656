package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFieldRegistry_Errors(t *testing.T) {
	out := []Field{{Name: "UserLogin", Expr: "u.UserLogin"}}

	tests := []struct {
		name      string
		idField   string
		output    []Field
		criterion []Field
		intents   []Intent
	}{
		{name: "sin campo id", idField: "", output: out},
		{name: "campo duplicado sin distinguir mayúsculas", idField: "u.UserId", output: []Field{
			{Name: "UserLogin", Expr: "u.UserLogin"},
			{Name: "userlogin", Expr: "u.Login"},
		}},
		{name: "expresión vacía", idField: "u.UserId", criterion: []Field{{Name: "Active"}}},
		{name: "centinela reservado", idField: "u.UserId", output: []Field{{Name: "*", Expr: "u.*"}}},
		{name: "intent con campo desconocido", idField: "u.UserId", output: out,
			intents: []Intent{{Name: "x", Fields: []string{"Nope"}}}},
		{name: "intent duplicado", idField: "u.UserId", output: out,
			intents: []Intent{{Name: "x"}, {Name: "X"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFieldRegistry("user", tt.idField, tt.output, tt.criterion, tt.intents...)
			assert.Error(t, err)
		})
	}
}

func TestFieldRegistry_Lookups(t *testing.T) {
	reg, err := NewFieldRegistry("user", "u.UserId",
		[]Field{
			{Name: "UserLogin", Expr: "u.UserLogin"},
			{Name: "FullName", Expr: "CONCAT(u.FirstName, ' ', u.LastName) AS FullName"},
		},
		[]Field{{Name: "Active", Expr: "u.Active"}},
		Intent{Name: "Summary", Fields: []string{"UserLogin"}},
	)
	require.NoError(t, err)

	expr, ok := reg.OutputExpr("userlogin")
	assert.True(t, ok)
	assert.Equal(t, "u.UserLogin", expr)

	_, ok = reg.OutputExpr("Active")
	assert.False(t, ok, "los campos de criterio no son campos de salida")

	expr, ok = reg.CriterionExpr("ACTIVE")
	assert.True(t, ok)
	assert.Equal(t, "u.Active", expr)

	order, ok := reg.OrderExpr("fullname")
	assert.True(t, ok)
	assert.Equal(t, "FullName", order)

	order, _ = reg.OrderExpr("UserLogin")
	assert.Equal(t, "u.UserLogin", order)

	in, ok := reg.Intent("summary")
	assert.True(t, ok)
	assert.Equal(t, []string{"UserLogin"}, in.Fields)

	// Las copias no exponen el estado interno.
	fields := reg.OutputFields()
	fields[0].Expr = "hacked"
	expr, _ = reg.OutputExpr("UserLogin")
	assert.Equal(t, "u.UserLogin", expr)
}

func TestOperator_Catalog(t *testing.T) {
	op, ok := ParseOperator(" StartsWith ")
	assert.True(t, ok)
	assert.Equal(t, OpStartsWith, op)
	assert.True(t, op.IsPattern())
	assert.True(t, op.RequiresText())

	_, ok = ParseOperator("like")
	assert.False(t, ok)

	assert.False(t, OpIsNotNull.RequiresValue())
	assert.False(t, OpGte.RequiresText())
	assert.Len(t, Operators(), 15)

	c := SearchCriterion{Field: "FirstName or LastName|RealName"}
	assert.Equal(t, []string{"FirstName", "LastName", "RealName"}, c.SubFields())

	c = SearchCriterion{Field: "FirstName OR LastName"}
	assert.Equal(t, []string{"FirstName", "LastName"}, c.SubFields())

	// "or" sin espacios forma parte del nombre: ColorCode no se parte.
	c = SearchCriterion{Field: "FirstNameorLastName|ColorCode"}
	assert.Equal(t, []string{"FirstNameorLastName", "ColorCode"}, c.SubFields())
}
