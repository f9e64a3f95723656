package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *FieldRegistry {
	t.Helper()
	reg, err := NewFieldRegistry("user", "u.UserId",
		[]Field{
			{Name: "UserLogin", Expr: "u.UserLogin"},
			{Name: "RealName", Expr: "u.RealName"},
			{Name: "Active", Expr: "u.Active"},
		},
		[]Field{
			{Name: "UserId", Expr: "u.UserId"},
			{Name: "Active", Expr: "u.Active"},
			{Name: "FirstName", Expr: "u.FirstName"},
			{Name: "LastName", Expr: "u.LastName"},
		},
		Intent{Name: "summary", Fields: []string{"UserLogin", "RealName"}},
	)
	require.NoError(t, err)
	return reg
}

func kinds(err error) []ErrorKind {
	var out []ErrorKind
	for _, ve := range ValidationErrors(err) {
		out = append(out, ve.Kind)
	}
	return out
}

func TestValidate(t *testing.T) {
	reg := testRegistry(t)

	tests := []struct {
		name     string
		req      SearchRequest
		expected []ErrorKind
	}{
		{
			name: "petición válida completa",
			req: SearchRequest{
				Fields:    []string{"UserLogin", "realname"},
				Criterion: []SearchCriterion{{Field: "Active", Operator: "=", Value: Int(2)}},
				Sort:      []SortSpecification{{Field: "UserLogin", Order: "asc"}},
				Page:      1,
				PageSize:  10,
			},
		},
		{
			name: "centinela solo es válido",
			req:  SearchRequest{Fields: []string{"*"}},
		},
		{
			name: "intent sin campos es válido",
			req:  SearchRequest{Intent: "SUMMARY"},
		},
		{
			name:     "intent no soportado",
			req:      SearchRequest{Intent: "everything", Fields: []string{"*"}},
			expected: []ErrorKind{ErrUnsupportedIntent},
		},
		{
			name:     "sin intent ni campos",
			req:      SearchRequest{},
			expected: []ErrorKind{ErrMissingFieldSpecification},
		},
		{
			name:     "centinela mezclado con campos",
			req:      SearchRequest{Fields: []string{"*", "UserLogin"}},
			expected: []ErrorKind{ErrInvalidFieldSpecification},
		},
		{
			name:     "cada campo desconocido se reporta",
			req:      SearchRequest{Fields: []string{"Foo", "UserLogin", "Bar"}},
			expected: []ErrorKind{ErrInvalidFieldSpecification, ErrInvalidFieldSpecification},
		},
		{
			name: "criterio con campo vacío y operador inválido",
			req: SearchRequest{
				Fields:    []string{"*"},
				Criterion: []SearchCriterion{{Field: "", Operator: "like", Value: Text("x")}},
			},
			expected: []ErrorKind{ErrInvalidOperator, ErrInvalidCriterionField},
		},
		{
			name: "criterio sobre campo no filtrable",
			req: SearchRequest{
				Fields:    []string{"*"},
				Criterion: []SearchCriterion{{Field: "UserLogin", Operator: "=", Value: Text("x")}},
			},
			expected: []ErrorKind{ErrInvalidCriterionField},
		},
		{
			name: "valor nulo en operador que lo requiere",
			req: SearchRequest{
				Fields:    []string{"*"},
				Criterion: []SearchCriterion{{Field: "Active", Operator: ">="}},
			},
			expected: []ErrorKind{ErrMissingCriterionValue},
		},
		{
			name: "isnull no necesita valor",
			req: SearchRequest{
				Fields:    []string{"*"},
				Criterion: []SearchCriterion{{Field: "Active", Operator: "IsNull"}},
			},
		},
		{
			name: "patrón con valor numérico",
			req: SearchRequest{
				Fields:    []string{"*"},
				Criterion: []SearchCriterion{{Field: "FirstName", Operator: "contains", Value: Int(3)}},
			},
			expected: []ErrorKind{ErrMalformedCriterionValue},
		},
		{
			name: "between con un solo valor",
			req: SearchRequest{
				Fields:    []string{"*"},
				Criterion: []SearchCriterion{{Field: "UserId", Operator: "between", Value: Text("10")}},
			},
			expected: []ErrorKind{ErrMalformedCriterionValue},
		},
		{
			name: "containsorcontains con sub-campo desconocido",
			req: SearchRequest{
				Fields:    []string{"*"},
				Criterion: []SearchCriterion{{Field: "FirstName|Nickname", Operator: "containsorcontains", Value: Text("an")}},
			},
			expected: []ErrorKind{ErrInvalidCriterionField},
		},
		{
			name: "containsorcontains con or pegado no separa",
			req: SearchRequest{
				Fields:    []string{"*"},
				Criterion: []SearchCriterion{{Field: "FirstNameorLastName", Operator: "containsorcontains", Value: Text("an")}},
			},
			expected: []ErrorKind{ErrInvalidCriterionField},
		},
		{
			name: "containsorcontains sin sub-campos",
			req: SearchRequest{
				Fields:    []string{"*"},
				Criterion: []SearchCriterion{{Field: " | ", Operator: "containsorcontains", Value: Text("an")}},
			},
			expected: []ErrorKind{ErrMalformedCriterionValue},
		},
		{
			name: "orden con campo y dirección inválidos",
			req: SearchRequest{
				Fields: []string{"*"},
				Sort:   []SortSpecification{{Field: "Password", Order: "up"}},
			},
			expected: []ErrorKind{ErrInvalidSortField, ErrInvalidSortOrder},
		},
		{
			name:     "page sin pageSize",
			req:      SearchRequest{Fields: []string{"*"}, Page: 5},
			expected: []ErrorKind{ErrInvalidPaginationSpecification},
		},
		{
			name:     "pageSize sin page",
			req:      SearchRequest{Fields: []string{"*"}, PageSize: 5},
			expected: []ErrorKind{ErrInvalidPaginationSpecification},
		},
		{
			name:     "paginación negativa",
			req:      SearchRequest{Fields: []string{"*"}, Page: -1, PageSize: 10},
			expected: []ErrorKind{ErrInvalidPaginationSpecification},
		},
		{
			name: "se acumulan todas las violaciones",
			req: SearchRequest{
				Intent:    "nope",
				Fields:    []string{"Foo"},
				Criterion: []SearchCriterion{{Field: "Active", Operator: "~", Value: Int(1)}},
				Sort:      []SortSpecification{{Field: "UserLogin", Order: "sideways"}},
				Page:      3,
			},
			expected: []ErrorKind{
				ErrUnsupportedIntent,
				ErrInvalidFieldSpecification,
				ErrInvalidOperator,
				ErrInvalidSortOrder,
				ErrInvalidPaginationSpecification,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req, reg)
			if len(tt.expected) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.expected, kinds(err))
		})
	}
}

func TestValidate_SentinelExclusivity(t *testing.T) {
	reg := testRegistry(t)

	for _, extra := range []string{"UserLogin", "RealName", "Foo", "*"} {
		err := Validate(SearchRequest{Fields: []string{"*", extra}}, reg)
		assert.ErrorIs(t, err, ErrInvalidFieldSpecification, "'*' junto a %q debe rechazarse", extra)
	}
}

func TestValidate_ErrorsIsMatchesKind(t *testing.T) {
	reg := testRegistry(t)

	err := Validate(SearchRequest{Fields: []string{"Foo"}}, reg)

	assert.True(t, errors.Is(err, ErrInvalidFieldSpecification))
	assert.False(t, errors.Is(err, ErrInvalidSortField))
	assert.True(t, IsValidationError(err))

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Foo", ve.Field)
}
