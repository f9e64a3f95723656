package domain

import (
	"go.uber.org/multierr"
)

// Validate comprueba una búsqueda contra el registro de la entidad y el catálogo de operadores.
// No se detiene en el primer problema: devuelve todas las violaciones combinadas con multierr
// (usar ValidationErrors para recorrerlas). Devuelve nil si la petición es válida.
func Validate(req SearchRequest, reg *FieldRegistry) error {
	var err error
	err = multierr.Append(err, validateIntent(req, reg))
	err = multierr.Append(err, validateFields(req, reg))
	err = multierr.Append(err, validateCriterion(req, reg))
	err = multierr.Append(err, validateSort(req, reg))
	err = multierr.Append(err, validatePagination(req))
	return err
}

func validateIntent(req SearchRequest, reg *FieldRegistry) error {
	if req.Intent == "" {
		return nil
	}
	if _, ok := reg.Intent(req.Intent); !ok {
		return NewValidationError(ErrUnsupportedIntent, "",
			"'%s' is not a supported intent for this search request", req.Intent)
	}
	return nil
}

func validateFields(req SearchRequest, reg *FieldRegistry) error {
	if req.Intent == "" && len(req.Fields) == 0 {
		return NewValidationError(ErrMissingFieldSpecification, "",
			"search request fields not specified, at least 1 field or '%s' is expected", AllFields)
	}

	var err error
	if req.SelectsAll() && len(req.Fields) > 1 {
		err = multierr.Append(err, NewValidationError(ErrInvalidFieldSpecification, AllFields,
			"when '%s' is used as a field it must be the only field specification", AllFields))
	}

	for _, f := range req.Fields {
		if f == AllFields {
			continue
		}
		if _, ok := reg.OutputExpr(f); !ok {
			err = multierr.Append(err, NewValidationError(ErrInvalidFieldSpecification, f,
				"'%s' is not a supported field for this search request", f))
		}
	}
	return err
}

func validateCriterion(req SearchRequest, reg *FieldRegistry) error {
	var err error
	for i, c := range req.Criterion {
		err = multierr.Append(err, validateCriterionAt(i, c, reg))
	}
	return err
}

func validateCriterionAt(i int, c SearchCriterion, reg *FieldRegistry) error {
	var err error

	op, known := c.Op()
	if !known {
		err = multierr.Append(err, NewValidationError(ErrInvalidOperator, c.Field,
			"criterion #%d: '%s' is not a supported operator", i, c.Operator))
	}

	switch {
	case c.Field == "":
		err = multierr.Append(err, NewValidationError(ErrInvalidCriterionField, "",
			"criterion #%d: field cannot be blank", i))
	case known && op == OpContainsOrContains:
		subFields := c.SubFields()
		if len(subFields) == 0 {
			err = multierr.Append(err, NewValidationError(ErrMalformedCriterionValue, c.Field,
				"criterion #%d: '%s' needs at least one field", i, op))
		}
		for _, sf := range subFields {
			if _, ok := reg.CriterionExpr(sf); !ok {
				err = multierr.Append(err, NewValidationError(ErrInvalidCriterionField, sf,
					"criterion #%d: '%s' is not a supported criterion field", i, sf))
			}
		}
	default:
		if _, ok := reg.CriterionExpr(c.Field); !ok {
			err = multierr.Append(err, NewValidationError(ErrInvalidCriterionField, c.Field,
				"criterion #%d: '%s' is not a supported criterion field", i, c.Field))
		}
	}

	if !known || !op.RequiresValue() {
		return err
	}
	if c.Value.IsNull() {
		return multierr.Append(err, NewValidationError(ErrMissingCriterionValue, c.Field,
			"criterion #%d: a non-null value is expected for '%s'", i, op))
	}
	if verr := CheckValue(op, c.Value); verr != nil {
		err = multierr.Append(err, NewValidationError(ErrMalformedCriterionValue, c.Field,
			"criterion #%d: %s for '%s'", i, verr, op))
	}
	return err
}

// CheckValue comprueba que un valor no nulo tenga el tipo y la forma que exige el operador.
func CheckValue(op Operator, v Value) error {
	if op.RequiresText() && v.Kind() != KindText {
		return errNotText
	}
	switch op.Class() {
	case ClassRange:
		_, _, err := v.RangeBounds()
		return err
	case ClassList:
		_, err := v.ListItems()
		return err
	}
	return nil
}

func validateSort(req SearchRequest, reg *FieldRegistry) error {
	var err error
	for i, s := range req.Sort {
		if _, ok := reg.OutputExpr(s.Field); !ok {
			err = multierr.Append(err, NewValidationError(ErrInvalidSortField, s.Field,
				"sort #%d: '%s' is not a supported sort field", i, s.Field))
		}
		if _, ok := s.Direction(); !ok {
			err = multierr.Append(err, NewValidationError(ErrInvalidSortOrder, s.Field,
				"sort #%d: '%s' is not supported, only 'ASC' and 'DESC' are", i, s.Order))
		}
	}
	return err
}

func validatePagination(req SearchRequest) error {
	switch {
	case req.Page < 0 || req.PageSize < 0:
		return NewValidationError(ErrInvalidPaginationSpecification, "",
			"page number %d and page size %d cannot be negative", req.Page, req.PageSize)
	case req.Page == 0 && req.PageSize != 0:
		return NewValidationError(ErrInvalidPaginationSpecification, "",
			"when page size %d is non-zero, page number cannot be zero", req.PageSize)
	case req.Page != 0 && req.PageSize == 0:
		return NewValidationError(ErrInvalidPaginationSpecification, "",
			"when page number %d is non-zero, page size cannot be zero", req.Page)
	}
	return nil
}
