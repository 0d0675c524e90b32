package moneypkg

import (
	"reflect"

	"github.com/go-playground/validator/v10"
)

// ValidMoney validates whether the field holds a positive amount with at most 2 decimal places.
//
// It accepts string kinds, json.Number included.
var ValidMoney validator.Func = func(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}

	m, err := Parse(fl.Field().String())
	if err != nil {
		return false
	}

	return m.IsPositive()
}
