package models

import (
	"auction-site/internal/auctionerrors"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// balance is stored as decimal(6,2)
var maxBalance = decimal.NewFromInt(10000)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(userStructLevel, User{})
	if err := v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return Category(fl.Field().String()).Valid()
	}); err != nil {
		panic(err)
	}
	return v
}

func userStructLevel(sl validator.StructLevel) {
	u := sl.Current().Interface().(User)
	if !ValidBalance(u.Balance) {
		sl.ReportError(u.Balance, "Balance", "balance", "decimal6_2", "")
	}
}

// ValidBalance reports whether b fits six digits with two decimal places
func ValidBalance(b decimal.Decimal) bool {
	return b.Abs().LessThan(maxBalance) && b.Round(2).Equal(b)
}

// Validate checks a record against its field constraints
func Validate(record Record) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", auctionerrors.ErrInvalidRecord, err)
	}
	for _, fe := range verrs {
		if fe.Tag() == "category" {
			return fmt.Errorf("%w: %q", auctionerrors.ErrInvalidCategory, fe.Value())
		}
	}
	return fmt.Errorf("%w: %s %s", auctionerrors.ErrInvalidRecord, record.EntityName(), verrs.Error())
}
