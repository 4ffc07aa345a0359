package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/fleshka4/swap-proxy/internal/apperrors"
)

var structValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "schema"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// checkStruct runs tag validation and reports the first failure by its wire name.
func checkStruct(v any) error {
	err := structValidator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.Wrap(apperrors.ErrInvalidArgument, err.Error())
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return errors.Wrapf(apperrors.ErrMissingField, "%s is required", fe.Field())
	case "min":
		return errors.Wrapf(apperrors.ErrInvalidArgument, "%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return errors.Wrapf(apperrors.ErrInvalidArgument, "%s must be at most %s", fe.Field(), fe.Param())
	default:
		return errors.Wrapf(apperrors.ErrInvalidArgument, "%s is invalid", fe.Field())
	}
}
