package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/erp/checkout-fields/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator configures gin's binding validator to report JSON field
// names in validation errors. Call once at startup.
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// bindingErrors converts binding validation failures into field error
// responses so malformed requests carry the same error shape as rejected
// submissions.
func bindingErrors(err error) []dto.FieldErrorResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]dto.FieldErrorResponse, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, dto.FieldErrorResponse{
			FieldID: e.Field(),
			Code:    strings.ToUpper(e.Tag()),
			Message: bindingMessage(e),
		})
	}
	return out
}

func bindingMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "max":
		return "Must be at most " + e.Param() + " characters"
	default:
		return "Invalid value"
	}
}
