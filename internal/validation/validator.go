package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/campus_cafeteria/internal/models"
	"github.com/Skotchmaster/campus_cafeteria/internal/transport"
)

// New returns a validator with the cafeteria specific rules registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// decimal.Decimal is a struct; field tags only run on it once it is
	// presented as a string.
	v.RegisterCustomTypeFunc(decimalString, decimal.Decimal{})
	if err := v.RegisterValidation("dgte0", decimalNonNegative); err != nil {
		panic(fmt.Sprintf("validation: register dgte0: %v", err))
	}
	v.RegisterStructValidation(checkoutStructValidation, transport.CheckoutRequest{})

	return v
}

func decimalString(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func decimalNonNegative(fl validatorv10.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.IsNegative()
}

// classroom delivery needs somewhere to deliver to
func checkoutStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(transport.CheckoutRequest)
	if req.PaymentMethod != models.PaymentClassroomDelivery {
		return
	}
	if strings.TrimSpace(req.FloorNumber) == "" {
		sl.ReportError(req.FloorNumber, "FloorNumber", "FloorNumber", "required_for_delivery", "")
	}
	if strings.TrimSpace(req.Classroom) == "" {
		sl.ReportError(req.Classroom, "Classroom", "Classroom", "required_for_delivery", "")
	}
	if strings.TrimSpace(req.DeliveryTime) == "" {
		sl.ReportError(req.DeliveryTime, "DeliveryTime", "DeliveryTime", "required_for_delivery", "")
	}
}

// EchoValidator plugs the validator into echo.Context.Validate.
type EchoValidator struct {
	V *validatorv10.Validate
}

func (ev *EchoValidator) Validate(i any) error {
	return ev.V.Struct(i)
}

// FieldErrors flattens validation errors into field -> failed tag.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	var ve validatorv10.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
	} else if err != nil {
		out["error"] = err.Error()
	}
	return out
}
