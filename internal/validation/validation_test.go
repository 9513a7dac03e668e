package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/campus_cafeteria/internal/transport"
)

func TestCheckoutRequest_Valid(t *testing.T) {
	t.Parallel()

	v := New()
	req := transport.CheckoutRequest{
		Name: "Asha", StudentID: "S100", PaymentMethod: "cash", OrderID: "CMS-123456",
	}
	require.NoError(t, v.Struct(req))
}

func TestCheckoutRequest_MissingFields(t *testing.T) {
	t.Parallel()

	v := New()
	err := v.Struct(transport.CheckoutRequest{PaymentMethod: "upi"})
	require.Error(t, err)

	fields := FieldErrors(err)
	assert.Equal(t, "required", fields["Name"])
	assert.Equal(t, "required", fields["StudentID"])
	assert.Equal(t, "required", fields["OrderID"])
}

func TestCheckoutRequest_ClassroomDeliveryNeedsLocation(t *testing.T) {
	t.Parallel()

	v := New()
	req := transport.CheckoutRequest{
		Name: "Asha", StudentID: "S100", PaymentMethod: "classroom_delivery", OrderID: "CMS-123456",
		DeliveryFields: transport.DeliveryFields{Classroom: "B-204"},
	}
	err := v.Struct(req)
	require.Error(t, err)

	fields := FieldErrors(err)
	assert.Equal(t, "required_for_delivery", fields["FloorNumber"])
	assert.Equal(t, "required_for_delivery", fields["DeliveryTime"])
	assert.NotContains(t, fields, "Classroom")
}

func TestCartLine_Rules(t *testing.T) {
	t.Parallel()

	v := New()
	require.NoError(t, v.Struct(transport.CartLine{Name: "Tea", Price: decimal.Zero, Quantity: 1}))

	err := v.Struct(transport.CartLine{Name: "Tea", Price: decimal.NewFromInt(-1), Quantity: 0})
	require.Error(t, err)
	fields := FieldErrors(err)
	assert.Equal(t, "dgte0", fields["Price"])
	assert.Equal(t, "gt", fields["Quantity"])
}

func TestRegisterRequest_PasswordConfirmation(t *testing.T) {
	t.Parallel()

	v := New()
	err := v.Struct(transport.RegisterRequest{
		Name: "asha", Email: "asha@campus.edu", Password: "secret1", ConfirmPassword: "secret2",
		SecurityQuestion1: "pet?", SecurityAnswer1: "rex",
	})
	require.Error(t, err)
	assert.Equal(t, "eqfield", FieldErrors(err)["ConfirmPassword"])
}
