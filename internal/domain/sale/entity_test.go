package sale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lavanderia/lavanderia-backend/internal/domain/machine"
)

func TestStatusCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusFinalized, false},
		{StatusCompleted, StatusFinalized, true},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusPending, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusFinalized, StatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s → %s", tc.from, tc.to)
	}
}

func TestServiceStatusEsMonotono(t *testing.T) {
	assert.True(t, ServicePending.CanTransitionTo(ServiceActive))
	assert.True(t, ServiceActive.CanTransitionTo(ServiceCompleted))

	assert.False(t, ServicePending.CanTransitionTo(ServiceCompleted), "no puede saltar estados")
	assert.False(t, ServiceActive.CanTransitionTo(ServicePending), "no puede retroceder")
	assert.False(t, ServiceCompleted.CanTransitionTo(ServiceActive))
	assert.False(t, ServiceCompleted.CanTransitionTo(ServicePending))
}

func TestNewSale(t *testing.T) {
	s, err := NewSale("client-1", "emp-1", "store-1")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, StatusPending, s.Status)
	assert.Equal(t, "client-1", s.ClientID)

	_, err = NewSale("", "", "store-1")
	assert.ErrorIs(t, err, ErrEmptyEmployee)

	_, err = NewSale("", "emp-1", "")
	assert.ErrorIs(t, err, ErrEmptyStore)
}

func TestValidateShape(t *testing.T) {
	base := func() *Sale {
		s, _ := NewSale("", "emp-1", "store-1")
		s.Products = []ProductLine{{ProductID: "p1", Quantity: 2}}
		s.Payments = []PaymentMethod{{Type: PaymentCash, Amount: 10}}
		return s
	}

	assert.NoError(t, base().ValidateShape())

	s := base()
	s.Products = nil
	assert.ErrorIs(t, s.ValidateShape(), ErrNoItems)

	s = base()
	s.Payments = nil
	assert.ErrorIs(t, s.ValidateShape(), ErrNoPayments)
}

func TestPaymentMethodValidate(t *testing.T) {
	assert.NoError(t, PaymentMethod{Type: PaymentCash, Amount: 5}.Validate())

	// tarjeta recargable: exactamente una vía de resolución
	assert.NoError(t, PaymentMethod{Type: PaymentStoredValue, Amount: 5, CardID: "c1"}.Validate())
	assert.NoError(t, PaymentMethod{Type: PaymentStoredValue, Amount: 5, NFCUID: "uid1"}.Validate())
	assert.ErrorIs(t,
		PaymentMethod{Type: PaymentStoredValue, Amount: 5}.Validate(),
		ErrCardReference)
	assert.ErrorIs(t,
		PaymentMethod{Type: PaymentStoredValue, Amount: 5, CardID: "c1", NFCUID: "uid1"}.Validate(),
		ErrCardReference)

	assert.Error(t, PaymentMethod{Type: "cheque", Amount: 5}.Validate())
}

func TestComputeTotalYPagos(t *testing.T) {
	s, _ := NewSale("", "emp-1", "store-1")
	s.Products = []ProductLine{
		{ProductID: "p1", Quantity: 2, UnitPrice: 8.50, Subtotal: 17.00},
	}
	s.Services = []ServiceLine{
		{ServiceCycleID: "c1", MachineID: "m1", MachineType: machine.TypeLavadora, Price: 25.00},
	}
	s.TotalAmount = s.ComputeTotal()
	assert.InDelta(t, 42.00, s.TotalAmount, 0.001)

	s.Payments = []PaymentMethod{{Type: PaymentCash, Amount: 42.00}}
	assert.True(t, s.PaymentsMatchTotal())

	// dentro de la tolerancia de un centavo
	s.Payments = []PaymentMethod{{Type: PaymentCash, Amount: 42.009}}
	assert.True(t, s.PaymentsMatchTotal())

	s.Payments = []PaymentMethod{{Type: PaymentCash, Amount: 41.50}}
	assert.False(t, s.PaymentsMatchTotal())
}

func TestTransitionRegistraTimestamps(t *testing.T) {
	s, _ := NewSale("", "emp-1", "store-1")

	require.NoError(t, s.Transition(StatusCompleted))
	require.NotNil(t, s.CompletedAt)
	assert.WithinDuration(t, time.Now().UTC(), *s.CompletedAt, time.Second)

	require.NoError(t, s.Transition(StatusFinalized))
	require.NotNil(t, s.FinalizedAt)

	assert.ErrorIs(t, s.Transition(StatusPending), ErrInvalidTransition)
}

func TestAllServicesCompleted(t *testing.T) {
	s, _ := NewSale("", "emp-1", "store-1")
	assert.True(t, s.AllServicesCompleted(), "sin servicios cuenta como completado")

	s.Services = []ServiceLine{
		{ServiceCycleID: "c1", Status: ServiceCompleted},
		{ServiceCycleID: "c2", Status: ServiceActive},
	}
	assert.False(t, s.AllServicesCompleted())

	s.Services[1].Status = ServiceCompleted
	assert.True(t, s.AllServicesCompleted())
}
