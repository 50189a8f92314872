package cycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceCycle(t *testing.T) {
	c, err := NewServiceCycle("Lavado normal", ServiceTypeLavado, 25.0, 30)
	require.NoError(t, err)
	assert.Equal(t, PricingFixed, c.PricingType)
	assert.True(t, c.IsActive)

	_, err = NewServiceCycle("", ServiceTypeLavado, 25.0, 30)
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestAllowsMachine(t *testing.T) {
	c, _ := NewServiceCycle("Lavado normal", ServiceTypeLavado, 25.0, 30)
	c.AllowedMachineIDs = []string{"m1", "m2"}

	assert.True(t, c.AllowsMachine("m1"))
	assert.False(t, c.AllowsMachine("m3"))

	c.AllowedMachineIDs = nil
	assert.False(t, c.AllowsMachine("m1"), "lista vacía no permite ninguna máquina")
}

func TestPriceFor(t *testing.T) {
	fixed, _ := NewServiceCycle("Lavado normal", ServiceTypeLavado, 25.0, 30)
	price, err := fixed.PriceFor(0)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, price, 0.001, "precio fijo ignora el peso")

	perKg, _ := NewServiceCycle("Lavado por kilo", ServiceTypeLavado, 0, 45)
	perKg.PricingType = PricingPerKg
	perKg.PricePerKg = 3.5

	price, err = perKg.PriceFor(4)
	require.NoError(t, err)
	assert.InDelta(t, 14.0, price, 0.001)

	_, err = perKg.PriceFor(0)
	assert.ErrorIs(t, err, ErrInvalidWeight)
	_, err = perKg.PriceFor(-2)
	assert.ErrorIs(t, err, ErrInvalidWeight)
}

func TestDuration(t *testing.T) {
	c, _ := NewServiceCycle("Secado", ServiceTypeSecado, 18.0, 45)
	assert.Equal(t, 45*time.Minute, c.Duration())
}
