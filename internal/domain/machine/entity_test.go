package machine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMachine() *Machine {
	return &Machine{
		ID:       "m1",
		StoreID:  "store-1",
		Numero:   3,
		Type:     TypeLavadora,
		ESP32ID:  "esp32-03",
		Estado:   EstadoDisponible,
		IsActive: true,
	}
}

func TestIsAvailable(t *testing.T) {
	m := newTestMachine()
	assert.True(t, m.IsAvailable())

	m.Estado = EstadoOcupada
	assert.False(t, m.IsAvailable())

	m.Estado = EstadoMantenimiento
	assert.False(t, m.IsAvailable())

	m.Estado = EstadoDisponible
	m.IsActive = false
	assert.False(t, m.IsAvailable())
}

func TestOccupyYActivate(t *testing.T) {
	m := newTestMachine()
	m.Occupy("sale-1", 0, "cycle-1")

	assert.Equal(t, EstadoOcupada, m.Estado)
	require.NotNil(t, m.CurrentService)
	assert.Equal(t, "sale-1", m.CurrentService.SaleID)
	assert.Equal(t, 0, m.CurrentService.ServiceIndex)
	assert.Nil(t, m.CurrentService.StartedAt, "sin timestamps hasta la activación")
	assert.True(t, m.OccupancyConsistent())

	start := time.Now().UTC()
	end := start.Add(30 * time.Minute)
	require.NoError(t, m.ActivateService(start, end))
	require.NotNil(t, m.CurrentService.StartedAt)
	assert.Equal(t, end, *m.CurrentService.EstimatedEndAt)
}

func TestActivateRequiereOcupacion(t *testing.T) {
	m := newTestMachine()
	err := m.ActivateService(time.Now(), time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, ErrNotOccupied)
}

func TestRelease(t *testing.T) {
	m := newTestMachine()
	m.Occupy("sale-1", 0, "cycle-1")

	m.Release()
	assert.Equal(t, EstadoDisponible, m.Estado)
	assert.Nil(t, m.CurrentService)
	assert.True(t, m.OccupancyConsistent())
}

func TestOccupancyConsistent(t *testing.T) {
	m := newTestMachine()
	assert.True(t, m.OccupancyConsistent())

	// ocupada sin servicio: inconsistente
	m.Estado = EstadoOcupada
	assert.False(t, m.OccupancyConsistent())

	// disponible con servicio colgado: inconsistente
	m.Estado = EstadoDisponible
	m.CurrentService = &CurrentService{SaleID: "sale-1"}
	assert.False(t, m.OccupancyConsistent())
}

func TestHasDevice(t *testing.T) {
	m := newTestMachine()
	assert.True(t, m.HasDevice())

	m.ESP32ID = ""
	assert.False(t, m.HasDevice())
}
