package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lavanderia/lavanderia-backend/internal/adapter/notifier"
	"github.com/lavanderia/lavanderia-backend/internal/domain/sale"
)

func TestMonitorTickCompletaVencidos(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	input := newSaleInput(t, sale.PaymentMethod{Type: sale.PaymentCash, Amount: 42.00})
	created, err := f.svc.CreateSale(ctx, input)
	require.NoError(t, err)
	_, err = f.svc.CompleteSale(ctx, created.ID)
	require.NoError(t, err)

	past := time.Now().UTC().Add(-time.Minute)
	started := past.Add(-30 * time.Minute)
	require.NoError(t, f.sales.UpdateServiceStatus(ctx, created.ID, 0, sale.ServiceActive, &started, &past))

	monitor := NewMonitor(f.svc, 30*time.Second, f.events, testLogger())

	count, err := monitor.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, f.events.byType(notifier.EventServicesCompleted), 1)

	status := monitor.Status()
	require.NotNil(t, status.LastCheck)
	assert.Equal(t, 1, status.LastCount)
	assert.Equal(t, 30, status.IntervalSeconds)

	// segunda corrida: nada nuevo venció
	count, err = monitor.Tick(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Len(t, f.events.byType(notifier.EventServicesCompleted), 1, "sin evento cuando no hay transiciones")
}

func TestMonitorStartStop(t *testing.T) {
	f := newSaleFixture(t)
	monitor := NewMonitor(f.svc, time.Hour, f.events, testLogger())

	assert.False(t, monitor.Status().Running)

	monitor.Start(context.Background())
	assert.True(t, monitor.Status().Running)

	// Start repetido es inocuo
	monitor.Start(context.Background())

	monitor.Stop()
	assert.False(t, monitor.Status().Running)

	// Stop repetido es inocuo
	monitor.Stop()
}
