package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lavanderia/lavanderia-backend/internal/adapter/gateway/nfcreader"
	"github.com/lavanderia/lavanderia-backend/internal/domain/card"
)

type nfcFixture struct {
	cards  *fakeCardRepo
	reader *fakeReader
	svc    *NFCService
}

func newNFCFixture(t *testing.T) *nfcFixture {
	t.Helper()

	c := card.NewCard("client-1", "111122223333")
	c.ID = "card-1"
	c.Balance = 30
	c.NFCUID = "04:AA:BB:CC"
	c.IsNFCEnabled = true

	f := &nfcFixture{
		cards:  newFakeCardRepo(c),
		reader: &fakeReader{available: true, uid: "04:AA:BB:CC"},
	}
	clients := &fakeClients{names: map[string]string{"client-1": "María López"}}
	f.svc = NewNFCService(f.cards, clients, f.reader, 15*time.Second, testLogger())
	return f
}

func TestValidatePayment(t *testing.T) {
	f := newNFCFixture(t)

	result, err := f.svc.ValidatePayment(context.Background(), 20, 0)
	require.NoError(t, err)

	assert.Equal(t, "card-1", result.CardID)
	assert.Equal(t, "María López", result.ClientName)
	assert.InDelta(t, 30.0, result.Balance, 0.001)
	assert.InDelta(t, 10.0, result.RemainingBalance, 0.001)

	// la validación no cobra
	assert.InDelta(t, 30.0, f.cards.balance("card-1"), 0.001)
}

func TestValidatePaymentSaldoInsuficiente(t *testing.T) {
	f := newNFCFixture(t)

	_, err := f.svc.ValidatePayment(context.Background(), 31, 0)
	require.Error(t, err)
	assert.Equal(t, KindBusiness, KindOf(err))
	assert.ErrorIs(t, err, card.ErrInsufficientBalance)
}

func TestValidatePaymentLectorNoDisponible(t *testing.T) {
	f := newNFCFixture(t)
	f.reader.available = false

	_, err := f.svc.ValidatePayment(context.Background(), 20, 0)
	require.Error(t, err)
	assert.Equal(t, KindNFCUnavailable, KindOf(err))
}

func TestValidatePaymentSinTarjeta(t *testing.T) {
	f := newNFCFixture(t)
	f.reader.waitErr = nfcreader.ErrNoCard

	_, err := f.svc.ValidatePayment(context.Background(), 20, 0)
	require.Error(t, err)
	assert.Equal(t, KindNoCardDetected, KindOf(err))
}

func TestValidatePaymentMontoInvalido(t *testing.T) {
	f := newNFCFixture(t)

	_, err := f.svc.ValidatePayment(context.Background(), 0, 0)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestProcessPayment(t *testing.T) {
	f := newNFCFixture(t)

	receipt, err := f.svc.ProcessPayment(context.Background(), "04:AA:BB:CC", 20)
	require.NoError(t, err)

	assert.InDelta(t, 10.0, receipt.NewBalance, 0.001)
	assert.Equal(t, "María López", receipt.ClientName)
	assert.InDelta(t, 10.0, f.cards.balance("card-1"), 0.001)
}

func TestProcessPaymentUIDDesconocido(t *testing.T) {
	f := newNFCFixture(t)

	_, err := f.svc.ProcessPayment(context.Background(), "04:FF:FF:FF", 20)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestLinkCard(t *testing.T) {
	f := newNFCFixture(t)
	ctx := context.Background()

	nueva := card.NewCard("client-2", "444455556666")
	nueva.ID = "card-2"
	require.NoError(t, f.cards.Create(ctx, nueva))
	f.reader.uid = "04:DD:EE:FF"

	linked, err := f.svc.LinkCard(ctx, "card-2")
	require.NoError(t, err)
	assert.Equal(t, "04:DD:EE:FF", linked.NFCUID)
	assert.True(t, linked.IsNFCEnabled)
}

func TestLinkCardYaVinculada(t *testing.T) {
	f := newNFCFixture(t)

	_, err := f.svc.LinkCard(context.Background(), "card-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, card.ErrUIDAlreadyLinked)
}

func TestLinkCardUIDOcupado(t *testing.T) {
	f := newNFCFixture(t)
	ctx := context.Background()

	nueva := card.NewCard("client-2", "444455556666")
	nueva.ID = "card-2"
	require.NoError(t, f.cards.Create(ctx, nueva))
	// el lector detecta el UID que ya pertenece a card-1
	f.reader.uid = "04:AA:BB:CC"

	_, err := f.svc.LinkCard(ctx, "card-2")
	require.Error(t, err)
	assert.Equal(t, KindBusiness, KindOf(err))
}

func TestReload(t *testing.T) {
	f := newNFCFixture(t)

	receipt, err := f.svc.Reload(context.Background(), 100)
	require.NoError(t, err)
	assert.InDelta(t, 130.0, receipt.NewBalance, 0.001)
	assert.InDelta(t, 130.0, f.cards.balance("card-1"), 0.001)
}

func TestReloadExcedeLimite(t *testing.T) {
	f := newNFCFixture(t)

	_, err := f.svc.Reload(context.Background(), card.MaxBalance)
	require.Error(t, err)
	assert.ErrorIs(t, err, card.ErrBalanceLimit)
	assert.InDelta(t, 30.0, f.cards.balance("card-1"), 0.001)
}

func TestBalance(t *testing.T) {
	f := newNFCFixture(t)

	info, err := f.svc.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "card-1", info.CardID)
	assert.Equal(t, "María López", info.ClientName)
	assert.InDelta(t, 30.0, info.Balance, 0.001)
}
