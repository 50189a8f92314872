package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lavanderia/lavanderia-backend/internal/adapter/gateway/nfcreader"
	"github.com/lavanderia/lavanderia-backend/internal/adapter/notifier"
	"github.com/lavanderia/lavanderia-backend/internal/adapter/repository"
	"github.com/lavanderia/lavanderia-backend/internal/domain/card"
	"github.com/lavanderia/lavanderia-backend/internal/domain/cycle"
	"github.com/lavanderia/lavanderia-backend/internal/domain/machine"
	"github.com/lavanderia/lavanderia-backend/internal/domain/product"
	"github.com/lavanderia/lavanderia-backend/internal/domain/sale"
	"github.com/lavanderia/lavanderia-backend/pkg/logger"
)

func testLogger() logger.Logger {
	return logger.FromZap(zap.NewNop())
}

// recordingNotifier acumula los eventos publicados para inspección
type recordingNotifier struct {
	mu     sync.Mutex
	events []notifier.Event
}

func (n *recordingNotifier) Publish(ctx context.Context, event notifier.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) byType(eventType string) []notifier.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notifier.Event
	for _, e := range n.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type fakeSaleRepo struct {
	mu    sync.Mutex
	sales map[string]*sale.Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: map[string]*sale.Sale{}}
}

func (r *fakeSaleRepo) Create(ctx context.Context, s *sale.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sales[s.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) FindByID(ctx context.Context, id string) (*sale.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, repository.ErrSaleNotFound
	}
	cp := *s
	cp.Products = append([]sale.ProductLine(nil), s.Products...)
	cp.Services = append([]sale.ServiceLine(nil), s.Services...)
	cp.Payments = append([]sale.PaymentMethod(nil), s.Payments...)
	return &cp, nil
}

func (r *fakeSaleRepo) List(ctx context.Context, f sale.Filter, limit, offset int) ([]*sale.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*sale.Sale
	for _, s := range r.sales {
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if f.ExcludeFinalized && s.Status == sale.StatusFinalized {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSaleRepo) Count(ctx context.Context, f sale.Filter) (int, error) {
	list, _ := r.List(ctx, f, 0, 0)
	return len(list), nil
}

func (r *fakeSaleRepo) UpdateStatus(ctx context.Context, id string, status sale.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return repository.ErrSaleNotFound
	}
	now := time.Now().UTC()
	switch status {
	case sale.StatusCompleted:
		s.CompletedAt = &now
	case sale.StatusFinalized:
		s.FinalizedAt = &now
	}
	s.Status = status
	return nil
}

func (r *fakeSaleRepo) UpdateServiceStatus(ctx context.Context, saleID string, index int, status sale.ServiceStatus, startedAt, estimatedEndAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[saleID]
	if !ok {
		return repository.ErrSaleNotFound
	}
	if index < 0 || index >= len(s.Services) {
		return repository.ErrServiceNotFound
	}
	line := &s.Services[index]
	line.Status = status
	if startedAt != nil {
		line.StartedAt = startedAt
	}
	if estimatedEndAt != nil {
		line.EstimatedEndAt = estimatedEndAt
	}
	if status == sale.ServiceCompleted {
		now := time.Now().UTC()
		line.CompletedAt = &now
	}
	return nil
}

func (r *fakeSaleRepo) ActiveExpiredServices(ctx context.Context, now time.Time) ([]sale.ActiveService, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []sale.ActiveService
	for _, s := range r.sales {
		if s.Status == sale.StatusCancelled {
			continue
		}
		for i, line := range s.Services {
			if line.Status != sale.ServiceActive || line.EstimatedEndAt == nil {
				continue
			}
			if line.EstimatedEndAt.After(now) {
				continue
			}
			out = append(out, sale.ActiveService{
				SaleID:         s.ID,
				ServiceIndex:   i,
				MachineID:      line.MachineID,
				ServiceCycleID: line.ServiceCycleID,
				EstimatedEndAt: *line.EstimatedEndAt,
			})
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) Summary(ctx context.Context, from, to time.Time) (*sale.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	summary := &sale.Summary{ByStatus: map[sale.Status]sale.StatusSummary{}}
	for _, s := range r.sales {
		if s.CreatedAt.Before(from) || !s.CreatedAt.Before(to) {
			continue
		}
		summary.TotalSales++
		summary.TotalAmount += s.TotalAmount
		st := summary.ByStatus[s.Status]
		st.Count++
		st.TotalAmount += s.TotalAmount
		summary.ByStatus[s.Status] = st
	}
	return summary, nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*product.Product
}

func newFakeProductRepo(products ...*product.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[string]*product.Product{}}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(ctx context.Context, p *product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id string) (*product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) FindByStore(ctx context.Context, storeID string, limit, offset int) ([]*product.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) DecrementStock(ctx context.Context, id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.Stock < quantity {
		return repository.ErrProductStock
	}
	p.Stock -= quantity
	return nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return nil
}

type fakeCycleRepo struct {
	cycles map[string]*cycle.ServiceCycle
}

func newFakeCycleRepo(cycles ...*cycle.ServiceCycle) *fakeCycleRepo {
	r := &fakeCycleRepo{cycles: map[string]*cycle.ServiceCycle{}}
	for _, c := range cycles {
		r.cycles[c.ID] = c
	}
	return r
}

func (r *fakeCycleRepo) Create(ctx context.Context, c *cycle.ServiceCycle) error {
	r.cycles[c.ID] = c
	return nil
}

func (r *fakeCycleRepo) FindByID(ctx context.Context, id string) (*cycle.ServiceCycle, error) {
	c, ok := r.cycles[id]
	if !ok {
		return nil, repository.ErrCycleNotFound
	}
	return c, nil
}

func (r *fakeCycleRepo) List(ctx context.Context, limit, offset int) ([]*cycle.ServiceCycle, error) {
	return nil, nil
}

func (r *fakeCycleRepo) Update(ctx context.Context, c *cycle.ServiceCycle) error {
	r.cycles[c.ID] = c
	return nil
}

type fakeMachineRepo struct {
	mu       sync.Mutex
	machines map[string]*machine.Machine
}

func newFakeMachineRepo(machines ...*machine.Machine) *fakeMachineRepo {
	r := &fakeMachineRepo{machines: map[string]*machine.Machine{}}
	for _, m := range machines {
		r.machines[m.ID] = m
	}
	return r
}

func (r *fakeMachineRepo) FindByID(ctx context.Context, id string) (*machine.Machine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.machines[id]
	if !ok {
		return nil, repository.ErrMachineNotFound
	}
	cp := *m
	if m.CurrentService != nil {
		cs := *m.CurrentService
		cp.CurrentService = &cs
	}
	return &cp, nil
}

func (r *fakeMachineRepo) FindByStore(ctx context.Context, storeID string, limit, offset int) ([]*machine.Machine, error) {
	return nil, nil
}

func (r *fakeMachineRepo) UpdateOccupancy(ctx context.Context, m *machine.Machine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.machines[m.ID]; !ok {
		return repository.ErrMachineNotFound
	}
	cp := *m
	if m.CurrentService != nil {
		cs := *m.CurrentService
		cp.CurrentService = &cs
	}
	r.machines[m.ID] = &cp
	return nil
}

func (r *fakeMachineRepo) CountByEstado(ctx context.Context, storeID string) (map[machine.Estado]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[machine.Estado]int{}
	for _, m := range r.machines {
		counts[m.Estado]++
	}
	return counts, nil
}

func (r *fakeMachineRepo) get(id string) *machine.Machine {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.machines[id]
}

type fakeCardRepo struct {
	mu    sync.Mutex
	cards map[string]*card.Card
}

func newFakeCardRepo(cards ...*card.Card) *fakeCardRepo {
	r := &fakeCardRepo{cards: map[string]*card.Card{}}
	for _, c := range cards {
		r.cards[c.ID] = c
	}
	return r
}

func (r *fakeCardRepo) Create(ctx context.Context, c *card.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cards[c.ID] = c
	return nil
}

func (r *fakeCardRepo) FindByID(ctx context.Context, id string) (*card.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cards[id]
	if !ok {
		return nil, repository.ErrCardNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCardRepo) FindByNFCUID(ctx context.Context, uid string) (*card.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cards {
		if c.NFCUID == uid && c.IsActive {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrCardNotFound
}

func (r *fakeCardRepo) NFCUIDExists(ctx context.Context, uid string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cards {
		if c.NFCUID == uid {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCardRepo) UpdateBalance(ctx context.Context, c *card.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.cards[c.ID]
	if !ok {
		return repository.ErrCardNotFound
	}
	stored.Balance = c.Balance
	stored.LastUsedAt = c.LastUsedAt
	return nil
}

func (r *fakeCardRepo) UpdateNFC(ctx context.Context, c *card.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.cards[c.ID]
	if !ok {
		return repository.ErrCardNotFound
	}
	stored.NFCUID = c.NFCUID
	stored.IsNFCEnabled = c.IsNFCEnabled
	return nil
}

func (r *fakeCardRepo) balance(id string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cards[id].Balance
}

// fakeDeviceConfig resuelve URLs de dispositivo en memoria
type fakeDeviceConfig struct {
	urls map[string]string
}

func (f *fakeDeviceConfig) DeviceURL(ctx context.Context, esp32ID string) (string, error) {
	url, ok := f.urls[esp32ID]
	if !ok {
		return "", repository.ErrDeviceNotConfigured
	}
	return url, nil
}

// fakeGateway registra los comandos despachados al bridge
type fakeGateway struct {
	mu         sync.Mutex
	startErr   error
	startCalls []string
	stopCalls  []string
}

func (f *fakeGateway) Start(ctx context.Context, deviceURL, machineID string, start, end time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.startCalls = append(f.startCalls, machineID)
	return nil
}

func (f *fakeGateway) Stop(ctx context.Context, deviceURL, machineID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalls = append(f.stopCalls, machineID)
	return nil
}

// fakeReader simula el servicio lector NFC
type fakeReader struct {
	available bool
	statusErr error
	uid       string
	waitErr   error
}

func (f *fakeReader) Status(ctx context.Context) (*nfcreader.ReaderStatus, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &nfcreader.ReaderStatus{Available: f.available, Reader: "ACR122U"}, nil
}

func (f *fakeReader) WaitForCard(ctx context.Context, timeout time.Duration) (string, error) {
	if f.waitErr != nil {
		return "", f.waitErr
	}
	return f.uid, nil
}

// fakeClients resuelve nombres de cliente en memoria
type fakeClients struct {
	names map[string]string
}

func (f *fakeClients) DisplayName(ctx context.Context, clientID string) (string, error) {
	name, ok := f.names[clientID]
	if !ok {
		return "", repository.ErrClientNotFound
	}
	return name, nil
}
