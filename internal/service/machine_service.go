package service

import (
	"context"
	"errors"
	"time"

	"github.com/lavanderia/lavanderia-backend/internal/adapter/notifier"
	"github.com/lavanderia/lavanderia-backend/internal/adapter/repository"
	"github.com/lavanderia/lavanderia-backend/internal/domain/machine"
	"github.com/lavanderia/lavanderia-backend/pkg/logger"
)

// DeviceGateway despacha comandos físicos de arranque y parada al bridge
// de máquinas
type DeviceGateway interface {
	Start(ctx context.Context, deviceURL, machineID string, start, end time.Time) error
	Stop(ctx context.Context, deviceURL, machineID string) error
}

// DeviceConfig resuelve la URL del controlador físico de una máquina
type DeviceConfig interface {
	DeviceURL(ctx context.Context, esp32ID string) (string, error)
}

// MachineService implementa el ciclo de vida de ocupación de máquinas:
// disponible → ocupada(pendiente) → ocupada(activa) → disponible.
// El estado mantenimiento lo maneja el operador, no este servicio.
type MachineService struct {
	machines machine.Repository
	devices  DeviceConfig
	gateway  DeviceGateway
	notifier notifier.Notifier
	logger   logger.Logger
}

// NewMachineService crea una nueva instancia de MachineService
func NewMachineService(machines machine.Repository, devices DeviceConfig, gateway DeviceGateway, n notifier.Notifier, l logger.Logger) *MachineService {
	return &MachineService{machines: machines, devices: devices, gateway: gateway, notifier: n, logger: l}
}

// Get busca una máquina por ID
func (s *MachineService) Get(ctx context.Context, machineID string) (*machine.Machine, error) {
	m, err := s.machines.FindByID(ctx, machineID)
	if err != nil {
		if errors.Is(err, repository.ErrMachineNotFound) {
			return nil, WrapError(KindNotFound, "máquina no encontrada", err)
		}
		return nil, WrapError(KindInternal, "error al buscar máquina", err)
	}
	return m, nil
}

// MarkOccupied marca la máquina como ocupada con el stub del servicio,
// sin timestamps. El arranque físico ocurre después, en la activación.
func (s *MachineService) MarkOccupied(ctx context.Context, m *machine.Machine, saleID string, serviceIndex int, cycleID string) error {
	m.Occupy(saleID, serviceIndex, cycleID)
	if err := s.machines.UpdateOccupancy(ctx, m); err != nil {
		return WrapError(KindInternal, "error al ocupar máquina", err)
	}
	s.notifier.Publish(ctx, notifier.NewEvent(notifier.EventMachineUpdated, map[string]interface{}{
		"machine_id": m.ID,
		"estado":     m.Estado,
		"sale_id":    saleID,
	}))
	return nil
}

// Activate despacha el arranque físico del servicio actual de la máquina.
// Solo tras el éxito del bridge escribe los timestamps de inicio y fin
// estimado. Falla rápido si la máquina no tiene controlador configurado.
func (s *MachineService) Activate(ctx context.Context, machineID string, duration time.Duration) (time.Time, time.Time, error) {
	var zero time.Time

	m, err := s.Get(ctx, machineID)
	if err != nil {
		return zero, zero, err
	}
	if m.CurrentService == nil {
		return zero, zero, WrapError(KindBusiness, "máquina sin servicio asignado", machine.ErrNotOccupied)
	}
	if !m.HasDevice() {
		return zero, zero, WrapError(KindActivationFailed, "máquina sin controlador configurado", machine.ErrNoDevice)
	}

	deviceURL, err := s.devices.DeviceURL(ctx, m.ESP32ID)
	if err != nil {
		return zero, zero, WrapError(KindActivationFailed, "no se pudo resolver la URL del dispositivo", err)
	}

	start := time.Now().UTC()
	end := start.Add(duration)
	if err := s.gateway.Start(ctx, deviceURL, m.ID, start, end); err != nil {
		return zero, zero, WrapError(KindActivationFailed, "el dispositivo no pudo arrancar el ciclo", err)
	}

	if err := m.ActivateService(start, end); err != nil {
		return zero, zero, WrapError(KindBusiness, "máquina sin servicio asignado", err)
	}
	if err := s.machines.UpdateOccupancy(ctx, m); err != nil {
		return zero, zero, WrapError(KindInternal, "error al persistir activación de máquina", err)
	}

	s.notifier.Publish(ctx, notifier.NewEvent(notifier.EventMachineUpdated, map[string]interface{}{
		"machine_id":       m.ID,
		"estado":           m.Estado,
		"started_at":       start,
		"estimated_end_at": end,
	}))
	return start, end, nil
}

// Release libera la máquina sin condiciones. La parada física es best
// effort: si el bridge falla se registra y la liberación continúa.
func (s *MachineService) Release(ctx context.Context, machineID string) error {
	m, err := s.Get(ctx, machineID)
	if err != nil {
		return err
	}

	if m.HasDevice() {
		if deviceURL, derr := s.devices.DeviceURL(ctx, m.ESP32ID); derr != nil {
			s.logger.Warn("no se pudo resolver URL del dispositivo al liberar", "machine_id", m.ID, "error", derr)
		} else if serr := s.gateway.Stop(ctx, deviceURL, m.ID); serr != nil {
			s.logger.Warn("fallo la parada física al liberar máquina", "machine_id", m.ID, "error", serr)
		}
	}

	m.Release()
	if err := s.machines.UpdateOccupancy(ctx, m); err != nil {
		return WrapError(KindInternal, "error al liberar máquina", err)
	}

	s.notifier.Publish(ctx, notifier.NewEvent(notifier.EventMachineUpdated, map[string]interface{}{
		"machine_id": m.ID,
		"estado":     m.Estado,
	}))
	return nil
}

// Revert limpia la ocupación de una máquina cuya activación falló. No
// despacha parada física porque el arranque nunca ocurrió.
func (s *MachineService) Revert(ctx context.Context, machineID string) error {
	m, err := s.Get(ctx, machineID)
	if err != nil {
		return err
	}
	m.Release()
	if err := s.machines.UpdateOccupancy(ctx, m); err != nil {
		return WrapError(KindInternal, "error al revertir ocupación de máquina", err)
	}
	return nil
}

// CountByEstado cuenta las máquinas de una tienda por estado operativo
func (s *MachineService) CountByEstado(ctx context.Context, storeID string) (map[machine.Estado]int, error) {
	counts, err := s.machines.CountByEstado(ctx, storeID)
	if err != nil {
		return nil, WrapError(KindInternal, "error al contar máquinas", err)
	}
	return counts, nil
}
