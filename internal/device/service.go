package device

import (
	"context"
	"fmt"
)

// Logger defines the logging interface used by the Service.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Service implements the device catalogue policy on top of a Repository:
// field validation, the default lifecycle state, and the in-use write
// guards. Handlers call the Service and never touch the Repository
// directly.
type Service struct {
	repo   Repository
	logger Logger
}

// NewService creates a new device service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{
		repo:   repo,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the service.
func (s *Service) SetLogger(logger Logger) {
	s.logger = logger
}

// Create validates the payload and stores a new device. When the payload
// omits the state the device starts inactive.
func (s *Service) Create(ctx context.Context, req CreateDeviceRequest) (DeviceResponse, error) {
	if err := validateCreateRequest(req); err != nil {
		return DeviceResponse{}, err
	}
	state, err := resolveState(req.State)
	if err != nil {
		return DeviceResponse{}, err
	}

	device := &Device{
		Name:  req.Name,
		Brand: req.Brand,
		State: state,
	}
	if err := s.repo.Create(ctx, device); err != nil {
		return DeviceResponse{}, err
	}

	s.logger.Info("device created",
		"id", device.ID, "name", device.Name, "brand", device.Brand, "state", device.State)
	return NewDeviceResponse(device), nil
}

// Get retrieves a single device by ID.
func (s *Service) Get(ctx context.Context, id int64) (DeviceResponse, error) {
	device, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return DeviceResponse{}, err
	}
	return NewDeviceResponse(device), nil
}

// List retrieves devices, optionally filtered by exact brand and/or
// lifecycle state. An empty catalogue yields an empty slice, never nil.
func (s *Service) List(ctx context.Context, brand string, state *State) ([]DeviceResponse, error) {
	var (
		devices []Device
		err     error
	)
	switch {
	case brand != "" && state != nil:
		devices, err = s.repo.ListByBrandAndState(ctx, brand, *state)
	case brand != "":
		devices, err = s.repo.ListByBrand(ctx, brand)
	case state != nil:
		devices, err = s.repo.ListByState(ctx, *state)
	default:
		devices, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	return NewDeviceResponses(devices), nil
}

// Replace overwrites every mutable field of an existing device with the
// payload. A device that is currently in use rejects the replace outright,
// even when the payload repeats the stored values. The creation timestamp
// always survives.
func (s *Service) Replace(ctx context.Context, id int64, req CreateDeviceRequest) (DeviceResponse, error) {
	if err := validateCreateRequest(req); err != nil {
		return DeviceResponse{}, err
	}
	state, err := resolveState(req.State)
	if err != nil {
		return DeviceResponse{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return DeviceResponse{}, err
	}
	if existing.State == StateInUse {
		return DeviceResponse{}, fmt.Errorf("replacing device %d: %w", id, ErrInUse)
	}

	updated := &Device{
		ID:        id,
		Name:      req.Name,
		Brand:     req.Brand,
		State:     state,
		CreatedAt: existing.CreatedAt,
	}
	if err := s.repo.Update(ctx, updated); err != nil {
		return DeviceResponse{}, err
	}

	s.logger.Info("device replaced",
		"id", updated.ID, "name", updated.Name, "brand", updated.Brand, "state", updated.State)
	return NewDeviceResponse(updated), nil
}

// PartialUpdate merges the present fields of the payload into the stored
// device. While a device is in use its name and brand are frozen: a payload
// carrying either field is rejected before anything is parsed or written.
// State transitions remain allowed, which is how a device leaves the in-use
// state.
func (s *Service) PartialUpdate(ctx context.Context, id int64, req PartialUpdateDeviceRequest) (DeviceResponse, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return DeviceResponse{}, err
	}
	if existing.State == StateInUse && (req.Name != nil || req.Brand != nil) {
		return DeviceResponse{}, fmt.Errorf("updating device %d: %w", id, ErrInUse)
	}

	merged := *existing
	if req.Name != nil {
		merged.Name = *req.Name
	}
	if req.Brand != nil {
		merged.Brand = *req.Brand
	}
	if req.State != nil {
		state, err := ParseState(*req.State)
		if err != nil {
			return DeviceResponse{}, err
		}
		merged.State = state
	}

	if err := s.repo.Update(ctx, &merged); err != nil {
		return DeviceResponse{}, err
	}

	s.logger.Info("device updated",
		"id", merged.ID, "name", merged.Name, "brand", merged.Brand, "state", merged.State)
	return NewDeviceResponse(&merged), nil
}

// Delete removes a device. A device that is currently in use cannot be
// deleted.
func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.State == StateInUse {
		return fmt.Errorf("deleting device %d: %w", id, ErrInUse)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("device deleted", "id", id)
	return nil
}
