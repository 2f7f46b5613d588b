package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/RomanHreits/devices-api/internal/device"
)

// detail messages for write guard rejections.
const (
	detailReplaceInUse = "Cannot update a device that is currently IN_USE"
	detailPatchInUse   = "Cannot update brand or name of a device that is currently IN_USE"
	detailDeleteInUse  = "Cannot delete a device that is currently IN_USE"
	detailDuplicate    = "Device with the same name and brand already exists"
)

// deviceID extracts and parses the {id} route parameter. A non-numeric
// segment means no device can match, so the caller treats it as not found.
func deviceID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// notFoundDetails builds the standard not-found detail for an ID.
func notFoundDetails(raw string) string {
	return fmt.Sprintf("Device not found with id: %s", raw)
}

// handleListDevices returns all devices, with optional query filters.
//
// Query parameters:
//   - brand: exact brand match
//   - state: lifecycle state (available, in-use, inactive; case-insensitive)
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	brand := r.URL.Query().Get("brand")

	var state *device.State
	if raw := r.URL.Query().Get("state"); raw != "" {
		parsed, err := device.ParseState(raw)
		if err != nil {
			writeValidationFailed(w, err.Error())
			return
		}
		state = &parsed
	}

	devices, err := s.service.List(r.Context(), brand, state)
	if err != nil {
		s.logger.Error("failed to list devices", "error", err)
		writeInternalError(w, "failed to list devices")
		return
	}
	writeJSON(w, http.StatusOK, devices)
}

// handleGetDevice returns a single device by ID.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id, err := deviceID(r)
	if err != nil {
		writeNotFound(w, notFoundDetails(chi.URLParam(r, "id")))
		return
	}

	resp, err := s.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, device.ErrNotFound) {
			writeNotFound(w, notFoundDetails(chi.URLParam(r, "id")))
			return
		}
		s.logger.Error("failed to get device", "id", id, "error", err)
		writeInternalError(w, "failed to get device")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCreateDevice creates a new device from the request body.
func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var req device.CreateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationFailed(w, "invalid JSON body: "+err.Error())
		return
	}

	resp, err := s.service.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, device.ErrValidation), errors.Is(err, device.ErrInvalidState):
			writeValidationFailed(w, err.Error())
		case errors.Is(err, device.ErrDuplicate):
			writeConflict(w, detailDuplicate)
		default:
			s.logger.Error("failed to create device", "error", err)
			writeInternalError(w, "failed to create device")
		}
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleReplaceDevice replaces every mutable field of an existing device.
func (s *Server) handleReplaceDevice(w http.ResponseWriter, r *http.Request) {
	id, err := deviceID(r)
	if err != nil {
		writeNotFound(w, notFoundDetails(chi.URLParam(r, "id")))
		return
	}

	var req device.CreateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationFailed(w, "invalid JSON body: "+err.Error())
		return
	}

	resp, err := s.service.Replace(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, device.ErrValidation), errors.Is(err, device.ErrInvalidState):
			writeValidationFailed(w, err.Error())
		case errors.Is(err, device.ErrNotFound):
			writeNotFound(w, notFoundDetails(chi.URLParam(r, "id")))
		case errors.Is(err, device.ErrInUse):
			writeBlocked(w, detailReplaceInUse)
		case errors.Is(err, device.ErrDuplicate):
			writeConflict(w, detailDuplicate)
		default:
			s.logger.Error("failed to replace device", "id", id, "error", err)
			writeInternalError(w, "failed to replace device")
		}
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handlePatchDevice merges the present fields of the body into an existing
// device.
func (s *Server) handlePatchDevice(w http.ResponseWriter, r *http.Request) {
	id, err := deviceID(r)
	if err != nil {
		writeNotFound(w, notFoundDetails(chi.URLParam(r, "id")))
		return
	}

	var req device.PartialUpdateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationFailed(w, "invalid JSON body: "+err.Error())
		return
	}

	resp, err := s.service.PartialUpdate(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, device.ErrInvalidState):
			writeValidationFailed(w, err.Error())
		case errors.Is(err, device.ErrNotFound):
			writeNotFound(w, notFoundDetails(chi.URLParam(r, "id")))
		case errors.Is(err, device.ErrInUse):
			writeBlocked(w, detailPatchInUse)
		case errors.Is(err, device.ErrDuplicate):
			writeConflict(w, detailDuplicate)
		default:
			s.logger.Error("failed to update device", "id", id, "error", err)
			writeInternalError(w, "failed to update device")
		}
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleDeleteDevice removes a device. A successful delete returns 204 with
// no body.
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id, err := deviceID(r)
	if err != nil {
		writeNotFound(w, notFoundDetails(chi.URLParam(r, "id")))
		return
	}

	if err := s.service.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, device.ErrNotFound):
			writeNotFound(w, notFoundDetails(chi.URLParam(r, "id")))
		case errors.Is(err, device.ErrInUse):
			writeBlocked(w, detailDeleteInUse)
		default:
			s.logger.Error("failed to delete device", "id", id, "error", err)
			writeInternalError(w, "failed to delete device")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
