package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/RomanHreits/devices-api/internal/device"
)

func strPtr(s string) *string {
	return &s
}

// seedDevices inserts one device per lifecycle state and returns them by
// state for convenience.
func seedDevices(t *testing.T, svc *device.Service) (available, inUse, inactive device.DeviceResponse) {
	t.Helper()
	ctx := context.Background()

	var err error
	available, err = svc.Create(ctx, device.CreateDeviceRequest{
		Name: "Thermostat", Brand: "Acme", State: strPtr("available"),
	})
	if err != nil {
		t.Fatalf("seeding available device: %v", err)
	}
	inUse, err = svc.Create(ctx, device.CreateDeviceRequest{
		Name: "Camera", Brand: "Acme", State: strPtr("in-use"),
	})
	if err != nil {
		t.Fatalf("seeding in-use device: %v", err)
	}
	inactive, err = svc.Create(ctx, device.CreateDeviceRequest{
		Name: "Doorbell", Brand: "Globex", State: strPtr("inactive"),
	})
	if err != nil {
		t.Fatalf("seeding inactive device: %v", err)
	}
	return available, inUse, inactive
}

// decodeDevice unmarshals a response body into a DeviceResponse.
func decodeDevice(t *testing.T, rec *httptest.ResponseRecorder) device.DeviceResponse {
	t.Helper()
	var resp device.DeviceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding device response %q: %v", rec.Body.String(), err)
	}
	return resp
}

// decodeError unmarshals a response body into an Error.
func decodeError(t *testing.T, rec *httptest.ResponseRecorder) Error {
	t.Helper()
	var resp Error
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error response %q: %v", rec.Body.String(), err)
	}
	if resp.Message == "" {
		t.Errorf("error response has empty message: %s", rec.Body.String())
	}
	return resp
}

func TestCreateDevice(t *testing.T) {
	srv, _ := testServer(t)

	t.Run("minimal payload defaults to inactive", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/devices",
			`{"name":"Sensor","brand":"Initech"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
		}
		resp := decodeDevice(t, rec)
		if resp.ID == 0 {
			t.Error("created device has no id")
		}
		if resp.State != "inactive" {
			t.Errorf("state = %q, want inactive", resp.State)
		}
		if resp.CreatedAt == nil || *resp.CreatedAt == "" {
			t.Error("created device has no createdAt")
		}
	})

	t.Run("explicit state is honoured", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/devices",
			`{"name":"Switch","brand":"Initech","state":"AVAILABLE"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
		}
		if resp := decodeDevice(t, rec); resp.State != "available" {
			t.Errorf("state = %q, want canonical available", resp.State)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/devices", `{"brand":"Initech"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		resp := decodeError(t, rec)
		if resp.Message != "Validation failed" {
			t.Errorf("message = %q, want Validation failed", resp.Message)
		}
		if !strings.Contains(resp.Details, "name") {
			t.Errorf("details %q does not mention name", resp.Details)
		}
	})

	t.Run("unknown state token", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/devices",
			`{"name":"Hub","brand":"Initech","state":"broken"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if resp := decodeError(t, rec); !strings.Contains(resp.Details, "broken") {
			t.Errorf("details %q does not name the bad token", resp.Details)
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/devices", `{"name":`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("duplicate name and brand", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/devices",
			`{"name":"Sensor","brand":"Initech"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409: %s", rec.Code, rec.Body.String())
		}
		resp := decodeError(t, rec)
		if resp.Message != "Database constraint violation" {
			t.Errorf("message = %q, want Database constraint violation", resp.Message)
		}
		if !strings.Contains(resp.Details, "already exists") {
			t.Errorf("details %q does not explain the conflict", resp.Details)
		}
	})
}

func TestGetDevice(t *testing.T) {
	srv, svc := testServer(t)
	available, _, _ := seedDevices(t, svc)

	t.Run("existing device", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, fmt.Sprintf("/devices/%d", available.ID), "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		resp := decodeDevice(t, rec)
		if resp.ID != available.ID || resp.Name != "Thermostat" {
			t.Errorf("unexpected device: %+v", resp)
		}
	})

	t.Run("missing device", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/devices/9999", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
		resp := decodeError(t, rec)
		if resp.Message != "Resource not found" {
			t.Errorf("message = %q, want Resource not found", resp.Message)
		}
		if !strings.Contains(resp.Details, "9999") {
			t.Errorf("details %q does not mention the id", resp.Details)
		}
	})

	t.Run("non-numeric id", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/devices/abc", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestListDevices(t *testing.T) {
	t.Run("empty catalogue returns empty array", func(t *testing.T) {
		srv, _ := testServer(t)
		rec := doRequest(t, srv, http.MethodGet, "/devices", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
			t.Errorf("empty list body = %q, want []", got)
		}
	})

	srv, svc := testServer(t)
	seedDevices(t, svc)

	listLen := func(t *testing.T, path string) int {
		t.Helper()
		rec := doRequest(t, srv, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d, want 200: %s", path, rec.Code, rec.Body.String())
		}
		var resp []device.DeviceResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding list: %v", err)
		}
		return len(resp)
	}

	t.Run("all devices", func(t *testing.T) {
		if got := listLen(t, "/devices"); got != 3 {
			t.Errorf("list length = %d, want 3", got)
		}
	})

	t.Run("brand filter", func(t *testing.T) {
		if got := listLen(t, "/devices?brand=Acme"); got != 2 {
			t.Errorf("list length = %d, want 2", got)
		}
	})

	t.Run("brand filter is case-sensitive", func(t *testing.T) {
		if got := listLen(t, "/devices?brand=acme"); got != 0 {
			t.Errorf("list length = %d, want 0", got)
		}
	})

	t.Run("state filter", func(t *testing.T) {
		if got := listLen(t, "/devices?state=in-use"); got != 1 {
			t.Errorf("list length = %d, want 1", got)
		}
	})

	t.Run("state filter is case-insensitive", func(t *testing.T) {
		if got := listLen(t, "/devices?state=IN-USE"); got != 1 {
			t.Errorf("list length = %d, want 1", got)
		}
	})

	t.Run("combined filters", func(t *testing.T) {
		if got := listLen(t, "/devices?brand=Acme&state=available"); got != 1 {
			t.Errorf("list length = %d, want 1", got)
		}
	})

	t.Run("invalid state filter", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/devices?state=bogus", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if resp := decodeError(t, rec); resp.Message != "Validation failed" {
			t.Errorf("message = %q, want Validation failed", resp.Message)
		}
	})
}

func TestReplaceDevice(t *testing.T) {
	srv, svc := testServer(t)
	available, inUse, _ := seedDevices(t, svc)

	t.Run("replaces fields and preserves createdAt", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPut, fmt.Sprintf("/devices/%d", available.ID),
			`{"name":"Thermostat v2","brand":"Globex","state":"available"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		resp := decodeDevice(t, rec)
		if resp.Name != "Thermostat v2" || resp.Brand != "Globex" {
			t.Errorf("replace not applied: %+v", resp)
		}
		if resp.CreatedAt == nil || *resp.CreatedAt != *available.CreatedAt {
			t.Errorf("createdAt changed: %v, want %v", resp.CreatedAt, available.CreatedAt)
		}
	})

	t.Run("validation failure", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPut, fmt.Sprintf("/devices/%d", available.ID),
			`{"brand":"Globex"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing device", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPut, "/devices/9999",
			`{"name":"Ghost","brand":"Acme"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("in-use device is blocked", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPut, fmt.Sprintf("/devices/%d", inUse.ID),
			`{"name":"Camera","brand":"Acme","state":"in-use"}`)
		if rec.Code != http.StatusLocked {
			t.Fatalf("status = %d, want 423: %s", rec.Code, rec.Body.String())
		}
		resp := decodeError(t, rec)
		if resp.Message != "Resource is blocked" {
			t.Errorf("message = %q, want Resource is blocked", resp.Message)
		}
		if resp.Details != detailReplaceInUse {
			t.Errorf("details = %q, want %q", resp.Details, detailReplaceInUse)
		}
	})

	t.Run("duplicate name and brand", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPut, fmt.Sprintf("/devices/%d", available.ID),
			`{"name":"Doorbell","brand":"Globex"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestPatchDevice(t *testing.T) {
	srv, svc := testServer(t)
	available, inUse, _ := seedDevices(t, svc)

	t.Run("merges only present fields", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPatch, fmt.Sprintf("/devices/%d", available.ID),
			`{"name":"Thermostat Pro"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		resp := decodeDevice(t, rec)
		if resp.Name != "Thermostat Pro" {
			t.Errorf("name = %q, want Thermostat Pro", resp.Name)
		}
		if resp.Brand != "Acme" || resp.State != "available" {
			t.Errorf("absent fields changed: %+v", resp)
		}
	})

	t.Run("name change on in-use device is blocked", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPatch, fmt.Sprintf("/devices/%d", inUse.ID),
			`{"name":"Camera v2"}`)
		if rec.Code != http.StatusLocked {
			t.Fatalf("status = %d, want 423: %s", rec.Code, rec.Body.String())
		}
		if resp := decodeError(t, rec); resp.Details != detailPatchInUse {
			t.Errorf("details = %q, want %q", resp.Details, detailPatchInUse)
		}
	})

	t.Run("idempotent in-use move is allowed", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPatch, fmt.Sprintf("/devices/%d", inUse.ID),
			`{"state":"in-use"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		if resp := decodeDevice(t, rec); resp.State != "in-use" {
			t.Errorf("state = %q, want in-use", resp.State)
		}
	})

	t.Run("state transition on in-use device is allowed", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPatch, fmt.Sprintf("/devices/%d", inUse.ID),
			`{"state":"available"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		if resp := decodeDevice(t, rec); resp.State != "available" {
			t.Errorf("state = %q, want available", resp.State)
		}
	})

	t.Run("invalid state token", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPatch, fmt.Sprintf("/devices/%d", available.ID),
			`{"state":"in_used"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if resp := decodeError(t, rec); !strings.Contains(resp.Details, "in_used") {
			t.Errorf("details %q does not name the bad token", resp.Details)
		}
	})

	t.Run("missing device", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPatch, "/devices/9999", `{"name":"Ghost"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestDeleteDevice(t *testing.T) {
	srv, svc := testServer(t)
	available, inUse, _ := seedDevices(t, svc)

	t.Run("in-use device is blocked", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodDelete, fmt.Sprintf("/devices/%d", inUse.ID), "")
		if rec.Code != http.StatusLocked {
			t.Fatalf("status = %d, want 423: %s", rec.Code, rec.Body.String())
		}
		if resp := decodeError(t, rec); resp.Details != detailDeleteInUse {
			t.Errorf("details = %q, want %q", resp.Details, detailDeleteInUse)
		}
	})

	t.Run("existing device", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodDelete, fmt.Sprintf("/devices/%d", available.ID), "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204: %s", rec.Code, rec.Body.String())
		}
		if rec.Body.Len() != 0 {
			t.Errorf("delete response has body: %q", rec.Body.String())
		}

		rec = doRequest(t, srv, http.MethodGet, fmt.Sprintf("/devices/%d", available.ID), "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("deleted device still retrievable: %d", rec.Code)
		}
	})

	t.Run("missing device", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodDelete, "/devices/9999", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}
