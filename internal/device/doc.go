// Package device implements the device catalogue: the Device entity and
// its three-state lifecycle, request validation, and the persistence layer.
//
// The package is organised in two layers. Repository is the persistence
// interface with SQLite and PostgreSQL implementations; both translate
// driver errors into the package's sentinel errors so callers never see a
// driver type. Service sits above it and owns the catalogue policy: the
// (name, brand) uniqueness contract, the inactive default for new devices,
// and the write guards that freeze a device while it is in use.
//
// Errors are classified with errors.Is against the sentinels in errors.go;
// the HTTP layer maps each sentinel to a status code.
package device
