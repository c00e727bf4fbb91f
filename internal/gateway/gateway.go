// Package gateway abstracts the persistence backend behind a single
// operation-call interface. Two transports implement it: Remote proxies every
// call to an external HTTP endpoint, Local executes the same operations
// against the embedded database. Services never know which one they talk to.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
)

// Operation names understood by every transport.
const (
	OpGetAllProjects   = "getAllProjects"
	OpSaveProject      = "saveProject"
	OpDeleteProject    = "deleteProject"
	OpGetAllCutRecords = "getAllCutRecords"
	OpAddCutRecord     = "addCutRecord"
	OpUpdateCutRecord  = "updateCutRecord"
	OpDeleteRecord     = "deleteRecord"
	OpAuthenticateUser = "authenticateUser"
	OpGetAllUsers      = "getAllUsers"
	OpAddUser          = "addUser"
	OpDeleteUser       = "deleteUser"
	OpGetAllWorkers    = "getAllWorkers"
	OpSaveWorker       = "saveWorker"
	OpDeleteWorker     = "deleteWorker"
	OpGetNetworkDefs   = "getNetworkDefinitions"
	OpSaveNetworkDef   = "saveNetworkDefinition"
	OpDeleteNetworkDef = "deleteNetworkDefinition"
	OpGetDashboardData = "getDashboardData"
)

var (
	ErrUnknownOperation = errors.New("unknown gateway operation")
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateWBS     = errors.New("a project with this WBS already exists")
	ErrBadCredentials   = errors.New("invalid username or password")
)

// Gateway executes one named backend operation with positional arguments and
// returns the raw JSON payload of the result.
type Gateway interface {
	Invoke(ctx context.Context, op string, args ...any) (json.RawMessage, error)
}

// Call invokes op and decodes the payload into out. A nil out discards the
// payload, which doubles as a connectivity probe.
func Call(ctx context.Context, gw Gateway, op string, out any, args ...any) error {
	raw, err := gw.Invoke(ctx, op, args...)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
