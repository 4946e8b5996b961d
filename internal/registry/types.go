package registry

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("program manifest not found")

// Route selects which client code path serves a program.
type Route string

const (
	// RouteGenerated uses a hand-maintained typed client for the program.
	RouteGenerated Route = "generated"
	// RouteDynamic encodes instructions from the program's loaded schema.
	RouteDynamic Route = "dynamic"
)

func (r Route) Valid() bool {
	return r == RouteGenerated || r == RouteDynamic
}

// Manifest records the routing decision for one on-chain program.
type Manifest struct {
	ProgramID     string    `json:"program_id"`
	Name          string    `json:"name"`
	Route         Route     `json:"route"`
	ClientVersion string    `json:"client_version,omitempty"`
	Priority      int       `json:"priority"`
	Enabled       bool      `json:"enabled"`
	UpdatedAt     time.Time `json:"updated_at"`
}
