package mlagent

import "fmt"

// Facet identifies one of the agent's three service surfaces. Each facet
// has its own object path and interface on the bus; the client routes every
// operation to the facet that owns it.
type Facet int

const (
	FacetPipeline Facet = iota
	FacetModel
	FacetResource
)

// String returns the facet name as it appears on the wire.
func (f Facet) String() string {
	switch f {
	case FacetPipeline:
		return "Pipeline"
	case FacetModel:
		return "Model"
	case FacetResource:
		return "Resource"
	default:
		return fmt.Sprintf("Facet(%d)", int(f))
	}
}

// Scope selects which bus scopes the client binds through. The agent may
// live on the system bus or on a session bus depending on provisioning;
// ScopeAuto follows the standard fallback order and is the right choice
// almost everywhere. The single-scope values pin binding to one bus for
// development setups and tests against a private bus.
type Scope int

const (
	ScopeAuto Scope = iota // system bus first, then session bus
	ScopeSystem
	ScopeSession
)

// String returns the scope name.
func (s Scope) String() string {
	switch s {
	case ScopeAuto:
		return "auto"
	case ScopeSystem:
		return "system"
	case ScopeSession:
		return "session"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// PipelineState is the lifecycle state of a launched pipeline instance, as
// reported by the agent.
type PipelineState int32

const (
	StateUnknown PipelineState = iota
	StateNull
	StateReady
	StatePaused
	StatePlaying
)

// String returns the state name.
func (s PipelineState) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateNull:
		return "null"
	case StateReady:
		return "ready"
	case StatePaused:
		return "paused"
	case StatePlaying:
		return "playing"
	default:
		return fmt.Sprintf("PipelineState(%d)", int32(s))
	}
}

// RegisterModelRequest carries the arguments for Client.RegisterModel.
// Description and AppInfo are optional; empty values are marshaled as empty
// strings because the agent requires a value in every call slot.
type RegisterModelRequest struct {
	// Name is the model's registry key.
	Name string

	// Path locates the model file.
	Path string

	// Activate marks the new version active immediately.
	Activate bool

	// Description is free-form metadata stored with the version.
	Description string

	// AppInfo is the packaging context document for the model, produced by
	// the installing application. Stored and returned verbatim.
	AppInfo string
}

// AddResourceRequest carries the arguments for Client.AddResource.
// Description and AppInfo are optional, as in RegisterModelRequest.
type AddResourceRequest struct {
	// Name is the resource's registry key.
	Name string

	// Path locates the resource.
	Path string

	// Description is free-form metadata stored with the resource.
	Description string

	// AppInfo is the packaging context document for the resource.
	AppInfo string
}
