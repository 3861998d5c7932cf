// mockagent is an in-memory stand-in for the on-device ML agent.
//
// Usage (run from the repo root):
//
//	go run scripts/mockagent/main.go
//
// Claims the agent's well-known name on the session bus, exports the three
// facets over an in-memory store, and answers introspection with the
// embedded interface definition. Lets mlagentctl and smoke tests run
// without the real daemon:
//
//	MLAGENT_BUS=session mlagentctl status
//
// MLAGENT_BUS_NAME overrides the claimed name, matching the client's
// override. State lives in process memory and is lost on exit.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/ainori-ai/mlagent/api"
	"github.com/ainori-ai/mlagent/internal/bus"
)

const (
	pathPipeline  = "/ai/ainori/MLAgent/Pipeline"
	pathModel     = "/ai/ainori/MLAgent/Model"
	pathResource  = "/ai/ainori/MLAgent/Resource"
	ifacePipeline = "ai.ainori.MLAgent.Pipeline"
	ifaceModel    = "ai.ainori.MLAgent.Model"
	ifaceResource = "ai.ainori.MLAgent.Resource"

	introspectIface = "org.freedesktop.DBus.Introspectable"
)

// Status codes mirror the real agent's errno convention.
const (
	statusOK       int32 = 0
	statusInvalid  int32 = -22 // EINVAL
	statusNotFound int32 = -2  // ENOENT
	statusBusy     int32 = -16 // EBUSY
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	busName := bus.DefaultBusName
	if v := os.Getenv("MLAGENT_BUS_NAME"); v != "" {
		busName = v
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("connect session bus: %w", err)
	}
	defer conn.Close()

	reply, err := conn.RequestName(busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("request name %s: %w", busName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("name %s is already owned", busName)
	}
	defer func() { _, _ = conn.ReleaseName(busName) }()

	st := newStore()
	node := introspect.Introspectable(api.IntrospectXML)

	exports := []struct {
		v     any
		path  dbus.ObjectPath
		iface string
	}{
		{&pipelineFacet{st: st}, pathPipeline, ifacePipeline},
		{&modelFacet{st: st}, pathModel, ifaceModel},
		{&resourceFacet{st: st}, pathResource, ifaceResource},
		{node, pathPipeline, introspectIface},
		{node, pathModel, introspectIface},
		{node, pathResource, introspectIface},
	}
	for _, e := range exports {
		if err := conn.Export(e.v, e.path, e.iface); err != nil {
			return fmt.Errorf("export %s on %s: %w", e.iface, e.path, err)
		}
	}

	logger.Info("mock agent ready", "bus", "session", "name", busName)
	<-ctx.Done()
	logger.Info("mock agent stopped")
	return nil
}

// ── In-memory store ─────────────────────────────────────────────────────────

type instance struct {
	description string
	state       int32
}

type modelRecord struct {
	Name        string `json:"name"`
	Version     uint32 `json:"version"`
	Path        string `json:"path"`
	Description string `json:"description"`
	Active      string `json:"active"` // "T" or "F"
	AppInfo     string `json:"app_info"`
}

type resourceRecord struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Description string `json:"description"`
	AppInfo     string `json:"app_info"`
}

type store struct {
	mu sync.Mutex

	pipelines map[string]string
	instances map[int64]*instance
	nextID    int64

	models    map[string]map[uint32]*modelRecord
	resources map[string][]resourceRecord
}

func newStore() *store {
	return &store{
		pipelines: make(map[string]string),
		instances: make(map[int64]*instance),
		nextID:    1,
		models:    make(map[string]map[uint32]*modelRecord),
		resources: make(map[string][]resourceRecord),
	}
}

// Pipeline instance states, in the agent's numbering.
const (
	stateReady   int32 = 2
	statePaused  int32 = 3
	statePlaying int32 = 4
)

// ── Pipeline facet ──────────────────────────────────────────────────────────

type pipelineFacet struct {
	st *store
}

func (f *pipelineFacet) SetPipeline(name, description string) (int32, *dbus.Error) {
	if name == "" || description == "" {
		return statusInvalid, nil
	}
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	f.st.pipelines[name] = description
	return statusOK, nil
}

func (f *pipelineFacet) GetPipeline(name string) (int32, string, *dbus.Error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	desc, ok := f.st.pipelines[name]
	if !ok {
		return statusNotFound, "", nil
	}
	return statusOK, desc, nil
}

func (f *pipelineFacet) DeletePipeline(name string) (int32, *dbus.Error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if _, ok := f.st.pipelines[name]; !ok {
		return statusNotFound, nil
	}
	delete(f.st.pipelines, name)
	return statusOK, nil
}

func (f *pipelineFacet) LaunchPipeline(name string) (int32, int64, *dbus.Error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	desc, ok := f.st.pipelines[name]
	if !ok {
		return statusNotFound, 0, nil
	}
	id := f.st.nextID
	f.st.nextID++
	f.st.instances[id] = &instance{description: desc, state: stateReady}
	return statusOK, id, nil
}

func (f *pipelineFacet) StartPipeline(id int64) (int32, *dbus.Error) {
	return f.setState(id, statePlaying)
}

func (f *pipelineFacet) StopPipeline(id int64) (int32, *dbus.Error) {
	return f.setState(id, statePaused)
}

func (f *pipelineFacet) DestroyPipeline(id int64) (int32, *dbus.Error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if _, ok := f.st.instances[id]; !ok {
		return statusNotFound, nil
	}
	delete(f.st.instances, id)
	return statusOK, nil
}

func (f *pipelineFacet) GetState(id int64) (int32, int32, *dbus.Error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	inst, ok := f.st.instances[id]
	if !ok {
		return statusNotFound, 0, nil
	}
	return statusOK, inst.state, nil
}

func (f *pipelineFacet) setState(id int64, state int32) (int32, *dbus.Error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	inst, ok := f.st.instances[id]
	if !ok {
		return statusNotFound, nil
	}
	inst.state = state
	return statusOK, nil
}

// ── Model facet ─────────────────────────────────────────────────────────────

type modelFacet struct {
	st *store
}

func (f *modelFacet) Register(name, path string, activate bool, description, appInfo string) (int32, uint32, *dbus.Error) {
	if name == "" || path == "" {
		return statusInvalid, 0, nil
	}
	f.st.mu.Lock()
	defer f.st.mu.Unlock()

	versions := f.st.models[name]
	if versions == nil {
		versions = make(map[uint32]*modelRecord)
		f.st.models[name] = versions
	}
	var next uint32 = 1
	for v := range versions {
		if v >= next {
			next = v + 1
		}
	}

	rec := &modelRecord{
		Name:        name,
		Version:     next,
		Path:        path,
		Description: description,
		Active:      "F",
		AppInfo:     appInfo,
	}
	versions[next] = rec
	if activate {
		for _, r := range versions {
			r.Active = "F"
		}
		rec.Active = "T"
	}
	return statusOK, next, nil
}

func (f *modelFacet) UpdateDescription(name string, version uint32, description string) (int32, *dbus.Error) {
	if name == "" || version == 0 {
		return statusInvalid, nil
	}
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	rec, ok := f.st.models[name][version]
	if !ok {
		return statusNotFound, nil
	}
	rec.Description = description
	return statusOK, nil
}

func (f *modelFacet) Activate(name string, version uint32) (int32, *dbus.Error) {
	if name == "" || version == 0 {
		return statusInvalid, nil
	}
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	versions := f.st.models[name]
	rec, ok := versions[version]
	if !ok {
		return statusNotFound, nil
	}
	for _, r := range versions {
		r.Active = "F"
	}
	rec.Active = "T"
	return statusOK, nil
}

func (f *modelFacet) Get(name string, version uint32) (int32, string, *dbus.Error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	rec, ok := f.st.models[name][version]
	if !ok {
		return statusNotFound, "", nil
	}
	return marshalStatus(rec)
}

func (f *modelFacet) GetActivated(name string) (int32, string, *dbus.Error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	for _, rec := range f.st.models[name] {
		if rec.Active == "T" {
			return marshalStatus(rec)
		}
	}
	return statusNotFound, "", nil
}

func (f *modelFacet) GetAll(name string) (int32, string, *dbus.Error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	versions := f.st.models[name]
	if len(versions) == 0 {
		return statusNotFound, "", nil
	}
	recs := make([]*modelRecord, 0, len(versions))
	for _, rec := range versions {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Version < recs[j].Version })
	return marshalStatus(recs)
}

func (f *modelFacet) Delete(name string, version uint32, force bool) (int32, *dbus.Error) {
	if name == "" {
		return statusInvalid, nil
	}
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	versions := f.st.models[name]
	if len(versions) == 0 {
		return statusNotFound, nil
	}

	if version == 0 {
		if !force {
			for _, rec := range versions {
				if rec.Active == "T" {
					return statusBusy, nil
				}
			}
		}
		delete(f.st.models, name)
		return statusOK, nil
	}

	rec, ok := versions[version]
	if !ok {
		return statusNotFound, nil
	}
	if rec.Active == "T" && !force {
		return statusBusy, nil
	}
	delete(versions, version)
	if len(versions) == 0 {
		delete(f.st.models, name)
	}
	return statusOK, nil
}

// ── Resource facet ──────────────────────────────────────────────────────────

type resourceFacet struct {
	st *store
}

func (f *resourceFacet) Add(name, path, description, appInfo string) (int32, *dbus.Error) {
	if name == "" || path == "" {
		return statusInvalid, nil
	}
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	f.st.resources[name] = append(f.st.resources[name], resourceRecord{
		Name:        name,
		Path:        path,
		Description: description,
		AppInfo:     appInfo,
	})
	return statusOK, nil
}

func (f *resourceFacet) Delete(name string) (int32, *dbus.Error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if _, ok := f.st.resources[name]; !ok {
		return statusNotFound, nil
	}
	delete(f.st.resources, name)
	return statusOK, nil
}

func (f *resourceFacet) Get(name string) (int32, string, *dbus.Error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	recs, ok := f.st.resources[name]
	if !ok {
		return statusNotFound, "", nil
	}
	return marshalStatus(recs)
}

func marshalStatus(v any) (int32, string, *dbus.Error) {
	b, err := json.Marshal(v)
	if err != nil {
		return statusInvalid, "", dbus.MakeFailedError(err)
	}
	return statusOK, string(b), nil
}
