// Package rpk rewrites packaged-resource paths in agent record payloads.
//
// Model and resource records returned by the agent carry an embedded
// app_info document describing how the asset was installed. When app_info
// marks the asset as part of an installed resource package (is_rpk == "T"),
// the record's path field is relative to the package's resource root and
// must be rewritten to an absolute location before callers can use it.
//
// Defines an Env capability for the two host-environment queries involved
// and a Resolver that applies the rewrite. Env has a packaging-aware
// implementation (OSEnv) and a fixed one (StaticEnv) so the rewrite logic
// is written once and testable without a packaging runtime.
package rpk

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
)

// packagedFlag is the literal is_rpk value marking a packaged asset.
const packagedFlag = "T"

var (
	// ErrNotPackaged reports that the current process is not running inside
	// a packaged application context.
	ErrNotPackaged = errors.New("rpk: not a packaged app context")

	// ErrMalformed reports a record payload without the expected JSON shape.
	ErrMalformed = errors.New("rpk: malformed record payload")

	// ErrRootUnavailable reports that the host environment could not supply
	// the packaging information a record needs.
	ErrRootUnavailable = errors.New("rpk: resource root unavailable")
)

// Env answers the host-environment queries the resolver depends on.
type Env interface {
	// AppID returns the packaged-application identity of the current
	// process, or ErrNotPackaged when running outside a packaged app.
	AppID() (string, error)

	// ResourceRoot returns the installed root directory for a resource
	// class declared by a packaged record's res_type.
	ResourceRoot(resType string) (string, error)
}

// Resolver rewrites packaged paths in record payloads.
type Resolver struct {
	env Env
}

// New creates a Resolver backed by the given environment.
func New(env Env) *Resolver {
	return &Resolver{env: env}
}

// Resolve parses text as a record object or an array of record objects and
// rewrites the path field of every packaged record to its installed
// absolute location. Outside a packaged app context the input text is
// returned unchanged, byte for byte. The array-vs-object shape of the
// input is preserved in the output.
//
// A record that cannot be interpreted aborts the whole call: a payload
// with a packaged path left unrewritten is unusable to the caller, so
// partial results never escape.
func (r *Resolver) Resolve(text string) (string, error) {
	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	// The packaging context can only be evaluated at call time, so it is
	// probed on every call rather than cached.
	if _, err := r.env.AppID(); err != nil {
		if errors.Is(err, ErrNotPackaged) {
			return text, nil
		}
		return "", fmt.Errorf("%w: query app context: %v", ErrRootUnavailable, err)
	}

	switch v := doc.(type) {
	case map[string]any:
		if err := r.resolveRecord(v); err != nil {
			return "", err
		}
	case []any:
		if len(v) == 0 {
			return "", fmt.Errorf("%w: empty record array", ErrMalformed)
		}
		for i, el := range v {
			record, ok := el.(map[string]any)
			if !ok {
				return "", fmt.Errorf("%w: element %d is not an object", ErrMalformed, i)
			}
			if err := r.resolveRecord(record); err != nil {
				return "", fmt.Errorf("record %d: %w", i, err)
			}
		}
	default:
		return "", fmt.Errorf("%w: payload is neither an object nor an array", ErrMalformed)
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("%w: re-serialize: %v", ErrMalformed, err)
	}
	return string(out), nil
}

// resolveRecord rewrites a single record's path in place when its app_info
// marks the asset as packaged. Records without the packaged flag are left
// untouched.
func (r *Resolver) resolveRecord(record map[string]any) error {
	raw, ok := record["app_info"].(string)
	if !ok {
		return fmt.Errorf("%w: app_info missing or not a string", ErrMalformed)
	}

	// app_info is itself a JSON document nested inside the outer record.
	// The agent produces it nested; it is parsed as a second, independent
	// document, never flattened into the record's schema.
	var appInfo map[string]any
	if err := json.Unmarshal([]byte(raw), &appInfo); err != nil {
		return fmt.Errorf("%w: parse app_info: %v", ErrMalformed, err)
	}
	if appInfo == nil {
		return fmt.Errorf("%w: app_info is not an object", ErrMalformed)
	}

	if flag, _ := appInfo["is_rpk"].(string); flag != packagedFlag {
		return nil
	}

	resType, ok := appInfo["res_type"].(string)
	if !ok || resType == "" {
		return fmt.Errorf("%w: packaged record without res_type", ErrMalformed)
	}
	orig, ok := record["path"].(string)
	if !ok {
		return fmt.Errorf("%w: packaged record without path", ErrMalformed)
	}

	root, err := r.env.ResourceRoot(resType)
	if err != nil {
		return fmt.Errorf("%w: res_type %q: %v", ErrRootUnavailable, resType, err)
	}

	record["path"] = filepath.Join(root, orig)
	return nil
}
