package mlagent

import (
	"context"
	"fmt"
)

// RegisterModel registers the model file at req.Path under req.Name and
// returns the version the agent assigned to it. Versions start at 1 and
// grow per name.
func (c *Client) RegisterModel(ctx context.Context, req RegisterModelRequest) (uint32, error) {
	if req.Name == "" {
		return 0, fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if req.Path == "" {
		return 0, fmt.Errorf("%w: path is required", ErrInvalidArgument)
	}
	var version uint32
	args := []any{req.Name, req.Path, req.Activate, req.Description, req.AppInfo}
	if err := c.call(ctx, FacetModel, "Register", args, &version); err != nil {
		return 0, err
	}
	return version, nil
}

// UpdateModelDescription replaces the description of the registered
// model name at version.
func (c *Client) UpdateModelDescription(ctx context.Context, name string, version uint32, description string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if version == 0 {
		return fmt.Errorf("%w: version is required", ErrInvalidArgument)
	}
	if description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidArgument)
	}
	return c.call(ctx, FacetModel, "UpdateDescription", []any{name, version, description})
}

// ActivateModel marks version as the active version of the registered
// model name, deactivating whichever version was active before.
func (c *Client) ActivateModel(ctx context.Context, name string, version uint32) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if version == 0 {
		return fmt.Errorf("%w: version is required", ErrInvalidArgument)
	}
	return c.call(ctx, FacetModel, "Activate", []any{name, version})
}

// GetModel returns the JSON record of the registered model name at
// version. Paths inside the record are resolved for packaged callers.
func (c *Client) GetModel(ctx context.Context, name string, version uint32) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if version == 0 {
		return "", fmt.Errorf("%w: version is required", ErrInvalidArgument)
	}
	return c.callJSON(ctx, FacetModel, "Get", []any{name, version})
}

// GetActivatedModel returns the JSON record of the active version of the
// registered model name. Paths inside the record are resolved for
// packaged callers.
func (c *Client) GetActivatedModel(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	return c.callJSON(ctx, FacetModel, "GetActivated", []any{name})
}

// ListModels returns a JSON array with one record per registered version
// of the model name. Paths inside the records are resolved for packaged
// callers.
func (c *Client) ListModels(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	return c.callJSON(ctx, FacetModel, "GetAll", []any{name})
}

// DeleteModel removes version of the registered model name. Version 0
// removes every version of the name. An active or in-use version is only
// removed when force is set; force also applies to version 0.
func (c *Client) DeleteModel(ctx context.Context, name string, version uint32, force bool) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	return c.call(ctx, FacetModel, "Delete", []any{name, version, force})
}
