package mlagent

import (
	"context"
	"fmt"
)

// AddResource registers the resource file at req.Path under req.Name.
// A name can hold several paths; adding appends rather than replaces.
func (c *Client) AddResource(ctx context.Context, req AddResourceRequest) error {
	if req.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if req.Path == "" {
		return fmt.Errorf("%w: path is required", ErrInvalidArgument)
	}
	args := []any{req.Name, req.Path, req.Description, req.AppInfo}
	return c.call(ctx, FacetResource, "Add", args)
}

// DeleteResource removes every path registered under the resource name.
func (c *Client) DeleteResource(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	return c.call(ctx, FacetResource, "Delete", []any{name})
}

// GetResource returns the JSON records registered under the resource
// name. Paths inside the records are resolved for packaged callers.
func (c *Client) GetResource(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	return c.callJSON(ctx, FacetResource, "Get", []any{name})
}
