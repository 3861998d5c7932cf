package mlagent

import (
	"context"
	"fmt"
)

// SetPipelineDescription registers a pipeline description under name,
// overwriting any previous description with the same name.
func (c *Client) SetPipelineDescription(ctx context.Context, name, description string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidArgument)
	}
	return c.call(ctx, FacetPipeline, "SetPipeline", []any{name, description})
}

// GetPipelineDescription returns the pipeline description registered
// under name.
func (c *Client) GetPipelineDescription(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	var description string
	if err := c.call(ctx, FacetPipeline, "GetPipeline", []any{name}, &description); err != nil {
		return "", err
	}
	return description, nil
}

// DeletePipeline removes the pipeline description registered under name.
func (c *Client) DeletePipeline(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	return c.call(ctx, FacetPipeline, "DeletePipeline", []any{name})
}

// LaunchPipeline constructs a runnable pipeline from the description
// registered under name and returns its instance id. The pipeline starts
// in the ready state; use StartPipeline to run it.
func (c *Client) LaunchPipeline(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	var id int64
	if err := c.call(ctx, FacetPipeline, "LaunchPipeline", []any{name}, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// StartPipeline starts the launched pipeline id.
func (c *Client) StartPipeline(ctx context.Context, id int64) error {
	return c.call(ctx, FacetPipeline, "StartPipeline", []any{id})
}

// StopPipeline stops the launched pipeline id. The pipeline stays
// launched and can be started again.
func (c *Client) StopPipeline(ctx context.Context, id int64) error {
	return c.call(ctx, FacetPipeline, "StopPipeline", []any{id})
}

// DestroyPipeline tears down the launched pipeline id and releases its
// resources. The id is invalid afterwards.
func (c *Client) DestroyPipeline(ctx context.Context, id int64) error {
	return c.call(ctx, FacetPipeline, "DestroyPipeline", []any{id})
}

// GetPipelineState reports the current state of the launched pipeline id.
func (c *Client) GetPipelineState(ctx context.Context, id int64) (PipelineState, error) {
	var state int32
	if err := c.call(ctx, FacetPipeline, "GetState", []any{id}, &state); err != nil {
		return StateUnknown, err
	}
	return PipelineState(state), nil
}
