package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ainori-ai/mlagent/internal/bus"
)

type facetStatus struct {
	scope bus.Scope
	err   error
}

func newStatusCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Probe agent availability on every facet",
		Long: `Probe agent availability. Each facet is bound and released on its
own connection, so the report shows exactly what an operation would see.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, app)
		},
	}
	return cmd
}

func runStatus(cmd *cobra.Command, app *App) error {
	if app.Probe == nil {
		return errors.New("status probe not configured")
	}

	facets := []bus.Facet{bus.FacetPipeline, bus.FacetModel, bus.FacetResource}
	results := make([]facetStatus, len(facets))

	// Probe concurrently; a facet failing is a result, not an abort, so
	// every goroutine returns nil and failures land in its result slot.
	g, ctx := errgroup.WithContext(cmd.Context())
	for i, f := range facets {
		g.Go(func() error {
			scope, err := app.Probe(ctx, f)
			results[i] = facetStatus{scope: scope, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var down int
	for i, f := range facets {
		r := results[i]
		if r.err != nil {
			down++
			fmt.Fprintf(cmd.OutOrStdout(), "%-9s unavailable: %v\n", f, r.err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-9s ok (%s bus)\n", f, r.scope)
	}

	if down == len(facets) {
		return errors.New("agent unreachable on every facet")
	}
	return nil
}
