package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formrows/components/refoptions"
	"github.com/goliatone/go-formrows/pkg/refdata"
)

func addServe(topLevel *cobra.Command, g *globalOptions) {
	var (
		in       inputOptions
		addr     string
		basePath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve every reference key as a searchable options endpoint",
		Example: `
formrows serve --page contact.html --addr :8080
curl 'localhost:8080/api/options/eventTypes?q=bir'
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, req, err := in.configure(cmd, g)
			if err != nil {
				return err
			}
			addr, basePath = settings.GetString("addr"), settings.GetString("base-path")
			session, err := in.orchestrator(g).Load(cmd.Context(), req)
			if err != nil {
				return err
			}

			mux, patterns, err := optionsMux(session.Data, basePath)
			if err != nil {
				return err
			}
			for _, pattern := range patterns {
				g.logger.Info("options route mounted", "pattern", pattern)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "serving %d reference keys on %s\n", len(patterns), addr)
			return listen(cmd.Context(), addr, mux)
		},
	}
	addInputFlags(cmd, &in)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/", "prefix for every options route")
	topLevel.AddCommand(cmd)
}

func optionsMux(data refdata.Set, basePath string) (*http.ServeMux, []string, error) {
	if data.Empty() {
		return nil, nil, errors.New("no reference data to serve")
	}
	mux := http.NewServeMux()
	patterns, err := refoptions.RegisterSet(mux, basePath, data)
	if err != nil {
		return nil, nil, err
	}
	return mux, patterns, nil
}

func listen(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdown)
	}
}
