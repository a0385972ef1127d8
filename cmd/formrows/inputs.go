package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	internalLoader "github.com/goliatone/go-formrows/internal/source/loader"
	"github.com/goliatone/go-formrows/pkg/orchestrator"
	"github.com/goliatone/go-formrows/pkg/refdata"
	"github.com/goliatone/go-formrows/pkg/source"
)

// inputOptions are the page, group and reference data flags shared by apply,
// interactive and serve.
type inputOptions struct {
	page     string
	groups   string
	data     string
	openapi  string
	bindings []string
	timeout  time.Duration
	cacheDir string
}

func addInputFlags(cmd *cobra.Command, in *inputOptions) {
	cmd.Flags().StringVar(&in.page, "page", "", "HTML page to operate on (path or URL)")
	cmd.Flags().StringVar(&in.groups, "groups", "", "JSON or YAML group file (defaults to the contact groups)")
	cmd.Flags().StringVar(&in.data, "data", "", "JSON or YAML reference data merged over the embedded payload")
	cmd.Flags().StringVar(&in.openapi, "openapi", "", "OpenAPI document providing enum choices")
	cmd.Flags().StringSliceVar(&in.bindings, "bind", nil, "enum binding KEY=Schema[.property], repeatable")
	cmd.Flags().DurationVar(&in.timeout, "timeout", 10*time.Second, "timeout for URL sources")
	cmd.Flags().StringVar(&in.cacheDir, "cache-dir", "", "keep URL sources on disk and reuse them when a fetch fails")
}

// resolve reads the input flags through settings so config file and
// FORMROWS_* environment values fill flags left unset.
func (in *inputOptions) resolve(settings *viper.Viper) {
	in.page = settings.GetString("page")
	in.groups = settings.GetString("groups")
	in.data = settings.GetString("data")
	in.openapi = settings.GetString("openapi")
	in.bindings = settings.GetStringSlice("bind")
	in.timeout = settings.GetDuration("timeout")
	in.cacheDir = settings.GetString("cache-dir")
}

// configure resolves the input flags through the layered settings and builds
// the orchestrator request.
func (in *inputOptions) configure(cmd *cobra.Command, g *globalOptions) (*viper.Viper, orchestrator.Request, error) {
	settings, err := g.settings(cmd)
	if err != nil {
		return nil, orchestrator.Request{}, err
	}
	in.resolve(settings)
	req, err := in.request()
	return settings, req, err
}

func (in *inputOptions) loader() source.Loader {
	timeout := in.timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return internalLoader.New(source.NewLoaderOptions(
		source.WithHTTPFallback(timeout),
		source.WithCacheDir(in.cacheDir),
	))
}

func (in *inputOptions) orchestrator(g *globalOptions) *orchestrator.Orchestrator {
	return orchestrator.New(orchestrator.WithLoader(in.loader()), orchestrator.WithLogger(g.logger))
}

func (in *inputOptions) request() (orchestrator.Request, error) {
	var req orchestrator.Request
	var err error

	if req.Page, err = optionalSource(in.page); err != nil {
		return req, err
	}
	if req.Page == nil {
		return req, fmt.Errorf("--page is required")
	}
	if req.Groups, err = optionalSource(in.groups); err != nil {
		return req, err
	}
	if req.Data, err = optionalSource(in.data); err != nil {
		return req, err
	}
	if req.OpenAPI, err = optionalSource(in.openapi); err != nil {
		return req, err
	}
	if req.Bindings, err = parseBindings(in.bindings); err != nil {
		return req, err
	}
	if req.OpenAPI == nil && len(req.Bindings) > 0 {
		return req, fmt.Errorf("--bind requires --openapi")
	}
	return req, nil
}

// parseBindings reads KEY=Schema or KEY=Schema.property values.
func parseBindings(raw []string) ([]refdata.OpenAPIBinding, error) {
	out := make([]refdata.OpenAPIBinding, 0, len(raw))
	for _, value := range raw {
		key, target, ok := strings.Cut(value, "=")
		key, target = strings.TrimSpace(key), strings.TrimSpace(target)
		if !ok || key == "" || target == "" {
			return nil, fmt.Errorf("binding %q must look like KEY=Schema[.property]", value)
		}
		schema, property, _ := strings.Cut(target, ".")
		out = append(out, refdata.OpenAPIBinding{Key: key, Schema: schema, Property: property})
	}
	return out, nil
}
