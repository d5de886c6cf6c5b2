package main

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sdshc/costshare/internal/config"
	"github.com/sdshc/costshare/internal/conservation"
	"github.com/sdshc/costshare/internal/dashboard"
	"github.com/sdshc/costshare/internal/fetcher"
	"github.com/sdshc/costshare/internal/source"
)

// Output formats shared by the report commands.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// newEngine wires the configured sources into a dashboard engine. An empty
// funding URI disables the funding table.
func newEngine(c *config.Config) (*dashboard.Engine, error) {
	router := fetcher.New(c.Fetch.Options())

	contracts, err := source.Open(c.Sources.Contracts, router)
	if err != nil {
		return nil, eris.Wrap(err, "contracts source")
	}

	var funding source.Source
	if strings.TrimSpace(c.Sources.Funding.URI) != "" {
		funding, err = source.Open(c.Sources.Funding, router)
		if err != nil {
			return nil, eris.Wrap(err, "funding source")
		}
	}

	return dashboard.New(contracts, funding, dashboard.Options{ImpactLimit: c.Dashboard.ImpactLimit}), nil
}

// resolveSegment picks the --segment flag, falling back to the configured
// default.
func resolveSegment(c *config.Config, flag string) (conservation.Segment, error) {
	if flag == "" {
		flag = c.Dashboard.DefaultSegment
	}
	return conservation.ParseSegment(flag)
}

// loadSnapshot loads both tables once and selects seg.
func loadSnapshot(ctx context.Context, c *config.Config, segFlag string) (*dashboard.Snapshot, error) {
	seg, err := resolveSegment(c, segFlag)
	if err != nil {
		return nil, err
	}

	engine, err := newEngine(c)
	if err != nil {
		return nil, err
	}
	if err := engine.Load(ctx); err != nil {
		return nil, err
	}

	snap, err := engine.Select(seg)
	if err != nil {
		return nil, err
	}
	zap.L().Debug("snapshot ready",
		zap.String("run_id", snap.RunID),
		zap.String("segment", string(seg)),
		zap.Int("records", len(snap.Records)),
	)
	return snap, nil
}

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return eris.Errorf("unsupported format %q (valid: %s)", format, strings.Join(allowed, ", "))
}

// writeStructured encodes v as indented JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(v), "encode json")
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return eris.Wrap(enc.Close(), "encode yaml")
	default:
		return eris.Errorf("unsupported structured format %q", format)
	}
}
