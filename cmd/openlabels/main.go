// Command openlabels is the CLI entry point for score_text and
// score_file: the same two calls the HTTP scoring server exposes, run
// once against stdin or a file path and printed as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/qualys/dspm/internal/adapters"
	"github.com/qualys/dspm/internal/config"
	"github.com/qualys/dspm/internal/core"
	"github.com/qualys/dspm/internal/pipeline"
	"github.com/qualys/dspm/internal/registry"
)

// boundAdapter closes an adapters.Extractor over a fixed context so it
// satisfies pipeline.Adapter, which predates context-aware extraction
// and only threads source/metadata through.
type boundAdapter struct {
	ctx context.Context
	ex  adapters.Extractor
}

func (b boundAdapter) Extract(source string, metadata map[string]string) (core.NormalizedInput, error) {
	return b.ex.Extract(b.ctx, source, metadata)
}

func buildAdapter(ctx context.Context, kind string, reg *registry.Registry, region string) (pipeline.Adapter, error) {
	switch adapters.Kind(kind) {
	case adapters.KindDLP:
		a, err := adapters.NewDLPAdapter(ctx, reg)
		if err != nil {
			return nil, err
		}
		return boundAdapter{ctx, a}, nil
	case adapters.KindMacie:
		a, err := adapters.NewMacieAdapter(ctx, region, reg)
		if err != nil {
			return nil, err
		}
		return boundAdapter{ctx, a}, nil
	case adapters.KindPurview:
		a, err := adapters.NewPurviewAdapter(reg)
		if err != nil {
			return nil, err
		}
		return boundAdapter{ctx, a}, nil
	case adapters.KindPresidio:
		return boundAdapter{ctx, adapters.NewPresidioAdapter(reg)}, nil
	case adapters.KindM365:
		return boundAdapter{ctx, adapters.NewM365Adapter(reg)}, nil
	case adapters.KindNTFS:
		return boundAdapter{ctx, adapters.NewNTFSAdapter()}, nil
	case adapters.KindNFS:
		return boundAdapter{ctx, adapters.NewNFSAdapter()}, nil
	case adapters.KindExternal:
		return boundAdapter{ctx, adapters.NewExternalAdapter("cli", reg)}, nil
	default:
		return nil, fmt.Errorf("unknown adapter kind %q", kind)
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	filePath := flag.String("file", "", "Path to a file to score (reads stdin if empty)")
	exposure := flag.String("exposure", "", "Exposure override: PRIVATE, INTERNAL, ORG_WIDE, or PUBLIC")
	overlayPath := flag.String("weights", "", "Path to a weights/category overlay file")
	adapterKind := flag.String("adapter", "", "Adapter to extract through instead of the built-in scanner: macie, purview, dlp, ntfs, nfs, m365, presidio, external")
	region := flag.String("region", "us-east-1", "Cloud region, for adapters that need one (e.g. macie)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	overlay := *overlayPath
	if overlay == "" {
		overlay = cfg.OpenLabels.WeightsFile
	}

	reg := registry.New(overlay)
	ctx := core.NewContext(reg, core.WithMaxWorkers(cfg.OpenLabels.MaxWorkers))
	p := pipeline.New(reg, ctx)

	var scanAdapters []pipeline.Adapter
	if *adapterKind != "" {
		a, buildErr := buildAdapter(context.Background(), *adapterKind, reg, *region)
		if buildErr != nil {
			fmt.Fprintf(os.Stderr, "failed to build adapter: %v\n", buildErr)
			os.Exit(1)
		}
		scanAdapters = []pipeline.Adapter{a}
	}

	var result pipeline.Result
	if *filePath != "" {
		result, err = p.ScoreFile(*filePath, scanAdapters, core.Exposure(*exposure))
	} else {
		data, readErr := io.ReadAll(os.Stdin)
		if readErr != nil {
			fmt.Fprintf(os.Stderr, "failed to read stdin: %v\n", readErr)
			os.Exit(1)
		}
		result, err = p.ScoreText(string(data), core.Exposure(*exposure))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "scoring failed: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode result: %v\n", err)
		os.Exit(1)
	}
}
