// Package main provides the crmgraph binary entry point.
// Crmgraph compiles an RDF/XML ontology (CIDOC CRM by default) into a
// registry of graph node types and keeps a Neo4j database honest about the
// ontology's inheritance and domain/range constraints.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/c360studio/crmgraph/config"
	"github.com/c360studio/crmgraph/export"
	"github.com/c360studio/crmgraph/graph"
	"github.com/c360studio/crmgraph/model"
	"github.com/c360studio/crmgraph/ontology"
)

const (
	Version = "0.1.0"
	appName = "crmgraph"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:     appName,
		Short:   "Compile an ontology into graph node types",
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(buildCmd())
	cmd.AddCommand(inspectCmd())
	cmd.AddCommand(exportCmd())
	cmd.AddCommand(watchCmd())
	return cmd
}

func exportCmd() *cobra.Command {
	var source, format, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Compile the ontology and re-serialize the registry as RDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(source)
			if err != nil {
				return err
			}

			registry, err := buildRegistry(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			f := export.Format(format)
			if _, ok := export.GetFormatInfo(f); !ok {
				return fmt.Errorf("unknown format %q (turtle, ntriples, jsonld)", format)
			}
			out, err := export.NewSchemaExporter(registry).Export(f)
			if err != nil {
				return err
			}

			if outPath == "" {
				cmd.Print(out)
				return nil
			}
			return os.WriteFile(outPath, []byte(out), 0644)
		},
	}
	cmd.Flags().StringVarP(&source, "schema", "s", "", "ontology source; overrides config")
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatTurtle), "output format: turtle, ntriples, or jsonld")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func buildCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile the ontology and print a build summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(source)
			if err != nil {
				return err
			}

			registry, err := buildRegistry(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			model.Global().Replace(registry)

			if err := publishCatalog(cmd.Context(), cfg, registry); err != nil {
				return err
			}

			printSummary(cmd, registry)

			// schema.watch in the config keeps the process alive, rebuilding
			// on file changes, without needing the watch subcommand.
			if cfg.Schema.Watch {
				return watchSchema(cmd, cfg)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&source, "schema", "s", "", "ontology source (URL, file, or raw RDF/XML); overrides config")
	return cmd
}

func inspectCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "inspect TYPE",
		Short: "Print a type's ancestors, fields, and relationships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(source)
			if err != nil {
				return err
			}

			registry, err := buildRegistry(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			t, ok := registry.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown type %q", args[0])
			}

			cmd.Printf("%s (%s)\n", t.Name, t.Code)
			if t.Label != "" {
				cmd.Printf("  label: %s\n", t.Label)
			}
			for _, a := range t.Ancestors() {
				cmd.Printf("  ancestor: %s\n", a.Name)
			}
			for _, f := range t.Fields() {
				cmd.Printf("  field: %s (%s)\n", f.Name, f.Kind)
			}
			for _, r := range t.Relationships() {
				target := "any"
				if r.Target != nil {
					target = r.Target.Name
				}
				owner := ""
				if r.Owner != t {
					owner = fmt.Sprintf(" [from %s]", r.Owner.Name)
				}
				cmd.Printf("  rel: %s -> %s%s\n", r.Name, target, owner)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&source, "schema", "s", "", "ontology source; overrides config")
	return cmd
}

func watchCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Compile the ontology and rebuild whenever the schema file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(source)
			if err != nil {
				return err
			}

			registry, err := buildRegistry(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			model.Global().Replace(registry)
			printSummary(cmd, registry)

			return watchSchema(cmd, cfg)
		},
	}
	cmd.Flags().StringVarP(&source, "schema", "s", "", "ontology file to watch; overrides config")
	return cmd
}

// watchSchema blocks, rebuilding and swapping the global registry whenever
// the schema file changes, until the process is interrupted.
func watchSchema(cmd *cobra.Command, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher, err := ontology.NewWatcher(ontology.WatcherConfig{
		Path:          cfg.Schema.Source,
		DebounceDelay: cfg.Schema.WatchDebounce,
	}, func(ctx context.Context, schema *ontology.Schema) error {
		fresh, err := model.Build(schema, buildOptions(cfg))
		if err != nil {
			return err
		}
		model.Global().Replace(fresh)
		if err := publishCatalog(ctx, cfg, fresh); err != nil {
			return err
		}
		slog.Info("registry rebuilt", "types", fresh.Len())
		return nil
	})
	if err != nil {
		return err
	}

	cmd.Printf("watching %s for changes\n", cfg.Schema.Source)

	err = watcher.Start(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}

func loadConfig(sourceOverride string) (*config.Config, error) {
	cfg, err := config.NewLoader(slog.Default()).Load()
	if err != nil {
		return nil, err
	}
	if sourceOverride != "" {
		cfg.Schema.Source = sourceOverride
	}
	return cfg, nil
}

func buildOptions(cfg *config.Config) model.BuildOptions {
	return model.BuildOptions{
		Include:         cfg.Build.Include,
		Exclude:         cfg.Build.Exclude,
		AllowUnresolved: cfg.Build.AllowUnresolved,
	}
}

func buildRegistry(ctx context.Context, cfg *config.Config) (*model.Registry, error) {
	slog.Debug("building model", "source", cfg.Schema.Source)
	return model.BuildModels(ctx, cfg.Schema.Source, buildOptions(cfg))
}

func publishCatalog(ctx context.Context, cfg *config.Config, registry *model.Registry) error {
	if cfg.NATS.URL == "" {
		return nil
	}
	nc, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	defer nc.Close()
	return graph.PublishCatalog(ctx, nc, registry)
}

func printSummary(cmd *cobra.Command, registry *model.Registry) {
	roots := registry.Roots()
	rels := 0
	for _, t := range registry.Types() {
		rels += len(t.OwnRelationships())
	}
	cmd.Printf("built %d types (%d roots, %d relationships)\n", registry.Len(), len(roots), rels)
}
