package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ghodss/yaml"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-pipeline-config/pkg/auth"
	"github.com/askiada/go-pipeline-config/pkg/pipeline"
	"github.com/askiada/go-pipeline-config/pkg/pipeline/codec"
	"github.com/askiada/go-pipeline-config/pkg/pipeline/diagram"
	"github.com/askiada/go-pipeline-config/pkg/pipeline/measure"
	"github.com/askiada/go-pipeline-config/pkg/pipeline/model"
)

func newCommand(opts *options) *cobra.Command {
	var (
		name, description          string
		sources, transforms, sinks int
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Print a new pipeline configuration holding default entities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session := pipeline.NewSession()

			if err := session.SetPipelineName(name); err != nil {
				return err
			}
			if err := session.SetDescription(description); err != nil {
				return err
			}

			for i := 1; i <= sources; i++ {
				if err := session.Add(model.SourcesCollection, pipeline.NewSource(i)); err != nil {
					return err
				}
			}
			for i := 1; i <= transforms; i++ {
				if err := session.Add(model.TransformationsCollection, pipeline.NewTransformation(i)); err != nil {
					return err
				}
			}
			for i := 1; i <= sinks; i++ {
				if err := session.Add(model.SinksCollection, pipeline.NewSink(i)); err != nil {
					return err
				}
			}

			data, err := encodeConfig(session.Config(), opts.format)
			if err != nil {
				return err
			}

			return write(cmd, opts, data)
		},
	}

	cmd.Flags().StringVar(&name, "name", model.DefaultPipelineName, "Pipeline name")
	cmd.Flags().StringVar(&description, "description", "", "Pipeline description")
	cmd.Flags().IntVar(&sources, "sources", 0, "Number of default sources to add")
	cmd.Flags().IntVar(&transforms, "transformations", 0, "Number of default transformations to add")
	cmd.Flags().IntVar(&sinks, "sinks", 0, "Number of default sinks to add")

	return cmd
}

type validation struct {
	path     string
	err      error
	warnings []pipeline.Warning
}

// ErrInvalidFiles is returned by validate when at least one file cannot be imported.
var ErrInvalidFiles = errors.New("invalid pipeline configuration")

func validateCommand(opts *options) *cobra.Command {
	var strict, timings bool

	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Import pipeline configurations and report their consistency warnings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := measure.NewDefaultMeasure()
			results := validateFiles(cmd.Context(), args, opts.concurrency, m)

			var (
				out    strings.Builder
				failed int
			)

			for _, res := range results {
				switch {
				case res.err != nil:
					failed++
					fmt.Fprintf(&out, "%s: %v\n", res.path, res.err)
				case len(res.warnings) == 0:
					fmt.Fprintf(&out, "%s: ok\n", res.path)
				default:
					if strict {
						failed++
					}
					fmt.Fprintf(&out, "%s: %d warning(s)\n", res.path, len(res.warnings))
					for _, w := range res.warnings {
						fmt.Fprintf(&out, "  [%s] %s\n", w.Kind, w)
					}
				}
			}

			if err := write(cmd, opts, []byte(out.String())); err != nil {
				return err
			}

			if timings {
				for _, name := range m.Names() {
					mt := m.AddMetric(name)
					cmd.PrintErrf("%-6s files=%d total=%s avg=%s\n", name, mt.Count(), measure.Round(mt.TotalDuration()), mt.AVGDuration())
				}
			}

			if failed > 0 {
				return errors.Wrapf(ErrInvalidFiles, "%d of %d file(s)", failed, len(results))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on warnings")
	cmd.Flags().BoolVar(&timings, "timings", false, "Print the time spent reading and linting files")

	return cmd
}

// validateFiles imports every path with at most concurrency files in flight. Results keep
// the order of paths. Time spent reading and linting is recorded in m.
func validateFiles(ctx context.Context, paths []string, concurrency int, m measure.Measure) []validation {
	if ctx == nil {
		ctx = context.Background()
	}

	results := make([]validation, len(paths))

	readMetric, lintMetric := m.AddMetric("read"), m.AddMetric("lint")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		g.Go(func() error {
			results[i].path = path

			start := time.Now()
			cfg, err := codec.ReadFile(gctx, path)
			readMetric.AddDuration(time.Since(start))
			if err != nil {
				results[i].err = err
				return nil
			}

			defer measure.Since(lintMetric, time.Now())
			results[i].warnings = pipeline.Lint(cfg)

			return nil
		})
	}

	_ = g.Wait()

	return results
}

func datasetsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "datasets FILE",
		Short: "List the datasets available to transformations and sinks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(cmd, args[0])
			if err != nil {
				return err
			}

			return write(cmd, opts, []byte(strings.Join(pipeline.InputOptions(cfg), "\n")))
		},
	}
}

func diagramCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "diagram FILE",
		Short: "Project a pipeline configuration into a diagram document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(cmd, args[0])
			if err != nil {
				return err
			}

			doc, warnings := diagram.FromConfig(cfg)
			for _, w := range warnings {
				glog.Warningf("%s: %s", args[0], w)
			}

			data, err := encodeDiagram(doc, opts.format)
			if err != nil {
				return err
			}

			return write(cmd, opts, data)
		},
	}
}

func viewCommand(opts *options) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "view PATH|URL",
		Short: "Load a diagram document the way the viewer does",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(commandContext(cmd), timeout)
			defer cancel()

			var loader diagram.Loader = diagram.FileLoader{Path: args[0]}
			if strings.HasPrefix(args[0], "http://") || strings.HasPrefix(args[0], "https://") {
				loader = diagram.HTTPLoader{URL: args[0], Client: &http.Client{Timeout: timeout}}
			}

			view := diagram.Load(ctx, loader)
			if view.Banner != "" {
				cmd.PrintErrln(view.Banner)
			}

			data, err := encodeDiagram(view.Document, opts.format)
			if err != nil {
				return err
			}

			return write(cmd, opts, data)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Maximum time spent loading the document")

	return cmd
}

func runCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run FILE",
		Short: "Simulate a run: print the payload that would be submitted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(cmd, args[0])
			if err != nil {
				return err
			}

			payload, err := pipeline.SimulateRun(cfg)
			if err != nil {
				return err
			}

			return write(cmd, opts, payload)
		},
	}
}

func exportCommand(opts *options) *cobra.Command {
	var useFilename bool

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Re-export a pipeline configuration in the canonical JSON or YAML form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(cmd, args[0])
			if err != nil {
				return err
			}

			data, err := encodeConfig(cfg, opts.format)
			if err != nil {
				return err
			}

			if useFilename && opts.out == "" {
				opts.out = codec.Filename(cfg.Name)
				if opts.format == YAMLFormat {
					opts.out = strings.TrimSuffix(opts.out, ".json") + ".yaml"
				}
			}

			return write(cmd, opts, data)
		},
	}

	cmd.Flags().BoolVar(&useFilename, "save", false, "Write to a file named after the pipeline when --out is not set")

	return cmd
}

func loginCommand(opts *options) *cobra.Command {
	var (
		creds auth.Credentials
		mock  bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check credentials against the login API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var authenticator auth.Authenticator = auth.NewHTTPAuthenticator(opts.authURL)
			if mock {
				authenticator = auth.NewMockAuthenticator()
			}

			res, err := authenticator.Login(commandContext(cmd), creds)
			if err != nil {
				return errors.Wrap(err, "unexpected error during login")
			}

			if !res.Success {
				return errors.New(res.Message)
			}

			cmd.Printf("Login successful! %s (%s)\n", res.User.Email, res.User.UID)

			return nil
		},
	}

	cmd.Flags().StringVar(&creds.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "Account password")
	cmd.Flags().BoolVar(&mock, "mock", false, "Use the in-memory authenticator instead of the login API")

	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

func readConfig(cmd *cobra.Command, path string) (*model.PipelineConfig, error) {
	cfg, err := codec.ReadFile(commandContext(cmd), path)
	if err != nil {
		return nil, err
	}

	for _, w := range pipeline.Lint(cfg) {
		glog.Warningf("%s: %s", path, w)
	}

	return cfg, nil
}

func encodeConfig(cfg *model.PipelineConfig, format string) ([]byte, error) {
	switch format {
	case JSONFormat:
		return codec.Export(cfg)
	case YAMLFormat:
		return codec.ExportYAML(cfg)
	}

	return nil, errors.Wrapf(ErrUnknownFormat, "%q for a pipeline configuration", format)
}

func encodeDiagram(doc *model.Document, format string) ([]byte, error) {
	switch format {
	case JSONFormat:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "unable to encode diagram")
		}

		return data, nil
	case YAMLFormat:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, errors.Wrap(err, "unable to encode diagram")
		}

		return data, nil
	case DOTFormat:
		var buf strings.Builder
		if err := diagram.WriteDOT(&buf, doc); err != nil {
			return nil, err
		}

		return []byte(buf.String()), nil
	}

	return nil, errors.Wrapf(ErrUnknownFormat, "%q for a diagram", format)
}
