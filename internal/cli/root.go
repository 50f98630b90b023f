// Package cli holds the pipecfg commands.
package cli

import (
	goflag "flag"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/askiada/go-pipeline-config/pkg/auth"
)

// Output formats of the commands writing a pipeline or a diagram.
const (
	JSONFormat = "json"
	YAMLFormat = "yaml"
	DOTFormat  = "dot"
)

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown format")

type options struct {
	concurrency int
	format      string
	authURL     string
	out         string
}

func defaultOptions() *options {
	return &options{
		concurrency: 4,
		format:      JSONFormat,
		authURL:     auth.DefaultBaseURL,
	}
}

// NewRootCommand returns the pipecfg command tree. Command output goes to stdout unless
// --out names a file.
func NewRootCommand() *cobra.Command {
	opts := defaultOptions()

	rootCmd := &cobra.Command{
		Use:           "pipecfg",
		Short:         "Author, check and inspect declarative data pipeline configurations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.format = strings.ToLower(opts.format)
			if opts.concurrency < 1 {
				opts.concurrency = 1
			}
			glog.V(2).Infof("options: %s", spew.Sdump(opts))

			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVarP(&opts.concurrency, "concurrency", "c", opts.concurrency, "Number of files processed at the same time")
	flags.StringVarP(&opts.format, "format", "f", opts.format, "Output format: json, yaml or dot for diagrams")
	flags.StringVar(&opts.authURL, "auth-url", opts.authURL, "Root of the login API")
	flags.StringVarP(&opts.out, "out", "o", opts.out, "Write the output to this file instead of stdout")

	rootCmd.AddCommand(
		newCommand(opts),
		validateCommand(opts),
		datasetsCommand(opts),
		diagramCommand(opts),
		viewCommand(opts),
		runCommand(opts),
		exportCommand(opts),
		loginCommand(opts),
	)

	return rootCmd
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string) int {
	pflag.CommandLine.AddGoFlagSet(goflag.CommandLine)

	rootCmd := NewRootCommand()
	rootCmd.PersistentFlags().AddFlagSet(pflag.CommandLine)
	rootCmd.SetArgs(args)

	// glog reads its flags from the standard flag set.
	_ = goflag.CommandLine.Parse([]string{})

	defer glog.Flush()

	if err := rootCmd.Execute(); err != nil {
		glog.Errorf("pipecfg: %v", err)
		rootCmd.PrintErrln("Error:", err)

		return 1
	}

	return 0
}

// write sends data to --out or to the command output.
func write(cmd *cobra.Command, opts *options, data []byte) error {
	if opts.out == "" {
		return writeTo(cmd.OutOrStdout(), data)
	}

	err := os.WriteFile(opts.out, data, 0o600)
	if err != nil {
		return errors.Wrapf(err, "unable to write %s", opts.out)
	}

	glog.Infof("wrote %s", opts.out)

	return nil
}

func writeTo(w io.Writer, data []byte) error {
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	_, err := w.Write(data)
	if err != nil {
		return errors.Wrap(err, "unable to write output")
	}

	return nil
}
