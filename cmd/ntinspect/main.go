package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/elemental/manifest"
	"github.com/wippyai/elemental/signal"
	"github.com/wippyai/elemental/types"
)

var (
	rootOpts = struct {
		manifest string
		verbose  bool
	}{}

	rootCmd = &cobra.Command{
		Use:   "ntinspect",
		Short: "Inspect type manifests, layouts and instance lifecycles",
		Long: "ntinspect registers the types of a YAML manifest in a fresh registry and reports " +
			"their ancestry, flattened layout and construction order. Without --manifest the " +
			"built-in device hierarchy is used.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if rootOpts.verbose {
				verboseLogger = newLogger()
				setLogger(verboseLogger)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			syncLogger()
		},
	}

	// verboseLogger is set for the duration of a --verbose command.
	verboseLogger *zap.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootOpts.manifest, "manifest", "m", "", "YAML type manifest. Default: built-in example")
	rootCmd.PersistentFlags().BoolVarP(&rootOpts.verbose, "verbose", "v", false, "Log registry activity to stderr")

	rootCmd.AddCommand(typesCmd, layoutCmd, traceCmd, inspectCmd)
}

func newLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func setLogger(l *zap.Logger) {
	types.SetLogger(l)
	signal.SetLogger(l)
	manifest.SetLogger(l)
}

// syncLogger flushes the verbose logger and detaches it from every package.
// Failed commands skip PersistentPostRun, so main calls it as well.
func syncLogger() {
	if verboseLogger == nil {
		return
	}
	_ = verboseLogger.Sync()
	setLogger(zap.NewNop())
	verboseLogger = nil
}

// session is a registry loaded with one manifest.
type session struct {
	reg   *types.Registry
	set   *manifest.Set
	trace *manifest.Trace
}

func openSession() (*session, error) {
	m := manifest.Example()
	if rootOpts.manifest != "" {
		var err error
		if m, err = manifest.Load(rootOpts.manifest); err != nil {
			return nil, err
		}
	}

	reg := types.NewRegistry(types.DefaultOptions())
	trace := &manifest.Trace{}
	set, err := m.Register(reg, trace)
	if err != nil {
		return nil, err
	}
	return &session{reg: reg, set: set, trace: trace}, nil
}

func (s *session) lookup(name string) (types.Type, error) {
	t, ok := s.set.Type(name)
	if !ok {
		return types.None, fmt.Errorf("unknown type %q (known: %v)", name, s.set.Names())
	}
	return t, nil
}

func (s *session) close() error {
	return s.reg.Close()
}

func main() {
	err := rootCmd.Execute()
	syncLogger()
	if err != nil {
		os.Exit(1)
	}
}
