package cli

import (
	"strings"

	"github.com/heysubinoy/kv/internal/logger"
	"github.com/heysubinoy/kv/internal/store"
	"github.com/heysubinoy/kv/pkg/config"
	"github.com/heysubinoy/kv/pkg/kv"
	"github.com/spf13/cobra"
)

// env holds global flags and the store opened for the running command.
type env struct {
	configPath string
	file       string
	verbose    bool

	store *store.InstrumentedStore
}

// open resolves configuration and returns the store. It is called lazily so
// that help, version and completion never touch the config or store file.
func (e *env) open() (kv.Store, error) {
	if e.store != nil {
		return e.store, nil
	}

	cfg, err := config.LoadConfig(e.configPath)
	if err != nil {
		return nil, kv.NewError(kv.KindInvalidArgument, "config", "", err)
	}

	level := cfg.LogLevel
	if e.verbose {
		level = "debug"
	}
	if err := logger.Configure(level, cfg.LogFormat); err != nil {
		return nil, kv.NewError(kv.KindInvalidArgument, "config", "", err)
	}

	path := cfg.File
	if e.file != "" {
		path = e.file
	}
	logger.Log.WithField("path", path).Debug("using store file")

	e.store = store.NewInstrumentedStore(store.NewFileStore(path))
	return e.store, nil
}

// Execute runs the kv command tree against os.Args. The store metrics are
// logged after every command, including failed ones.
func Execute(version string) error {
	rootCmd, e := newRootCmd(version)
	return execute(rootCmd, e)
}

func execute(rootCmd *cobra.Command, e *env) error {
	err := rootCmd.Execute()
	if e.store != nil {
		logger.Log.WithFields(e.store.GetMetrics().Fields()).Debug("store metrics")
	}
	return err
}

// NewRootCmd builds the kv command tree.
func NewRootCmd(version string) *cobra.Command {
	rootCmd, _ := newRootCmd(version)
	return rootCmd
}

func newRootCmd(version string) (*cobra.Command, *env) {
	e := &env{}

	rootCmd := &cobra.Command{
		Use:   "kv",
		Short: "A local key-value store",
		Long: `kv stores string key:value pairs in a single text file,
one pair per line, and lets you get, set, list and delete them.`,
		Version:       version,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&e.file, "file", "f", "", "store file (default $XDG_DATA_HOME/kv.txt or ~/.kv.txt)")
	rootCmd.PersistentFlags().StringVar(&e.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/kv/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return kv.NewError(kv.KindInvalidArgument, cmd.Name(), "", err)
	})

	rootCmd.AddCommand(
		newGetCmd(e),
		newSetCmd(e),
		newDeleteCmd(e),
		newListCmd(e),
		newCompleteCommandsCmd(),
		newCompleteKeysCmd(e),
	)

	return rootCmd, e
}

// usageArgs turns positional argument failures into InvalidArgument errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return kv.NewError(kv.KindInvalidArgument, cmd.Name(), "", err)
		}
		return nil
	}
}

// completeKeys offers stored keys for commands taking a single key.
func completeKeys(e *env) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		s, err := e.open()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		entries, err := s.List()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		var keys []string
		for _, entry := range entries {
			if !strings.HasPrefix(entry.Key, toComplete) {
				continue
			}
			keys = append(keys, entry.Key+"\t"+entry.Value)
		}
		return keys, cobra.ShellCompDirectiveNoFileComp
	}
}
