package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kjk/booklib/catalog"
	"github.com/kjk/booklib/log"
	"github.com/kjk/booklib/u"
	"github.com/spf13/cobra"
)

var (
	flgData      string
	flgLogDir    string
	flgVerbose   bool
	flgLogServer string
	flgEnv       string

	store *catalog.Store
)

var rootCmd = &cobra.Command{
	Use:   "booklib",
	Short: "Manage a catalog of books",
	Long: `Manage a catalog of books stored in a text file, one book per line:

  id,title,author,year,borrowed

Without a command, runs an interactive menu.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		NewMenu(store, cmd.InOrStdin(), cmd.OutOrStdout()).Run()
		return nil
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&flgData, "data", "library.csv", "path of catalog file")
	f.StringVar(&flgLogDir, "log-dir", "", "directory for log files, events are only recorded if set")
	f.BoolVarP(&flgVerbose, "verbose", "v", false, "show debug messages")
	f.StringVar(&flgLogServer, "log-server", "", "host[:port] of log server")
	f.StringVar(&flgEnv, "env", ".env", "file with environment variables")
}

// setup loads .env file, starts logging and opens the catalog
func setup(cmd *cobra.Command, args []string) error {
	if _, err := u.LoadEnvFile(flgEnv); err != nil {
		return err
	}
	log.Verbose = flgVerbose
	logConfig := &log.Config{
		Dir:    u.ExpandTildeInPath(flgLogDir),
		Server: flgLogServer,
		ApiKey: os.Getenv("BOOKLIB_LOG_API_KEY"),
	}
	if err := log.Init(logConfig); err != nil {
		return fmt.Errorf("log.Init() failed with '%w'", err)
	}

	path := u.ExpandTildeInPath(flgData)
	if dir := filepath.Dir(path); !u.PathExists(dir) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	store = &catalog.Store{
		Path:    path,
		Log:     log.Default,
		OnEvent: log.Event,
	}
	return catalog.OpenStore(store)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Close()
		os.Exit(1)
	}
}
