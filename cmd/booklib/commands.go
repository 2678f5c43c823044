package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kjk/booklib/log"
	"github.com/kjk/booklib/u"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all books",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, b := range store.List() {
			fmt.Fprintln(cmd.OutOrStdout(), b.String())
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export catalog to a file",
	Long: `Export catalog to a file. Format depends on file extension:

  .json        JSON
  .br .zst .gz compressed catalog file
  other        catalog file`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		var d []byte
		var err error
		if strings.ToLower(filepath.Ext(path)) == ".json" {
			d, err = store.ExportJSON()
		} else {
			d, err = store.Marshal()
		}
		if err != nil {
			return err
		}
		if err = u.WriteFileMaybeCompressed(path, d); err != nil {
			return err
		}
		log.Logf("exported %d books to '%s'\n", store.Len(), path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Add books from another catalog file",
	Long: `Add books from another catalog file, optionally compressed
(.gz, .bz2, .zst, .br). Imported books get new ids.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		d, err := u.ReadFileMaybeCompressed(path)
		if err != nil {
			return err
		}
		n, err := store.Import(bytes.NewReader(d), filepath.Base(path))
		if err != nil {
			return err
		}
		if err = store.SaveErr(); err != nil {
			return err
		}
		log.Logf("imported %d books from '%s'\n", n, path)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded changes to the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := log.Dir()
		if dir == "" {
			return fmt.Errorf("history needs --log-dir")
		}
		out := cmd.OutOrStdout()
		return log.ReadEvents(dir, func(e *log.EventRecord) bool {
			fmt.Fprintf(out, "%s %s %s\n", e.Time.Format("2006-01-02 15:04:05"), e.Name, e.Summary())
			return true
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd, exportCmd, importCmd, historyCmd)
}
