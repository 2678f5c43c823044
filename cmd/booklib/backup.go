package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/kjk/booklib/backup"
	"github.com/kjk/booklib/log"
	"github.com/spf13/cobra"
)

var flgBackupName string

func backupName() string {
	if flgBackupName != "" {
		return flgBackupName
	}
	return backup.NameFromPath(store.Path)
}

func newBackupClient(cmd *cobra.Command) (*backup.Client, error) {
	return backup.New(cmd.Context(), backup.ConfigFromEnv())
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Upload catalog file to S3-compatible storage",
	Long: `Upload catalog file, brotli-compressed, to S3-compatible storage.

Configured with environment variables (or .env file):
BOOKLIB_S3_ACCESS, BOOKLIB_S3_SECRET, BOOKLIB_S3_BUCKET,
BOOKLIB_S3_ENDPOINT, BOOKLIB_S3_REGION`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newBackupClient(cmd)
		if err != nil {
			return err
		}
		name := backupName()
		info, err := c.Upload(cmd.Context(), store.Path, name)
		if err != nil {
			return fmt.Errorf("backup of '%s' failed: %w", store.Path, err)
		}
		log.Logf("uploaded '%s' as '%s' (%s)\n", store.Path, info.Key, humanize.Bytes(uint64(info.Size)))
		log.Event("catalog.backup", "name", name, "size", info.Size)
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newBackupClient(cmd)
		if err != nil {
			return err
		}
		objects, err := c.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, o := range objects {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %8s %s\n", o.LastModified.Format("2006-01-02 15:04"), humanize.Bytes(uint64(o.Size)), o.Name)
		}
		return nil
	},
}

var backupLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Upload log files from previous days",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := log.Dir()
		if dir == "" {
			return fmt.Errorf("backup logs needs --log-dir")
		}
		paths, err := log.PastFiles(dir, time.Now())
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			log.Logf("no log files to upload in '%s'\n", dir)
			return nil
		}
		c, err := newBackupClient(cmd)
		if err != nil {
			return err
		}
		for _, path := range paths {
			info, err := c.UploadLog(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("upload of '%s' failed: %w", path, err)
			}
			log.Verbosef("uploaded '%s' as '%s'\n", path, info.Key)
		}
		log.Logf("uploaded %d log files\n", len(paths))
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace catalog file with a backup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newBackupClient(cmd)
		if err != nil {
			return err
		}
		name := backupName()
		if !c.Exists(cmd.Context(), name) {
			return fmt.Errorf("backup '%s' doesn't exist", name)
		}
		if err = c.Download(cmd.Context(), name, store.Path); err != nil {
			return fmt.Errorf("restore of '%s' failed: %w", name, err)
		}
		log.Logf("restored '%s' from backup '%s'\n", store.Path, name)
		log.Event("catalog.restore", "name", name)
		return nil
	},
}

func init() {
	backupCmd.PersistentFlags().StringVar(&flgBackupName, "name", "", "backup name, defaults to catalog file name without extension")
	restoreCmd.Flags().StringVar(&flgBackupName, "name", "", "backup name, defaults to catalog file name without extension")
	backupCmd.AddCommand(backupListCmd, backupLogsCmd)
	rootCmd.AddCommand(backupCmd, restoreCmd)
}
