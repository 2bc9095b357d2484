package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/frier-sam/claude-code-protect/internal/backup"
	"github.com/frier-sam/claude-code-protect/internal/config"
)

var (
	backupsConfig string
	backupsRoot   string
	backupsFormat string
)

func init() {
	rootCmd.AddCommand(backupsCmd)
	backupsCmd.PersistentFlags().StringVar(&backupsConfig, "config", "", "Path to config JSON (default: ~/.claude/claude-code-protect.json)")
	backupsCmd.PersistentFlags().StringVar(&backupsRoot, "backup-root", "", "Backup root override (default: from config)")
	backupsListCmd.Flags().StringVarP(&backupsFormat, "format", "f", "text", "Output format (text|json)")
	backupsCmd.AddCommand(backupsListCmd)
	backupsCmd.AddCommand(backupsClearCmd)
}

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "Inspect and clear centralized backups",
}

func resolveBackupRoot(cmd *cobra.Command) string {
	if backupsRoot != "" {
		return backupsRoot
	}
	path := backupsConfig
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Load(path, cmd.ErrOrStderr()).BackupRoot
}

var backupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List manifest records from the centralized backup store",
	RunE: func(cmd *cobra.Command, args []string) error {
		root := resolveBackupRoot(cmd)
		recs, err := backup.OpenManifest(filepath.Join(root, "manifest.jsonl")).ReadAll()
		if err != nil {
			return err
		}

		if backupsFormat == "json" {
			out, err := json.MarshalIndent(recs, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		if len(recs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no backups recorded")
			return nil
		}
		for _, r := range recs {
			kind := "file"
			if r.IsDir {
				kind = "dir"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-24s %-4s %8dB  %s\n",
				r.ID, r.BackedUpAt, kind, r.SizeBytes, r.OriginalPath)
		}
		return nil
	},
}

var backupsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all centralized backup files and empty the manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		root := resolveBackupRoot(cmd)
		filesDir := filepath.Join(root, "files")

		if err := os.RemoveAll(filesDir); err != nil {
			return fmt.Errorf("remove %s: %w", filesDir, err)
		}
		if err := backup.OpenManifest(filepath.Join(root, "manifest.jsonl")).Truncate(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", filesDir)
		return nil
	},
}
