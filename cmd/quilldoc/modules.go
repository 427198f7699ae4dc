package main

import (
	"github.com/spf13/cobra"

	"github.com/quill-lang/quilldoc/internal/storage"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List modules with a stored documentation catalogue",
	Args:  cobra.NoArgs,
	RunE:  runModules,
}

func init() {
	rootCmd.AddCommand(modulesCmd)
}

func runModules(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	modules, err := store.ListModules(cmd.Context())
	if err != nil {
		return err
	}
	for _, m := range modules {
		cmd.Printf("%-32s %4d nodes  %s\n",
			m.Name, m.NodeCount, m.ExtractedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
