package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/quill-lang/quilldoc"
	"github.com/quill-lang/quilldoc/internal/storage"
	"github.com/quill-lang/quilldoc/pkg/types"
)

var (
	formatFlag string
	saveFlag   bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <module>",
	Short: "Extract documentation nodes from a module",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&formatFlag, "format", "text",
		"Output format: text or json")
	extractCmd.Flags().BoolVar(&saveFlag, "save", false,
		"Persist the extracted catalogue to the database")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	module := args[0]
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng := quilldoc.New(quilldoc.Options{SearchPaths: cfg.SearchPaths})
	nodes, err := eng.Parse(cmd.Context(), module)
	if err != nil {
		return fmt.Errorf("extract %s: %w", module, err)
	}

	if saveFlag {
		if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
			return err
		}
		store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		if err := store.SaveCatalogue(cmd.Context(), module, nodes); err != nil {
			return fmt.Errorf("save catalogue: %w", err)
		}
	}

	switch formatFlag {
	case "json":
		return writeJSON(cmd, module, nodes)
	case "text":
		writeText(cmd, nodes)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text or json)", formatFlag)
	}
}

func writeJSON(cmd *cobra.Command, module string, nodes []types.Node) error {
	records := make([]*storage.NodeRecord, 0, len(nodes))
	for seq, node := range nodes {
		records = append(records, storage.FromNode(node, seq))
	}
	out, err := json.MarshalIndent(map[string]interface{}{
		"module": module,
		"nodes":  records,
	}, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(out))
	return nil
}

func writeText(cmd *cobra.Command, nodes []types.Node) {
	for _, node := range nodes {
		ref := node.Ref()
		line := fmt.Sprintf("%-16s %s", node.Kind(), types.RenderQualified(ref))
		if ref.IsSetf {
			line += " (setf)"
		}
		if op, ok := node.(types.Operator); ok {
			line += " (" + strings.Join(op.Params(), " ") + ")"
		}
		cmd.Println(line)
		if doc := node.Doc(); doc != "" {
			cmd.Printf("    %s\n", doc)
		}
		if rec, ok := node.(types.Record); ok {
			for _, slot := range rec.RecordSlots() {
				cmd.Printf("    slot %s\n", types.RenderHumanized(slot.Ref()))
			}
		}
	}
}
