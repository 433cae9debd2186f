package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atlasmv/atlas/internal/store"
)

var decisionsDir string

var decisionsCmd = &cobra.Command{
	Use:   "decisions",
	Short: "Inspect stored decisions",
	Long: `Stored decisions are write-once records of past analyses, including
the market model, risks, assumptions, and the evidence chain behind the
verdict.`,
}

var decisionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored decision ids",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		ids, err := st.List()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Println("no decisions stored")
			return nil
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

var decisionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored decision as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		d, err := st.Load(args[0])
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var decisionsEvidenceCmd = &cobra.Command{
	Use:   "evidence <id>",
	Short: "Show the evidence ledger behind a stored decision as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		ev, err := st.LoadEvidence(args[0])
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(ev, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func openStore() (*store.FileStore, error) {
	dir := decisionsDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("find home directory: %w", err)
		}
		dir = home + "/.atlas"
	}
	return store.NewFileStore(dir)
}

func init() {
	rootCmd.AddCommand(decisionsCmd)
	decisionsCmd.AddCommand(decisionsListCmd)
	decisionsCmd.AddCommand(decisionsShowCmd)
	decisionsCmd.AddCommand(decisionsEvidenceCmd)
	decisionsCmd.PersistentFlags().StringVar(&decisionsDir, "store", "", "decision store directory (default: $HOME/.atlas)")
}
