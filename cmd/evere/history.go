package main

import (
	"context"
	"fmt"
	"io"

	"github.com/sandevgo/everebot/internal/config"
	"github.com/sandevgo/everebot/internal/core"
	"github.com/sandevgo/everebot/internal/service/ui"
	"github.com/sandevgo/everebot/internal/storage/jsonfile"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or reset stored conversations",
	Long:  `Works on the history files directly. Stop the bot first when clearing, or it will write its in-memory copy back.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored context keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistoryStore(cmd.Context())
		if err != nil {
			return err
		}
		keys, err := store.Keys()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(keys) == 0 {
			fmt.Fprintln(out, ui.DescStyle.Render("no stored conversations in "+store.Dir()))
			return nil
		}
		for _, k := range keys {
			fmt.Fprintln(out, k)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <context-key>",
	Short: "Print one stored conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistoryStore(cmd.Context())
		if err != nil {
			return err
		}
		records, found, err := store.Read(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("no history stored for %s", args[0])
		}
		printHistory(cmd.OutOrStdout(), args[0], records)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear <context-key>",
	Short: "Delete one stored conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistoryStore(cmd.Context())
		if err != nil {
			return err
		}
		if err := store.Remove(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", args[0])
		return nil
	},
}

func openHistoryStore(ctx context.Context) (*jsonfile.Store, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, err
	}
	cfg, err := config.NewAppConfig()
	if err != nil {
		return nil, err
	}
	return jsonfile.NewStore(cfg.GetMemoryDir())
}

func printHistory(w io.Writer, key string, records []core.Record) {
	fmt.Fprintln(w, ui.TitleStyle.Render(fmt.Sprintf("%s (%d records)", key, len(records))))
	for _, r := range records {
		fmt.Fprintf(w, "%s %s\n", ui.UsageStyle.Render(r.Author+":"), r.Text)
		for k, v := range r.Extra {
			fmt.Fprintf(w, "  %s\n", ui.DescStyle.Render(k+"="+v))
		}
	}
}

func init() {
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
