package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	contractx "github.com/tanpawarit/research-assistant/agent/contract"
	memoryx "github.com/tanpawarit/research-assistant/agent/memory"
	configx "github.com/tanpawarit/research-assistant/pkg/config"
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect or reset stored memory logs",
	Long: `Inspect or reset stored memory logs.

Session memory lives only inside a running server, so these commands are
useful with MEMORY_LONG_TERM_BACKEND=redis.`,
}

var memoryShowCmd = &cobra.Command{
	Use:   "show USER",
	Short: "Print a user's long-term memory log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mem, err := openMemory(cmd)
		if err != nil {
			return err
		}
		defer mem.Close()

		_, longTerm, err := mem.Logs(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printLog(cmd.OutOrStdout(), "Long-term memory", longTerm)
		return nil
	},
}

var memoryResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every stored memory log",
	RunE: func(cmd *cobra.Command, args []string) error {
		mem, err := openMemory(cmd)
		if err != nil {
			return err
		}
		defer mem.Close()

		if err := mem.Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "memory reset")
		return nil
	},
}

func init() {
	memoryCmd.AddCommand(memoryShowCmd, memoryResetCmd)
	rootCmd.AddCommand(memoryCmd)
}

func openMemory(cmd *cobra.Command) (*memoryx.Manager, error) {
	cfg, err := configx.New[memoryx.Config]("MEMORY")
	if err != nil {
		return nil, err
	}
	return memoryx.New(cmd.Context(), *cfg)
}

func printLog(w io.Writer, title string, records []contractx.Record) {
	fmt.Fprintf(w, "\n%s (%d)\n", title, len(records))
	if len(records) == 0 {
		fmt.Fprintln(w, "  no records yet")
		return
	}
	for i, rec := range records {
		status := ""
		if rec.Failed {
			status = " [failed]"
		}
		fmt.Fprintf(w, "%3d. %s %s%s\n", i+1, rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.Mode, status)
		fmt.Fprintf(w, "     Q: %s\n", indent(rec.Query))
		fmt.Fprintf(w, "     A: %s\n", indent(rec.Output))
	}
}

func indent(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", "\n        ")
}
