package commands

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"songfetch/internal/core/registry"
)

// NewRegistryCommand shows what the dedup registry remembers
func NewRegistryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Show the download registry.",
		Args:  cobra.NoArgs,
		RunE:  runRegistryCommand,
	}
	cmd.Flags().Bool("sync", false, "Drop entries whose files are gone before listing")
	return cmd
}

func runRegistryCommand(cmd *cobra.Command, args []string) error {
	cfg, sc, err := initConfigAndServices(cmd)
	if err != nil {
		return err
	}
	defer sc.Close()

	var reg *registry.Registry
	if doSync, _ := cmd.Flags().GetBool("sync"); doSync {
		if err := sc.LoadLibrary(); err != nil {
			return err
		}
		reg = sc.Registry
	} else {
		reg = registry.Load(cfg.RegistryPath(), sc.Logger)
	}

	entries := reg.Entries()
	if len(entries) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"#", "Query", "ID"})
		for i, e := range entries {
			t.AppendRow(table.Row{i + 1, e.Query, e.ID})
		}
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignRight},
		})
		t.Render()
	}

	size := "missing"
	if fi, err := os.Stat(reg.Path()); err == nil {
		size = humanize.Bytes(uint64(fi.Size()))
	}
	fmt.Printf("%s: %d ids, %d queries (%s)\n", reg.Path(), reg.IDCount(), reg.QueryCount(), size)
	return nil
}
