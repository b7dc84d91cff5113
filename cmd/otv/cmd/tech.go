package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var techCmd = &cobra.Command{
	Use:   "tech",
	Short: "Technology operations",
	Long:  `Commands for inspecting the built-in technologies and those in --tech-dir.`,
}

var techListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known technologies",
	Args:  cobra.NoArgs,
	RunE:  runTechList,
}

var techShowCmd = &cobra.Command{
	Use:   "show [technology]",
	Short: "Show a technology's grid and layers",
	Long: `Show the manufacturing grid, scale and layers of a technology.
Without an argument the configured technology is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTechShow,
}

func init() {
	rootCmd.AddCommand(techCmd)
	techCmd.AddCommand(techListCmd)
	techCmd.AddCommand(techShowCmd)
}

func runTechList(cmd *cobra.Command, args []string) error {
	repo, err := loadTechnologies()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	names := repo.Names()
	fmt.Fprintf(out, "Technologies: %d\n", len(names))
	for _, name := range names {
		t, err := repo.Lookup(name)
		if err != nil {
			return err
		}
		res := "-"
		if grid, err := t.Resolution(); err == nil {
			res = fmt.Sprintf("%g", grid)
		}
		fmt.Fprintf(out, "  %-12s grid %-6s %s\n", t.Name, res, t.Description)
	}
	return nil
}

func runTechShow(cmd *cobra.Command, args []string) error {
	name := cfg.GetString("technology")
	if len(args) > 0 {
		name = args[0]
	}
	repo, err := loadTechnologies()
	if err != nil {
		return err
	}
	t, err := repo.Lookup(name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Technology: %s\n", t.Name)
	if t.Description != "" {
		fmt.Fprintf(out, "  Description: %s\n", t.Description)
	}
	if grid, err := t.Resolution(); err == nil {
		fmt.Fprintf(out, "  Resolution:  %g lambda\n", grid)
	} else {
		fmt.Fprintf(out, "  Resolution:  none\n")
	}
	if scale := t.Scale(); scale > 0 {
		fmt.Fprintf(out, "  Scale:       %g nm/lambda\n", scale)
	}

	layers := t.Layers()
	fmt.Fprintf(out, "  Layers: %d\n", len(layers))
	for _, l := range layers {
		node := l.PureNode
		if node == "" {
			node = "(no pure-layer node)"
		}
		fmt.Fprintf(out, "    %-16s %s\n", l.Name, node)
	}
	return nil
}
