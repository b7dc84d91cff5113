package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/design"
)

var (
	libShowTrace bool
)

var libCmd = &cobra.Command{
	Use:   "lib",
	Short: "Design library operations",
	Long:  `Commands for inspecting design library files written by otv.`,
}

var libShowCmd = &cobra.Command{
	Use:   "show <library_file> [cell]",
	Short: "Show the cells and nodes of a library",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runLibShow,
}

var libViewCmd = &cobra.Command{
	Use:   "view <library_file> <cell>",
	Short: "View a cell in an interactive viewer",
	Args:  cobra.ExactArgs(2),
	RunE:  runLibView,
}

func init() {
	rootCmd.AddCommand(libCmd)
	libCmd.AddCommand(libShowCmd)
	libCmd.AddCommand(libViewCmd)

	libShowCmd.Flags().BoolVar(&libShowTrace, "trace", false, "print node outlines")
}

func runLibShow(cmd *cobra.Command, args []string) error {
	lib, err := design.LoadLibrary(args[0])
	if err != nil {
		return fmt.Errorf("error loading library: %w", err)
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Library: %s\n", lib.Name)
	if lib.Technology != "" {
		fmt.Fprintf(out, "  Technology: %s\n", lib.Technology)
	}

	names := lib.CellNames()
	if len(args) > 1 {
		if _, ok := lib.Cell(args[1]); !ok {
			return fmt.Errorf("%w: %s", design.ErrNoSuchCell, args[1])
		}
		names = args[1:]
	}
	fmt.Fprintf(out, "  Cells: %d\n", len(names))

	for _, name := range names {
		cell, _ := lib.Cell(name)
		bb := cell.Bounds()
		fmt.Fprintf(out, "\n  Cell %s: %d node(s)", cell.Name, len(cell.Nodes))
		if !bb.IsEmpty() {
			fmt.Fprintf(out, ", %g x %g lambda", bb.Width(), bb.Height())
		}
		fmt.Fprintln(out)

		for _, n := range cell.Nodes {
			fmt.Fprintf(out, "    #%-3d %-20s %-16s %-12s at (%g, %g) size %g x %g",
				n.ID, n.Name, n.Kind, n.Layer, n.Center.X, n.Center.Y, n.Size.Width, n.Size.Height)
			if len(n.Trace) > 0 {
				fmt.Fprintf(out, " trace %d pts", len(n.Trace))
			}
			fmt.Fprintln(out)
			if libShowTrace {
				for _, p := range n.Trace {
					fmt.Fprintf(out, "        %g %g\n", p.X, p.Y)
				}
			}
		}
	}
	return nil
}

func runLibView(cmd *cobra.Command, args []string) error {
	lib, err := design.LoadLibrary(args[0])
	if err != nil {
		return fmt.Errorf("error loading library: %w", err)
	}
	cell, ok := lib.Cell(args[1])
	if !ok {
		return fmt.Errorf("%w: %s", design.ErrNoSuchCell, args[1])
	}

	grid := 0.0
	if repo, err := loadTechnologies(); err == nil && lib.Technology != "" {
		if g, err := repo.Resolution(lib.Technology); err == nil {
			grid = g
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Viewing %s:%s (%d nodes)\n", lib.Name, cell.Name, len(cell.Nodes))
	return runViewer(fmt.Sprintf("Library %s - %s", lib.Name, cell.Name), cell, grid)
}
