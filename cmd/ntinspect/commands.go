package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/wippyai/elemental/types"
)

var (
	traceOpts = struct {
		refs int
	}{}

	inspectOpts = struct {
		plain bool
	}{}

	typesCmd = &cobra.Command{
		Use:   "types",
		Short: "List registered types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.close()
			writeTypes(cmd.OutOrStdout(), s)
			return nil
		},
	}

	layoutCmd = &cobra.Command{
		Use:   "layout <type>",
		Short: "Show the flattened layout of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.close()

			t, err := s.lookup(args[0])
			if err != nil {
				return err
			}
			writeLayout(cmd.OutOrStdout(), s, t)
			return nil
		},
	}

	traceCmd = &cobra.Command{
		Use:   "trace <type>",
		Short: "Create and destroy an instance, printing every lifecycle step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}

			t, err := s.lookup(args[0])
			if err != nil {
				s.close()
				return err
			}
			runTrace(cmd.OutOrStdout(), s, t, traceOpts.refs)
			return s.close()
		},
	}

	inspectCmd = &cobra.Command{
		Use:   "inspect",
		Short: "Browse types interactively",
		Long:  "Browse types interactively. Falls back to a plain report when stdout is not a terminal.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.close()

			if inspectOpts.plain || !stdoutIsTerminal() {
				out := cmd.OutOrStdout()
				writeTypes(out, s)
				for _, name := range s.set.Names() {
					t, _ := s.set.Type(name)
					fmt.Fprintln(out)
					writeLayout(out, s, t)
				}
				return nil
			}
			return runInteractive(s)
		},
	}
)

func init() {
	traceCmd.Flags().IntVarP(&traceOpts.refs, "refs", "r", 0, "Extra references to take before destroying")
	inspectCmd.Flags().BoolVar(&inspectOpts.plain, "plain", false, "Print a report instead of starting the browser")
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

func writeTypes(w io.Writer, s *session) {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("ID", "NAME", "FLAGS", "OWNERSHIP", "SIZE", "EXTENDS")

	for _, info := range s.reg.Types() {
		own, _ := s.reg.OwnershipOf(info.ID)
		tbl.Row(
			strconv.FormatUint(uint64(info.ID), 10),
			info.Name,
			info.Flags.String(),
			own.String(),
			strconv.FormatUint(uint64(s.reg.SizeOf(info.ID)), 10),
			extendsList(s, info.Extends),
		)
	}
	fmt.Fprintln(w, tbl.Render())
}

func extendsList(s *session, extends []types.Type) string {
	names := make([]string, len(extends))
	for i, t := range extends {
		names[i] = s.set.TypeName(t)
	}
	return strings.Join(names, ", ")
}

func layoutLines(s *session, t types.Type) []string {
	slots := s.reg.Layout(t)
	lines := make([]string, 0, len(slots))
	for _, slot := range slots {
		lines = append(lines, fmt.Sprintf("%6d %6d  %s%s(#%d)",
			slot.Offset,
			slot.Size,
			strings.Repeat("  ", slot.Depth),
			s.set.TypeName(slot.Type),
			slot.Type,
		))
	}
	return lines
}

func writeLayout(w io.Writer, s *session, t types.Type) {
	fmt.Fprintf(w, "%s: %d bytes, header %d\n", s.set.TypeName(t), s.reg.SizeOf(t), types.HeaderSize)
	fmt.Fprintf(w, "%6s %6s  %s\n", "OFFSET", "SIZE", "LEVEL")
	for _, line := range layoutLines(s, t) {
		fmt.Fprintln(w, line)
	}
}

// release drops references until the instance is freed.
func release(inst *types.Instance) {
	for !types.Destroy(inst) {
	}
}

func runTrace(w io.Writer, s *session, t types.Type, refs int) {
	sub := s.reg.Observe(types.ObserverFunc(func(e types.Event) {
		fmt.Fprintf(w, "event %-10s handle=%s refs=%d\n", e.Type, e.Handle, e.Refs)
	}))
	defer s.reg.Unobserve(sub)

	s.trace.Reset()
	inst := s.reg.New(t, nil)
	for i := 0; i < refs; i++ {
		types.Ref(inst)
	}
	release(inst)

	fmt.Fprintln(w, "calls:")
	for _, e := range s.trace.Events() {
		fmt.Fprintln(w, "  "+e.String())
	}
}
