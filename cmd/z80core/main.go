// Command z80core runs programs on the core, sweeps the opcode catalog
// for conformance, drives the core from Starlark scripts and inspects
// snapshots.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oisee/z80core/pkg/cpu"
	"github.com/oisee/z80core/pkg/inst"
	"github.com/oisee/z80core/pkg/script"
	"github.com/oisee/z80core/pkg/snapshot"
	"github.com/oisee/z80core/pkg/verify"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "z80core",
		Short:        "Z80 CPU core: run, verify, script and inspect",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newRunCmd(), newVerifyCmd(), newScriptCmd(), newSnapshotCmd(), newCatalogCmd())
	return rootCmd
}

// coreOptions are the flags shared by commands that build a core.
type coreOptions struct {
	memory   int
	org      int
	pc       int
	maxSteps int
	json     bool
	save     string
	resume   string
}

func (o *coreOptions) addFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.memory, "memory", cpu.DefaultMemorySize, "Memory size in bytes")
	fs.Var(newHexValue(&o.org, 0, 0xFFFF), "org", "Load address of the program")
	fs.Var(newHexValue(&o.pc, 0, 0xFFFF), "pc", "Start address (defaults to --org)")
	fs.IntVar(&o.maxSteps, "max-steps", 10_000_000, "Stop after this many instructions (0 = no limit)")
	fs.BoolVar(&o.json, "json", false, "Print registers as JSON")
	fs.StringVar(&o.save, "snapshot", "", "Write a snapshot here when done")
	fs.StringVar(&o.resume, "resume", "", "Start from this snapshot instead of a program")
}

// newCore builds the core from --resume, or from an optional program
// file loaded at --org.
func (o *coreOptions) newCore(fs *pflag.FlagSet, program string) (*cpu.Core, error) {
	if o.resume != "" {
		return snapshot.Load(o.resume)
	}

	core, err := cpu.New(o.memory)
	if err != nil {
		return nil, err
	}
	if program != "" {
		data, err := os.ReadFile(program)
		if err != nil {
			return nil, err
		}
		core.Mem.Load(uint16(o.org), data)
	}

	core.SetPC(uint16(o.org))
	if fs.Changed("pc") {
		core.SetPC(uint16(o.pc))
	}
	return core, nil
}

// finish prints the register file and writes --snapshot.
func (o *coreOptions) finish(out io.Writer, core *cpu.Core) error {
	if o.json {
		if err := snapshot.WriteJSON(out, core); err != nil {
			return err
		}
	} else {
		printRegisters(out, core)
	}

	if o.save != "" {
		if err := snapshot.Save(o.save, core); err != nil {
			return err
		}
		fmt.Fprintf(out, "Snapshot written to %s\n", o.save)
	}
	return nil
}

func newRunCmd() *cobra.Command {
	var opts coreOptions

	cmd := &cobra.Command{
		Use:   "run [program.bin]",
		Short: "Load a raw binary and step the core until HALT",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && opts.resume == "" {
				return fmt.Errorf("need a program file or --resume")
			}
			program := ""
			if len(args) == 1 {
				program = args[0]
			}

			core, err := opts.newCore(cmd.Flags(), program)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			n, err := core.Run(cmd.Context(), opts.maxSteps)
			switch {
			case errors.Is(err, cpu.ErrStepLimit):
				fmt.Fprintf(out, "Stopped after %d instructions (step limit)\n", n)
			case err != nil:
				return err
			default:
				fmt.Fprintf(out, "Halted after %d instructions\n", n)
			}
			return opts.finish(out, core)
		},
	}
	opts.addFlags(cmd.Flags())
	return cmd
}

func newVerifyCmd() *cobra.Command {
	var numWorkers int
	var verbose bool
	var tables []string
	var rounds int
	var seed uint64

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Execute every catalogued opcode and check length and flag policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := verify.Config{
				NumWorkers: numWorkers,
				Verbose:    verbose,
				Out:        cmd.OutOrStdout(),
				Rounds:     rounds,
				Seed:       seed,
			}
			for _, name := range tables {
				p, ok := inst.ParsePrefix(name)
				if !ok {
					return fmt.Errorf("unknown table %q", name)
				}
				cfg.Prefixes = append(cfg.Prefixes, p)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Z80 core conformance sweep\n")
			fmt.Fprintf(out, "  Test vectors: %d\n", len(verify.TestVectors))
			fmt.Fprintln(out)

			report := verify.Run(cfg)

			if !verbose {
				for _, v := range report.Violations {
					fmt.Fprintf(out, "  FAIL: %s\n", v)
				}
			}
			fmt.Fprintf(out, "\nChecked %d cases, %d distinct behaviours, %d failed (%s)\n",
				report.Checked, report.Groups, report.Failed, report.Elapsed.Round(time.Millisecond))
			if !report.OK() {
				return fmt.Errorf("%d violations", len(report.Violations))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&numWorkers, "workers", 0, "Number of workers (0 = NumCPU)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.Flags().StringSliceVar(&tables, "table", nil, "Tables to sweep: none, CB, ED, DD, FD, DDCB, FDCB (default all)")
	cmd.Flags().IntVar(&rounds, "random", 0, "Random instruction/state rounds to run after the sweep")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Seed for --random")
	return cmd
}

func newScriptCmd() *cobra.Command {
	var opts coreOptions

	cmd := &cobra.Command{
		Use:   "script [file.star]",
		Short: "Drive the core from a Starlark script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			core, err := opts.newCore(cmd.Flags(), "")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := script.Run(cmd.Context(), core, args[0], src, out); err != nil {
				return err
			}
			if opts.save == "" && !opts.json {
				return nil
			}
			return opts.finish(out, core)
		},
	}
	opts.addFlags(cmd.Flags())
	return cmd
}

func newSnapshotCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "snapshot [file]",
		Short: "Print the registers stored in a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := snapshot.Load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return snapshot.WriteJSON(out, core)
			}
			fmt.Fprintf(out, "Memory: %d bytes\n", core.Mem.Len())
			printRegisters(out, core)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print registers as JSON")
	return cmd
}

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog [table...]",
		Short: "List opcode lengths and flag policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			prefixes := inst.Prefixes()
			if len(args) > 0 {
				prefixes = nil
				for _, name := range args {
					p, ok := inst.ParsePrefix(name)
					if !ok {
						return fmt.Errorf("unknown table %q", name)
					}
					prefixes = append(prefixes, p)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-12s %-3s %-8s %s\n", "OPCODE", "LEN", "SZ5H3PNC", "CLASS")
			for _, p := range prefixes {
				table := inst.Table(p)
				for code := range table {
					info := &table[code]
					if info.Next != inst.None {
						continue
					}
					op := inst.Op{Prefix: p, Code: uint8(code)}
					fmt.Fprintf(out, "%-12s %-3d %s %s%s\n", op, info.Length, effectString(info.Flags), info.Class, notes(info))
				}
			}
			return nil
		},
	}
	return cmd
}

// effectString renders a flag policy bit by bit, S first:
// '*' computed, '1' set, '0' reset, '-' untouched.
func effectString(e inst.Effect) string {
	var sb strings.Builder
	for bit := 7; bit >= 0; bit-- {
		m := uint8(1) << bit
		switch {
		case e.Computed&m != 0:
			sb.WriteByte('*')
		case e.Set&m != 0:
			sb.WriteByte('1')
		case e.Reset&m != 0:
			sb.WriteByte('0')
		default:
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

func notes(info *inst.Info) string {
	var n []string
	if info.Branch {
		n = append(n, "branch")
	}
	if info.Unsupported {
		n = append(n, "no-op")
	}
	if len(n) == 0 {
		return ""
	}
	return " (" + strings.Join(n, ", ") + ")"
}

func flagString(f uint8) string {
	const names = "SZ5H3PNC"
	b := []byte(names)
	for i := range b {
		if f&(0x80>>i) == 0 {
			b[i] = '.'
		}
	}
	return string(b)
}

func printRegisters(out io.Writer, core *cpu.Core) {
	r := &core.Regs
	fmt.Fprintf(out, "AF =%04X BC =%04X DE =%04X HL =%04X\n",
		r.RawPair(cpu.AF), r.RawPair(cpu.BC), r.RawPair(cpu.DE), r.RawPair(cpu.HL))
	fmt.Fprintf(out, "AF'=%04X BC'=%04X DE'=%04X HL'=%04X\n",
		r.RawPair(cpu.AF2), r.RawPair(cpu.BC2), r.RawPair(cpu.DE2), r.RawPair(cpu.HL2))
	fmt.Fprintf(out, "IX =%04X IY =%04X SP =%04X PC =%04X\n",
		r.RawPair(cpu.IX), r.RawPair(cpu.IY), r.RawPair(cpu.SP), r.RawPair(cpu.PC))
	fmt.Fprintf(out, "I  =%02X   R  =%02X   F  =%s halted=%v alternate=%v\n",
		r.Cell(cpu.I), r.Cell(cpu.R), flagString(r.Get(cpu.F)), r.Halted(), r.Alternate())
}
