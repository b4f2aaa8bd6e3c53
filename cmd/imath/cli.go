package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	imathbind "github.com/wippyai/imath-bind"
	"github.com/wippyai/imath-bind/config"
	"github.com/wippyai/imath-bind/host"
	"github.com/wippyai/imath-bind/wasmhost"
)

// NewCLI builds the root command.
func NewCLI() *cobra.Command {
	root := &cobra.Command{
		Use:           "imath",
		Short:         "Evaluate and inspect the imath bindings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: console or json")
	flags.Int("workers", 0, "goroutines for bulk array operations")
	flags.Int("grain", 0, "smallest range handed to one worker")
	flags.Int("repr-limit", 0, "array elements shown by repr, 0 for all")
	flags.StringSlice("modules", nil, "modules to install: iex, imath")

	root.AddCommand(
		newEvalCmd(),
		newReplCmd(),
		newClassesCmd(),
		newFunctionsCmd(),
		newExceptionsCmd(),
		newSchemaCmd(),
		newWasmCmd(),
	)
	return root
}

// overrides collects the persistent flags the user set, keyed the way
// config.Load expects.
func overrides(cmd *cobra.Command) (map[string]any, error) {
	out := make(map[string]any)
	flags := cmd.Flags()
	for _, name := range []string{"log-level", "log-format", "workers", "grain", "repr-limit", "modules"} {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		key := strings.ReplaceAll(name, "-", "_")
		switch name {
		case "modules":
			v, err := flags.GetStringSlice(name)
			if err != nil {
				return nil, err
			}
			out[key] = v
		default:
			out[key] = f.Value.String()
		}
	}
	return out, nil
}

func loadRuntime(cmd *cobra.Command) (*imathbind.Runtime, error) {
	ov, err := overrides(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(ov)
	if err != nil {
		return nil, err
	}
	return imathbind.NewRuntime(cfg)
}

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [code...]",
		Short: "Evaluate host code and print the repr of the result",
		Example: `  imath eval "imath.V3f(1, 2, 3).cross(imath.V3f(0, 1, 0))"
  imath eval -f script.imath`,
		RunE: evalHandler,
	}
	cmd.Flags().StringP("file", "f", "", "read code from a file, - for stdin")
	return cmd
}

func evalHandler(cmd *cobra.Command, args []string) error {
	src := strings.Join(args, " ")
	file, _ := cmd.Flags().GetString("file")
	switch {
	case file == "-":
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		src = string(b)
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		src = string(b)
	}
	if strings.TrimSpace(src) == "" {
		return errors.New("nothing to evaluate")
	}

	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	v, err := rt.Eval(cmd.Context(), src)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	s, err := rt.Repr(cmd.Context(), v)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), s)
	return nil
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "repl",
		Aliases: []string{"shell"},
		Short:   "Start an interactive session",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				return runInteractive(cmd.Context(), rt)
			}
			return runLines(cmd.Context(), rt, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	return table
}

// modulesOf returns the installed modules, or only the one named by args.
func modulesOf(rt *imathbind.Runtime, args []string) ([]*host.Module, error) {
	if len(args) == 0 {
		return rt.Modules(), nil
	}
	m, err := rt.Import(args[0])
	if err != nil {
		return nil, err
	}
	return []*host.Module{m}, nil
}

func newClassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classes [module]",
		Short: "List the classes a module exposes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			mods, err := modulesOf(rt, args)
			if err != nil {
				return err
			}

			table := newTable(cmd.OutOrStdout(), "CLASS", "BASE", "ATTRIBUTES", "OPERATORS")
			for _, m := range mods {
				for _, cls := range m.Classes() {
					base := ""
					if b := cls.Base(); b != nil {
						base = b.QualName()
					}
					var ops []string
					for _, op := range cls.Operators() {
						ops = append(ops, op.String())
					}
					table.Append([]string{
						cls.QualName(),
						base,
						fmt.Sprint(len(cls.Attributes())),
						strings.Join(ops, " "),
					})
				}
			}
			table.Render()
			return nil
		},
	}
}

func newFunctionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "functions [module]",
		Short: "List the functions a module exposes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			mods, err := modulesOf(rt, args)
			if err != nil {
				return err
			}

			table := newTable(cmd.OutOrStdout(), "FUNCTION", "DOC")
			for _, m := range mods {
				for _, fn := range m.Functions() {
					table.Append([]string{m.Name + "." + fn.Name, fn.Doc})
				}
			}
			table.Render()
			return nil
		},
	}
}

func newExceptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exceptions",
		Short: "List the native exception classes and their host counterparts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			table := newTable(cmd.OutOrStdout(), "NATIVE", "HOST", "BASE", "ERRNO")
			for _, e := range rt.Registry().Entries() {
				base := ""
				if b := e.Host.Base(); b != nil {
					base = b.QualName()
				}
				table.Append([]string{e.Native.Name(), e.Host.QualName(), base, e.Native.Errno()})
			}
			table.Render()
			return nil
		},
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := config.Schema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
}

func newWasmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wasm <file.wasm>",
		Short: "Run a core wasm guest that imports the imath host module",
		Args:  cobra.ExactArgs(1),
		RunE:  wasmHandler,
	}
	cmd.Flags().String("call", "_start", "exported function to call, without arguments")
	cmd.Flags().Bool("repr", false, "treat the first result as a handle and print its repr")
	return cmd
}

func wasmHandler(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	g, err := rt.LoadGuest(ctx, data)
	if err != nil {
		return err
	}
	defer g.Close(ctx)

	name, _ := cmd.Flags().GetString("call")
	fn := g.ExportedFunction(name)
	if fn == nil {
		return fmt.Errorf("guest exports no function %q", name)
	}
	res, err := fn.Call(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asRepr, _ := cmd.Flags().GetBool("repr"); asRepr && len(res) > 0 {
		v, err := g.Host().Handles().Get(wasmhost.Handle(res[0]))
		if err != nil {
			return err
		}
		s, err := rt.Repr(ctx, v)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, s)
		return nil
	}
	for _, r := range res {
		fmt.Fprintln(out, r)
	}
	return nil
}
