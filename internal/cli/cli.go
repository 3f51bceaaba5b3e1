// Package cli implements the layerctl command-line interface.
//
// layerctl encodes and decodes layer keys and replays scripts of stack
// operations against an in-memory host, printing the stack after every
// step. It is a tool for checking how a sequence of navigation calls will
// reorder a back stack.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/BrandonKowalski/backstack/pkg/backstack"
)

// Execute runs layerctl with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree writing results to out and logs to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "layerctl",
		Short:        "Inspect and replay layer back stacks",
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.AddCommand(newEncodeCmd())
	root.AddCommand(newDecodeCmd())
	root.AddCommand(newReplayCmd())
	return root
}

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode TITLE SURFACE RECORD",
		Short: "Print the key for a title, surface id and record id",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			surfaceID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("surface id: %w", err)
			}
			recordID, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("record id: %w", err)
			}
			tag, err := backstack.Encode(args[0], surfaceID, recordID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tag)
			return nil
		},
	}
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode KEY",
		Short: "Print the fields of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := backstack.Decode(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "title=%s surface=%d record=%d\n", k.Title, k.SurfaceID, k.RecordID)
			return nil
		},
	}
}

func newReplayCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Replay a script of stack operations",
		Long: `Replay reads one operation per line and prints the stack after each:

  show TAG          show a layer, or resurface it if present
  resurface TAG     move a layer to the top
  bury TAG          move a layer to the bottom
  pop               remove the top layer
  remove TITLE ID   remove layers matching title and record id
  find TITLE ID     print the lowest matching layer
  top               print the active layer
  resume            resume the active layer
  order             print the stack

Use "-" to read the script from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var options backstack.Options
			if configPath != "" {
				loaded, err := backstack.LoadOptions(configPath)
				if err != nil {
					return err
				}
				options = loaded
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			options.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			steps, err := parseScript(r)
			if err != nil {
				return err
			}

			m, err := backstack.New(options)
			if err != nil {
				return err
			}
			defer m.Close()

			var trace io.Writer
			if verbose {
				trace = cmd.OutOrStdout()
			}
			return replay(steps, m, newMemHost(trace), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML options file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print bind/unbind calls and debug logs")
	return cmd
}
