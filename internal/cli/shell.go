package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

const shellPrompt = "stockkeeper> "

func (c *CLI) shellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Nested commands read confirmations from this same reader.
			in := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()

			for {
				fmt.Fprint(out, shellPrompt)
				raw, err := in.ReadString('\n')
				if err != nil && raw == "" {
					fmt.Fprintln(out)
					if errors.Is(err, io.EOF) {
						return nil
					}
					return err
				}

				line := strings.TrimSpace(raw)
				switch line {
				case "":
					continue
				case "exit", "quit":
					return nil
				}

				fields, err := splitFields(line)
				if err != nil {
					fmt.Fprintln(errOut, "error:", err)
					continue
				}
				if fields[0] == "shell" {
					fmt.Fprintln(errOut, "error: already in shell")
					continue
				}

				if err := c.Execute(cmd.Context(), fields, in, out, errOut); err != nil {
					fmt.Fprintln(errOut, "error:", err)
				}
			}
		},
	}
}

// splitFields splits a shell line on spaces, keeping double-quoted runs
// together so product names may contain spaces.
func splitFields(line string) ([]string, error) {
	var (
		fields  []string
		current strings.Builder
		quoted  bool
		started bool
	)

	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case r == ' ' && !quoted:
			if started {
				fields = append(fields, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}

	if quoted {
		return nil, fmt.Errorf("unterminated quote")
	}
	if started {
		fields = append(fields, current.String())
	}
	return fields, nil
}
