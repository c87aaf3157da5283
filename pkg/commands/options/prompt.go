package options

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// InteractiveOptions
type InteractiveOptions struct {
	Interactive bool
}

func AddInteractiveArg(cmd *cobra.Command, o *InteractiveOptions) {
	cmd.Flags().BoolVarP(&o.Interactive, "interactive", "i", false,
		"Prompt for values not given as flags.")
}

// Missing returns the flags named in names that were not set on the command
// line, in the order given.
func Missing(flags *pflag.FlagSet, names ...string) []*pflag.Flag {
	var out []*pflag.Flag
	for _, name := range names {
		f := flags.Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		out = append(out, f)
	}
	return out
}

// PromptMissing asks for each flag in names not set on the command line.
// Flags in required must be answered.
func PromptMissing(cmd *cobra.Command, names []string, required ...string) error {
	need := map[string]bool{}
	for _, r := range required {
		need[r] = true
	}
	for _, f := range Missing(cmd.Flags(), names...) {
		value, err := promptFlag(cmd, f, need[f.Name])
		if err != nil {
			return err
		}
		if value == "" {
			continue
		}
		if err := cmd.Flags().Set(f.Name, value); err != nil {
			return err
		}
	}
	return nil
}

func asFlag(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("--%s, -%s", f.Name, f.Shorthand)
	}
	return fmt.Sprintf("--%s", f.Name)
}

func promptFlag(cmd *cobra.Command, f *pflag.Flag, required bool) (string, error) {
	validate := func(input string) error {
		if required && strings.TrimSpace(input) == "" {
			return errors.New("required")
		}
		return nil
	}

	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }} : ",
		Valid:   "{{ . | green }} : ",
		Invalid: "{{ . | red }} : ",
		Success: "{{ . | bold }} : ",
	}

	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("%s (%s)", f.Usage, asFlag(f)),
		Default:   f.DefValue,
		Templates: templates,
		Validate:  validate,
		Stdin:     io.NopCloser(cmd.InOrStdin()),
		Stdout:    nopWriteCloser{cmd.OutOrStdout()},
	}

	result, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return strings.TrimSpace(result), nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
