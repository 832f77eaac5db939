// Package rules handles the rule table commands
package rules

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"nvv/ebh-import/cmd/root"
	"nvv/ebh-import/internal/logging"
	rulespkg "nvv/ebh-import/internal/rules"
	"nvv/ebh-import/internal/store"
)

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and validate the classification rule tables",
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the effective rule tables as YAML",
	Long: `Write the effective rule tables, built-in defaults overlaid with the
configured rules file, as YAML to --output or to standard output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("container not initialized")
		}
		return Export(c.GetStore(), c.GetRules().RuleSet(), root.SharedFlags.Output, cmd.OutOrStdout())
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Load and compile a rules file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := root.SharedFlags.Input
		if len(args) == 1 {
			file = args[0]
		}
		if file == "" {
			return fmt.Errorf("a rules file must be given as argument or with --input")
		}
		return Validate(file, cmd.OutOrStdout(), root.GetLogger())
	},
}

func init() {
	Cmd.AddCommand(exportCmd)
	Cmd.AddCommand(validateCmd)
}

// Export writes rs to path, or as YAML to out when path is empty.
func Export(s *store.RuleStore, rs rulespkg.RuleSet, path string, out io.Writer) error {
	if path != "" {
		if err := s.Save(rs, path); err != nil {
			return err
		}
		_, err := fmt.Fprintf(out, "Rules written to %s\n", path)
		return err
	}

	data, err := yaml.Marshal(rs)
	if err != nil {
		return fmt.Errorf("error marshaling rules: %w", err)
	}
	_, err = out.Write(data)
	return err
}

// Validate loads and compiles the rules file at path and reports the size
// of each table.
func Validate(path string, out io.Writer, logger logging.Logger) error {
	s := store.NewRuleStore(path, logger)
	compiled, err := s.LoadCompiled()
	if err != nil {
		return err
	}

	rs := compiled.RuleSet()
	_, err = fmt.Fprintf(out,
		"%s is valid: %d keyword rules, %d tax codes, %d account ranges, %d price bands, %d extraction patterns\n",
		path, len(rs.Keywords), len(rs.TaxCodes), len(rs.AccountRanges), len(rs.PriceBands),
		len(rs.Party.ExtractionPatterns))
	return err
}
