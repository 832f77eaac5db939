// Package parties handles the party registry commands
package parties

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"nvv/ebh-import/cmd/root"
	"nvv/ebh-import/internal/party"
	"nvv/ebh-import/internal/registry"
)

// Options holds the parties command flags
type Options struct {
	Limit  int
	Enrich string
	Name   string
}

var opts Options

// Cmd represents the parties command
var Cmd = &cobra.Command{
	Use:   "parties",
	Short: "List and enrich provisional parties",
	Long: `List the provisional parties created during imports, or assign a real
name to one of them with --enrich <id> --name <name>.

The party registry must be enabled (registry.enabled: true).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("container not initialized")
		}
		reg := c.GetRegistry()
		if reg == nil {
			return fmt.Errorf("party registry is disabled, set registry.enabled or EBH_REGISTRY_ENABLED")
		}
		return Run(cmd.Context(), reg, cmd.OutOrStdout(), opts)
	},
}

func init() {
	Cmd.Flags().IntVar(&opts.Limit, "limit", 50, "Maximum number of parties to list")
	Cmd.Flags().StringVar(&opts.Enrich, "enrich", "", "ID of the provisional party to enrich")
	Cmd.Flags().StringVar(&opts.Name, "name", "", "New name for the party given with --enrich")
}

// Run lists provisional parties, or enriches one when o.Enrich is set.
func Run(ctx context.Context, reg *registry.Repository, out io.Writer, o Options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if o.Enrich != "" {
		if strings.TrimSpace(o.Name) == "" {
			return fmt.Errorf("--name is required with --enrich")
		}
		if party.IsProvisionalName(strings.TrimSpace(o.Name)) {
			return fmt.Errorf("--name %q is a placeholder name", o.Name)
		}
		rec, err := reg.Enrich(ctx, o.Enrich, o.Name)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "Enriched %s: %s\n", rec.ID, rec.Name)
		return err
	}

	records, err := reg.ListProvisional(ctx, o.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		_, err := fmt.Fprintln(out, "No provisional parties")
		return err
	}
	for _, rec := range records {
		if _, err := fmt.Fprintf(out, "%s  %-8s  %-10s  %s\n",
			rec.ID, rec.PartyType, rec.RelationCode, rec.Name); err != nil {
			return err
		}
	}

	total, err := reg.Count(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%d provisional shown, %d parties registered\n", len(records), total)
	return err
}
