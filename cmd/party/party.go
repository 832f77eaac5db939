// Package party handles counterparty extraction commands
package party

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"nvv/ebh-import/cmd/root"
	"nvv/ebh-import/internal/container"
	"nvv/ebh-import/internal/logging"
	"nvv/ebh-import/internal/models"
	partypkg "nvv/ebh-import/internal/party"
)

// Options holds the party command flags
type Options struct {
	Description  string
	MutationType string
	RelationCode string
	MutationNr   int
}

var opts Options

// Cmd represents the party command
var Cmd = &cobra.Command{
	Use:   "party",
	Short: "Extract the counterparty from a description",
	Long: `Extract the counterparty name from a free-text mutation description and
determine whether it is a customer or a supplier.

With --relation the display name used for new parties is printed as well.`,
	Example: `  ebh-import party --description "Betaling aan Drukkerij Jansen BV voor flyers" --type 6
  ebh-import party --description "Contributie 2024" --relation 1042 --mutation 881`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("container not initialized")
		}
		return Run(c, cmd.OutOrStdout(), opts)
	},
}

func init() {
	Cmd.Flags().StringVar(&opts.Description, "description", "", "Mutation description")
	Cmd.Flags().StringVar(&opts.MutationType, "type", "", "Mutation type code (1-7) or name, e.g. GeldUitgegeven")
	Cmd.Flags().StringVar(&opts.RelationCode, "relation", "", "Relation code of the party (optional)")
	Cmd.Flags().IntVar(&opts.MutationNr, "mutation", 0, "Mutation number used in the display name (optional)")
	_ = Cmd.MarkFlagRequired("description")
}

// Run extracts the party described by o and writes the result to out.
func Run(c *container.Container, out io.Writer, o Options) error {
	direction := models.DirectionUnknown
	if strings.TrimSpace(o.MutationType) != "" {
		mt, err := models.ParseMutationType(o.MutationType)
		if err != nil {
			return err
		}
		direction = mt.Direction()
	}

	pt := c.GetTypeResolver().Determine(direction, o.Description)
	name, ok := c.GetExtractor().Name(o.Description)
	if !ok {
		name = "(none)"
	}

	c.GetLogger().Debug("Resolved party from description",
		logging.Field{Key: logging.FieldParty, Value: name},
		logging.Field{Key: logging.FieldPartyType, Value: pt})

	if _, err := fmt.Fprintf(out, "Party:        %s\nParty type:   %s\n", name, pt); err != nil {
		return err
	}

	code := strings.TrimSpace(o.RelationCode)
	if code == "" {
		return nil
	}
	display := c.GetNamer().MeaningfulName(pt, code, o.Description, models.Relation{}, o.MutationNr)
	_, err := fmt.Fprintf(out, "Display name: %s\nProvisional:  %s\n", display, partypkg.ProvisionalName(pt, code))
	return err
}
