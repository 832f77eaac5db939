// Package categorize handles line item categorization commands
package categorize

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"nvv/ebh-import/cmd/root"
	"nvv/ebh-import/internal/categorizer"
	"nvv/ebh-import/internal/currencyutils"
	"nvv/ebh-import/internal/logging"
	"nvv/ebh-import/internal/models"
)

// Options holds the categorize command flags
type Options struct {
	Description string
	TaxCode     string
	Account     string
	Price       string
	Explain     bool
}

var opts Options

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a single line item",
	Long: `Categorize a single line item from its description, tax code, ledger account
and unit price. Keywords win over tax codes, tax codes over account ranges and
account ranges over price bands; anything else is "Services".`,
	Example: `  ebh-import categorize -d "Printerpapier A4" -t HOOG_VERK_21 -p 12.50
  ebh-import categorize -d "Jaarabonnement" -a 4600-Contributies --explain`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("container not initialized")
		}
		return Run(c.GetCategorizer(), cmd.OutOrStdout(), opts, c.GetLogger())
	},
}

func init() {
	Cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "Line item description")
	Cmd.Flags().StringVarP(&opts.TaxCode, "tax-code", "t", "", "Tax code (optional)")
	Cmd.Flags().StringVarP(&opts.Account, "account", "a", "", "Ledger account code, e.g. 4600-Contributies (optional)")
	Cmd.Flags().StringVarP(&opts.Price, "price", "p", "", "Unit price (optional)")
	Cmd.Flags().BoolVar(&opts.Explain, "explain", false, "Print the deciding signal and every strategy result")
}

// Run categorizes the line item described by o and writes the result to out.
func Run(cat *categorizer.Categorizer, out io.Writer, o Options, logger logging.Logger) error {
	price, err := currencyutils.ParseOptionalAmount(o.Price)
	if err != nil {
		return fmt.Errorf("invalid price %q: %w", o.Price, err)
	}

	item := models.LineItem{
		Description: o.Description,
		TaxCode:     o.TaxCode,
		AccountCode: o.Account,
		UnitPrice:   price,
	}

	if !o.Explain {
		category := cat.Categorize(item)
		logger.Debug("Categorized line item",
			logging.Field{Key: logging.FieldCategory, Value: category})
		_, err := fmt.Fprintln(out, category)
		return err
	}

	explanation := cat.Explain(item)
	if _, err := fmt.Fprintf(out, "Category: %s\nSignal:   %s\n", explanation.Category, explanation.Signal); err != nil {
		return err
	}
	if explanation.Evidence != "" {
		if _, err := fmt.Fprintf(out, "Evidence: %s\n", explanation.Evidence); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(out, "Trace:    %s\n", explanation.Trace.Summary())
	return err
}
