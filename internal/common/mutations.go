package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"nvv/ebh-import/internal/currencyutils"
	"nvv/ebh-import/internal/dateutils"
	"nvv/ebh-import/internal/models"
	"nvv/ebh-import/internal/parsererror"
)

// MutationRow is one line of a mutation CSV export. Rows sharing a
// MutatieNr belong to the same mutation; the mutation columns are taken from
// the first of them.
type MutationRow struct {
	Number          string `csv:"MutatieNr"`
	Type            string `csv:"Soort"`
	Date            string `csv:"Datum"`
	LedgerCode      string `csv:"Rekening"`
	RelationCode    string `csv:"RelatieCode"`
	Company         string `csv:"Bedrijf"`
	Contact         string `csv:"Contactpersoon"`
	Name            string `csv:"Naam"`
	InvoiceNumber   string `csv:"Factuurnummer"`
	Description     string `csv:"Omschrijving"`
	Amount          string `csv:"Bedrag"`
	LineDescription string `csv:"RegelOmschrijving"`
	TaxCode         string `csv:"BTWCode"`
	AccountCode     string `csv:"TegenrekeningCode"`
	UnitPrice       string `csv:"Prijs"`
	Quantity        string `csv:"Aantal"`
	Unit            string `csv:"Eenheid"`
}

func (r MutationRow) hasLine() bool {
	return strings.TrimSpace(r.LineDescription) != "" ||
		strings.TrimSpace(r.TaxCode) != "" ||
		strings.TrimSpace(r.AccountCode) != "" ||
		strings.TrimSpace(r.UnitPrice) != ""
}

// RowsToMutations groups rows by mutation number, in order of first
// appearance, and converts them into mutations. source names the input in
// parse errors.
func RowsToMutations(rows []MutationRow, source string) ([]models.Mutation, error) {
	var mutations []models.Mutation
	index := make(map[int]int)
	explicitAmount := make(map[int]bool)

	for i, row := range rows {
		rowNr := i + 2 // header is line 1
		fail := func(field, value string, err error) error {
			return &parsererror.ParseError{Source: source, Row: rowNr, Field: field, Value: value, Err: err}
		}

		number, err := strconv.Atoi(strings.TrimSpace(row.Number))
		if err != nil {
			return nil, fail("MutatieNr", row.Number, err)
		}

		pos, seen := index[number]
		if !seen {
			m, hasAmount, err := mutationFromRow(number, row, fail)
			if err != nil {
				return nil, err
			}
			pos = len(mutations)
			index[number] = pos
			explicitAmount[pos] = hasAmount
			mutations = append(mutations, m)
		}

		if !row.hasLine() {
			continue
		}
		line, err := lineFromRow(row, mutations[pos].Description, fail)
		if err != nil {
			return nil, err
		}
		mutations[pos].Lines = append(mutations[pos].Lines, line)
	}

	if len(mutations) == 0 {
		return nil, parsererror.ErrEmptyInput
	}

	for pos := range mutations {
		if !explicitAmount[pos] {
			mutations[pos].Amount = LinesTotal(mutations[pos].Lines)
		}
	}
	return mutations, nil
}

func mutationFromRow(number int, row MutationRow, fail func(string, string, error) error) (models.Mutation, bool, error) {
	mutationType, err := models.ParseMutationType(row.Type)
	if err != nil {
		return models.Mutation{}, false, fail("Soort", row.Type, err)
	}

	m := models.Mutation{
		Number:        number,
		Type:          mutationType,
		Description:   strings.TrimSpace(row.Description),
		RelationCode:  strings.TrimSpace(row.RelationCode),
		InvoiceNumber: strings.TrimSpace(row.InvoiceNumber),
		LedgerCode:    strings.TrimSpace(row.LedgerCode),
		Relation: models.Relation{
			Company: strings.TrimSpace(row.Company),
			Contact: strings.TrimSpace(row.Contact),
			Name:    strings.TrimSpace(row.Name),
		},
	}

	if strings.TrimSpace(row.Date) != "" {
		date, _, err := dateutils.ParseDate(row.Date)
		if err != nil {
			return models.Mutation{}, false, fail("Datum", row.Date, err)
		}
		m.Date = date
	}

	amount, err := currencyutils.ParseOptionalAmount(row.Amount)
	if err != nil {
		return models.Mutation{}, false, fail("Bedrag", row.Amount, err)
	}
	m.Amount = amount.Decimal
	return m, amount.Valid, nil
}

func lineFromRow(row MutationRow, fallbackDescription string, fail func(string, string, error) error) (models.LineItem, error) {
	price, err := currencyutils.ParseOptionalAmount(row.UnitPrice)
	if err != nil {
		return models.LineItem{}, fail("Prijs", row.UnitPrice, err)
	}

	quantity := decimal.NewFromInt(1)
	if strings.TrimSpace(row.Quantity) != "" {
		quantity, err = currencyutils.ParseAmount(row.Quantity)
		if err != nil {
			return models.LineItem{}, fail("Aantal", row.Quantity, err)
		}
	}

	description := strings.TrimSpace(row.LineDescription)
	if description == "" {
		description = fallbackDescription
	}

	return models.LineItem{
		Description: description,
		TaxCode:     strings.TrimSpace(row.TaxCode),
		AccountCode: strings.TrimSpace(row.AccountCode),
		UnitPrice:   price,
		Quantity:    quantity,
		Unit:        strings.TrimSpace(row.Unit),
	}, nil
}

// LinesTotal sums unit price times quantity over lines that carry a price.
func LinesTotal(lines []models.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if l.UnitPrice.Valid {
			total = total.Add(l.UnitPrice.Decimal.Mul(l.Quantity))
		}
	}
	return total
}

// ClassifiedRow is one line of the classification CSV output. A mutation
// without lines produces a single row with an empty line number.
type ClassifiedRow struct {
	Number          int    `csv:"mutation_nr"`
	Type            string `csv:"type"`
	Date            string `csv:"date"`
	Reference       string `csv:"reference"`
	Description     string `csv:"description"`
	RelationCode    string `csv:"relation_code"`
	Amount          string `csv:"amount"`
	Party           string `csv:"party"`
	PartyType       string `csv:"party_type"`
	PartySource     string `csv:"party_source"`
	Provisional     bool   `csv:"provisional"`
	Line            string `csv:"line"`
	LineDescription string `csv:"line_description"`
	TaxCode         string `csv:"tax_code"`
	AccountCode     string `csv:"account_code"`
	UnitPrice       string `csv:"unit_price"`
	Category        string `csv:"category"`
	Signal          string `csv:"signal"`
	PriceClass      string `csv:"price_class"`
	ItemCode        string `csv:"item_code"`
	ItemName        string `csv:"item_name"`
	UOM             string `csv:"uom"`
	BankCost        bool   `csv:"bank_cost"`
	Error           string `csv:"error"`
}

// ToClassifiedRows flattens classified mutations into output rows.
// referencePrefix is used for the mutation reference column.
func ToClassifiedRows(results []models.ClassifiedMutation, referencePrefix string) []ClassifiedRow {
	rows := make([]ClassifiedRow, 0, len(results))
	for _, cm := range results {
		base := ClassifiedRow{
			Number:       cm.Mutation.Number,
			Type:         cm.Mutation.Type.String(),
			Date:         dateutils.ToISODate(cm.Mutation.Date),
			Reference:    cm.Mutation.Reference(referencePrefix),
			Description:  cm.Mutation.Description,
			RelationCode: cm.Mutation.RelationCode,
			Amount:       currencyutils.FormatAmount(cm.Mutation.Amount),
			Party:        cm.PartyName,
			PartyType:    string(cm.PartyType),
			PartySource:  string(cm.PartySource),
			Provisional:  cm.Provisional,
		}
		if cm.Err != nil {
			base.Error = cm.Err.Error()
		}

		if len(cm.Lines) == 0 {
			rows = append(rows, base)
			continue
		}
		for i, line := range cm.Lines {
			row := base
			row.Line = fmt.Sprint(i + 1)
			row.LineDescription = line.Description
			row.TaxCode = line.TaxCode
			row.AccountCode = line.AccountCode
			row.UnitPrice = currencyutils.FormatOptionalAmount(line.UnitPrice)
			row.Category = line.Category
			row.Signal = string(line.Signal)
			row.PriceClass = string(line.PriceClass)
			row.ItemCode = line.ItemCode
			row.ItemName = line.ItemName
			row.UOM = line.UOM
			row.BankCost = line.BankCost
			rows = append(rows, row)
		}
	}
	return rows
}
