package xmlutils

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/xmlpath.v2"

	"nvv/ebh-import/internal/common"
	"nvv/ebh-import/internal/currencyutils"
	"nvv/ebh-import/internal/logging"
	"nvv/ebh-import/internal/models"
	"nvv/ebh-import/internal/parsererror"
)

// MutationReader reads mutations from XML exports.
type MutationReader struct {
	logger logging.Logger

	mutation, lines compiledPath
	fields          []fieldPath
	lineFields      []fieldPath
	amountIncl      compiledPath
}

type fieldPath struct {
	compiledPath
	set func(row *common.MutationRow, v string)
}

// NewMutationReader compiles xpaths into a reader.
func NewMutationReader(xpaths MutationXPaths, logger logging.Logger) (*MutationReader, error) {
	r := &MutationReader{logger: logging.OrNop(logger)}
	var err error
	if r.mutation, err = compile(xpaths.Mutation); err != nil {
		return nil, err
	}
	if r.lines, err = compile(xpaths.Lines); err != nil {
		return nil, err
	}
	if r.amountIncl, err = compile(xpaths.Line.AmountIncl); err != nil {
		return nil, err
	}

	f := xpaths.Fields
	mutationFields := []struct {
		expr string
		set  func(*common.MutationRow, string)
	}{
		{f.Number, func(row *common.MutationRow, v string) { row.Number = v }},
		{f.Type, func(row *common.MutationRow, v string) { row.Type = v }},
		{f.Date, func(row *common.MutationRow, v string) { row.Date = v }},
		{f.LedgerCode, func(row *common.MutationRow, v string) { row.LedgerCode = v }},
		{f.RelationCode, func(row *common.MutationRow, v string) { row.RelationCode = v }},
		{f.InvoiceNumber, func(row *common.MutationRow, v string) { row.InvoiceNumber = v }},
		{f.Description, func(row *common.MutationRow, v string) { row.Description = v }},
		{f.Company, func(row *common.MutationRow, v string) { row.Company = v }},
		{f.Contact, func(row *common.MutationRow, v string) { row.Contact = v }},
		{f.Name, func(row *common.MutationRow, v string) { row.Name = v }},
	}
	for _, mf := range mutationFields {
		p, err := compile(mf.expr)
		if err != nil {
			return nil, err
		}
		r.fields = append(r.fields, fieldPath{compiledPath: p, set: mf.set})
	}

	l := xpaths.Line
	lineFields := []struct {
		expr string
		set  func(*common.MutationRow, string)
	}{
		{l.Description, func(row *common.MutationRow, v string) { row.LineDescription = v }},
		{l.TaxCode, func(row *common.MutationRow, v string) { row.TaxCode = v }},
		{l.AccountCode, func(row *common.MutationRow, v string) { row.AccountCode = v }},
		// The net amount overrides the entered amount.
		{l.AmountInput, func(row *common.MutationRow, v string) { row.UnitPrice = v }},
		{l.AmountExcl, func(row *common.MutationRow, v string) { row.UnitPrice = v }},
		{l.Quantity, func(row *common.MutationRow, v string) { row.Quantity = v }},
		{l.Unit, func(row *common.MutationRow, v string) { row.Unit = v }},
	}
	for _, lf := range lineFields {
		p, err := compile(lf.expr)
		if err != nil {
			return nil, err
		}
		r.lineFields = append(r.lineFields, fieldPath{compiledPath: p, set: lf.set})
	}

	return r, nil
}

// ReadFile reads the mutations of an XML export file.
func (r *MutationReader) ReadFile(path string) ([]models.Mutation, error) {
	r.logger.Info("Reading XML file", logging.Field{Key: logging.FieldFile, Value: path})
	root, err := LoadXMLFile(path, r.logger)
	if err != nil {
		return nil, err
	}
	mutations, err := r.fromNode(root, path)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Successfully read XML data", logging.Field{Key: logging.FieldCount, Value: len(mutations)})
	return mutations, nil
}

// Read reads the mutations of an XML export from in. source names the input
// in parse errors.
func (r *MutationReader) Read(in io.Reader, source string) ([]models.Mutation, error) {
	root, err := ParseXML(in)
	if err != nil {
		return nil, err
	}
	return r.fromNode(root, source)
}

// fromNode flattens every mutation element into one row per line and
// converts the rows like a CSV export. Parse errors report the position of
// the flattened line as the row.
func (r *MutationReader) fromNode(root *xmlpath.Node, source string) ([]models.Mutation, error) {
	var rows []common.MutationRow

	iter := r.mutation.path.Iter(root)
	for iter.Next() {
		node := iter.Node()
		var head common.MutationRow
		for _, f := range r.fields {
			if v := f.value(node); v != "" {
				f.set(&head, v)
			}
		}

		gross := decimal.Zero
		hasGross := false
		lineCount := 0
		lines := r.lines.path.Iter(node)
		for lines.Next() {
			lineNode := lines.Node()
			row := head
			for _, f := range r.lineFields {
				if v := f.value(lineNode); v != "" {
					f.set(&row, v)
				}
			}
			if v := r.amountIncl.value(lineNode); v != "" {
				amount, err := currencyutils.ParseAmount(v)
				if err != nil {
					return nil, &parsererror.ParseError{Source: source, Row: len(rows) + 2, Field: r.amountIncl.expr, Value: v, Err: err}
				}
				gross = gross.Add(amount)
				hasGross = true
			}
			rows = append(rows, row)
			lineCount++
		}

		if lineCount == 0 {
			rows = append(rows, head)
			continue
		}
		if hasGross {
			for i := len(rows) - lineCount; i < len(rows); i++ {
				rows[i].Amount = gross.String()
			}
		}
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", source, parsererror.ErrEmptyInput)
	}
	return common.RowsToMutations(rows, source)
}

// ReadMutations reads an XML export with the default layout.
func ReadMutations(path string, logger logging.Logger) ([]models.Mutation, error) {
	reader, err := NewMutationReader(DefaultMutationXPaths(), logger)
	if err != nil {
		return nil, err
	}
	return reader.ReadFile(path)
}
