package xmlutils

// MutationXPaths contains the XPath expressions used to read e-Boekhouden
// mutation exports. Mutation and line fields are relative to their element.
type MutationXPaths struct {
	Mutation string
	Lines    string

	Fields struct {
		Number        string
		Type          string
		Date          string
		LedgerCode    string
		RelationCode  string
		InvoiceNumber string
		Description   string
		Company       string
		Contact       string
		Name          string
	}

	Line struct {
		Description string
		TaxCode     string
		AccountCode string
		AmountExcl  string
		AmountIncl  string
		AmountInput string
		Quantity    string
		Unit        string
	}
}

// DefaultMutationXPaths returns the XPath expressions of the GetMutaties
// response layout. Namespaces are ignored by the matcher, so the same paths
// serve SOAP envelopes and bare exports.
func DefaultMutationXPaths() MutationXPaths {
	x := MutationXPaths{
		Mutation: "//cMutatieList",
		Lines:    "MutatieRegels/cMutatieListRegel",
	}

	x.Fields.Number = "MutatieNr"
	x.Fields.Type = "Soort"
	x.Fields.Date = "Datum"
	x.Fields.LedgerCode = "Rekening"
	x.Fields.RelationCode = "RelatieCode"
	x.Fields.InvoiceNumber = "Factuurnummer"
	x.Fields.Description = "Omschrijving"
	x.Fields.Company = "Relatie/Bedrijf"
	x.Fields.Contact = "Relatie/Contactpersoon"
	x.Fields.Name = "Relatie/Naam"

	x.Line.Description = "Omschrijving"
	x.Line.TaxCode = "BTWCode"
	x.Line.AccountCode = "TegenrekeningCode"
	x.Line.AmountExcl = "BedragExclBTW"
	x.Line.AmountIncl = "BedragInclBTW"
	x.Line.AmountInput = "BedragInvoer"
	x.Line.Quantity = "Aantal"
	x.Line.Unit = "Eenheid"

	return x
}
