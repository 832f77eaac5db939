package xmlutils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nvv/ebh-import/internal/logging"
	"nvv/ebh-import/internal/models"
	"nvv/ebh-import/internal/parsererror"
)

const soapExport = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <GetMutatiesResponse xmlns="http://www.e-boekhouden.nl/soap">
      <GetMutatiesResult>
        <Mutaties>
          <cMutatieList>
            <MutatieNr>4711</MutatieNr>
            <Soort>FactuurOntvangen</Soort>
            <Datum>2024-03-01T00:00:00</Datum>
            <Rekening>1600</Rekening>
            <RelatieCode>LEV01</RelatieCode>
            <Factuurnummer>INV-88</Factuurnummer>
            <Omschrijving>Factuur Drukkerij Jansen</Omschrijving>
            <MutatieRegels>
              <cMutatieListRegel>
                <BedragInvoer>121.00</BedragInvoer>
                <BedragExclBTW>100.00</BedragExclBTW>
                <BedragInclBTW>121.00</BedragInclBTW>
                <BTWCode>HOOG_INK_21</BTWCode>
                <TegenrekeningCode>4400</TegenrekeningCode>
              </cMutatieListRegel>
              <cMutatieListRegel>
                <Omschrijving>Verzendkosten</Omschrijving>
                <BedragInvoer>6.05</BedragInvoer>
                <BedragInclBTW>6.05</BedragInclBTW>
                <BTWCode>GEEN</BTWCode>
                <TegenrekeningCode>4410</TegenrekeningCode>
              </cMutatieListRegel>
            </MutatieRegels>
          </cMutatieList>
          <cMutatieList>
            <MutatieNr>4712</MutatieNr>
            <Soort>GeldOntvangen</Soort>
            <Datum>2024-03-02T00:00:00</Datum>
            <Omschrijving>NL91ABNA0417164300 ABNANL2A Jan Jansen EREF 123</Omschrijving>
          </cMutatieList>
        </Mutaties>
      </GetMutatiesResult>
    </GetMutatiesResponse>
  </soap:Body>
</soap:Envelope>`

func TestGetOrEmpty(t *testing.T) {
	assert.Equal(t, "b", GetOrEmpty([]string{"a", "b"}, 1))
	assert.Equal(t, "", GetOrEmpty([]string{"a"}, 3))
	assert.Equal(t, "", GetOrEmpty(nil, 0))
	assert.Equal(t, "", GetOrEmpty([]string{"a"}, -1))
}

func TestExtractFromXML(t *testing.T) {
	root, err := ParseXML(strings.NewReader(soapExport))
	require.NoError(t, err)

	numbers, err := ExtractFromXML(root, "//cMutatieList/MutatieNr")
	require.NoError(t, err)
	assert.Equal(t, []string{"4711", "4712"}, numbers)

	_, err = ExtractFromXML(root, "//[")
	assert.Error(t, err)
}

func TestReadMutations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mutaties.xml")
	require.NoError(t, os.WriteFile(path, []byte(soapExport), 0600))

	logger := logging.NewMockLogger()
	mutations, err := ReadMutations(path, logger)
	require.NoError(t, err)
	require.Len(t, mutations, 2)

	invoice := mutations[0]
	assert.Equal(t, 4711, invoice.Number)
	assert.Equal(t, models.MutationInvoiceReceived, invoice.Type)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), invoice.Date)
	assert.Equal(t, "LEV01", invoice.RelationCode)
	assert.Equal(t, "INV-88", invoice.InvoiceNumber)
	assert.True(t, invoice.Amount.Equal(decimal.RequireFromString("127.05")), invoice.Amount.String())
	require.Len(t, invoice.Lines, 2)

	first := invoice.Lines[0]
	assert.Equal(t, "Factuur Drukkerij Jansen", first.Description)
	assert.Equal(t, "HOOG_INK_21", first.TaxCode)
	assert.Equal(t, "4400", first.AccountCode)
	assert.True(t, first.UnitPrice.Decimal.Equal(decimal.NewFromInt(100)))

	second := invoice.Lines[1]
	assert.Equal(t, "Verzendkosten", second.Description)
	assert.True(t, second.UnitPrice.Decimal.Equal(decimal.RequireFromString("6.05")))

	payment := mutations[1]
	assert.Equal(t, models.MutationMoneyReceived, payment.Type)
	assert.Empty(t, payment.Lines)
	assert.True(t, payment.Amount.IsZero())

	assert.True(t, logger.HasEntry("INFO", "Successfully read XML data"))
}

func TestRead_Errors(t *testing.T) {
	reader, err := NewMutationReader(DefaultMutationXPaths(), nil)
	require.NoError(t, err)

	_, err = reader.Read(strings.NewReader("<Mutaties></Mutaties>"), "empty.xml")
	assert.ErrorIs(t, err, parsererror.ErrEmptyInput)

	_, err = reader.Read(strings.NewReader("<Mutaties><cMutatieList"), "broken.xml")
	assert.Error(t, err)

	bad := `<Mutaties><cMutatieList><MutatieNr>1</MutatieNr><Soort>Raar</Soort></cMutatieList></Mutaties>`
	_, err = reader.Read(strings.NewReader(bad), "bad.xml")
	var parseErr *parsererror.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "Soort", parseErr.Field)
	assert.Equal(t, "bad.xml", parseErr.Source)

	_, err = ReadMutations(filepath.Join(t.TempDir(), "missing.xml"), nil)
	assert.Error(t, err)
}

func TestNewMutationReader_InvalidXPath(t *testing.T) {
	xpaths := DefaultMutationXPaths()
	xpaths.Mutation = "//["
	_, err := NewMutationReader(xpaths, nil)
	assert.Error(t, err)
}
