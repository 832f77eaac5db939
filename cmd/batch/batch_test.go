package batch_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"nvv/ebh-import/cmd/batch"
	"nvv/ebh-import/internal/common"
	"nvv/ebh-import/internal/config"
	"nvv/ebh-import/internal/container"
	"nvv/ebh-import/internal/fileutils"
	"nvv/ebh-import/internal/logging"
	"nvv/ebh-import/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exportCSV = `MutatieNr,Soort,Datum,Rekening,RelatieCode,Bedrijf,Omschrijving,Bedrag,RegelOmschrijving,BTWCode,TegenrekeningCode,Prijs
201,FactuurVerstuurd,2024-01-15,1300,C001,Stichting Groen,Factuur contributie,,Hotel overnachting,GEEN,8000,80.00
202,GeldUitgegeven,2024-01-16,1010,,,Betaling aan Drukkerij Jansen BV voor flyers,-23.40,,,,
`

const exportXML = `<?xml version="1.0" encoding="utf-8"?>
<Mutaties>
  <cMutatieList>
    <MutatieNr>301</MutatieNr>
    <Soort>FactuurOntvangen</Soort>
    <Datum>2024-03-01T00:00:00</Datum>
    <RelatieCode>LEV01</RelatieCode>
    <Omschrijving>Factuur toner</Omschrijving>
    <MutatieRegels>
      <cMutatieListRegel>
        <Omschrijving>Toner zwart</Omschrijving>
        <BedragExclBTW>30.00</BedragExclBTW>
        <BedragInclBTW>36.30</BedragInclBTW>
        <BTWCode>HOOG_INK_21</BTWCode>
        <TegenrekeningCode>4300</TegenrekeningCode>
      </cMutatieListRegel>
    </MutatieRegels>
  </cMutatieList>
</Mutaties>
`

func newContainer(t *testing.T) *container.Container {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	c, err := container.NewContainerWithLogger(config.Default(), logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestBatchCommand_Metadata(t *testing.T) {
	assert.Equal(t, "batch", batch.Cmd.Use)
	assert.NotNil(t, batch.Cmd.RunE)
	assert.NotNil(t, batch.Cmd.Flags().Lookup("no-progress"))
	assert.NotNil(t, batch.Cmd.Flags().Lookup("report"))
}

func TestRun_SingleCSV(t *testing.T) {
	c := newContainer(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "mutaties.csv")
	output := filepath.Join(dir, "out", "classified.csv")
	writeFile(t, input, exportCSV)

	stats, err := batch.Run(context.Background(), c, input, output, nil)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 2, stats[0].Mutations)
	assert.Equal(t, 1, stats[0].Lines)
	assert.Equal(t, 0, stats[0].Failed)

	rows, err := common.ReadCSVFile[common.ClassifiedRow](output, ',', nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 201, rows[0].Number)
	assert.Equal(t, "Stichting Groen", rows[0].Party)
	assert.Equal(t, string(models.PartySourceRelation), rows[0].PartySource)
	assert.Equal(t, models.CategoryTravel, rows[0].Category)
	assert.Equal(t, "80.00", rows[0].UnitPrice)

	assert.Equal(t, 202, rows[1].Number)
	assert.Equal(t, "Drukkerij Jansen BV", rows[1].Party)
	assert.Equal(t, string(models.PartySupplier), rows[1].PartyType)
	assert.Equal(t, "-23.40", rows[1].Amount)
	assert.Empty(t, rows[1].Category)
}

func TestRun_DefaultOutputPath(t *testing.T) {
	c := newContainer(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "mutaties.xml")
	writeFile(t, input, exportXML)

	var progress bytes.Buffer
	stats, err := batch.Run(context.Background(), c, input, "", &progress)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.FileExists(t, fileutils.OutputPath(input, dir))
	assert.NotEmpty(t, progress.String())
}

func TestRun_Directory(t *testing.T) {
	c := newContainer(t)
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "classified")
	writeFile(t, filepath.Join(in, "a.csv"), exportCSV)
	writeFile(t, filepath.Join(in, "b.xml"), exportXML)
	writeFile(t, filepath.Join(in, "c.csv"), "Date,Amount\n2024-01-01,10\n")
	writeFile(t, filepath.Join(in, "readme.txt"), "ignored")

	stats, err := batch.Run(context.Background(), c, in, out, nil)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, 2, stats[0].Mutations)
	assert.Equal(t, 1, stats[1].Mutations)

	assert.FileExists(t, filepath.Join(out, "a-classified.csv"))
	assert.FileExists(t, filepath.Join(out, "b-classified.csv"))
	assert.NoFileExists(t, filepath.Join(out, "c-classified.csv"))
}

func TestRun_EmptyDirectory(t *testing.T) {
	stats, err := batch.Run(context.Background(), newContainer(t), t.TempDir(), "", nil)
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestRun_MissingInput(t *testing.T) {
	_, err := batch.Run(context.Background(), newContainer(t), filepath.Join(t.TempDir(), "missing.csv"), "", nil)
	assert.Error(t, err)
}

func TestRun_Cancelled(t *testing.T) {
	c := newContainer(t)
	input := filepath.Join(t.TempDir(), "mutaties.csv")
	writeFile(t, input, exportCSV)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := batch.Run(ctx, c, input, "", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadMutations(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "m.csv")
	xmlPath := filepath.Join(dir, "m.xml")
	writeFile(t, csvPath, exportCSV)
	writeFile(t, xmlPath, exportXML)

	mutations, err := batch.ReadMutations(csvPath, ',', nil)
	require.NoError(t, err)
	assert.Len(t, mutations, 2)

	mutations, err = batch.ReadMutations(xmlPath, ',', nil)
	require.NoError(t, err)
	require.Len(t, mutations, 1)
	assert.Equal(t, 301, mutations[0].Number)

	_, err = batch.ReadMutations(filepath.Join(dir, "m.json"), ',', nil)
	assert.Error(t, err)
}

func TestPrintSummary(t *testing.T) {
	s := models.NewImportStats("run-1")
	s.Record(models.ClassifiedMutation{
		PartyName:   "Stichting Groen",
		PartySource: models.PartySourceRelation,
		Lines:       []models.ClassifiedLine{{Category: models.CategoryTravel, Signal: models.SignalKeyword}},
	})

	var out bytes.Buffer
	require.NoError(t, batch.PrintSummary(&out, []*models.ImportStats{s, nil}))
	assert.Contains(t, out.String(), "Run run-1: 1 mutations, 1 lines, 0 failed")
	assert.Contains(t, out.String(), "100.0% resolved")
	assert.Contains(t, out.String(), models.CategoryTravel)
}
