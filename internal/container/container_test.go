package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nvv/ebh-import/internal/config"
	"nvv/ebh-import/internal/logging"
	"nvv/ebh-import/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	return config.Default()
}

func TestNewContainer_NilConfig(t *testing.T) {
	_, err := NewContainer(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration cannot be nil")

	_, err = NewContainerWithLogger(nil, nil)
	assert.Error(t, err)
}

func TestNewContainer_Defaults(t *testing.T) {
	cfg := testConfig(t)
	logger := logging.NewMockLogger()

	c, err := NewContainerWithLogger(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.Equal(t, cfg, c.GetConfig())
	assert.Equal(t, logger, c.GetLogger())
	assert.NotNil(t, c.GetStore())
	assert.NotNil(t, c.GetRules())
	assert.NotNil(t, c.GetCategorizer())
	assert.NotNil(t, c.GetExtractor())
	assert.NotNil(t, c.GetNamer())
	assert.NotNil(t, c.GetTypeResolver())
	assert.Nil(t, c.GetRegistry())
	assert.Nil(t, c.GetSuggester())
	assert.True(t, logger.HasEntry("DEBUG", "AI name suggestion disabled"))

	assert.Equal(t, models.CategoryServices, c.GetCategorizer().Categorize(models.LineItem{Description: "zzz"}))
}

func TestNewContainer_WithRegistry(t *testing.T) {
	cfg := testConfig(t)
	cfg.Registry.Enabled = true
	cfg.Registry.DSN = filepath.Join(t.TempDir(), "db", "parties.db")

	c, err := NewContainerWithLogger(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, c.GetRegistry())

	p, err := c.NewProcessor(nil)
	require.NoError(t, err)
	result := p.Process(context.Background(), models.Mutation{
		Number: 1, Type: models.MutationInvoiceSent, RelationCode: "C1", Description: "Betaling",
	})
	assert.Equal(t, "E-Boekhouden Customer C1", result.PartyName)

	n, err := c.GetRegistry().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, c.Close())
	assert.FileExists(t, cfg.Registry.DSN)
}

func TestNewContainer_InvalidRulesFile(t *testing.T) {
	cfg := testConfig(t)
	rulesFile := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(rulesFile, []byte("party:\n  extraction_patterns: ['(unclosed']\n"), 0600))
	cfg.Rules.File = rulesFile

	_, err := NewContainerWithLogger(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load rules")
}

func TestNewContainer_MissingRulesFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Rules.File = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := NewContainerWithLogger(cfg, nil)
	assert.Error(t, err)
}

func TestContainer_CSVDelimiter(t *testing.T) {
	cfg := testConfig(t)
	c, err := NewContainerWithLogger(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, ',', c.CSVDelimiter())

	cfg.CSV.Delimiter = ";"
	assert.Equal(t, ';', c.CSVDelimiter())
}
