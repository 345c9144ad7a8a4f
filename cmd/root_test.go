package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/fransbot/internal/bot"
	"github.com/example/fransbot/internal/database"
	"github.com/example/fransbot/internal/excel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = "sentence,answer,tense,verb\n" +
	"Je ___ au marché.,vais,présent,aller\n" +
	"Nous ___ au parc.,allions,imparfait,aller\n"

func writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "verbs.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0644))
	return path
}

func newItemRepository(t *testing.T) *database.ItemRepository {
	t.Helper()
	db, err := database.Connect(database.Config{Type: database.TypeSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return database.NewItemRepository(db)
}

func execute(t *testing.T, input string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestLoadItemsFallsBackToBuiltIn(t *testing.T) {
	items, err := loadItems(context.Background(), bot.DefaultConfig(), newItemRepository(t))
	require.NoError(t, err)
	assert.Equal(t, excel.FallbackItems(), items)
}

func TestLoadItemsStoresDataFile(t *testing.T) {
	ctx := context.Background()
	repo := newItemRepository(t)

	config := bot.DefaultConfig()
	config.DataFile = writeCSV(t)
	items, err := loadItems(ctx, config, repo)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	stored, err := loadItems(ctx, bot.DefaultConfig(), repo)
	require.NoError(t, err)
	assert.Equal(t, items, stored)
}

func TestLoadItemsMissingDataFile(t *testing.T) {
	config := bot.DefaultConfig()
	config.DataFile = filepath.Join(t.TempDir(), "missing.xlsx")

	_, err := loadItems(context.Background(), config, newItemRepository(t))
	assert.Error(t, err)
}

func TestImportAndListVerbs(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fransbot.db")

	out := execute(t, "", "import", writeCSV(t), "--db", dbPath)
	assert.Contains(t, out, "Imported 2 sentences (2 rows processed, 0 skipped).")

	out = execute(t, "", "verbs", "--db", dbPath)
	assert.Contains(t, out, "aller")
	assert.Contains(t, out, "présent, imparfait")
}

func TestDrillCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fransbot.db")

	out := execute(t, "fais\n:quit\n", "drill", "--db", dbPath, "--verb", "faire", "--tense", "présent", "--seed", "3")
	assert.Contains(t, out, "Qu'est-ce que tu ___ ?")
	assert.Contains(t, out, "Score: 1 / 1")
}
