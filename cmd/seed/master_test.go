package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
)

func TestReadMasterCSV(t *testing.T) {
	t.Parallel()

	input := "label,kind\nProspek,prospect\n  ,\nFollow Up\nClosing Leads,bogus\n"
	items, err := readMasterCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []domain.ReferenceItem{
		{Name: "Prospek", Kind: domain.StatusKindProspect},
		{Name: "Follow Up"},
		{Name: "Closing Leads"},
	}, items)
}

func TestReadMasterCSV_MissingNameColumn(t *testing.T) {
	t.Parallel()

	_, err := readMasterCSV(strings.NewReader("code\nA\n"))
	assert.Error(t, err)
}

func TestLoadMasterItems(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ad_codes.csv"), []byte("name\nAD-OKT-01\nAD-OKT-02\n"), 0o644))

	items, source, err := loadMasterItems(dir, domain.ReferenceAdCodes)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ad_codes.csv"), source)
	assert.Len(t, items, 2)

	items, source, err = loadMasterItems(dir, domain.ReferenceSources)
	require.NoError(t, err)
	assert.Equal(t, "defaults", source)
	assert.Equal(t, defaultMasterData[domain.ReferenceSources], items)

	items, _, err = loadMasterItems(dir, domain.ReferenceAgents)
	require.NoError(t, err)
	assert.Empty(t, items)
}
