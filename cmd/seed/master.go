package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
	"github.com/assistidads/assist-lead-hub-sub000/pkg/logger"
	"github.com/urfave/cli/v2"
)

var defaultMasterData = map[domain.ReferenceKind][]domain.ReferenceItem{
	domain.ReferenceStatuses: {
		{Name: "Prospek", Kind: domain.StatusKindProspect},
		{Name: "Dihubungi", Kind: domain.StatusKindContacted},
		{Name: "Leads", Kind: domain.StatusKindConverted},
		{Name: "Bukan Leads", Kind: domain.StatusKindRejected},
	},
	domain.ReferenceSources: {
		{Name: "Meta Ads"},
		{Name: "Google Ads"},
		{Name: "Website"},
		{Name: "Referral"},
		{Name: "Event"},
	},
	domain.ReferenceServices: {
		{Name: "SIMRS"},
		{Name: "Klinik"},
		{Name: "Konsultasi"},
	},
	domain.ReferenceFacilityTypes: {
		{Name: "Rumah Sakit"},
		{Name: "Klinik"},
		{Name: "Puskesmas"},
		{Name: "Apotek"},
	},
	domain.ReferenceRejectionReasons: {
		{Name: "Harga tidak sesuai"},
		{Name: "Sudah memakai vendor lain"},
		{Name: "Tidak ada kebutuhan"},
		{Name: "Tidak bisa dihubungi"},
	},
}

// masterKinds fixes the seeding order.
var masterKinds = []domain.ReferenceKind{
	domain.ReferenceStatuses,
	domain.ReferenceSources,
	domain.ReferenceAdCodes,
	domain.ReferenceServices,
	domain.ReferenceFacilityTypes,
	domain.ReferenceRejectionReasons,
	domain.ReferenceAgents,
}

func runMasterSeed(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}
	dataDir := c.String("data-dir")

	logger.Log.Info().Str("data_dir", dataDir).Msg("Starting master data seeding...")

	for _, kind := range masterKinds {
		items, source, err := loadMasterItems(dataDir, kind)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			continue
		}

		n, err := db.SeedReferences(c.Context, kind, items)
		if err != nil {
			return fmt.Errorf("failed to seed %s: %w", kind, err)
		}
		logger.Log.Info().Str("kind", string(kind)).Str("source", source).Int("inserted", n).Int("rows", len(items)).Msg("Seeded reference data")
	}

	logger.Log.Info().Msg("Master data seeding completed successfully!")
	return nil
}

// loadMasterItems reads <dataDir>/<kind>.csv, falling back to the built-in
// defaults when the file does not exist.
func loadMasterItems(dataDir string, kind domain.ReferenceKind) ([]domain.ReferenceItem, string, error) {
	path := filepath.Join(dataDir, string(kind)+".csv")
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return defaultMasterData[kind], "defaults", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	items, err := readMasterCSV(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return items, path, nil
}

// readMasterCSV expects a header with a "name" (or "label") column and an
// optional "kind" column used by statuses.
func readMasterCSV(r io.Reader) ([]domain.ReferenceItem, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	nameIdx, kindIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "name", "label":
			nameIdx = i
		case "kind":
			kindIdx = i
		}
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("missing name column in header %v", header)
	}

	var items []domain.ReferenceItem
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		if nameIdx >= len(record) {
			continue
		}

		name := strings.TrimSpace(record[nameIdx])
		if name == "" {
			continue
		}
		item := domain.ReferenceItem{Name: name}
		if kindIdx >= 0 && kindIdx < len(record) {
			if k, ok := domain.ParseStatusKind(record[kindIdx]); ok {
				item.Kind = k
			}
		}
		items = append(items, item)
	}
	return items, nil
}
