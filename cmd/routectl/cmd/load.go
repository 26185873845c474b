package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/Khoshkhah/h3-routing-platform/pkg/catalog"
	"github.com/Khoshkhah/h3-routing-platform/pkg/dsinfo"
	"github.com/Khoshkhah/h3-routing-platform/pkg/store"
)

var (
	loadName       string
	loadStorePath  string
	loadDistrict   string
	loadDsinfoPath string
	loadCatalogDSN string
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Parse a binary store and record it as loaded",
	Long: `load reads a dataset's binary store to confirm it parses, prints its
edge/shortcut counts, and — when --dsinfo or --catalog-dsn is given —
records the dataset as loaded in that registry. routectl has no
persistent daemon state of its own; each invocation is a standalone
validation plus a bookkeeping write to whichever registries it is
pointed at.`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadName, "name", "", "dataset name to record")
	loadCmd.Flags().StringVar(&loadStorePath, "store", "", "path to the binary store file")
	loadCmd.Flags().StringVar(&loadDistrict, "district", "", "district label to record (defaults to --name)")
	loadCmd.Flags().StringVar(&loadDsinfoPath, "dsinfo", "", "optional sqlite path to record this load in pkg/dsinfo")
	loadCmd.Flags().StringVar(&loadCatalogDSN, "catalog-dsn", "", "optional Postgres DSN to record this load in pkg/catalog")
	loadCmd.MarkFlagRequired("name")
	loadCmd.MarkFlagRequired("store")
}

func runLoad(cmd *cobra.Command, args []string) error {
	ds, err := store.LoadDataset(loadName, loadStorePath)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	district := loadDistrict
	if district == "" {
		district = loadName
	}

	fmt.Printf("dataset %q: %d edges, %d shortcuts, run %s\n", loadName, ds.NumEdges(), ds.Shorts.Len(), ds.RunID)

	ctx := context.Background()
	if loadDsinfoPath != "" {
		if err := recordDsinfoLoad(district, ds); err != nil {
			log.Printf("dsinfo: %v", err)
		}
	}
	if loadCatalogDSN != "" {
		if err := recordCatalogLoad(ctx, district, ds); err != nil {
			log.Printf("catalog: %v", err)
		}
	}
	return nil
}

func recordDsinfoLoad(district string, ds *store.Dataset) error {
	s, err := dsinfo.Open(loadDsinfoPath)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.RecordLoad(loadName, dsinfo.DatasetInfo{
		RunID:         ds.RunID.String(),
		District:      district,
		EdgeCount:     ds.NumEdges(),
		ShortcutCount: ds.Shorts.Len(),
	})
}

func recordCatalogLoad(ctx context.Context, district string, ds *store.Dataset) error {
	c, err := catalog.Open(ctx, loadCatalogDSN)
	if err != nil {
		return err
	}
	defer c.Close()
	return c.Upsert(ctx, catalog.Entry{
		Name:          loadName,
		RunID:         ds.RunID.String(),
		District:      district,
		StorePath:     loadStorePath,
		EdgeCount:     ds.NumEdges(),
		ShortcutCount: ds.Shorts.Len(),
	})
}
