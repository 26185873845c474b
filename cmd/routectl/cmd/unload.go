package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/Khoshkhah/h3-routing-platform/pkg/catalog"
	"github.com/Khoshkhah/h3-routing-platform/pkg/dsinfo"
)

var (
	unloadName       string
	unloadDsinfoPath string
	unloadCatalogDSN string
)

var unloadCmd = &cobra.Command{
	Use:   "unload",
	Short: "Record a dataset as unloaded",
	RunE:  runUnload,
}

func init() {
	unloadCmd.Flags().StringVar(&unloadName, "name", "", "dataset name")
	unloadCmd.Flags().StringVar(&unloadDsinfoPath, "dsinfo", "", "optional sqlite path to update in pkg/dsinfo")
	unloadCmd.Flags().StringVar(&unloadCatalogDSN, "catalog-dsn", "", "optional Postgres DSN to update in pkg/catalog")
	unloadCmd.MarkFlagRequired("name")
}

func runUnload(cmd *cobra.Command, args []string) error {
	if unloadDsinfoPath == "" && unloadCatalogDSN == "" {
		return fmt.Errorf("unload needs at least one of --dsinfo or --catalog-dsn to update")
	}

	if unloadDsinfoPath != "" {
		s, err := dsinfo.Open(unloadDsinfoPath)
		if err != nil {
			log.Printf("dsinfo: %v", err)
		} else {
			defer s.Close()
			if err := s.RecordUnload(unloadName); err != nil {
				log.Printf("dsinfo: %v", err)
			}
		}
	}

	ctx := context.Background()
	if unloadCatalogDSN != "" {
		c, err := catalog.Open(ctx, unloadCatalogDSN)
		if err != nil {
			log.Printf("catalog: %v", err)
		} else {
			defer c.Close()
			if err := c.MarkUnloaded(ctx, unloadName); err != nil {
				log.Printf("catalog: %v", err)
			}
		}
	}

	fmt.Printf("dataset %q recorded as unloaded\n", unloadName)
	return nil
}
