package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Khoshkhah/h3-routing-platform/internal/telemetry"
	"github.com/Khoshkhah/h3-routing-platform/pkg/archive"
	"github.com/Khoshkhah/h3-routing-platform/pkg/catalog"
	"github.com/Khoshkhah/h3-routing-platform/pkg/config"
	"github.com/Khoshkhah/h3-routing-platform/pkg/contract"
	"github.com/Khoshkhah/h3-routing-platform/pkg/dsinfo"
	"github.com/Khoshkhah/h3-routing-platform/pkg/finalize"
	"github.com/Khoshkhah/h3-routing-platform/pkg/store"
)

var (
	runDir     string
	outputPath string
	dsinfoPath string
	catalogDSN string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the contraction pipeline end to end",
	RunE:  runPipeline,
}

func init() {
	runCmd.Flags().StringVar(&runDir, "run-dir", "./run", "scratch directory for phase shard files and resume markers")
	runCmd.Flags().StringVar(&outputPath, "output", "", "output binary store path (default: <run-dir>/store.bin)")
	runCmd.Flags().StringVar(&dsinfoPath, "dsinfo", "", "optional sqlite path to record this run in pkg/dsinfo")
	runCmd.Flags().StringVar(&catalogDSN, "catalog-dsn", "", "optional Postgres DSN to register this dataset in the shared pkg/catalog")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	shutdown, err := telemetry.Init(ctx, telemetry.LoadConfigFromEnv())
	if err != nil {
		log.Printf("telemetry disabled: %v", err)
	} else {
		defer shutdown(ctx)
	}
	phaseCtx, span := telemetry.StartPhase(ctx, "preprocess")
	defer span.End()
	ctx = phaseCtx

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if outputPath == "" {
		outputPath = runDir + "/store.bin"
	}

	edges, adj, err := loadInput(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "input error: %v\n", err)
		os.Exit(2)
	}

	shortcuts, err := runContraction(ctx, cfg, edges, adj)
	if err != nil {
		fmt.Fprintf(os.Stderr, "phase error: %v\n", err)
		os.Exit(3)
	}

	shortcuts = finalize.Finalize(shortcuts, edges)
	shortTable := store.NewShortcutTable(shortcuts, edges.Len())

	if err := os.MkdirAll(runDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "phase error: creating run dir: %v\n", err)
		os.Exit(3)
	}
	if err := store.WriteBinary(outputPath, edges, adj, shortTable); err != nil {
		fmt.Fprintf(os.Stderr, "phase error: writing store: %v\n", err)
		os.Exit(3)
	}

	log.Printf("preprocess complete: %d edges, %d shortcuts, written to %s",
		edges.Len(), shortTable.Len(), outputPath)

	recordOutputs(ctx, cfg, shortTable)
	return nil
}

func loadInput(cfg *config.Config) (*store.EdgeTable, *store.AdjacencyTable, error) {
	edgesFile, err := os.Open(cfg.Input.EdgesFile)
	if err != nil {
		return nil, nil, fmt.Errorf("opening edges file: %w", err)
	}
	defer edgesFile.Close()

	edges, err := store.LoadEdgesCSV(edgesFile)
	if err != nil {
		return nil, nil, err
	}

	graphFile, err := os.Open(cfg.Input.GraphFile)
	if err != nil {
		return nil, nil, fmt.Errorf("opening graph file: %w", err)
	}
	defer graphFile.Close()

	adj, err := store.LoadAdjacencyCSV(graphFile, edges.Len())
	if err != nil {
		return nil, nil, err
	}

	return edges, adj, nil
}

func runContraction(ctx context.Context, cfg *config.Config, edges *store.EdgeTable, adj *store.AdjacencyTable) ([]store.Shortcut, error) {
	coordinator := contract.NewCoordinator(cfg.ContractConfig(runDir), edges, adj)
	return coordinator.Run(ctx)
}

// recordOutputs writes the run's metadata into the optional dsinfo and
// catalog stores when the caller configured them; neither is required
// for a run to succeed.
func recordOutputs(ctx context.Context, cfg *config.Config, shorts *store.ShortcutTable) {
	if dsinfoPath != "" {
		ds, err := dsinfo.Open(dsinfoPath)
		if err != nil {
			log.Printf("dsinfo: %v", err)
		} else {
			defer ds.Close()
			err := ds.RecordLoad(cfg.Input.District, dsinfo.DatasetInfo{
				District:      cfg.Input.District,
				ShortcutCount: shorts.Len(),
				PartitionRes:  cfg.Algorithm.PartitionRes,
				HybridRes:     cfg.Algorithm.HybridRes,
			})
			if err != nil {
				log.Printf("dsinfo: %v", err)
			}
		}
	}

	if catalogDSN != "" {
		cat, err := catalog.Open(ctx, catalogDSN)
		if err != nil {
			log.Printf("catalog: %v", err)
		} else {
			defer cat.Close()
			err := cat.Upsert(ctx, catalog.Entry{
				Name:          cfg.Input.District,
				District:      cfg.Input.District,
				StorePath:     outputPath,
				ShortcutCount: shorts.Len(),
				PartitionRes:  cfg.Algorithm.PartitionRes,
				HybridRes:     cfg.Algorithm.HybridRes,
			})
			if err != nil {
				log.Printf("catalog: %v", err)
			}
		}
	}

	uploadToArchive(ctx, cfg.Input.District)
}

// uploadToArchive ships the finalized store to COS when the standard
// Tencent Cloud credential environment variables are set; it is a no-op
// otherwise.
func uploadToArchive(ctx context.Context, district string) {
	secretID := os.Getenv("COS_SECRET_ID")
	secretKey := os.Getenv("COS_SECRET_KEY")
	bucket := os.Getenv("COS_BUCKET")
	region := os.Getenv("COS_REGION")
	if secretID == "" || secretKey == "" || bucket == "" || region == "" {
		return
	}

	uploader, err := archive.New(archive.Config{
		Bucket: bucket, Region: region, SecretID: secretID, SecretKey: secretKey,
	})
	if err != nil {
		log.Printf("archive: %v", err)
		return
	}
	if err := uploader.UploadStore(ctx, district, outputPath); err != nil {
		log.Printf("archive: %v", err)
	}
}
