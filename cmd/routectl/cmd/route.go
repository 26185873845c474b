package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Khoshkhah/h3-routing-platform/pkg/query"
	"github.com/Khoshkhah/h3-routing-platform/pkg/routeerr"
	"github.com/Khoshkhah/h3-routing-platform/pkg/store"
)

var (
	routeStorePath     string
	routeFrom          uint
	routeTo            uint
	routeAlgo          string
	routeAlternative   bool
	routePenaltyFactor float64
)

var routeCmd = &cobra.Command{
	Use:   "route_by_edge",
	Short: "Run a single point-to-point query between two edge ids",
	RunE:  runRoute,
}

func init() {
	routeCmd.Flags().StringVar(&routeStorePath, "store", "", "path to the binary store file")
	routeCmd.Flags().UintVar(&routeFrom, "from", 0, "source edge id")
	routeCmd.Flags().UintVar(&routeTo, "to", 0, "target edge id")
	routeCmd.Flags().StringVar(&routeAlgo, "algo", "classic", "algorithm: dijkstra, bidijkstra, classic, unidirectional, uni_lca, bi_lca, pruned, m2m")
	routeCmd.Flags().BoolVar(&routeAlternative, "alternative", false, "also compute a penalized alternative route")
	routeCmd.Flags().Float64Var(&routePenaltyFactor, "penalty", 0, "alternative route penalty factor (0 selects the default)")
	routeCmd.MarkFlagRequired("store")
}

func runRoute(cmd *cobra.Command, args []string) error {
	edges, _, shorts, err := store.ReadBinary(routeStorePath)
	if err != nil {
		return fmt.Errorf("reading store: %w", err)
	}

	source, target := store.EdgeID(routeFrom), store.EdgeID(routeTo)
	if _, ok := edges.Get(source); !ok {
		return routeerr.New(routeerr.UnknownEdge, fmt.Sprintf("source edge %d not found", source))
	}
	if _, ok := edges.Get(target); !ok {
		return routeerr.New(routeerr.UnknownEdge, fmt.Sprintf("target edge %d not found", target))
	}

	engine := query.NewEngine(edges, shorts)
	scratch := engine.NewScratch()
	result, alt := engine.RouteByEdge(scratch, source, target, query.Algorithm(routeAlgo), routeAlternative, routePenaltyFactor)

	if !result.Success {
		return routeerr.New(routeerr.QueryNotReachable, fmt.Sprintf("no route from %d to %d", source, target))
	}
	printResult("primary", result)
	if alt != nil {
		printResult("alternative", *alt)
	}
	return nil
}

func printResult(label string, r query.Result) {
	parts := make([]string, len(r.ExpandedPath))
	for i, e := range r.ExpandedPath {
		parts[i] = strconv.FormatUint(uint64(e), 10)
	}
	fmt.Printf("%s: cost=%d path=[%s]\n", label, r.Cost, strings.Join(parts, ","))
}
