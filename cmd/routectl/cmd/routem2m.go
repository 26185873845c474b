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
	m2mStorePath     string
	m2mSources       string
	m2mTargets       string
	m2mAlternative   bool
	m2mPenaltyFactor float64
)

var routeM2MCmd = &cobra.Command{
	Use:   "route_m2m",
	Short: "Run a many-to-many query, returning the cheapest source/target pair",
	RunE:  runRouteM2M,
}

func init() {
	routeM2MCmd.Flags().StringVar(&m2mStorePath, "store", "", "path to the binary store file")
	routeM2MCmd.Flags().StringVar(&m2mSources, "from", "", "comma-separated source edge ids")
	routeM2MCmd.Flags().StringVar(&m2mTargets, "to", "", "comma-separated target edge ids")
	routeM2MCmd.Flags().BoolVar(&m2mAlternative, "alternative", false, "also compute a penalized alternative route")
	routeM2MCmd.Flags().Float64Var(&m2mPenaltyFactor, "penalty", 0, "alternative route penalty factor (0 selects the default)")
	routeM2MCmd.MarkFlagRequired("store")
	routeM2MCmd.MarkFlagRequired("from")
	routeM2MCmd.MarkFlagRequired("to")
}

func runRouteM2M(cmd *cobra.Command, args []string) error {
	edges, _, shorts, err := store.ReadBinary(m2mStorePath)
	if err != nil {
		return fmt.Errorf("reading store: %w", err)
	}

	sources, err := parseEdgeIDList(m2mSources)
	if err != nil {
		return err
	}
	targets, err := parseEdgeIDList(m2mTargets)
	if err != nil {
		return err
	}
	for _, e := range append(append([]store.EdgeID{}, sources...), targets...) {
		if _, ok := edges.Get(e); !ok {
			return routeerr.New(routeerr.UnknownEdge, fmt.Sprintf("edge %d not found", e))
		}
	}

	engine := query.NewEngine(edges, shorts)
	scratch := engine.NewScratch()
	result, alt := engine.RouteM2M(scratch, sources, targets, m2mAlternative, m2mPenaltyFactor)

	if !result.Success {
		return routeerr.New(routeerr.QueryNotReachable, "no route between the given source and target sets")
	}
	printResult("primary", result)
	if alt != nil {
		printResult("alternative", *alt)
	}
	return nil
}

func parseEdgeIDList(s string) ([]store.EdgeID, error) {
	fields := strings.Split(s, ",")
	ids := make([]store.EdgeID, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad edge id %q: %w", f, err)
		}
		ids = append(ids, store.EdgeID(n))
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no edge ids given")
	}
	return ids, nil
}
