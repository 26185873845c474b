// Command preprocess runs the four-phase partition-parallel contraction
// pipeline over a district's edges.csv/adjacency.csv input, producing a
// binary hierarchical shortcut store for the query engine to load.
package main

import "github.com/Khoshkhah/h3-routing-platform/cmd/preprocess/cmd"

func main() {
	cmd.Execute()
}
