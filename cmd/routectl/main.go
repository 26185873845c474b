// Command routectl is a debug CLI over the query engine: it loads a
// binary dataset store and runs a single route_by_edge or route_m2m
// query against it, printing the result. It replaces the teacher's
// HTTP gateway with a synchronous, scriptable command rather than a
// long-lived server process.
package main

import "github.com/Khoshkhah/h3-routing-platform/cmd/routectl/cmd"

func main() {
	cmd.Execute()
}
