// Package constraint derives the gives-to relation of a gift exchange.
//
// [Build] turns a normalized roster into a [Graph]: for every participant the
// set of receivers it must not be assigned, which always includes itself. The
// complement is the legal relation the generator searches: an edge A → B
// exists iff A may give to B.
//
// # Rule Direction
//
// Rules are one-directional. A rule declared on A naming B means "A must not
// give to B"; it says nothing about B giving to A. The builder never infers
// the reverse rule. Callers wanting a mutual exclusion (for example between
// partners) declare it on both participants.
//
// # Indexes
//
// Participants are addressed both by [roster.ID] and by their position in the
// roster. The index-based accessors ([Graph.Allowed], [Graph.Successors],
// [Graph.Predecessors]) exist for the search code in package assign and keep
// hot loops free of map lookups.
//
// # Rendering
//
// [Graph.ToDOT] produces a Graphviz digraph of the legal relation and
// [Graph.RenderSVG] renders it with goccy/go-graphviz, which is handy when a
// roster turns out to be infeasible and someone wants to see why.
package constraint
