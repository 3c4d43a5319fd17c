// Package pathing classifies dataset paths by the kind of data they hold and
// derives output locations that mirror the input tree.
//
// Classification looks only at file extensions, never at file contents. Paths
// are enumerated in natural order (numeric-aware), so "2" sorts before "10";
// chunk and item order is temporal and a plain lexical sort would scramble it.
package pathing
