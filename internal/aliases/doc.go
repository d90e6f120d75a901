// Package aliases provides the alias layer shared by name-based factories.
//
// A factory owns its creator maps (one keyed by exact names, one keyed by
// normalized names) and exposes them through the CreatorMaps interface. The
// Table defined here stores alternate names on top of those maps and
// redirects them to canonical names before the factory probes its own maps.
//
// Aliases resolve in a single hop: an alias always points at a registered
// canonical name, never at another alias.
package aliases
