// Package functions implements the function factory: a registry mapping
// function names to creators that build resolvers for a query.
//
// The factory has two phases. During initialization, a single goroutine
// registers creators and aliases, typically through Module implementations.
// Seal then ends the initialization phase. From that point on the factory is
// read-only and Get, TryGet, GetImpl, TryGetImpl and AllNames may be called
// from any number of goroutines without locking.
//
// Lookups first resolve aliases, then probe the case-sensitive map and
// finally the case-insensitive map with the normalized name. An exact match
// therefore always wins over a case-insensitive one.
package functions
