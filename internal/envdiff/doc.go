// Package envdiff compares KEY=VALUE environment files against a base file and
// reports missing, changed, and extra variables while preserving file order.
package envdiff
