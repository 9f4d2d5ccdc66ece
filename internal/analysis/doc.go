// Package analysis holds the pure classification rules applied to an RVTools
// inventory: date normalization, OS and workload classification, and the
// migration scope filter. All functions are side-effect free and total; parse
// failures degrade to sentinel values instead of errors so that a single
// malformed cell never blocks an analysis run.
package analysis
