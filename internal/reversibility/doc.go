// Package reversibility checks annotated reaction reversibility against
// thermodynamics-based estimates.
//
// It rewrites model reaction formulas into the canonical KEGG compound space
// (FormulaMapper), classifies each reaction into one of the outcome buckets
// through the thermodynamic estimation service (Service), aggregates results
// into a Report with CSV and JSON encodings, and wires the check and map CLI
// commands.
package reversibility
