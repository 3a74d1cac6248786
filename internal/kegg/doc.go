// Package kegg models the KEGG identifier space used as the canonical
// compound vocabulary for thermodynamic estimation.
//
// It discriminates compound identifiers (C00001) from drug (D…) and glycan
// (G…) identifiers and selects the smallest compound identifier from mixed
// annotation lists, mirroring the resolution order expected by the
// reversibility check.
package kegg
