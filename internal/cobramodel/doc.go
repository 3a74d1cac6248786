// Package cobramodel represents genome-scale metabolic models in the COBRA
// document schema.
//
// It loads JSON and YAML model documents, renders reaction formula strings
// from stoichiometry and flux bounds, and classifies reactions as boundary,
// biomass, or transport so the reversibility check can restrict itself to
// purely metabolic conversions.
package cobramodel
