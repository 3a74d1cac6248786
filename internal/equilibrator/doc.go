// Package equilibrator provides a typed client for the external
// thermodynamic estimation service.
//
// The client submits compound-level reaction formulas for parsing, chemical
// and redox balancing, and reversibility index calculation, and resolves
// metabolite names to canonical compound identifiers through the service's
// compound matcher. Sentinel errors distinguish unparsable formulas from
// failed Gibbs energy calculations so callers can classify reactions.
package equilibrator
