// Package plan builds and executes decode plans.
//
// A decode plan is the compiled form of a struct type: one step per
// mappable field, each tagged with the strategy used to produce the field
// value from a row, plus the capabilities the involved types must provide.
//
// Build pipeline:
//  1. Analyze the struct type → ordered field list + marker tag
//  2. Parse `row` tags, apply overrides → container and field attributes
//  3. For each field, select a strategy over {flatten, try_from}:
//     - neither        → direct (by name or by index)
//     - flatten        → nested plan over the same row
//     - try_from       → direct decode of the intermediate type, then convert
//     - both           → nested plan of the intermediate type, then convert
//  4. Check every capability requirement once; collect diagnostics
//
// Execution runs the steps in declaration order against a fresh value and
// returns it only if every step succeeded.
package plan
