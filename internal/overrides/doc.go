// Package overrides loads decoding directives from a YAML file.
//
// Overrides cover types whose declarations cannot carry `row` tags, such as
// types owned by another module, and let deployments adjust column names
// without recompiling. A type entry replaces the struct-level directives of
// the type, and a field entry replaces the field's tag entirely.
//
// Example file:
//
//	version: "1"
//	types:
//	  - type: billing.Invoice
//	    rename_all: snake_case
//	    fields:
//	      Customer: customer_name
//	      Address: ",flatten"
//	      Total:
//	        try_from: int64
//	        default: true
//	      Notes: "-"
//
// Type names are matched by full import path ("example.com/billing.Invoice"),
// by the short package form ("billing.Invoice") or by bare name ("Invoice"),
// in that order of precedence.
package overrides
