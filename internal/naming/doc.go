// Package naming converts identifiers between naming conventions.
//
// It is used to derive default column names from Go field names when a
// struct declares a container-wide rename_all policy. All functions are
// pure and safe for concurrent use.
//
// Supported conventions:
//   - lowercase, UPPERCASE
//   - snake_case, SCREAMING_SNAKE_CASE
//   - camelCase, PascalCase
//   - kebab-case, SCREAMING-KEBAB-CASE
package naming
