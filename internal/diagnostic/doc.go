// Package diagnostic provides structured errors and warnings collected
// while building decode plans.
//
// The plan builder examines every field of a struct before failing, so a
// single registration reports all schema problems at once:
//   - contradictory attributes (flatten + rename)
//   - types that cannot be decoded from a column
//   - missing try_from conversions
//   - duplicate column names (warning)
package diagnostic
