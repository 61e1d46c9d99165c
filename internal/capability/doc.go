// Package capability answers, once per plan build, what the execution
// environment can do with a given type: which fallible conversions exist
// between two types, and which type a try_from name refers to.
//
// Conversions are registered as plain functions in any of these shapes:
//
//	func(src S) D
//	func(src S) (D, bool)
//	func(src S) (D, error)
//	func(src S) (D, bool, error)
//
// Lossless numeric and string-kind conversions are built in and checked
// for overflow at run time, so `try_from=int64` onto an int8 field needs no
// registration.
package capability
