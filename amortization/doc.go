// Package amortization projects how a fixed monthly payment retires a balance
// that accrues simple interest once per calendar month.
//
// Every function is pure: no I/O, no shared state, and identical inputs give
// identical outputs. Edge conditions are reported through return values
// (false flags, empty schedules, invalid validations), never errors or panics.
package amortization
