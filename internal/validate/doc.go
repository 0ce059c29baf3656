// Package validate provides pure input validation for the Hookmail client.
//
// Every validator returns a Result rather than an error: validation is a
// question, not a failure. Callers decide whether an invalid Result becomes
// a typed error. Validators hold no state and perform no I/O, so the same
// input always produces the same Result.
package validate
