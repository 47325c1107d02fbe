// Package memory provides in-memory implementations of the driven ports.
//
// DocumentAPI and QAAPI stand in for the remote service: uploads start
// indexing and settle after a configurable number of list calls, and
// answers are drawn from the processed documents. Any operation can be
// made to fail once with FailNext. They are used by tests and demos.
package memory
