// Package mock provides an in-memory vectorstore.Index for testing.
//
// The mock behaves like a small real index by default, so most tests can
// exercise write-query-delete flows without stubbing anything. Individual
// operations can be overridden through the exported Func fields to inject
// failures, and call counters expose how often each operation ran.
package mock
