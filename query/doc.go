// Package query builds vault lookup descriptors.
//
// A [Descriptor] is the argument of every vault call. The base descriptor of
// a namespace comes from a [Queryable] such as [GenericPassword]; per-call
// attributes (account, synchronizable, payload) are layered on top with
// copy-on-write helpers so a base descriptor can be reused safely.
package query
