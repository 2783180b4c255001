// Package analytics computes aggregate statistics over a batch of Discord
// reaction records fetched from NocoDB.
//
// The aggregation is a pure function of the record batch and a reference
// time: total counts, per-field presence counts, a shot-type breakdown, a
// strict 24-hour recency window, and percentages rounded to one decimal.
// It performs no I/O; the dispatcher feeds it already-fetched rows.
package analytics
