// Package inventory turns a flat snapshot of machine records into the views
// both front-ends render: tag categories, per-machine online status,
// multi-predicate filtering and aggregate counts.
//
// Everything here is a pure function of its inputs. Records are never
// modified; filters return new slices and "now" is always passed in, so one
// rendering pass sees consistent statuses. The only state in the package is
// Cache, which holds the most recent snapshot and replaces it as a whole.
package inventory
