// Package agg computes derived views from the flat table of annotation records.
//
// Every view is a pure function of the table. Group keys are ordered
// ascending, with integer keys compared numerically.
package agg
