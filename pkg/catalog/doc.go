// Package catalog holds the reference data shown next to the wizard: the fixed set of
// interest tags and the list of known destinations used to highlight a free-form entry.
//
// Neither list constrains the TripRequest. Destinations are never validated against the
// catalog, and unknown interest tags are only rejected by hosts, never by the reducer.
package catalog
