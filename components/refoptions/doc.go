// Package refoptions serves one reference-data key (event types, platforms,
// job titles) as a searchable JSON option list. Select widgets that load
// their options remotely read the same {"data":[{"value","label"}]} shape
// the repeatable rows are populated from.
package refoptions
