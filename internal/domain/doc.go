// Package domain models City of Seattle building-permit records.
//
// # Data Source
//
// Permit records come from the Seattle Open Data portal dataset
// "Building Permits" (76t5-zqzr), available at
// https://data.seattle.gov/Permitting/Building-Permits/76t5-zqzr as a CSV
// export. The pipeline reads either a downloaded snapshot (the portal file
// is a few hundred MB) or the export endpoint directly.
//
// # Portal Data Conventions
//
// Consumed columns:
//
//	PermitNum        unique permit identifier, e.g. "6793871-CN". Required;
//	                 rows without one are skipped and counted.
//	PermitTypeMapped coarse category ("Building", "Demolition", "Trade", ...).
//	                 May be blank: the record is then excluded from
//	                 category views only.
//	AppliedDate      application timestamp. Current exports use Socrata's
//	                 floating timestamp ("2024-03-18T00:00:00.000"); older
//	                 snapshots use bare dates or US "MM/DD/YYYY" forms.
//	                 All layouts parse as UTC. Unparseable or blank dates
//	                 leave the zero time: excluded from time views only.
//	EstProjectCost   estimated project cost in dollars. Mixed encodings:
//	                 plain numbers ("250000"), decimals, and formatted
//	                 amounts ("$250,000.00"). Zero is a real cost (no-cost
//	                 permits exist); blank, unparseable, or negative values
//	                 are missing and excluded from cost aggregates only.
//	Latitude         WGS-84 coordinates. Ungeolocated permits carry blanks
//	Longitude        or a (0, 0) placeholder; both count as missing and
//	                 exclude the record from spatial views only.
//	OriginalAddress1 street address, used in map marker popups.
//
// # Missing-Value Policy
//
// A record missing an optional field stays in the dataset and is excluded
// per view: the grouping or measure field a view needs decides whether the
// record participates in that view. A record missing its date still counts
// in the category view; a record missing its cost still counts everywhere
// counts are taken. Only structurally unusable rows (no permit number,
// malformed CSV shape) are dropped at load, and every drop is counted in
// the LoadReport.
//
// # Recency Window
//
// Loading keeps permits applied within the configured window before now
// (default two years, matching the analysis this pipeline reproduces).
// Records without a parseable date cannot be window-tested and are kept.
// The window reads the package clock, injectable via [SetClock], so runs
// are reproducible under test.
package domain
