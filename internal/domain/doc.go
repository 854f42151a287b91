// Package domain models field-survey point data and its coordinate
// normalization.
//
// # Data Source
//
// Survey points originate from field collection sheets exported by regional
// survey teams. The upstream collector service publishes each sheet row as
// flat JSON to the Kafka source topic, with the coordinate columns passed
// through verbatim as degrees-minutes-seconds (DMS) text.
//
// # Coordinate Conventions
//
// DMS body formats accepted by [ConvertDMS]:
//
//	110°33'44.164"    degree/minute/second marks; the seconds mark may be
//	                  absent and ′/″ are accepted alongside '/"
//	110° 33' 44.164   internal whitespace is ignored
//	110-33-44.164     fallback form with hyphen or space separators
//
// Direction markers, checked before the body is parsed:
//
//	东经 / 西经       Chinese longitude words (east / west), as prefix or suffix
//	北纬 / 南纬       Chinese latitude words (north / south), as prefix or suffix
//	N / S / E / W     single-letter hemisphere suffix, case-insensitive
//
// 西经, 南纬, S and W make the result negative; every other marker, or no
// marker at all, leaves it positive.
//
// Validation happens before combination: minutes and seconds must be below
// 60, and the degrees component may not exceed 180 for longitudes or 90 for
// latitudes.
//
// Results are rounded to 6 fractional digits, roughly 0.1 m of ground
// distance, which is sufficient for GIS ingestion of hand-collected points.
//
// # ID Generation
//
// Point IDs are deterministic SHA-256 hashes of category|site|name and the
// raw coordinate strings. Reprocessing the same raw record therefore produces
// the same ID, which keeps downstream upserts idempotent. See [generateID].
package domain
