// Package merge implements the deep-merge algebra used to combine profile
// configuration. It operates on Map, an ordered mapping whose keys carry a
// merge Rule. The textual "+=" key prefix that selects the Append rule is
// only understood at the YAML boundary; inside the package keys are always
// stored under their resolved name.
package merge
