// Package profile implements environment profiles: their on-disk format,
// their inheritance through a base profile, and the Repository that finds
// and resolves them across a list of search locations.
//
// A profile file looks like:
//
//	__magic__: kenvmanager_profile:2
//	identifier: knots
//	version: 0.1.0
//	base: studio
//	managers:
//	  rezenv:
//	    +=requires:
//	      maya: "2023"
//
// Keys prefixed with "+=" append to what the base profile defines instead of
// replacing it.
package profile
