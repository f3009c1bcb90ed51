// Package sources builds the source adapters a discovery run fans out to.
//
// Each adapter lives in its own subpackage and is registered here by kind:
//
//	directory     ballotpedia   one page per district
//	party_roster  partyroster   a party's roster pages and news feeds
//
// Adapters share a PageFetcher, but each wraps it in its own rate limiter
// and retry policy (see packages ratelimit, retry and gate).
package sources
