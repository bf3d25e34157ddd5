// Package egress provides the outbound HTTP clients used by regional actors.
//
// Each region owns exactly one Client. The client's network path is pinned at
// construction time, either by binding a local source address or by routing
// through a forward proxy located in the region, so that every call made on
// behalf of a region leaves from the same place.
//
// Clients carry no overall timeout. The caller's context is the only bound on
// an exchange, which means a hung upstream occupies only the request waiting
// on it.
package egress
