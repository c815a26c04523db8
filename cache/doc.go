// Package cache holds the pages a session has recently touched.
//
// The Store is a small fixed array of slots scanned linearly. Each in-use
// slot exclusively owns an engine page handle and the scenes built from it.
// When every slot is taken, the slot whose page number is furthest from the
// requested one is evicted, which keeps the neighborhood of the reading
// position warm while paging back and forth.
//
// The Store is not safe for concurrent use.
package cache
