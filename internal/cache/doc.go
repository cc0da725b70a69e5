// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

// Package cache provides a generic, thread-safe LRU cache with TTL expiration.
//
// The engine uses it to memoize ranked lists per snapshot. Entries expire
// lazily on Get, and CleanupExpired can be called periodically to reclaim
// memory held by entries that are never read again.
//
//	c := cache.NewLRU[string, []string](1024, 5*time.Minute)
//	c.Add("toby", []string{"The Night Listener"})
//	if v, ok := c.Get("toby"); ok {
//		fmt.Println(v)
//	}
package cache
