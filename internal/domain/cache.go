package domain

import "time"

// CacheStats summarizes the state of a TTL cache.
type CacheStats struct {
	Total    int
	Expired  int
	Active   int
	Capacity int
	TTL      time.Duration
}
