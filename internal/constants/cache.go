package constants

import "time"

// Redis cache keys
const (
	// CacheKeyRoster holds the JSON-encoded public roster
	CacheKeyRoster = "roster:users"
)

// CacheRosterTTL bounds staleness if an invalidation is ever missed
const CacheRosterTTL = 60 * time.Second
