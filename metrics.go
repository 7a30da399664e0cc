package swr

const (
	// MetricHit is a name of a counter of fresh cached values served.
	MetricHit = "cache_hit"
	// MetricStale is a name of a counter of stale values served with background refresh.
	MetricStale = "cache_stale"
	// MetricMiss is a name of a counter of accesses that found neither a value nor an active fetch.
	MetricMiss = "cache_miss"
	// MetricWait is a name of a counter of accesses that joined an active fetch.
	MetricWait = "cache_wait"
	// MetricFetch is a name of a counter of fetcher invocations.
	MetricFetch = "cache_fetch"
	// MetricFetchFailed is a name of a counter of failed fetcher invocations.
	MetricFetchFailed = "cache_fetch_failed"
	// MetricForceFresh is a name of a counter of force-fresh accesses.
	MetricForceFresh = "cache_force_fresh"
	// MetricItems is a name of a gauge of distinct keys in Keyed.
	MetricItems = "cache_items"
)
