package internaldefs

import (
	goBasket "github.com/MrEthical07/goBasket"
)

// CounterDef defines a public type used by goBasket APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goBasket.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the exporter packages.
var CounterDefs = []CounterDef{
	{ID: goBasket.MetricLoginSuccess, Name: "basket_login_success_total", Help: "Successful login attempts."},
	{ID: goBasket.MetricLoginFailure, Name: "basket_login_failure_total", Help: "Failed login attempts."},
	{ID: goBasket.MetricRegisterSuccess, Name: "basket_register_success_total", Help: "Successful account registrations."},
	{ID: goBasket.MetricRegisterDuplicate, Name: "basket_register_duplicate_total", Help: "Registrations rejected as duplicate."},
	{ID: goBasket.MetricLogout, Name: "basket_logout_total", Help: "Logout operations."},
	{ID: goBasket.MetricSessionCreated, Name: "basket_session_created_total", Help: "Created sessions."},
	{ID: goBasket.MetricSessionLookupHit, Name: "basket_session_lookup_hit_total", Help: "Session lookups that found a live session."},
	{ID: goBasket.MetricSessionLookupMiss, Name: "basket_session_lookup_miss_total", Help: "Session lookups for missing or expired tokens."},
	{ID: goBasket.MetricSessionLookupCorrupt, Name: "basket_session_lookup_corrupt_total", Help: "Session lookups that hit an undecodable entry."},
	{ID: goBasket.MetricTenantCacheHit, Name: "basket_tenant_cache_hit_total", Help: "Tenant lookups answered from cache."},
	{ID: goBasket.MetricTenantCacheMiss, Name: "basket_tenant_cache_miss_total", Help: "Tenant lookups that fell through to the database."},
	{ID: goBasket.MetricTenantNegativeHit, Name: "basket_tenant_negative_hit_total", Help: "Tenant lookups answered by a cached absence."},
	{ID: goBasket.MetricTenantDBRead, Name: "basket_tenant_db_read_total", Help: "Tenant lookups that reached the database."},
}

// RepopulateDroppedName is the metric name for dropped asynchronous cache
// writes. It is reported alongside CounterDefs by every exporter.
const RepopulateDroppedName = "basket_repopulate_dropped_total"

// RepopulateDroppedHelp is an exported constant or variable used by the exporter packages.
const RepopulateDroppedHelp = "Tenant cache writes dropped due to repopulation queue backpressure."
