package cache

import (
	"fmt"
)

func UserKey(deviceID string) string {
	return "user:device:" + deviceID
}

func PricingKey() string {
	return "pricing:active"
}

// PlanPageKey caches catalog pages per (limit, offset) tuple. Pages are not
// proactively invalidated on insert; the TTL is the staleness bound.
func PlanPageKey(limit, offset int) string {
	return fmt.Sprintf("plans:page:%d:%d", limit, offset)
}

func PaymentKey(id string) string {
	return "payment:intent:" + id
}
