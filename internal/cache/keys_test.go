package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFormats(t *testing.T) {
	assert.Equal(t, "user:device:dev-1", UserKey("dev-1"))
	assert.Equal(t, "pricing:active", PricingKey())
	assert.Equal(t, "plans:page:20:40", PlanPageKey(20, 40))
	assert.Equal(t, "payment:intent:abc", PaymentKey("abc"))
}

func TestPlanPageKeysDistinctPerTuple(t *testing.T) {
	assert.NotEqual(t, PlanPageKey(20, 0), PlanPageKey(20, 20))
	assert.NotEqual(t, PlanPageKey(10, 0), PlanPageKey(20, 0))
}
