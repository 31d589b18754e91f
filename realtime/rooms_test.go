package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRestaurantRoom_CanonicalizesObjectIDVariants(t *testing.T) {
	hex := "64f0c2a1b3d4e5f60718293a"

	variants := []string{
		hex,
		"64F0C2A1B3D4E5F60718293A",
		"  " + hex + "  ",
	}

	want := RestaurantRoom(hex)
	for _, v := range variants {
		assert.Equal(t, want, RestaurantRoom(v), "variant %q", v)
	}
	assert.Equal(t, "restaurant:"+hex, want)
}

func TestRestaurantRoom_PassesThroughNonObjectIDs(t *testing.T) {
	assert.Equal(t, "restaurant:legacy-slug", RestaurantRoom(" legacy-slug "))
}

func TestOrderRoom(t *testing.T) {
	assert.Equal(t, "order:ORD-AB12CD34", OrderRoom(" ORD-AB12CD34 "))
}
