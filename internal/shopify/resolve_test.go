package shopify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveName(t *testing.T) {
	tests := []struct {
		name string
		obj  Metaobject
		want string
	}{
		{
			name: "display name wins",
			obj: Metaobject{
				ID:          "gid://shopify/Metaobject/1",
				DisplayName: "North Store",
				Handle:      "north-store",
				Type:        "shop_name",
				Fields:      []MetaobjectField{{Key: "shop_name", Value: "Other"}},
			},
			want: "North Store",
		},
		{
			name: "name-like field when display name missing",
			obj: Metaobject{
				ID:     "gid://shopify/Metaobject/2",
				Handle: "south",
				Fields: []MetaobjectField{
					{Key: "color", Value: "blue"},
					{Key: "Shop_Name", Value: "South Store"},
				},
			},
			want: "South Store",
		},
		{
			name: "type segment when no name-like field",
			obj: Metaobject{
				ID:     "gid://shopify/Metaobject/3",
				Type:   "vendor_location",
				Fields: []MetaobjectField{{Key: "region", Value: "West"}},
			},
			want: "location",
		},
		{
			name: "first field value when nothing else matches",
			obj: Metaobject{
				ID:     "gid://shopify/Metaobject/4",
				Fields: []MetaobjectField{{Key: "region", Value: "North"}},
			},
			want: "North",
		},
		{
			name: "handle when fields are empty",
			obj: Metaobject{
				ID:     "gid://shopify/Metaobject/5",
				Handle: "bare-handle",
			},
			want: "bare-handle",
		},
		{
			name: "id as last resort",
			obj: Metaobject{
				ID: "gid://shopify/Metaobject/6",
			},
			want: "gid://shopify/Metaobject/6",
		},
		{
			name: "whitespace-only display name falls through",
			obj: Metaobject{
				ID:          "gid://shopify/Metaobject/7",
				DisplayName: "   ",
				Handle:      "trimmed",
			},
			want: "trimmed",
		},
		{
			name: "empty first field value falls through to handle",
			obj: Metaobject{
				ID:     "gid://shopify/Metaobject/8",
				Fields: []MetaobjectField{{Key: "region", Value: ""}},
				Handle: "h",
			},
			want: "h",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveName(tt.obj))
		})
	}
}

func TestIsGID(t *testing.T) {
	assert.True(t, IsGID("gid://shopify/Metaobject/123"))
	assert.False(t, IsGID("North Store"))
	assert.False(t, IsGID(""))
}
