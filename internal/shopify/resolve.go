package shopify

import (
	"strings"
)

// GIDPrefix marks a Shopify global identifier. A shop_name metafield whose
// raw value still looks like a GID has not been resolved to a display name.
const GIDPrefix = "gid://"

// IsGID reports whether s is an unresolved Shopify global identifier
func IsGID(s string) bool {
	return strings.HasPrefix(s, GIDPrefix)
}

// nameLikeKeys are metaobject field keys that plausibly hold a shop name
var nameLikeKeys = map[string]struct{}{
	"shop_name": {},
	"name":      {},
	"shop":      {},
	"title":     {},
	"label":     {},
}

// nameResolvers are tried in priority order; the first non-empty result
// wins. The final strategy returns the id, so resolution never fails, only
// degrades to a less meaningful identifier.
var nameResolvers = []func(Metaobject) string{
	func(m Metaobject) string { return m.DisplayName },
	nameLikeFieldValue,
	typeDerivedName,
	firstFieldValue,
	func(m Metaobject) string { return m.Handle },
	func(m Metaobject) string { return m.ID },
}

// ResolveName maps a metaobject to a human-readable shop name
func ResolveName(m Metaobject) string {
	for _, resolve := range nameResolvers {
		if name := strings.TrimSpace(resolve(m)); name != "" {
			return name
		}
	}
	return m.ID
}

func nameLikeFieldValue(m Metaobject) string {
	for _, f := range m.Fields {
		if _, ok := nameLikeKeys[strings.ToLower(f.Key)]; ok {
			return f.Value
		}
	}
	return ""
}

// typeDerivedName extracts the last underscore-separated segment of the
// metaobject type, e.g. "shop_name" -> "name".
func typeDerivedName(m Metaobject) string {
	if m.Type == "" {
		return ""
	}
	parts := strings.Split(m.Type, "_")
	return parts[len(parts)-1]
}

func firstFieldValue(m Metaobject) string {
	if len(m.Fields) == 0 {
		return ""
	}
	return m.Fields[0].Value
}
