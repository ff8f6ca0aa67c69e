package shopify

// PageInfo is the standard connection cursor envelope
type PageInfo struct {
	HasNextPage bool    `json:"hasNextPage"`
	EndCursor   *string `json:"endCursor"`
}

// ProductsPage is the decoded data object of one products page.
// The connection pointer is nil when Shopify omits it.
type ProductsPage struct {
	Products *ProductsConnection `json:"products"`
}

type ProductsConnection struct {
	PageInfo PageInfo      `json:"pageInfo"`
	Edges    []ProductEdge `json:"edges"`
}

type ProductEdge struct {
	Node ProductNode `json:"node"`
}

type ProductNode struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	OnlineStoreURL *string            `json:"onlineStoreUrl"`
	FeaturedImage  *FeaturedImage     `json:"featuredImage"`
	Metafield      *Metafield         `json:"metafield"`
	Variants       VariantsConnection `json:"variants"`
}

type FeaturedImage struct {
	URL string `json:"url"`
}

// Metafield carries the raw shop_name value plus, when Shopify managed to
// resolve it, the referenced metaobject's display name.
type Metafield struct {
	Value     string              `json:"value"`
	Reference *MetafieldReference `json:"reference"`
}

type MetafieldReference struct {
	DisplayName string `json:"displayName"`
}

type VariantsConnection struct {
	Edges []VariantEdge `json:"edges"`
}

type VariantEdge struct {
	Node VariantNode `json:"node"`
}

type VariantNode struct {
	ID  string `json:"id"`
	SKU string `json:"sku"`
}

// MetaobjectsPage is the decoded data object of one metaobjects page
type MetaobjectsPage struct {
	Metaobjects *MetaobjectsConnection `json:"metaobjects"`
}

type MetaobjectsConnection struct {
	PageInfo PageInfo         `json:"pageInfo"`
	Edges    []MetaobjectEdge `json:"edges"`
}

type MetaobjectEdge struct {
	Node Metaobject `json:"node"`
}

// Metaobject is a shop_name metaobject node
type Metaobject struct {
	ID          string            `json:"id"`
	DisplayName string            `json:"displayName"`
	Handle      string            `json:"handle"`
	Type        string            `json:"type"`
	Fields      []MetaobjectField `json:"fields"`
}

type MetaobjectField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// NodesResult is the decoded data object of a batched nodes lookup.
// Non-metaobject nodes decode to zero-valued entries and are skipped by ID.
type NodesResult struct {
	Nodes []Metaobject `json:"nodes"`
}
