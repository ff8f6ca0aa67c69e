package shopify

// ProductsWithShopNameQuery pages through products with their variants and
// the custom shop_name metafield. The metafield reference resolves to the
// metaobject's displayName when Shopify has it available; the raw value is
// kept for the cases where it doesn't.
const ProductsWithShopNameQuery = `
query ProductsWithShopName($cursor: String) {
  products(first: 100, after: $cursor) {
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        id
        title
        onlineStoreUrl
        featuredImage {
          url
        }
        metafield(namespace: "custom", key: "shop_name") {
          value
          reference {
            ... on Metaobject {
              displayName
            }
          }
        }
        variants(first: 100) {
          edges {
            node {
              id
              sku
            }
          }
        }
      }
    }
  }
}
`

// ShopNameMetaobjectsQuery pages through all metaobjects of type shop_name
const ShopNameMetaobjectsQuery = `
query GetShopNameMetaobjects($cursor: String) {
  metaobjects(first: 100, type: "shop_name", after: $cursor) {
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        id
        displayName
        handle
        type
        fields {
          key
          value
        }
      }
    }
  }
}
`

// ResolveMetaobjectsQuery resolves a batch of metaobject GIDs in one call
const ResolveMetaobjectsQuery = `
query ResolveMetaobjects($ids: [ID!]!) {
  nodes(ids: $ids) {
    ... on Metaobject {
      id
      displayName
      handle
      type
      fields {
        key
        value
      }
    }
  }
}
`
