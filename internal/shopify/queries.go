package shopify

// GraphQL documents sent to the Storefront API. Each document is fixed at
// build time; only variables change per call.

const moneyFields = `amount currencyCode`

const imageFields = `url altText width height`

const productCardFragment = `
fragment ProductCard on Product {
  id
  title
  handle
  description
  tags
  priceRange {
    minVariantPrice { ` + moneyFields + ` }
    maxVariantPrice { ` + moneyFields + ` }
  }
  images(first: 1) {
    edges { node { ` + imageFields + ` } }
  }
  variants(first: 1) {
    edges { node { id availableForSale } }
  }
}
`

const cartFragment = `
fragment CartFields on Cart {
  id
  checkoutUrl
  totalQuantity
  lines(first: 100) {
    edges {
      node {
        id
        quantity
        merchandise {
          ... on ProductVariant {
            id
            title
            availableForSale
            price { ` + moneyFields + ` }
            selectedOptions { name value }
            image { ` + imageFields + ` }
            product {
              id
              title
              handle
              images(first: 1) {
                edges { node { ` + imageFields + ` } }
              }
            }
          }
        }
      }
    }
  }
  cost {
    totalAmount { ` + moneyFields + ` }
    subtotalAmount { ` + moneyFields + ` }
    totalTaxAmount { ` + moneyFields + ` }
  }
}
`

const getProductsQuery = `
query getProducts($numProducts: Int!) {
  products(first: $numProducts) {
    edges { node { ...ProductCard } }
  }
}
` + productCardFragment

const searchProductsQuery = `
query searchProducts($query: String!, $numProducts: Int!) {
  products(first: $numProducts, query: $query) {
    edges { node { ...ProductCard } }
  }
}
` + productCardFragment

const getProductQuery = `
query getProduct($handle: String!) {
  product(handle: $handle) {
    id
    title
    handle
    description
    descriptionHtml
    vendor
    productType
    tags
    priceRange {
      minVariantPrice { ` + moneyFields + ` }
      maxVariantPrice { ` + moneyFields + ` }
    }
    compareAtPriceRange {
      minVariantPrice { ` + moneyFields + ` }
      maxVariantPrice { ` + moneyFields + ` }
    }
    images(first: 10) {
      edges { node { ` + imageFields + ` } }
    }
    variants(first: 25) {
      edges {
        node {
          id
          title
          availableForSale
          price { ` + moneyFields + ` }
          compareAtPrice { ` + moneyFields + ` }
          selectedOptions { name value }
          image { ` + imageFields + ` }
        }
      }
    }
    options { id name values }
    seo { title description }
  }
}
`

const shopQuery = `
query shop {
  shop {
    name
    description
    primaryDomain { url }
  }
}
`

const cartCreateMutation = `
mutation cartCreate($lines: [CartLineInput!]) {
  cartCreate(input: { lines: $lines }) {
    cart { ...CartFields }
    userErrors { field message }
  }
}
` + cartFragment

const getCartQuery = `
query getCart($cartId: ID!) {
  cart(id: $cartId) { ...CartFields }
}
` + cartFragment

const cartLinesAddMutation = `
mutation cartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart { ...CartFields }
    userErrors { field message }
  }
}
` + cartFragment

const cartLinesUpdateMutation = `
mutation cartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart { ...CartFields }
    userErrors { field message }
  }
}
` + cartFragment

const cartLinesRemoveMutation = `
mutation cartLinesRemove($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart { ...CartFields }
    userErrors { field message }
  }
}
` + cartFragment
