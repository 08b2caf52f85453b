package ikas

const listOrderQuery = `query listOrder($id: StringFilterInput) {
  listOrder(id: $id) {
    data {
      id
      orderNumber
      orderedAt
      status
      orderPaymentStatus
      orderPackageStatus
      totalFinalPrice
      currencyCode
      customer {
        id
        firstName
        lastName
        email
        phone
        fullName
      }
      billingAddress {
        ...addressFields
      }
      shippingAddress {
        ...addressFields
      }
      orderLineItems {
        id
        quantity
        finalPrice
        variant {
          id
          name
          sku
        }
      }
    }
  }
}

fragment addressFields on OrderAddress {
  firstName
  lastName
  phone
  addressLine1
  addressLine2
  city {
    name
  }
  state {
    name
  }
  country {
    name
  }
  postalCode
}`

const getMerchantQuery = `query getMerchant {
  getMerchant {
    id
    email
    storeName
  }
}`

const getAuthorizedAppQuery = `query getAuthorizedApp {
  getAuthorizedApp {
    id
    salesChannelId
  }
}`
