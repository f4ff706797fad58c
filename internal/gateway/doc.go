// Package gateway drives the third-party payment checkout for an issued
// order.
//
// The checkout is an external surface: palmpay hands it an order handle,
// amount and currency, and waits for either a completion payload (payment
// id, order id, signature) or an explicit dismissal. Dismissal is a
// recoverable, user-initiated outcome and is reported as ErrDismissed, never
// as a failure category.
package gateway
