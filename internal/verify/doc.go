// Package verify provides an HTTP implementation of the domain.VerifyClient
// interface used by palmpay.
//
// The verification/order service is the authority on biometric matching and
// risk tiering: it inspects the submitted hand image, decides whether a
// secondary factor is required for the amount, and only then issues a
// payment-gateway order. This package offers a concrete HTTP client for
// interacting with such a service.
//
// Supported operations include:
//   - Authenticating and obtaining a bearer session.
//   - Enrolling hand images for a user.
//   - Creating an order from biometric evidence (multipart upload).
//   - Verifying a secondary OTP or PIN for tiered amounts.
//   - Finalizing settlement after the gateway confirms payment.
//
// Image submissions are multipart/form-data; everything else is JSON. Non-2xx
// statuses are decoded into *APIError, preserving the backend's message and
// reason so the classifier can map them to user-facing outcomes. All requests
// accept a context for cancellation and deadlines.
package verify
