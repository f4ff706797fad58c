// Package main runs the in-memory verification and order service used by
// palmpay during development and tests. It authenticates users, accepts hand
// enrollments, gates order creation by amount tier, and settles gateway
// confirmations. A minimal hosted-checkout simulator is mounted on the same
// listener so the CLI can complete a payment end to end against one process.
//
// HTTP API
//
//	POST /auth/login { "email", "password" }
//	    Return { "access_token", "name", "email" } on a bcrypt-verified
//	    password. The token authorizes all /payment and /biometric calls.
//
//	POST /biometric/register-hand  (multipart, parts "images")
//	    Register the caller's hand snapshots. Re-enrollment replaces the
//	    previous set.
//
//	POST /payment/create-order  (multipart: part "image", fields "amount",
//	    "recipient_name", "account_number", "ifsc_code", "bank_name";
//	    header X-Idempotency-Key)
//	    Below 2000 INR the order is issued directly. From 2000 INR a
//	    transaction PIN is demanded first; from 10000 INR a one-time code.
//	    The response carries either { "otp_required" | "pin_required",
//	    "message" } or { "order_id", "amount", "currency", "key_id" }.
//	    Resubmitting with the same X-Idempotency-Key after the factor is
//	    verified issues the order.
//
//	POST /payment/verify-otp { "otp", "amount" }
//	    Verify the pending one-time code. Three failures or five minutes
//	    void the code.
//
//	POST /payment/verify-pin { "pin", "amount" }
//	    Verify the transaction PIN against its bcrypt hash. The pending
//	    attempt expires after ten minutes.
//
//	POST /payment/verify-payment { "gateway_payment_id",
//	    "gateway_order_id", "gateway_signature", "biometric_verified" }
//	    Check the confirmation's HMAC-SHA256 signature and mark the order
//	    settled.
//
//	POST /checkout/{order}/pay
//	    Checkout simulator. Returns { "payment_id", "order_id",
//	    "signature" } with a signature the settlement endpoint accepts.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - One demo account is seeded: demo@palmpay.test / "swordfish", PIN 1234.
//   - Issued one-time codes are printed to the log, never returned over HTTP.
//   - Error responses carry { "detail": { "message", "reason" } }.
//   - A lightweight access log records method, path, status and duration.
//   - The default listen address is :8000.
package main
