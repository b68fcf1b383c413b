// Package recovery drives the forgot-password flow:
//
//	EMAIL_ENTRY -> OTP_PENDING -> OTP_VERIFIED -> COMPLETE
//
// Input is validated locally before any request is sent. A failed request
// leaves the flow where it was. The flow never logs the user in; after
// COMPLETE the caller sends the user to login and discards the flow.
package recovery
