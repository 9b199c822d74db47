// Package cli provides the interactive Express Data storefront client.
//
// It wires configuration, the local session store, the hosted API services,
// the payment widget and an interactive REPL. Every REPL line is an intent
// looked up in a dispatch table; handlers call services and render the
// result as text.
//
// Key features:
//   - Sign up, password login, provider login (browser), logout
//   - Browse network providers and their data offers
//   - Buy an offer for yourself or for another number
//   - Order history and order detail
//   - Account page: phone, profile and avatar updates
//
// Which of the login or authenticated views is on screen is decided by the
// session coordinator, not by the handlers. See App, Build and runREPL.
package cli
