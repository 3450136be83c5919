// Package mail defines the contract for handing a single email message to a
// delivery provider, plus the provider clients themselves.
//
// Callers work with the Mail interface, Message and Response only. Provider
// SDK types (SendGrid, Resend) never leave this package, so the relay can be
// tested against a fake Mail and the provider can be switched by config.
package mail
