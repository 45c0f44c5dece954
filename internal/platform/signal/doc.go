// Package signal provides named in-process publish/subscribe channels.
//
// A Namespace is created once at process startup and handed to every
// service that publishes or listens. Signals are looked up by name and
// created on first use, so publishers and listeners never need to agree on
// initialization order.
//
// Publishing is synchronous: Publish returns after every listener has run.
// A failing or panicking listener does not stop the remaining listeners;
// its error is logged and returned joined with the others.
package signal
