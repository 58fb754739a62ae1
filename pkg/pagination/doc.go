// Package pagination drives page navigation over the catalog.
//
// A page change is split in three steps so the network read can run off
// the event loop while all state changes stay on it:
//
//	req, err := ctrl.GoToPage(3)        // on the loop: records page 3, starts a ticket
//	done := ctrl.Fetch(ctx, req)        // anywhere: one remote read
//	applied := ctrl.Complete(done)      // on the loop: applied only if still latest
//
// Load runs the three steps in sequence for callers without an event loop.
//
// The controller never retries. A failed load leaves the previous page on
// display and the failure available from Err until the page is requested
// again.
package pagination
