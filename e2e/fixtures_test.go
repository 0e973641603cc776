//go:build e2e && unix

package main

// pagingScript subscribes two listeners, dispatches from a viewer and from
// the host window, then removes one listener.
const pagingScript = `
- op: subscribe
  event: pagechanging
  listener: toolbar
- op: subscribe_internal
  event: pagechanging
  listener: history
- event: pagechanging
  args:
    - {pageNumber: 2, source: viewer}
- event: pagechanging
  args:
    - {pageNumber: 3, source: $window}
- op: unsubscribe
  event: pagechanging
  listener: toolbar
- event: documentloaded
  args:
    - {pages: 12}
`

// badScript fails to load on its second step
const badScript = `
{"op": "subscribe", "event": "ping", "listener": "a"}
{"op": "explode", "event": "ping"}
`
