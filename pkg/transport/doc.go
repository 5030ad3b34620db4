// Package transport issues requests against youwol backends and maps their
// responses to typed results.
//
// Every call returns an api.Result and an error. A non-2xx response is a
// value: the Result holds an *api.HTTPError and the error is nil. The error
// is reserved for transport failures (DNS, refused connection, aborted
// request, undecodable body). Callers choose how HTTP errors are handled with
// the combinators of package pipe.
//
// # Routers
//
// A Router is an immutable {basePath, headers} pair. Service clients build a
// root router with NewRootRouter, which merges the process-wide Defaults
// (default headers and host name), and derive child routers with Sub:
//
//	root := transport.NewRootRouter(client, "/api/assets-gateway", nil)
//	files := root.Sub("/files-backend")
//	res, err := transport.Send[Info](ctx, files, api.CommandQuery, "/files/"+id+"/info", nil)
//
// Headers are merged in this order, later sources winning: the request's own
// headers, the router headers, the call option headers. A JSON body always
// sets Content-Type to application/json.
//
// # Progress
//
// Calls accept WithMonitoring to report request events to one or more
// monitor.Sink. Without it no event bookkeeping happens. JSON calls report
// started (total 1) and finished. Blob transfers (Download, Upload) report
// byte-level progress.
package transport
