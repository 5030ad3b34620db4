// Package pipe provides combinators over streams of request results.
//
// A Stream yields (api.Result[T], error) pairs. HTTP errors travel as values
// inside the Result; a non-nil error is a transport failure. The combinators
// here (Mute, Raise, Dispatch, OnError) decide what happens to HTTP errors and
// never inspect or alter transport failures.
//
//	res, err := transport.Send[Asset](ctx, router, api.CommandQuery, "/assets/"+id, nil)
//	for asset, err := range pipe.Raise(pipe.Single(res, err)) {
//		...
//	}
package pipe
