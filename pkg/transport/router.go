package transport

import "maps"

// Router is an immutable base path plus headers through which requests are
// sent. Child routers copy their parent's headers and hold no reference to it.
type Router struct {
	client   *Client
	basePath string
	headers  map[string]string
}

// NewRouter creates a router without consulting the defaults.
func NewRouter(client *Client, basePath string, headers map[string]string) *Router {
	return &Router{client: client, basePath: basePath, headers: maps.Clone(headers)}
}

// NewRootRouter creates a router for a service. The client defaults are read
// once, here: default headers sit under the given headers and the default
// host name is prefixed to basePath. Later changes to the defaults do not
// affect the returned router.
func NewRootRouter(client *Client, basePath string, headers map[string]string) *Router {
	d := client.Defaults()
	merged := make(map[string]string, len(d.Headers)+len(headers))
	maps.Copy(merged, d.Headers)
	maps.Copy(merged, headers)
	return &Router{client: client, basePath: d.HostName + basePath, headers: merged}
}

// Sub returns a child router whose base path is the concatenation of r's
// base path and segment.
func (r *Router) Sub(segment string) *Router {
	return &Router{client: r.client, basePath: r.basePath + segment, headers: maps.Clone(r.headers)}
}

// BasePath returns the base path of r.
func (r *Router) BasePath() string { return r.basePath }

// Headers returns a copy of the headers of r.
func (r *Router) Headers() map[string]string { return maps.Clone(r.headers) }

// Client returns the client requests of r are sent with.
func (r *Router) Client() *Client { return r.client }

// URL returns the target of path under r.
func (r *Router) URL(path string) string { return r.basePath + path }
