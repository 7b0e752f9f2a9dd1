package media

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Reachability reports whether install media still exists where a
// template points. Local paths are checked with a stat, HTTP and HTTPS
// URLs with a request, and other URL schemes by resolving the host.
type Reachability struct {
	// Client is used for HTTP and HTTPS checks.
	Client *http.Client

	// Resolver is used for non-HTTP URL schemes. Defaults to the
	// system resolver.
	Resolver *net.Resolver
}

// NewReachability creates a reachability checker with a short timeout.
func NewReachability() *Reachability {
	return &Reachability{
		Client:   &http.Client{Timeout: 5 * time.Second},
		Resolver: net.DefaultResolver,
	}
}

// IsReachable reports whether pathOrURL points at something that
// currently exists. It never returns an error; anything that cannot be
// confirmed counts as unreachable.
func (r *Reachability) IsReachable(ctx context.Context, pathOrURL string) bool {
	if strings.HasPrefix(pathOrURL, "/") {
		_, err := os.Stat(pathOrURL)
		return err == nil
	}

	u, err := url.Parse(pathOrURL)
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return false
	}

	switch u.Scheme {
	case "http", "https":
		return r.checkHTTP(ctx, pathOrURL)
	default:
		// No cheap probe for ftp, tftp or nfs. Resolving the host at
		// least catches stale references to decommissioned servers.
		_, err := r.resolver().LookupHost(ctx, u.Hostname())
		return err == nil
	}
}

// checkHTTP issues a HEAD request, falling back to GET for servers that
// do not implement HEAD.
func (r *Reachability) checkHTTP(ctx context.Context, rawURL string) bool {
	status, ok := r.request(ctx, http.MethodHead, rawURL)
	if !ok {
		return false
	}
	if status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented {
		status, ok = r.request(ctx, http.MethodGet, rawURL)
		if !ok {
			return false
		}
	}
	return status < 400
}

func (r *Reachability) request(ctx context.Context, method, rawURL string) (int, bool) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, false
	}
	resp, err := r.client().Do(req)
	if err != nil {
		return 0, false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode, true
}

func (r *Reachability) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return http.DefaultClient
}

func (r *Reachability) resolver() *net.Resolver {
	if r.Resolver != nil {
		return r.Resolver
	}
	return net.DefaultResolver
}
