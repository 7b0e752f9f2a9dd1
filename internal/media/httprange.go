package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// httpReaderAt adapts an HTTP resource to io.ReaderAt using range
// requests. Each ReadAt is one request; callers are expected to read a
// handful of sectors, not the whole resource.
type httpReaderAt struct {
	ctx    context.Context
	client *http.Client
	url    string
}

func (r *httpReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	req, err := http.NewRequestWithContext(r.ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", off, off+int64(len(p))-1))

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusPartialContent:
	case http.StatusRequestedRangeNotSatisfiable:
		return 0, io.EOF
	default:
		// A 200 means the server ignored the range header; reading the
		// whole resource to get a few sectors is not acceptable.
		return 0, fmt.Errorf("server did not honor range request: %s", resp.Status)
	}

	n, err := io.ReadFull(resp.Body, p)
	if err == io.ErrUnexpectedEOF {
		// Short range at the end of the resource.
		return n, io.EOF
	}
	return n, err
}
