package ebay

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
)

const acceptEncoding = "gzip, br"

// readBody returns the decoded response body. Setting Accept-Encoding by hand
// turns off net/http's transparent gzip handling, so both encodings are
// decoded here. When decoding fails the raw bytes are returned with the error
// so callers can still report what the server sent.
func readBody(resp *http.Response) ([]byte, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return raw, fmt.Errorf("reading response: %w", err)
	}

	var reader io.Reader
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gzipReader, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return raw, fmt.Errorf("creating gzip reader: %w", err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	case "br":
		reader = brotli.NewReader(bytes.NewReader(raw))
	default:
		return raw, nil
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return raw, fmt.Errorf("decoding %s response: %w", resp.Header.Get("Content-Encoding"), err)
	}
	return body, nil
}
