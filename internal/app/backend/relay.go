package backend

import "context"

// Relay forwards one proxied call. Any completed call returns its Response,
// whatever the status; err is set only when the backend could not be reached.
// A write with no declared content type is sent as application/json.
func (c *Client) Relay(ctx context.Context, method, path, token, contentType string, body []byte) (*Response, error) {
	if body != nil && contentType == "" {
		contentType = contentTypeJSON
	}
	return c.do(ctx, method, path, token, contentType, body)
}
