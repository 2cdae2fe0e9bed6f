package api

import (
	"context"
	"net/http"

	"github.com/mirasocial/mira-client/internal/model"
)

// StartStream registers a new live stream with the backend and returns its id.
func (c *Client) StartStream(ctx context.Context, title string) (string, error) {
	var res model.StartStreamResponse
	err := c.Do(ctx, http.MethodPost, "/streams/start", model.StartStreamRequest{Title: title}, &res)
	if err != nil {
		return "", err
	}
	return res.StreamID, nil
}

// StopStream tells the backend the stream has ended.
func (c *Client) StopStream(ctx context.Context, streamID string) error {
	return c.Do(ctx, http.MethodPost, "/streams/"+streamID+"/stop", nil, nil)
}
