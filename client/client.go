// Package client is the thin synchronous facade over package conn:
// Invoke submits a procedure call and waits for its response, matching
// spec.md §4.4's "invoke(procedure, args) -> response".
package client

import (
	"context"
	"fmt"

	"github.com/voltgo/voltgo/conn"
	"github.com/voltgo/voltgo/config"
	"github.com/voltgo/voltgo/procedure"
	"github.com/voltgo/voltgo/wire"
)

// successStatus is the status value this client treats as success.
// §9's open question leaves the authoritative success code
// unresolved between examples; per the documented decision, Status is
// never interpreted except here, and callers that need a different
// convention should inspect Response.Status themselves rather than
// relying on ProcedureError.
const successStatus = 0

// ProcedureError is returned by Invoke when the server completes the
// call but Status is nonzero. The session remains usable (§7).
type ProcedureError struct {
	Response *wire.Response
}

func (e *ProcedureError) Error() string {
	msg := "procedure failed"
	if e.Response.StatusString != nil {
		msg = *e.Response.StatusString
	}
	return fmt.Sprintf("voltgo: procedure failure (status %d): %s", e.Response.Status, msg)
}

// Client is a synchronous wrapper around a *conn.Engine.
type Client struct {
	engine *conn.Engine
}

// Dial opens a session and wraps it in a blocking Client.
func Dial(ctx context.Context, cfg config.Config, opts ...conn.Option) (*Client, error) {
	e, err := conn.Dial(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{engine: e}, nil
}

// Invoke drives the engine synchronously: submit, wait for the
// dispatched response, surface a ProcedureError on nonzero status.
// It surfaces exactly the engine's error taxonomy otherwise (§4.4).
func (c *Client) Invoke(ctx context.Context, desc procedure.Descriptor, args ...procedure.Argument) (*wire.Response, error) {
	resp, err := c.engine.Call(ctx, desc, args)
	if err != nil {
		return nil, err
	}
	if resp.Status != successStatus {
		return resp, &ProcedureError{Response: resp}
	}
	return resp, nil
}

// Close terminates the underlying session.
func (c *Client) Close() error {
	return c.engine.Close()
}
