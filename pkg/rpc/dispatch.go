// Package rpc serves tools over the plain {method, params} JSON envelope.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// Supported envelope methods.
const (
	MethodToolsList = "tools/list"
	MethodToolsCall = "tools/call"
)

// ErrUnknownMethod is returned for any method other than tools/list and tools/call.
var ErrUnknownMethod = errors.New("Unknown method")

// Envelope is the request body of the RPC shape.
type Envelope struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// CallParams are the params of a tools/call envelope.
type CallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ListResult is the response body of tools/list.
type ListResult struct {
	Tools []mcp.Tool `json:"tools"`
}

// ToolCaller lists and invokes tools. *tools.Registry implements it.
type ToolCaller interface {
	Tools() []mcp.Tool
	Call(ctx context.Context, name string, args json.RawMessage) (*mcp.CallToolResult, error)
}

// Dispatcher routes envelopes to a ToolCaller.
type Dispatcher struct {
	tools ToolCaller
}

// NewDispatcher creates a dispatcher over the given tools.
func NewDispatcher(tools ToolCaller) *Dispatcher {
	return &Dispatcher{tools: tools}
}

// Dispatch handles one envelope. tools/list never reaches upstream;
// tools/call invokes exactly one tool.
func (d *Dispatcher) Dispatch(ctx context.Context, env Envelope) (any, error) {
	switch env.Method {
	case MethodToolsList:
		return ListResult{Tools: d.tools.Tools()}, nil
	case MethodToolsCall:
		var params CallParams
		if len(env.Params) > 0 {
			if err := json.Unmarshal(env.Params, &params); err != nil {
				return nil, &BadRequestError{Err: fmt.Errorf("invalid params: %w", err)}
			}
		}
		return d.tools.Call(ctx, params.Name, params.Arguments)
	default:
		return nil, ErrUnknownMethod
	}
}

// BadRequestError marks an envelope that could not be decoded.
type BadRequestError struct {
	Err error
}

func (e *BadRequestError) Error() string { return e.Err.Error() }

func (e *BadRequestError) Unwrap() error { return e.Err }
