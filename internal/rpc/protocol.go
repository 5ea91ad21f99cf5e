// Package rpc routes the UI's method calls to host-side handlers.
package rpc

import (
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"savebridge/internal/fault"
)

// Request is one method call from the UI. The ID is an opaque correlation
// token echoed back unchanged; Params, when present, is an array holding
// at most one value.
type Request struct {
	ID     jsontext.Value `json:"id,omitempty"`
	Method string         `json:"method"`
	Params jsontext.Value `json:"params,omitempty"`
}

// Response answers one Request. Exactly one of Result or Error is
// meaningful; Error carries only the failure's display message.
type Response struct {
	ID     jsontext.Value `json:"id,omitempty"`
	Result any            `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// oneParam extracts the single parameter from the request's params array.
// An absent params field or an empty array is an argument fault.
func (r *Request) oneParam() (jsontext.Value, error) {
	if len(r.Params) == 0 {
		return nil, fault.New(fault.Argument, "argument required")
	}
	var values []jsontext.Value
	if err := json.Unmarshal(r.Params, &values); err != nil {
		return nil, fault.Wrap(fault.Argument, err, "params must be an array")
	}
	if len(values) == 0 {
		return nil, fault.New(fault.Argument, "argument required")
	}
	return values[0], nil
}
