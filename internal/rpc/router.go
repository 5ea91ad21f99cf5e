package rpc

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"savebridge/internal/fault"
	"savebridge/internal/logx"
)

// MethodOpenStartupSave is resolved outside the registration table: it
// loads the save file named on the host's command line, if any.
const MethodOpenStartupSave = "open_command_line_save"

// Arity is a registered method's calling convention.
type Arity int

const (
	// Notify takes no parameters and produces no response.
	Notify Arity = iota
	// Call takes no parameters and returns a value or fails.
	Call
	// CallWithParam takes exactly one parameter, decoded into a concrete
	// shape before invocation.
	CallWithParam
)

// NotifyFunc handles a notify-class method.
type NotifyFunc func(ctx context.Context)

// CallFunc handles a call-class method.
type CallFunc func(ctx context.Context) (any, error)

// ParamFunc handles a call-with-param method. raw is the single params
// element, still encoded.
type ParamFunc func(ctx context.Context, raw jsontext.Value) (any, error)

// Route is one registration table entry. Exactly one handler field is set,
// matching Arity.
type Route struct {
	Method        string
	Arity         Arity
	Notify        NotifyFunc
	Call          CallFunc
	CallWithParam ParamFunc
}

// NotifyRoute registers a notify-class method.
func NotifyRoute(method string, fn NotifyFunc) Route {
	return Route{Method: method, Arity: Notify, Notify: fn}
}

// CallRoute registers a call-class method.
func CallRoute(method string, fn CallFunc) Route {
	return Route{Method: method, Arity: Call, Call: fn}
}

// ParamRoute registers a call-with-param method whose parameter decodes
// into T.
func ParamRoute[T any](method string, fn func(ctx context.Context, arg T) (any, error)) Route {
	adapted := func(ctx context.Context, raw jsontext.Value) (any, error) {
		var arg T
		if err := json.Unmarshal(raw, &arg); err != nil {
			return nil, fault.Wrap(fault.Argument, err, "malformed argument for %s", method)
		}
		return fn(ctx, arg)
	}
	return Route{Method: method, Arity: CallWithParam, CallWithParam: adapted}
}

// StartupLoader performs the load behind MethodOpenStartupSave. path is
// already absolute.
type StartupLoader func(ctx context.Context, path string) (any, error)

// Router dispatches requests against a table built once at startup.
type Router struct {
	routes map[string]Route

	startupPath string
	startupLoad StartupLoader
}

// NewRouter builds the dispatch table. Registering two routes under one
// method name, or a route whose handler does not match its arity, is a
// programmer error and panics.
func NewRouter(routes []Route) *Router {
	table := make(map[string]Route, len(routes))
	for _, route := range routes {
		if _, dup := table[route.Method]; dup {
			panic(fmt.Sprintf("rpc: duplicate route %q", route.Method))
		}
		switch route.Arity {
		case Notify:
			if route.Notify == nil {
				panic(fmt.Sprintf("rpc: route %q has no notify handler", route.Method))
			}
		case Call:
			if route.Call == nil {
				panic(fmt.Sprintf("rpc: route %q has no call handler", route.Method))
			}
		case CallWithParam:
			if route.CallWithParam == nil {
				panic(fmt.Sprintf("rpc: route %q has no param handler", route.Method))
			}
		default:
			panic(fmt.Sprintf("rpc: route %q has unknown arity %d", route.Method, route.Arity))
		}
		table[route.Method] = route
	}
	return &Router{routes: table}
}

// SetStartup wires the command-line save special case. path may be empty
// (no save was named), absolute, or relative to the process working
// directory.
func (r *Router) SetStartup(path string, load StartupLoader) {
	r.startupPath = path
	r.startupLoad = load
}

// Methods returns the registered method names, for introspection.
func (r *Router) Methods() []string {
	names := make([]string, 0, len(r.routes))
	for name := range r.routes {
		names = append(names, name)
	}
	return names
}

// Dispatch resolves and invokes the request's method. It returns nil for
// notify-class methods; every other outcome, including every failure,
// becomes a Response echoing the request ID.
func (r *Router) Dispatch(ctx context.Context, req *Request) *Response {
	logx.Log.Debug().Str("method", req.Method).Msg("rpc dispatch")

	if req.Method == MethodOpenStartupSave && r.startupLoad != nil {
		return r.dispatchStartup(ctx, req)
	}

	route, ok := r.routes[req.Method]
	if !ok {
		return r.fail(req, fault.New(fault.UnknownMethod, "Wrong RPC method, got: %s", req.Method))
	}

	switch route.Arity {
	case Notify:
		route.Notify(ctx)
		return nil
	case Call:
		result, err := route.Call(ctx)
		if err != nil {
			return r.fail(req, err)
		}
		return &Response{ID: req.ID, Result: result}
	default:
		raw, err := req.oneParam()
		if err != nil {
			return r.fail(req, err)
		}
		result, err := route.CallWithParam(ctx, raw)
		if err != nil {
			return r.fail(req, err)
		}
		return &Response{ID: req.ID, Result: result}
	}
}

// dispatchStartup loads the CLI-named save. No configured path yields a
// null result, not an error.
func (r *Router) dispatchStartup(ctx context.Context, req *Request) *Response {
	if r.startupPath == "" {
		return &Response{ID: req.ID}
	}
	path, err := filepath.Abs(r.startupPath)
	if err != nil {
		return r.fail(req, fault.Wrap(fault.NotFound, err, "cannot resolve startup save %s", r.startupPath))
	}
	result, err := r.startupLoad(ctx, path)
	if err != nil {
		return r.fail(req, err)
	}
	return &Response{ID: req.ID, Result: result}
}

func (r *Router) fail(req *Request, err error) *Response {
	logx.Log.Error().Str("method", req.Method).Str("kind", fault.KindOf(err).String()).Msg(err.Error())
	return &Response{ID: req.ID, Error: err.Error()}
}
