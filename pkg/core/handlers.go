// core/handlers.go
package core

// HandlerFunc is the signature for route handlers.
// A string result is written verbatim; any other result is JSON-encoded.
type HandlerFunc func(req *Request) (any, error)

// Route binds one handler method to zero or more route keys.
type Route struct {
	Method string   // method name, for logs and the admin route table
	Paths  []string // raw request targets, matched exactly
	Handle HandlerFunc
}

// Controller groups handlers. One instance is built per registration and
// shared by every request; implementations must be safe for concurrent use.
type Controller interface {
	Routes() []Route
}

// ControllerFunc adapts a plain route list to a Controller.
type ControllerFunc func() []Route

func (f ControllerFunc) Routes() []Route { return f() }

// Handler is the (controller instance, method) pair stored in the registry.
type Handler struct {
	Controller string
	Method     string
	Instance   Controller
	fn         HandlerFunc
}

// NewHandler binds fn to its owning controller.
func NewHandler(controller string, instance Controller, method string, fn HandlerFunc) Handler {
	return Handler{Controller: controller, Method: method, Instance: instance, fn: fn}
}

// Invoke calls the bound handler directly. Panics are not recovered here;
// the Dispatcher owns that boundary.
func (h Handler) Invoke(req *Request) (any, error) {
	return h.fn(req)
}

// Name is "Controller.Method".
func (h Handler) Name() string {
	if h.Method == "" {
		return h.Controller
	}
	return h.Controller + "." + h.Method
}
