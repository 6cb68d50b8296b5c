// Package dispatch provides WebKit's RPC-style action layer: applications
// register named actions under a controller name, and the HTTP handler
// maps POST /{controller}/{action} requests onto them, decoding JSON
// request bodies and encoding JSON responses.
//
// Actions declare whether they require authorization; enforcement is
// delegated to an Authorizer supplied by the host application, so the
// dispatch layer carries the hook without defining a policy.
//
//	reg := dispatch.NewRegistry()
//	reg.Register(&dispatch.Action{
//	    Controller:  "users",
//	    Name:        "create",
//	    RequireAuth: true,
//	    Handler: func(ctx context.Context, body json.RawMessage) (any, error) {
//	        ...
//	    },
//	})
//	mux.Handle("/api/", http.StripPrefix("/api", dispatch.NewHandler(reg, authorizer, logger, metrics)))
package dispatch
