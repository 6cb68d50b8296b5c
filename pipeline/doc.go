// Package pipeline provides the HTTP middleware chain WebKit applications
// mount in front of their handlers: gzip response compression, request-ID
// propagation and structured access logging.
//
// Middleware composes with Chain; the outermost middleware is listed
// first:
//
//	handler := pipeline.Chain(mux,
//	    pipeline.RequestID(),
//	    pipeline.AccessLog(logger, metrics),
//	    pipeline.Gzip(gzip.DefaultCompression),
//	)
//
// The pipeline is independent of the extender registry; it only carries
// requests to whatever handlers the application mounts.
package pipeline
