// Package linkhandlers provides HTTP middleware for link.Handler and
// ready-made link interceptors.
//
// # Middleware
//
// RequestIDMiddleware assigns each dispatched request an ID and records it in
// the request context along with the matched controller and pattern.
// RecoveryMiddleware turns controller panics into 500 responses and
// logs them with the matched controller. AccessLogMiddleware writes one
// structured record per request.
//
//	h := link.NewHandler(reg)
//	h.Use(
//	    linkhandlers.RecoveryMiddleware(linkhandlers.RecoveryConfig{Logger: logger}),
//	    linkhandlers.RequestIDMiddleware(linkhandlers.RequestIDConfig{}),
//	    linkhandlers.AccessLogMiddleware(logger),
//	)
//
// # Interceptors
//
// AbsoluteURLInterceptor prefixes generated links with a scheme and host.
// StickyQueryInterceptor appends a query parameter to every generated link
// unless the link already carries it. RequestIDInterceptor stamps links
// generated with Registry.LinkContext with the current request ID, which
// RequestIDMiddleware reads back as the parent ID when the link is followed:
//
//	abs, err := linkhandlers.AbsoluteURLInterceptor("https://example.com")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	reg.Interceptors().Add("absolute", abs)
//	reg.Interceptors().Add("lang", linkhandlers.StickyQueryInterceptor("lang",
//	    func(link.LinkRequest) string { return "en" }))
//	reg.Interceptors().Add("rid", linkhandlers.RequestIDInterceptor("rid"))
//
// Link specs opt out of an interceptor by listing its name in
// SkipInterceptors.
package linkhandlers
