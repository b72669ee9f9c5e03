// Package link implements a bidirectional link router: it resolves request
// paths to controllers and renders canonical links to controllers from a
// set of parameters.
//
// # Patterns
//
// Each controller declares one or more link specs. A spec holds a
// semicolon-separated list of pattern alternatives:
//
//	link.LinkSpec{Pattern: "user;user/{id}"}
//	link.LinkSpec{Pattern: "action/{kind:purchase,sell}", Action: "checkout"}
//
// An alternative is a slash-separated list of sections. A section is either
// a literal, a parameter {name}, or a parameter restricted to an enumerated
// set of values {name:v1,v2}. Alternatives must not start or end with a
// slash, and there are no wildcard or optional sections.
//
// Every pattern text is unique across all controllers, and every logical
// link name belongs to exactly one controller. Violations are reported by
// Register as a *ConfigError.
//
// # Declarations
//
// Controllers are identified by their Go type. A declaration binds link
// specs to a type; a declaration created with Extend and no specs of its
// own inherits the specs of its nearest ancestor:
//
//	base := link.Declare(BasePage{}, link.LinkSpec{Pattern: "home", Name: "home"})
//	reg := link.New(link.Config{ContextPath: "/app"})
//	reg.MustRegister(base)
//
// # Resolving
//
// Match scans controllers in registration order and returns the first
// pattern whose sections align with the request path:
//
//	m, ok := reg.Match("/user/7?tab=posts")
//	// m.Controller == reflect.TypeFor[UserPage](), m.Params["id"] == "7"
//
// # Generating
//
// Link selects, among the patterns whose parameters are all available, the
// one consuming the most parameters. Remaining parameters are rendered as a
// query string:
//
//	reg.Link(UserPage{}, "", link.Pairs("id", 7))                  // /app/user/7
//	reg.Link(UserPage{}, "", nil)                                  // /app/user
//	reg.Link(UserPage{}, "", link.Pairs("id", 7, "tag", []string{"a", "b"}))
//	// /app/user/7?tag=a&tag=b
//
// Query values are not escaped unless Config.EscapeQuery is set.
//
// # Interceptors
//
// Every generated link passes through the registry's interceptor chain:
//
//	reg.Interceptors().Add("lang", func(l string, _ link.LinkRequest) string {
//	    return l + "?lang=en"
//	})
//
// Link specs can opt out of interceptors by name with SkipInterceptors.
//
// # Dispatching
//
// Handler adapts a registry to net/http. Handlers dispatched by it can read
// the match with CurrentMatch, Vars and Action.
package link
