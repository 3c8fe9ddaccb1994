package membership

import (
	"errors"
	"net/http"
)

// Middleware provides HTTP middleware for permission checking through a Gate.
type Middleware struct {
	gate         *Gate
	getUserID    func(*http.Request) string
	getResource  func(*http.Request) (Resource, string, error)
	errorHandler func(http.ResponseWriter, *http.Request, error)
}

// MiddlewareOption configures the Middleware.
type MiddlewareOption func(*Middleware)

// NewMiddleware creates a new Middleware instance.
//
// Example:
//
//	mw := membership.NewMiddleware(gate,
//	    membership.WithUserIDExtractor(func(r *http.Request) string {
//	        return r.Header.Get("X-User-ID")
//	    }),
//	)
//	mux.Handle("POST /posts", mw.RequirePermission("posts.create")(createPost))
func NewMiddleware(gate *Gate, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		gate:         gate,
		getUserID:    defaultGetUserID,
		errorHandler: defaultErrorHandler,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// WithUserIDExtractor sets a custom function to extract user ID from request.
func WithUserIDExtractor(fn func(*http.Request) string) MiddlewareOption {
	return func(m *Middleware) {
		m.getUserID = fn
	}
}

// WithResourceExtractor makes every check resource scoped. The extractor
// returns the record and its owner field; a nil record means no scoping.
func WithResourceExtractor(fn func(*http.Request) (Resource, string, error)) MiddlewareOption {
	return func(m *Middleware) {
		m.getResource = fn
	}
}

// WithErrorHandler sets a custom error handler for middleware.
func WithErrorHandler(fn func(http.ResponseWriter, *http.Request, error)) MiddlewareOption {
	return func(m *Middleware) {
		m.errorHandler = fn
	}
}

func defaultGetUserID(r *http.Request) string {
	return GetUserID(r.Context())
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNoUserID):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (m *Middleware) checkOptions(r *http.Request) ([]CheckOption, error) {
	if m.getResource == nil {
		return nil, nil
	}
	resource, ownerField, err := m.getResource(r)
	if err != nil || resource == nil {
		return nil, err
	}
	return []CheckOption{OnResource(resource, ownerField)}, nil
}

// RequirePermission creates middleware that requires a specific permission.
func (m *Middleware) RequirePermission(handle string) func(http.Handler) http.Handler {
	return m.RequireAnyPermission(handle)
}

// RequireAnyPermission creates middleware that requires any of the specified
// permissions. The user's Checker is stored in the request context.
// Handles the gate does not know are skipped; the request fails with
// ErrAbilityNotDefined only when none of them is known.
//
// Example:
//
//	mux.Handle("GET /posts", mw.RequireAnyPermission("posts.read", "posts.moderate")(listPosts))
func (m *Middleware) RequireAnyPermission(handles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := m.getUserID(r)
			if userID == "" {
				m.errorHandler(w, r, ErrNoUserID)
				return
			}

			opts, err := m.checkOptions(r)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}

			checker, err := m.gate.service.GetChecker(ctx, userID)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}
			ctx = WithChecker(ctx, checker)

			var undefined error
			defined := false
			for _, handle := range handles {
				ok, err := m.gate.Check(ctx, userID, handle, opts...)
				if errors.Is(err, ErrAbilityNotDefined) {
					if undefined == nil {
						undefined = err
					}
					continue
				}
				defined = true
				if err != nil {
					m.errorHandler(w, r, err)
					return
				}
				if ok {
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			if !defined && undefined != nil {
				m.errorHandler(w, r, undefined)
				return
			}
			m.errorHandler(w, r, NewError(ErrForbidden, "missing required permission").WithUser(userID))
		})
	}
}

// LoadChecker creates middleware that loads the user's Checker into context.
// Use this when you want to do permission checks in the handler rather than middleware.
//
// Example:
//
//	func dashboardHandler(w http.ResponseWriter, r *http.Request) {
//	    if c := membership.CheckerFromContext(r.Context()); c != nil && c.HasPermission("admin.access") {
//	        // Show admin features
//	    }
//	}
func (m *Middleware) LoadChecker() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := m.getUserID(r)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			checker, err := m.gate.service.GetChecker(r.Context(), userID)
			if err != nil {
				// Handlers fall back to explicit gate checks
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithChecker(r.Context(), checker)))
		})
	}
}

// InjectAuditContext creates middleware that extracts audit information from the request
// and adds it to the context for use in ledger mutations.
func (m *Middleware) InjectAuditContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := r.Header.Get("X-Forwarded-For")
			if ip == "" {
				ip = r.Header.Get("X-Real-IP")
			}
			if ip == "" {
				ip = r.RemoteAddr
			}
			ctx = WithIPAddress(ctx, ip)
			ctx = WithUserAgent(ctx, r.UserAgent())

			if requestID := r.Header.Get("X-Request-ID"); requestID != "" {
				ctx = WithRequestID(ctx, requestID)
			}

			if userID := m.getUserID(r); userID != "" {
				ctx = WithActorID(ctx, userID)
				ctx = WithUserID(ctx, userID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
