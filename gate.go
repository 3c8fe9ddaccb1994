package membership

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Resource is the record an ability is checked against, as column/value pairs.
type Resource map[string]any

// DefaultOwnerField is the resource field compared with the user id.
const DefaultOwnerField = "user_id"

// Request describes a single gate check.
type Request struct {
	UserID     string
	Handle     string
	Checker    *Checker
	Resource   Resource // nil unless OnResource was given
	OwnerField string
}

// HasResource reports whether the check is about a specific record.
func (r *Request) HasResource() bool {
	return r.Resource != nil
}

// OwnedBy reports whether the resource's owner field equals userID.
func (r *Request) OwnedBy(userID string) bool {
	if r.Resource == nil {
		return false
	}
	v, ok := r.Resource[r.OwnerField]
	if !ok || v == nil {
		return false
	}
	return fmt.Sprint(v) == userID
}

// Ability decides whether a request is allowed.
type Ability func(ctx context.Context, req *Request) (bool, error)

// OwnershipResolver decides whether a resource check passes for a user who
// holds the permission. The default passes owners and group grants.
type OwnershipResolver func(ctx context.Context, req *Request) bool

// CheckOption configures a single check.
type CheckOption func(*Request)

// OnResource scopes a check to a record. An empty ownerField means
// DefaultOwnerField.
//
// Example:
//
//	ok, err := gate.Check(ctx, userID, "posts.edit",
//	    membership.OnResource(membership.Resource{"user_id": post.AuthorID}, ""))
func OnResource(resource Resource, ownerField string) CheckOption {
	return func(r *Request) {
		if resource == nil {
			resource = Resource{}
		}
		if ownerField == "" {
			ownerField = DefaultOwnerField
		}
		r.Resource = resource
		r.OwnerField = ownerField
	}
}

// Gate answers "may this user do that" for every permission handle in the
// store plus any ability the host defines.
type Gate struct {
	service  *Service
	registry *Registry
	resolver OwnershipResolver
	logger   *zap.Logger
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithOwnershipResolver replaces the default resource rule.
func WithOwnershipResolver(fn OwnershipResolver) GateOption {
	return func(g *Gate) {
		if fn != nil {
			g.resolver = fn
		}
	}
}

// WithGateLogger sets the gate logger. Defaults to the service logger.
func WithGateLogger(logger *zap.Logger) GateOption {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithRegistry shares an ability registry between gates.
func WithRegistry(r *Registry) GateOption {
	return func(g *Gate) {
		if r != nil {
			g.registry = r
		}
	}
}

// NewGate creates a gate over service. Call Boot to load stored permissions.
func NewGate(service *Service, opts ...GateOption) *Gate {
	g := &Gate{
		service:  service,
		registry: NewRegistry(),
		resolver: defaultOwnershipResolver,
		logger:   service.logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func defaultOwnershipResolver(_ context.Context, req *Request) bool {
	return req.OwnedBy(req.UserID) || req.Checker.ViaGroup(req.Handle)
}

// Boot registers one ability per stored permission, replacing the previous
// set. When the permissions table does not exist yet it registers nothing
// and returns nil, so it may run before migrations.
func (g *Gate) Boot(ctx context.Context) error {
	perms, err := g.service.AllPermissions(ctx)
	if err != nil {
		if isUndefinedTable(err) {
			g.logger.Debug("permissions table missing, gate boot skipped")
			return nil
		}
		return err
	}

	abilities := make(map[string]Ability, len(perms))
	for _, p := range perms {
		abilities[p.Code()] = g.permissionAbility()
	}
	g.registry.replaceBooted(abilities)

	g.logger.Debug("gate booted", zap.Int("abilities", len(abilities)))
	return nil
}

func (g *Gate) permissionAbility() Ability {
	return func(ctx context.Context, req *Request) (bool, error) {
		if !req.Checker.HasPermission(req.Handle) {
			return false, nil
		}
		if !req.HasResource() {
			return true, nil
		}
		return g.resolver(ctx, req), nil
	}
}

// Define registers a host ability under handle.
func (g *Gate) Define(handle string, ability Ability) {
	g.registry.Define(handle, ability)
}

// Handles returns every handle the gate can check.
func (g *Gate) Handles() []string {
	return g.registry.Handles()
}

// Check evaluates the ability registered for handle.
// Unknown handles fail with ErrAbilityNotDefined.
func (g *Gate) Check(ctx context.Context, userID, handle string, opts ...CheckOption) (bool, error) {
	ability, ok := g.registry.Get(handle)
	if !ok {
		return false, NewError(ErrAbilityNotDefined, "no ability registered").WithPermission(handle)
	}

	checker := CheckerFromContext(ctx)
	if checker == nil || checker.UserID() != userID {
		var err error
		if checker, err = g.service.GetChecker(ctx, userID); err != nil {
			return false, err
		}
	}

	req := &Request{UserID: userID, Handle: handle, Checker: checker}
	for _, opt := range opts {
		opt(req)
	}
	return ability(ctx, req)
}

// Allows is Check with errors logged and treated as a denial.
func (g *Gate) Allows(ctx context.Context, userID, handle string, opts ...CheckOption) bool {
	ok, err := g.Check(ctx, userID, handle, opts...)
	if err != nil {
		g.logger.Warn("gate check failed",
			zap.String("user_id", userID),
			zap.String("handle", handle),
			zap.Error(err))
		return false
	}
	return ok
}

// Denies is the negation of Allows.
func (g *Gate) Denies(ctx context.Context, userID, handle string, opts ...CheckOption) bool {
	return !g.Allows(ctx, userID, handle, opts...)
}

// Abilities returns the registered handles the user is granted, with
// wildcard grants expanded against them. Host-defined abilities are not
// evaluated.
func (g *Gate) Abilities(ctx context.Context, userID string) ([]string, error) {
	checker, err := g.service.GetChecker(ctx, userID)
	if err != nil {
		return nil, err
	}
	return g.service.matcher().ExpandPermissions(checker.Permissions(), g.registry.Handles()), nil
}
