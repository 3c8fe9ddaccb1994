// Package membership manages users' group memberships and permissions over a
// relational store and answers authorization checks through a gate.
//
// Users belong to the host application; this package only references them
// by id. It owns groups, permissions and the ledger tying them together.
//
// # Core Concepts
//
// Group: a named set of users with optional display tags ("[VIP]") and an
// optional member limit. Groups also have leaders, tracked apart from members.
//
// Permission: a capability identified by a handle such as "posts.edit".
// Handles are derived from names unless given ("Posts Edit" becomes
// "posts.edit"). Granted handles may be wildcards: "*", "posts.*", "*.read".
//
// Ledger: memberships, leaderships, group grants and direct user grants.
// A user holds a permission if it is granted to them or to any of their groups.
//
// Gate: one ability per stored permission plus host-defined abilities.
//
// # Basic Usage
//
//	// 1. Open the store and create the service
//	kit, _ := dbkit.New(dbkit.Config{URL: os.Getenv("MEMBERSHIP_DATABASE_URL")})
//	service, err := membership.NewServiceFromDBKit(kit, membership.WithLogger(logger))
//
//	// 2. Run migrations
//	service.Migrate(ctx)
//
//	// 3. Build the catalogue
//	editors, _ := service.CreateGroup(ctx, membership.GroupInput{Name: "Editors", Limit: 10})
//	edit, _ := service.CreatePermission(ctx, membership.PermissionInput{Name: "Posts Edit", Type: "posts"})
//	service.GrantPermission(ctx, editors.ID, membership.PermissionValue(edit))
//
//	// 4. Assign users
//	if err := service.Assign(ctx, userID, editors.ID, true); membership.IsGroupFull(err) {
//	    // no room left
//	}
//
//	// 5. Check
//	gate := membership.NewGate(service)
//	gate.Boot(ctx)
//	if gate.Allows(ctx, userID, "posts.edit") {
//	    // ...
//	}
//
// # Resource Checks
//
// A check can be scoped to a record. Direct grants then only cover records
// the user owns; group grants cover every record:
//
//	gate.Allows(ctx, userID, "posts.edit",
//	    membership.OnResource(membership.Resource{"user_id": post.AuthorID}, ""))
//
// # Middleware Usage
//
//	mw := membership.NewMiddleware(gate)
//	mux.Handle("POST /posts", mw.RequirePermission("posts.create")(createHandler))
//
// # Audit Log
//
// Every ledger change is logged with the actor, the request metadata found
// in context (IP, user agent, request ID), and the user, group and
// permission involved. Audit write failures never fail the change.
package membership
