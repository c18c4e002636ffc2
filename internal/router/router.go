// Package router decides which screen a request may reach. It owns no data:
// it compares the live session with a static path table.
package router

import (
	"fmt"
	"path"
	"strings"

	"github.com/safar/vendor-portal/internal/auth"
	"github.com/safar/vendor-portal/internal/models"
)

type Screen string

const (
	ScreenSignIn          Screen = "sign-in"
	ScreenAdminDashboard  Screen = "admin-dashboard"
	ScreenVendors         Screen = "vendors"
	ScreenCreateVendor    Screen = "create-vendor"
	ScreenProducts        Screen = "products"
	ScreenCreateProduct   Screen = "create-product"
	ScreenPurchaseOrders  Screen = "purchase-orders"
	ScreenOrderBuilder    Screen = "order-builder"
	ScreenVendorDashboard Screen = "vendor-dashboard"
	ScreenVendorOrders    Screen = "vendor-orders"
)

const (
	SignInPath = "/login"
	AdminHome  = "/admin"
	VendorHome = "/vendor"
)

// Route binds a path to the role allowed to see it. A Subtree route also
// covers every path below it.
type Route struct {
	Path    string
	Role    models.Role
	Screen  Screen
	Subtree bool
}

var Table = []Route{
	{Path: AdminHome, Role: models.RoleAdmin, Screen: ScreenAdminDashboard},
	{Path: "/admin/vendors", Role: models.RoleAdmin, Screen: ScreenVendors},
	{Path: "/admin/vendors/create", Role: models.RoleAdmin, Screen: ScreenCreateVendor},
	{Path: "/admin/products", Role: models.RoleAdmin, Screen: ScreenProducts},
	{Path: "/admin/products/create", Role: models.RoleAdmin, Screen: ScreenCreateProduct},
	{Path: "/admin/purchase-orders", Role: models.RoleAdmin, Screen: ScreenPurchaseOrders, Subtree: true},
	{Path: "/admin/purchase-orders/create", Role: models.RoleAdmin, Screen: ScreenOrderBuilder, Subtree: true},
	{Path: VendorHome, Role: models.RoleVendor, Screen: ScreenVendorDashboard},
	{Path: "/vendor/orders", Role: models.RoleVendor, Screen: ScreenVendorOrders, Subtree: true},
}

type Outcome int

const (
	Render Outcome = iota
	Redirect
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	case NotFound:
		return "not-found"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

type Decision struct {
	Outcome  Outcome
	Screen   Screen
	Location string
}

func Home(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return AdminHome
	case models.RoleVendor:
		return VendorHome
	default:
		return SignInPath
	}
}

// Resolve applies the guard to a request path.
//
//   - anonymous: only the sign-in path renders, everything else redirects to it
//   - signed in: "/" and the sign-in path redirect home, a path owned by the
//     other role redirects home, an unknown path is not found
func Resolve(p string, session *auth.Session) Decision {
	p = normalize(p)

	if session == nil {
		if p == SignInPath {
			return Decision{Outcome: Render, Screen: ScreenSignIn}
		}
		return Decision{Outcome: Redirect, Location: SignInPath}
	}

	switch session.Role {
	case models.RoleAdmin, models.RoleVendor:
	default:
		return Decision{Outcome: Redirect, Location: SignInPath}
	}

	home := Home(session.Role)
	if p == "/" || p == SignInPath {
		return Decision{Outcome: Redirect, Location: home}
	}

	route, ok := Lookup(p)
	if !ok {
		return Decision{Outcome: NotFound}
	}
	if route.Role != session.Role {
		return Decision{Outcome: Redirect, Location: home}
	}
	return Decision{Outcome: Render, Screen: route.Screen}
}

// Lookup returns the most specific route covering p.
func Lookup(p string) (Route, bool) {
	p = normalize(p)

	var best Route
	found := false
	for _, r := range Table {
		if !r.covers(p) {
			continue
		}
		if !found || len(r.Path) > len(best.Path) {
			best, found = r, true
		}
	}
	return best, found
}

func (r Route) covers(p string) bool {
	if p == r.Path {
		return true
	}
	return r.Subtree && strings.HasPrefix(p, r.Path+"/")
}

func normalize(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
