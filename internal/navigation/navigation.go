package navigation

import (
	"contractor_connect/internal/model"
	"contractor_connect/internal/session"
)

// Route names the screen tree to mount
type Route int

const (
	RouteLoading Route = iota
	RouteAuth
	RouteSociety
	RouteContractor
	RouteUnsupported
)

func (r Route) String() string {
	switch r {
	case RouteLoading:
		return "loading"
	case RouteAuth:
		return "auth"
	case RouteSociety:
		return "society"
	case RouteContractor:
		return "contractor"
	default:
		return "unsupported"
	}
}

// Select picks the route for a session state. It has no side effects.
func Select(state session.State) Route {
	switch {
	case state.Initializing:
		return RouteLoading
	case !state.Authenticated || state.User == nil:
		return RouteAuth
	case state.User.Role == model.RoleSociety:
		return RouteSociety
	case state.User.Role == model.RoleContractor:
		return RouteContractor
	default:
		return RouteUnsupported
	}
}
