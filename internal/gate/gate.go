// Package gate decides, per navigation request, whether a view renders or the
// client is redirected. It keeps no state of its own; every decision reads
// straight off the session store.
package gate

import "github.com/embaixada-angola/studentportal/internal/domain/user"

type View string

const (
	ViewLogin         View = "login"
	ViewDashboard     View = "dashboard"
	ViewDocuments     View = "documents"
	ViewCalendar      View = "calendar"
	ViewAnnouncements View = "announcements"
	ViewSettings      View = "settings"
	ViewAdmin         View = "admin"
	ViewAdminStudents View = "admin/students"
	ViewAdminReports  View = "admin/reports"
)

// DefaultView is where an authenticated user lands.
const DefaultView = ViewDashboard

type Action string

const (
	ActionRender   Action = "render"
	ActionRedirect Action = "redirect"
)

type Decision struct {
	Action Action
	Target View // set when Action is redirect
}

func render() Decision {
	return Decision{Action: ActionRender}
}

func redirect(to View) Decision {
	return Decision{Action: ActionRedirect, Target: to}
}

// adminViews is the sub-tree only admins may enter.
var adminViews = map[View]bool{
	ViewAdmin:         true,
	ViewAdminStudents: true,
	ViewAdminReports:  true,
}

// Decide gates a view on the authentication flag alone. The originally
// requested path is discarded on redirect; there is no return-to deep link.
func Decide(target View, authenticated bool) Decision {
	if target == ViewLogin {
		if authenticated {
			return redirect(DefaultView)
		}
		return render()
	}

	if !authenticated {
		return redirect(ViewLogin)
	}

	return render()
}

// DecideRole layers the role check on top of Decide: an authenticated
// non-admin asking for an admin view is sent back to the dashboard. Hiding
// the menu links alone was never a guarantee.
func DecideRole(target View, authenticated bool, role user.Role) Decision {
	d := Decide(target, authenticated)

	if d.Action == ActionRedirect {
		return d
	}

	if adminViews[target] && role != user.RoleAdmin {
		return redirect(DefaultView)
	}

	return d
}
