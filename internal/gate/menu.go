package gate

import "github.com/embaixada-angola/studentportal/internal/domain/user"

// MenuEntry is one sidebar item. AdminOnly controls visibility, not access;
// access is enforced by DecideRole and the API's role middleware.
type MenuEntry struct {
	Label     string `json:"label"`
	View      View   `json:"view"`
	Icon      string `json:"icon,omitempty"`
	AdminOnly bool   `json:"adminOnly,omitempty"`
}

var menu = []MenuEntry{
	{Label: "Painel", View: ViewDashboard, Icon: "home"},
	{Label: "Documentos", View: ViewDocuments, Icon: "file-text"},
	{Label: "Calendário", View: ViewCalendar, Icon: "calendar"},
	{Label: "Comunicados", View: ViewAnnouncements, Icon: "bell"},
	{Label: "Definições", View: ViewSettings, Icon: "settings"},
	{Label: "Administração", View: ViewAdmin, Icon: "shield", AdminOnly: true},
	{Label: "Estudantes", View: ViewAdminStudents, Icon: "users", AdminOnly: true},
	{Label: "Relatórios", View: ViewAdminReports, Icon: "bar-chart", AdminOnly: true},
}

// MenuFor filters the static menu by role. Pure function, no side effects.
func MenuFor(role user.Role) []MenuEntry {
	out := make([]MenuEntry, 0, len(menu))

	for _, e := range menu {
		if e.AdminOnly && role != user.RoleAdmin {
			continue
		}
		out = append(out, e)
	}

	return out
}
