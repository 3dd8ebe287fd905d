package access

// Permission is a single capability a role may hold.
type Permission string

const (
	PermRecordEntry Permission = "transactions.entry"
	PermRecordExit  Permission = "transactions.exit"
	PermViewAreas   Permission = "areas.view"
	PermManageAreas Permission = "areas.manage"
	PermViewReports Permission = "reports.view"
	PermExport      Permission = "reports.export"
	PermManageUsers Permission = "users.manage"
)

// NavEntry is one sidebar item of the dashboard.
type NavEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

// View is everything the frontend needs to render a role's dashboard
// shell: navigation, landing widgets and the capability set.
type View struct {
	Role        Role         `json:"role"`
	Nav         []NavEntry   `json:"nav"`
	Widgets     []string     `json:"widgets"`
	Permissions []Permission `json:"permissions"`
}

var (
	navDashboard    = NavEntry{Key: "dashboard", Label: "Dashboard", Path: "/"}
	navTransactions = NavEntry{Key: "transactions", Label: "Transaksi", Path: "/transactions"}
	navAreas        = NavEntry{Key: "areas", Label: "Area Parkir", Path: "/areas"}
	navReports      = NavEntry{Key: "reports", Label: "Laporan", Path: "/reports"}
	navUsers        = NavEntry{Key: "users", Label: "Pengguna", Path: "/users"}
)

// views is the single source of truth for what each role sees. Admin gets
// everything, the owner sees the business side without user management,
// and operators (petugas) get the gate workflow only.
var views = map[Role]View{
	RoleAdmin: {
		Role:    RoleAdmin,
		Nav:     []NavEntry{navDashboard, navTransactions, navAreas, navReports, navUsers},
		Widgets: []string{"stats", "notifications", "occupancy", "revenue"},
		Permissions: []Permission{
			PermRecordEntry, PermRecordExit, PermViewAreas, PermManageAreas,
			PermViewReports, PermExport, PermManageUsers,
		},
	},
	RoleOwner: {
		Role:    RoleOwner,
		Nav:     []NavEntry{navDashboard, navTransactions, navAreas, navReports},
		Widgets: []string{"stats", "occupancy", "revenue"},
		Permissions: []Permission{
			PermRecordEntry, PermViewAreas, PermManageAreas,
			PermViewReports, PermExport,
		},
	},
	RolePetugas: {
		Role:    RolePetugas,
		Nav:     []NavEntry{navDashboard, navTransactions, navAreas},
		Widgets: []string{"stats", "notifications", "occupancy"},
		Permissions: []Permission{
			PermRecordEntry, PermRecordExit, PermViewAreas,
		},
	},
}

// ViewFor returns the dashboard view of a role.
func ViewFor(r Role) (View, error) {
	v, ok := views[r]
	if !ok {
		return View{}, ErrUnknownRole
	}
	return v, nil
}

// Allowed reports whether the role holds the permission.
func Allowed(r Role, p Permission) bool {
	v, ok := views[r]
	if !ok {
		return false
	}
	for _, got := range v.Permissions {
		if got == p {
			return true
		}
	}
	return false
}
