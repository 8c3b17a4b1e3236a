package views

import "github.com/medicare-pro/admin-console/internal/domain"

// Section is one protected view of the console and the backend collection
// it lists.
type Section struct {
	Path     string
	Title    string
	Resource string
	Roles    []domain.Role
	Columns  []string
}

// Sections lists every protected view in sidebar order. A nil Roles slice
// admits any signed-in user.
var Sections = []Section{
	{Path: "/patients", Title: "Patients", Resource: "/api/patients", Columns: []string{"name", "age", "gender", "contact", "status"}},
	{Path: "/appointments", Title: "Appointments", Resource: "/api/appointments", Columns: []string{"patientName", "doctorName", "date", "time", "status"}},
	{Path: "/staff", Title: "Staff", Resource: "/staff", Columns: []string{"name", "role", "email"}},
	{Path: "/staff-management", Title: "Staff Management", Resource: "/staff", Columns: []string{"name", "role", "email", "department"}},
	{Path: "/doctors", Title: "Doctors", Resource: "/doctors", Roles: []domain.Role{domain.RoleAdmin, domain.RoleDoctor}, Columns: []string{"name", "specialization", "email", "phone"}},
	{Path: "/doctor-dashboard", Title: "My Patients", Resource: "/api/patients", Roles: []domain.Role{domain.RoleDoctor}, Columns: []string{"name", "age", "condition", "status"}},
	{Path: "/inventory", Title: "Inventory", Resource: "/inventory", Columns: []string{"item", "category", "quantity", "status"}},
	{Path: "/billing", Title: "Billing", Resource: "/billing", Roles: []domain.Role{domain.RoleAdmin, domain.RoleReceptionist}, Columns: []string{"patientName", "amount", "status", "dueDate"}},
	{Path: "/laboratory", Title: "Laboratory", Resource: "/laboratory", Roles: []domain.Role{domain.RoleAdmin, domain.RoleLabTech}, Columns: []string{"testName", "patientName", "status", "date"}},
	{Path: "/pharmacy", Title: "Pharmacy", Resource: "/pharmacy", Roles: []domain.Role{domain.RoleAdmin, domain.RolePharmacist}, Columns: []string{"name", "stock", "expiryDate", "status"}},
	{Path: "/beds", Title: "Beds & Rooms", Resource: "/bed-room", Roles: []domain.Role{domain.RoleAdmin, domain.RoleNurse}, Columns: []string{"roomNumber", "bedNumber", "ward", "status"}},
	{Path: "/emergency", Title: "Emergency Cases", Resource: "/emergency-cases", Roles: []domain.Role{domain.RoleAdmin, domain.RoleNurse}, Columns: []string{"patientName", "severity", "arrivalTime", "status"}},
	{Path: "/reports", Title: "Reports", Resource: "/reports", Roles: []domain.Role{domain.RoleAdmin, domain.RoleAnalyst}, Columns: []string{"title", "type", "date"}},
	{Path: "/settings", Title: "Settings", Resource: "/users", Roles: []domain.Role{domain.RoleAdmin}, Columns: []string{"username", "role"}},
}

// NavItem is a sidebar link.
type NavItem struct {
	Path   string
	Title  string
	Active bool
}

// Navigation returns the sidebar for user, hiding sections the user cannot open.
func Navigation(user *domain.User, activePath string) []NavItem {
	items := []NavItem{{Path: "/", Title: "Dashboard", Active: activePath == "/"}}
	for _, s := range Sections {
		if !domain.HasRole(user, s.Roles...) {
			continue
		}
		items = append(items, NavItem{Path: s.Path, Title: s.Title, Active: s.Path == activePath})
	}
	return items
}
