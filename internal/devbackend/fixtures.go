package devbackend

import "github.com/medicare-pro/admin-console/internal/domain"

// Collection is a read-only resource list served by the development backend.
type Collection struct {
	Path  string
	Roles []domain.Role
	Rows  []map[string]any
}

var collections = []Collection{
	{Path: "/api/patients", Rows: []map[string]any{
		{"id": 1, "name": "John Carter", "age": 45, "gender": "Male", "contact": "555-0101", "condition": "Hypertension", "status": "Admitted"},
		{"id": 2, "name": "Maria Lopez", "age": 32, "gender": "Female", "contact": "555-0102", "condition": "Fracture", "status": "Outpatient"},
		{"id": 3, "name": "Chen Wei", "age": 67, "gender": "Male", "contact": "555-0103", "condition": "Diabetes", "status": "Discharged"},
	}},
	{Path: "/api/appointments", Rows: []map[string]any{
		{"id": 1, "patientName": "John Carter", "doctorName": "Dr. Gregory House", "date": "2026-10-20", "time": "09:30", "status": "Scheduled"},
		{"id": 2, "patientName": "Maria Lopez", "doctorName": "Dr. Lisa Cuddy", "date": "2026-10-21", "time": "14:00", "status": "Confirmed"},
	}},
	{Path: "/api/notifications", Rows: []map[string]any{
		{"id": 1, "message": "Lab results ready for John Carter", "read": false},
	}},
	{Path: "/staff", Rows: []map[string]any{
		{"id": 1, "name": "Nina Nurse", "role": "Nurse", "email": "nurse@medicare.test", "department": "Emergency"},
		{"id": 2, "name": "Rita Reception", "role": "Receptionist", "email": "reception@medicare.test", "department": "Front Desk"},
	}},
	{Path: "/doctors", Roles: []domain.Role{domain.RoleAdmin, domain.RoleDoctor}, Rows: []map[string]any{
		{"id": 1, "name": "Dr. Gregory House", "specialization": "Diagnostics", "email": "doctor@medicare.test", "phone": "555-0201"},
		{"id": 2, "name": "Dr. Lisa Cuddy", "specialization": "Endocrinology", "email": "cuddy@medicare.test", "phone": "555-0202"},
	}},
	{Path: "/inventory", Rows: []map[string]any{
		{"id": 1, "item": "Surgical Gloves", "category": "Consumables", "quantity": 1200, "status": "In Stock"},
		{"id": 2, "item": "Infusion Pump", "category": "Equipment", "quantity": 4, "status": "Low Stock"},
	}},
	{Path: "/billing", Roles: []domain.Role{domain.RoleAdmin, domain.RoleReceptionist}, Rows: []map[string]any{
		{"id": 1, "patientName": "John Carter", "amount": 1250.5, "status": "Pending", "dueDate": "2026-11-01"},
		{"id": 2, "patientName": "Maria Lopez", "amount": 320, "status": "Paid", "dueDate": "2026-10-10"},
	}},
	{Path: "/laboratory", Roles: []domain.Role{domain.RoleAdmin, domain.RoleLabTech}, Rows: []map[string]any{
		{"id": 1, "testName": "Complete Blood Count", "patientName": "John Carter", "status": "Completed", "date": "2026-10-12"},
	}},
	{Path: "/pharmacy", Roles: []domain.Role{domain.RoleAdmin, domain.RolePharmacist}, Rows: []map[string]any{
		{"id": 1, "name": "Amoxicillin 500mg", "stock": 340, "expiryDate": "2027-03-01", "status": "Available"},
		{"id": 2, "name": "Insulin Glargine", "stock": 12, "expiryDate": "2026-12-15", "status": "Low"},
	}},
	{Path: "/bed-room", Roles: []domain.Role{domain.RoleAdmin, domain.RoleNurse}, Rows: []map[string]any{
		{"id": 1, "roomNumber": "101", "bedNumber": "A", "ward": "General", "status": "Occupied"},
		{"id": 2, "roomNumber": "101", "bedNumber": "B", "ward": "General", "status": "Available"},
	}},
	{Path: "/emergency-cases", Roles: []domain.Role{domain.RoleAdmin, domain.RoleNurse}, Rows: []map[string]any{
		{"id": 1, "patientName": "Unknown Male", "severity": "Critical", "arrivalTime": "2026-10-15T02:14:00Z", "status": "In Treatment"},
	}},
	{Path: "/reports", Roles: []domain.Role{domain.RoleAdmin, domain.RoleAnalyst}, Rows: []map[string]any{
		{"id": 1, "title": "Monthly Admissions", "type": "Operational", "date": "2026-09-30"},
		{"id": 2, "title": "Revenue Summary", "type": "Financial", "date": "2026-09-30"},
	}},
}
