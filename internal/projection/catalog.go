package projection

import (
	"strings"

	"hospital-portal/internal/domain/entity"
)

// FilterDoctors matches name or specialty, case-insensitive.
func FilterDoctors(doctors []entity.Doctor, search string) []entity.Doctor {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return doctors
	}
	filtered := make([]entity.Doctor, 0, len(doctors))
	for _, d := range doctors {
		if containsFold(d.Name, needle) || containsFold(d.Specialty, needle) {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// FilterServices matches title or description, case-insensitive.
func FilterServices(services []entity.Service, search string) []entity.Service {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return services
	}
	filtered := make([]entity.Service, 0, len(services))
	for _, s := range services {
		if containsFold(s.Title, needle) || containsFold(s.Description, needle) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// FilterUsers matches email, name or role, case-insensitive.
func FilterUsers(users []entity.UserProfile, search string) []entity.UserProfile {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return users
	}
	filtered := make([]entity.UserProfile, 0, len(users))
	for _, u := range users {
		if containsFold(u.Email, needle) || containsFold(u.Name, needle) || containsFold(string(u.Role), needle) {
			filtered = append(filtered, u)
		}
	}
	return filtered
}

// CountByRole tallies profiles per role. Every role is present in the result.
func CountByRole(users []entity.UserProfile) map[string]int {
	counts := map[string]int{
		string(entity.RoleAdmin):   0,
		string(entity.RoleDoctor):  0,
		string(entity.RolePatient): 0,
	}
	for _, u := range users {
		counts[string(u.Role)]++
	}
	return counts
}
