// Package access derives the subset of each collection visible to a caller.
// Filtering happens at retrieval, not in the presentation layer, so a
// tenant can never observe another tenant's records.
package access

import (
	"apartment-portal/internal/auth"
	"apartment-portal/internal/models"
)

// ScopeServiceRequests returns the service requests the caller may see:
// everything for callers with full visibility, otherwise only their own.
func ScopeServiceRequests(ident auth.Identity, requests []models.ServiceRequest) []models.ServiceRequest {
	if ident.Can(auth.CapViewAllRecords) {
		return requests
	}
	scoped := make([]models.ServiceRequest, 0, len(requests))
	for _, r := range requests {
		if r.TenantID == ident.ID {
			scoped = append(scoped, r)
		}
	}
	return scoped
}

// ScopePayments returns the payments the caller may see.
func ScopePayments(ident auth.Identity, payments []models.PaymentInfo) []models.PaymentInfo {
	if ident.Can(auth.CapViewAllRecords) {
		return payments
	}
	scoped := make([]models.PaymentInfo, 0, len(payments))
	for _, p := range payments {
		if p.TenantID == ident.ID {
			scoped = append(scoped, p)
		}
	}
	return scoped
}

// ScopeUsers returns the user accounts the caller may see. Tenants never
// enumerate other users, so they get an empty slice.
func ScopeUsers(ident auth.Identity, users []models.User) []models.User {
	if ident.Can(auth.CapViewUsers) {
		return users
	}
	return []models.User{}
}
