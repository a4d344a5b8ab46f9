package entitlement

import (
	"fmt"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/domain"
)

// Permission identifiers. The catalog is the single source of truth; every
// permission referenced by a role template or an action gate must appear here.
const (
	PermViewProperties   domain.Permission = "view_properties"
	PermCreateProperties domain.Permission = "create_properties"
	PermEditProperties   domain.Permission = "edit_properties"
	PermDeleteProperties domain.Permission = "delete_properties"
	PermViewTenants      domain.Permission = "view_tenants"
	PermCreateTenants    domain.Permission = "create_tenants"
	PermEditTenants      domain.Permission = "edit_tenants"
	PermDeleteTenants    domain.Permission = "delete_tenants"
	PermViewPayments     domain.Permission = "view_payments"
	PermCreatePayments   domain.Permission = "create_payments"
	PermViewDocuments    domain.Permission = "view_documents"
	PermCreateDocuments  domain.Permission = "create_documents"
	PermDeleteDocuments  domain.Permission = "delete_documents"
	PermCreateProjects   domain.Permission = "create_projects"
	PermViewReports      domain.Permission = "view_reports"
	PermExportData       domain.Permission = "export_data"
	PermSendEmails       domain.Permission = "send_emails"
	PermManageUsers      domain.Permission = "manage_users"
	PermManageBilling    domain.Permission = "manage_billing"
	PermSignDocuments    domain.Permission = "sign_documents"
)

// permissionLabels maps identifiers to human labels for rendering. A missing
// label is an accepted inconsistency; Label falls back to the identifier.
var permissionLabels = map[domain.Permission]string{
	PermViewProperties:   "Consulter les biens",
	PermCreateProperties: "Créer des biens",
	PermEditProperties:   "Modifier les biens",
	PermDeleteProperties: "Supprimer les biens",
	PermViewTenants:      "Consulter les locataires",
	PermCreateTenants:    "Créer des locataires",
	PermEditTenants:      "Modifier les locataires",
	PermDeleteTenants:    "Supprimer les locataires",
	PermViewPayments:     "Consulter les paiements",
	PermCreatePayments:   "Enregistrer des paiements",
	PermViewDocuments:    "Consulter les documents",
	PermCreateDocuments:  "Ajouter des documents",
	PermDeleteDocuments:  "Supprimer des documents",
	PermCreateProjects:   "Créer des projets",
	PermViewReports:      "Consulter les rapports",
	PermExportData:       "Exporter les données",
	PermSendEmails:       "Envoyer des emails",
	PermManageUsers:      "Gérer les utilisateurs",
	PermManageBilling:    "Gérer l'abonnement",
	PermSignDocuments:    "Signer des documents",
}

// catalog is the closed set of known permissions.
var catalog = domain.NewPermissionSet(
	PermViewProperties, PermCreateProperties, PermEditProperties, PermDeleteProperties,
	PermViewTenants, PermCreateTenants, PermEditTenants, PermDeleteTenants,
	PermViewPayments, PermCreatePayments,
	PermViewDocuments, PermCreateDocuments, PermDeleteDocuments,
	PermCreateProjects, PermViewReports, PermExportData, PermSendEmails,
	PermManageUsers, PermManageBilling, PermSignDocuments,
)

// roleTemplates maps each role to its default permission grants.
var roleTemplates = map[domain.Role][]domain.Permission{
	domain.RoleAdmin: {
		PermViewProperties, PermCreateProperties, PermEditProperties, PermDeleteProperties,
		PermViewTenants, PermCreateTenants, PermEditTenants, PermDeleteTenants,
		PermViewPayments, PermCreatePayments,
		PermViewDocuments, PermCreateDocuments, PermDeleteDocuments,
		PermCreateProjects, PermViewReports, PermExportData, PermSendEmails,
		PermManageUsers, PermManageBilling, PermSignDocuments,
	},
	domain.RoleManager: {
		PermViewProperties, PermCreateProperties, PermEditProperties,
		PermViewTenants, PermCreateTenants, PermEditTenants,
		PermViewPayments, PermCreatePayments,
		PermViewDocuments, PermCreateDocuments,
		PermCreateProjects, PermViewReports, PermSendEmails,
	},
	domain.RoleAgent: {
		PermViewProperties, PermViewTenants, PermCreateTenants,
		PermViewPayments, PermCreatePayments,
		PermViewDocuments, PermCreateDocuments,
	},
	domain.RoleAuditor: {
		PermViewProperties, PermViewTenants, PermViewPayments,
		PermViewDocuments, PermViewReports,
	},
	domain.RoleUser: {
		PermViewProperties, PermViewDocuments,
	},
}

// UnknownRoleError indicates a role absent from the templates. It is a
// configuration error and must never be silently defaulted.
type UnknownRoleError struct {
	Role domain.Role
}

func (e *UnknownRoleError) Error() string {
	return fmt.Sprintf("unknown role %q", e.Role)
}

// UnknownPermissionError indicates a permission absent from the catalog.
type UnknownPermissionError struct {
	Permission domain.Permission
}

func (e *UnknownPermissionError) Error() string {
	return fmt.Sprintf("unknown permission %q", e.Permission)
}

// Known reports whether the permission exists in the catalog.
func Known(p domain.Permission) bool {
	return catalog.Has(p)
}

// Label resolves the human label for a permission, falling back to the raw
// identifier when no label is registered.
func Label(p domain.Permission) string {
	if label, ok := permissionLabels[p]; ok {
		return label
	}
	return string(p)
}

// Permissions returns every catalogued permission.
func Permissions() []domain.Permission {
	return catalog.List()
}

// Roles returns the known role identifiers.
func Roles() []domain.Role {
	roles := make([]domain.Role, 0, len(roleTemplates))
	for role := range roleTemplates {
		roles = append(roles, role)
	}
	return roles
}

// PermissionsForRole resolves the default permission set for a role.
func PermissionsForRole(role domain.Role) (domain.PermissionSet, error) {
	template, ok := roleTemplates[role]
	if !ok {
		return nil, &UnknownRoleError{Role: role}
	}
	return domain.NewPermissionSet(template...), nil
}
