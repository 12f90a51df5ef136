package companies

import (
	pkgerrors "github.com/brokerlane/brokerlane-backend/pkg/errors"

	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
	"github.com/brokerlane/brokerlane-backend/pkg/enums"
)

// CheckReferral enforces the referral invariant: a company's referred_by, when
// set, must point at a partner profile whose partner company matches the
// company's own partner_company_id.
func CheckReferral(company *models.Company, referrer *models.Profile) error {
	if company == nil || company.ReferredByID == nil {
		return nil
	}
	if referrer == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "referring profile not found")
	}
	if referrer.Role != enums.ActorRolePartner {
		return pkgerrors.New(pkgerrors.CodeValidation, "referred_by must reference a partner profile")
	}
	if referrer.PartnerCompanyID == nil || company.PartnerCompanyID == nil ||
		*referrer.PartnerCompanyID != *company.PartnerCompanyID {
		return pkgerrors.New(pkgerrors.CodeValidation, "referring partner belongs to a different partner company")
	}
	return nil
}
