package companies

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/brokerlane/brokerlane-backend/pkg/auth"
	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
	"github.com/brokerlane/brokerlane-backend/pkg/enums"
	pkgerrors "github.com/brokerlane/brokerlane-backend/pkg/errors"
)

type stubCompaniesRepo struct {
	Repository
	created []*models.Company
}

func (s *stubCompaniesRepo) Create(ctx context.Context, company *models.Company) (*models.Company, error) {
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	s.created = append(s.created, company)
	return company, nil
}

type stubProfiles struct {
	profiles map[uuid.UUID]*models.Profile
}

func (s *stubProfiles) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, ok := s.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func newCompaniesFixture(t *testing.T) (Service, *stubCompaniesRepo, *stubProfiles, auth.Actor, uuid.UUID) {
	t.Helper()

	partnerCompanyID := uuid.New()
	partner := auth.Actor{
		UserID:           uuid.New(),
		Role:             enums.ActorRolePartner,
		PartnerCompanyID: &partnerCompanyID,
	}
	client := uuid.New()

	profiles := &stubProfiles{profiles: map[uuid.UUID]*models.Profile{
		partner.UserID: {
			ID:               partner.UserID,
			Role:             enums.ActorRolePartner,
			PartnerCompanyID: &partnerCompanyID,
		},
		client: {ID: client, Role: enums.ActorRoleClient},
	}}
	repo := &stubCompaniesRepo{}
	svc, err := NewService(ServiceParams{Repo: repo, Profiles: profiles})
	require.NoError(t, err)
	return svc, repo, profiles, partner, client
}

func TestCreateReferredStampsReferralLinkage(t *testing.T) {
	svc, repo, _, partner, client := newCompaniesFixture(t)

	view, err := svc.CreateReferred(context.Background(), partner, CreateReferredInput{
		Name:              "  Acme Metals Ltd  ",
		PrimaryDirectorID: client,
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme Metals Ltd", view.Name)
	require.NotNil(t, view.ReferredByID)
	assert.Equal(t, partner.UserID, *view.ReferredByID)
	require.NotNil(t, view.PartnerCompanyID)
	assert.Equal(t, *partner.PartnerCompanyID, *view.PartnerCompanyID)

	require.Len(t, repo.created, 1)
	stored := repo.created[0]
	assert.Equal(t, client, stored.PrimaryDirectorID)
	require.NotNil(t, stored.ReferredByID)
	assert.Equal(t, partner.UserID, *stored.ReferredByID)
}

func TestCreateReferredPartnerOnly(t *testing.T) {
	svc, repo, _, _, client := newCompaniesFixture(t)

	actor := auth.Actor{UserID: uuid.New(), Role: enums.ActorRoleClient}
	_, err := svc.CreateReferred(context.Background(), actor, CreateReferredInput{
		Name:              "Acme Metals Ltd",
		PrimaryDirectorID: client,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
	assert.Empty(t, repo.created)
}

func TestCreateReferredChecksStoredProfileNotClaims(t *testing.T) {
	svc, repo, profiles, partner, client := newCompaniesFixture(t)

	// The stored profile moved to a different partner company since the
	// token was minted. The write must be refused.
	otherPartnerCompany := uuid.New()
	profiles.profiles[partner.UserID].PartnerCompanyID = &otherPartnerCompany

	view, err := svc.CreateReferred(context.Background(), partner, CreateReferredInput{
		Name:              "Acme Metals Ltd",
		PrimaryDirectorID: client,
	})
	require.NoError(t, err)
	require.NotNil(t, view.PartnerCompanyID)
	assert.Equal(t, otherPartnerCompany, *view.PartnerCompanyID, "linkage follows the stored profile")
	require.Len(t, repo.created, 1)
}

func TestCreateReferredRejectsPartnerWithoutPartnerCompany(t *testing.T) {
	svc, repo, profiles, partner, client := newCompaniesFixture(t)

	profiles.profiles[partner.UserID].PartnerCompanyID = nil

	_, err := svc.CreateReferred(context.Background(), partner, CreateReferredInput{
		Name:              "Acme Metals Ltd",
		PrimaryDirectorID: client,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Empty(t, repo.created)
}

func TestCreateReferredRejectsNonClientDirector(t *testing.T) {
	svc, repo, profiles, partner, _ := newCompaniesFixture(t)

	admin := uuid.New()
	profiles.profiles[admin] = &models.Profile{ID: admin, Role: enums.ActorRoleAdmin}

	_, err := svc.CreateReferred(context.Background(), partner, CreateReferredInput{
		Name:              "Acme Metals Ltd",
		PrimaryDirectorID: admin,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Empty(t, repo.created)
}

func TestCreateReferredUnknownDirectorIsNotFound(t *testing.T) {
	svc, _, _, partner, _ := newCompaniesFixture(t)

	_, err := svc.CreateReferred(context.Background(), partner, CreateReferredInput{
		Name:              "Acme Metals Ltd",
		PrimaryDirectorID: uuid.New(),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCheckReferralInvariant(t *testing.T) {
	partnerCompany := uuid.New()
	referrerID := uuid.New()
	referrer := &models.Profile{
		ID:               referrerID,
		Role:             enums.ActorRolePartner,
		PartnerCompanyID: &partnerCompany,
	}
	company := &models.Company{
		ReferredByID:     &referrerID,
		PartnerCompanyID: &partnerCompany,
	}

	require.NoError(t, CheckReferral(company, referrer))
	require.NoError(t, CheckReferral(&models.Company{}, nil), "no referral, nothing to check")

	require.Error(t, CheckReferral(company, nil))

	clientReferrer := &models.Profile{ID: referrerID, Role: enums.ActorRoleClient, PartnerCompanyID: &partnerCompany}
	err := CheckReferral(company, clientReferrer)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	otherCompany := uuid.New()
	mismatched := &models.Company{ReferredByID: &referrerID, PartnerCompanyID: &otherCompany}
	err = CheckReferral(mismatched, referrer)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
