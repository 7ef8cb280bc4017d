package service

import (
	"context"
	"testing"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newProfileFixture() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]domain.UserProfile{
		"M1":   {ID: "M1", FullName: "Ama Mensah", Email: "ama@example.com", Role: domain.RoleStationManager, StationID: "S1"},
		"T1":   {ID: "T1", FullName: "Kofi Boateng", Email: "kofi@example.com", Role: domain.RoleAttendant, StationID: "S1"},
		"D-U1": {ID: "D-U1", FullName: "Esi Owusu", Email: "esi@example.com", Role: domain.RoleDealer, DealerID: "D1"},
		"D-U2": {ID: "D-U2", FullName: "Yaw Asante", Email: "yaw@example.com", Role: domain.RoleDealer, DealerID: "D2"},
		"D-U3": {ID: "D-U3", FullName: "Akua Sarpong", Email: "akua@example.com", Role: domain.RoleDealer, DealerID: "D1"},
		"M2":   {ID: "M2", FullName: "Kwame Darko", Email: "kwame@example.com", Role: domain.RoleStationManager, StationID: "S2"},
		"ROOT": {ID: "ROOT", FullName: "Root", Email: "root@example.com", Role: domain.RoleAdmin},
		"ADM":  {ID: "ADM", FullName: "Regional Admin", Email: "adm@example.com", Role: domain.RoleAdmin, DealerID: "D1"},
	}}
}

func newTestProfileService(repo *fakeProfileRepo) *ProfileService {
	return NewProfileService(repo, newFakeStationRepo(fixtureStations()...))
}

func TestProfileService_GetOwnAndOthers(t *testing.T) {
	svc := newTestProfileService(newProfileFixture())
	ctx := context.Background()

	own, err := svc.Get(ctx, attendant, "")
	require.NoError(t, err)
	assert.Equal(t, "Kofi Boateng", own.FullName)

	_, err = svc.Get(ctx, attendant, "M1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	other, err := svc.Get(ctx, dealerD1, "M1")
	require.NoError(t, err)
	assert.Equal(t, "M1", other.ID)

	_, err = svc.Get(ctx, admin, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(ctx, domain.UserContext{Role: domain.RoleAdmin}, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestProfileService_Update(t *testing.T) {
	repo := newProfileFixture()
	svc := newTestProfileService(repo)

	updated, err := svc.Update(context.Background(), managerS1, "", ProfileInput{
		FullName: strPtr("  Ama K. Mensah "),
		Phone:    strPtr("+233 20 000 0000"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ama K. Mensah", updated.FullName)
	assert.Equal(t, "ama@example.com", updated.Email)
	assert.Equal(t, "+233 20 000 0000", updated.Phone)
	assert.Equal(t, domain.RoleStationManager, updated.Role)
	assert.Equal(t, 1, repo.updates)
}

func TestProfileService_UpdateValidation(t *testing.T) {
	repo := newProfileFixture()
	svc := newTestProfileService(repo)

	cases := []struct {
		name  string
		in    ProfileInput
		field string
	}{
		{"blank name", ProfileInput{FullName: strPtr("   ")}, "full_name"},
		{"bad email", ProfileInput{Email: strPtr("not-an-email")}, "email"},
		{"display name email", ProfileInput{Email: strPtr("Ama <ama@example.com>")}, "email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), managerS1, "M1", tc.in)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
		})
	}
	assert.Zero(t, repo.updates)
}

func TestProfileService_UpdateOtherRequiresUserManagement(t *testing.T) {
	repo := newProfileFixture()
	svc := newTestProfileService(repo)
	ctx := context.Background()

	_, err := svc.Update(ctx, managerS1, "T1", ProfileInput{FullName: strPtr("X")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Update(ctx, admin, "T1", ProfileInput{Email: strPtr("kofi.b@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "kofi.b@example.com", repo.profiles["T1"].Email)
}

func TestProfileService_OtherDealersAreNotFound(t *testing.T) {
	repo := newProfileFixture()
	svc := newTestProfileService(repo)
	ctx := context.Background()

	for _, id := range []string{"M2", "D-U2", "ROOT"} {
		_, err := svc.Get(ctx, dealerD1, id)
		assert.ErrorIs(t, err, domain.ErrNotFound, id)

		_, err = svc.Update(ctx, dealerD1, id, ProfileInput{Email: strPtr("attacker@example.com")})
		assert.ErrorIs(t, err, domain.ErrNotFound, id)
	}
	assert.Zero(t, repo.updates)
	assert.Equal(t, "root@example.com", repo.profiles["ROOT"].Email)
	assert.Equal(t, "yaw@example.com", repo.profiles["D-U2"].Email)
}

func TestProfileService_EqualOrHigherRankIsForbidden(t *testing.T) {
	repo := newProfileFixture()
	svc := newTestProfileService(repo)
	ctx := context.Background()

	_, err := svc.Update(ctx, dealerD1, "ADM", ProfileInput{Email: strPtr("attacker@example.com")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Get(ctx, dealerD1, "D-U3")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.Zero(t, repo.updates)
	assert.Equal(t, "adm@example.com", repo.profiles["ADM"].Email)
}

func TestProfileService_OMCScope(t *testing.T) {
	repo := newProfileFixture()
	svc := newTestProfileService(repo)
	ctx := context.Background()

	updated, err := svc.Update(ctx, omcO1, "M2", ProfileInput{Phone: strPtr("0300")})
	require.NoError(t, err)
	assert.Equal(t, "0300", updated.Phone)

	omcO2 := domain.UserContext{ID: "O-U2", Role: domain.RoleOMC, OMCID: "O2"}
	_, err = svc.Get(ctx, omcO2, "M1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
