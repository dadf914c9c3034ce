package user

import (
	"errors"
	"testing"

	"servimarket/models"
	"servimarket/utils"

	"go.mongodb.org/mongo-driver/bson"
)

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Create(u *models.User) error {
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetAll() ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateFields(id string, fields bson.M) error {
	u, ok := f.users[id]
	if !ok {
		return errors.New("user not found")
	}
	for k, v := range fields {
		switch k {
		case "name":
			u.Name = v.(string)
		case "phone":
			u.Phone = v.(string)
		case "address":
			u.Address = v.(string)
		case "bio":
			u.Bio = v.(string)
		case "profile_picture":
			u.ProfilePicture = v.(string)
		case "user_type":
			u.UserType = v.(string)
		case "status":
			u.Status = v.(string)
		case "password_hash":
			u.PasswordHash = v.(string)
		case "token_hash":
			u.TokenHash = v.(string)
		}
	}
	return nil
}

func (f *fakeUserRepo) Delete(id string) error { delete(f.users, id); return nil }

func (f *fakeUserRepo) SetTokenHash(id, tokenHash string) error {
	if u, ok := f.users[id]; ok {
		u.TokenHash = tokenHash
	}
	return nil
}

func (f *fakeUserRepo) UpdateRating(string, float64, int) error { return nil }

func statusErr(t *testing.T, err error, wantCode int) {
	t.Helper()
	var apiErr *utils.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *utils.Error, got %v", err)
	}
	if apiErr.Code != wantCode {
		t.Fatalf("expected status %d, got %d (%s)", wantCode, apiErr.Code, apiErr.Message)
	}
}

func register(t *testing.T, svc *DefaultUserService, email string) *AuthResponse {
	t.Helper()
	resp, err := svc.Register(RegisterRequest{
		Name:     "Ana Torres",
		Email:    email,
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return resp
}

func TestRegisterIssuesTokenAndDefaults(t *testing.T) {
	svc := &DefaultUserService{Repo: newFakeUserRepo()}

	resp := register(t, svc, "Ana@Example.COM")
	if resp.Token == "" {
		t.Fatalf("expected a token")
	}
	if resp.User.Email != "ana@example.com" {
		t.Fatalf("email not normalized: %q", resp.User.Email)
	}
	if resp.User.UserType != models.UserTypeBoth {
		t.Fatalf("expected default user_type both, got %q", resp.User.UserType)
	}
	if resp.User.Status != models.UserStatusActive {
		t.Fatalf("expected active status, got %q", resp.User.Status)
	}

	sub, err := utils.ExtractIDFromToken(resp.Token)
	if err != nil || sub != resp.User.ID {
		t.Fatalf("token subject mismatch: %q, %v", sub, err)
	}
}

func TestRegisterRejectsAdminType(t *testing.T) {
	svc := &DefaultUserService{Repo: newFakeUserRepo()}
	_, err := svc.Register(RegisterRequest{
		Name:     "Eve",
		Email:    "eve@example.com",
		Password: "hunter22",
		UserType: models.UserTypeAdmin,
	})
	if err == nil {
		t.Fatalf("self-registered an admin account")
	}
	statusErr(t, err, 400)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := &DefaultUserService{Repo: newFakeUserRepo()}
	register(t, svc, "ana@example.com")

	_, err := svc.Register(RegisterRequest{
		Name:     "Another Ana",
		Email:    "ANA@example.com",
		Password: "different",
	})
	if err == nil {
		t.Fatalf("accepted a duplicate email")
	}
	statusErr(t, err, 409)
}

func TestAuthenticate(t *testing.T) {
	svc := &DefaultUserService{Repo: newFakeUserRepo()}
	register(t, svc, "ana@example.com")

	resp, err := svc.Authenticate("ana@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("expected a token")
	}

	if _, err := svc.Authenticate("ana@example.com", "wrong"); err == nil {
		t.Fatalf("authenticated with a wrong password")
	}
	if _, err := svc.Authenticate("ghost@example.com", "hunter22"); err == nil {
		t.Fatalf("authenticated an unknown account")
	}
}

func TestAuthenticateSuspendedAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := &DefaultUserService{Repo: repo}
	resp := register(t, svc, "ana@example.com")

	repo.users[resp.User.ID].Status = models.UserStatusSuspended
	_, err := svc.Authenticate("ana@example.com", "hunter22")
	if err == nil {
		t.Fatalf("authenticated a suspended account")
	}
	statusErr(t, err, 403)
}

func TestLogoutClearsTokenHash(t *testing.T) {
	repo := newFakeUserRepo()
	svc := &DefaultUserService{Repo: repo}
	resp := register(t, svc, "ana@example.com")

	if repo.users[resp.User.ID].TokenHash == "" {
		t.Fatalf("expected token hash after registration")
	}
	if err := svc.Logout(resp.User.ID); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if repo.users[resp.User.ID].TokenHash != "" {
		t.Fatalf("token hash not cleared on logout")
	}
}

func TestUpdateUserPermissions(t *testing.T) {
	repo := newFakeUserRepo()
	svc := &DefaultUserService{Repo: repo}
	resp := register(t, svc, "ana@example.com")
	target := resp.User

	other := &models.User{ID: "other-1", UserType: models.UserTypeClient}
	if _, err := svc.UpdateUser(other, models.ResolveRoles(other), target.ID, UpdateRequest{Name: "Hijack"}); err == nil {
		t.Fatalf("stranger updated another user's profile")
	}

	updated, err := svc.UpdateUser(target, models.ResolveRoles(target), target.ID, UpdateRequest{Bio: "Gardener since 2015"})
	if err != nil {
		t.Fatalf("self update failed: %v", err)
	}
	if updated.Bio != "Gardener since 2015" {
		t.Fatalf("bio not updated: %q", updated.Bio)
	}

	// Privilege escalation and status moderation are admin-only.
	if _, err := svc.UpdateUser(target, models.ResolveRoles(target), target.ID, UpdateRequest{UserType: models.UserTypeAdmin}); err == nil {
		t.Fatalf("user granted themselves the admin type")
	}
	if _, err := svc.UpdateUser(target, models.ResolveRoles(target), target.ID, UpdateRequest{Status: models.UserStatusSuspended}); err == nil {
		t.Fatalf("user changed their own status")
	}

	admin := &models.User{ID: "admin-1", UserType: models.UserTypeAdmin}
	suspended, err := svc.UpdateUser(admin, models.ResolveRoles(admin), target.ID, UpdateRequest{Status: models.UserStatusSuspended})
	if err != nil {
		t.Fatalf("admin status change failed: %v", err)
	}
	if suspended.Status != models.UserStatusSuspended {
		t.Fatalf("status not updated: %q", suspended.Status)
	}
}

func TestUpdatePasswordInvalidatesToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := &DefaultUserService{Repo: repo}
	resp := register(t, svc, "ana@example.com")

	if err := svc.UpdatePassword(resp.User.ID, "wrong", "newsecret"); err == nil {
		t.Fatalf("changed password with a wrong current password")
	}
	if err := svc.UpdatePassword(resp.User.ID, "hunter22", "short"); err == nil {
		t.Fatalf("accepted a too-short password")
	}
	if err := svc.UpdatePassword(resp.User.ID, "hunter22", "newsecret"); err != nil {
		t.Fatalf("UpdatePassword failed: %v", err)
	}
	if repo.users[resp.User.ID].TokenHash != "" {
		t.Fatalf("token hash not invalidated after password change")
	}

	if _, err := svc.Authenticate("ana@example.com", "newsecret"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestDeleteUserSelfOrAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := &DefaultUserService{Repo: repo}
	resp := register(t, svc, "ana@example.com")

	other := &models.User{ID: "other-1", UserType: models.UserTypeClient}
	if err := svc.DeleteUser(other, models.ResolveRoles(other), resp.User.ID); err == nil {
		t.Fatalf("stranger deleted another account")
	}
	if err := svc.DeleteUser(resp.User, models.ResolveRoles(resp.User), resp.User.ID); err != nil {
		t.Fatalf("self delete failed: %v", err)
	}
	if _, err := svc.GetUserByID(resp.User.ID); err == nil {
		t.Fatalf("account still readable after delete")
	}
}
