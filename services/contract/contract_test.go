package contract

import (
	"context"
	"errors"
	"sync"
	"testing"

	contractRepo "servimarket/database/repository/contract"
	"servimarket/models"
	"servimarket/services/notification"
	"servimarket/utils"
)

// --- fakes ---

type fakeContractRepo struct {
	mu        sync.Mutex
	contracts map[string]*models.Contract
	// conflicts forces the next n ReplaceVersioned calls to fail with a
	// version conflict.
	conflicts int
}

func newFakeContractRepo() *fakeContractRepo {
	return &fakeContractRepo{contracts: make(map[string]*models.Contract)}
}

func (f *fakeContractRepo) Create(c *models.Contract) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.Version = 1
	cp := *c
	f.contracts[c.ID] = &cp
	return nil
}

func (f *fakeContractRepo) GetByID(id string) (*models.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contracts[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeContractRepo) List(filter models.ContractFilter) ([]models.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Contract
	for _, c := range f.contracts {
		if filter.ClientID != "" && c.ClientID != filter.ClientID {
			continue
		}
		if filter.ProviderID != "" && c.ProviderID != filter.ProviderID {
			continue
		}
		if filter.ParticipantID != "" && c.ClientID != filter.ParticipantID && c.ProviderID != filter.ParticipantID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeContractRepo) ReplaceVersioned(c *models.Contract) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conflicts > 0 {
		f.conflicts--
		return contractRepo.ErrVersionConflict
	}
	stored, ok := f.contracts[c.ID]
	if !ok {
		return errors.New("contract not found")
	}
	if stored.Version != c.Version {
		return contractRepo.ErrVersionConflict
	}
	c.Version++
	cp := *c
	f.contracts[c.ID] = &cp
	return nil
}

func (f *fakeContractRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.contracts, id)
	return nil
}

type fakeServiceRepo struct {
	services map[string]*models.Service
}

func (f *fakeServiceRepo) Create(s *models.Service) error { f.services[s.ID] = s; return nil }
func (f *fakeServiceRepo) GetByID(id string) (*models.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}
func (f *fakeServiceRepo) List(models.ServiceFilter) ([]models.Service, error) { return nil, nil }
func (f *fakeServiceRepo) Update(s *models.Service) error                      { f.services[s.ID] = s; return nil }
func (f *fakeServiceRepo) Delete(id string) error                              { delete(f.services, id); return nil }
func (f *fakeServiceRepo) IncrementViews(string) error                         { return nil }
func (f *fakeServiceRepo) CountByCategory(string) (int64, error)               { return 0, nil }
func (f *fakeServiceRepo) UpdateRating(string, float64, int) error             { return nil }

type recordingEmitter struct {
	mu     sync.Mutex
	events []notification.Event
}

func (r *recordingEmitter) Emit(_ context.Context, e notification.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingEmitter) received(userID, eventType string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.UserID == userID && e.Type == eventType {
			return true
		}
	}
	return false
}

// --- helpers ---

var (
	clientUser   = &models.User{ID: "client-1", Name: "Client", UserType: models.UserTypeClient}
	providerUser = &models.User{ID: "provider-1", Name: "Provider", UserType: models.UserTypeProvider}
	adminUser    = &models.User{ID: "admin-1", Name: "Admin", UserType: models.UserTypeAdmin}
)

func rolesFor(u *models.User) models.RoleSet { return models.ResolveRoles(u) }

func newTestService() (*DefaultContractService, *fakeContractRepo, *recordingEmitter) {
	repo := newFakeContractRepo()
	svcRepo := &fakeServiceRepo{services: map[string]*models.Service{
		"svc-1": {
			ID:     "svc-1",
			UserID: providerUser.ID,
			Title:  "Garden maintenance",
			Price:  300,
			Status: models.ServiceStatusActive,
		},
	}}
	emitter := &recordingEmitter{}
	svc := &DefaultContractService{
		Repo:        repo,
		ServiceRepo: svcRepo,
		Notifier:    emitter,
	}
	return svc, repo, emitter
}

func mustCreate(t *testing.T, svc *DefaultContractService, proposed *float64) *models.Contract {
	t.Helper()
	c, err := svc.CreateContract(clientUser, rolesFor(clientUser), CreateRequest{
		ServiceID:     "svc-1",
		Title:         "Weekly garden care",
		Description:   "Mow the lawn and trim the hedges every week.",
		Location:      "12 Rosewood Lane",
		ProposedPrice: proposed,
	})
	if err != nil {
		t.Fatalf("CreateContract failed: %v", err)
	}
	return c
}

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

// --- tests ---

func TestCreateContractDefaultsToServicePrice(t *testing.T) {
	svc, _, emitter := newTestService()
	c := mustCreate(t, svc, nil)

	if c.Status != models.ContractStatusPendingAcceptance {
		t.Fatalf("expected pending_acceptance, got %q", c.Status)
	}
	if c.ProposedPrice != 300 {
		t.Fatalf("expected proposed price 300, got %v", c.ProposedPrice)
	}
	if c.AgreedPrice != nil {
		t.Fatalf("expected no agreed price at creation")
	}
	if !emitter.received(providerUser.ID, models.NotificationContractProposal) {
		t.Fatalf("provider was not notified of the proposal")
	}
}

func TestCreateContractOwnServiceRejected(t *testing.T) {
	svc, _, _ := newTestService()
	owner := &models.User{ID: providerUser.ID, UserType: models.UserTypeBoth}
	_, err := svc.CreateContract(owner, rolesFor(owner), CreateRequest{
		ServiceID:   "svc-1",
		Title:       "Self-dealing contract",
		Description: "A provider contracting their own listing.",
		Location:    "Nowhere",
	})
	if err == nil {
		t.Fatalf("expected error for contracting own service")
	}
	statusErr(t, err, 403)
}

func TestProviderAcceptDefaultsAgreedToProposed(t *testing.T) {
	svc, _, emitter := newTestService()
	c := mustCreate(t, svc, nil)

	updated, err := svc.UpdateStatus(providerUser, rolesFor(providerUser), c.ID, StatusUpdateRequest{
		Status: models.ContractStatusAccepted,
	})
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if updated.Status != models.ContractStatusAccepted {
		t.Fatalf("expected accepted, got %q", updated.Status)
	}
	if updated.AgreedPrice == nil || *updated.AgreedPrice != 300 {
		t.Fatalf("expected agreed price to default to proposed 300, got %v", updated.AgreedPrice)
	}
	if !emitter.received(clientUser.ID, models.NotificationContractAccepted) {
		t.Fatalf("client was not notified of acceptance")
	}
}

func TestCounterOfferRoundTrip(t *testing.T) {
	svc, _, emitter := newTestService()
	c := mustCreate(t, svc, nil)

	counter := 350.0
	updated, err := svc.UpdateStatus(providerUser, rolesFor(providerUser), c.ID, StatusUpdateRequest{
		Status:      models.ContractStatusPendingClientAgreement,
		AgreedPrice: &counter,
	})
	if err != nil {
		t.Fatalf("counter-offer failed: %v", err)
	}
	if updated.Status != models.ContractStatusPendingClientAgreement {
		t.Fatalf("expected pending_client_agreement, got %q", updated.Status)
	}
	if updated.AgreedPrice == nil || *updated.AgreedPrice != 350 {
		t.Fatalf("expected agreed price 350, got %v", updated.AgreedPrice)
	}
	if !emitter.received(clientUser.ID, models.NotificationContractNegotiation) {
		t.Fatalf("client was not notified of the counter-offer")
	}

	// Client accepts the counter-offer; the provider's price sticks.
	accepted, err := svc.UpdateStatus(clientUser, rolesFor(clientUser), c.ID, StatusUpdateRequest{
		Status: models.ContractStatusAccepted,
	})
	if err != nil {
		t.Fatalf("client accept failed: %v", err)
	}
	if accepted.Status != models.ContractStatusAccepted {
		t.Fatalf("expected accepted, got %q", accepted.Status)
	}
	if accepted.AgreedPrice == nil || *accepted.AgreedPrice != 350 {
		t.Fatalf("expected agreed price to remain 350, got %v", accepted.AgreedPrice)
	}
}

func TestCounterOfferRequiresPrice(t *testing.T) {
	svc, _, _ := newTestService()
	c := mustCreate(t, svc, nil)

	_, err := svc.UpdateStatus(providerUser, rolesFor(providerUser), c.ID, StatusUpdateRequest{
		Status: models.ContractStatusPendingClientAgreement,
	})
	if err == nil {
		t.Fatalf("expected error for counter-offer without a price")
	}
	statusErr(t, err, 400)
}

func TestClientCannotAcceptOwnProposal(t *testing.T) {
	svc, repo, _ := newTestService()
	c := mustCreate(t, svc, nil)

	_, err := svc.UpdateStatus(clientUser, rolesFor(clientUser), c.ID, StatusUpdateRequest{
		Status: models.ContractStatusAccepted,
	})
	if err == nil {
		t.Fatalf("expected error: client accepting their own pending proposal")
	}
	statusErr(t, err, 400)

	stored, _ := repo.GetByID(c.ID)
	if stored.Status != models.ContractStatusPendingAcceptance {
		t.Fatalf("contract mutated on a rejected transition: %q", stored.Status)
	}
}

func TestSkippingStatesRejected(t *testing.T) {
	svc, repo, _ := newTestService()
	c := mustCreate(t, svc, nil)

	for _, actorCase := range []struct {
		user  *models.User
		label string
	}{
		{providerUser, "provider"},
		{clientUser, "client"},
	} {
		_, err := svc.UpdateStatus(actorCase.user, rolesFor(actorCase.user), c.ID, StatusUpdateRequest{
			Status: models.ContractStatusCompleted,
		})
		if err == nil {
			t.Fatalf("%s completed a pending contract", actorCase.label)
		}
		statusErr(t, err, 400)
	}

	stored, _ := repo.GetByID(c.ID)
	if stored.Status != models.ContractStatusPendingAcceptance {
		t.Fatalf("contract mutated on rejected transitions: %q", stored.Status)
	}
}

func TestFullLifecycleToCompletion(t *testing.T) {
	svc, _, emitter := newTestService()
	c := mustCreate(t, svc, nil)

	steps := []struct {
		user   *models.User
		status string
	}{
		{providerUser, models.ContractStatusAccepted},
		{providerUser, models.ContractStatusInProgress},
		{clientUser, models.ContractStatusCompleted},
	}
	for _, step := range steps {
		var err error
		_, err = svc.UpdateStatus(step.user, rolesFor(step.user), c.ID, StatusUpdateRequest{Status: step.status})
		if err != nil {
			t.Fatalf("transition to %q failed: %v", step.status, err)
		}
	}

	final, err := svc.GetContractByID(adminUser, rolesFor(adminUser), c.ID)
	if err != nil {
		t.Fatalf("GetContractByID failed: %v", err)
	}
	if final.Status != models.ContractStatusCompleted {
		t.Fatalf("expected completed, got %q", final.Status)
	}
	if final.CompletionDate == nil || final.StartDate == nil || final.EndDate == nil {
		t.Fatalf("expected completion, start and end dates to be set")
	}
	if !emitter.received(providerUser.ID, models.NotificationContractCompletion) {
		t.Fatalf("provider was not notified of completion")
	}
}

func TestTerminalStatesRejectTransitions(t *testing.T) {
	svc, _, _ := newTestService()
	c := mustCreate(t, svc, nil)

	if _, err := svc.UpdateStatus(clientUser, rolesFor(clientUser), c.ID, StatusUpdateRequest{
		Status:             models.ContractStatusCancelled,
		CancellationReason: "Changed my mind",
	}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	_, err := svc.UpdateStatus(providerUser, rolesFor(providerUser), c.ID, StatusUpdateRequest{
		Status: models.ContractStatusAccepted,
	})
	if err == nil {
		t.Fatalf("expected error: transition out of cancelled")
	}
	statusErr(t, err, 400)
}

func TestAdminOverrideToDisputed(t *testing.T) {
	svc, _, emitter := newTestService()
	c := mustCreate(t, svc, nil)

	// disputed is unreachable for the parties themselves.
	_, err := svc.UpdateStatus(providerUser, rolesFor(providerUser), c.ID, StatusUpdateRequest{
		Status: models.ContractStatusDisputed,
	})
	if err == nil {
		t.Fatalf("provider moved a contract to disputed")
	}

	updated, err := svc.UpdateStatus(adminUser, rolesFor(adminUser), c.ID, StatusUpdateRequest{
		Status: models.ContractStatusDisputed,
	})
	if err != nil {
		t.Fatalf("admin override failed: %v", err)
	}
	if updated.Status != models.ContractStatusDisputed {
		t.Fatalf("expected disputed, got %q", updated.Status)
	}
	if !emitter.received(clientUser.ID, models.NotificationContractUpdate) ||
		!emitter.received(providerUser.ID, models.NotificationContractUpdate) {
		t.Fatalf("both parties should be notified of an admin override")
	}
}

func TestOutsiderForbidden(t *testing.T) {
	svc, _, _ := newTestService()
	c := mustCreate(t, svc, nil)

	outsider := &models.User{ID: "other-1", UserType: models.UserTypeBoth}
	_, err := svc.UpdateStatus(outsider, rolesFor(outsider), c.ID, StatusUpdateRequest{
		Status: models.ContractStatusAccepted,
	})
	if err == nil {
		t.Fatalf("expected error for non-participant")
	}
	statusErr(t, err, 403)

	if _, err := svc.GetContractByID(outsider, rolesFor(outsider), c.ID); err == nil {
		t.Fatalf("non-participant read a contract")
	}
}

func TestUpdateStatusRetriesOnVersionConflict(t *testing.T) {
	svc, repo, _ := newTestService()
	c := mustCreate(t, svc, nil)

	repo.conflicts = 2
	updated, err := svc.UpdateStatus(providerUser, rolesFor(providerUser), c.ID, StatusUpdateRequest{
		Status: models.ContractStatusAccepted,
	})
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if updated.Status != models.ContractStatusAccepted {
		t.Fatalf("expected accepted, got %q", updated.Status)
	}
}

func TestUpdateStatusGivesUpAfterRepeatedConflicts(t *testing.T) {
	svc, repo, _ := newTestService()
	c := mustCreate(t, svc, nil)

	repo.conflicts = updateAttempts
	_, err := svc.UpdateStatus(providerUser, rolesFor(providerUser), c.ID, StatusUpdateRequest{
		Status: models.ContractStatusAccepted,
	})
	if err == nil {
		t.Fatalf("expected conflict error after exhausted retries")
	}
	statusErr(t, err, 409)
}

func TestNegotiatePriceFlow(t *testing.T) {
	svc, _, _ := newTestService()
	c := mustCreate(t, svc, nil)

	price := 350.0
	updated, err := svc.NegotiatePrice(providerUser, rolesFor(providerUser), c.ID, NegotiateRequest{NewPrice: &price})
	if err != nil {
		t.Fatalf("provider negotiation failed: %v", err)
	}
	if updated.Status != models.ContractStatusPendingClientAgreement {
		t.Fatalf("expected pending_client_agreement, got %q", updated.Status)
	}
	if updated.AgreedPrice == nil || *updated.AgreedPrice != 350 {
		t.Fatalf("expected agreed price 350, got %v", updated.AgreedPrice)
	}

	counter := 320.0
	updated, err = svc.NegotiatePrice(clientUser, rolesFor(clientUser), c.ID, NegotiateRequest{NewPrice: &counter})
	if err != nil {
		t.Fatalf("client negotiation failed: %v", err)
	}
	if updated.Status != models.ContractStatusPendingAcceptance {
		t.Fatalf("expected pending_acceptance, got %q", updated.Status)
	}
	if updated.ProposedPrice != 320 {
		t.Fatalf("expected proposed price 320, got %v", updated.ProposedPrice)
	}
}

func TestNegotiatePriceRejectedOnceAccepted(t *testing.T) {
	svc, _, _ := newTestService()
	c := mustCreate(t, svc, nil)

	if _, err := svc.UpdateStatus(providerUser, rolesFor(providerUser), c.ID, StatusUpdateRequest{
		Status: models.ContractStatusAccepted,
	}); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	price := 500.0
	_, err := svc.NegotiatePrice(providerUser, rolesFor(providerUser), c.ID, NegotiateRequest{NewPrice: &price})
	if err == nil {
		t.Fatalf("expected error negotiating an accepted contract")
	}
	statusErr(t, err, 400)
}

func TestDeleteContractAdminOnly(t *testing.T) {
	svc, repo, _ := newTestService()
	c := mustCreate(t, svc, nil)

	if err := svc.DeleteContract(clientUser, rolesFor(clientUser), c.ID); err == nil {
		t.Fatalf("client deleted a contract")
	}
	if err := svc.DeleteContract(adminUser, rolesFor(adminUser), c.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	stored, _ := repo.GetByID(c.ID)
	if stored != nil {
		t.Fatalf("contract still present after delete")
	}
}

func TestGetContractsScopedToParticipant(t *testing.T) {
	svc, _, _ := newTestService()
	mustCreate(t, svc, nil)

	mine, err := svc.GetContracts(clientUser, rolesFor(clientUser), ListQuery{Role: "client"})
	if err != nil {
		t.Fatalf("GetContracts failed: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 contract for the client, got %d", len(mine))
	}

	outsider := &models.User{ID: "other-1", UserType: models.UserTypeClient}
	theirs, err := svc.GetContracts(outsider, rolesFor(outsider), ListQuery{})
	if err != nil {
		t.Fatalf("GetContracts failed: %v", err)
	}
	if len(theirs) != 0 {
		t.Fatalf("outsider saw %d contracts", len(theirs))
	}
}
