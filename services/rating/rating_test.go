package rating

import (
	"context"
	"errors"
	"sync"
	"testing"

	"servimarket/models"
	"servimarket/services/notification"
	"servimarket/utils"

	"go.mongodb.org/mongo-driver/bson"
)

// --- fakes ---

type fakeRatingRepo struct {
	mu      sync.Mutex
	ratings map[string]*models.Rating
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{ratings: make(map[string]*models.Rating)}
}

func (f *fakeRatingRepo) Create(r *models.Rating) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *r
	f.ratings[r.ID] = &cp
	return nil
}

func (f *fakeRatingRepo) GetByID(id string) (*models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.ratings[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRatingRepo) GetByTriple(contractID, raterID, ratedID string) (*models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.ratings {
		if r.ContractID == contractID && r.RaterID == raterID && r.RatedID == ratedID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRatingRepo) ListByService(serviceID string) ([]models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Rating
	for _, r := range f.ratings {
		if r.ServiceID == serviceID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRatingRepo) ListByRated(userID string) ([]models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Rating
	for _, r := range f.ratings {
		if r.RatedID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRatingRepo) Update(r *models.Rating) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *r
	f.ratings[r.ID] = &cp
	return nil
}

func (f *fakeRatingRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.ratings, id)
	return nil
}

func (f *fakeRatingRepo) AggregateForService(serviceID string) (float64, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum, count := 0, 0
	for _, r := range f.ratings {
		if r.ServiceID == serviceID {
			sum += r.RatingValue
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

func (f *fakeRatingRepo) AggregateForUser(ratedID string) (float64, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum, count := 0, 0
	for _, r := range f.ratings {
		if r.RatedID == ratedID {
			sum += r.RatingValue
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

type fakeContractRepo struct {
	contracts map[string]*models.Contract
}

func (f *fakeContractRepo) Create(c *models.Contract) error { f.contracts[c.ID] = c; return nil }
func (f *fakeContractRepo) GetByID(id string) (*models.Contract, error) {
	c, ok := f.contracts[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}
func (f *fakeContractRepo) List(models.ContractFilter) ([]models.Contract, error) { return nil, nil }
func (f *fakeContractRepo) ReplaceVersioned(c *models.Contract) error {
	f.contracts[c.ID] = c
	return nil
}
func (f *fakeContractRepo) Delete(id string) error { delete(f.contracts, id); return nil }

type fakeServiceRepo struct {
	services map[string]*models.Service
	mu       sync.Mutex
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
func (f *fakeServiceRepo) UpdateRating(id string, average float64, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.services[id]; ok {
		s.RatingAverage = average
		s.RatingCount = count
	}
	return nil
}

type fakeUserRepo struct {
	users map[string]*models.User
	mu    sync.Mutex
}

func (f *fakeUserRepo) Create(u *models.User) error { f.users[u.ID] = u; return nil }
func (f *fakeUserRepo) GetByID(id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}
func (f *fakeUserRepo) GetByEmail(string) (*models.User, error)   { return nil, nil }
func (f *fakeUserRepo) GetAll() ([]models.User, error)            { return nil, nil }
func (f *fakeUserRepo) UpdateFields(string, bson.M) error         { return nil }
func (f *fakeUserRepo) Delete(id string) error                    { delete(f.users, id); return nil }
func (f *fakeUserRepo) SetTokenHash(string, string) error         { return nil }
func (f *fakeUserRepo) UpdateRating(id string, average float64, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.RatingAverage = average
		u.RatingCount = count
	}
	return nil
}

type nullEmitter struct{}

func (nullEmitter) Emit(context.Context, notification.Event) {}

// --- fixture ---

var (
	client   = &models.User{ID: "client-1", UserType: models.UserTypeClient}
	provider = &models.User{ID: "provider-1", UserType: models.UserTypeProvider}
	admin    = &models.User{ID: "admin-1", UserType: models.UserTypeAdmin}
)

func newTestService() (*DefaultRatingService, *fakeServiceRepo, *fakeUserRepo, *fakeContractRepo) {
	svcRepo := &fakeServiceRepo{services: map[string]*models.Service{
		"svc-1": {ID: "svc-1", UserID: provider.ID, Status: models.ServiceStatusActive},
	}}
	usrRepo := &fakeUserRepo{users: map[string]*models.User{
		client.ID:   {ID: client.ID},
		provider.ID: {ID: provider.ID},
	}}
	contractRepo := &fakeContractRepo{contracts: map[string]*models.Contract{
		"con-1": {
			ID:         "con-1",
			ServiceID:  "svc-1",
			ClientID:   client.ID,
			ProviderID: provider.ID,
			Status:     models.ContractStatusCompleted,
		},
	}}
	svc := &DefaultRatingService{
		Repo:         newFakeRatingRepo(),
		ContractRepo: contractRepo,
		ServiceRepo:  svcRepo,
		UserRepo:     usrRepo,
		Notifier:     nullEmitter{},
	}
	return svc, svcRepo, usrRepo, contractRepo
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

func clientRates(t *testing.T, svc *DefaultRatingService, value int) *models.Rating {
	t.Helper()
	r, err := svc.CreateRating(client, models.ResolveRoles(client), CreateRequest{
		ContractID:  "con-1",
		ServiceID:   "svc-1",
		RatedID:     provider.ID,
		RatingValue: value,
	})
	if err != nil {
		t.Fatalf("CreateRating failed: %v", err)
	}
	return r
}

// --- tests ---

func TestCreateRatingDerivesRolesAndAggregates(t *testing.T) {
	svc, svcRepo, usrRepo, _ := newTestService()

	r := clientRates(t, svc, 4)
	if r.RaterRole != models.RatingRoleClient || r.RatedRole != models.RatingRoleProvider {
		t.Fatalf("unexpected roles: %s/%s", r.RaterRole, r.RatedRole)
	}

	stored, _ := svcRepo.GetByID("svc-1")
	if stored.RatingAverage != 4 || stored.RatingCount != 1 {
		t.Fatalf("service aggregate not updated: avg=%v count=%d", stored.RatingAverage, stored.RatingCount)
	}
	rated, _ := usrRepo.GetByID(provider.ID)
	if rated.RatingAverage != 4 || rated.RatingCount != 1 {
		t.Fatalf("user aggregate not updated: avg=%v count=%d", rated.RatingAverage, rated.RatingCount)
	}
}

func TestAggregateRoundsToOneDecimal(t *testing.T) {
	svc, svcRepo, _, contractRepo := newTestService()

	// Two completed contracts so the client can leave two ratings.
	contractRepo.contracts["con-2"] = &models.Contract{
		ID: "con-2", ServiceID: "svc-1", ClientID: client.ID,
		ProviderID: provider.ID, Status: models.ContractStatusCompleted,
	}

	clientRates(t, svc, 4)
	if _, err := svc.CreateRating(client, models.ResolveRoles(client), CreateRequest{
		ContractID:  "con-2",
		ServiceID:   "svc-1",
		RatedID:     provider.ID,
		RatingValue: 5,
	}); err != nil {
		t.Fatalf("second rating failed: %v", err)
	}

	stored, _ := svcRepo.GetByID("svc-1")
	// (4+5)/2 = 4.5
	if stored.RatingAverage != 4.5 || stored.RatingCount != 2 {
		t.Fatalf("expected avg 4.5 count 2, got avg=%v count=%d", stored.RatingAverage, stored.RatingCount)
	}
}

func TestRatingRequiresCompletedContract(t *testing.T) {
	svc, _, _, contractRepo := newTestService()
	contractRepo.contracts["con-1"].Status = models.ContractStatusInProgress

	_, err := svc.CreateRating(client, models.ResolveRoles(client), CreateRequest{
		ContractID:  "con-1",
		ServiceID:   "svc-1",
		RatedID:     provider.ID,
		RatingValue: 5,
	})
	if err == nil {
		t.Fatalf("rated an in-progress contract")
	}
	statusErr(t, err, 400)
}

func TestRatingValueBounds(t *testing.T) {
	svc, _, _, _ := newTestService()
	for _, v := range []int{0, 6, -1} {
		_, err := svc.CreateRating(client, models.ResolveRoles(client), CreateRequest{
			ContractID:  "con-1",
			ServiceID:   "svc-1",
			RatedID:     provider.ID,
			RatingValue: v,
		})
		if err == nil {
			t.Fatalf("accepted rating value %d", v)
		}
		statusErr(t, err, 400)
	}
}

func TestNonParticipantCannotRate(t *testing.T) {
	svc, _, _, _ := newTestService()
	outsider := &models.User{ID: "other-1", UserType: models.UserTypeBoth}
	_, err := svc.CreateRating(outsider, models.ResolveRoles(outsider), CreateRequest{
		ContractID:  "con-1",
		ServiceID:   "svc-1",
		RatedID:     provider.ID,
		RatingValue: 5,
	})
	if err == nil {
		t.Fatalf("outsider rated a contract")
	}
	statusErr(t, err, 403)
}

func TestRatedMustBeOtherParty(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.CreateRating(client, models.ResolveRoles(client), CreateRequest{
		ContractID:  "con-1",
		ServiceID:   "svc-1",
		RatedID:     client.ID,
		RatingValue: 5,
	})
	if err == nil {
		t.Fatalf("client rated themselves")
	}
	statusErr(t, err, 400)
}

func TestServiceMustMatchContract(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.CreateRating(client, models.ResolveRoles(client), CreateRequest{
		ContractID:  "con-1",
		ServiceID:   "svc-other",
		RatedID:     provider.ID,
		RatingValue: 5,
	})
	if err == nil {
		t.Fatalf("accepted a mismatched service_id")
	}
	statusErr(t, err, 400)
}

func TestDuplicateRatingConflicts(t *testing.T) {
	svc, _, _, _ := newTestService()
	clientRates(t, svc, 5)

	_, err := svc.CreateRating(client, models.ResolveRoles(client), CreateRequest{
		ContractID:  "con-1",
		ServiceID:   "svc-1",
		RatedID:     provider.ID,
		RatingValue: 3,
	})
	if err == nil {
		t.Fatalf("accepted a duplicate rating")
	}
	statusErr(t, err, 409)
}

func TestProviderRatesClientBack(t *testing.T) {
	svc, _, usrRepo, _ := newTestService()
	clientRates(t, svc, 5)

	r, err := svc.CreateRating(provider, models.ResolveRoles(provider), CreateRequest{
		ContractID:  "con-1",
		ServiceID:   "svc-1",
		RatedID:     client.ID,
		RatingValue: 3,
	})
	if err != nil {
		t.Fatalf("provider rating failed: %v", err)
	}
	if r.RaterRole != models.RatingRoleProvider || r.RatedRole != models.RatingRoleClient {
		t.Fatalf("unexpected roles: %s/%s", r.RaterRole, r.RatedRole)
	}
	rated, _ := usrRepo.GetByID(client.ID)
	if rated.RatingAverage != 3 || rated.RatingCount != 1 {
		t.Fatalf("client aggregate not updated: avg=%v count=%d", rated.RatingAverage, rated.RatingCount)
	}
}

func TestAnonymousRatingHidesRater(t *testing.T) {
	svc, _, _, _ := newTestService()
	created, err := svc.CreateRating(client, models.ResolveRoles(client), CreateRequest{
		ContractID:  "con-1",
		ServiceID:   "svc-1",
		RatedID:     provider.ID,
		RatingValue: 5,
		IsAnonymous: true,
	})
	if err != nil {
		t.Fatalf("CreateRating failed: %v", err)
	}

	listed, err := svc.GetRatingsByService("svc-1")
	if err != nil {
		t.Fatalf("GetRatingsByService failed: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 rating, got %d", len(listed))
	}
	if listed[0].RaterID != "" {
		t.Fatalf("anonymous rating leaked the rater id")
	}

	got, err := svc.GetRating(created.ID)
	if err != nil {
		t.Fatalf("GetRating failed: %v", err)
	}
	if got.RaterID != "" {
		t.Fatalf("anonymous rating leaked the rater id on direct read")
	}
}

func TestUpdateRatingRecomputesAggregates(t *testing.T) {
	svc, svcRepo, _, _ := newTestService()
	r := clientRates(t, svc, 2)

	newValue := 5
	updated, err := svc.UpdateRating(client, models.ResolveRoles(client), r.ID, UpdateRequest{RatingValue: &newValue})
	if err != nil {
		t.Fatalf("UpdateRating failed: %v", err)
	}
	if updated.RatingValue != 5 {
		t.Fatalf("expected value 5, got %d", updated.RatingValue)
	}
	stored, _ := svcRepo.GetByID("svc-1")
	if stored.RatingAverage != 5 {
		t.Fatalf("aggregate not recomputed, avg=%v", stored.RatingAverage)
	}
}

func TestUpdateRatingForbiddenForOthers(t *testing.T) {
	svc, _, _, _ := newTestService()
	r := clientRates(t, svc, 4)

	v := 1
	if _, err := svc.UpdateRating(provider, models.ResolveRoles(provider), r.ID, UpdateRequest{RatingValue: &v}); err == nil {
		t.Fatalf("the rated party edited the rating")
	}
	if _, err := svc.UpdateRating(admin, models.ResolveRoles(admin), r.ID, UpdateRequest{RatingValue: &v}); err != nil {
		t.Fatalf("admin edit failed: %v", err)
	}
}

func TestDeleteRatingRecomputesAggregates(t *testing.T) {
	svc, svcRepo, usrRepo, _ := newTestService()
	r := clientRates(t, svc, 4)

	if err := svc.DeleteRating(client, models.ResolveRoles(client), r.ID); err != nil {
		t.Fatalf("DeleteRating failed: %v", err)
	}
	stored, _ := svcRepo.GetByID("svc-1")
	if stored.RatingAverage != 0 || stored.RatingCount != 0 {
		t.Fatalf("service aggregate not reset: avg=%v count=%d", stored.RatingAverage, stored.RatingCount)
	}
	rated, _ := usrRepo.GetByID(provider.ID)
	if rated.RatingAverage != 0 || rated.RatingCount != 0 {
		t.Fatalf("user aggregate not reset: avg=%v count=%d", rated.RatingAverage, rated.RatingCount)
	}
}

func TestRound1(t *testing.T) {
	cases := map[float64]float64{
		4.449999: 4.4,
		4.45:     4.5,
		3.333333: 3.3,
		5:        5,
	}
	for in, want := range cases {
		if got := round1(in); got != want {
			t.Fatalf("round1(%v) = %v, want %v", in, got, want)
		}
	}
}
