package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/vacation-portal/internal/model"
	"github.com/iliyamo/vacation-portal/internal/queue"
)

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, creds model.Credentials) (model.Principal, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(model.Principal), args.Error(1)
}

func (m *MockAuthenticator) Register(ctx context.Context, reg model.Registration) (model.Principal, error) {
	args := m.Called(ctx, reg)
	return args.Get(0).(model.Principal), args.Error(1)
}

func (m *MockAuthenticator) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.SessionEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.SessionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []queue.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]queue.EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

// fakeVacationAPI is an in-memory upstream.
type fakeVacationAPI struct {
	mu        sync.Mutex
	vacations []model.Vacation
	countries []model.Country
	likes     map[int64]model.LikeSet
	likesErr  error
	listErr   error
	calls     []string
	created   []model.VacationInput
	images    []*model.ImageFile
}

func newFakeVacationAPI() *fakeVacationAPI {
	return &fakeVacationAPI{
		vacations: []model.Vacation{
			{ID: 1, CountryID: 1, Description: "Rome", StartDate: "2030-03-01", EndDate: "2030-03-05", Price: 900},
			{ID: 2, CountryID: 2, Description: "Paris", StartDate: "2030-01-10", EndDate: "2030-01-12", Price: 700},
			{ID: 3, CountryID: 9, Description: "Nowhere", StartDate: "2030-02-01", EndDate: "2030-02-02", Price: 10},
		},
		countries: []model.Country{{ID: 1, Name: "Italy"}, {ID: 2, Name: "France"}},
		likes:     map[int64]model.LikeSet{},
	}
}

func (f *fakeVacationAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeVacationAPI) ListVacations(context.Context) ([]model.Vacation, error) {
	f.record("ListVacations")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Vacation, len(f.vacations))
	copy(out, f.vacations)
	for i := range out {
		count := 0
		for _, set := range f.likes {
			if set.Has(out[i].ID) {
				count++
			}
		}
		out[i].LikesCount = count
	}
	return out, nil
}

func (f *fakeVacationAPI) GetVacation(_ context.Context, id int64) (model.Vacation, error) {
	f.record("GetVacation")
	for _, v := range f.vacations {
		if v.ID == id {
			return v, nil
		}
	}
	return model.Vacation{}, errNotFound
}

func (f *fakeVacationAPI) CreateVacation(_ context.Context, in model.VacationInput, img *model.ImageFile) (model.Vacation, error) {
	f.record("CreateVacation")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	f.images = append(f.images, img)
	v := model.Vacation{ID: int64(len(f.vacations) + 1), CountryID: in.CountryID, Description: in.Description, StartDate: in.StartDate, EndDate: in.EndDate, Price: in.Price}
	f.vacations = append(f.vacations, v)
	return v, nil
}

func (f *fakeVacationAPI) UpdateVacation(_ context.Context, id int64, patch model.VacationPatch, _ *model.ImageFile) (model.Vacation, error) {
	f.record("UpdateVacation")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, v := range f.vacations {
		if v.ID == id {
			if patch.Price != nil {
				v.Price = *patch.Price
			}
			if patch.Description != nil {
				v.Description = *patch.Description
			}
			f.vacations[i] = v
			return v, nil
		}
	}
	return model.Vacation{}, errNotFound
}

func (f *fakeVacationAPI) DeleteVacation(context.Context, int64) error {
	f.record("DeleteVacation")
	return nil
}

func (f *fakeVacationAPI) ListCountries(context.Context) ([]model.Country, error) {
	f.record("ListCountries")
	return f.countries, nil
}

func (f *fakeVacationAPI) UserLikes(_ context.Context, userID int64) (model.Likes, error) {
	f.record("UserLikes")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.likesErr != nil {
		return model.Likes{}, f.likesErr
	}
	return model.Likes{LikedVacationIDs: f.likes[userID].IDs()}, nil
}

func (f *fakeVacationAPI) LikeVacation(_ context.Context, userID, vacationID int64) error {
	f.record("LikeVacation")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.likes[userID] == nil {
		f.likes[userID] = model.NewLikeSet()
	}
	f.likes[userID].Add(vacationID)
	return nil
}

func (f *fakeVacationAPI) UnlikeVacation(_ context.Context, userID, vacationID int64) error {
	f.record("UnlikeVacation")
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.likes[userID].Has(vacationID) {
		return errNotLiked
	}
	f.likes[userID].Remove(vacationID)
	return nil
}

func (f *fakeVacationAPI) called(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}
