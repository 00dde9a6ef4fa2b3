package handler

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/iliyamo/vacation-portal/internal/api"
	"github.com/iliyamo/vacation-portal/internal/model"
)

type fakeAuth struct {
	mu        sync.Mutex
	principal model.Principal
	loginErr  error
	logoutErr error
	logins    int
}

func (f *fakeAuth) Login(context.Context, model.Credentials) (model.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins++
	return f.principal, f.loginErr
}

func (f *fakeAuth) Register(_ context.Context, reg model.Registration) (model.Principal, error) {
	return model.Principal{ID: 9, RoleID: 2, FirstName: reg.FirstName, LastName: reg.LastName, Email: reg.Email}, nil
}

func (f *fakeAuth) Logout(context.Context) error { return f.logoutErr }

type fakeVacations struct {
	mu        sync.Mutex
	listErr   error
	liked     map[int64]bool
	lastPatch model.VacationPatch
	imageName string
	imageBody string
	deleted   []int64
}

func (f *fakeVacations) ListVacations(context.Context) ([]model.Vacation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []model.Vacation{
		{ID: 1, CountryID: 1, Description: "Later", StartDate: "2030-06-01", EndDate: "2030-06-02", Price: 100},
		{ID: 2, CountryID: 1, Description: "Sooner", StartDate: "2030-01-01", EndDate: "2030-01-02", Price: 200},
	}, nil
}

func (f *fakeVacations) GetVacation(_ context.Context, id int64) (model.Vacation, error) {
	if id != 1 {
		return model.Vacation{}, &api.Error{Status: http.StatusNotFound, Message: "Vacation not found"}
	}
	return model.Vacation{ID: 1, Description: "Later"}, nil
}

func (f *fakeVacations) CreateVacation(_ context.Context, in model.VacationInput, img *model.ImageFile) (model.Vacation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if img != nil {
		b, _ := io.ReadAll(img.Content)
		f.imageName, f.imageBody = img.Filename, string(b)
	}
	return model.Vacation{ID: 3, CountryID: in.CountryID, Description: in.Description, StartDate: in.StartDate, EndDate: in.EndDate, Price: in.Price}, nil
}

func (f *fakeVacations) UpdateVacation(_ context.Context, id int64, patch model.VacationPatch, _ *model.ImageFile) (model.Vacation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPatch = patch
	return model.Vacation{ID: id}, nil
}

func (f *fakeVacations) DeleteVacation(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeVacations) ListCountries(context.Context) ([]model.Country, error) {
	return []model.Country{{ID: 1, Name: "Greece"}}, nil
}

func (f *fakeVacations) UserLikes(context.Context, int64) (model.Likes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int64
	for id, ok := range f.liked {
		if ok {
			ids = append(ids, id)
		}
	}
	return model.Likes{LikedVacationIDs: ids}, nil
}

func (f *fakeVacations) LikeVacation(_ context.Context, _, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.liked == nil {
		f.liked = map[int64]bool{}
	}
	f.liked[id] = true
	return nil
}

func (f *fakeVacations) UnlikeVacation(_ context.Context, _, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.liked, id)
	return nil
}

type fakeStats struct{ err error }

func (f fakeStats) VacationStats(context.Context) (model.VacationStats, error) {
	return model.VacationStats{PastVacations: 1}, f.err
}

func (f fakeStats) TotalUsers(context.Context) (model.TotalUsers, error) {
	return model.TotalUsers{TotalUsers: 4}, nil
}

func (f fakeStats) TotalLikes(context.Context) (model.TotalLikes, error) {
	return model.TotalLikes{TotalLikes: 9}, nil
}

func (f fakeStats) LikesDistribution(context.Context) ([]model.LikesDistributionItem, error) {
	return []model.LikesDistributionItem{{Destination: "Greece", Likes: 9}}, nil
}
