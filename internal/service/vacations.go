package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/vacation-portal/internal/guard"
	"github.com/iliyamo/vacation-portal/internal/model"
	"github.com/iliyamo/vacation-portal/internal/session"
)

// ErrForbidden is returned when the current principal may not perform the
// requested action.
var ErrForbidden = errors.New("action not permitted for current user")

// ErrNotAuthenticated is returned by operations that need a principal.
var ErrNotAuthenticated = errors.New("not authenticated")

// VacationAPI is the slice of the upstream API the catalogue needs.
type VacationAPI interface {
	ListVacations(ctx context.Context) ([]model.Vacation, error)
	GetVacation(ctx context.Context, id int64) (model.Vacation, error)
	CreateVacation(ctx context.Context, in model.VacationInput, img *model.ImageFile) (model.Vacation, error)
	UpdateVacation(ctx context.Context, id int64, patch model.VacationPatch, img *model.ImageFile) (model.Vacation, error)
	DeleteVacation(ctx context.Context, id int64) error
	ListCountries(ctx context.Context) ([]model.Country, error)
	UserLikes(ctx context.Context, userID int64) (model.Likes, error)
	LikeVacation(ctx context.Context, userID, vacationID int64) error
	UnlikeVacation(ctx context.Context, userID, vacationID int64) error
}

// SessionReader exposes the current session.
type SessionReader interface {
	Snapshot() session.Session
}

// VacationCard is one vacation as the home view lists it.
type VacationCard struct {
	model.Vacation
	CountryName string `json:"countryName"`
	Liked       bool   `json:"liked"`
}

// HomeView is the vacation list page.
type HomeView struct {
	User             *model.Principal  `json:"user"`
	Vacations        []VacationCard    `json:"vacations"`
	LikedVacationIDs []int64           `json:"likedVacationIds"`
	Affordances      guard.Affordances `json:"affordances"`
}

// VacationService is the vacation catalogue as seen by the current user.
type VacationService struct {
	api      VacationAPI
	sessions SessionReader
	log      *slog.Logger
}

func NewVacationService(vapi VacationAPI, sessions SessionReader, logger *slog.Logger) *VacationService {
	if vapi == nil || sessions == nil {
		panic("nil dependency passed to NewVacationService")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &VacationService{api: vapi, sessions: sessions, log: logger.With("component", "vacations")}
}

// Home loads vacations and countries together, sorts vacations by start
// date and, for a logged-in user, marks the ones they liked.  Failing to
// load likes is logged and leaves every card unliked.
func (s *VacationService) Home(ctx context.Context) (HomeView, error) {
	snap := s.sessions.Snapshot()

	var (
		vacations []model.Vacation
		countries []model.Country
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		vacations, err = s.api.ListVacations(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		countries, err = s.api.ListCountries(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return HomeView{}, err
	}

	liked := model.NewLikeSet()
	if snap.Principal != nil {
		likes, err := s.api.UserLikes(ctx, snap.Principal.ID)
		if err != nil {
			s.log.WarnContext(ctx, "failed to load likes", "user_id", snap.Principal.ID, "error", err)
		} else {
			liked = model.NewLikeSet(likes.LikedVacationIDs...)
		}
	}

	return buildHome(snap.Principal, vacations, countries, liked), nil
}

func buildHome(p *model.Principal, vacations []model.Vacation, countries []model.Country, liked model.LikeSet) HomeView {
	names := make(map[int64]string, len(countries))
	for _, c := range countries {
		names[c.ID] = c.Name
	}
	SortByStartDate(vacations)

	cards := make([]VacationCard, 0, len(vacations))
	for _, v := range vacations {
		name, ok := names[v.CountryID]
		if !ok {
			name = "Unknown"
		}
		cards = append(cards, VacationCard{Vacation: v, CountryName: name, Liked: liked.Has(v.ID)})
	}
	return HomeView{
		User:             p,
		Vacations:        cards,
		LikedVacationIDs: liked.IDs(),
		Affordances:      guard.AffordancesFor(p),
	}
}

// SortByStartDate orders vacations by ascending start date.  Unparseable
// dates sort last; ties keep their upstream order.
func SortByStartDate(vs []model.Vacation) {
	key := func(v model.Vacation) (time.Time, bool) {
		t, err := time.Parse(model.DateLayout, v.StartDate)
		if err != nil {
			// the API may send full timestamps
			t, err = time.Parse(time.RFC3339, v.StartDate)
		}
		return t, err == nil
	}
	sort.SliceStable(vs, func(i, j int) bool {
		ti, oki := key(vs[i])
		tj, okj := key(vs[j])
		if oki != okj {
			return oki
		}
		return ti.Before(tj)
	})
}

// Vacation returns one vacation for the edit form.
func (s *VacationService) Vacation(ctx context.Context, id int64) (model.Vacation, error) {
	return s.api.GetVacation(ctx, id)
}

// Countries returns the country list used by the create and edit forms.
func (s *VacationService) Countries(ctx context.Context) ([]model.Country, error) {
	return s.api.ListCountries(ctx)
}

// Create validates in and creates the vacation.  Administrators only.
func (s *VacationService) Create(ctx context.Context, in model.VacationInput, img *model.ImageFile) (model.Vacation, error) {
	if _, err := s.require(guard.ActionCreateVacation); err != nil {
		return model.Vacation{}, err
	}
	if err := ValidateVacation(in); err != nil {
		return model.Vacation{}, err
	}
	return s.api.CreateVacation(ctx, in, img)
}

// Update validates the set fields of patch and applies them.
// Administrators only.
func (s *VacationService) Update(ctx context.Context, id int64, patch model.VacationPatch, img *model.ImageFile) (model.Vacation, error) {
	if _, err := s.require(guard.ActionEditVacation); err != nil {
		return model.Vacation{}, err
	}
	if err := ValidatePatch(patch); err != nil {
		return model.Vacation{}, err
	}
	return s.api.UpdateVacation(ctx, id, patch, img)
}

// Delete removes a vacation.  Administrators only.
func (s *VacationService) Delete(ctx context.Context, id int64) error {
	if _, err := s.require(guard.ActionDeleteVacation); err != nil {
		return err
	}
	return s.api.DeleteVacation(ctx, id)
}

// Like marks id as liked by the current member and returns the refreshed
// home view.  Liking an already liked vacation sends nothing.
func (s *VacationService) Like(ctx context.Context, id int64) (HomeView, error) {
	return s.toggle(ctx, id, true)
}

// Unlike removes the current member's like from id and returns the
// refreshed home view.  Unliking a vacation that was never liked sends
// nothing and leaves the liked set as it was.
func (s *VacationService) Unlike(ctx context.Context, id int64) (HomeView, error) {
	return s.toggle(ctx, id, false)
}

func (s *VacationService) toggle(ctx context.Context, id int64, like bool) (HomeView, error) {
	p, err := s.require(guard.ActionLikeVacation)
	if err != nil {
		return HomeView{}, err
	}
	likes, err := s.api.UserLikes(ctx, p.ID)
	if err != nil {
		return HomeView{}, err
	}
	liked := model.NewLikeSet(likes.LikedVacationIDs...)

	switch {
	case like && !liked.Has(id):
		if err := s.api.LikeVacation(ctx, p.ID, id); err != nil {
			return HomeView{}, err
		}
		liked.Add(id)
	case !like && liked.Has(id):
		if err := s.api.UnlikeVacation(ctx, p.ID, id); err != nil {
			return HomeView{}, err
		}
		liked.Remove(id)
	}

	// reload so likesCount reflects the change
	var (
		vacations []model.Vacation
		countries []model.Country
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { vacations, err = s.api.ListVacations(gctx); return })
	g.Go(func() (err error) { countries, err = s.api.ListCountries(gctx); return })
	if err := g.Wait(); err != nil {
		return HomeView{}, err
	}
	return buildHome(p, vacations, countries, liked), nil
}

// require returns the current principal if it may perform action.
func (s *VacationService) require(action guard.Action) (*model.Principal, error) {
	snap := s.sessions.Snapshot()
	if !guard.CanEnter(snap) {
		return nil, ErrNotAuthenticated
	}
	if !guard.Can(snap.Principal, action) {
		return nil, ErrForbidden
	}
	return snap.Principal, nil
}
