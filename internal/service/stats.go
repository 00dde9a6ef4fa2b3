package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/vacation-portal/internal/model"
)

// StatsAPI is the statistics API surface.
type StatsAPI interface {
	VacationStats(ctx context.Context) (model.VacationStats, error)
	TotalUsers(ctx context.Context) (model.TotalUsers, error)
	TotalLikes(ctx context.Context) (model.TotalLikes, error)
	LikesDistribution(ctx context.Context) ([]model.LikesDistributionItem, error)
}

// StatsService assembles the statistics dashboard.
type StatsService struct {
	api StatsAPI
}

func NewStatsService(sapi StatsAPI) *StatsService {
	if sapi == nil {
		panic("nil dependency passed to NewStatsService")
	}
	return &StatsService{api: sapi}
}

// Dashboard fetches the four aggregates concurrently.  The first failure
// cancels the others and is returned.
func (s *StatsService) Dashboard(ctx context.Context) (model.Dashboard, error) {
	var d model.Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.api.VacationStats(gctx)
		d.Vacations = v
		return err
	})
	g.Go(func() error {
		v, err := s.api.TotalUsers(gctx)
		d.TotalUsers = v.TotalUsers
		return err
	})
	g.Go(func() error {
		v, err := s.api.TotalLikes(gctx)
		d.TotalLikes = v.TotalLikes
		return err
	})
	g.Go(func() error {
		v, err := s.api.LikesDistribution(gctx)
		if v == nil {
			v = []model.LikesDistributionItem{}
		}
		d.Distribution = v
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Dashboard{}, err
	}
	return d, nil
}
