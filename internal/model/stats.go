package model

// VacationStats is GET /vacations/stats: vacations bucketed by whether
// they already ended, are running today, or start later.
type VacationStats struct {
	PastVacations    int `json:"pastVacations"`
	OngoingVacations int `json:"ongoingVacations"`
	FutureVacations  int `json:"futureVacations"`
}

// TotalUsers is GET /users/total.
type TotalUsers struct {
	TotalUsers int `json:"totalUsers"`
}

// TotalLikes is GET /likes/total.
type TotalLikes struct {
	TotalLikes int `json:"totalLikes"`
}

// LikesDistributionItem is one row of GET /likes/distribution.
type LikesDistributionItem struct {
	Destination string `json:"destination"`
	Likes       int    `json:"likes"`
}

// Dashboard bundles the four aggregates shown on the statistics page.
type Dashboard struct {
	Vacations    VacationStats           `json:"vacations"`
	TotalUsers   int                     `json:"totalUsers"`
	TotalLikes   int                     `json:"totalLikes"`
	Distribution []LikesDistributionItem `json:"distribution"`
}
