package service

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"gymapi/internal/auth"
	"gymapi/internal/logger"
	"gymapi/internal/repository"
)

const statisticsMonths = 6

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type MonthRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

type UserStatistics struct {
	Total     int            `json:"total"`
	ThisMonth int            `json:"this_month"`
	LastMonth int            `json:"last_month"`
	Growth    float64        `json:"growth"`
	ByRole    map[string]int `json:"by_role"`
	ByMonth   []MonthCount   `json:"by_month"`
}

type RevenueStatistics struct {
	TotalRevenue float64        `json:"total_revenue"`
	ThisMonth    float64        `json:"this_month"`
	LastMonth    float64        `json:"last_month"`
	Growth       float64        `json:"growth"`
	ByMethod     map[string]int `json:"by_method"`
	ByMonth      []MonthRevenue `json:"by_month"`
}

type AppointmentStatistics struct {
	Total     int            `json:"total"`
	ThisMonth int            `json:"this_month"`
	ByStatus  map[string]int `json:"by_status"`
}

type DocumentStatistics struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
	Expired  int            `json:"expired"`
}

// Statistics is the admin dashboard payload.
type Statistics struct {
	Users        UserStatistics        `json:"users"`
	Payments     RevenueStatistics     `json:"payments"`
	Appointments AppointmentStatistics `json:"appointments"`
	Documents    DocumentStatistics    `json:"documents"`
}

type StatisticsService interface {
	Get(ctx context.Context, actor auth.Principal, now time.Time) (*Statistics, error)
}

type statisticsService struct {
	repo     repository.StatisticsRepository
	profiles repository.ProfileRepository
	log      *logger.Logger
}

func NewStatisticsService(repo repository.StatisticsRepository, profiles repository.ProfileRepository, log *logger.Logger) StatisticsService {
	if log == nil {
		log = logger.Nop()
	}
	return &statisticsService{repo: repo, profiles: profiles, log: log.Component("statistics")}
}

// Get runs the aggregate queries concurrently. Month boundaries follow now's location.
func (s *statisticsService) Get(ctx context.Context, actor auth.Principal, now time.Time) (*Statistics, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	org := actor.OrgID
	thisMonth, nextMonth := monthBounds(now)
	lastMonth := thisMonth.AddDate(0, -1, 0)
	var epoch time.Time

	st := &Statistics{
		Users:    UserStatistics{ByMonth: make([]MonthCount, statisticsMonths)},
		Payments: RevenueStatistics{ByMonth: make([]MonthRevenue, statisticsMonths)},
	}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	g.Go(func() (err error) {
		st.Users.Total, err = s.repo.CountProfiles(ctx, org, epoch, nextMonth)
		return err
	})
	g.Go(func() (err error) {
		st.Users.ThisMonth, err = s.repo.CountProfiles(ctx, org, thisMonth, nextMonth)
		return err
	})
	g.Go(func() (err error) {
		st.Users.LastMonth, err = s.repo.CountProfiles(ctx, org, lastMonth, thisMonth)
		return err
	})
	g.Go(func() (err error) {
		st.Users.ByRole, err = s.profiles.CountByRole(ctx, org)
		return err
	})
	g.Go(func() (err error) {
		st.Payments.TotalRevenue, err = s.repo.Revenue(ctx, org, epoch, nextMonth)
		return err
	})
	g.Go(func() (err error) {
		st.Payments.ThisMonth, err = s.repo.Revenue(ctx, org, thisMonth, nextMonth)
		return err
	})
	g.Go(func() (err error) {
		st.Payments.LastMonth, err = s.repo.Revenue(ctx, org, lastMonth, thisMonth)
		return err
	})
	g.Go(func() (err error) {
		st.Payments.ByMethod, err = s.repo.PaymentMethods(ctx, org)
		return err
	})
	g.Go(func() (err error) {
		st.Appointments.ThisMonth, err = s.repo.CountAppointments(ctx, org, thisMonth, nextMonth)
		return err
	})
	g.Go(func() (err error) {
		st.Appointments.ByStatus, err = s.repo.AppointmentsByStatus(ctx, org)
		return err
	})
	g.Go(func() (err error) {
		st.Documents.ByStatus, err = s.repo.DocumentsByStatus(ctx, org)
		return err
	})
	g.Go(func() (err error) {
		st.Documents.Expired, err = s.repo.CountExpiredUnmarked(ctx, org, now)
		return err
	})

	for i := 0; i < statisticsMonths; i++ {
		start := thisMonth.AddDate(0, i-(statisticsMonths-1), 0)
		end := start.AddDate(0, 1, 0)
		key := start.Format("2006-01")
		g.Go(func() error {
			users, err := s.repo.CountProfiles(ctx, org, epoch, end)
			if err != nil {
				return err
			}
			revenue, err := s.repo.Revenue(ctx, org, start, end)
			if err != nil {
				return err
			}
			mu.Lock()
			st.Users.ByMonth[i] = MonthCount{Month: key, Count: users}
			st.Payments.ByMonth[i] = MonthRevenue{Month: key, Revenue: revenue}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.log.Error("statistics_failed", err, logger.Fields{"org_id": org})
		return nil, err
	}

	st.Users.Growth = growth(float64(st.Users.ThisMonth), float64(st.Users.LastMonth))
	st.Payments.Growth = growth(st.Payments.ThisMonth, st.Payments.LastMonth)
	st.Appointments.Total = sum(st.Appointments.ByStatus)
	st.Documents.Total = sum(st.Documents.ByStatus)
	return st, nil
}

// growth is the percentage change from previous to current, 0 without a baseline.
func growth(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return math.Round((current-previous)/previous*10000) / 100
}

func sum(m map[string]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}
