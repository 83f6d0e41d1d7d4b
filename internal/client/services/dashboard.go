package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/ontrackhq/ontrack/internal/client/api"
	"github.com/ontrackhq/ontrack/internal/logging"
)

// DefaultPageSize is the trip page size when none is configured.
const DefaultPageSize = 10

// Stats are the derived figures shown at the top of the dashboard.
type Stats struct {
	TotalScore       int64
	TodayPredictions int
	AccuracyPercent  int
	AvailableTrips   int
}

// DashboardService assembles the dashboard view from four independent remote
// reads and drives the trip-selection and prediction-submission flow.
//
// Collections are replaced wholesale on every load; there is no incremental
// merge. The service is safe for concurrent use.
type DashboardService struct {
	api      api.Client
	log      logging.Logger
	pageSize int
	now      func() time.Time

	mu          sync.Mutex
	profile     *api.UserProfile
	trips       []api.Trip
	predictions []api.Prediction
	friends     []api.Friend
	page        int
	selected    *api.Trip
	outcome     string
}

func NewDashboardService(client api.Client, log logging.Logger, pageSize int) *DashboardService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &DashboardService{
		api:      client,
		log:      log.With("component", "dashboard"),
		pageSize: pageSize,
		now:      time.Now,
		page:     1,
	}
}

// Load fetches profile, trips, predictions, and friends concurrently and
// replaces the current view. The profile read is load-bearing: its failure
// fails the load. Any other source that fails leaves its slot empty and the
// view stays usable.
func (s *DashboardService) Load(ctx context.Context) error {
	var (
		profile     api.UserProfile
		trips       []api.Trip
		predictions []api.Prediction
		friends     []api.Friend

		profileErr, tripsErr, predictionsErr, friendsErr error
	)

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		profile, profileErr = s.api.Profile(ctx)
	}()
	go func() {
		defer wg.Done()
		trips, tripsErr = s.api.Trips(ctx)
	}()
	go func() {
		defer wg.Done()
		predictions, predictionsErr = s.api.Predictions(ctx)
	}()
	go func() {
		defer wg.Done()
		friends, friendsErr = s.api.Friends(ctx)
	}()
	wg.Wait()

	if profileErr != nil {
		return fmt.Errorf("loading profile: %w", profileErr)
	}
	if tripsErr != nil {
		s.log.Warn(ctx, "trips unavailable", "error", tripsErr)
		trips = nil
	}
	if predictionsErr != nil {
		s.log.Warn(ctx, "predictions unavailable", "error", predictionsErr)
		predictions = nil
	}
	if friendsErr != nil {
		s.log.Warn(ctx, "friends unavailable", "error", friendsErr)
		friends = nil
	}

	eligible := eligibleTrips(trips, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = &profile
	s.trips = eligible
	s.predictions = predictions
	s.friends = friends
	s.page = 1
	s.selected = nil
	s.outcome = ""

	s.log.Info(ctx, "dashboard loaded",
		"eligible_trips", len(eligible), "predictions", len(predictions), "friends", len(friends))
	return nil
}

// Profile returns the loaded profile snapshot.
func (s *DashboardService) Profile() (api.UserProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return api.UserProfile{}, false
	}
	return *s.profile, true
}

// Stats derives the headline figures from the loaded collections.
func (s *DashboardService) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{AvailableTrips: len(s.trips)}
	if s.profile != nil {
		st.TotalScore = s.profile.CumulativeScore
	}

	total := len(s.predictions)
	if total == 0 {
		return st
	}

	onTime := 0
	today := s.now()
	for _, p := range s.predictions {
		if p.PredictedOutcome == api.OutcomeOnTime {
			onTime++
		}
		if ts, ok := parseCreatedAt(p.CreatedAt); ok {
			y1, m1, d1 := ts.In(today.Location()).Date()
			y2, m2, d2 := today.Date()
			if y1 == y2 && m1 == m2 && d1 == d2 {
				st.TodayPredictions++
			}
		}
	}
	st.AccuracyPercent = int(math.Round(100 * float64(onTime) / float64(total)))
	return st
}

// Page returns the trips on the current page along with the current page
// number and the total page count.
func (s *DashboardService) Page() ([]api.Trip, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := s.totalPagesLocked()
	start := (s.page - 1) * s.pageSize
	end := start + s.pageSize
	if start >= len(s.trips) {
		return nil, s.page, total
	}
	if end > len(s.trips) {
		end = len(s.trips)
	}
	page := make([]api.Trip, end-start)
	copy(page, s.trips[start:end])
	return page, s.page, total
}

func (s *DashboardService) totalPagesLocked() int {
	pages := (len(s.trips) + s.pageSize - 1) / s.pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// SetPage moves to page n, clamped into [1, totalPages].
func (s *DashboardService) SetPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := s.totalPagesLocked()
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}
	s.page = n
}

func (s *DashboardService) NextPage() {
	s.mu.Lock()
	n := s.page + 1
	s.mu.Unlock()
	s.SetPage(n)
}

func (s *DashboardService) PrevPage() {
	s.mu.Lock()
	n := s.page - 1
	s.mu.Unlock()
	s.SetPage(n)
}

// SelectTrip marks the trip as the prediction target. Choosing a trip always
// resets any previously chosen outcome, so the pair never mixes state from
// two different selections.
func (s *DashboardService) SelectTrip(tripID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.trips {
		if s.trips[i].TripID == tripID {
			t := s.trips[i]
			s.selected = &t
			s.outcome = ""
			return nil
		}
	}
	return fmt.Errorf("trip %s is not available for prediction", tripID)
}

// SetOutcome records the forecast for the selected trip.
func (s *DashboardService) SetOutcome(outcome string) error {
	if !api.ValidOutcome(outcome) {
		return fmt.Errorf("outcome must be one of %s, %s, %s", api.OutcomeOnTime, api.OutcomeLate, api.OutcomeEarly)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return fmt.Errorf("no trip selected")
	}
	s.outcome = outcome
	return nil
}

// Selection returns the current trip/outcome pair.
func (s *DashboardService) Selection() (api.Trip, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return api.Trip{}, "", false
	}
	return *s.selected, s.outcome, true
}

// Submit posts the prediction for the current selection. On success only the
// predictions collection is reloaded and the selection is cleared; the rest
// of the dashboard is left as is.
func (s *DashboardService) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.selected == nil || s.outcome == "" {
		s.mu.Unlock()
		return fmt.Errorf("select a trip and an outcome first")
	}
	req := api.PredictionRequest{
		TripID:           s.selected.TripID,
		ServiceDate:      s.selected.ServiceDate,
		PredictedOutcome: s.outcome,
	}
	s.mu.Unlock()

	if err := s.api.CreatePrediction(ctx, req); err != nil {
		return err
	}

	predictions, err := s.api.Predictions(ctx)
	if err != nil {
		s.log.Warn(ctx, "reloading predictions failed", "error", err)
		predictions = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if predictions != nil {
		s.predictions = predictions
	}
	s.selected = nil
	s.outcome = ""
	return nil
}

// Predicted reports whether the user already has a prediction for the trip.
func (s *DashboardService) Predicted(tripID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.predictions {
		if p.TripID == tripID {
			return true
		}
	}
	return false
}

// RecentPredictions returns up to n predictions in served order.
func (s *DashboardService) RecentPredictions(n int) []api.Prediction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > len(s.predictions) {
		n = len(s.predictions)
	}
	out := make([]api.Prediction, n)
	copy(out, s.predictions[:n])
	return out
}

// FriendsRanked returns the friend list ordered by score, highest first.
func (s *DashboardService) FriendsRanked() []api.Friend {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Friend, len(s.friends))
	copy(out, s.friends)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CumulativeScore > out[j].CumulativeScore
	})
	return out
}
