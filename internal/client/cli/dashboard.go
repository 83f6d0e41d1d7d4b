package cli

import (
	"context"
	"fmt"
	"strconv"
)

// Dashboard reloads the dashboard from the server and renders it.
func (a *App) Dashboard(ctx context.Context) error {
	if err := a.dashboard.Load(ctx); err != nil {
		return a.report(ctx, err)
	}
	a.renderDashboard()
	return nil
}

// NextPage advances the trip listing one page and re-renders it.
func (a *App) NextPage(ctx context.Context) error {
	a.dashboard.NextPage()
	a.renderTrips()
	return nil
}

// PrevPage moves the trip listing one page back and re-renders it.
func (a *App) PrevPage(ctx context.Context) error {
	a.dashboard.PrevPage()
	a.renderTrips()
	return nil
}

// GotoPage jumps to the given page (clamped to the valid range).
func (a *App) GotoPage(ctx context.Context, page string) error {
	n, err := strconv.Atoi(page)
	if err != nil {
		return a.report(ctx, fmt.Errorf("page must be a number: %q", page))
	}
	a.dashboard.SetPage(n)
	a.renderTrips()
	return nil
}

// Predict marks the trip as the prediction target.
func (a *App) Predict(ctx context.Context, tripID string) error {
	if err := a.dashboard.SelectTrip(tripID); err != nil {
		return a.report(ctx, err)
	}
	if a.dashboard.Predicted(tripID) {
		a.banner.Errorf("You already predicted trip %s", tripID)
	} else {
		a.banner.Success(fmt.Sprintf("Selected trip %s, now set an outcome", tripID))
	}
	return nil
}

// Outcome records the forecast for the selected trip.
func (a *App) Outcome(ctx context.Context, outcome string) error {
	if err := a.dashboard.SetOutcome(outcome); err != nil {
		return a.report(ctx, err)
	}
	a.banner.Success("Outcome set, type 'submit' to send")
	return nil
}

// Submit sends the prediction for the current selection.
func (a *App) Submit(ctx context.Context) error {
	trip, outcome, ok := a.dashboard.Selection()
	if !ok || outcome == "" {
		return a.report(ctx, fmt.Errorf("select a trip and an outcome first"))
	}
	if err := a.dashboard.Submit(ctx); err != nil {
		return a.report(ctx, err)
	}
	a.banner.Success(fmt.Sprintf("Prediction saved: %s will be %s", trip.TripID, outcome))
	return nil
}

func (a *App) renderDashboard() {
	st := a.dashboard.Stats()
	printlnFn(fmt.Sprintf("Score: %d | Accuracy: %d%% | Predictions today: %d | Trips open: %d",
		st.TotalScore, st.AccuracyPercent, st.TodayPredictions, st.AvailableTrips))

	a.renderTrips()

	friends := a.dashboard.FriendsRanked()
	if len(friends) > 0 {
		printlnFn("Friends:")
		for i, f := range friends {
			printlnFn(fmt.Sprintf("  %d. %s — %d pts", i+1, f.Nickname, f.CumulativeScore))
		}
	}
}

func (a *App) renderTrips() {
	trips, page, total := a.dashboard.Page()
	if len(trips) == 0 {
		printlnFn("No trips open for prediction")
		return
	}
	for _, t := range trips {
		marker := " "
		if a.dashboard.Predicted(t.TripID) {
			marker = "*"
		}
		printlnFn(fmt.Sprintf("%s %-12s %-8s %s -> %s  %s %s",
			marker, t.TripID, t.RouteID, t.FirstStop, t.LastStop, t.ServiceDate, t.FirstStopArrivalTime))
	}
	printlnFn(fmt.Sprintf("Page %d/%d (next, prev, page N)", page, total))
}
