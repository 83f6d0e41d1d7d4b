package api

// Prediction outcomes accepted by the backend.
const (
	OutcomeOnTime = "on_time"
	OutcomeLate   = "late"
	OutcomeEarly  = "early"
)

// ValidOutcome reports whether s is one of the accepted prediction outcomes.
func ValidOutcome(s string) bool {
	return s == OutcomeOnTime || s == OutcomeLate || s == OutcomeEarly
}

// UserProfile is the authenticated user's own record.
type UserProfile struct {
	ID              int64  `json:"id"`
	Email           string `json:"email"`
	Nickname        string `json:"nickname"`
	CumulativeScore int64  `json:"cumulativeScore"`
	CreatedAt       string `json:"createdAt"`
}

// User is a public listing entry, used for friend search.
type User struct {
	ID              int64  `json:"id"`
	Email           string `json:"email"`
	Nickname        string `json:"nickname"`
	CumulativeScore int64  `json:"cumulative_score"`
}

// Friend is an established friend edge with the fields the dashboard ranks by.
type Friend struct {
	ID              int64  `json:"id"`
	Nickname        string `json:"nickname"`
	Email           string `json:"email"`
	CumulativeScore int64  `json:"cumulative_score"`
}

// FriendRequest is an incoming pending request.
type FriendRequest struct {
	SenderID int64  `json:"sender_id"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

// Trip is a scheduled transit run. Dates and times are kept as the raw GTFS
// strings served by the backend; interpretation happens in the services layer.
type Trip struct {
	TripID               string `json:"trip_id"`
	RouteID              string `json:"route_id"`
	ServiceID            string `json:"service_id"`
	Headsign             string `json:"trip_headsign"`
	DirectionID          int    `json:"direction_id"`
	FirstStop            string `json:"first_stop"`
	LastStop             string `json:"last_stop"`
	FirstStopArrivalTime string `json:"first_stop_arrival_time"`
	LastStopArrivalTime  string `json:"last_stop_arrival_time"`
	ServiceDate          string `json:"service_date"`
}

// Prediction is a forecast the user has submitted for a trip.
type Prediction struct {
	ID               int64  `json:"id"`
	TripID           string `json:"trip_id"`
	PredictedOutcome string `json:"predicted_outcome"`
	CreatedAt        string `json:"created_at"`
}

// PredictionRequest is the prediction creation body.
type PredictionRequest struct {
	TripID           string `json:"trip_id"`
	ServiceDate      string `json:"service_date"`
	PredictedOutcome string `json:"predicted_outcome"`
}

// LeaderboardEntry is a read-only ranking projection.
type LeaderboardEntry struct {
	Nickname        string `json:"nickname"`
	CumulativeScore int64  `json:"cumulative_score"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

type friendRequestBody struct {
	ReceiverID int64 `json:"receiver_id"`
}

type handleRequestBody struct {
	SenderID int64  `json:"sender_id"`
	Action   string `json:"action"`
}

// errorBody covers both error envelope styles the backend uses.
type errorBody struct {
	Error string `json:"error"`
	Msg   string `json:"msg"`
}
