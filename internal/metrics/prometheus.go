package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the rating engine

var (
	// API Call metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_api_calls_total",
			Help: "Total number of external data provider calls",
		},
		[]string{"endpoint", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nba_api_call_duration_seconds",
			Help:    "Duration of external data provider calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Document store metrics
	StoreOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_store_operations_total",
			Help: "Total number of document store operations",
		},
		[]string{"backend", "operation", "status"},
	)

	// Rating engine metrics
	GamesProcessedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nba_games_processed_total",
			Help: "Total number of final games applied to ratings",
		},
	)

	PredictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nba_predictions_total",
			Help: "Total number of matchup predictions produced",
		},
	)

	TeamsRated = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nba_teams_rated",
			Help: "Number of teams with a rating",
		},
	)

	RegressionsApplied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nba_season_regressions_total",
			Help: "Total number of season mean regressions applied",
		},
	)

	// Replay metrics
	ReplayRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_replay_runs_total",
			Help: "Total number of historical replay runs",
		},
		[]string{"mode", "status"},
	)

	ReplayDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nba_replay_duration_seconds",
			Help:    "Duration of historical replay runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	CheckpointDate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nba_replay_checkpoint_timestamp",
			Help: "Unix timestamp of the last fully processed replay day",
		},
	)

	// Tier classifier metrics
	TierTableBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_tier_table_builds_total",
			Help: "Total number of tier table classification runs",
		},
		[]string{"status"},
	)

	PlayersClassified = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nba_players_classified",
			Help: "Number of players in the most recent tier table",
		},
	)

	// Evaluation metrics
	DailyAccuracy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nba_daily_prediction_accuracy",
			Help: "Fraction of correctly predicted winners for the last evaluated day",
		},
	)

	DailyBrier = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nba_daily_brier_score",
			Help: "Mean squared probability error for the last evaluated day",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)

// RecordAPICall records an external provider call metric
func RecordAPICall(endpoint, status string, duration float64) {
	APICallsTotal.WithLabelValues(endpoint, status).Inc()
	APICallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordStoreOp records a document store operation
func RecordStoreOp(backend, operation, status string) {
	StoreOpsTotal.WithLabelValues(backend, operation, status).Inc()
}

// RecordGameProcessed records one final game applied to ratings
func RecordGameProcessed() {
	GamesProcessedTotal.Inc()
}

// RecordPrediction records one matchup prediction
func RecordPrediction() {
	PredictionsTotal.Inc()
}

// RecordReplay records a historical replay run
func RecordReplay(mode, status string, duration float64) {
	ReplayRunsTotal.WithLabelValues(mode, status).Inc()
	ReplayDuration.Observe(duration)
}

// RecordCheckpoint records the replay checkpoint position
func RecordCheckpoint(unixTime float64) {
	CheckpointDate.Set(unixTime)
}

// RecordRegression records a season regression application
func RecordRegression() {
	RegressionsApplied.Inc()
}

// RecordTierBuild records a tier classification run
func RecordTierBuild(status string, players int) {
	TierTableBuilds.WithLabelValues(status).Inc()
	if players > 0 {
		PlayersClassified.Set(float64(players))
	}
}

// RecordEvaluation records daily evaluation quality metrics
func RecordEvaluation(accuracy, brier float64) {
	DailyAccuracy.Set(accuracy)
	DailyBrier.Set(brier)
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// UpdateTeamsRated updates the rated team count
func UpdateTeamsRated(count int) {
	TeamsRated.Set(float64(count))
}
