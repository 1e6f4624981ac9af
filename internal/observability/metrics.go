package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ideahub_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// PostsCreated counts created posts by variant.
	PostsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ideahub_posts_created_total",
		Help: "Total number of posts created by type",
	}, []string{"type"})

	// SurveyResponsesSubmitted counts accepted survey responses by survey kind.
	SurveyResponsesSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ideahub_survey_responses_total",
		Help: "Total number of survey responses accepted",
	}, []string{"kind"})

	// ModeratorActions counts audited moderation transitions by action type.
	ModeratorActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ideahub_moderator_actions_total",
		Help: "Total number of audited moderator actions",
	}, []string{"action"})

	// UniquenessConflicts counts storage-level duplicate-key conflicts caught
	// on the response/application uniqueness constraints.
	UniquenessConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ideahub_uniqueness_conflicts_total",
		Help: "Total number of duplicate-key conflicts on unique constraints",
	}, []string{"constraint"})
)
