package moderation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var violationsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "modbot_automod_violations_total",
	Help: "Automod violations by rule category and resulting penalty",
}, []string{"category", "penalty"})

var securityFlagsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "modbot_security_flags_total",
	Help: "Reputation flags by severity",
}, []string{"severity"})

var lockdownsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "modbot_lockdowns_total",
	Help: "Guild lockdowns started, by trigger",
}, []string{"trigger"})

var quarantinesCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "modbot_quarantines_total",
	Help: "Members placed in quarantine",
})

var tempActionsExpired = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "modbot_temp_actions_expired_total",
	Help: "Scheduled temporary actions lifted, by kind and result",
}, []string{"kind", "result"})

var alertsDropped = promauto.NewCounter(prometheus.CounterOpts{
	Name: "modbot_security_alerts_dropped_total",
	Help: "Security alerts suppressed by the per-guild rate limit",
})
