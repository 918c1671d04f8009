// internal/pkg/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AccessDenied counts permission-evaluator denials by page id.
	AccessDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stockpilot_access_denied_total",
		Help: "Permission denials rendered, by page.",
	}, []string{"page"})

	// SubscriptionLocked counts lock-screen renderings.
	SubscriptionLocked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stockpilot_subscription_locked_total",
		Help: "Requests answered with the subscription lock screen.",
	})

	// AdminLockExpired counts inactivity-driven elevation revocations.
	AdminLockExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stockpilot_admin_lock_expired_total",
		Help: "Admin unlocks revoked by the inactivity monitor.",
	})

	// Logins counts successful authentications by role.
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stockpilot_logins_total",
		Help: "Successful logins, by role.",
	}, []string{"role"})
)
