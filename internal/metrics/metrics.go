// Package metrics defines the custom Prometheus metrics of the lottopool agent.
// Metrics register themselves with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lottopool"

// RemoteFallbackTotal counts operations served from the local store because
// the remote store failed.
// Labels:
//   - collection: "pools", "groups" or "participants"
//   - op: "list", "get_one", "create" or "update"
//   - kind: the remote error kind (e.g. "unavailable", "not_found")
var RemoteFallbackTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remote_fallback_total",
		Help:      "Total number of repository operations that fell back to the local store.",
	},
	[]string{"collection", "op", "kind"},
)

// LocalRecordsCreatedTotal counts local-only records written while offline.
var LocalRecordsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "local_records_created_total",
		Help:      "Total number of records created in the local store only.",
	},
	[]string{"collection"},
)

// InviteStepRejectionsTotal counts invite flow steps that failed validation.
// Label:
//   - step: the step number that was rejected ("1".."4")
var InviteStepRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invite_step_rejections_total",
		Help:      "Total number of invite steps rejected by validation.",
	},
	[]string{"step"},
)

// InvitesCompletedTotal counts invites turned into group memberships.
var InvitesCompletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invites_completed_total",
		Help:      "Total number of completed invite flows.",
	},
)
