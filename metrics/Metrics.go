// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var BranchesCreated = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "geodraft_branches_created_total",
		Help: "Number of created edit branches.",
	},
	[]string{},
)

var FeatureVersionsAppended = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "geodraft_feature_versions_appended_total",
		Help: "Number of feature versions appended to the ledger.",
	},
	[]string{"operation"},
)

var MergeRequestsReviewed = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "geodraft_merge_requests_reviewed_total",
		Help: "Number of reviewed merge requests.",
	},
	[]string{"outcome"},
)

var ConflictsDetected = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "geodraft_conflicts_detected_total",
		Help: "Number of detected merge conflicts.",
	},
	[]string{"type"},
)

var ConflictsResolved = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "geodraft_conflicts_resolved_total",
		Help: "Number of resolved merge conflicts.",
	},
	[]string{"strategy"},
)

func RegisterAllMetrics() {
	prometheus.MustRegister(BranchesCreated)
	prometheus.MustRegister(FeatureVersionsAppended)
	prometheus.MustRegister(MergeRequestsReviewed)
	prometheus.MustRegister(ConflictsDetected)
	prometheus.MustRegister(ConflictsResolved)
}
