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

package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidBranchStatusTransition(t *testing.T) {
	tests := []struct {
		name  string
		from  BranchStatus
		to    BranchStatus
		valid bool
	}{
		{"ActiveToMerged", BranchStatusActive, BranchStatusMerged, true},
		{"ActiveToClosed", BranchStatusActive, BranchStatusClosed, true},
		{"ActiveToDeleted", BranchStatusActive, BranchStatusDeleted, true},
		{"ActiveToActive", BranchStatusActive, BranchStatusActive, false},
		{"MergedToActive", BranchStatusMerged, BranchStatusActive, false},
		{"MergedToClosed", BranchStatusMerged, BranchStatusClosed, false},
		{"ClosedToDeleted", BranchStatusClosed, BranchStatusDeleted, false},
		{"DeletedToMerged", BranchStatusDeleted, BranchStatusMerged, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidBranchStatusTransition(tt.from, tt.to))
		})
	}
}

func TestValidBranchStatus(t *testing.T) {
	assert.True(t, ValidBranchStatus(BranchStatusActive))
	assert.True(t, ValidBranchStatus(BranchStatusDeleted))
	assert.False(t, ValidBranchStatus("archived"))
	assert.False(t, ValidBranchStatus(""))
}

func TestBranchIsMaster(t *testing.T) {
	assert.True(t, Branch{Name: MasterBranchName}.IsMaster())
	assert.False(t, Branch{Name: MasterBranchName, ParentBranchId: "b1"}.IsMaster())
	assert.False(t, Branch{Name: "draft"}.IsMaster())
}
