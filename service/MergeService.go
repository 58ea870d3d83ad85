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

package service

import (
	"net/http"

	"github.com/Maredius/geodraft/entity"
	"github.com/Maredius/geodraft/exception"
	"github.com/Maredius/geodraft/metrics"
	"github.com/Maredius/geodraft/repository"
	"github.com/Maredius/geodraft/view"
	log "github.com/sirupsen/logrus"
)

// MergeService applies one branch's working state onto another. It does not
// look at conflicts, that gate belongs to the merge request workflow.
type MergeService interface {
	// MergeBranches appends MERGE versions to the target branch for every
	// source head that is new or different there. Returns the number of
	// appended versions. Running it twice in a row is a no-op the second time.
	MergeBranches(sourceBranchId string, targetBranchId string) (int, error)
}

func NewMergeService(featureVersionRepository repository.FeatureVersionRepository,
	branchRepository repository.BranchRepository) MergeService {
	return &mergeServiceImpl{
		featureVersionRepository: featureVersionRepository,
		branchRepository:         branchRepository,
	}
}

type mergeServiceImpl struct {
	featureVersionRepository repository.FeatureVersionRepository
	branchRepository         repository.BranchRepository
}

func (m mergeServiceImpl) MergeBranches(sourceBranchId string, targetBranchId string) (int, error) {
	source, err := m.requireBranch(sourceBranchId)
	if err != nil {
		return 0, err
	}
	target, err := m.requireBranch(targetBranchId)
	if err != nil {
		return 0, err
	}
	if source.LayerId != target.LayerId {
		return 0, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BranchesLayerMismatch,
			Message: exception.BranchesLayerMismatchMsg,
			Params:  map[string]interface{}{"sourceBranchId": sourceBranchId, "targetBranchId": targetBranchId},
		}
	}
	if target.Status != string(view.BranchStatusActive) {
		return 0, &exception.CustomError{
			Status:  http.StatusConflict,
			Code:    exception.BranchNotActive,
			Message: exception.BranchNotActiveMsg,
			Params:  map[string]interface{}{"branchId": targetBranchId, "status": target.Status},
		}
	}
	log.Infof("Merging branch %s into %s", source.Name, target.Name)
	mergedCount, err := m.featureVersionRepository.MergeBranchFeatures(source, target)
	if err != nil {
		return 0, err
	}
	metrics.FeatureVersionsAppended.WithLabelValues(string(view.OperationMerge)).Add(float64(mergedCount))
	log.Infof("Merged %d features from %s to %s", mergedCount, source.Name, target.Name)
	return mergedCount, nil
}

func (m mergeServiceImpl) requireBranch(branchId string) (*entity.BranchEntity, error) {
	branch, err := m.branchRepository.GetBranch(branchId)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.BranchNotFound,
			Message: exception.BranchNotFoundMsg,
			Params:  map[string]interface{}{"branchId": branchId},
		}
	}
	return branch, nil
}
