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
	"time"

	"github.com/Maredius/geodraft/context"
	"github.com/Maredius/geodraft/entity"
	"github.com/Maredius/geodraft/exception"
	"github.com/Maredius/geodraft/metrics"
	"github.com/Maredius/geodraft/repository"
	"github.com/Maredius/geodraft/utils"
	"github.com/Maredius/geodraft/view"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type MergeRequestService interface {
	CreateMergeRequest(ctx context.SecurityContext, req view.CreateMergeRequestReq) (*view.MergeRequest, error)
	GetMergeRequest(id string) (*view.MergeRequest, error)
	GetMergeRequests(filter view.MergeRequestsFilterReq) (*view.MergeRequests, error)
	GetConflicts(mergeRequestId string) (*view.Conflicts, error)
	ApproveMergeRequest(ctx context.SecurityContext, id string) (*view.MergeRequest, error)
	RejectMergeRequest(ctx context.SecurityContext, id string, comment string) (*view.MergeRequest, error)
	// GetValidators lists the users who may approve the request.
	GetValidators(mergeRequestId string) ([]view.UserRole, error)
}

func NewMergeRequestService(mergeRequestRepository repository.MergeRequestRepository,
	branchRepository repository.BranchRepository, conflictService ConflictService,
	roleService RoleService, atService ActivityTrackingService) MergeRequestService {
	return &mergeRequestServiceImpl{
		mergeRequestRepository: mergeRequestRepository,
		branchRepository:       branchRepository,
		conflictService:        conflictService,
		roleService:            roleService,
		atService:              atService,
	}
}

type mergeRequestServiceImpl struct {
	mergeRequestRepository repository.MergeRequestRepository
	branchRepository       repository.BranchRepository
	conflictService        ConflictService
	roleService            RoleService
	atService              ActivityTrackingService
}

func (m mergeRequestServiceImpl) CreateMergeRequest(ctx context.SecurityContext, req view.CreateMergeRequestReq) (*view.MergeRequest, error) {
	if err := utils.ValidateObject(req); err != nil {
		return nil, err
	}
	if req.SourceBranchId == req.TargetBranchId {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.SameSourceAndTargetBranch,
			Message: exception.SameSourceAndTargetBranchMsg,
		}
	}
	sourceBranch, err := m.requireBranch(req.SourceBranchId)
	if err != nil {
		return nil, err
	}
	targetBranch, err := m.requireBranch(req.TargetBranchId)
	if err != nil {
		return nil, err
	}
	if sourceBranch.LayerId != targetBranch.LayerId {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BranchesLayerMismatch,
			Message: exception.BranchesLayerMismatchMsg,
			Params:  map[string]interface{}{"sourceBranchId": req.SourceBranchId, "targetBranchId": req.TargetBranchId},
		}
	}
	for _, branch := range []*entity.BranchEntity{sourceBranch, targetBranch} {
		if branch.Status != string(view.BranchStatusActive) {
			return nil, &exception.CustomError{
				Status:  http.StatusConflict,
				Code:    exception.BranchNotActive,
				Message: exception.BranchNotActiveMsg,
				Params:  map[string]interface{}{"branchId": branch.Id, "status": branch.Status},
			}
		}
	}
	sourceView := entity.MakeBranchView(*sourceBranch)
	targetView := entity.MakeBranchView(*targetBranch)
	hasAccess, err := m.roleService.CanCreateMergeRequest(ctx, &sourceView, &targetView)
	if err != nil {
		return nil, err
	}
	if !hasAccess {
		return nil, &exception.CustomError{
			Status:  http.StatusForbidden,
			Code:    exception.InsufficientPrivileges,
			Message: exception.InsufficientPrivilegesMsg,
			Debug:   "no rights to create a merge request for this branch",
		}
	}

	descriptors, err := m.conflictService.DetectBranchConflicts(req.SourceBranchId, req.TargetBranchId)
	if err != nil {
		return nil, err
	}
	status := view.MergeRequestStatusPending
	if len(descriptors) > 0 {
		status = view.MergeRequestStatusConflicts
	}
	ent := entity.MergeRequestEntity{
		Id:             uuid.New().String(),
		SourceBranchId: req.SourceBranchId,
		TargetBranchId: req.TargetBranchId,
		Title:          req.Title,
		Description:    req.Description,
		Status:         string(status),
		CreatedBy:      ctx.GetUserId(),
		CreatedAt:      time.Now(),
	}
	conflicts := make([]entity.ConflictEntity, 0, len(descriptors))
	for _, descriptor := range descriptors {
		conflicts = append(conflicts, entity.MakeConflictEntity(ent.Id, descriptor))
	}
	if err := m.mergeRequestRepository.CreateMergeRequest(&ent, conflicts); err != nil {
		return nil, err
	}
	log.Infof("Created merge request %s (%s -> %s) with %d conflicts", ent.Id, sourceBranch.Name, targetBranch.Name, len(conflicts))
	m.atService.TrackEvent(view.ActivityTrackingEvent{
		Type:       view.ATETCreateMergeRequest,
		EntityType: view.EntityTypeMergeRequest,
		EntityId:   ent.Id,
		Data: map[string]interface{}{
			"title":          ent.Title,
			"sourceBranchId": ent.SourceBranchId,
			"targetBranchId": ent.TargetBranchId,
			"conflictsCount": len(conflicts),
		},
		Date:   time.Now(),
		UserId: ctx.GetUserId(),
	})
	result := entity.MakeMergeRequestView(ent)
	return &result, nil
}

func (m mergeRequestServiceImpl) GetMergeRequest(id string) (*view.MergeRequest, error) {
	ent, err := m.requireMergeRequest(id)
	if err != nil {
		return nil, err
	}
	result := entity.MakeMergeRequestView(*ent)
	return &result, nil
}

func (m mergeRequestServiceImpl) GetMergeRequests(filter view.MergeRequestsFilterReq) (*view.MergeRequests, error) {
	ents, err := m.mergeRequestRepository.GetMergeRequests(filter)
	if err != nil {
		return nil, err
	}
	result := make([]view.MergeRequest, 0, len(ents))
	for _, ent := range ents {
		result = append(result, entity.MakeMergeRequestView(ent))
	}
	return &view.MergeRequests{MergeRequests: result}, nil
}

func (m mergeRequestServiceImpl) GetConflicts(mergeRequestId string) (*view.Conflicts, error) {
	if _, err := m.requireMergeRequest(mergeRequestId); err != nil {
		return nil, err
	}
	ents, err := m.mergeRequestRepository.GetConflicts(mergeRequestId)
	if err != nil {
		return nil, err
	}
	conflicts := make([]view.Conflict, 0, len(ents))
	for _, ent := range ents {
		conflictView, err := entity.MakeConflictView(ent)
		if err != nil {
			return nil, err
		}
		conflicts = append(conflicts, *conflictView)
	}
	return &view.Conflicts{Conflicts: conflicts}, nil
}

func (m mergeRequestServiceImpl) ApproveMergeRequest(ctx context.SecurityContext, id string) (*view.MergeRequest, error) {
	mr, sourceBranch, targetBranch, err := m.reviewableMergeRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	unresolved, err := m.mergeRequestRepository.CountUnresolvedConflicts(id)
	if err != nil {
		return nil, err
	}
	if unresolved > 0 {
		return nil, &exception.CustomError{
			Status:  http.StatusConflict,
			Code:    exception.UnresolvedConflicts,
			Message: exception.UnresolvedConflictsMsg,
			Params:  map[string]interface{}{"mergeRequestId": id, "count": unresolved},
		}
	}
	now := time.Now()
	mr.Status = string(view.MergeRequestStatusMerged)
	mr.ReviewedBy = ctx.GetUserId()
	mr.ReviewedAt = &now
	mr.UpdatedAt = &now
	mergedCount, err := m.mergeRequestRepository.ApproveAndMerge(mr, sourceBranch, targetBranch)
	if err != nil {
		return nil, err
	}
	log.Infof("Approved merge request %s, merged %d features", id, mergedCount)
	metrics.MergeRequestsReviewed.WithLabelValues("merged").Inc()
	metrics.FeatureVersionsAppended.WithLabelValues(string(view.OperationMerge)).Add(float64(mergedCount))
	m.atService.TrackEvent(view.ActivityTrackingEvent{
		Type:       view.ATETApproveMergeRequest,
		EntityType: view.EntityTypeMergeRequest,
		EntityId:   id,
		Data:       map[string]interface{}{"status": mr.Status, "mergedCount": mergedCount},
		Date:       now,
		UserId:     ctx.GetUserId(),
	})
	result := entity.MakeMergeRequestView(*mr)
	return &result, nil
}

func (m mergeRequestServiceImpl) RejectMergeRequest(ctx context.SecurityContext, id string, comment string) (*view.MergeRequest, error) {
	mr, _, _, err := m.reviewableMergeRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	mr.Status = string(view.MergeRequestStatusRejected)
	mr.ReviewedBy = ctx.GetUserId()
	mr.ReviewComment = comment
	mr.ReviewedAt = &now
	mr.UpdatedAt = &now
	if err := m.mergeRequestRepository.UpdateMergeRequest(mr); err != nil {
		return nil, err
	}
	metrics.MergeRequestsReviewed.WithLabelValues("rejected").Inc()
	m.atService.TrackEvent(view.ActivityTrackingEvent{
		Type:       view.ATETRejectMergeRequest,
		EntityType: view.EntityTypeMergeRequest,
		EntityId:   id,
		Data:       map[string]interface{}{"status": mr.Status, "comment": comment},
		Date:       now,
		UserId:     ctx.GetUserId(),
	})
	result := entity.MakeMergeRequestView(*mr)
	return &result, nil
}

func (m mergeRequestServiceImpl) GetValidators(mergeRequestId string) ([]view.UserRole, error) {
	mr, err := m.requireMergeRequest(mergeRequestId)
	if err != nil {
		return nil, err
	}
	targetBranch, err := m.requireBranch(mr.TargetBranchId)
	if err != nil {
		return nil, err
	}
	targetView := entity.MakeBranchView(*targetBranch)
	return m.roleService.GetMergeRequestValidators(&targetView)
}

// reviewableMergeRequest loads the request with its branches and enforces the
// review preconditions: reviewable status and approval rights on the target.
func (m mergeRequestServiceImpl) reviewableMergeRequest(ctx context.SecurityContext, id string) (*entity.MergeRequestEntity, *entity.BranchEntity, *entity.BranchEntity, error) {
	mr, err := m.requireMergeRequest(id)
	if err != nil {
		return nil, nil, nil, err
	}
	if !view.MergeRequestReviewable(view.MergeRequestStatus(mr.Status)) {
		return nil, nil, nil, &exception.CustomError{
			Status:  http.StatusConflict,
			Code:    exception.MergeRequestNotReviewable,
			Message: exception.MergeRequestNotReviewableMsg,
			Params:  map[string]interface{}{"mergeRequestId": id, "status": mr.Status},
		}
	}
	sourceBranch, err := m.requireBranch(mr.SourceBranchId)
	if err != nil {
		return nil, nil, nil, err
	}
	targetBranch, err := m.requireBranch(mr.TargetBranchId)
	if err != nil {
		return nil, nil, nil, err
	}
	targetView := entity.MakeBranchView(*targetBranch)
	canApprove, err := m.roleService.CanApproveMergeRequest(ctx, &targetView)
	if err != nil {
		return nil, nil, nil, err
	}
	if !canApprove {
		return nil, nil, nil, &exception.CustomError{
			Status:  http.StatusForbidden,
			Code:    exception.InsufficientPrivileges,
			Message: exception.InsufficientPrivilegesMsg,
			Debug:   "no rights to review this merge request",
		}
	}
	return mr, sourceBranch, targetBranch, nil
}

func (m mergeRequestServiceImpl) requireMergeRequest(id string) (*entity.MergeRequestEntity, error) {
	ent, err := m.mergeRequestRepository.GetMergeRequest(id)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.MergeRequestNotFound,
			Message: exception.MergeRequestNotFoundMsg,
			Params:  map[string]interface{}{"mergeRequestId": id},
		}
	}
	return ent, nil
}

func (m mergeRequestServiceImpl) requireBranch(branchId string) (*entity.BranchEntity, error) {
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
