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

	"github.com/Maredius/geodraft/client"
	"github.com/Maredius/geodraft/context"
	"github.com/Maredius/geodraft/entity"
	"github.com/Maredius/geodraft/exception"
	"github.com/Maredius/geodraft/repository"
	"github.com/Maredius/geodraft/utils"
	"github.com/Maredius/geodraft/view"
)

// RoleService is the access control gate. Every mutating operation of the
// core asks it before writing. Role hierarchy: editor < validator < admin;
// the platform sysadm bypasses all checks.
type RoleService interface {
	SetUserRole(ctx context.SecurityContext, req view.UserRoleReq) (*view.UserRole, error)
	RemoveUserRole(ctx context.SecurityContext, userId string, groupId string, role string) error
	GetUserRoleInGroup(userId string, groupId string) (string, error)
	GetUserGroups(userId string) ([]view.UserRole, error)
	GetGroupMembers(groupId string) (*view.GroupMembers, error)

	IsSysadm(ctx context.SecurityContext) bool
	IsAdmin(ctx context.SecurityContext) (bool, error)
	CanCreateBranch(ctx context.SecurityContext, layer *view.Layer) (bool, error)
	CanEditBranch(ctx context.SecurityContext, branch *view.Branch) (bool, error)
	CanDeleteBranch(ctx context.SecurityContext, branch *view.Branch) (bool, error)
	CanCreateMergeRequest(ctx context.SecurityContext, sourceBranch *view.Branch, targetBranch *view.Branch) (bool, error)
	CanApproveMergeRequest(ctx context.SecurityContext, targetBranch *view.Branch) (bool, error)
	GetMergeRequestValidators(targetBranch *view.Branch) ([]view.UserRole, error)
}

func NewRoleService(roleRepository repository.RoleRepository, platformClient client.PlatformClient, atService ActivityTrackingService) RoleService {
	return roleServiceImpl{roleRepository: roleRepository, platformClient: platformClient, atService: atService}
}

type roleServiceImpl struct {
	roleRepository repository.RoleRepository
	platformClient client.PlatformClient
	atService      ActivityTrackingService
}

func (r roleServiceImpl) SetUserRole(ctx context.SecurityContext, req view.UserRoleReq) (*view.UserRole, error) {
	if err := utils.ValidateObject(req); err != nil {
		return nil, err
	}
	isAdmin, err := r.IsAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, &exception.CustomError{
			Status:  http.StatusForbidden,
			Code:    exception.InsufficientPrivileges,
			Message: exception.InsufficientPrivilegesMsg,
			Debug:   "only admins can assign roles",
		}
	}
	if !view.ValidRole(req.Role) {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidRole,
			Message: exception.InvalidRoleMsg,
			Params:  map[string]interface{}{"role": req.Role},
		}
	}
	ent := entity.MakeUserRoleEntity(req)
	if err := r.roleRepository.SaveUserRole(&ent); err != nil {
		return nil, err
	}
	r.atService.TrackEvent(view.ActivityTrackingEvent{
		Type:       view.ATETGrantRole,
		EntityType: view.EntityTypeUserRole,
		EntityId:   ent.Id,
		Data:       map[string]interface{}{"userId": req.UserId, "groupId": req.GroupId, "role": req.Role},
		Date:       time.Now(),
		UserId:     ctx.GetUserId(),
	})
	result := entity.MakeUserRoleView(ent)
	return &result, nil
}

func (r roleServiceImpl) RemoveUserRole(ctx context.SecurityContext, userId string, groupId string, role string) error {
	isAdmin, err := r.IsAdmin(ctx)
	if err != nil {
		return err
	}
	if !isAdmin {
		return &exception.CustomError{
			Status:  http.StatusForbidden,
			Code:    exception.InsufficientPrivileges,
			Message: exception.InsufficientPrivilegesMsg,
			Debug:   "only admins can remove roles",
		}
	}
	if err := r.roleRepository.DeleteUserRole(userId, groupId, role); err != nil {
		return err
	}
	r.atService.TrackEvent(view.ActivityTrackingEvent{
		Type:       view.ATETDeleteRole,
		EntityType: view.EntityTypeUserRole,
		Data:       map[string]interface{}{"userId": userId, "groupId": groupId, "role": role},
		Date:       time.Now(),
		UserId:     ctx.GetUserId(),
	})
	return nil
}

func (r roleServiceImpl) GetUserRoleInGroup(userId string, groupId string) (string, error) {
	ents, err := r.roleRepository.GetUserRolesInGroup(userId, groupId)
	if err != nil {
		return "", err
	}
	highest := ""
	for _, ent := range ents {
		if view.RoleRank(ent.Role) > view.RoleRank(highest) {
			highest = ent.Role
		}
	}
	return highest, nil
}

func (r roleServiceImpl) GetUserGroups(userId string) ([]view.UserRole, error) {
	ents, err := r.roleRepository.GetUserRoles(userId)
	if err != nil {
		return nil, err
	}
	result := make([]view.UserRole, 0, len(ents))
	for _, ent := range ents {
		result = append(result, entity.MakeUserRoleView(ent))
	}
	return result, nil
}

func (r roleServiceImpl) GetGroupMembers(groupId string) (*view.GroupMembers, error) {
	ents, err := r.roleRepository.GetGroupRoles(groupId)
	if err != nil {
		return nil, err
	}
	result := view.GroupMembers{
		Admins:     make([]view.UserRole, 0),
		Validators: make([]view.UserRole, 0),
		Editors:    make([]view.UserRole, 0),
	}
	for _, ent := range ents {
		memberView := entity.MakeUserRoleView(ent)
		switch ent.Role {
		case view.RoleAdmin:
			result.Admins = append(result.Admins, memberView)
		case view.RoleValidator:
			result.Validators = append(result.Validators, memberView)
		case view.RoleEditor:
			result.Editors = append(result.Editors, memberView)
		}
	}
	return &result, nil
}

func (r roleServiceImpl) IsSysadm(ctx context.SecurityContext) bool {
	return ctx.GetUserSystemRole() == view.SysadmRole
}

// IsAdmin reports whether the actor holds an admin role in any group or is a
// platform sysadm.
func (r roleServiceImpl) IsAdmin(ctx context.SecurityContext) (bool, error) {
	if r.IsSysadm(ctx) {
		return true, nil
	}
	return r.roleRepository.UserHasRole(ctx.GetUserId(), view.RoleAdmin)
}

func (r roleServiceImpl) CanCreateBranch(ctx context.SecurityContext, layer *view.Layer) (bool, error) {
	isAdmin, err := r.IsAdmin(ctx)
	if err != nil {
		return false, err
	}
	if isAdmin {
		return true, nil
	}
	if layer.GroupId != "" {
		return r.roleRepository.UserHasRoleInGroup(ctx.GetUserId(), layer.GroupId,
			view.RoleEditor, view.RoleValidator, view.RoleAdmin)
	}
	// a group-less layer falls back to the platform's resource permission
	return r.platformClient.HasResourcePermission(ctx.GetUserId(), layer.Id)
}

func (r roleServiceImpl) CanEditBranch(ctx context.SecurityContext, branch *view.Branch) (bool, error) {
	isAdmin, err := r.IsAdmin(ctx)
	if err != nil {
		return false, err
	}
	if isAdmin {
		return true, nil
	}
	if branch.CreatedBy == ctx.GetUserId() {
		return true, nil
	}
	if branch.GroupId != "" {
		return r.roleRepository.UserHasRoleInGroup(ctx.GetUserId(), branch.GroupId,
			view.RoleEditor, view.RoleValidator, view.RoleAdmin)
	}
	return false, nil
}

func (r roleServiceImpl) CanDeleteBranch(ctx context.SecurityContext, branch *view.Branch) (bool, error) {
	// the master branch is never deletable, not even for admins
	if branch.IsMaster() {
		return false, nil
	}
	isAdmin, err := r.IsAdmin(ctx)
	if err != nil {
		return false, err
	}
	if isAdmin {
		return true, nil
	}
	if branch.CreatedBy != ctx.GetUserId() {
		return false, nil
	}
	if branch.GroupId != "" {
		roles, err := r.roleRepository.GetUserRolesInGroup(ctx.GetUserId(), branch.GroupId)
		if err != nil {
			return false, err
		}
		for _, role := range roles {
			if role.CanManageBranches {
				return true, nil
			}
		}
		return false, nil
	}
	return true, nil
}

func (r roleServiceImpl) CanCreateMergeRequest(ctx context.SecurityContext, sourceBranch *view.Branch, targetBranch *view.Branch) (bool, error) {
	if sourceBranch.Id == targetBranch.Id {
		return false, nil
	}
	if sourceBranch.LayerId != targetBranch.LayerId {
		return false, nil
	}
	return r.CanEditBranch(ctx, sourceBranch)
}

func (r roleServiceImpl) CanApproveMergeRequest(ctx context.SecurityContext, targetBranch *view.Branch) (bool, error) {
	isAdmin, err := r.IsAdmin(ctx)
	if err != nil {
		return false, err
	}
	if isAdmin {
		return true, nil
	}
	if targetBranch.GroupId == "" {
		return false, nil
	}
	approvers, err := r.roleRepository.GetGroupApprovers(targetBranch.GroupId)
	if err != nil {
		return false, err
	}
	for _, approver := range approvers {
		if approver.UserId == ctx.GetUserId() {
			return true, nil
		}
	}
	return false, nil
}

func (r roleServiceImpl) GetMergeRequestValidators(targetBranch *view.Branch) ([]view.UserRole, error) {
	if targetBranch.GroupId == "" {
		return make([]view.UserRole, 0), nil
	}
	ents, err := r.roleRepository.GetGroupApprovers(targetBranch.GroupId)
	if err != nil {
		return nil, err
	}
	result := make([]view.UserRole, 0, len(ents))
	for _, ent := range ents {
		result = append(result, entity.MakeUserRoleView(ent))
	}
	return result, nil
}
