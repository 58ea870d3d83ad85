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

package repository

import (
	"github.com/Maredius/geodraft/db"
	"github.com/Maredius/geodraft/entity"
	"github.com/go-pg/pg/v10"
)

type RoleRepository interface {
	SaveUserRole(ent *entity.UserRoleEntity) error
	DeleteUserRole(userId string, groupId string, role string) error
	GetUserRoles(userId string) ([]entity.UserRoleEntity, error)
	GetUserRolesInGroup(userId string, groupId string) ([]entity.UserRoleEntity, error)
	GetGroupRoles(groupId string) ([]entity.UserRoleEntity, error)
	UserHasRole(userId string, roles ...string) (bool, error)
	UserHasRoleInGroup(userId string, groupId string, roles ...string) (bool, error)
	GetGroupApprovers(groupId string) ([]entity.UserRoleEntity, error)
}

func NewRoleRepositoryPG(cp db.ConnectionProvider) RoleRepository {
	return &roleRepositoryImpl{cp: cp}
}

type roleRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (r roleRepositoryImpl) SaveUserRole(ent *entity.UserRoleEntity) error {
	_, err := r.cp.GetConnection().Model(ent).
		OnConflict(`
		(user_id, group_id, role) do update
		set can_approve_merges = excluded.can_approve_merges,
			can_manage_branches = excluded.can_manage_branches,
			updated_at = now()`).
		Insert()
	return err
}

func (r roleRepositoryImpl) DeleteUserRole(userId string, groupId string, role string) error {
	_, err := r.cp.GetConnection().Model(&entity.UserRoleEntity{}).
		Where("user_id = ?", userId).
		Where("group_id = ?", groupId).
		Where("role = ?", role).
		Delete()
	return err
}

func (r roleRepositoryImpl) GetUserRoles(userId string) ([]entity.UserRoleEntity, error) {
	var result []entity.UserRoleEntity
	err := r.cp.GetConnection().Model(&result).
		Where("user_id = ?", userId).
		Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r roleRepositoryImpl) GetUserRolesInGroup(userId string, groupId string) ([]entity.UserRoleEntity, error) {
	var result []entity.UserRoleEntity
	err := r.cp.GetConnection().Model(&result).
		Where("user_id = ?", userId).
		Where("group_id = ?", groupId).
		Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r roleRepositoryImpl) GetGroupRoles(groupId string) ([]entity.UserRoleEntity, error) {
	var result []entity.UserRoleEntity
	err := r.cp.GetConnection().Model(&result).
		Where("group_id = ?", groupId).
		Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r roleRepositoryImpl) UserHasRole(userId string, roles ...string) (bool, error) {
	return r.cp.GetConnection().Model(&entity.UserRoleEntity{}).
		Where("user_id = ?", userId).
		Where("role in (?)", pg.In(roles)).
		Exists()
}

func (r roleRepositoryImpl) UserHasRoleInGroup(userId string, groupId string, roles ...string) (bool, error) {
	return r.cp.GetConnection().Model(&entity.UserRoleEntity{}).
		Where("user_id = ?", userId).
		Where("group_id = ?", groupId).
		Where("role in (?)", pg.In(roles)).
		Exists()
}

func (r roleRepositoryImpl) GetGroupApprovers(groupId string) ([]entity.UserRoleEntity, error) {
	var result []entity.UserRoleEntity
	err := r.cp.GetConnection().Model(&result).
		Where("group_id = ?", groupId).
		Where("role in (?)", pg.In([]string{"validator", "admin"})).
		Where("can_approve_merges = true").
		Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}
