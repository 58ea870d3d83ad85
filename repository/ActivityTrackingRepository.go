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
)

// ActivityTrackingRepository is append-only. No update or delete exists and
// none may be added: the trail is pure observability and never feeds back
// into system state.
type ActivityTrackingRepository interface {
	CreateEvent(ent *entity.ActivityTrackingEntity) error
	GetEventsForEntity(entityType string, entityId string, limit int, page int) ([]entity.ActivityTrackingEntity, error)
}

func NewActivityTrackingRepositoryPG(cp db.ConnectionProvider) ActivityTrackingRepository {
	return &activityTrackingRepositoryImpl{cp: cp}
}

type activityTrackingRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (a activityTrackingRepositoryImpl) CreateEvent(ent *entity.ActivityTrackingEntity) error {
	_, err := a.cp.GetConnection().Model(ent).Insert()
	return err
}

func (a activityTrackingRepositoryImpl) GetEventsForEntity(entityType string, entityId string, limit int, page int) ([]entity.ActivityTrackingEntity, error) {
	var result []entity.ActivityTrackingEntity
	query := a.cp.GetConnection().Model(&result).
		Where("entity_type = ?", entityType).
		Where("entity_id = ?", entityId).
		Order("date DESC")
	if limit > 0 {
		query.Limit(limit).Offset(limit * page)
	}
	err := query.Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}
