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
	"github.com/Maredius/geodraft/entity"
	"github.com/Maredius/geodraft/repository"
	"github.com/Maredius/geodraft/utils"
	"github.com/Maredius/geodraft/view"
	log "github.com/sirupsen/logrus"
)

type ActivityTrackingService interface {
	TrackEvent(event view.ActivityTrackingEvent) // return no error due to async processing

	GetEventsForEntity(entityType string, entityId string, limit int, page int) (*view.ActivityResponse, error)
}

func NewActivityTrackingService(repo repository.ActivityTrackingRepository) ActivityTrackingService {
	return &activityTrackingServiceImpl{repo: repo}
}

type activityTrackingServiceImpl struct {
	repo repository.ActivityTrackingRepository
}

func (a activityTrackingServiceImpl) TrackEvent(event view.ActivityTrackingEvent) {
	utils.SafeAsync(func() {
		a.trackEventInternal(event)
	})
}

func (a activityTrackingServiceImpl) GetEventsForEntity(entityType string, entityId string, limit int, page int) (*view.ActivityResponse, error) {
	ents, err := a.repo.GetEventsForEntity(entityType, entityId, limit, page)
	if err != nil {
		return nil, err
	}
	result := view.ActivityResponse{Events: make([]view.ActivityTrackingEvent, len(ents))}
	for i, ent := range ents {
		result.Events[i] = entity.MakeActivityTrackingEventView(ent)
	}
	return &result, nil
}

func (a activityTrackingServiceImpl) trackEventInternal(event view.ActivityTrackingEvent) {
	ent := entity.MakeActivityTrackingEventEntity(event)
	err := a.repo.CreateEvent(&ent)
	if err != nil {
		log.Errorf("Failed to save tracked event %+v to DB with err: %s", ent, err)
	}
}
