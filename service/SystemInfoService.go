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
	"os"
	"strconv"

	"github.com/Maredius/geodraft/utils"
	"github.com/Maredius/geodraft/view"
	log "github.com/sirupsen/logrus"
)

const (
	BASE_PATH                    = "BASE_PATH"
	PRODUCTION_MODE              = "PRODUCTION_MODE"
	LOG_LEVEL                    = "LOG_LEVEL"
	GEODRAFT_POSTGRESQL_HOST     = "GEODRAFT_POSTGRESQL_HOST"
	GEODRAFT_POSTGRESQL_PORT     = "GEODRAFT_POSTGRESQL_PORT"
	GEODRAFT_POSTGRESQL_DB_NAME  = "GEODRAFT_POSTGRESQL_DB_NAME"
	GEODRAFT_POSTGRESQL_USERNAME = "GEODRAFT_POSTGRESQL_USERNAME"
	GEODRAFT_POSTGRESQL_PASSWORD = "GEODRAFT_POSTGRESQL_PASSWORD"
)

type SystemInfoService interface {
	Init() error
	GetSystemInfo() *view.SystemInfo
	GetBasePath() string
	GetLogLevel() string
	IsProductionMode() bool
	GetDbCredentials() *view.DbCredentials
}

func NewSystemInfoService() SystemInfoService {
	return &systemInfoServiceImpl{systemInfo: view.SystemInfo{}}
}

type systemInfoServiceImpl struct {
	systemInfo view.SystemInfo
	creds      view.DbCredentials
}

func (s *systemInfoServiceImpl) Init() error {
	s.systemInfo.BasePath = os.Getenv(BASE_PATH)
	if s.systemInfo.BasePath == "" {
		s.systemInfo.BasePath = "."
	}
	s.systemInfo.ProductionMode = os.Getenv(PRODUCTION_MODE) == "true"
	s.systemInfo.LogLevel = os.Getenv(LOG_LEVEL)
	if s.systemInfo.LogLevel == "" {
		s.systemInfo.LogLevel = log.InfoLevel.String()
	}

	port, err := strconv.Atoi(os.Getenv(GEODRAFT_POSTGRESQL_PORT))
	if err != nil {
		port = 5432
	}
	s.creds = view.DbCredentials{
		Host:     os.Getenv(GEODRAFT_POSTGRESQL_HOST),
		Port:     port,
		Database: os.Getenv(GEODRAFT_POSTGRESQL_DB_NAME),
		Username: os.Getenv(GEODRAFT_POSTGRESQL_USERNAME),
		Password: os.Getenv(GEODRAFT_POSTGRESQL_PASSWORD),
	}
	return utils.ValidateObject(s.creds)
}

func (s *systemInfoServiceImpl) GetSystemInfo() *view.SystemInfo {
	return &s.systemInfo
}

func (s *systemInfoServiceImpl) GetBasePath() string {
	return s.systemInfo.BasePath
}

func (s *systemInfoServiceImpl) GetLogLevel() string {
	return s.systemInfo.LogLevel
}

func (s *systemInfoServiceImpl) IsProductionMode() bool {
	return s.systemInfo.ProductionMode
}

func (s *systemInfoServiceImpl) GetDbCredentials() *view.DbCredentials {
	return &s.creds
}
