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

package utils

import (
	log "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"gopkg.in/natefinch/lumberjack.v2"
)

// InitLogging configures the process-wide logrus logger. In production mode
// output goes to a size-rotated file instead of stderr.
func InitLogging(logLevel string, productionMode bool) {
	log.SetFormatter(&prefixed.TextFormatter{
		DisableColors:   productionMode,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if productionMode {
		log.SetOutput(&lumberjack.Logger{
			Filename:   "logs/geodraft.log",
			MaxSize:    10, // megabytes
			MaxBackups: 10,
			Compress:   false,
		})
	}

	level, err := log.ParseLevel(logLevel)
	if err != nil {
		log.Warnf("Unknown log level '%s', falling back to INFO", logLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
