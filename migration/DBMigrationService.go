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

package migration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Maredius/geodraft/db"
	"github.com/go-pg/pg/v10"
	log "github.com/sirupsen/logrus"
)

type DBMigrationService interface {
	// Migrate applies all pending schema migrations and returns the previous
	// and the new schema version.
	Migrate() (int, int, error)
}

func NewDBMigrationService(cp db.ConnectionProvider, basePath string) DBMigrationService {
	return &dbMigrationServiceImpl{
		cp:               cp,
		migrationsFolder: basePath + "/resources/migrations",
	}
}

type dbMigrationServiceImpl struct {
	cp               db.ConnectionProvider
	migrationsFolder string
}

type migrationFile struct {
	num  int
	path string
}

func (d *dbMigrationServiceImpl) Migrate() (int, int, error) {
	log.Infof("Schema Migration: start")
	if err := d.createSchemaMigrationsTable(); err != nil {
		return 0, 0, fmt.Errorf("failed to create schema migrations table: %w", err)
	}
	var currentVersion int
	_, err := d.cp.GetConnection().QueryOne(pg.Scan(&currentVersion), `SELECT version FROM schema_migrations`)
	if err != nil && err != pg.ErrNoRows {
		return 0, 0, err
	}
	files, err := d.listMigrationFiles()
	if err != nil {
		return 0, 0, err
	}
	pending := make([]migrationFile, 0)
	for _, file := range files {
		if file.num > currentVersion {
			pending = append(pending, file)
		}
	}
	if len(pending) == 0 {
		log.Infof("Schema Migration: no migrations required")
		return currentVersion, currentVersion, nil
	}
	newVersion := pending[len(pending)-1].num
	ctx := context.Background()
	err = d.cp.GetConnection().RunInTransaction(ctx, func(tx *pg.Tx) error {
		for _, file := range pending {
			content, err := os.ReadFile(file.path)
			if err != nil {
				return fmt.Errorf("failed to read migration %v: %w", file.num, err)
			}
			rs, err := tx.Exec(string(content))
			if err != nil {
				return fmt.Errorf("failed to apply migration %v: %w", file.num, err)
			}
			log.Infof("successfully applied migration %v: %v rows affected", file.num, rs.RowsAffected())
		}
		if _, err := tx.Exec(`DELETE FROM schema_migrations`); err != nil {
			return fmt.Errorf("failed to update schema_migrations: %w", err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version, dirty) VALUES (?, false)`, newVersion); err != nil {
			return fmt.Errorf("failed to update schema_migrations: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	log.Infof("Schema Migration: finished successfully")
	return currentVersion, newVersion, nil
}

func (d *dbMigrationServiceImpl) createSchemaMigrationsTable() error {
	_, err := d.cp.GetConnection().Exec(`
		create table if not exists schema_migrations
		(
			version integer not null,
			dirty boolean not null,
			PRIMARY KEY(version)
		)`)
	return err
}

// Migration files are named <num>_<name>.up.sql and applied in ascending
// numeric order.
func (d *dbMigrationServiceImpl) listMigrationFiles() ([]migrationFile, error) {
	entries, err := os.ReadDir(d.migrationsFolder)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations folder %s: %w", d.migrationsFolder, err)
	}
	files := make([]migrationFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		numStr, _, found := strings.Cut(entry.Name(), "_")
		if !found {
			return nil, fmt.Errorf("unexpected migration file name: %s", entry.Name())
		}
		num, err := strconv.Atoi(numStr)
		if err != nil {
			return nil, fmt.Errorf("unexpected migration file name: %s", entry.Name())
		}
		files = append(files, migrationFile{num: num, path: filepath.Join(d.migrationsFolder, entry.Name())})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].num < files[j].num })
	return files, nil
}
