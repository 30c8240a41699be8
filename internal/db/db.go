package db

import (
	"fmt"

	"jobpack/internal/auth"
	"jobpack/internal/job"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// gen_random_uuid() is built in from postgres 13; older servers need pgcrypto.
	if err := gdb.Exec(`create extension if not exists pgcrypto;`).Error; err != nil {
		return err
	}

	if err := gdb.AutoMigrate(
		&auth.User{},
		&job.Job{},
		&job.Material{},
	); err != nil {
		return err
	}

	stmts := []string{
		`create index if not exists idx_jobs_owner_updated on jobs(owner_id, updated_at desc);`,
		`create index if not exists idx_job_materials_scope on job_materials(job_id, owner_id, position);`,
		`alter table jobs drop constraint if exists chk_jobs_ai_review_status;`,
		`alter table jobs add constraint chk_jobs_ai_review_status check (ai_review_status in ('draft','pending_review','confirmed'));`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
