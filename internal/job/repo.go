package job

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("job not found")

type Repo struct {
	DB *gorm.DB
}

func (r *Repo) GetJobByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	var j Job
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&j).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "load job %s", id)
	}
	return &j, nil
}

// GetJobMaterials returns the itemised lines of a job in display order. Lines
// are scoped to the owner as well as the job.
func (r *Repo) GetJobMaterials(ctx context.Context, jobID uuid.UUID, ownerID uint64) ([]Material, error) {
	var rows []Material
	if err := r.DB.WithContext(ctx).
		Where("job_id = ? AND owner_id = ?", jobID, ownerID).
		Order("position asc, id asc").
		Find(&rows).Error; err != nil {
		return nil, eris.Wrapf(err, "load materials for job %s", jobID)
	}
	return rows, nil
}
