package policy

import "jobpack/internal/job"

// IsExportReady reports whether the owner has confirmed the job's AI content.
// Only the confirmed state passes; admins are not exempt.
func IsExportReady(j *job.Job) bool {
	return j != nil && j.AIReviewStatus == job.ReviewConfirmed
}
