package extract

import (
	"regexp"
	"strings"

	"github.com/directorycat/catalog-pipeline/internal/model"
)

var experienceRe = regexp.MustCompile(`(?i)\d+\+?\s*(?:-\s*\d+\s*)?years?`)

var discardedJobLabels = map[string]bool{
	"View all jobs": true,
	"Apply Now":     true,
}

// Jobs extracts each job as a jobs-path Link optionally followed by a
// location line and an experience line. Navigational links ("View all
// jobs", "Apply Now") are discarded, not emitted as jobs.
func Jobs(slug string, jobs model.Section) []model.Job {
	var out []model.Job
	blocks := jobs.Blocks

	for i := 0; i < len(blocks); i++ {
		b := blocks[i]
		if b.Kind != model.BlockLink || !jobsPathRe.MatchString(b.LinkPayload.URL) {
			continue
		}
		label := strings.TrimSpace(b.LinkPayload.Text)
		if discardedJobLabels[label] {
			continue
		}

		job := model.Job{Slug: slug, URL: b.LinkPayload.URL, Title: label}

		j := i + 1
		if j < len(blocks) && blocks[j].Kind == model.BlockText && !experienceRe.MatchString(blocks[j].Text) {
			job.Location = blocks[j].Text
			j++
		}
		if j < len(blocks) && blocks[j].Kind == model.BlockText && experienceRe.MatchString(blocks[j].Text) {
			job.Experience = blocks[j].Text
		}

		out = append(out, job)
	}
	return out
}
