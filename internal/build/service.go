package build

import (
	"context"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docrender/internal/config"
	"git.home.luguber.info/inful/docrender/internal/docset"
	"git.home.luguber.info/inful/docrender/internal/linkverify"
	"git.home.luguber.info/inful/docrender/internal/render"
)

// BuildService executes documentation builds.
type BuildService interface {
	Run(ctx context.Context, req BuildRequest) (*BuildResult, error)
}

// BuildRequest contains all inputs of one build.
type BuildRequest struct {
	Config *config.Config

	// OutputDir overrides output.directory when set.
	OutputDir string

	// Sources replaces the sources of every guide set when set.
	Sources []string

	// CheckLinks forces link verification regardless of render.check_links.
	CheckLinks bool
}

// BuildResult contains the outcome of a build.
type BuildResult struct {
	Status      BuildStatus
	OutputPath  string
	Sets        []SetReport
	BrokenLinks []linkverify.Broken
	Duration    time.Duration
	StartTime   time.Time
	EndTime     time.Time
}

// SetReport describes one rendered documentation set.
type SetReport struct {
	Name    string
	Kind    docset.SetKind
	PassID  uuid.UUID
	Output  string
	Targets []render.Target
	Failed  []string
	Tocs    []*docset.Toc
}

// Fingerprints maps each written target to the fingerprint of its source document.
func (r *BuildResult) Fingerprints() map[string]string {
	out := make(map[string]string)
	for _, s := range r.Sets {
		for _, t := range s.Targets {
			out[t.Path] = t.Fingerprint
		}
	}
	return out
}

// BuildStatus represents the outcome of a build.
type BuildStatus string

const (
	BuildStatusSuccess BuildStatus = "success"
	// BuildStatusWarning means everything was written but broken links were found.
	BuildStatusWarning   BuildStatus = "warning"
	BuildStatusFailed    BuildStatus = "failed"
	BuildStatusCancelled BuildStatus = "cancelled"
)

// IsSuccess reports whether all output was written.
func (s BuildStatus) IsSuccess() bool {
	return s == BuildStatusSuccess || s == BuildStatusWarning
}
