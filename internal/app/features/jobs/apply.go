// internal/app/features/jobs/apply.go
package jobs

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/guildhub/internal/app/system/activity"
	"github.com/dalemusser/guildhub/internal/app/system/apperr"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/moderation"
	"github.com/dalemusser/guildhub/internal/app/system/notify"
	"github.com/dalemusser/guildhub/internal/app/system/respond"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type applyRequest struct {
	CoverLetter string `json:"cover_letter"`
	ResumeURL   string `json:"resume_url"`
}

// HandleApply handles POST /api/jobs/{id}/apply. Only approved jobs take
// applications and a member applies to a job at most once.
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	actor := authz.ActorFromRequest(r)
	if actor.Anonymous() {
		respond.Error(w, h.Log, apperr.ErrUnauthorized)
		return
	}
	id, err := jobID(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	var req applyRequest
	if r.ContentLength != 0 {
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, h.Log, err)
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "apply to job")
	defer cancel()

	job, err := h.loadJob(ctx, id, actor)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	if job.Status != models.StatusApproved {
		respond.Error(w, h.Log, fmt.Errorf("apply: %w", apperr.ErrNotOpen))
		return
	}

	app, err := h.Applications.Create(ctx, models.JobApplication{
		JobID:       id,
		UserID:      actor.ID,
		CoverLetter: req.CoverLetter,
		ResumeURL:   req.ResumeURL,
	})
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	h.Activity.Record(ctx, actor.ID, activity.Entry{
		Type:         models.ActivityJobApplication,
		Title:        "Applied for " + job.Title,
		Description:  job.Company,
		RelatedID:    id,
		RelatedModel: "job",
	})
	_ = h.Notifier.NotifyUser(ctx, job.SubmittedBy, notify.Notice{
		Type:         "job_application",
		Title:        "New application",
		Message:      "Someone applied for " + job.Title + ".",
		RelatedID:    id,
		RelatedModel: "job",
	})
	respond.JSON(w, http.StatusCreated, app)
}

// ServeApplications handles GET /api/jobs/{id}/applications. The poster
// and moderators may read them.
func (h *Handler) ServeApplications(w http.ResponseWriter, r *http.Request) {
	actor := authz.ActorFromRequest(r)
	id, err := jobID(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "job applications")
	defer cancel()

	job, err := h.loadJob(ctx, id, actor)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	if job.SubmittedBy != actor.ID && !h.Authz.HasCapability(actor, authz.CapModerate) {
		respond.Error(w, h.Log, apperr.ErrForbidden)
		return
	}

	apps, err := h.Applications.ListForJob(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"applications": apps})
}

// ServeMyApplications handles GET /api/me/applications.
func (h *Handler) ServeMyApplications(w http.ResponseWriter, r *http.Request) {
	actor := authz.ActorFromRequest(r)
	if actor.Anonymous() {
		respond.Error(w, h.Log, apperr.ErrUnauthorized)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "my applications")
	defer cancel()

	apps, err := h.Applications.ListForUser(ctx, actor.ID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"applications": apps})
}

// loadJob reads the job as actor sees it; hidden jobs are not found.
func (h *Handler) loadJob(ctx context.Context, id primitive.ObjectID, actor authz.Actor) (*models.Job, error) {
	ent, err := h.Engine.Get(ctx, moderation.Job, id, actor)
	if err != nil {
		return nil, err
	}
	return ent.(*models.Job), nil
}
