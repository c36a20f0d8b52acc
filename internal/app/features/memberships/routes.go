// internal/app/features/memberships/routes.go
package memberships

import (
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/app/system/membership"
	"github.com/go-chi/chi/v5"
)

// Routes registers join, leave, save, and like endpoints on r (mounted at /api).
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Post("/events/{id}/registration", h.join(membership.EventRegistrations))
		pr.Delete("/events/{id}/registration", h.leave(membership.EventRegistrations))

		pr.Post("/seminars/{id}/attendance", h.join(membership.SeminarAttendees))
		pr.Delete("/seminars/{id}/attendance", h.leave(membership.SeminarAttendees))

		pr.Post("/groups/{id}/membership", h.join(membership.GroupMembers))
		pr.Delete("/groups/{id}/membership", h.leave(membership.GroupMembers))

		pr.Post("/jobs/{id}/save", h.join(membership.SavedJobs))
		pr.Delete("/jobs/{id}/save", h.leave(membership.SavedJobs))

		pr.Get("/me/registrations", h.myRegistrations)

		pr.Post("/blogs/{id}/like", h.like(membership.BlogLikes, ""))
		pr.Post("/gallery/{id}/like", h.like(membership.GalleryLikes, ""))
		pr.Post("/threads/{id}/replies/{replyID}/like", h.like(membership.ReplyLikes, "replyID"))
		pr.Post("/groups/{id}/posts/{postID}/like", h.like(membership.PostLikes, "postID"))
	})
}
