package http

import (
	"net/http"
	"strings"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
	"github.com/huyhqq/Student-Club-Management-System/internal/service"
)

type createPostBody struct {
	Content    string                `json:"content"`
	Visibility domain.PostVisibility `json:"visibility"`
	ClubID     *int32                `json:"club_id"`
}

type updatePostBody struct {
	Content string `json:"content"`
}

// postQuery reads page, page_size, club_id, visibility, search and sort (clubname_asc, clubname_desc).
func postQuery(w http.ResponseWriter, r *http.Request) (service.PostQuery, bool) {
	q := r.URL.Query()
	pq := service.PostQuery{
		Page:     queryInt32(r, "page"),
		PageSize: queryInt32(r, "page_size"),
		Search:   q.Get("search"),
	}
	if v := q.Get("club_id"); v != "" {
		id := queryInt32(r, "club_id")
		if id <= 0 {
			writeBadRequest(w, "invalid club id")
			return pq, false
		}
		pq.ClubID = &id
	}
	if v := q.Get("visibility"); v != "" {
		vis := domain.PostVisibility(v)
		if !vis.Valid() {
			writeBadRequest(w, "unknown post visibility "+v)
			return pq, false
		}
		pq.Visibility = &vis
	}
	switch strings.ToLower(q.Get("sort")) {
	case "clubname_asc":
		pq.Sort = domain.PostSortClubNameAsc
	case "clubname_desc":
		pq.Sort = domain.PostSortClubNameDesc
	}
	return pq, true
}

func (h *handler) listPublicPosts(w http.ResponseWriter, r *http.Request) {
	q, ok := postQuery(w, r)
	if !ok {
		return
	}
	page, err := h.svc.Posts.ListPublicPosts(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, page)
}

func (h *handler) getPublicPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid post id")
		return
	}
	post, err := h.svc.Posts.GetPublicPost(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, post)
}

func (h *handler) listPosts(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	q, ok := postQuery(w, r)
	if !ok {
		return
	}
	page, err := h.svc.Posts.ListPosts(r.Context(), actor, q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, page)
}

func (h *handler) getPost(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid post id")
		return
	}
	post, err := h.svc.Posts.GetPost(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, post)
}

func (h *handler) createPost(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	var body createPostBody
	if !decode(w, r, &body) {
		return
	}
	if body.Visibility == "" {
		body.Visibility = domain.PostVisibilityPublic
	}
	post, err := h.svc.Posts.CreatePost(r.Context(), actor, service.CreatePostInput{
		Content:    body.Content,
		Visibility: body.Visibility,
		ClubID:     body.ClubID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, "Post created", post)
}

func (h *handler) updatePost(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid post id")
		return
	}
	var body updatePostBody
	if !decode(w, r, &body) {
		return
	}
	post, err := h.svc.Posts.UpdatePost(r.Context(), actor, id, body.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, post)
}

func (h *handler) deletePost(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid post id")
		return
	}
	if err := h.svc.Posts.DeletePost(r.Context(), actor, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Post deleted")
}
