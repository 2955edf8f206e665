package handler

import (
	"net/http"
	"strconv"
	"time"

	"quill/internal/note"
)

type VersionHandler struct {
	Svc *note.Service
}

type versionDTO struct {
	ID        uint64    `json:"id"`
	NoteID    uint64    `json:"note_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	UpdatedBy *uint64   `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
}

func toVersionDTO(v *note.NoteVersion) versionDTO {
	return versionDTO{
		ID:        v.ID,
		NoteID:    v.NoteID,
		Title:     v.Title,
		Content:   v.Content,
		Tags:      []string(v.TagNames),
		UpdatedBy: v.UpdatedByID,
		CreatedAt: v.CreatedAt,
	}
}

func (h *VersionHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	versions, total, err := h.Svc.ListVersions(r.Context(), userID(r), id, page, pageSize)
	if err != nil {
		serviceError(w, err)
		return
	}

	out := make([]versionDTO, 0, len(versions))
	for i := range versions {
		out = append(out, toVersionDTO(&versions[i]))
	}
	if page < 1 {
		page = 1
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"page":     page,
		"total":    total,
		"versions": out,
	})
}

func (h *VersionHandler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	v, err := h.Svc.CreateSnapshot(r.Context(), userID(r), id, nil)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVersionDTO(v))
}

func (h *VersionHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	versionID, ok := pathID(r, "versionID")
	if !ok {
		http.Error(w, "invalid version id", http.StatusBadRequest)
		return
	}

	n, err := h.Svc.Restore(r.Context(), userID(r), id, versionID, nil)
	if err != nil {
		serviceError(w, err)
		return
	}

	tags, _ := h.Svc.NoteTagNames(r.Context(), n.ID)
	writeJSON(w, http.StatusOK, toNoteDTO(n, tags))
}

// DeleteAll wipes a note's history. Requires the explicit all=true guard so a
// bare DELETE cannot destroy it.
func (h *VersionHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	confirm := r.URL.Query().Get("all") == "true"
	if _, err := h.Svc.DeleteAllVersions(r.Context(), userID(r), id, confirm); err != nil {
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
