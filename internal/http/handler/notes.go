package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"quill/internal/auth"
	"quill/internal/note"

	"github.com/go-chi/chi/v5"
)

type NoteHandler struct {
	Svc *note.Service
}

type noteDTO struct {
	ID         uint64    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	IsPinned   bool      `json:"is_pinned"`
	IsArchived bool      `json:"is_archived"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Tags       []string  `json:"tags,omitempty"`
}

func toNoteDTO(n *note.Note, tags []string) noteDTO {
	return noteDTO{
		ID:         n.ID,
		Title:      n.Title,
		Content:    n.Content,
		IsPinned:   n.IsPinned,
		IsArchived: n.IsArchived,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
		Tags:       tags,
	}
}

func userID(r *http.Request) uint64 {
	p, _ := auth.PrincipalFromContext(r.Context())
	return p.UserID
}

func pathID(r *http.Request, name string) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	return id, err == nil
}

type noteReq struct {
	Title   string   `json:"title" validate:"required,max=100"`
	Content string   `json:"content"`
	TagIDs  []uint64 `json:"tag_ids"`
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req noteReq
	if err := decodeValid(r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	n, err := h.Svc.CreateNote(r.Context(), userID(r), note.CreateNoteInput{
		Title:   req.Title,
		Content: req.Content,
		TagIDs:  req.TagIDs,
	})
	if err != nil {
		serviceError(w, err)
		return
	}

	tags, _ := h.Svc.NoteTagNames(r.Context(), n.ID)
	writeJSON(w, http.StatusCreated, toNoteDTO(n, tags))
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	var in note.ListNotesInput

	switch strings.ToLower(r.URL.Query().Get("archived")) {
	case "true":
		t := true
		in.Archived = &t
	case "false":
		f := false
		in.Archived = &f
	}
	if v := r.URL.Query().Get("tag"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			in.TagID = id
		}
	}
	in.Q = r.URL.Query().Get("q")

	notes, err := h.Svc.ListNotes(r.Context(), userID(r), in)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]noteDTO, 0, len(notes))
	for i := range notes {
		out = append(out, toNoteDTO(&notes[i], nil))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	n, err := h.Svc.GetNote(r.Context(), userID(r), id)
	if err != nil {
		serviceError(w, err)
		return
	}

	tags, _ := h.Svc.NoteTagNames(r.Context(), n.ID)
	writeJSON(w, http.StatusOK, toNoteDTO(n, tags))
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req noteReq
	if err := decodeValid(r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	n, err := h.Svc.UpdateNote(r.Context(), userID(r), id, note.UpdateNoteInput{
		Title:   req.Title,
		Content: req.Content,
		TagIDs:  req.TagIDs,
	})
	if err != nil {
		serviceError(w, err)
		return
	}

	tags, _ := h.Svc.NoteTagNames(r.Context(), n.ID)
	writeJSON(w, http.StatusOK, toNoteDTO(n, tags))
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.Svc.DeleteNote(r.Context(), userID(r), id, nil); err != nil {
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NoteHandler) TogglePin(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.Svc.TogglePin)
}

func (h *NoteHandler) ToggleArchive(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.Svc.ToggleArchive)
}

func (h *NoteHandler) toggle(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, ownerID, noteID uint64, actor *note.Actor) (*note.Note, error)) {

	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	n, err := fn(r.Context(), userID(r), id, nil)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteDTO(n, nil))
}
