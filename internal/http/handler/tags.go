package handler

import (
	"net/http"

	"quill/internal/note"
)

type TagHandler struct {
	Svc *note.Service
}

type tagDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type tagReq struct {
	Name string `json:"name" validate:"required,max=16"`
}

func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.Svc.ListTags(r.Context(), userID(r))
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]tagDTO, 0, len(tags))
	for _, t := range tags {
		out = append(out, tagDTO{ID: t.ID, Name: t.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req tagReq
	if err := decodeValid(r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	t, err := h.Svc.CreateTag(r.Context(), userID(r), req.Name)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tagDTO{ID: t.ID, Name: t.Name})
}

func (h *TagHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req tagReq
	if err := decodeValid(r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	t, err := h.Svc.RenameTag(r.Context(), userID(r), id, req.Name)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tagDTO{ID: t.ID, Name: t.Name})
}

func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.Svc.DeleteTag(r.Context(), userID(r), id); err != nil {
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
