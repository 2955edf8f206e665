package handler

import (
	"net/http"

	"quill/internal/note"
)

type SendHandler struct {
	Svc *note.Service
}

type sendReq struct {
	RecipientUsername string `json:"recipient_username"`
}

func (h *SendHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	// blank username is a 400 from the service, not a decode failure
	var req sendReq
	if err := decodeValid(r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	res, err := h.Svc.SendNote(r.Context(), userID(r), id, req.RecipientUsername, nil)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"note_id":   res.Copy.ID,
		"sender":    res.Sender.Username,
		"recipient": res.Recipient.Username,
	})
}
