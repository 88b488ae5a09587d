package api

import (
	"net/http"
)

// CreateProfileHandler handles POST /profiles
func (h *HandlerProvider) CreateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var req profileRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.profiles.Create(r.Context(), req.toProfile(0))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProfileDTO(p))
}

// ListProfilesHandler handles GET /profiles
func (h *HandlerProvider) ListProfilesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.profiles.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	out := make([]profileDTO, 0, len(list))
	for _, p := range list {
		out = append(out, toProfileDTO(p))
	}

	writeJSON(w, http.StatusOK, out)
}

// GetProfileHandler handles GET /profiles/{profileId}
func (h *HandlerProvider) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "profileId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid profileId in path")
		return
	}

	p, err := h.profiles.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileDTO(p))
}

// UpdateProfileHandler handles PUT /profiles/{profileId}
func (h *HandlerProvider) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "profileId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid profileId in path")
		return
	}

	var req profileRequest

	err = decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.profiles.Update(r.Context(), req.toProfile(id))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileDTO(p))
}

// DeleteProfileHandler handles DELETE /profiles/{profileId}
func (h *HandlerProvider) DeleteProfileHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "profileId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid profileId in path")
		return
	}

	err = h.profiles.Delete(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
