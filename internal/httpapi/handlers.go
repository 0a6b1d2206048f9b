package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/orgball2608/vibestream/internal/domain"
	"github.com/orgball2608/vibestream/pkg/errors"
)

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Username string `json:"username"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type avatarResponse struct {
	AvatarURL string          `json:"avatar_url"`
	Profile   *domain.Profile `json:"profile"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.State())
}

func (s *Server) handleSessionWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", "error", err)
		return
	}
	s.hub.attach(conn, s.store.State())
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.store.SignUp(r.Context(), req.Email, req.Password, req.FullName, req.Username); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, statusResponse{Status: "ok"})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.store.SignIn(r.Context(), req.Email, req.Password); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.store.SignOut(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch domain.ProfilePatch
	if !s.decode(w, r, &patch) {
		return
	}
	if patch.IsEmpty() {
		s.writeStatus(w, http.StatusBadRequest, "invalid_request", "nothing to update")
		return
	}
	if err := s.store.UpdateProfile(r.Context(), patch); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.store.State().Profile)
}

func (s *Server) handleRefreshProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RefreshProfile(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.store.State().Profile)
}

// handleUploadAvatar stores the file and points the profile at it.
func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	data, name, contentType, ok := s.readFile(w, r, s.maxAvatarSize)
	if !ok {
		return
	}

	url, err := s.store.UploadAvatar(r.Context(), data, name, contentType)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.UpdateProfile(r.Context(), domain.ProfilePatch{AvatarRef: &url}); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, avatarResponse{AvatarURL: url, Profile: s.store.State().Profile})
}

func (s *Server) handleListStories(w http.ResponseWriter, r *http.Request) {
	groups, err := s.feed.Active(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if groups == nil {
		groups = []domain.StoryGroup{}
	}
	s.writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleAuthorStories(w http.ResponseWriter, r *http.Request) {
	authorID, err := uuid.Parse(r.PathValue("authorID"))
	if err != nil {
		s.writeStatus(w, http.StatusBadRequest, "invalid_request", "author id must be a UUID")
		return
	}

	group, err := s.feed.ByAuthor(r.Context(), authorID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if group == nil {
		s.writeStatus(w, http.StatusNotFound, "not_found", "no active stories")
		return
	}
	s.writeJSON(w, http.StatusOK, group)
}

func (s *Server) handlePostStory(w http.ResponseWriter, r *http.Request) {
	data, name, contentType, ok := s.readFile(w, r, s.maxStorySize)
	if !ok {
		return
	}

	item, err := s.feed.Post(r.Context(), data, name, contentType)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, item)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeStatus(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// multipartSlack covers form boundaries and headers on top of the file limit.
const multipartSlack = 1 << 20

// readFile reads the multipart "file" field. Bodies beyond limit plus
// multipartSlack are refused while reading; files just over limit are passed
// through truncated to limit+1 bytes so the store reports the size error.
func (s *Server) readFile(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, string, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartSlack)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeStatus(w, http.StatusRequestEntityTooLarge, errors.CodeInvalidFile,
				fmt.Sprintf("file must be at most %d MiB", limit>>20))
			return nil, "", "", false
		}
		s.writeStatus(w, http.StatusBadRequest, "invalid_request", "expected a multipart form")
		return nil, "", "", false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeStatus(w, http.StatusBadRequest, "invalid_request", "missing file field")
		return nil, "", "", false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		s.writeStatus(w, http.StatusBadRequest, "invalid_request", "failed to read file")
		return nil, "", "", false
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return data, header.Filename, contentType, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}
