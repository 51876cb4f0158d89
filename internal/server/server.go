// Package server exposes the pipeline over HTTP: upload a source,
// trigger processing, regenerate single clips with new styles, and
// share finished clips.
package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/clipforge/clipforge/internal/pipeline"
	"github.com/clipforge/clipforge/internal/ports"
	"github.com/clipforge/clipforge/internal/transcripts"
	"github.com/clipforge/clipforge/internal/types"
)

// Runner is the pipeline surface the server needs; tests swap in a
// fake.
type Runner interface {
	Process(ctx context.Context, req pipeline.Request) (pipeline.Result, error)
	Regenerate(ctx context.Context, req pipeline.RegenerateRequest) (pipeline.RegenerateResult, error)
}

type Server struct {
	runner    Runner
	publisher ports.Publisher
	uploadDir string
	outputDir string
	logger    zerolog.Logger
}

func New(runner Runner, publisher ports.Publisher, uploadDir, outputDir string, logger zerolog.Logger) *Server {
	return &Server{
		runner:    runner,
		publisher: publisher,
		uploadDir: uploadDir,
		outputDir: outputDir,
		logger:    logger,
	}
}

func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/api/upload", s.upload).Methods(http.MethodPost)
	r.HandleFunc("/api/process", s.process).Methods(http.MethodPost)
	r.HandleFunc("/api/process/regenerate", s.regenerate).Methods(http.MethodPost)
	r.HandleFunc("/api/share/instagram", s.shareInstagram).Methods(http.MethodPost)

	r.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir(s.outputDir))),
	)
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type uploadResponse struct {
	FileID    string `json:"file_id"`
	Filename  string `json:"filename"`
	SavedPath string `json:"saved_path"`
	Message   string `json:"message"`
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	if ct := header.Header.Get("Content-Type"); !strings.HasPrefix(ct, "video/") {
		writeError(w, http.StatusBadRequest, "file must be a video")
		return
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, "could not prepare upload dir")
		return
	}

	fileID := newFileID(header.Filename)
	savedPath := filepath.Join(s.uploadDir, fileID+filepath.Ext(header.Filename))
	dst, err := os.Create(savedPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not save file")
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		writeError(w, http.StatusInternalServerError, "could not save file")
		return
	}

	s.logger.Info().Str("file_id", fileID).Str("path", savedPath).Msg("upload saved")
	writeJSON(w, http.StatusOK, uploadResponse{
		FileID:    fileID,
		Filename:  header.Filename,
		SavedPath: savedPath,
		Message:   "Upload successful",
	})
}

type processRequest struct {
	FileID              string   `json:"file_id"`
	VideoPath           string   `json:"video_path"`
	VideoURL            string   `json:"video_url"`
	NumShorts           int      `json:"num_shorts"`
	CaptionStyle        string   `json:"caption_style"`
	ClipDuration        int      `json:"clip_duration"`
	Language            string   `json:"language"`
	ProcessingStartTime *float64 `json:"processing_start_time"`
	ProcessingEndTime   *float64 `json:"processing_end_time"`
	CustomColor         string   `json:"custom_color"`
	CustomBgColor       string   `json:"custom_bg_color"`
	CustomSize          int      `json:"custom_size"`
	WatermarkText       string   `json:"watermark_text"`
}

func (s *Server) process(w http.ResponseWriter, r *http.Request) {
	req := processRequest{
		NumShorts:    4,
		CaptionStyle: "Classic",
		ClipDuration: 60,
		Language:     "en",
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	videoPath := req.VideoPath
	if videoPath == "" && req.FileID != "" {
		videoPath = s.resolveUpload(req.FileID)
	}

	res, err := s.runner.Process(r.Context(), pipeline.Request{
		FileID:          req.FileID,
		VideoPath:       videoPath,
		VideoURL:        req.VideoURL,
		NumShorts:       req.NumShorts,
		CaptionStyle:    req.CaptionStyle,
		ClipDuration:    req.ClipDuration,
		Language:        req.Language,
		ProcessingStart: req.ProcessingStartTime,
		ProcessingEnd:   req.ProcessingEndTime,
		Overrides: types.StyleOverrides{
			TextColor: req.CustomColor,
			BgColor:   req.CustomBgColor,
			FontSize:  req.CustomSize,
		},
		WatermarkText: req.WatermarkText,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("process failed")
		switch {
		case errors.Is(err, pipeline.ErrDownloadFailed):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, pipeline.ErrSourceNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type regenerateRequest struct {
	FileID        string  `json:"file_id"`
	StartTime     float64 `json:"start_time"`
	EndTime       float64 `json:"end_time"`
	CaptionStyle  string  `json:"caption_style"`
	CustomColor   string  `json:"custom_color"`
	CustomBgColor string  `json:"custom_bg_color"`
	CustomSize    int     `json:"custom_size"`
}

func (s *Server) regenerate(w http.ResponseWriter, r *http.Request) {
	req := regenerateRequest{CaptionStyle: "Classic"}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.FileID == "" {
		writeError(w, http.StatusBadRequest, "file_id is required")
		return
	}

	res, err := s.runner.Regenerate(r.Context(), pipeline.RegenerateRequest{
		FileID:       req.FileID,
		Start:        req.StartTime,
		End:          req.EndTime,
		CaptionStyle: req.CaptionStyle,
		Overrides: types.StyleOverrides{
			TextColor: req.CustomColor,
			BgColor:   req.CustomBgColor,
			FontSize:  req.CustomSize,
		},
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("regenerate failed")
		switch {
		case errors.Is(err, transcripts.ErrNotFound), errors.Is(err, pipeline.ErrSourceNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type shareRequest struct {
	VideoPath string `json:"video_path"`
	Caption   string `json:"caption"`
}

func (s *Server) shareInstagram(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.VideoPath == "" {
		writeError(w, http.StatusBadRequest, "video_path is required")
		return
	}
	if s.publisher == nil {
		writeError(w, http.StatusServiceUnavailable, "sharing is not configured")
		return
	}
	if err := s.publisher.Publish(r.Context(), req.VideoPath, req.Caption); err != nil {
		s.logger.Error().Err(err).Msg("share failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// resolveUpload locates an uploaded file for an id, whatever
// extension the upload kept.
func (s *Server) resolveUpload(fileID string) string {
	matches, err := filepath.Glob(filepath.Join(s.uploadDir, fileID+".*"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	return matches[0]
}

func newFileID(filename string) string {
	seed := fmt.Sprintf("%s|%d", filename, time.Now().UnixNano())
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])[:12]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
