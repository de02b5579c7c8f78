package health

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/healthhub-app/healthhub/backend/internal/models"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// RecordStore defines the interface for health record persistence.
type RecordStore interface {
	Append(ctx context.Context, rec *models.HealthRecord) error
	ListByUser(ctx context.Context, username string) ([]models.HealthRecord, error)
}

// AdviceStore defines the interface for advice history persistence.
type AdviceStore interface {
	Insert(ctx context.Context, entry *models.AdviceEntry) (string, error)
	ListByUser(ctx context.Context, username string) ([]models.AdviceEntry, error)
}

// FileStore defines the interface for export artifact storage.
type FileStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
}

// AdviceService produces a diet suggestion for (calories, goal).
type AdviceService interface {
	Suggest(calories int, goal models.Goal) (string, error)
}

// Handler holds health-tracking HTTP handlers.
type Handler struct {
	records RecordStore
	advice  AdviceStore
	files   FileStore
	client  AdviceService
}

func NewHandler(records RecordStore, advice AdviceStore, files FileStore, client AdviceService) *Handler {
	return &Handler{records: records, advice: advice, files: files, client: client}
}

// CreateRecord appends one daily submission. Range checks live here at the
// input boundary; the store itself is a pure append.
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	username := r.Context().Value("username").(string)

	var req models.RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		http.Error(w, `{"error":"date must be YYYY-MM-DD"}`, http.StatusBadRequest)
		return
	}
	if req.Steps < 0 || req.Steps > 50000 {
		http.Error(w, `{"error":"steps must be between 0 and 50000"}`, http.StatusBadRequest)
		return
	}
	if req.WaterLiters < 0 || req.WaterLiters > 10 {
		http.Error(w, `{"error":"water_liters must be between 0 and 10"}`, http.StatusBadRequest)
		return
	}
	if req.SleepHours < 0 || req.SleepHours > 12 {
		http.Error(w, `{"error":"sleep_hours must be between 0 and 12"}`, http.StatusBadRequest)
		return
	}
	if !models.ValidMood(req.Mood) {
		http.Error(w, `{"error":"mood must be Happy, Neutral, Sad, or Anxious"}`, http.StatusBadRequest)
		return
	}
	if req.Calories < 0 || req.Calories > 6000 {
		http.Error(w, `{"error":"calories must be between 0 and 6000"}`, http.StatusBadRequest)
		return
	}

	rec := &models.HealthRecord{
		Username:    username,
		Date:        date,
		Steps:       req.Steps,
		WaterLiters: req.WaterLiters,
		SleepHours:  req.SleepHours,
		Mood:        req.Mood,
		Calories:    req.Calories,
	}
	if err := h.records.Append(r.Context(), rec); err != nil {
		slog.Error("append record failed", "username", username, "err", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

// ListRecords returns the user's records newest-first.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	username := r.Context().Value("username").(string)
	recs, err := h.records.ListByUser(r.Context(), username)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []models.HealthRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// Dashboard returns the charting view of the user's records.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	username := r.Context().Value("username").(string)
	recs, err := h.records.ListByUser(r.Context(), username)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, BuildView(recs))
}

// Export streams a CSV snapshot of the user's records and keeps a copy in
// object storage under exports/<user>/<timestamp>.csv.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	username := r.Context().Value("username").(string)
	recs, err := h.records.ListByUser(r.Context(), username)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	data, err := recordsCSV(recs)
	if err != nil {
		http.Error(w, `{"error":"export failed"}`, http.StatusInternalServerError)
		return
	}

	stamp := time.Now().UTC().Format("20060102T150405Z")
	key := fmt.Sprintf("exports/%s/%s.csv", username, stamp)
	if err := h.files.Upload(r.Context(), key, data, "text/csv"); err != nil {
		// The caller still gets the CSV; only the stored copy is lost.
		slog.Warn("export upload failed", "key", key, "err", err)
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=health-%s.csv", stamp))
	w.Write(data)
}

// DownloadExport streams a previously stored export artifact.
func (h *Handler) DownloadExport(w http.ResponseWriter, r *http.Request) {
	username := r.Context().Value("username").(string)
	stamp := chi.URLParam(r, "stamp")

	key := fmt.Sprintf("exports/%s/%s.csv", username, stamp)
	data, ct, err := h.files.Download(r.Context(), key)
	if err != nil {
		http.Error(w, `{"error":"export not available"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=health-%s.csv", stamp))
	w.Write(data)
}

// Advice asks the external advice service for a suggestion and records it.
// An upstream failure is reported inline and blocks nothing else.
func (h *Handler) Advice(w http.ResponseWriter, r *http.Request) {
	username := r.Context().Value("username").(string)

	var req models.AdviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Calories < 0 || req.Calories > 6000 {
		http.Error(w, `{"error":"calories must be between 0 and 6000"}`, http.StatusBadRequest)
		return
	}
	if !models.ValidGoal(req.Goal) {
		http.Error(w, `{"error":"goal must be Lose, Maintain, or Gain"}`, http.StatusBadRequest)
		return
	}

	advice, err := h.client.Suggest(req.Calories, req.Goal)
	if err != nil {
		slog.Warn("advice service error", "err", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error": fmt.Sprintf("Advice service unavailable: %v", err),
		})
		return
	}

	entry := &models.AdviceEntry{
		Username: username,
		Calories: req.Calories,
		Goal:     req.Goal,
		Advice:   advice,
	}
	if _, err := h.advice.Insert(r.Context(), entry); err != nil {
		slog.Error("advice insert failed", "err", err)
		http.Error(w, `{"error":"failed to save advice"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// AdviceHistory lists past suggestions newest-first.
func (h *Handler) AdviceHistory(w http.ResponseWriter, r *http.Request) {
	username := r.Context().Value("username").(string)
	entries, err := h.advice.ListByUser(r.Context(), username)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.AdviceEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// recordsCSV renders records (store order, newest-first) as CSV.
func recordsCSV(recs []models.HealthRecord) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write([]string{"date", "steps", "water_liters", "sleep_hours", "mood", "calories"}); err != nil {
		return nil, err
	}
	for _, rec := range recs {
		row := []string{
			rec.Date.Format(dateLayout),
			strconv.Itoa(rec.Steps),
			strconv.FormatFloat(rec.WaterLiters, 'f', -1, 64),
			strconv.FormatFloat(rec.SleepHours, 'f', -1, 64),
			string(rec.Mood),
			strconv.Itoa(rec.Calories),
		}
		if err := cw.Write(row); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	return buf.Bytes(), cw.Error()
}
