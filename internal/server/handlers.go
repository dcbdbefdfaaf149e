package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vanshika/campusmap/internal/domain"
	"github.com/vanshika/campusmap/internal/routing"
	"github.com/vanshika/campusmap/internal/service"
)

// Error codes returned alongside the message in error payloads.
const (
	codeBadRequest      = "bad_request"
	codeNotReady        = "not_ready"
	codeUnknownBuilding = "unknown_building"
	codeUnknownRoom     = "unknown_room"
	codeNoAnchors       = "no_anchors"
	codeNoPath          = "no_path"
	codeInternal        = "internal"
)

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.CampusService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.CampusService) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
	}
}

func (h *APIHandlers) handleBuildings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	buildingID := strings.TrimPrefix(r.URL.Path, "/api/v1/buildings")
	buildingID = strings.Trim(buildingID, "/")
	if buildingID != "" {
		h.getBuilding(w, r, buildingID)
		return
	}

	buildings, err := h.service.Buildings(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "failed to list buildings")
		return
	}
	response := listBuildingsResponse{Items: make([]buildingResponse, 0, len(buildings))}
	for _, b := range buildings {
		response.Items = append(response.Items, toBuildingResponse(b))
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *APIHandlers) getBuilding(w http.ResponseWriter, r *http.Request, buildingID string) {
	detail, err := h.service.Building(r.Context(), buildingID)
	if err != nil {
		h.writeServiceError(w, err, "failed to fetch building")
		return
	}
	respondJSON(w, http.StatusOK, buildingDetailResponse{
		Building: toBuildingResponse(detail.Building),
		Rooms:    detail.Rooms,
		CRs:      detail.CRs,
	})
}

func (h *APIHandlers) handleRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	rooms, err := h.service.Rooms(r.Context(), r.URL.Query().Get("parent"))
	if err != nil {
		h.writeServiceError(w, err, "failed to list rooms")
		return
	}
	respondJSON(w, http.StatusOK, listRoomsResponse{Items: rooms})
}

func (h *APIHandlers) handleSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	tag := strings.TrimPrefix(r.URL.Path, "/api/v1/schedules/")
	tag = strings.Trim(tag, "/")
	if tag == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "room tag is required")
		return
	}

	slots, err := h.service.Schedule(r.Context(), tag)
	if err != nil {
		h.writeServiceError(w, err, "failed to fetch schedule")
		return
	}
	response := scheduleResponse{Tag: tag, Slots: make([]scheduleSlotResponse, 0, len(slots))}
	for _, s := range slots {
		response.Slots = append(response.Slots, scheduleSlotResponse{
			Day:        s.Day,
			Start:      s.Start,
			End:        s.End,
			StartLabel: formatTimeTo12Hour(s.Start),
			EndLabel:   formatTimeTo12Hour(s.End),
			Subject:    s.Subject,
			Section:    s.Section,
			Teacher:    s.Teacher,
		})
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *APIHandlers) handleRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	query := r.URL.Query()
	from := strings.TrimSpace(query.Get("from"))
	to := strings.TrimSpace(query.Get("to"))
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "from and to are required")
		return
	}

	route, err := h.service.Route(r.Context(), from, to)
	if err != nil {
		h.writeServiceError(w, err, "failed to compute route")
		return
	}
	respondJSON(w, http.StatusOK, route)
}

func (h *APIHandlers) handleMap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	view, err := h.service.MapView(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "failed to build map view")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *APIHandlers) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "failed to compute stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// writeServiceError maps service and routing errors to a status code.
// Unexpected errors are logged and reported with fallback.
func (h *APIHandlers) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNotReady):
		writeError(w, http.StatusServiceUnavailable, codeNotReady, err.Error())
	case errors.Is(err, service.ErrMissingBuilding):
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
	case errors.Is(err, service.ErrUnknownBuilding):
		writeError(w, http.StatusNotFound, codeUnknownBuilding, err.Error())
	case errors.Is(err, service.ErrUnknownRoom):
		writeError(w, http.StatusNotFound, codeUnknownRoom, err.Error())
	case errors.Is(err, routing.ErrNoAnchors):
		writeError(w, http.StatusUnprocessableEntity, codeNoAnchors, err.Error())
	case errors.Is(err, routing.ErrNoPath):
		writeError(w, http.StatusUnprocessableEntity, codeNoPath, err.Error())
	default:
		h.logger.Error(fallback, "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, fallback)
	}
}

type buildingResponse struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	X    float64  `json:"x"`
	Y    float64  `json:"y"`
	W    *float64 `json:"w,omitempty"`
	H    *float64 `json:"h,omitempty"`
	Img  string   `json:"img,omitempty"`
}

type listBuildingsResponse struct {
	Items []buildingResponse `json:"items"`
}

type buildingDetailResponse struct {
	Building buildingResponse `json:"building"`
	Rooms    []domain.Room    `json:"rooms"`
	CRs      []domain.Room    `json:"crs"`
}

type listRoomsResponse struct {
	Items []domain.Room `json:"items"`
}

type scheduleResponse struct {
	Tag   string                 `json:"tag"`
	Slots []scheduleSlotResponse `json:"slots"`
}

type scheduleSlotResponse struct {
	Day        string `json:"day"`
	Start      string `json:"start"`
	End        string `json:"end"`
	StartLabel string `json:"startLabel"`
	EndLabel   string `json:"endLabel"`
	Subject    string `json:"subject"`
	Section    string `json:"section"`
	Teacher    string `json:"teacher"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func toBuildingResponse(b domain.Building) buildingResponse {
	return buildingResponse{
		ID:   b.ID,
		Name: b.DisplayName(),
		X:    b.X,
		Y:    b.Y,
		W:    b.W,
		H:    b.H,
		Img:  b.Img,
	}
}

// formatTimeTo12Hour renders a 24-hour "15:04" time as "3:04 PM". Values in
// any other layout are returned unchanged.
func formatTimeTo12Hour(value string) string {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return value
	}
	return t.Format("3:04 PM")
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	respondJSON(w, status, errorResponse{
		Error: msg,
		Code:  code,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "", "method not allowed")
}
