package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/fpl-pulse/internal/platform/logging"
	"github.com/riskibarqy/fpl-pulse/internal/usecase"
)

type Handler struct {
	awardsService *usecase.LeagueAwardsService
	pulseService  *usecase.PulseService
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(
	awardsService *usecase.LeagueAwardsService,
	pulseService *usecase.PulseService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		awardsService: awardsService,
		pulseService:  pulseService,
		logger:        logger,
		validator:     validator.New(),
	}
}

type leagueAwardsRequest struct {
	LeagueID int    `validate:"gt=0"`
	Entry    int    `validate:"gte=0"`
	Source   string `validate:"omitempty,oneof=bulk incremental"`
}

type entryPulseRequest struct {
	EntryID int `validate:"gt=0"`
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetLeagueAwards(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueAwards")
	defer span.End()

	req, err := h.parseLeagueAwardsRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	span.SetAttributes(attrLeagueID.Int(req.LeagueID), attrEntryID.Int(req.Entry), attrSource.String(req.Source))

	result, err := h.awardsService.Compute(ctx, usecase.LeagueAwardsInput{
		LeagueID:   req.LeagueID,
		FocusEntry: req.Entry,
		Source:     req.Source,
	})
	if err != nil {
		failSpan(ctx, span, err)
		h.logFailure(ctx, "compute league awards failed", err, "league_id", req.LeagueID, "entry_id", req.Entry)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueAwardsToDTO(result))
}

func (h *Handler) GetEntryPulse(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEntryPulse")
	defer span.End()

	entryID, err := parseIDParam("entryID", r.PathValue("entryID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	req := entryPulseRequest{EntryID: entryID}
	if err := h.validateRequest(ctx, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	span.SetAttributes(attrEntryID.Int(req.EntryID))

	result, err := h.pulseService.Generate(ctx, req.EntryID)
	if err != nil {
		failSpan(ctx, span, err)
		h.logFailure(ctx, "generate pulse failed", err, "entry_id", req.EntryID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pulseToDTO(result))
}

func (h *Handler) parseLeagueAwardsRequest(ctx context.Context, r *http.Request) (leagueAwardsRequest, error) {
	leagueID, err := parseIDParam("leagueID", r.PathValue("leagueID"))
	if err != nil {
		return leagueAwardsRequest{}, err
	}

	query := r.URL.Query()
	req := leagueAwardsRequest{
		LeagueID: leagueID,
		Source:   strings.ToLower(strings.TrimSpace(query.Get("source"))),
	}
	if raw := strings.TrimSpace(query.Get("entry")); raw != "" {
		if req.Entry, err = parseIDParam("entry", raw); err != nil {
			return leagueAwardsRequest{}, err
		}
	}

	if err := h.validateRequest(ctx, &req); err != nil {
		return leagueAwardsRequest{}, err
	}
	return req, nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// logFailure keeps client errors at warn and drops cancellations.
func (h *Handler) logFailure(ctx context.Context, msg string, err error, args ...any) {
	if ctx.Err() != nil {
		return
	}
	args = append(args, "error", err)
	if mapError(ctx, err).HTTPStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, args...)
		return
	}
	h.logger.WarnContext(ctx, msg, args...)
}

func parseIDParam(name, raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return value, nil
}
