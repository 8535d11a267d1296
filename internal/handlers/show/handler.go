package show

import (
	"net/http"

	"marquee/infras/otel"
	"marquee/internal/domains/show/model"
	"marquee/internal/domains/show/model/dto"
	"marquee/internal/domains/show/service"
	"marquee/shared/constant"
	gDto "marquee/shared/dto"
	"marquee/shared/validator"
	"marquee/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Show
	otel    otel.Otel
}

func New(service service.Show, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/shows", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateShow)
		routerGroup.Get("/", handler.GetShows)
		routerGroup.Get("/guest-counts", handler.GetGuestCounts)
		routerGroup.Get("/{id}", handler.GetShowByID)
		routerGroup.Patch("/{id}", handler.UpdateShow)
		routerGroup.Delete("/{id}", handler.DeleteShow)
		routerGroup.Patch("/{id}/closed", handler.ToggleClosed)
		routerGroup.Patch("/{id}/external-bookings", handler.AddExternalBookings)
	})
}

// CreateShow handles the creation of a new show night.
// @Summary Create a new show
// @Description Create a new show night with the provided details.
// @Tags Show
// @Accept json
// @Produce json
// @Param request body dto.CreateShowRequest true "Create Show Request"
// @Success 201 {object} response.Message "Show created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/shows [post]
// @Security BearerAuth
func (handler *Handler) CreateShow(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateShow")
	defer scope.End()

	req := dto.CreateShowRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create show")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Show created successfully")

	response.WithMessage(w, http.StatusCreated, "Show created successfully")
}

// GetShows retrieves all shows based on query parameters.
// @Summary Get all shows
// @Description Retrieve all shows with optional filtering and pagination.
// @Tags Show
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param date query string false "Filter by show date"
// @Param show_type query string false "Filter by show type"
// @Success 200 {object} response.Data[dto.GetShowsResponse] "List of shows"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/shows [get]
func (handler *Handler) GetShows(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetShows")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	date := r.URL.Query().Get(model.FieldDate)
	showType := r.URL.Query().Get(model.FieldShowType)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldDate,
				Operator: gDto.FilterOperatorEq,
				Value:    date,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldShowType,
				Operator: gDto.FilterOperatorEq,
				Value:    showType,
				Table:    model.TableName,
			},
		},
	}

	shows, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get shows")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Shows retrieved successfully")

	response.WithJSON(w, http.StatusOK, shows)
}

// GetGuestCounts reports the confirmed guest count per upcoming show.
// @Summary Get guest counts per show
// @Description Retrieve confirmed guest counts and remaining capacity for upcoming shows.
// @Tags Show
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.GuestCountsResponse] "Guest counts per show"
// @Failure 500 {object} response.Error
// @Router /v1/shows/guest-counts [get]
// @Security BearerAuth
func (handler *Handler) GetGuestCounts(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetGuestCounts")
	defer scope.End()

	counts, err := handler.service.GuestCounts(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get guest counts")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Guest counts retrieved successfully")

	response.WithJSON(w, http.StatusOK, counts)
}

// GetShowByID retrieves a show by its ID.
// @Summary Get a show by ID
// @Description Retrieve a show by its unique identifier.
// @Tags Show
// @Accept json
// @Produce json
// @Param id path string true "Show ID"
// @Success 200 {object} response.Data[dto.ShowResponse] "Show details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/shows/{id} [get]
func (handler *Handler) GetShowByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetShowByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	show, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get show by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Show retrieved successfully")

	response.WithJSON(w, http.StatusOK, show)
}

// UpdateShow updates an existing show by its ID.
// @Summary Update a show by ID
// @Description Update the details of an existing show.
// @Tags Show
// @Accept json
// @Produce json
// @Param id path string true "Show ID"
// @Param request body dto.UpdateShowRequest true "Update Show Request"
// @Success 200 {object} response.Message "Show updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/shows/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateShow(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateShow")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateShowRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update show")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Show updated successfully")

	response.WithMessage(w, http.StatusOK, "Show updated successfully")
}

// DeleteShow deletes a show by its ID.
// @Summary Delete a show by ID
// @Description Delete a show using its unique identifier.
// @Tags Show
// @Accept json
// @Produce json
// @Param id path string true "Show ID"
// @Success 200 {object} response.Message "Show deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/shows/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteShow(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteShow")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete show")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Show deleted successfully")

	response.WithMessage(w, http.StatusOK, "Show deleted successfully")
}

// ToggleClosed opens or closes a show for new bookings.
// @Summary Open or close a show for booking
// @Description Toggle whether a show accepts new bookings.
// @Tags Show
// @Accept json
// @Produce json
// @Param id path string true "Show ID"
// @Param request body dto.ToggleClosedRequest true "Toggle Closed Request"
// @Success 200 {object} response.Message "Show booking state updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/shows/{id}/closed [patch]
// @Security BearerAuth
func (handler *Handler) ToggleClosed(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ToggleClosed")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.ToggleClosedRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.ToggleClosed(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to toggle show booking state")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Show booking state updated successfully")

	response.WithMessage(w, http.StatusOK, "Show booking state updated successfully")
}

// AddExternalBookings records guests booked outside the system for a show.
// @Summary Add external bookings to a show
// @Description Record guests booked through external channels so capacity stays accurate.
// @Tags Show
// @Accept json
// @Produce json
// @Param id path string true "Show ID"
// @Param request body dto.AddExternalBookingsRequest true "Add External Bookings Request"
// @Success 200 {object} response.Message "External bookings recorded successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/shows/{id}/external-bookings [patch]
// @Security BearerAuth
func (handler *Handler) AddExternalBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddExternalBookings")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.AddExternalBookingsRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.AddExternalBookings(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add external bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("External bookings recorded successfully")

	response.WithMessage(w, http.StatusOK, "External bookings recorded successfully")
}
