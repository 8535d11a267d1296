package waitlist

import (
	"net/http"

	"marquee/infras/otel"
	"marquee/internal/domains/waitlist/model"
	"marquee/internal/domains/waitlist/model/dto"
	"marquee/internal/domains/waitlist/service"
	"marquee/shared/constant"
	gDto "marquee/shared/dto"
	"marquee/shared/validator"
	"marquee/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Waitlist
	otel    otel.Otel
}

func New(service service.Waitlist, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/waitlist", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateEntry)
		routerGroup.Get("/", handler.GetEntries)
		routerGroup.Post("/notify-next", handler.NotifyNext)
		routerGroup.Get("/{id}", handler.GetEntryByID)
		routerGroup.Patch("/{id}", handler.UpdateEntry)
		routerGroup.Delete("/{id}", handler.DeleteEntry)
		routerGroup.Post("/{id}/convert", handler.ConvertEntry)
	})
}

// CreateEntry adds a party to the waiting list for a sold-out show.
// @Summary Join the waiting list
// @Description Add a party to the waiting list for a show night.
// @Tags Waitlist
// @Accept json
// @Produce json
// @Param request body dto.CreateWaitlistRequest true "Create Waitlist Request"
// @Success 201 {object} response.Message "Waiting list entry created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/waitlist [post]
func (handler *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateEntry")
	defer scope.End()

	req := dto.CreateWaitlistRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create waiting list entry")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Waiting list entry created successfully")

	response.WithMessage(w, http.StatusCreated, "Waiting list entry created successfully")
}

// GetEntries retrieves all waiting list entries based on query parameters.
// @Summary Get all waiting list entries
// @Description Retrieve all waiting list entries with optional filtering and pagination.
// @Tags Waitlist
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param show_date query string false "Filter by show date"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Data[dto.GetWaitlistResponse] "List of waiting list entries"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/waitlist [get]
// @Security BearerAuth
func (handler *Handler) GetEntries(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEntries")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	showDate := r.URL.Query().Get(model.FieldShowDate)
	status := r.URL.Query().Get(model.FieldStatus)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldShowDate,
				Operator: gDto.FilterOperatorEq,
				Value:    showDate,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    status,
				Table:    model.TableName,
			},
		},
	}

	entries, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get waiting list entries")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Waiting list entries retrieved successfully")

	response.WithJSON(w, http.StatusOK, entries)
}

// NotifyNext offers freed spots to the next fitting entry for a show date.
// @Summary Notify the next waiting party
// @Description Offer freed capacity on a show date to the next waiting list entry that fits.
// @Tags Waitlist
// @Accept json
// @Produce json
// @Param request body dto.NotifyNextRequest true "Notify Next Request"
// @Success 200 {object} response.Message "Waiting list notification dispatched"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/waitlist/notify-next [post]
// @Security BearerAuth
func (handler *Handler) NotifyNext(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".NotifyNext")
	defer scope.End()

	req := dto.NotifyNextRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.NotifyNext(ctx, req.ShowDate); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to notify next waiting list entry")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Waiting list notification dispatched")

	response.WithMessage(w, http.StatusOK, "Waiting list notification dispatched")
}

// GetEntryByID retrieves a waiting list entry by its ID.
// @Summary Get a waiting list entry by ID
// @Description Retrieve a waiting list entry by its unique identifier.
// @Tags Waitlist
// @Accept json
// @Produce json
// @Param id path string true "Waitlist Entry ID"
// @Success 200 {object} response.Data[dto.WaitlistEntryResponse] "Waiting list entry details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/waitlist/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetEntryByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEntryByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	entry, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get waiting list entry by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Waiting list entry retrieved successfully")

	response.WithJSON(w, http.StatusOK, entry)
}

// UpdateEntry updates an existing waiting list entry by its ID.
// @Summary Update a waiting list entry by ID
// @Description Update the details of an existing waiting list entry.
// @Tags Waitlist
// @Accept json
// @Produce json
// @Param id path string true "Waitlist Entry ID"
// @Param request body dto.UpdateWaitlistRequest true "Update Waitlist Request"
// @Success 200 {object} response.Message "Waiting list entry updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/waitlist/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateEntry")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateWaitlistRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update waiting list entry")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Waiting list entry updated successfully")

	response.WithMessage(w, http.StatusOK, "Waiting list entry updated successfully")
}

// DeleteEntry deletes a waiting list entry by its ID.
// @Summary Delete a waiting list entry by ID
// @Description Delete a waiting list entry using its unique identifier.
// @Tags Waitlist
// @Accept json
// @Produce json
// @Param id path string true "Waitlist Entry ID"
// @Success 200 {object} response.Message "Waiting list entry deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/waitlist/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteEntry")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete waiting list entry")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Waiting list entry deleted successfully")

	response.WithMessage(w, http.StatusOK, "Waiting list entry deleted successfully")
}

// ConvertEntry books a waiting list entry onto its show.
// @Summary Convert a waiting list entry into a reservation
// @Description Book a waiting list entry onto its show, creating a confirmed reservation when capacity allows.
// @Tags Waitlist
// @Accept json
// @Produce json
// @Param id path string true "Waitlist Entry ID"
// @Success 200 {object} response.Data[dto.ConvertWaitlistResponse] "Waiting list entry converted successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/waitlist/{id}/convert [post]
// @Security BearerAuth
func (handler *Handler) ConvertEntry(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ConvertEntry")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	converted, err := handler.service.Convert(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to convert waiting list entry")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Waiting list entry converted successfully")

	response.WithJSON(w, http.StatusOK, converted)
}
