package poster

import (
	"net/http"

	"marquee/infras/otel"
	"marquee/internal/domains/poster/model"
	"marquee/internal/domains/poster/model/dto"
	"marquee/internal/domains/poster/service"
	"marquee/shared/constant"
	gDto "marquee/shared/dto"
	"marquee/shared/validator"
	"marquee/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Poster
	otel    otel.Otel
}

func New(service service.Poster, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/posters", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.UploadPoster)
		routerGroup.Get("/", handler.GetPosters)
		routerGroup.Get("/{id}", handler.GetPosterByID)
		routerGroup.Patch("/{id}", handler.UpdatePoster)
		routerGroup.Delete("/{id}", handler.DeletePoster)
	})
}

// UploadPoster uploads a new show poster image.
// @Summary Upload a new poster
// @Description Upload a base64-encoded poster image and store it with its metadata.
// @Tags Poster
// @Accept json
// @Produce json
// @Param request body dto.UploadPosterRequest true "Upload Poster Request"
// @Success 201 {object} response.Data[dto.PosterResponse] "Poster uploaded successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/posters [post]
// @Security BearerAuth
func (handler *Handler) UploadPoster(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadPoster")
	defer scope.End()

	req := dto.UploadPosterRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	poster, err := handler.service.Upload(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload poster")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Poster uploaded successfully")

	response.WithJSON(w, http.StatusCreated, poster)
}

// GetPosters retrieves all posters based on query parameters.
// @Summary Get all posters
// @Description Retrieve all posters with optional filtering and pagination.
// @Tags Poster
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param show_date query string false "Filter by show date"
// @Success 200 {object} response.Data[dto.GetPostersResponse] "List of posters"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/posters [get]
func (handler *Handler) GetPosters(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPosters")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	showDate := r.URL.Query().Get(model.FieldShowDate)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldShowDate,
				Operator: gDto.FilterOperatorEq,
				Value:    showDate,
				Table:    model.TableName,
			},
		},
	}

	posters, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get posters")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Posters retrieved successfully")

	response.WithJSON(w, http.StatusOK, posters)
}

// GetPosterByID retrieves a poster by its ID.
// @Summary Get a poster by ID
// @Description Retrieve a poster by its unique identifier.
// @Tags Poster
// @Accept json
// @Produce json
// @Param id path string true "Poster ID"
// @Success 200 {object} response.Data[dto.PosterResponse] "Poster details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/posters/{id} [get]
func (handler *Handler) GetPosterByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPosterByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	poster, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get poster by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Poster retrieved successfully")

	response.WithJSON(w, http.StatusOK, poster)
}

// UpdatePoster updates an existing poster by its ID.
// @Summary Update a poster by ID
// @Description Update the title or show date of an existing poster.
// @Tags Poster
// @Accept json
// @Produce json
// @Param id path string true "Poster ID"
// @Param request body dto.UpdatePosterRequest true "Update Poster Request"
// @Success 200 {object} response.Message "Poster updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/posters/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdatePoster(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdatePoster")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdatePosterRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update poster")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Poster updated successfully")

	response.WithMessage(w, http.StatusOK, "Poster updated successfully")
}

// DeletePoster deletes a poster by its ID.
// @Summary Delete a poster by ID
// @Description Delete a poster and its stored image using its unique identifier.
// @Tags Poster
// @Accept json
// @Produce json
// @Param id path string true "Poster ID"
// @Success 200 {object} response.Message "Poster deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/posters/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeletePoster(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeletePoster")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete poster")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Poster deleted successfully")

	response.WithMessage(w, http.StatusOK, "Poster deleted successfully")
}
