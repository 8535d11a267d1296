package voucher

import (
	"net/http"

	"marquee/infras/otel"
	"marquee/internal/domains/voucher/model"
	"marquee/internal/domains/voucher/model/dto"
	"marquee/internal/domains/voucher/service"
	"marquee/shared/constant"
	gDto "marquee/shared/dto"
	"marquee/shared/validator"
	"marquee/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Voucher
	otel    otel.Otel
}

func New(service service.Voucher, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/vouchers", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.IssueVoucher)
		routerGroup.Get("/", handler.GetVouchers)
		routerGroup.Get("/{id}", handler.GetVoucherByID)
		routerGroup.Patch("/{id}", handler.UpdateVoucher)
		routerGroup.Post("/{id}/extend", handler.ExtendVoucher)
		routerGroup.Post("/{id}/archive", handler.ArchiveVoucher)
	})
}

// IssueVoucher issues a new gift voucher.
// @Summary Issue a new voucher
// @Description Issue a gift voucher with a generated code and expiry date.
// @Tags Voucher
// @Accept json
// @Produce json
// @Param request body dto.IssueVoucherRequest true "Issue Voucher Request"
// @Success 201 {object} response.Data[dto.VoucherResponse] "Voucher issued successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vouchers [post]
// @Security BearerAuth
func (handler *Handler) IssueVoucher(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".IssueVoucher")
	defer scope.End()

	req := dto.IssueVoucherRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	voucher, err := handler.service.Issue(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to issue voucher")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Voucher issued successfully")

	response.WithJSON(w, http.StatusCreated, voucher)
}

// GetVouchers retrieves all vouchers based on query parameters.
// @Summary Get all vouchers
// @Description Retrieve all vouchers with optional filtering and pagination.
// @Tags Voucher
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param code query string false "Filter by code"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Data[dto.GetVouchersResponse] "List of vouchers"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vouchers [get]
// @Security BearerAuth
func (handler *Handler) GetVouchers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVouchers")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	code := r.URL.Query().Get(model.FieldCode)
	status := r.URL.Query().Get(model.FieldStatus)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCode,
				Operator: gDto.FilterOperatorEq,
				Value:    code,
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

	vouchers, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get vouchers")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Vouchers retrieved successfully")

	response.WithJSON(w, http.StatusOK, vouchers)
}

// GetVoucherByID retrieves a voucher by its ID.
// @Summary Get a voucher by ID
// @Description Retrieve a voucher by its unique identifier.
// @Tags Voucher
// @Accept json
// @Produce json
// @Param id path string true "Voucher ID"
// @Success 200 {object} response.Data[dto.VoucherResponse] "Voucher details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vouchers/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetVoucherByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVoucherByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	voucher, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get voucher by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Voucher retrieved successfully")

	response.WithJSON(w, http.StatusOK, voucher)
}

// UpdateVoucher updates an existing voucher by its ID.
// @Summary Update a voucher by ID
// @Description Update the notes of an existing voucher.
// @Tags Voucher
// @Accept json
// @Produce json
// @Param id path string true "Voucher ID"
// @Param request body dto.UpdateVoucherRequest true "Update Voucher Request"
// @Success 200 {object} response.Message "Voucher updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vouchers/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateVoucher(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateVoucher")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateVoucherRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update voucher")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Voucher updated successfully")

	response.WithMessage(w, http.StatusOK, "Voucher updated successfully")
}

// ExtendVoucher pushes a voucher's expiry date out.
// @Summary Extend a voucher
// @Description Extend a voucher's expiry date by the requested number of months.
// @Tags Voucher
// @Accept json
// @Produce json
// @Param id path string true "Voucher ID"
// @Param request body dto.ExtendVoucherRequest true "Extend Voucher Request"
// @Success 200 {object} response.Message "Voucher extended successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vouchers/{id}/extend [post]
// @Security BearerAuth
func (handler *Handler) ExtendVoucher(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExtendVoucher")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.ExtendVoucherRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Extend(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to extend voucher")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Voucher extended successfully")

	response.WithMessage(w, http.StatusOK, "Voucher extended successfully")
}

// ArchiveVoucher takes a voucher out of circulation.
// @Summary Archive a voucher
// @Description Archive a voucher with a reason, removing it from circulation.
// @Tags Voucher
// @Accept json
// @Produce json
// @Param id path string true "Voucher ID"
// @Param request body dto.ArchiveVoucherRequest true "Archive Voucher Request"
// @Success 200 {object} response.Message "Voucher archived successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vouchers/{id}/archive [post]
// @Security BearerAuth
func (handler *Handler) ArchiveVoucher(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ArchiveVoucher")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.ArchiveVoucherRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Archive(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to archive voucher")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Voucher archived successfully")

	response.WithMessage(w, http.StatusOK, "Voucher archived successfully")
}
