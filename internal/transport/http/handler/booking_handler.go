package handler

import (
	"github.com/gin-gonic/gin"

	"roombooking/internal/domain"
	"roombooking/internal/service"
	"roombooking/internal/transport/http/ez"
	mdw "roombooking/internal/transport/http/middleware"
	resp "roombooking/internal/transport/http/response"
)

type createBookingIn struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type BookingHandler struct {
	bookings *service.BookingService
	usage    *service.UsageService
}

func NewBookingHandler(bookings *service.BookingService, usage *service.UsageService) *BookingHandler {
	return &BookingHandler{bookings: bookings, usage: usage}
}

func (h *BookingHandler) Priority() int { return 20 }

func (h *BookingHandler) MountUser(g *gin.RouterGroup) {
	ez.GET(g, "/bookings", h.listAll)
	ez.GET(g, "/bookings/mine", h.listMine)
	ez.POST(g, "/bookings", h.create)
	ez.DELETE(g, "/bookings/:id", h.delete)
}

func (h *BookingHandler) MountOwner(g *gin.RouterGroup) {
	ez.POST(g, "/createBookings", h.create)
	ez.POST(g, "/bookings", h.create)
	ez.DELETE(g, "/deleteBookings/:id", h.delete)
	ez.DELETE(g, "/bookings/:id", h.delete)
	h.mountViews(g)
}

func (h *BookingHandler) MountAdmin(g *gin.RouterGroup) {
	ez.DELETE(g, "/deleteBookings/:id", h.delete)
	ez.DELETE(g, "/bookings/:id", h.delete)
	h.mountViews(g)
}

func (h *BookingHandler) mountViews(g *gin.RouterGroup) {
	ez.GET(g, "/bookings", h.listAll)
	ez.GET(g, "/bookingsByUser/:id", h.listByUser)
	ez.GET(g, "/bookings/grouped", h.grouped)
	ez.GET(g, "/usage-summary", h.usageSummary)
}

func (h *BookingHandler) create(c *gin.Context, in *createBookingIn) ([]domain.BookingDetail, error) {
	return h.bookings.Create(c.Request.Context(), mdw.CurrentUser(c), in.StartTime, in.EndTime)
}

func (h *BookingHandler) listAll(c *gin.Context, _ *ez.Empty) ([]domain.BookingDetail, error) {
	return h.bookings.ListAll(c.Request.Context())
}

func (h *BookingHandler) listMine(c *gin.Context, _ *ez.Empty) ([]domain.BookingDetail, error) {
	caller := mdw.CurrentUser(c)
	if caller == nil {
		return nil, domain.ErrUnknownCaller
	}
	return h.bookings.ListByUser(c.Request.Context(), caller.ID)
}

func (h *BookingHandler) listByUser(c *gin.Context, _ *ez.Empty) ([]domain.BookingDetail, error) {
	id, err := pathID(c, domain.ErrInvalidUserID)
	if err != nil {
		return nil, err
	}
	return h.bookings.ListByUser(c.Request.Context(), id)
}

func (h *BookingHandler) delete(c *gin.Context, _ *ez.Empty) (resp.MessageBody, error) {
	id, err := pathID(c, domain.ErrInvalidBookingID)
	if err != nil {
		return resp.MessageBody{}, err
	}
	if err := h.bookings.Delete(c.Request.Context(), mdw.CurrentUser(c), id); err != nil {
		return resp.MessageBody{}, err
	}
	return resp.Message("Booking deleted successfully"), nil
}

func (h *BookingHandler) grouped(c *gin.Context, _ *ez.Empty) ([]domain.UserBookings, error) {
	return h.bookings.GroupedByUser(c.Request.Context())
}

func (h *BookingHandler) usageSummary(c *gin.Context, _ *ez.Empty) ([]domain.UsageSummary, error) {
	return h.usage.Summarize(c.Request.Context())
}
