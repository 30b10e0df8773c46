package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kirinyoku/seatspot-go/internal/domain"
	redisrepo "github.com/kirinyoku/seatspot-go/internal/repository/redis"
	"github.com/kirinyoku/seatspot-go/internal/service"
	"github.com/kirinyoku/seatspot-go/internal/service/admin"
	"github.com/kirinyoku/seatspot-go/internal/service/query"
	"github.com/kirinyoku/seatspot-go/internal/service/reservation"
	"github.com/kirinyoku/seatspot-go/internal/service/waitlist"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public API
	r.GET("/seats", handleSeatGrid(svcs))
	r.GET("/seats/:id/availability", handleCheckAvailability(svcs))
	r.GET("/seats/:id/next-available", handleNextAvailable(svcs))
	r.GET("/seats/:id/waitlist/count", handleWaitlistCount(svcs))
	r.POST("/seats/:id/waitlist", handleEnqueueWaitlist(svcs))

	r.POST("/reservations", handleCreateReservation(svcs, idem))
	r.GET("/reservations/:id", handleGetReservation(svcs))
	r.POST("/reservations/:id/cancel", handleCancelReservation(svcs))

	r.GET("/users/:id/reservations", handleListUserReservations(svcs))

	// Admin API
	// TODO: add admin middleware
	adm := r.Group("/admin")
	{
		adm.POST("/seats", handleProvisionSeats(svcs))
		adm.POST("/seats/resync", handleResyncSeatStatuses(svcs))
		adm.POST("/reservations/:id/payment", handleConfirmPayment(svcs))
		adm.POST("/reservations/:id/reject", handleRejectReservation(svcs))
		adm.DELETE("/waitlist/:id", handleDequeueWaitlist(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Seat grid for today
// @Success  200  {array}   domain.SeatGridStatus
// @Router   /seats [get]
func handleSeatGrid(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		grid, err := svcs.Query.Grid(c.Request.Context(), time.Now())
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 15s
		writeJSONWithCache(c, http.StatusOK, grid, "public, max-age=15", true)
	}
}

// @Summary  Check one seat for a window and slot
// @Param    id        path   int     true  "Seat ID"
// @Param    starts_at query  string  true  "RFC3339 window start"
// @Param    ends_at   query  string  true  "RFC3339 window end"
// @Param    slot      query  string  true  "day|night|full"
// @Success  200  {object}  AvailabilityResponse
// @Failure  400  {object}  ErrorResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /seats/{id}/availability [get]
func handleCheckAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		seatID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		starts, err := parseRFC3339(c.Query("starts_at"))
		if err != nil {
			badRequest(c, "invalid starts_at (RFC3339)")
			return
		}
		ends, err := parseRFC3339(c.Query("ends_at"))
		if err != nil {
			badRequest(c, "invalid ends_at (RFC3339)")
			return
		}

		verdict, err := svcs.Query.CheckSeat(
			c.Request.Context(),
			seatID,
			domain.Interval{Start: starts, End: ends},
			domain.Slot(c.Query("slot")),
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		resp := AvailabilityResponse{Available: verdict.Available}
		if verdict.Conflicting != nil {
			end := verdict.Conflicting.LastOccupiedDate().Format(dateLayout)
			resp.ConflictingEnd = &end
			name := verdict.Conflicting.UserName
			resp.OccupantName = &name
		}
		c.JSON(http.StatusOK, resp)
	}
}

// @Summary  Next available date for a membership
// @Param    id      path   int     true  "Seat ID"
// @Param    months  query  int     true  "requested duration, 1-12"
// @Param    slot    query  string  true  "day|night|full"
// @Success  200  {object}  NextAvailableResponse
// @Failure  400  {object}  ErrorResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /seats/{id}/next-available [get]
func handleNextAvailable(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		seatID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		months := parseIntDefault(c.Query("months"), 0)

		next, err := svcs.Query.NextAvailable(
			c.Request.Context(),
			seatID,
			months,
			domain.Slot(c.Query("slot")),
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		resp := NextAvailableResponse{AvailableNow: next.AvailableNow}
		if next.NextDate != nil {
			d := next.NextDate.Format(dateLayout)
			resp.NextAvailableDate = &d
		}
		if next.ConflictEnd != nil {
			d := next.ConflictEnd.Format(dateLayout)
			resp.ConflictingEnd = &d
		}
		c.JSON(http.StatusOK, resp)
	}
}

// @Summary  Create reservation (idempotent)
// @Param    req body  CreateReservationRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} CreateReservationResponse
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ConflictResponse "seat unavailable / idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /reservations [post]
func handleCreateReservation(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateReservationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		res, err := reservationFromRequest(req)
		if err != nil {
			badRequest(c, err.Error())
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemReservation(idemKey)

			if payload, ok, _ := idem.GetResult(
				c.Request.Context(),
				idemStorageKey,
			); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(
					http.StatusCreated,
					"application/json; charset=utf-8",
					[]byte(payload),
				)
				return
			}

			locked, err := idem.AcquireLock(
				c.Request.Context(),
				idemStorageKey,
				60*time.Second,
			)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(
					c.Request.Context(),
					idemStorageKey,
				); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(
						http.StatusCreated,
						"application/json; charset=utf-8",
						[]byte(payload),
					)
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(
					http.StatusConflict,
					ErrorResponse{Error: "idempotency key in progress"},
				)
				return
			}
		}

		rlKey := "ip:" + c.ClientIP()

		id, conflicting, err := svcs.Reservation.Create(c.Request.Context(), res, rlKey)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			if isRateLimitedErr(err) {
				c.Header("Retry-After", "60")
				c.JSON(
					http.StatusTooManyRequests,
					ErrorResponse{Error: err.Error()},
				)
				return
			}
			if errors.Is(err, reservation.ErrSeatUnavailable) && conflicting != nil {
				end := conflicting.LastOccupiedDate()
				c.JSON(http.StatusConflict, ConflictResponse{
					Error:             "seat unavailable",
					ConflictingEnd:    end.Format(dateLayout),
					NextAvailableDate: end.AddDate(0, 0, 1).Format(dateLayout),
				})
				return
			}
			respondErr(c, err)
			return
		}

		resp := CreateReservationResponse{ReservationID: id.String()}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// @Summary  Get reservation
// @Param    id  path  string  true  "Reservation ID (uuid)"
// @Success  200 {object} ReservationResponse
// @Failure  404 {object} ErrorResponse
// @Router   /reservations/{id} [get]
func handleGetReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		res, err := svcs.Query.GetReservation(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toReservationResponse(*res))
	}
}

// @Summary  Cancel reservation
// @Param    id  path  string  true  "Reservation ID (uuid)"
// @Success  200 {object} map[string]string
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse
// @Router   /reservations/{id}/cancel [post]
func handleCancelReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		if err := svcs.Reservation.Cancel(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
	}
}

// @Summary  List a user's reservations
// @Param    id  path  int  true  "User ID"
// @Success  200 {array} ReservationResponse
// @Router   /users/{id}/reservations [get]
func handleListUserReservations(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		list, err := svcs.Query.ListUserReservations(c.Request.Context(), userID)
		if err != nil {
			respondErr(c, err)
			return
		}
		out := make([]ReservationResponse, 0, len(list))
		for _, r := range list {
			out = append(out, toReservationResponse(r))
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Waitlist count for a seat
// @Param    id  path  int  true  "Seat ID"
// @Success  200 {object} WaitlistCountResponse
// @Failure  404 {object} ErrorResponse
// @Router   /seats/{id}/waitlist/count [get]
func handleWaitlistCount(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		seatID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		n, err := svcs.Waitlist.CountForSeat(c.Request.Context(), seatID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, WaitlistCountResponse{SeatID: seatID, Count: n})
	}
}

// @Summary  Join waitlist for a seat
// @Param    id   path  int  true  "Seat ID"
// @Param    req  body  EnqueueWaitlistRequest true "payload"
// @Success  201 {object} EnqueueWaitlistResponse
// @Failure  400 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Router   /seats/{id}/waitlist [post]
func handleEnqueueWaitlist(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		seatID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req EnqueueWaitlistRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		entryID, err := svcs.Waitlist.Enqueue(
			c.Request.Context(),
			seatID,
			req.UserID,
			domain.Slot(req.Slot),
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, EnqueueWaitlistResponse{EntryID: entryID.String()})
	}
}

// @Summary  Remove waitlist entry
// @Param    id  path  string  true  "Entry ID (uuid)"
// @Success  200 {object} map[string]string
// @Failure  404 {object} ErrorResponse
// @Router   /admin/waitlist/{id} [delete]
func handleDequeueWaitlist(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		if err := svcs.Waitlist.Dequeue(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "removed"})
	}
}

// @Summary  Provision seats
// @Param    req body  ProvisionSeatsRequest true "payload"
// @Success  201 {object} map[string]int
// @Router   /admin/seats [post]
func handleProvisionSeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProvisionSeatsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := svcs.Admin.ProvisionSeats(c.Request.Context(), req.Numbers); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"created": len(req.Numbers)})
	}
}

// @Summary  Resync the seats-status read model
// @Success  200 {object} ResyncResponse
// @Router   /admin/seats/resync [post]
func handleResyncSeatStatuses(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := svcs.Admin.ResyncSeatStatuses(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, ResyncResponse{SeatsWritten: n})
	}
}

// @Summary  Approve payment
// @Param    id  path  string  true  "Reservation ID (uuid)"
// @Success  200 {object} map[string]string
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse
// @Router   /admin/reservations/{id}/payment [post]
func handleConfirmPayment(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		if err := svcs.Reservation.ConfirmPayment(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "confirmed"})
	}
}

// @Summary  Reject reservation
// @Param    id  path  string  true  "Reservation ID (uuid)"
// @Success  200 {object} map[string]string
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse
// @Router   /admin/reservations/{id}/reject [post]
func handleRejectReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		if err := svcs.Reservation.Reject(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "rejected"})
	}
}

// --- Helpers ---

func reservationFromRequest(req CreateReservationRequest) (domain.Reservation, error) {
	res := domain.Reservation{
		UserID:   req.UserID,
		UserName: req.UserName,
		SeatID:   req.SeatID,
		Category: domain.Category(req.Category),
		Kind:     domain.Kind(req.Kind),
		Slot:     domain.Slot(req.Slot),
	}

	switch res.Kind {
	case domain.KindMembership:
		if err := domain.ValidateMonths(req.Months); err != nil {
			return domain.Reservation{}, err
		}
		start, err := parseDate(req.StartDate)
		if err != nil {
			return domain.Reservation{}, errors.New("invalid start_date (YYYY-MM-DD)")
		}
		res.StartsAt = start
		res.EndsAt = start.AddDate(0, req.Months, 0)
	default:
		starts, err := parseRFC3339(req.StartsAt)
		if err != nil {
			return domain.Reservation{}, errors.New("invalid starts_at (RFC3339)")
		}
		ends, err := parseRFC3339(req.EndsAt)
		if err != nil {
			return domain.Reservation{}, errors.New("invalid ends_at (RFC3339)")
		}
		res.StartsAt = starts
		res.EndsAt = ends
	}

	return res, nil
}

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	v, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return v, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func isRateLimitedErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "rate limited")
}

func isValidationErr(err error) bool {
	return errors.Is(err, domain.ErrInvalidInterval) ||
		errors.Is(err, domain.ErrInvalidDuration) ||
		errors.Is(err, domain.ErrUnknownSlot) ||
		errors.Is(err, domain.ErrUnknownCategory) ||
		errors.Is(err, domain.ErrUnknownKind) ||
		errors.Is(err, domain.ErrFloatingWithSeat) ||
		errors.Is(err, domain.ErrFixedWithoutSeat)
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// domain validation
	case isValidationErr(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	// admin service
	case errors.Is(err, admin.ErrNoSeats):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no seat numbers provided"})
		return
	// query service
	case errors.Is(err, query.ErrSeatNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "seat not found"})
		return
	case errors.Is(err, query.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "reservation not found"})
		return
	// reservation service
	case errors.Is(err, reservation.ErrSeatNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "seat not found"})
		return
	case errors.Is(err, reservation.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "reservation not found"})
		return
	case errors.Is(err, reservation.ErrSeatUnavailable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "seat unavailable"})
		return
	case errors.Is(err, reservation.ErrReservationConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "reservation conflict"})
		return
	case errors.Is(err, reservation.ErrInvalidTransition):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "invalid status transition"})
		return
	// waitlist service
	case errors.Is(err, waitlist.ErrSeatNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "seat not found"})
		return
	case errors.Is(err, waitlist.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "waitlist entry not found"})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
