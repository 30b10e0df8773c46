package httpgin

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/seatspot-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationFromRequest_Adhoc(t *testing.T) {
	seat := int64(3)
	req := CreateReservationRequest{
		UserID:   7,
		UserName: "Asha",
		SeatID:   &seat,
		Category: "fixed",
		Kind:     "adhoc",
		Slot:     "day",
		StartsAt: "2025-01-01T09:00:00Z",
		EndsAt:   "2025-01-01T17:00:00Z",
	}

	res, err := reservationFromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, domain.KindAdhoc, res.Kind)
	assert.Equal(t, time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC), res.StartsAt.UTC())
	assert.Equal(t, time.Date(2025, 1, 1, 17, 0, 0, 0, time.UTC), res.EndsAt.UTC())
}

func TestReservationFromRequest_Membership(t *testing.T) {
	seat := int64(3)
	req := CreateReservationRequest{
		UserID:    7,
		UserName:  "Asha",
		SeatID:    &seat,
		Category:  "fixed",
		Kind:      "membership",
		Slot:      "full",
		StartDate: "2025-01-01",
		Months:    1,
	}

	res, err := reservationFromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), res.StartsAt)
	// one month: EndsAt is midnight after the last occupied day (Jan 31)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), res.EndsAt)
}

func TestReservationFromRequest_Invalid(t *testing.T) {
	t.Run("months out of range", func(t *testing.T) {
		req := CreateReservationRequest{
			Kind:      "membership",
			StartDate: "2025-01-01",
			Months:    0,
		}
		_, err := reservationFromRequest(req)
		assert.ErrorIs(t, err, domain.ErrInvalidDuration)
	})

	t.Run("bad start date", func(t *testing.T) {
		req := CreateReservationRequest{
			Kind:      "membership",
			StartDate: "01/01/2025",
			Months:    1,
		}
		_, err := reservationFromRequest(req)
		assert.Error(t, err)
	})

	t.Run("bad adhoc window", func(t *testing.T) {
		req := CreateReservationRequest{
			Kind:     "adhoc",
			StartsAt: "2025-01-01",
			EndsAt:   "2025-01-01T17:00:00Z",
		}
		_, err := reservationFromRequest(req)
		assert.Error(t, err)
	})
}

func TestToReservationResponse_MembershipDates(t *testing.T) {
	seat := int64(5)
	r := domain.Reservation{
		SeatID:   &seat,
		Kind:     domain.KindMembership,
		Category: domain.CategoryFixed,
		Slot:     domain.SlotDay,
		StartsAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	out := toReservationResponse(r)
	require.NotNil(t, out.StartDate)
	require.NotNil(t, out.EndDate)
	assert.Equal(t, "2025-01-01", *out.StartDate)
	assert.Equal(t, "2025-01-31", *out.EndDate)
}

func TestToReservationResponse_AdhocNoDates(t *testing.T) {
	out := toReservationResponse(domain.Reservation{Kind: domain.KindAdhoc})
	assert.Nil(t, out.StartDate)
	assert.Nil(t, out.EndDate)
}

func TestWriteJSONWithCache(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := func(c *gin.Context) {
		writeJSONWithCache(c, http.StatusOK, gin.H{"ok": true}, "public, max-age=15", true)
	}

	r := gin.New()
	r.GET("/", handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Equal(t, "public, max-age=15", w.Header().Get("Cache-Control"))

	// a matching If-None-Match short-circuits to 304
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.Header.Set("If-None-Match", etag)
	r.ServeHTTP(w2, req2)

	assert.Equal(t, http.StatusNotModified, w2.Code)
	assert.Empty(t, w2.Body.String())
}
