package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/madamisu/venue_backend/config"
	"github.com/madamisu/venue_backend/models"
	"github.com/madamisu/venue_backend/utils"
	"github.com/madamisu/venue_backend/workflow"
)

// canonicalStaffNames folds query-param staff spellings back to catalog
// display names, the same keying the import writes into event GM lists, so
// ソラ and そら hit the same occupancy row. Unknown names pass through raw.
func canonicalStaffNames(catalog *models.Catalog, raw []string) models.StringList {
	var staff models.StringList
	for _, name := range raw {
		if member := catalog.FindStaff(name); member != nil {
			name = member.Name
		}
		if !staff.Contains(name) {
			staff = append(staff, name)
		}
	}
	return staff
}

func createBookingRequestHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		if _, ok := requireOrganization(c); !ok {
			return
		}
		var input models.NewBookingRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		request, err := models.CreateBookingRequest(c.Request.Context(), &input)
		if err != nil {
			config.LogError(logger, "bookingHandlers", "create", "CreateBookingRequest", input.CustomerName, err)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, request)
	}
}

// bookingConflictMatrixHandler evaluates every candidate slot of one request
// against the current calendar plus other confirmed requests. The matrix is
// rebuilt from the database on every call, stale indexes are worse than the
// extra queries.
func bookingConflictMatrixHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		if _, ok := requireOrganization(c); !ok {
			return
		}
		ctx := c.Request.Context()
		booking, err := models.GetBookingRequest(ctx, c.Param("id"))
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "booking request not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		dateSet := map[string]struct{}{}
		var dates []string
		for _, cand := range booking.Candidates {
			if _, seen := dateSet[cand.Date]; seen {
				continue
			}
			dateSet[cand.Date] = struct{}{}
			dates = append(dates, cand.Date)
		}

		events, err := models.EventsForDates(ctx, dates)
		if err != nil {
			config.LogError(logger, "bookingHandlers", "conflictMatrix", "EventsForDates", dates, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		others, err := models.ConfirmedBookingsForDates(ctx, dates)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		// The request under evaluation must not conflict with itself.
		confirmed := others[:0]
		for _, o := range others {
			if o.ID != booking.ID {
				confirmed = append(confirmed, o)
			}
		}

		matrix := workflow.BuildConflictMatrix(events, confirmed)
		storeIds := []string(booking.RequestedStores)
		if len(storeIds) == 0 {
			stores, err := models.AllStores(ctx)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			for _, s := range stores {
				storeIds = append(storeIds, s.ID)
			}
		}
		var staff models.StringList
		if raw := splitAndTrim(c.Query("staff")); len(raw) > 0 {
			catalog, err := models.LoadCatalog(ctx)
			if err != nil {
				config.LogError(logger, "bookingHandlers", "conflictMatrix", "LoadCatalog", booking.ID, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			staff = canonicalStaffNames(catalog, raw)
		}

		result := matrix.CheckCandidates(booking.Candidates, storeIds, staff)
		c.JSON(http.StatusOK, gin.H{
			"booking_id": booking.ID,
			"slots":      result,
		})
	}
}
