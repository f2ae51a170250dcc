package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/madamisu/venue_backend/config"
	"github.com/madamisu/venue_backend/models"
	"github.com/madamisu/venue_backend/workflow"
)

type importRequest struct {
	RawText         string `json:"raw_text" binding:"required"`
	ContextYear     int    `json:"context_year"`
	ReplaceExisting bool   `json:"replace_existing"`
	// ConfirmReplace must be set to run a replace-mode execute. Preview
	// ignores it.
	ConfirmReplace bool `json:"confirm_replace"`
}

type planActionView struct {
	Kind     string `json:"kind"`
	Date     string `json:"date,omitempty"`
	Venue    string `json:"venue,omitempty"`
	TimeSlot string `json:"time_slot,omitempty"`
	Scenario string `json:"scenario,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Body     string `json:"body,omitempty"`
}

type previewResponse struct {
	Inserts       int              `json:"inserts"`
	Updates       int              `json:"updates"`
	Skips         int              `json:"skips"`
	Memos         int              `json:"memos"`
	Deletions     int              `json:"deletions"`
	Reservations  int64            `json:"reservations_at_risk"`
	Months        []string         `json:"months"`
	Warnings      []string         `json:"warnings"`
	Actions       []planActionView `json:"actions"`
}

// buildPlan runs parse + reconcile for one import request. The persisted
// window is derived from the months the drafts actually touch.
func buildPlan(ctx context.Context, req importRequest) (*workflow.ReconciliationPlan, error) {
	cfg, err := config.GetImportConfig()
	if err != nil {
		return nil, err
	}
	catalog, err := models.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	resolver := workflow.NewEntityResolver(catalog, workflow.ResolverConfig{
		ScenarioAliases: cfg.ScenarioAliases,
		StaffAliases:    cfg.StaffAliases,
	})

	year := req.ContextYear
	if year == 0 {
		year = time.Now().Year()
	}
	parsed := workflow.ParseAndResolve(req.RawText, year, cfg.VenueMap(), resolver)
	if config.StrictUnresolvedScenarios() {
		parsed = workflow.DropUnresolvedScenarios(parsed)
	}

	var persisted []models.ScheduleEvent
	var memos []models.DayMemo
	if from, to, ok := monthsBounds(parsed); ok {
		events, err := models.EventsForDateRange(ctx, from, to)
		if err != nil {
			return nil, err
		}
		for _, e := range events {
			persisted = append(persisted, *e)
		}
		rows, err := models.MemosForDateRange(ctx, from, to)
		if err != nil {
			return nil, err
		}
		for _, m := range rows {
			memos = append(memos, *m)
		}
	}

	plan := workflow.Plan(parsed, persisted, memos, req.ReplaceExisting)
	return &plan, nil
}

// monthsBounds gives the first and last calendar day covered by the drafts.
func monthsBounds(parsed workflow.ParseResult) (string, string, bool) {
	var dates []string
	for _, d := range parsed.Drafts {
		dates = append(dates, d.Date)
	}
	for _, m := range parsed.Memos {
		dates = append(dates, m.Date)
	}
	if len(dates) == 0 {
		return "", "", false
	}
	sort.Strings(dates)
	first, err1 := time.Parse("2006-01-02", dates[0])
	last, err2 := time.Parse("2006-01-02", dates[len(dates)-1])
	if err1 != nil || err2 != nil {
		return "", "", false
	}
	from := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(last.Year(), last.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	return from.Format("2006-01-02"), to.Format("2006-01-02"), true
}

func previewFromPlan(ctx context.Context, plan *workflow.ReconciliationPlan) (*previewResponse, error) {
	inserts, updates, skips, memos := plan.Counts()
	resp := &previewResponse{
		Inserts:   inserts,
		Updates:   updates,
		Skips:     skips,
		Memos:     memos,
		Deletions: len(plan.DeleteEventIds),
		Months:    plan.Months,
		Warnings:  plan.Warnings,
	}
	if resp.Warnings == nil {
		resp.Warnings = []string{}
	}
	if len(plan.DeleteEventIds) > 0 {
		n, err := models.CountReservationsForEvents(ctx, plan.DeleteEventIds)
		if err != nil {
			return nil, err
		}
		resp.Reservations = n
	}
	for _, action := range plan.Actions {
		switch a := action.(type) {
		case workflow.InsertAction:
			resp.Actions = append(resp.Actions, planActionView{
				Kind: "insert", Date: a.Draft.Date, Venue: a.Draft.Venue,
				TimeSlot: string(a.Draft.TimeSlot), Scenario: a.Draft.Scenario,
			})
		case workflow.UpdateAction:
			resp.Actions = append(resp.Actions, planActionView{
				Kind: "update", Date: a.Draft.Date, Venue: a.Draft.Venue,
				TimeSlot: string(a.Draft.TimeSlot), Scenario: a.Draft.Scenario,
			})
		case workflow.SkipAction:
			resp.Actions = append(resp.Actions, planActionView{
				Kind: "skip", Date: a.Draft.Date, Venue: a.Draft.Venue,
				TimeSlot: string(a.Draft.TimeSlot), Scenario: a.Draft.Scenario,
				Reason: a.Reason,
			})
		case workflow.MemoAction:
			resp.Actions = append(resp.Actions, planActionView{
				Kind: "memo", Date: a.Memo.Date, Venue: a.Memo.Venue, Body: a.Body,
			})
		}
	}
	return resp, nil
}

func scheduleImportPreviewHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		if _, ok := requireOrganization(c); !ok {
			return
		}
		var req importRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx := c.Request.Context()
		plan, err := buildPlan(ctx, req)
		if err != nil {
			config.LogError(logger, "importHandlers", "preview", "buildPlan", nil, err)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		resp, err := previewFromPlan(ctx, plan)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func scheduleImportExecuteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		if _, ok := requireOrganization(c); !ok {
			return
		}
		var req importRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx := c.Request.Context()
		plan, err := buildPlan(ctx, req)
		if err != nil {
			config.LogError(logger, "importHandlers", "execute", "buildPlan", nil, err)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		// Replace mode deletes every event of the month, reservations
		// included. The destructive path needs the explicit second flag.
		if req.ReplaceExisting && !req.ConfirmReplace {
			reservations, err := models.CountReservationsForEvents(ctx, plan.DeleteEventIds)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusConflict, gin.H{
				"error":                "replace mode requires confirm_replace",
				"events_to_delete":     len(plan.DeleteEventIds),
				"reservations_at_risk": reservations,
				"months":               plan.Months,
			})
			return
		}
		result, err := workflow.Execute(ctx, plan)
		if err != nil {
			if errors.Is(err, workflow.ErrImportInProgress) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// scheduleImportXlsxHandler accepts a workbook upload and runs it through
// the same pipeline as pasted text. Form fields mirror the JSON request.
func scheduleImportXlsxHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		if _, ok := requireOrganization(c); !ok {
			return
		}
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer f.Close()

		rows, err := workflow.GridFromXlsx(f, c.PostForm("sheet"))
		if err != nil {
			config.LogError(logger, "importHandlers", "xlsx", "GridFromXlsx", fileHeader.Filename, err)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		year := 0
		if v := c.PostForm("context_year"); v != "" {
			if _, err := fmt.Sscanf(v, "%d", &year); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "context_year must be a number"})
				return
			}
		}
		req := importRequest{
			RawText:     workflow.TabSeparated(rows),
			ContextYear: year,
		}
		ctx := c.Request.Context()
		plan, err := buildPlan(ctx, req)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		resp, err := previewFromPlan(ctx, plan)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// scheduleEventsHandler lists persisted events for a date range, the
// read side the calendar UI renders.
func scheduleEventsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireOrganization(c); !ok {
			return
		}
		from := c.Query("from")
		to := c.Query("to")
		if from == "" || to == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required (YYYY-MM-DD)"})
			return
		}
		events, err := models.EventsForDateRange(c.Request.Context(), from, to)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": events})
	}
}
