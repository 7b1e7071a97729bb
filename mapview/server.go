// Copyright 2026 The Camino Authors
// SPDX-License-Identifier: Apache-2.0

// Package mapview serves the map API consumed by the mobile renderer.
package mapview

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/caminoapp/camino/cluster"
	"github.com/caminoapp/camino/pin"
	"github.com/caminoapp/camino/spatial"
	"github.com/gin-gonic/gin"
)

// maxViewportPins caps how many pins a single map query feeds the engine.
// Grouping is O(n²), so the cap keeps a pathological viewport from stalling a
// request.
const maxViewportPins = 5000

type Server struct {
	repo  pin.Repository
	cache *pin.ViewportCache // nil when redis is disabled
}

// NewServer creates the map API server. cache may be nil.
func NewServer(repo pin.Repository, cache *pin.ViewportCache) *Server {
	return &Server{
		repo:  repo,
		cache: cache,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/api/map/items", s.getMapItems)
	r.GET("/api/map/heatmap", s.getHeatmap)
	r.GET("/api/pins/search", s.searchPins)
	r.GET("/api/pins/stats", s.getStats)
	r.POST("/api/pins", s.createPin)
	r.POST("/api/pins/:id/visited", s.setPinVisited)

	return r
}

// Run starts the HTTP server on addr.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

// MapItem is the wire shape of one marker. Type is "pin" or "cluster";
// cluster items additionally carry count, member ids, and the size tier the
// renderer uses for marker diameter and label font.
type MapItem struct {
	Type      string        `json:"type"`
	ID        string        `json:"id"`
	Point     spatial.Point `json:"point"`
	Visited   bool          `json:"visited"`
	Title     string        `json:"title,omitempty"`
	Count     int           `json:"count,omitempty"`
	SizeTier  string        `json:"size_tier,omitempty"`
	MemberIDs []string      `json:"member_ids,omitempty"`
}

// MapItemsResponse is the body of GET /api/map/items.
type MapItemsResponse struct {
	Zoom  float64   `json:"zoom"`
	Items []MapItem `json:"items"`
}

func parseFloatQuery(ctx *gin.Context, name string) (float64, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": name + " query parameter is required"})

		return 0, false
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " parameter"})

		return 0, false
	}

	return value, true
}

func (s *Server) getMapItems(ctx *gin.Context) {
	lat, ok := parseFloatQuery(ctx, "lat")
	if !ok {
		return
	}

	lng, ok := parseFloatQuery(ctx, "lng")
	if !ok {
		return
	}

	spanLat, ok := parseFloatQuery(ctx, "span_lat")
	if !ok {
		return
	}

	spanLng, ok := parseFloatQuery(ctx, "span_lng")
	if !ok {
		return
	}

	viewport := spatial.Viewport{
		Center:  spatial.Point{Lat: lat, Lng: lng},
		SpanLat: spanLat,
		SpanLng: spanLng,
	}

	pins, err := s.pinsInViewport(ctx, viewport)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	input := make([]cluster.Pin, 0, len(pins))
	byID := make(map[string]*pin.Pin, len(pins))

	for _, p := range pins {
		input = append(input, cluster.Pin{
			ID:      p.ID,
			Point:   p.Point,
			Visited: p.Visited,
		})
		byID[p.ID] = p
	}

	items := cluster.Pins(input, viewport)

	response := MapItemsResponse{
		Zoom:  cluster.ZoomForSpan(viewport.SpanLng),
		Items: make([]MapItem, 0, len(items)),
	}

	for _, item := range items {
		switch v := item.(type) {
		case cluster.Single:
			out := MapItem{
				Type:    "pin",
				ID:      v.Pin.ID,
				Point:   v.Pin.Point,
				Visited: v.Pin.Visited,
			}
			if stored, ok := byID[v.Pin.ID]; ok {
				out.Title = stored.Title
			}

			response.Items = append(response.Items, out)
		case cluster.Cluster:
			response.Items = append(response.Items, MapItem{
				Type:      "cluster",
				ID:        v.ID,
				Point:     v.Point,
				Visited:   v.Visited,
				Count:     v.Count,
				SizeTier:  cluster.TierForCount(v.Count).String(),
				MemberIDs: v.MemberIDs,
			})
		}
	}

	ctx.JSON(http.StatusOK, response)
}

// pinsInViewport fetches pins through the cache when one is configured.
func (s *Server) pinsInViewport(ctx *gin.Context, viewport spatial.Viewport) ([]*pin.Pin, error) {
	if s.cache != nil {
		if pins, ok := s.cache.Get(ctx.Request.Context(), viewport); ok {
			return pins, nil
		}
	}

	pins, err := s.repo.ListInViewport(viewport, maxViewportPins)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx.Request.Context(), viewport, pins); err != nil {
			log.Printf("failed to cache viewport pins: %v", err)
		}
	}

	return pins, nil
}

func (s *Server) getHeatmap(ctx *gin.Context) {
	res := 5

	if raw := ctx.Query("res"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid res parameter"})

			return
		}

		res = parsed
	}

	cells, err := s.repo.CellCounts(res)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"res":   res,
		"cells": cells,
	})
}

func (s *Server) searchPins(ctx *gin.Context) {
	query := ctx.Query("q")
	if query == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "q query parameter is required"})

		return
	}

	limit := 50

	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})

			return
		}

		limit = parsed
	}

	pins, err := s.repo.Search(query, limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, pins)
}

// CreatePinRequest is the body of POST /api/pins.
type CreatePinRequest struct {
	Title     string  `json:"title"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Visited   bool    `json:"visited"`
}

func (s *Server) createPin(ctx *gin.Context) {
	var req CreatePinRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	p := &pin.Pin{
		Title:   req.Title,
		Visited: req.Visited,
		Point: spatial.Point{
			Lat: req.Latitude,
			Lng: req.Longitude,
		},
	}

	if err := p.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err := s.repo.Save(p); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	s.invalidateCache(ctx)

	ctx.JSON(http.StatusOK, p)
}

// SetVisitedRequest is the body of POST /api/pins/:id/visited.
type SetVisitedRequest struct {
	Visited bool `json:"visited"`
}

func (s *Server) setPinVisited(ctx *gin.Context) {
	id := ctx.Param("id")

	var req SetVisitedRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err := s.repo.SetVisited(id, req.Visited); err != nil {
		if errors.Is(err, pin.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "pin not found"})

			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	s.invalidateCache(ctx)

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// StatsResponse holds pin totals for the profile screen.
type StatsResponse struct {
	TotalPins         int     `json:"total_pins"`
	VisitedPins       int     `json:"visited_pins"`
	VisitedPercentage float64 `json:"visited_percentage"`
}

func (s *Server) getStats(ctx *gin.Context) {
	total, visited, err := s.repo.Count()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	pct := 0.0
	if total > 0 {
		pct = (float64(visited) / float64(total)) * 100
	}

	ctx.JSON(http.StatusOK, StatsResponse{
		TotalPins:         total,
		VisitedPins:       visited,
		VisitedPercentage: pct,
	})
}

func (s *Server) invalidateCache(ctx *gin.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Invalidate(ctx.Request.Context()); err != nil {
		log.Printf("failed to invalidate viewport cache: %v", err)
	}
}
