// Package transport exposes a Detector over HTTP.
package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image/png"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-corepoint/corepoint"
	"github.com/cwbudde/algo-corepoint/imageio"
	"github.com/cwbudde/algo-corepoint/internal/config"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

type Point struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

type DetectResponse struct {
	RequestID        string             `json:"request_id"`
	Filename         string             `json:"filename,omitempty"`
	Success          bool               `json:"success"`
	CorePoints       []Point            `json:"core_points,omitempty"`
	Quality          float64            `json:"quality"`
	RidgePeriod      float64            `json:"ridge_period,omitempty"`
	ProcessingTimeMS float64            `json:"processing_time_ms"`
	PatchPNG         string             `json:"patch_png,omitempty"` // base64
	Failure          *corepoint.Failure `json:"failure,omitempty"`
}

type ErrorResponse struct {
	RequestID string `json:"request_id"`
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
}

type handler struct {
	det *corepoint.Detector
	cfg *config.Config
	log logrus.FieldLogger
}

// NewHandler routes:
//
//	GET    /health
//	POST   /v1/detect   multipart field "image", optional field "filename"
//	GET    /v1/stats
//	DELETE /v1/stats
func NewHandler(det *corepoint.Detector, cfg *config.Config, log logrus.FieldLogger) http.Handler {
	h := &handler{det: det, cfg: cfg, log: log}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		requestID(),
		h.accessLog(),
		requestSizeLimiter(cfg.MaxUploadBytes),
	)

	r.GET("/health", healthCheck)
	v1 := r.Group("/v1")
	v1.POST("/detect", h.detect)
	v1.GET("/stats", h.stats)
	v1.DELETE("/stats", h.resetStats)
	return r
}

func (h *handler) detect(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		if isTooLarge(err) {
			h.respondError(c, http.StatusRequestEntityTooLarge, "upload too large", err)
			return
		}
		h.respondError(c, http.StatusBadRequest, "missing multipart field \"image\"", err)
		return
	}
	filename := c.PostForm("filename")
	if filename == "" {
		filename = fh.Filename
	}

	f, err := fh.Open()
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "unreadable upload", err)
		return
	}
	defer f.Close()

	img, err := imageio.Decode(f)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "unsupported image", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	// Detection cannot be interrupted; on timeout the result is dropped.
	done := make(chan corepoint.Result, 1)
	go func() { done <- h.det.Detect(img, filename, -1) }()

	var res corepoint.Result
	select {
	case res = <-done:
	case <-ctx.Done():
		h.respondError(c, http.StatusGatewayTimeout, "detection timed out", ctx.Err())
		return
	}

	resp := DetectResponse{
		RequestID:        c.GetString(requestIDKey),
		Filename:         filename,
		Success:          res.Success,
		Quality:          res.Quality,
		RidgePeriod:      res.RidgePeriod,
		ProcessingTimeMS: float64(res.ProcessingTime) / float64(time.Millisecond),
		Failure:          res.Failure,
	}
	for _, p := range res.CorePoints {
		resp.CorePoints = append(resp.CorePoints, Point{X: p.X, Y: p.Y, Confidence: p.Confidence})
	}

	if !res.Success {
		h.log.WithFields(logrus.Fields{
			"request_id": resp.RequestID,
			"file":       filename,
			"kind":       res.Failure.Kind,
		}).Info(res.Failure.Error())
		c.JSON(failureStatus(res.Failure), resp)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, res.Patch.Gray()); err != nil {
		h.respondError(c, http.StatusInternalServerError, "patch encoding failed", err)
		return
	}
	resp.PatchPNG = base64.StdEncoding.EncodeToString(buf.Bytes())
	c.JSON(http.StatusOK, resp)
}

func (h *handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.det.Stats())
}

func (h *handler) resetStats(c *gin.Context) {
	h.det.ResetStats()
	c.Status(http.StatusNoContent)
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "available",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func failureStatus(f *corepoint.Failure) int {
	switch f.Kind {
	case corepoint.KindInvalidInput:
		return http.StatusBadRequest
	case corepoint.KindFault:
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}

// requestID accepts a well-formed incoming id or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (h *handler) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.WithFields(logrus.Fields{
			"request_id":  c.GetString(requestIDKey),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.ClientIP(),
		}).Debug("Request handled")
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}

func (h *handler) respondError(c *gin.Context, code int, message string, err error) {
	id := c.GetString(requestIDKey)
	h.log.WithError(err).WithFields(logrus.Fields{
		"request_id":  id,
		"status_code": code,
	}).Warn(message)

	c.AbortWithStatusJSON(code, ErrorResponse{
		RequestID: id,
		Error:     message,
		Message:   err.Error(),
	})
}
