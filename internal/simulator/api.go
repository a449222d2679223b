package simulator

import (
	"net/http"
	"strings"

	"autoprint/internal/models"

	"github.com/gin-gonic/gin"
)

const apiKeyHeader = "X-Api-Key"

type stateWire struct {
	Printer         bool `json:"printer"`
	Light           bool `json:"light"`
	Cooldown        bool `json:"cooldown"`
	Connected       bool `json:"connected"`
	PrintInProgress bool `json:"printInProgress"`
}

type jobWire struct {
	ID                string         `json:"id"`
	File              string         `json:"file"`
	Folder            string         `json:"folder"`
	Time              int64          `json:"time"`
	StartTime         int64          `json:"startTime"`
	TurnOffAfterPrint bool           `json:"turnOffAfterPrint"`
	StartFinish       models.Trigger `json:"startFinish"`
}

type stateResponse struct {
	State        stateWire `json:"state"`
	ScheduledJob *jobWire  `json:"scheduledJob"`
}

type commandRequest struct {
	Command           string         `json:"command"`
	File              string         `json:"file"`
	Folder            string         `json:"folder"`
	Time              float64        `json:"time"`
	TurnOffAfterPrint bool           `json:"turnOffAfterPrint"`
	StartFinish       models.Trigger `json:"startFinish"`
}

type fieldErrorWire struct {
	Parameter string `json:"parameter"`
	Msg       string `json:"msg"`
}

func toJobWire(j Job) *jobWire {
	return &jobWire{
		ID:                j.ID,
		File:              j.File,
		Folder:            j.Folder,
		Time:              j.Time.UnixMilli(),
		StartTime:         j.StartTime.UnixMilli(),
		TurnOffAfterPrint: j.TurnOffAfterPrint,
		StartFinish:       j.Trigger,
	}
}

// Routes returns the controller API served by the simulator. A non-empty
// apiKey must be presented in the X-Api-Key header.
func (s *Simulator) Routes(apiKey string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requireAPIKey(apiKey))

	r.GET("/api/plugin/autoprint", s.getState)
	r.POST("/api/plugin/autoprint", s.postCommand)
	r.GET("/api/files", s.listFiles)
	r.GET("/api/files/*location", s.listLocation)
	return r
}

func requireAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key != "" && c.GetHeader(apiKeyHeader) != key {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid api key"})
			return
		}
		c.Next()
	}
}

func (s *Simulator) getState(c *gin.Context) {
	resp := stateResponse{State: stateWire(s.State())}
	if j := s.CurrentJob(); j != nil {
		resp.ScheduledJob = toJobWire(*j)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Simulator) postCommand(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	switch req.Command {
	case "startUpPrinter":
		s.StartUp()
	case "shutDownPrinter":
		s.ShutDown()
	case "cancelShutDown":
		s.CancelShutDown()
	case "toggleLight":
		s.ToggleLight()
	case "scheduleJob":
		job, errs := s.Schedule(ScheduleRequest{
			File:              req.File,
			Folder:            req.Folder,
			TimeMs:            int64(req.Time),
			TurnOffAfterPrint: req.TurnOffAfterPrint,
			Trigger:           req.StartFinish,
		})
		if len(errs) > 0 {
			out := make([]fieldErrorWire, 0, len(errs))
			for _, e := range errs {
				out = append(out, fieldErrorWire{Parameter: e.Parameter, Msg: e.Message})
			}
			c.JSON(http.StatusBadRequest, gin.H{"errors": out})
			return
		}
		c.JSON(http.StatusOK, toJobWire(job))
		return
	case "cancelJob":
		s.Cancel()
		c.JSON(http.StatusOK, gin.H{})
		return
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown command " + req.Command})
		return
	}
	c.Status(http.StatusNoContent)
}

// listFiles answers the full storage listing (recursive only on request).
func (s *Simulator) listFiles(c *gin.Context) {
	recursive := c.Query("recursive") == "true"
	c.JSON(http.StatusOK, gin.H{"files": s.store.tree("", recursive)})
}

// listLocation answers /api/files/local and /api/files/local/<folder>. The
// root yields its entries under "files"; a folder yields itself with "children".
func (s *Simulator) listLocation(c *gin.Context) {
	loc := strings.Trim(c.Param("location"), "/")
	origin, rest, _ := strings.Cut(loc, "/")
	if origin != "local" {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown location"})
		return
	}
	recursive := c.Query("recursive") == "true"
	if rest == "" {
		c.JSON(http.StatusOK, gin.H{"files": s.store.tree("", recursive)})
		return
	}
	if !s.store.isFolder(rest) {
		c.JSON(http.StatusNotFound, gin.H{"error": "folder not found"})
		return
	}
	name := rest
	if i := strings.LastIndexByte(rest, '/'); i >= 0 {
		name = rest[i+1:]
	}
	c.JSON(http.StatusOK, gin.H{
		"name":     name,
		"path":     rest,
		"type":     models.NodeFolder,
		"children": s.store.tree(rest, recursive),
	})
}
