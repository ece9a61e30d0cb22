package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/poliklinik-dispatch/internal/antrian/models"
	"github.com/c14220110/poliklinik-dispatch/internal/antrian/services"
	"github.com/c14220110/poliklinik-dispatch/internal/common/response"
	"github.com/c14220110/poliklinik-dispatch/ws"
)

type AntrianController struct {
	Manager *services.DispatchManager
	Hub     ws.Publisher
}

func NewAntrianController(manager *services.DispatchManager, hub ws.Publisher) *AntrianController {
	return &AntrianController{Manager: manager, Hub: hub}
}

// AssignPasien puts a registered patient in a specialty queue, or in the
// emergency queue when the emergency flag is set.
func (ac *AntrianController) AssignPasien(c echo.Context) error {
	var req models.AssignRequest
	if err := c.Bind(&req); err != nil {
		return response.JSON(c, http.StatusBadRequest, "Invalid request payload", nil)
	}

	patientID := strings.TrimSpace(req.PatientID)
	if patientID == "" {
		return response.JSON(c, http.StatusBadRequest, "Please select a patient first", nil)
	}

	var (
		assignment models.Assignment
		err        error
	)
	if req.Emergency {
		assignment, err = ac.Manager.AssignToEmergencyByID(patientID)
	} else {
		assignment, err = ac.Manager.AssignToQueueByID(patientID, strings.TrimSpace(req.Specialty))
	}
	if err != nil {
		return assignError(c, err)
	}

	ac.Hub.Publish(ws.EventAntrianUpdate, ac.Manager.QueueStatus())
	return response.JSON(c, http.StatusOK, assignment.Message, assignment)
}

func assignError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrPatientNotFound):
		return response.JSON(c, http.StatusNotFound, "Patient not found", nil)
	case errors.Is(err, services.ErrUnknownSpecialty):
		return response.JSON(c, http.StatusBadRequest, "Unknown specialty", nil)
	case errors.Is(err, services.ErrNoPatientSelected):
		return response.JSON(c, http.StatusBadRequest, "Please select a patient first", nil)
	case errors.Is(err, services.ErrAlreadyQueued):
		return response.JSON(c, http.StatusConflict, "Patient is already waiting in a queue", nil)
	default:
		return response.JSON(c, http.StatusInternalServerError, "Failed to assign patient: "+err.Error(), nil)
	}
}

// CallNextPasien serves ?specialty=X. Emergency patients come out first
// whatever specialty was asked for. An empty queue is a normal 200 with no
// data.
func (ac *AntrianController) CallNextPasien(c echo.Context) error {
	specialty := strings.TrimSpace(c.QueryParam("specialty"))

	dispatch, ok := ac.Manager.CallNext(specialty)
	if !ok {
		return response.JSON(c, http.StatusOK, "No patients waiting for "+specialty+".", nil)
	}

	called := models.CalledPasien{
		Patient:      dispatch.Patient,
		Queue:        dispatch.Queue,
		Emergency:    dispatch.Emergency(),
		Announcement: dispatch.Announcement(),
	}
	ac.Hub.Publish(ws.EventAntrianCalled, called)
	ac.Hub.Publish(ws.EventAntrianUpdate, ac.Manager.QueueStatus())
	return response.JSON(c, http.StatusOK, called.Announcement, called)
}

// GetStatusAntrian returns the board lines in display order plus the same
// counts keyed by queue name.
func (ac *AntrianController) GetStatusAntrian(c echo.Context) error {
	board := ac.Manager.QueueStatus()
	lines := make([]string, 0, len(board))
	for _, qc := range board {
		lines = append(lines, qc.String())
	}
	return response.JSON(c, http.StatusOK, "Queue status retrieved successfully", map[string]interface{}{
		"queues": board,
		"counts": ac.Manager.QueueStatusSnapshot(),
		"lines":  lines,
	})
}

func (ac *AntrianController) GetWaitingList(c echo.Context) error {
	queue, err := url.PathUnescape(c.Param("queue"))
	if err != nil {
		return response.JSON(c, http.StatusBadRequest, "Invalid queue name", nil)
	}

	waiting, err := ac.Manager.Waiting(queue)
	if err != nil {
		return response.JSON(c, http.StatusBadRequest, "Unknown queue "+queue, nil)
	}
	return response.JSON(c, http.StatusOK, "Waiting list retrieved successfully", waiting)
}
