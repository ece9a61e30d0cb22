package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pasien "github.com/c14220110/poliklinik-dispatch/internal/administrasi/models"
	"github.com/c14220110/poliklinik-dispatch/internal/antrian/models"
	"github.com/c14220110/poliklinik-dispatch/internal/antrian/services"
	"github.com/c14220110/poliklinik-dispatch/ws"
)

type recordingHub struct {
	types []string
}

func (h *recordingHub) Publish(eventType string, _ interface{}) {
	h.types = append(h.types, eventType)
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, rec.Code, env.Status)
	return env
}

func newAntrianController(t *testing.T, policy services.DuplicatePolicy) (*AntrianController, *recordingHub) {
	t.Helper()
	m, err := services.NewDispatchManager(services.Options{DuplicatePolicy: policy})
	require.NoError(t, err)
	require.NoError(t, m.Register(pasien.NewPatient("01234567-8", "Juan Pérez", 35, "Dolor de pecho")))
	require.NoError(t, m.Register(pasien.NewPatient("98765432-1", "María López", 28, "Control")))
	hub := &recordingHub{}
	return NewAntrianController(m, hub), hub
}

func assign(t *testing.T, ac *AntrianController, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	c, rec := newContext(http.MethodPost, "/api/antrian/assign", body)
	require.NoError(t, ac.AssignPasien(c))
	return rec, decode(t, rec)
}

func callNext(t *testing.T, ac *AntrianController, specialty string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	c, rec := newContext(http.MethodPost, "/api/antrian/call", "")
	c.QueryParams().Set("specialty", specialty)
	require.NoError(t, ac.CallNextPasien(c))
	return rec, decode(t, rec)
}

func TestAssignPasien_Specialty(t *testing.T) {
	ac, hub := newAntrianController(t, services.AllowDuplicates)

	rec, env := assign(t, ac, `{"patient_id":"01234567-8","specialty":"Cardiology"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Patient Juan Pérez assigned to the Cardiology queue.", env.Message)
	var got models.Assignment
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Cardiology", got.Queue)
	assert.Equal(t, 1, got.Position)
	assert.Equal(t, 1, ac.Manager.QueueStatusSnapshot()["Cardiology"])
	assert.Equal(t, []string{ws.EventAntrianUpdate}, hub.types)
}

func TestAssignPasien_Emergency(t *testing.T) {
	ac, _ := newAntrianController(t, services.AllowDuplicates)

	rec, env := assign(t, ac, `{"patient_id":"98765432-1","specialty":"Dermatology","emergency":true}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got models.Assignment
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, models.EmergencyQueue, got.Queue)
	snap := ac.Manager.QueueStatusSnapshot()
	assert.Equal(t, 1, snap[models.EmergencyQueue])
	assert.Equal(t, 0, snap["Dermatology"])
}

func TestAssignPasien_Errors(t *testing.T) {
	cases := []struct {
		name   string
		policy services.DuplicatePolicy
		setup  string
		body   string
		status int
	}{
		{"no patient", services.AllowDuplicates, "", `{"specialty":"Cardiology"}`, http.StatusBadRequest},
		{"unknown patient", services.AllowDuplicates, "", `{"patient_id":"nobody","specialty":"Cardiology"}`, http.StatusNotFound},
		{"unknown patient and specialty", services.AllowDuplicates, "", `{"patient_id":"nobody","specialty":"Neurology"}`, http.StatusNotFound},
		{"unknown specialty", services.AllowDuplicates, "", `{"patient_id":"01234567-8","specialty":"Neurology"}`, http.StatusBadRequest},
		{"missing specialty", services.AllowDuplicates, "", `{"patient_id":"01234567-8"}`, http.StatusBadRequest},
		{"already queued", services.RejectIfQueued, `{"patient_id":"01234567-8","specialty":"Pediatrics"}`, `{"patient_id":"01234567-8","specialty":"Cardiology"}`, http.StatusConflict},
		{"malformed", services.AllowDuplicates, "", `{"patient_id":`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ac, hub := newAntrianController(t, tc.policy)
			if tc.setup != "" {
				rec, _ := assign(t, ac, tc.setup)
				require.Equal(t, http.StatusOK, rec.Code)
			}
			before := ac.Manager.QueueStatusSnapshot()
			published := len(hub.types)

			rec, env := assign(t, ac, tc.body)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "null", string(env.Data))
			assert.Equal(t, before, ac.Manager.QueueStatusSnapshot())
			assert.Len(t, hub.types, published)
		})
	}
}

func TestCallNextPasien_EmergencyFirst(t *testing.T) {
	ac, hub := newAntrianController(t, services.AllowDuplicates)
	assign(t, ac, `{"patient_id":"01234567-8","specialty":"Cardiology"}`)
	assign(t, ac, `{"patient_id":"98765432-1","emergency":true}`)
	hub.types = nil

	rec, env := callNext(t, ac, "Cardiology")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Calling patient: María López (ID: 98765432-1)", env.Message)
	var got models.CalledPasien
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.True(t, got.Emergency)
	assert.Equal(t, models.EmergencyQueue, got.Queue)
	assert.Equal(t, []string{ws.EventAntrianCalled, ws.EventAntrianUpdate}, hub.types)

	_, env = callNext(t, ac, "Cardiology")
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.False(t, got.Emergency)
	assert.Equal(t, "01234567-8", got.Patient.ID)
}

func TestCallNextPasien_NobodyWaiting(t *testing.T) {
	ac, hub := newAntrianController(t, services.AllowDuplicates)

	for _, specialty := range []string{"Pediatrics", "Neurology"} {
		rec, env := callNext(t, ac, specialty)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "No patients waiting for "+specialty+".", env.Message)
		assert.Equal(t, "null", string(env.Data))
	}
	assert.Empty(t, hub.types)
}

func TestGetStatusAntrian(t *testing.T) {
	ac, _ := newAntrianController(t, services.AllowDuplicates)
	assign(t, ac, `{"patient_id":"01234567-8","specialty":"Pediatrics"}`)
	assign(t, ac, `{"patient_id":"98765432-1","emergency":true}`)

	c, rec := newContext(http.MethodGet, "/api/antrian/status", "")
	require.NoError(t, ac.GetStatusAntrian(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Queues []models.QueueCount `json:"queues"`
		Counts map[string]int      `json:"counts"`
		Lines  []string            `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &data))
	assert.Equal(t, []models.QueueCount{
		{Queue: models.EmergencyQueue, Waiting: 1},
		{Queue: "General Medicine", Waiting: 0},
		{Queue: "Cardiology", Waiting: 0},
		{Queue: "Pediatrics", Waiting: 1},
		{Queue: "Dermatology", Waiting: 0},
	}, data.Queues)
	assert.Equal(t, 1, data.Counts["Pediatrics"])
	assert.Len(t, data.Counts, 5)
	assert.Equal(t, "EMERGENCY: 1 patient(s) waiting", data.Lines[0])
}

func TestGetWaitingList(t *testing.T) {
	ac, _ := newAntrianController(t, services.AllowDuplicates)
	assign(t, ac, `{"patient_id":"98765432-1","specialty":"General Medicine"}`)
	assign(t, ac, `{"patient_id":"01234567-8","specialty":"General Medicine"}`)

	c, rec := newContext(http.MethodGet, "/api/antrian/General%20Medicine/waiting", "")
	c.SetParamNames("queue")
	c.SetParamValues("General%20Medicine")
	require.NoError(t, ac.GetWaitingList(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []pasien.Patient
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "98765432-1", got[0].ID)
	assert.Equal(t, "01234567-8", got[1].ID)
}

func TestGetWaitingList_UnknownQueue(t *testing.T) {
	ac, _ := newAntrianController(t, services.AllowDuplicates)

	c, rec := newContext(http.MethodGet, "/api/antrian/Neurology/waiting", "")
	c.SetParamNames("queue")
	c.SetParamValues("Neurology")
	require.NoError(t, ac.GetWaitingList(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
