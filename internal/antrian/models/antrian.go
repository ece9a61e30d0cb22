package models

import (
	"fmt"

	pasien "github.com/c14220110/poliklinik-dispatch/internal/administrasi/models"
)

// EmergencyQueue is the status label of the emergency queue. It is never a
// valid specialty name.
const EmergencyQueue = "EMERGENCY"

// Assignment is the result of a successful enqueue.
type Assignment struct {
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	Queue       string `json:"queue"`
	Position    int    `json:"position"` // 1-based place in the queue after enqueue
	Message     string `json:"message"`
}

// Dispatch is a patient taken off the head of a queue by CallNext.
type Dispatch struct {
	Patient pasien.Patient `json:"patient"`
	Queue   string         `json:"queue"`
}

func (d Dispatch) Emergency() bool {
	return d.Queue == EmergencyQueue
}

// Announcement is the text read out when the patient is called.
func (d Dispatch) Announcement() string {
	return fmt.Sprintf("Calling patient: %s (ID: %s)", d.Patient.DisplayName(), d.Patient.ID)
}

// QueueCount is one line of the queue board.
type QueueCount struct {
	Queue   string `json:"queue"`
	Waiting int    `json:"waiting"`
}

func (q QueueCount) String() string {
	return fmt.Sprintf("%s: %d patient(s) waiting", q.Queue, q.Waiting)
}

// AssignRequest is the body of POST /api/antrian/assign.
type AssignRequest struct {
	PatientID string `json:"patient_id"`
	Specialty string `json:"specialty"`
	Emergency bool   `json:"emergency"`
}

// CalledPasien is what the call endpoint returns and broadcasts.
type CalledPasien struct {
	Patient      pasien.Patient `json:"patient"`
	Queue        string         `json:"queue"`
	Emergency    bool           `json:"emergency"`
	Announcement string         `json:"announcement"`
}
