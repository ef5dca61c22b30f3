package controller

import (
	"net/http"

	"github.com/Freeeeeet/counseling_portal/internal/model"
	"github.com/Freeeeeet/counseling_portal/internal/service"
)

// HandleBook POST /api/student/appointments
func (c *PortalController) HandleBook(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	var req service.BookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.fail(w, r, err, "", nil)
		return
	}

	appointment, err := c.appointments.Book(r.Context(), sess, req)
	if err != nil {
		c.fail(w, r, err, "Error booking appointment", nil)
		return
	}

	writeJSON(w, http.StatusCreated, envelope{
		"status":      statusSuccess,
		"message":     "Appointment booked successfully",
		"appointment": appointment,
	})
}

// HandleStudentAppointments GET /api/student/appointments
func (c *PortalController) HandleStudentAppointments(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	appointments, err := c.appointments.ListForStudent(r.Context(), sess)
	if err != nil {
		c.fail(w, r, err, "Error retrieving appointments", envelope{"appointments": []interface{}{}})
		return
	}

	c.success(w, envelope{"appointments": nonNil(appointments)})
}

// HandleGetAcademicInfo GET /api/student/academic-info
func (c *PortalController) HandleGetAcademicInfo(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	info, err := c.users.GetAcademicInfo(r.Context(), sess)
	if err != nil {
		c.fail(w, r, err, "Error retrieving academic info", nil)
		return
	}

	c.success(w, envelope{"academic_info": info})
}

// HandleSaveAcademicInfo PUT /api/student/academic-info
func (c *PortalController) HandleSaveAcademicInfo(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	var req model.StudentAcademicInfo
	if err := decodeJSON(w, r, &req); err != nil {
		c.fail(w, r, err, "", nil)
		return
	}

	info, err := c.users.SaveAcademicInfo(r.Context(), sess, req)
	if err != nil {
		c.fail(w, r, err, "Error saving academic info", nil)
		return
	}

	c.success(w, envelope{
		"message":       "Academic info saved",
		"academic_info": info,
	})
}

// nonNil пустой срез вместо null в JSON
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
