package controller

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type statusRequest struct {
	Status string `json:"status"`
}

// HandleRecentPending GET /api/counselor/appointments/recent-pending
func (c *PortalController) HandleRecentPending(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	appointments, err := c.appointments.RecentPending(r.Context(), sess)
	if err != nil {
		c.fail(w, r, err, "Error retrieving appointments", envelope{"appointments": []interface{}{}})
		return
	}

	c.success(w, envelope{"appointments": nonNil(appointments)})
}

// HandleCounselorAppointments GET /api/counselor/appointments?status=
func (c *PortalController) HandleCounselorAppointments(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	appointments, err := c.appointments.ListForCounselor(r.Context(), sess, r.URL.Query().Get("status"))
	if err != nil {
		c.fail(w, r, err, "Error retrieving appointments", envelope{"appointments": []interface{}{}})
		return
	}

	c.success(w, envelope{"appointments": nonNil(appointments)})
}

// HandleUpdateStatus PUT /api/counselor/appointments/{id}/status
func (c *PortalController) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		c.fail(w, r, ErrBadID, "", nil)
		return
	}

	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.fail(w, r, err, "", nil)
		return
	}

	appointment, err := c.appointments.UpdateStatus(r.Context(), sess, id, req.Status)
	if err != nil {
		c.fail(w, r, err, "Error updating appointment", nil)
		return
	}

	c.success(w, envelope{
		"message":     "Appointment status updated",
		"appointment": appointment,
	})
}
