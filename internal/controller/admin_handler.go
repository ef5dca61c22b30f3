package controller

import (
	"net/http"
)

// HandleCounselorSchedules GET /api/admin/counselor-schedules
func (c *PortalController) HandleCounselorSchedules(w http.ResponseWriter, r *http.Request) {
	schedule, err := c.availability.GetSchedulesByDay(r.Context())
	if err != nil {
		c.fail(w, r, err, "Error retrieving counselor schedules", envelope{"schedules": envelope{}})
		return
	}

	if schedule.TotalCounselors == 0 {
		c.success(w, envelope{
			"message":          "No counselors found",
			"schedules":        schedule.Schedules,
			"total_counselors": 0,
		})
		return
	}

	c.success(w, envelope{
		"message":          "Counselor schedules retrieved successfully",
		"schedules":        schedule.Schedules,
		"total_counselors": schedule.TotalCounselors,
	})
}

// HandleAvailableCounselors GET /api/admin/counselors/available?day=&time=
func (c *PortalController) HandleAvailableCounselors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	res, err := c.availability.GetAvailableCounselors(r.Context(), q.Get("day"), q.Get("time"))
	if err != nil {
		c.fail(w, r, err, "Error retrieving available counselors", envelope{"counselors": []interface{}{}})
		return
	}

	message := "Available counselors retrieved successfully"
	if res.TotalAvailable == 0 {
		message = "No counselors found"
	}

	c.success(w, envelope{
		"message":         message,
		"counselors":      res.Counselors,
		"day":             res.Day,
		"time":            res.Time,
		"total_available": res.TotalAvailable,
	})
}

// HandleHistory GET /api/admin/history
func (c *PortalController) HandleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := c.appointments.History(r.Context())
	if err != nil {
		c.fail(w, r, err, "Error retrieving history", envelope{"data": []interface{}{}})
		return
	}

	c.success(w, envelope{"data": nonNil(history)})
}

// HandleReports GET /api/admin/reports?month=YYYY-MM&type=
func (c *PortalController) HandleReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	report, err := c.reports.Generate(r.Context(), q.Get("month"), q.Get("type"))
	if err != nil {
		c.fail(w, r, err, "Error generating report", nil)
		return
	}

	c.success(w, envelope{"report": report})
}

// HandleUsers GET /api/admin/users
func (c *PortalController) HandleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := c.users.List(r.Context())
	if err != nil {
		c.fail(w, r, err, "Error retrieving users", envelope{"users": []interface{}{}})
		return
	}

	c.success(w, envelope{"users": nonNil(users)})
}
