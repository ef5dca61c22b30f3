package model

type Counselor struct {
	CounselorID    string  `json:"counselor_id"`
	Name           string  `json:"name"`
	Degree         string  `json:"degree"`
	Email          string  `json:"email"`
	ContactNumber  string  `json:"contact_number"`
	ProfilePicture *string `json:"profile_picture"`
}

// DisplayName имя с учёной степенью, "Jane Doe, MA"
func (c *Counselor) DisplayName() string {
	return c.Name + ", " + c.Degree
}
