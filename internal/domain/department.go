package domain

// Department is a named organizational unit. Names are unique across departments.
type Department struct {
	ID   int64  `json:"departmentId"`
	Name string `json:"departmentName"`
}
