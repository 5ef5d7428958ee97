package models

// District is an administrative area facilities and deployments are tied to.
type District struct {
	ID   string `db:"id" json:"id"`
	Code string `db:"code" json:"code" validate:"required,max=10"`
	Name string `db:"name" json:"name" validate:"required,max=100"`
}

// DistrictFilter captures list options for districts.
type DistrictFilter struct {
	Search string
	Paging
}
